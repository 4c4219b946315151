package orders

import (
	"strconv"
	"strings"
	"time"

	"github.com/oako/backoffice/internal/stats"
)

// OrderStatus re-exports the closed status set shared with the stats engine.
type OrderStatus = stats.OrderStatus

const (
	StatusDraft     = stats.StatusDraft
	StatusPending   = stats.StatusPending
	StatusConfirmed = stats.StatusConfirmed
	StatusFulfilled = stats.StatusFulfilled
	StatusPaid      = stats.StatusPaid
	StatusCancelled = stats.StatusCancelled
)

// Item is one line of an order, stored as JSONB alongside the order row.
type Item struct {
	ProductID int64   `json:"product_id,omitempty"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// Order is a customer order as persisted.
type Order struct {
	ID               int64       `json:"id" db:"id"`
	CustomerID       *int64      `json:"customer_id,omitempty" db:"customer_id"`
	CustomerName     string      `json:"customer_name" db:"customer_name"`
	Status           OrderStatus `json:"status" db:"status"`
	Items            []Item      `json:"items" db:"items"`
	TotalAmount      float64     `json:"total_amount" db:"total_amount"`
	OrderDate        *time.Time  `json:"order_date,omitempty" db:"order_date"`
	Notes            string      `json:"notes" db:"notes"`
	InvoiceGenerated bool        `json:"invoice_generated" db:"invoice_generated"`
	CreatedBy        string      `json:"created_by" db:"created_by"`
	CreatedAt        *time.Time  `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at" db:"updated_at"`
}

// EnrichedOrder carries the ingestion-time normalization the dashboard and
// stats engine rely on: one effective date, aging, category.
type EnrichedOrder struct {
	Order
	Category      string    `json:"category"`
	EffectiveDate time.Time `json:"effective_date"`
	AgingDays     int       `json:"aging_days"`
	MissingDate   bool      `json:"missing_date"`
	IsOutstanding bool      `json:"is_outstanding"`
}

// Enrich normalizes orders against the clock and a customerName→category map.
// The effective date prefers the user-set order date, then the creation
// timestamp; records with neither are pinned to now and flagged so the
// dashboard can surface them instead of hiding stale data.
func Enrich(list []Order, categories map[string]string, now time.Time) []EnrichedOrder {
	out := make([]EnrichedOrder, 0, len(list))
	for _, o := range list {
		e := EnrichedOrder{Order: o, Category: categoryFor(o.CustomerName, categories)}

		switch {
		case o.OrderDate != nil && !o.OrderDate.IsZero():
			e.EffectiveDate = *o.OrderDate
		case o.CreatedAt != nil && !o.CreatedAt.IsZero():
			e.EffectiveDate = *o.CreatedAt
		default:
			e.EffectiveDate = now
			e.MissingDate = true
		}

		if days := int(now.Sub(e.EffectiveDate).Hours() / 24); days > 0 {
			e.AgingDays = days
		}
		e.IsOutstanding = o.Status.IsOutstanding()
		out = append(out, e)
	}
	return out
}

func categoryFor(customerName string, categories map[string]string) string {
	if cat, ok := categories[strings.ToLower(strings.TrimSpace(customerName))]; ok {
		return cat
	}
	return "C"
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ToStatsOrders projects enriched orders into the stats engine's input type.
func ToStatsOrders(list []EnrichedOrder) []stats.Order {
	out := make([]stats.Order, 0, len(list))
	for _, e := range list {
		out = append(out, stats.Order{
			ID:            formatID(e.ID),
			CustomerName:  e.CustomerName,
			Status:        e.Status,
			TotalAmount:   e.TotalAmount,
			EffectiveDate: e.EffectiveDate,
			AgingDays:     e.AgingDays,
			MissingDate:   e.MissingDate,
		})
	}
	return out
}
