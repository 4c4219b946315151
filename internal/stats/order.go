// Package stats computes everything the dashboard renders: KPI deltas
// against the previous period, day-bucketed revenue series, aging and
// concentration breakdowns, and predictive signals. It is pure computation
// over an in-memory snapshot of orders; it performs no I/O and never mutates
// its inputs.
package stats

import "time"

// OrderStatus is the closed set of order states.
type OrderStatus string

const (
	StatusDraft     OrderStatus = "draft"
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusFulfilled OrderStatus = "fulfilled"
	StatusPaid      OrderStatus = "paid"
	StatusCancelled OrderStatus = "cancelled"
)

// CountsAsRevenue reports whether the status contributes to revenue.
func (s OrderStatus) CountsAsRevenue() bool {
	return s == StatusConfirmed || s == StatusFulfilled || s == StatusPaid
}

// IsOutstanding reports whether money is still owed on the order.
func (s OrderStatus) IsOutstanding() bool {
	return s == StatusConfirmed || s == StatusFulfilled
}

// Order is the read-only input record. EffectiveDate is normalized at
// ingestion (order date, else creation timestamp, else "now" with
// MissingDate set) so the engine only ever sees one timestamp type.
type Order struct {
	ID            string
	CustomerName  string
	Status        OrderStatus
	TotalAmount   float64
	EffectiveDate time.Time
	AgingDays     int
	MissingDate   bool
}
