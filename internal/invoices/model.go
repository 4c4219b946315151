package invoices

import (
	"time"

	"github.com/oako/backoffice/internal/orders"
)

// Invoice is a billing document generated from an order. Line items are
// frozen at generation time so later order edits never change an issued
// invoice.
type Invoice struct {
	ID            int64         `json:"id"`
	OrderID       int64         `json:"order_id"`
	InvoiceNumber string        `json:"invoice_number"`
	CustomerName  string        `json:"customer_name"`
	Items         []orders.Item `json:"items"`
	TotalAmount   float64       `json:"total_amount"`
	DueDate       time.Time     `json:"due_date"`
	CreatedAt     time.Time     `json:"created_at"`
}
