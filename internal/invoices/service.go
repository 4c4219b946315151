package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oako/backoffice/internal/orders"
)

const dueTerm = 30 * 24 * time.Hour

// Service wraps invoice generation and lookup.
type Service struct {
	repo   Repository
	orders orders.Repository
	now    func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository, orderRepo orders.Repository) *Service {
	return &Service{repo: repo, orders: orderRepo, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// List returns all invoices, newest first.
func (s *Service) List(ctx context.Context) ([]Invoice, error) {
	return s.repo.List(ctx)
}

// Get fetches one invoice.
func (s *Service) Get(ctx context.Context, id int64) (*Invoice, error) {
	return s.repo.Get(ctx, id)
}

// CreateFromOrder generates an invoice for the order, freezing its line items
// and total. Idempotent: a second call for the same order returns the
// existing invoice untouched.
func (s *Service) CreateFromOrder(ctx context.Context, orderID int64) (*Invoice, error) {
	existing, err := s.repo.GetByOrder(ctx, orderID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order for invoice: %w", err)
	}

	now := s.now()
	id, err := s.repo.Create(ctx, Invoice{
		OrderID:       orderID,
		InvoiceNumber: generateNumber(now),
		CustomerName:  order.CustomerName,
		Items:         order.Items,
		TotalAmount:   order.TotalAmount,
		DueDate:       now.Add(dueTerm),
	})
	if errors.Is(err, ErrDuplicate) {
		// Lost a race with a concurrent generation; hand back the winner.
		return s.repo.GetByOrder(ctx, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// generateNumber derives an INV- number from the last six digits of the
// millisecond clock.
func generateNumber(now time.Time) string {
	return fmt.Sprintf("INV-%06d", now.UnixMilli()%1_000_000)
}
