package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidStatus signals a disallowed status transition.
var ErrInvalidStatus = errors.New("invalid status transition")

// validTransitions encodes the order lifecycle. Draft and pending orders can
// be cancelled; money states only move forward.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusDraft:     {StatusPending, StatusConfirmed, StatusCancelled},
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusFulfilled, StatusPaid, StatusCancelled},
	StatusFulfilled: {StatusPaid},
}

// ItemRequest is one order line from the create/edit form.
type ItemRequest struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name" validate:"required,max=200"`
	Quantity  float64 `json:"quantity" validate:"gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
}

// CreateOrderRequest carries the order form.
type CreateOrderRequest struct {
	CustomerID   *int64        `json:"customer_id,omitempty"`
	CustomerName string        `json:"customer_name" validate:"required,max=200"`
	OrderDate    *time.Time    `json:"order_date,omitempty"`
	Notes        string        `json:"notes"`
	Items        []ItemRequest `json:"items" validate:"required,min=1,dive"`
}

// Service wraps order business rules.
type Service struct {
	repo     Repository
	validate *validator.Validate
	now      func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New(), now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

// Get fetches one order.
func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.Get(ctx, id)
}

// LastByCustomer returns the customer's most recent order, nil when none
// exists. Lookup failures degrade to nil so order creation never blocks on
// the convenience prefill.
func (s *Service) LastByCustomer(ctx context.Context, customerName string) *Order {
	o, err := s.repo.LastByCustomer(ctx, customerName)
	if err != nil {
		return nil
	}
	return o
}

// Create validates the form, totals the lines and stores a draft order.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest, createdBy string) (*Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate order: %w", err)
	}

	var total float64
	items := make([]Item, 0, len(req.Items))
	for _, line := range req.Items {
		lineTotal := line.Quantity * line.UnitPrice
		items = append(items, Item{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Total:     lineTotal,
		})
		total += lineTotal
	}

	id, err := s.repo.Create(ctx, Order{
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Status:       StatusDraft,
		Items:        items,
		TotalAmount:  total,
		OrderDate:    req.OrderDate,
		Notes:        req.Notes,
		CreatedBy:    createdBy,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Update edits an order that has not yet entered the money states.
func (s *Service) Update(ctx context.Context, id int64, req CreateOrderRequest) (*Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate order: %w", err)
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status != StatusDraft && existing.Status != StatusPending {
		return nil, fmt.Errorf("%w: only draft or pending orders can be edited", ErrInvalidStatus)
	}

	var total float64
	items := make([]Item, 0, len(req.Items))
	for _, line := range req.Items {
		lineTotal := line.Quantity * line.UnitPrice
		items = append(items, Item{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Total:     lineTotal,
		})
		total += lineTotal
	}

	existing.CustomerID = req.CustomerID
	existing.CustomerName = req.CustomerName
	existing.Items = items
	existing.TotalAmount = total
	existing.OrderDate = req.OrderDate
	existing.Notes = req.Notes
	if err := s.repo.Update(ctx, *existing); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// UpdateStatus applies a lifecycle transition.
func (s *Service) UpdateStatus(ctx context.Context, id int64, target OrderStatus) (*Order, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(existing.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, existing.Status, target)
	}
	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func transitionAllowed(from, to OrderStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
