package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CreateCustomerRequest carries form input for a new customer.
type CreateCustomerRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	CompanyName string `json:"company_name" validate:"omitempty,max=200"`
	Category    string `json:"category" validate:"omitempty,oneof=A B C"`
	Phone       string `json:"phone" validate:"omitempty,max=50"`
	Email       string `json:"email" validate:"omitempty,email"`
	Address     string `json:"address" validate:"omitempty,max=500"`
	Notes       string `json:"notes"`
}

// UpdateCustomerRequest mirrors the create form for edits.
type UpdateCustomerRequest CreateCustomerRequest

// Service wraps customer business rules.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// List returns active customers sorted by display name.
func (s *Service) List(ctx context.Context) ([]Customer, error) {
	return s.repo.List(ctx, false)
}

// Get fetches one customer.
func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

// Create validates and stores a new customer. The concentration category
// defaults to C until someone classifies the account.
func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate customer: %w", err)
	}
	c := Customer{
		Name:        strings.TrimSpace(req.Name),
		CompanyName: strings.TrimSpace(req.CompanyName),
		Category:    req.Category,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		Notes:       req.Notes,
	}
	if c.Category == "" {
		c.Category = CategoryC
	}
	id, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Update validates and applies edits.
func (s *Service) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*Customer, error) {
	if err := s.validate.Struct(CreateCustomerRequest(req)); err != nil {
		return nil, fmt.Errorf("validate customer: %w", err)
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Name = strings.TrimSpace(req.Name)
	existing.CompanyName = strings.TrimSpace(req.CompanyName)
	if req.Category != "" {
		existing.Category = req.Category
	}
	existing.Phone = req.Phone
	existing.Email = req.Email
	existing.Address = req.Address
	existing.Notes = req.Notes
	if err := s.repo.Update(ctx, *existing); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Archive hides a customer from listings without deleting history.
func (s *Service) Archive(ctx context.Context, id int64) error {
	return s.repo.SetArchived(ctx, id, true)
}

// CategoryMap indexes concentration categories by lower-cased display name,
// the shape the dashboard joins orders against.
func CategoryMap(list []Customer) map[string]string {
	m := make(map[string]string, len(list))
	for _, c := range list {
		key := strings.ToLower(strings.TrimSpace(c.DisplayName()))
		if key != "" {
			m[key] = c.Category
		}
	}
	return m
}
