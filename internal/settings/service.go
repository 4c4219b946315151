package settings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// Service serves and persists the settings document. Reads merge stored
// values over Defaults so a fresh database still renders a usable page.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the effective settings, falling back to Defaults until the
// first save.
func (s *Service) Get(ctx context.Context) (InvoiceSettings, error) {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Defaults(), nil
		}
		return InvoiceSettings{}, err
	}
	return merge(*stored), nil
}

// Update persists the settings document.
func (s *Service) Update(ctx context.Context, in InvoiceSettings) error {
	return s.repo.Save(ctx, merge(in))
}

// merge backfills empty fields from Defaults.
func merge(in InvoiceSettings) InvoiceSettings {
	def := Defaults()
	if in.CompanyName == "" {
		in.CompanyName = def.CompanyName
	}
	if in.Address == "" {
		in.Address = def.Address
	}
	if in.Phone == "" {
		in.Phone = def.Phone
	}
	if in.Website == "" {
		in.Website = def.Website
	}
	if in.BankInfo == "" {
		in.BankInfo = def.BankInfo
	}
	if in.QRText == "" {
		in.QRText = def.QRText
	}
	if in.DefaultTaxRate == 0 {
		in.DefaultTaxRate = def.DefaultTaxRate
	}
	if in.FooterText == "" {
		in.FooterText = def.FooterText
	}
	return in
}
