package settings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the storage contract for the settings document.
type Repository interface {
	Get(ctx context.Context) (*InvoiceSettings, error)
	Save(ctx context.Context, s InvoiceSettings) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context) (*InvoiceSettings, error) {
	var s InvoiceSettings
	err := r.pool.QueryRow(ctx, `
		SELECT company_name, address, phone, website, bank_info, qr_text,
		       default_tax_rate, footer_text, updated_at
		FROM invoice_settings WHERE id = 1`,
	).Scan(&s.CompanyName, &s.Address, &s.Phone, &s.Website, &s.BankInfo, &s.QRText,
		&s.DefaultTaxRate, &s.FooterText, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) Save(ctx context.Context, s InvoiceSettings) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO invoice_settings (id, company_name, address, phone, website, bank_info,
			qr_text, default_tax_rate, footer_text, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			address = EXCLUDED.address,
			phone = EXCLUDED.phone,
			website = EXCLUDED.website,
			bank_info = EXCLUDED.bank_info,
			qr_text = EXCLUDED.qr_text,
			default_tax_rate = EXCLUDED.default_tax_rate,
			footer_text = EXCLUDED.footer_text,
			updated_at = NOW()`,
		s.CompanyName, s.Address, s.Phone, s.Website, s.BankInfo, s.QRText,
		s.DefaultTaxRate, s.FooterText)
	return err
}
