package inventory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the storage contract for daily production records.
type Repository interface {
	ByDate(ctx context.Context, date string) (map[int64]Record, error)
	Upsert(ctx context.Context, rec Record) error
	Settings(ctx context.Context) (*Settings, error)
	SaveSettings(ctx context.Context, s Settings) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ByDate(ctx context.Context, date string) (map[int64]Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, date, product_id, total_baked, locked, updated_at
		FROM inventory_records WHERE date = $1`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]Record)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.ProductID, &rec.TotalBaked,
			&rec.Locked, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out[rec.ProductID] = rec
	}
	return out, rows.Err()
}

func (r *repository) Upsert(ctx context.Context, rec Record) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO inventory_records (date, product_id, total_baked, locked, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (date, product_id)
		DO UPDATE SET total_baked = EXCLUDED.total_baked, locked = EXCLUDED.locked, updated_at = NOW()`,
		rec.Date, rec.ProductID, rec.TotalBaked, rec.Locked)
	return err
}

func (r *repository) Settings(ctx context.Context) (*Settings, error) {
	var s Settings
	err := r.pool.QueryRow(ctx, `
		SELECT enabled_categories, updated_at FROM inventory_settings WHERE id = 1`,
	).Scan(&s.EnabledCategories, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &Settings{EnabledCategories: []string{}}, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) SaveSettings(ctx context.Context, s Settings) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO inventory_settings (id, enabled_categories, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET enabled_categories = EXCLUDED.enabled_categories, updated_at = NOW()`,
		s.EnabledCategories)
	return err
}
