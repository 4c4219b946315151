package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrRecordLocked signals an attempt to edit a day that was closed out.
var ErrRecordLocked = errors.New("production record is locked")

const dateLayout = "2006-01-02"

// Service wraps the daily production sheet.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Daily returns the day's records keyed by product.
func (s *Service) Daily(ctx context.Context, date string) (map[int64]Record, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid inventory date %q: %w", date, err)
	}
	return s.repo.ByDate(ctx, date)
}

// Save upserts one product's figures for the day. A locked record stays
// frozen until it is explicitly unlocked.
func (s *Service) Save(ctx context.Context, rec Record) error {
	if _, err := time.Parse(dateLayout, rec.Date); err != nil {
		return fmt.Errorf("invalid inventory date %q: %w", rec.Date, err)
	}
	if rec.TotalBaked < 0 {
		return fmt.Errorf("total baked must not be negative")
	}
	existing, err := s.repo.ByDate(ctx, rec.Date)
	if err != nil {
		return err
	}
	if prev, ok := existing[rec.ProductID]; ok && prev.Locked && rec.Locked {
		return ErrRecordLocked
	}
	return s.repo.Upsert(ctx, rec)
}

// Settings returns the inventory category configuration.
func (s *Service) Settings(ctx context.Context) (*Settings, error) {
	return s.repo.Settings(ctx)
}

// UpdateSettings replaces the enabled category list.
func (s *Service) UpdateSettings(ctx context.Context, categories []string) error {
	return s.repo.SaveSettings(ctx, Settings{EnabledCategories: categories})
}
