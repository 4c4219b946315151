package products

import "context"

// Service exposes catalog reads. Products with an unset price surface as 0
// rather than failing the listing.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the catalog sorted by name.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// ListActive returns catalog items available for new orders.
func (s *Service) ListActive(ctx context.Context) ([]Product, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Product, 0, len(all))
	for _, p := range all {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

// ByCategory groups catalog items for the inventory sheet.
func (s *Service) ByCategory(ctx context.Context, categories []string) (map[string][]Product, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	enabled := make(map[string]bool, len(categories))
	for _, c := range categories {
		enabled[c] = true
	}
	out := make(map[string][]Product)
	for _, p := range all {
		if len(enabled) > 0 && !enabled[p.Category] {
			continue
		}
		out[p.Category] = append(out[p.Category], p)
	}
	return out, nil
}
