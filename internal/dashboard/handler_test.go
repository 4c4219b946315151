package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oako/backoffice/internal/customers"
	"github.com/oako/backoffice/internal/orders"
	"github.com/oako/backoffice/internal/stats"
)

type stubOrderRepo struct {
	list []orders.Order
}

func (s *stubOrderRepo) List(ctx context.Context) ([]orders.Order, error) { return s.list, nil }
func (s *stubOrderRepo) Get(ctx context.Context, id int64) (*orders.Order, error) {
	return nil, orders.ErrNotFound
}
func (s *stubOrderRepo) LastByCustomer(ctx context.Context, name string) (*orders.Order, error) {
	return nil, orders.ErrNotFound
}
func (s *stubOrderRepo) Create(ctx context.Context, o orders.Order) (int64, error) { return 0, nil }
func (s *stubOrderRepo) Update(ctx context.Context, o orders.Order) error          { return nil }
func (s *stubOrderRepo) UpdateStatus(ctx context.Context, id int64, st orders.OrderStatus) error {
	return nil
}
type stubCustomerRepo struct {
	list []customers.Customer
}

func (s *stubCustomerRepo) List(ctx context.Context, includeArchived bool) ([]customers.Customer, error) {
	return s.list, nil
}
func (s *stubCustomerRepo) Get(ctx context.Context, id int64) (*customers.Customer, error) {
	return nil, customers.ErrNotFound
}
func (s *stubCustomerRepo) Create(ctx context.Context, c customers.Customer) (int64, error) {
	return 0, nil
}
func (s *stubCustomerRepo) Update(ctx context.Context, c customers.Customer) error { return nil }
func (s *stubCustomerRepo) SetArchived(ctx context.Context, id int64, archived bool) error {
	return nil
}

func newTestHandler(orderList []orders.Order, customerList []customers.Customer) *Handler {
	logger := slog.New(slog.NewTextHandler(&discard{}, nil))
	return NewHandler(
		logger,
		orders.NewService(&stubOrderRepo{list: orderList}),
		customers.NewService(&stubCustomerRepo{list: customerList}),
		stats.NewEngine(nil),
		nil,
		nil,
	)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestHandleStatsReturnsAggregate(t *testing.T) {
	now := time.Now()
	h := newTestHandler([]orders.Order{
		{ID: 1, CustomerName: "Nookat Bakery", Status: orders.StatusPaid, TotalAmount: 500, OrderDate: &now},
		{ID: 2, CustomerName: "Osh Market", Status: orders.StatusConfirmed, TotalAmount: 300, OrderDate: &now},
	}, []customers.Customer{
		{ID: 1, Name: "Nookat Bakery", Category: customers.CategoryA},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats?period=7d", nil)
	rec := httptest.NewRecorder()
	h.HandleStats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Revenue     stats.Metric `json:"revenue"`
		Outstanding stats.Metric `json:"outstanding"`
		Period      stats.Period `json:"period"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.InDelta(t, 800.0, body.Revenue.Value, 0.001)
	assert.InDelta(t, 300.0, body.Outstanding.Value, 0.001)
	assert.Equal(t, "7d", body.Period.Token)
}

func TestParsePeriodQueryExplicitRange(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?from=2025-06-01&to=2025-06-10", nil)
	p := parsePeriodQuery(req)

	require.True(t, p.IsExplicit())
	assert.Equal(t, 2025, p.Start.Year())
	// the end day itself stays inside the window
	assert.True(t, p.End.After(time.Date(2025, 6, 10, 23, 0, 0, 0, time.UTC)))
}

func TestParsePeriodQueryFallsBackToToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?from=garbage&to=2025-06-10&period=today", nil)
	assert.Equal(t, "today", parsePeriodQuery(req).Token)
}
