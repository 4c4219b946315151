package invoices

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oako/backoffice/internal/orders"
)

type fakeInvoiceRepo struct {
	invoices map[int64]Invoice
	nextID   int64
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[int64]Invoice), nextID: 1}
}

func (f *fakeInvoiceRepo) List(ctx context.Context) ([]Invoice, error) {
	out := make([]Invoice, 0, len(f.invoices))
	for _, inv := range f.invoices {
		out = append(out, inv)
	}
	return out, nil
}

func (f *fakeInvoiceRepo) Get(ctx context.Context, id int64) (*Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &inv, nil
}

func (f *fakeInvoiceRepo) GetByOrder(ctx context.Context, orderID int64) (*Invoice, error) {
	for id := range f.invoices {
		if f.invoices[id].OrderID == orderID {
			inv := f.invoices[id]
			return &inv, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, inv Invoice) (int64, error) {
	id := f.nextID
	f.nextID++
	inv.ID = id
	inv.CreatedAt = time.Now()
	f.invoices[id] = inv
	return id, nil
}

type fakeOrderRepo struct {
	orders map[int64]orders.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[int64]orders.Order)}
}

func (f *fakeOrderRepo) List(ctx context.Context) ([]orders.Order, error) { return nil, nil }

func (f *fakeOrderRepo) Get(ctx context.Context, id int64) (*orders.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, orders.ErrNotFound
	}
	return &o, nil
}

func (f *fakeOrderRepo) LastByCustomer(ctx context.Context, name string) (*orders.Order, error) {
	return nil, orders.ErrNotFound
}

func (f *fakeOrderRepo) Create(ctx context.Context, o orders.Order) (int64, error) { return 0, nil }
func (f *fakeOrderRepo) Update(ctx context.Context, o orders.Order) error          { return nil }
func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id int64, s orders.OrderStatus) error {
	return nil
}

func TestCreateFromOrderSnapshotsItems(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	orderRepo.orders[7] = orders.Order{
		ID:           7,
		CustomerName: "Nookat Bakery",
		Status:       orders.StatusConfirmed,
		Items:        []orders.Item{{Name: "Sourdough", Quantity: 3, UnitPrice: 150, Total: 450}},
		TotalAmount:  450,
	}

	svc := NewService(newFakeInvoiceRepo(), orderRepo)
	clock := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	svc.WithNow(func() time.Time { return clock })

	inv, err := svc.CreateFromOrder(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(7), inv.OrderID)
	assert.Equal(t, "Nookat Bakery", inv.CustomerName)
	assert.InDelta(t, 450.0, inv.TotalAmount, 0.001)
	assert.Regexp(t, `^INV-\d{6}$`, inv.InvoiceNumber)
	assert.Equal(t, clock.Add(30*24*time.Hour), inv.DueDate)
}

func TestCreateFromOrderIsIdempotent(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	orderRepo.orders[7] = orders.Order{ID: 7, CustomerName: "Nookat Bakery", TotalAmount: 450}

	svc := NewService(newFakeInvoiceRepo(), orderRepo)

	first, err := svc.CreateFromOrder(context.Background(), 7)
	require.NoError(t, err)
	second, err := svc.CreateFromOrder(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.InvoiceNumber, second.InvoiceNumber)
}

func TestCreateFromOrderMissingOrder(t *testing.T) {
	svc := NewService(newFakeInvoiceRepo(), newFakeOrderRepo())

	_, err := svc.CreateFromOrder(context.Background(), 99)
	assert.ErrorIs(t, err, orders.ErrNotFound)
}
