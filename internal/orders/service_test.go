package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	orders map[int64]Order
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[int64]Order), nextID: 1}
}

func (f *fakeRepo) List(ctx context.Context) ([]Order, error) {
	out := make([]Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeRepo) Get(ctx context.Context, id int64) (*Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (f *fakeRepo) LastByCustomer(ctx context.Context, name string) (*Order, error) {
	var latest *Order
	for id := range f.orders {
		o := f.orders[id]
		if o.CustomerName != name {
			continue
		}
		if latest == nil || (o.CreatedAt != nil && latest.CreatedAt != nil && o.CreatedAt.After(*latest.CreatedAt)) {
			latest = &o
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

func (f *fakeRepo) Create(ctx context.Context, o Order) (int64, error) {
	id := f.nextID
	f.nextID++
	o.ID = id
	now := time.Now()
	o.CreatedAt = &now
	f.orders[id] = o
	return id, nil
}

func (f *fakeRepo) Update(ctx context.Context, o Order) error {
	if _, ok := f.orders[o.ID]; !ok {
		return ErrNotFound
	}
	f.orders[o.ID] = o
	return nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id int64, status OrderStatus) error {
	o, ok := f.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	f.orders[id] = o
	return nil
}

func TestCreateComputesTotals(t *testing.T) {
	svc := NewService(newFakeRepo())

	order, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerName: "Nookat Bakery",
		Items: []ItemRequest{
			{Name: "Sourdough", Quantity: 3, UnitPrice: 150},
			{Name: "Baguette", Quantity: 2, UnitPrice: 80},
		},
	}, "admin")
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, order.Status)
	assert.InDelta(t, 610.0, order.TotalAmount, 0.001)
	require.Len(t, order.Items, 2)
	assert.InDelta(t, 450.0, order.Items[0].Total, 0.001)
	assert.Equal(t, "admin", order.CreatedBy)
}

func TestCreateRejectsEmptyItems(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerName: "Nookat Bakery",
	}, "admin")
	assert.Error(t, err)
}

func TestCreateRejectsZeroQuantity(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerName: "Nookat Bakery",
		Items:        []ItemRequest{{Name: "Sourdough", Quantity: 0, UnitPrice: 150}},
	}, "admin")
	assert.Error(t, err)
}

func TestUpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		wantErr bool
	}{
		{"draft to confirmed", StatusDraft, StatusConfirmed, false},
		{"draft to pending", StatusDraft, StatusPending, false},
		{"pending to confirmed", StatusPending, StatusConfirmed, false},
		{"confirmed to fulfilled", StatusConfirmed, StatusFulfilled, false},
		{"confirmed to paid", StatusConfirmed, StatusPaid, false},
		{"fulfilled to paid", StatusFulfilled, StatusPaid, false},
		{"draft to cancelled", StatusDraft, StatusCancelled, false},
		{"paid is terminal", StatusPaid, StatusDraft, true},
		{"cancelled is terminal", StatusCancelled, StatusConfirmed, true},
		{"fulfilled cannot cancel", StatusFulfilled, StatusCancelled, true},
		{"no backwards move", StatusConfirmed, StatusDraft, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			id, err := repo.Create(context.Background(), Order{CustomerName: "x", Status: tc.from})
			require.NoError(t, err)

			svc := NewService(repo)
			updated, err := svc.UpdateStatus(context.Background(), id, tc.to)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.to, updated.Status)
		})
	}
}

func TestUpdateOnlyDraftOrPending(t *testing.T) {
	repo := newFakeRepo()
	id, err := repo.Create(context.Background(), Order{CustomerName: "x", Status: StatusConfirmed})
	require.NoError(t, err)

	svc := NewService(repo)
	_, err = svc.Update(context.Background(), id, CreateOrderRequest{
		CustomerName: "x",
		Items:        []ItemRequest{{Name: "Sourdough", Quantity: 1, UnitPrice: 100}},
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestLastByCustomerSwallowsMiss(t *testing.T) {
	svc := NewService(newFakeRepo())
	assert.Nil(t, svc.LastByCustomer(context.Background(), "nobody"))
}
