package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates a missing order record.
var ErrNotFound = errors.New("order not found")

// Repository is the storage contract for orders.
type Repository interface {
	List(ctx context.Context) ([]Order, error)
	Get(ctx context.Context, id int64) (*Order, error)
	LastByCustomer(ctx context.Context, customerName string) (*Order, error)
	Create(ctx context.Context, o Order) (int64, error)
	Update(ctx context.Context, o Order) error
	UpdateStatus(ctx context.Context, id int64, status OrderStatus) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const orderColumns = `id, customer_id, customer_name, status, items, total_amount, order_date,
	notes, invoice_generated, created_by, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var items []byte
	err := row.Scan(&o.ID, &o.CustomerID, &o.CustomerName, &o.Status, &items, &o.TotalAmount,
		&o.OrderDate, &o.Notes, &o.InvoiceGenerated, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("decode order items: %w", err)
		}
	}
	return &o, nil
}

func (r *repository) List(ctx context.Context) ([]Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return scanOrder(row)
}

func (r *repository) LastByCustomer(ctx context.Context, customerName string) (*Order, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE customer_name = $1 ORDER BY created_at DESC LIMIT 1`,
		customerName)
	return scanOrder(row)
}

func (r *repository) Create(ctx context.Context, o Order) (int64, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return 0, fmt.Errorf("encode order items: %w", err)
	}
	var id int64
	err = r.pool.QueryRow(ctx, `
		INSERT INTO orders (customer_id, customer_name, status, items, total_amount, order_date,
			notes, invoice_generated, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8, NOW(), NOW())
		RETURNING id`,
		o.CustomerID, o.CustomerName, o.Status, items, o.TotalAmount, o.OrderDate, o.Notes, o.CreatedBy,
	).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, o Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET customer_id = $2, customer_name = $3, items = $4, total_amount = $5,
		    order_date = $6, notes = $7, updated_at = NOW()
		WHERE id = $1`,
		o.ID, o.CustomerID, o.CustomerName, items, o.TotalAmount, o.OrderDate, o.Notes,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status OrderStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
