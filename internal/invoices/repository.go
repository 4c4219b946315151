package invoices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oako/backoffice/internal/platform/db"
)

// ErrNotFound indicates a missing invoice record.
var ErrNotFound = errors.New("invoice not found")

// ErrDuplicate indicates the order already has an invoice.
var ErrDuplicate = errors.New("invoice already exists for order")

// Repository is the storage contract for invoices.
type Repository interface {
	List(ctx context.Context) ([]Invoice, error)
	Get(ctx context.Context, id int64) (*Invoice, error)
	GetByOrder(ctx context.Context, orderID int64) (*Invoice, error)
	Create(ctx context.Context, inv Invoice) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const invoiceColumns = `id, order_id, invoice_number, customer_name, items, total_amount, due_date, created_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	var items []byte
	err := row.Scan(&inv.ID, &inv.OrderID, &inv.InvoiceNumber, &inv.CustomerName, &items,
		&inv.TotalAmount, &inv.DueDate, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &inv.Items); err != nil {
			return nil, fmt.Errorf("decode invoice items: %w", err)
		}
	}
	return &inv, nil
}

func (r *repository) List(ctx context.Context) ([]Invoice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+invoiceColumns+` FROM invoices ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*Invoice, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
	return scanInvoice(row)
}

func (r *repository) GetByOrder(ctx context.Context, orderID int64) (*Invoice, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE order_id = $1`, orderID)
	return scanInvoice(row)
}

// Create inserts the invoice and flags the source order in one transaction
// so an order can never point at a half-created invoice.
func (r *repository) Create(ctx context.Context, inv Invoice) (int64, error) {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return 0, fmt.Errorf("encode invoice items: %w", err)
	}
	var id int64
	err = db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO invoices (order_id, invoice_number, customer_name, items, total_amount, due_date, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW())
			RETURNING id`,
			inv.OrderID, inv.InvoiceNumber, inv.CustomerName, items, inv.TotalAmount, inv.DueDate,
		).Scan(&id); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return ErrDuplicate
			}
			return err
		}
		_, err := tx.Exec(ctx,
			`UPDATE orders SET invoice_generated = TRUE, updated_at = NOW() WHERE id = $1`, inv.OrderID)
		return err
	})
	return id, err
}
