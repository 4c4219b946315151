package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/oako/backoffice/internal/customers"
	"github.com/oako/backoffice/internal/orders"
	"github.com/oako/backoffice/internal/stats"
)

// OverdueScanJob recomputes receivable risk overnight and notifies the
// configured recipient when exposure crosses the alert threshold.
type OverdueScanJob struct {
	Orders    orders.Repository
	Customers customers.Repository
	Client    *Client
	Logger    *slog.Logger
	Recipient string
	Currency  string
	clock     func() time.Time
}

// NewOverdueScanJob initialises the overdue scan handler.
func NewOverdueScanJob(orderRepo orders.Repository, customerRepo customers.Repository, client *Client, logger *slog.Logger, recipient, currency string) *OverdueScanJob {
	return &OverdueScanJob{
		Orders:    orderRepo,
		Customers: customerRepo,
		Client:    client,
		Logger:    logger,
		Recipient: recipient,
		Currency:  currency,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the overdue scan.
func (j *OverdueScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("overdue scan: handler not configured")
	}
	now := j.clock()

	orderList, err := j.Orders.List(ctx)
	if err != nil {
		return err
	}
	customerList, err := j.Customers.List(ctx, true)
	if err != nil {
		return err
	}

	enriched := orders.Enrich(orderList, customers.CategoryMap(customerList), now)
	engine := stats.NewEngine(func() time.Time { return now })
	if j.Currency != "" {
		engine.WithCurrency(j.Currency)
	}
	alert := engine.ComputeRiskAlert(orders.ToStatsOrders(enriched))

	if alert == nil {
		j.Logger.Info("overdue scan clean", slog.Int("orders", len(orderList)))
		return nil
	}

	j.Logger.Warn("overdue exposure detected",
		slog.Int("invoices", alert.Count),
		slog.Float64("amount", alert.Amount))

	if j.Client == nil || j.Recipient == "" {
		return nil
	}
	_, err = j.Client.EnqueueSendEmail(ctx, SendEmailPayload{
		To:      j.Recipient,
		Subject: "Receivables alert",
		Body:    alert.Label,
	})
	return err
}
