package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oako/backoffice/internal/app"
	"github.com/oako/backoffice/internal/auth"
	"github.com/oako/backoffice/internal/customers"
	"github.com/oako/backoffice/internal/dashboard"
	"github.com/oako/backoffice/internal/inventory"
	"github.com/oako/backoffice/internal/invoices"
	"github.com/oako/backoffice/internal/orders"
	"github.com/oako/backoffice/internal/platform/db"
	"github.com/oako/backoffice/internal/products"
	"github.com/oako/backoffice/internal/settings"
	"github.com/oako/backoffice/internal/shared"
	"github.com/oako/backoffice/internal/stats"
	"github.com/oako/backoffice/internal/view"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "backoffice_session", cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine(cfg.Currency)
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, templates, sessionManager, csrfManager)

	customerRepo := customers.NewRepository(dbpool)
	customerService := customers.NewService(customerRepo)

	orderRepo := orders.NewRepository(dbpool)
	orderService := orders.NewService(orderRepo)

	productRepo := products.NewRepository(dbpool)
	productService := products.NewService(productRepo)

	invoiceRepo := invoices.NewRepository(dbpool)
	invoiceService := invoices.NewService(invoiceRepo, orderRepo)

	inventoryRepo := inventory.NewRepository(dbpool)
	inventoryService := inventory.NewService(inventoryRepo)

	settingsRepo := settings.NewRepository(dbpool)
	settingsService := settings.NewService(settingsRepo)

	engine := stats.NewEngine(nil)
	engine.WithCurrency(cfg.Currency)

	dashboardHandler := dashboard.NewHandler(logger, orderService, customerService, engine, templates, csrfManager)
	orderHandler := orders.NewHandler(logger, orderService, customerService, productService, templates, csrfManager)
	invoiceHandler := invoices.NewHandler(logger, invoiceService, settingsService, templates, csrfManager)
	customerHandler := customers.NewHandler(logger, customerService, orderService, templates, csrfManager)
	inventoryHandler := inventory.NewHandler(logger, inventoryService, productService, templates, csrfManager)
	settingsHandler := settings.NewHandler(logger, settingsService, templates, csrfManager)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		AuthHandler:      authHandler,
		DashboardHandler: dashboardHandler,
		OrderHandler:     orderHandler,
		InvoiceHandler:   invoiceHandler,
		CustomerHandler:  customerHandler,
		InventoryHandler: inventoryHandler,
		SettingsHandler:  settingsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
