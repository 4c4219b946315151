package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oako/backoffice/internal/auth"
	"github.com/oako/backoffice/internal/customers"
	"github.com/oako/backoffice/internal/dashboard"
	"github.com/oako/backoffice/internal/inventory"
	"github.com/oako/backoffice/internal/invoices"
	"github.com/oako/backoffice/internal/nav"
	"github.com/oako/backoffice/internal/orders"
	"github.com/oako/backoffice/internal/settings"
	"github.com/oako/backoffice/internal/shared"
	"github.com/oako/backoffice/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	SessionManager   *shared.SessionManager
	CSRFManager      *shared.CSRFManager
	AuthHandler      *auth.Handler
	DashboardHandler *dashboard.Handler
	OrderHandler     *orders.Handler
	InvoiceHandler   *invoices.Handler
	CustomerHandler  *customers.Handler[orders.Order]
	InventoryHandler *inventory.Handler
	SettingsHandler  *settings.Handler
}

// NewRouter constructs the chi router: middleware, health check, mutating
// endpoints and the JSON API on chi itself, every GET page through the
// navigation dispatcher.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	params.AuthHandler.MountRoutes(r)
	params.OrderHandler.MountRoutes(r)
	params.InvoiceHandler.MountRoutes(r)
	params.CustomerHandler.MountRoutes(r)
	params.InventoryHandler.MountRoutes(r)
	params.SettingsHandler.MountRoutes(r)

	r.Get("/api/dashboard/stats", params.DashboardHandler.HandleStats)

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	pages := newPageRouter(params)
	r.NotFound(pages.ServeHTTP)
	// a path registered only for POST must still render as a page on GET
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		if req.Method == http.MethodGet || req.Method == http.MethodHead {
			pages.ServeHTTP(w, req)
			return
		}
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}

// newPageRouter registers every page on the navigation dispatcher. Order
// matters: exact patterns come before parameterised ones.
func newPageRouter(params RouterParams) *nav.Router {
	pages := nav.NewRouter(params.Logger, auth.NewSessionGuard(), "/login", "/")
	pages.Handle("/login", params.AuthHandler.ShowLogin)
	pages.Handle("/", params.DashboardHandler.ShowDashboard)
	pages.Handle("/orders/create", params.OrderHandler.ShowCreate)
	pages.Handle("/orders/:id", params.OrderHandler.ShowDetail)
	pages.Handle("/invoices", params.InvoiceHandler.ShowList)
	pages.Handle("/invoices/:id", params.InvoiceHandler.ShowDetail)
	pages.Handle("/customers", params.CustomerHandler.ShowList)
	pages.Handle("/customers/:id", params.CustomerHandler.ShowDetail)
	pages.Handle("/inventory", params.InventoryHandler.ShowSheet)
	pages.Handle("/settings", params.SettingsHandler.ShowSettings)
	return pages
}

// staticCacheHandler wraps a file server with a one hour Cache-Control.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
