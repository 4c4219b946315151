package invoices

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/oako/backoffice/internal/settings"
	"github.com/oako/backoffice/internal/shared"
	"github.com/oako/backoffice/internal/view"
)

// Handler serves the invoice pages and generation endpoint.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	settings    *settings.Service
	templates   *view.Engine
	csrfManager *shared.CSRFManager
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, settingsSvc *settings.Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:      logger,
		service:     service,
		settings:    settingsSvc,
		templates:   templates,
		csrfManager: csrf,
	}
}

// MountRoutes registers the mutating invoice endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/orders/{id}/invoice", h.handleGenerate)
}

type listPageData struct {
	Invoices []Invoice
}

// ShowList renders all invoices, newest first.
func (h *Handler) ShowList(w http.ResponseWriter, r *http.Request, _ map[string]string) error {
	list, err := h.service.List(r.Context())
	if err != nil {
		return err
	}
	return h.templates.Render(w, "pages/invoice_list.html", view.Page(r, h.csrfManager, "Invoices", listPageData{Invoices: list}))
}

type detailPageData struct {
	Invoice *Invoice
	Company settings.InvoiceSettings
}

// ShowDetail renders one invoice with the company letterhead details.
func (h *Handler) ShowDetail(w http.ResponseWriter, r *http.Request, params map[string]string) error {
	id, err := strconv.ParseInt(params["id"], 10, 64)
	if err != nil {
		return ErrNotFound
	}
	inv, err := h.service.Get(r.Context(), id)
	if err != nil {
		return err
	}
	company, err := h.settings.Get(r.Context())
	if err != nil {
		return err
	}
	return h.templates.Render(w, "pages/invoice_detail.html",
		view.Page(r, h.csrfManager, inv.InvoiceNumber, detailPageData{Invoice: inv, Company: company}))
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	inv, err := h.service.CreateFromOrder(r.Context(), orderID)
	if err != nil {
		h.logger.Warn("generate invoice", slog.Int64("order_id", orderID), slog.Any("error", err))
		shared.AddFlash(r.Context(), "error", "Invoice generation failed")
		http.Redirect(w, r, "/orders/"+chi.URLParam(r, "id"), http.StatusSeeOther)
		return
	}
	shared.AddFlash(r.Context(), "success", "Invoice "+inv.InvoiceNumber+" ready")
	http.Redirect(w, r, "/invoices/"+strconv.FormatInt(inv.ID, 10), http.StatusSeeOther)
}
