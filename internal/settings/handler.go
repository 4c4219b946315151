package settings

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/oako/backoffice/internal/shared"
	"github.com/oako/backoffice/internal/view"
)

// Handler serves the settings page.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	templates   *view.Engine
	csrfManager *shared.CSRFManager
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:      logger,
		service:     service,
		templates:   templates,
		csrfManager: csrf,
	}
}

// MountRoutes registers the mutating settings endpoint.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/settings", h.handleSave)
}

type pageData struct {
	Settings InvoiceSettings
}

// ShowSettings renders the settings form.
func (h *Handler) ShowSettings(w http.ResponseWriter, r *http.Request, _ map[string]string) error {
	s, err := h.service.Get(r.Context())
	if err != nil {
		return err
	}
	return h.templates.Render(w, "pages/settings.html", view.Page(r, h.csrfManager, "Settings", pageData{Settings: s}))
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	taxRate, _ := strconv.ParseFloat(r.PostFormValue("default_tax_rate"), 64)
	err := h.service.Update(r.Context(), InvoiceSettings{
		CompanyName:    r.PostFormValue("company_name"),
		Address:        r.PostFormValue("address"),
		Phone:          r.PostFormValue("phone"),
		Website:        r.PostFormValue("website"),
		BankInfo:       r.PostFormValue("bank_info"),
		QRText:         r.PostFormValue("qr_text"),
		DefaultTaxRate: taxRate,
		FooterText:     r.PostFormValue("footer_text"),
	})
	if err != nil {
		h.logger.Warn("save settings", slog.Any("error", err))
		shared.AddFlash(r.Context(), "error", "Settings were not saved")
	} else {
		shared.AddFlash(r.Context(), "success", "Settings saved")
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}
