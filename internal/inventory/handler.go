package inventory

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/oako/backoffice/internal/products"
	"github.com/oako/backoffice/internal/shared"
	"github.com/oako/backoffice/internal/view"
)

// Handler serves the daily production sheet.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	products    *products.Service
	templates   *view.Engine
	csrfManager *shared.CSRFManager
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, productSvc *products.Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:      logger,
		service:     service,
		products:    productSvc,
		templates:   templates,
		csrfManager: csrf,
	}
}

// MountRoutes registers the mutating inventory endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/inventory", h.handleSave)
	r.Post("/inventory/settings", h.handleSettings)
}

type sheetRow struct {
	Product products.Product
	Record  Record
}

type pageData struct {
	Date       string
	Categories map[string][]sheetRow
	Settings   Settings
}

// ShowSheet renders the production sheet for ?date=, defaulting to today.
func (h *Handler) ShowSheet(w http.ResponseWriter, r *http.Request, _ map[string]string) error {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format(dateLayout)
	}

	cfg, err := h.service.Settings(r.Context())
	if err != nil {
		return err
	}
	grouped, err := h.products.ByCategory(r.Context(), cfg.EnabledCategories)
	if err != nil {
		return err
	}
	records, err := h.service.Daily(r.Context(), date)
	if err != nil {
		return err
	}

	data := pageData{Date: date, Categories: make(map[string][]sheetRow), Settings: *cfg}
	for category, items := range grouped {
		rows := make([]sheetRow, 0, len(items))
		for _, p := range items {
			rows = append(rows, sheetRow{Product: p, Record: records[p.ID]})
		}
		data.Categories[category] = rows
	}
	return h.templates.Render(w, "pages/inventory.html", view.Page(r, h.csrfManager, "Production", data))
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	date := r.PostFormValue("date")
	productID, _ := strconv.ParseInt(r.PostFormValue("product_id"), 10, 64)
	totalBaked, _ := strconv.ParseFloat(r.PostFormValue("total_baked"), 64)
	locked := r.PostFormValue("locked") == "on"

	err := h.service.Save(r.Context(), Record{
		Date:       date,
		ProductID:  productID,
		TotalBaked: totalBaked,
		Locked:     locked,
	})
	if err != nil {
		h.logger.Warn("save production record", slog.String("date", date), slog.Int64("product_id", productID), slog.Any("error", err))
		shared.AddFlash(r.Context(), "error", "Record was not saved")
	}
	http.Redirect(w, r, "/inventory?date="+date, http.StatusSeeOther)
}

func (h *Handler) handleSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	categories := r.PostForm["category"]
	if err := h.service.UpdateSettings(r.Context(), categories); err != nil {
		h.logger.Warn("save inventory settings", slog.Any("error", err))
		shared.AddFlash(r.Context(), "error", "Settings were not saved")
	} else {
		shared.AddFlash(r.Context(), "success", "Inventory settings saved")
	}
	http.Redirect(w, r, "/inventory", http.StatusSeeOther)
}
