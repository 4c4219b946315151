package customers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/oako/backoffice/internal/shared"
	"github.com/oako/backoffice/internal/view"
)

// OrderSource is the slice of the order service the customer pages use. The
// order type is a parameter so this package does not import the orders
// package, which imports this one.
type OrderSource[O any] interface {
	LastByCustomer(ctx context.Context, customerName string) *O
}

// Handler serves the customer pages and their mutating endpoints.
type Handler[O any] struct {
	logger      *slog.Logger
	service     *Service
	orders      OrderSource[O]
	templates   *view.Engine
	csrfManager *shared.CSRFManager
}

// NewHandler constructs a Handler.
func NewHandler[O any](logger *slog.Logger, service *Service, orderSvc OrderSource[O], templates *view.Engine, csrf *shared.CSRFManager) *Handler[O] {
	return &Handler[O]{
		logger:      logger,
		service:     service,
		orders:      orderSvc,
		templates:   templates,
		csrfManager: csrf,
	}
}

// MountRoutes registers the mutating customer endpoints.
func (h *Handler[O]) MountRoutes(r chi.Router) {
	r.Post("/customers", h.handleCreate)
	r.Post("/customers/{id}", h.handleUpdate)
	r.Post("/customers/{id}/archive", h.handleArchive)
}

type listPageData struct {
	Customers []Customer
}

// ShowList renders the customer directory.
func (h *Handler[O]) ShowList(w http.ResponseWriter, r *http.Request, _ map[string]string) error {
	list, err := h.service.List(r.Context())
	if err != nil {
		return err
	}
	return h.templates.Render(w, "pages/customer_list.html", view.Page(r, h.csrfManager, "Customers", listPageData{Customers: list}))
}

type detailPageData[O any] struct {
	Customer  *Customer
	LastOrder *O
}

// ShowDetail renders one customer with their most recent order.
func (h *Handler[O]) ShowDetail(w http.ResponseWriter, r *http.Request, params map[string]string) error {
	id, err := strconv.ParseInt(params["id"], 10, 64)
	if err != nil {
		return ErrNotFound
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		return err
	}
	data := detailPageData[O]{
		Customer:  c,
		LastOrder: h.orders.LastByCustomer(r.Context(), c.DisplayName()),
	}
	return h.templates.Render(w, "pages/customer_detail.html", view.Page(r, h.csrfManager, c.DisplayName(), data))
}

func (h *Handler[O]) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := parseCustomerForm(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	c, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Warn("create customer", slog.Any("error", err))
		shared.AddFlash(r.Context(), "error", "Customer was rejected, check the form")
		http.Redirect(w, r, "/customers", http.StatusSeeOther)
		return
	}
	shared.AddFlash(r.Context(), "success", "Customer created")
	http.Redirect(w, r, "/customers/"+strconv.FormatInt(c.ID, 10), http.StatusSeeOther)
}

func (h *Handler[O]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	req, err := parseCustomerForm(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if _, err := h.service.Update(r.Context(), id, UpdateCustomerRequest(req)); err != nil {
		h.logger.Warn("update customer", slog.Int64("id", id), slog.Any("error", err))
		shared.AddFlash(r.Context(), "error", "Customer update was rejected")
	} else {
		shared.AddFlash(r.Context(), "success", "Customer updated")
	}
	http.Redirect(w, r, "/customers/"+chi.URLParam(r, "id"), http.StatusSeeOther)
}

func (h *Handler[O]) handleArchive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := h.service.Archive(r.Context(), id); err != nil {
		h.logger.Warn("archive customer", slog.Int64("id", id), slog.Any("error", err))
		shared.AddFlash(r.Context(), "error", "Archive failed")
	} else {
		shared.AddFlash(r.Context(), "success", "Customer archived")
	}
	http.Redirect(w, r, "/customers", http.StatusSeeOther)
}

func parseCustomerForm(r *http.Request) (CreateCustomerRequest, error) {
	if err := r.ParseForm(); err != nil {
		return CreateCustomerRequest{}, err
	}
	return CreateCustomerRequest{
		Name:        r.PostFormValue("name"),
		CompanyName: r.PostFormValue("company_name"),
		Category:    r.PostFormValue("category"),
		Phone:       r.PostFormValue("phone"),
		Email:       r.PostFormValue("email"),
		Address:     r.PostFormValue("address"),
		Notes:       r.PostFormValue("notes"),
	}, nil
}
