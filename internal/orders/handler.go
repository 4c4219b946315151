package orders

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/oako/backoffice/internal/customers"
	"github.com/oako/backoffice/internal/products"
	"github.com/oako/backoffice/internal/shared"
	"github.com/oako/backoffice/internal/view"
)

// Handler serves the order pages and their mutating endpoints.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	customers   *customers.Service
	products    *products.Service
	templates   *view.Engine
	csrfManager *shared.CSRFManager
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, customerSvc *customers.Service, productSvc *products.Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:      logger,
		service:     service,
		customers:   customerSvc,
		products:    productSvc,
		templates:   templates,
		csrfManager: csrf,
	}
}

// MountRoutes registers the mutating order endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/orders", h.handleCreate)
	r.Post("/orders/{id}", h.handleUpdate)
	r.Post("/orders/{id}/status", h.handleStatus)
}

type createPageData struct {
	Customers []customers.Customer
	Products  []products.Product
	LastOrder *Order
}

// ShowCreate renders the order form. With ?customer= the customer's previous
// order pre-fills the line items.
func (h *Handler) ShowCreate(w http.ResponseWriter, r *http.Request, _ map[string]string) error {
	customerList, err := h.customers.List(r.Context())
	if err != nil {
		return err
	}
	productList, err := h.products.ListActive(r.Context())
	if err != nil {
		return err
	}
	data := createPageData{Customers: customerList, Products: productList}
	if name := r.URL.Query().Get("customer"); name != "" {
		data.LastOrder = h.service.LastByCustomer(r.Context(), name)
	}
	return h.templates.Render(w, "pages/order_create.html", view.Page(r, h.csrfManager, "New order", data))
}

type detailPageData struct {
	Order *Order
}

// ShowDetail renders one order.
func (h *Handler) ShowDetail(w http.ResponseWriter, r *http.Request, params map[string]string) error {
	id, err := strconv.ParseInt(params["id"], 10, 64)
	if err != nil {
		return ErrNotFound
	}
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		return err
	}
	title := "Order #" + strconv.FormatInt(order.ID, 10)
	return h.templates.Render(w, "pages/order_detail.html", view.Page(r, h.csrfManager, title, detailPageData{Order: order}))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := parseOrderForm(r)
	if err != nil {
		shared.AddFlash(r.Context(), "error", "Could not read the order form")
		http.Redirect(w, r, "/orders/create", http.StatusSeeOther)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	createdBy := ""
	if sess != nil {
		createdBy = sess.User()
	}
	order, err := h.service.Create(r.Context(), req, createdBy)
	if err != nil {
		h.logger.Warn("create order", slog.Any("error", err))
		shared.AddFlash(r.Context(), "error", "Order was rejected, check the form")
		http.Redirect(w, r, "/orders/create", http.StatusSeeOther)
		return
	}
	shared.AddFlash(r.Context(), "success", "Order created")
	http.Redirect(w, r, "/orders/"+strconv.FormatInt(order.ID, 10), http.StatusSeeOther)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	req, err := parseOrderForm(r)
	if err != nil {
		shared.AddFlash(r.Context(), "error", "Could not read the order form")
		http.Redirect(w, r, "/orders/"+chi.URLParam(r, "id"), http.StatusSeeOther)
		return
	}
	if _, err := h.service.Update(r.Context(), id, req); err != nil {
		h.logger.Warn("update order", slog.Int64("id", id), slog.Any("error", err))
		if errors.Is(err, ErrInvalidStatus) {
			shared.AddFlash(r.Context(), "error", "Only draft or pending orders can be edited")
		} else {
			shared.AddFlash(r.Context(), "error", "Order update was rejected")
		}
	} else {
		shared.AddFlash(r.Context(), "success", "Order updated")
	}
	http.Redirect(w, r, "/orders/"+chi.URLParam(r, "id"), http.StatusSeeOther)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	target := OrderStatus(r.PostFormValue("status"))
	if _, err := h.service.UpdateStatus(r.Context(), id, target); err != nil {
		h.logger.Warn("order status", slog.Int64("id", id), slog.Any("error", err))
		if errors.Is(err, ErrInvalidStatus) {
			shared.AddFlash(r.Context(), "error", "That status change is not allowed")
		} else {
			shared.AddFlash(r.Context(), "error", "Status change failed")
		}
	} else {
		shared.AddFlash(r.Context(), "success", "Status updated")
	}
	http.Redirect(w, r, "/orders/"+chi.URLParam(r, "id"), http.StatusSeeOther)
}

// parseOrderForm reads the indexed line-item fields from the order form.
func parseOrderForm(r *http.Request) (CreateOrderRequest, error) {
	if err := r.ParseForm(); err != nil {
		return CreateOrderRequest{}, err
	}
	req := CreateOrderRequest{
		CustomerName: r.PostFormValue("customer_name"),
		Notes:        r.PostFormValue("notes"),
	}
	if raw := r.PostFormValue("customer_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			req.CustomerID = &id
		}
	}
	if raw := r.PostFormValue("order_date"); raw != "" {
		if d, err := time.Parse("2006-01-02", raw); err == nil {
			req.OrderDate = &d
		}
	}
	names := r.PostForm["item_name"]
	productIDs := r.PostForm["item_product_id"]
	quantities := r.PostForm["item_quantity"]
	prices := r.PostForm["item_unit_price"]
	for i := range names {
		if names[i] == "" {
			continue
		}
		item := ItemRequest{Name: names[i]}
		if i < len(productIDs) {
			item.ProductID, _ = strconv.ParseInt(productIDs[i], 10, 64)
		}
		if i < len(quantities) {
			item.Quantity, _ = strconv.ParseFloat(quantities[i], 64)
		}
		if i < len(prices) {
			item.UnitPrice, _ = strconv.ParseFloat(prices[i], 64)
		}
		req.Items = append(req.Items, item)
	}
	return req, nil
}
