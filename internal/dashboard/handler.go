package dashboard

import (
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oako/backoffice/internal/customers"
	"github.com/oako/backoffice/internal/orders"
	"github.com/oako/backoffice/internal/platform/httpx"
	"github.com/oako/backoffice/internal/shared"
	"github.com/oako/backoffice/internal/stats"
	"github.com/oako/backoffice/internal/view"
	"github.com/oako/backoffice/internal/view/svg"
)

// Handler drives the dashboard page and its JSON stats endpoint.
type Handler struct {
	logger      *slog.Logger
	orders      *orders.Service
	customers   *customers.Service
	engine      *stats.Engine
	templates   *view.Engine
	csrfManager *shared.CSRFManager
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, orderSvc *orders.Service, customerSvc *customers.Service, engine *stats.Engine, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:      logger,
		orders:      orderSvc,
		customers:   customerSvc,
		engine:      engine,
		templates:   templates,
		csrfManager: csrf,
	}
}

type pageData struct {
	Dashboard stats.Dashboard
	Signals   []stats.Signal
	RiskAlert *stats.RiskAlert
	Period    string

	RevenueChart       template.HTML
	OrdersChart        template.HTML
	AgingChart         template.HTML
	ConcentrationChart template.HTML
}

// load fetches orders and customers in parallel and runs the stats engine.
func (h *Handler) load(r *http.Request) (stats.Dashboard, []stats.Order, error) {
	var (
		orderList    []orders.Order
		customerList []customers.Customer
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		orderList, err = h.orders.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		customerList, err = h.customers.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return stats.Dashboard{}, nil, err
	}

	enriched := orders.Enrich(orderList, customers.CategoryMap(customerList), time.Now())
	statsOrders := orders.ToStatsOrders(enriched)

	period := parsePeriodQuery(r)
	return h.engine.ComputeDashboard(statsOrders, period), statsOrders, nil
}

// ShowDashboard renders the landing page. It satisfies the page dispatcher's
// handler contract.
func (h *Handler) ShowDashboard(w http.ResponseWriter, r *http.Request, _ map[string]string) error {
	dash, statsOrders, err := h.load(r)
	if err != nil {
		return err
	}

	data := pageData{
		Dashboard: dash,
		Signals:   h.engine.PredictiveSignals(statsOrders),
		RiskAlert: h.engine.ComputeRiskAlert(statsOrders),
		Period:    dash.Period.Token,
	}
	data.RevenueChart, _ = svg.Line(640, 240, dash.Charts.RevenueOverTime.Gross, dash.Charts.RevenueOverTime.Labels, svg.Opts{Title: "Revenue"})
	data.OrdersChart, _ = svg.Bars(320, 200, toFloats(dash.Charts.OrdersVsPayments.Data), dash.Charts.OrdersVsPayments.Labels, svg.Opts{Title: "Orders vs payments"})
	data.AgingChart, _ = svg.Bars(320, 200, dash.Charts.Aging.Data, dash.Charts.Aging.Labels, svg.Opts{Title: "Receivable aging"})
	data.ConcentrationChart, _ = svg.Bars(640, 200, dash.Charts.Concentration.Data, dash.Charts.Concentration.Labels, svg.Opts{Title: "Top customers"})

	return h.templates.Render(w, "pages/dashboard.html", view.Page(r, h.csrfManager, "Dashboard", data))
}

// HandleStats serves the dashboard aggregate as JSON for async refreshes.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	dash, statsOrders, err := h.load(r)
	if err != nil {
		h.logger.Error("dashboard stats", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "stats unavailable", "failed to load dashboard data")
		return
	}
	httpx.JSON(w, http.StatusOK, struct {
		stats.Dashboard
		Signals   []stats.Signal   `json:"signals"`
		RiskAlert *stats.RiskAlert `json:"risk_alert,omitempty"`
	}{
		Dashboard: dash,
		Signals:   h.engine.PredictiveSignals(statsOrders),
		RiskAlert: h.engine.ComputeRiskAlert(statsOrders),
	})
}

// parsePeriodQuery resolves ?period= or an explicit ?from=&to= range.
func parsePeriodQuery(r *http.Request) stats.Period {
	q := r.URL.Query()
	from, errFrom := time.Parse("2006-01-02", q.Get("from"))
	to, errTo := time.Parse("2006-01-02", q.Get("to"))
	if errFrom == nil && errTo == nil && !to.Before(from) {
		// explicit ranges are inclusive of the end day
		return stats.Between(from, to.Add(24*time.Hour-time.Nanosecond))
	}
	return stats.ParsePeriod(q.Get("period"))
}

func toFloats(in []int) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}
