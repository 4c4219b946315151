package stats

import (
	"math"
	"sort"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Engine computes dashboard aggregates. The clock is injectable so period
// arithmetic is deterministic under test.
type Engine struct {
	now   func() time.Time
	money func(float64) string
}

// NewEngine constructs an Engine; a nil clock falls back to time.Now.
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	e := &Engine{now: now}
	e.WithCurrency("сом")
	return e
}

// WithCurrency sets the currency appended to amounts embedded in signal and
// alert texts, formatted the same way the page money helper does.
func (e *Engine) WithCurrency(currency string) {
	printer := message.NewPrinter(language.Russian)
	e.money = func(v float64) string {
		return printer.Sprintf("%.0f", v) + " " + currency
	}
}

// Metric pairs a current-period value with its percentage delta versus the
// previous period. Inverted marks metrics where a decrease is good; the
// numeric delta keeps the same sign either way, only rendering flips.
type Metric struct {
	Value    float64 `json:"value"`
	Delta    float64 `json:"delta"`
	Inverted bool    `json:"inverted,omitempty"`
}

// OldestUnpaid identifies the longest-outstanding unpaid order.
type OldestUnpaid struct {
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
}

// RevenueBreakdown holds paid revenue from fixed calendar anchors to now.
type RevenueBreakdown struct {
	Today        float64       `json:"today"`
	Week         float64       `json:"week"`
	Month        float64       `json:"month"`
	OldestUnpaid *OldestUnpaid `json:"oldest_unpaid,omitempty"`
}

// OverdueCustomer aggregates outstanding exposure per customer.
type OverdueCustomer struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	MaxAge int     `json:"max_age"`
}

// TimeSeries carries the per-day revenue and order-count series, zero-filled
// across the whole window in ascending chronological order.
type TimeSeries struct {
	Labels      []string  `json:"labels"`
	Gross       []float64 `json:"gross"`
	Paid        []float64 `json:"paid"`
	Outstanding []float64 `json:"outstanding"`
	Orders      []int     `json:"orders"`
}

// CountSeries is a labelled count comparison.
type CountSeries struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// Distribution is a labelled amount breakdown.
type Distribution struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// Charts groups everything the dashboard plots.
type Charts struct {
	RevenueOverTime  TimeSeries  `json:"revenue_over_time"`
	OrdersVsPayments CountSeries `json:"orders_vs_payments"`
	// Aging and Concentration always reflect current data, not the period.
	Aging         Distribution `json:"aging"`
	Concentration Distribution `json:"concentration"`
}

// Dashboard is the full aggregate handed to the dashboard view.
type Dashboard struct {
	Period      Period           `json:"period"`
	Orders      Metric           `json:"orders"`
	Revenue     Metric           `json:"revenue"`
	Outstanding Metric           `json:"outstanding"`
	AOV         Metric           `json:"aov"`
	Overview    RevenueBreakdown `json:"overview"`
	Overdue     []OverdueCustomer `json:"overdue_customers"`
	TopOrders   []Order          `json:"top_orders"`
	Charts      Charts           `json:"charts"`
	// MissingDates counts records lacking both an order date and a creation
	// timestamp; they are bucketed as "now" but surfaced here so stale data
	// cannot hide silently.
	MissingDates int `json:"missing_dates"`
}

type periodMetrics struct {
	count       int
	revenue     float64
	outstanding float64
}

func (m periodMetrics) aov() float64 {
	if m.count == 0 {
		return 0
	}
	return m.revenue / float64(m.count)
}

// ComputeDashboard aggregates orders for the requested period.
func (e *Engine) ComputeDashboard(orders []Order, p Period) Dashboard {
	now := e.now()
	current, previous := p.resolve(now)

	currentOrders := filterByWindow(orders, current)
	var prevOrders []Order
	if previous != nil {
		prevOrders = filterByWindow(orders, *previous)
	}

	cur := computeMetrics(currentOrders)
	prev := computeMetrics(prevOrders)

	missing := 0
	for _, o := range orders {
		if o.MissingDate {
			missing++
		}
	}

	return Dashboard{
		Period:      p,
		Orders:      Metric{Value: float64(cur.count), Delta: delta(float64(cur.count), float64(prev.count))},
		Revenue:     Metric{Value: cur.revenue, Delta: delta(cur.revenue, prev.revenue)},
		Outstanding: Metric{Value: cur.outstanding, Delta: delta(cur.outstanding, prev.outstanding), Inverted: true},
		AOV:         Metric{Value: cur.aov(), Delta: delta(cur.aov(), prev.aov())},
		Overview:    e.revenueBreakdown(orders, now),
		Overdue:     topOverdueCustomers(orders),
		TopOrders:   topOrders(orders),
		Charts: Charts{
			RevenueOverTime:  e.revenueOverTime(currentOrders, p, now),
			OrdersVsPayments: ordersVsPayments(currentOrders),
			Aging:            agingDistribution(orders),
			Concentration:    customerConcentration(orders),
		},
		MissingDates: missing,
	}
}

func filterByWindow(orders []Order, w window) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if w.contains(o.EffectiveDate) {
			out = append(out, o)
		}
	}
	return out
}

func computeMetrics(orders []Order) periodMetrics {
	var m periodMetrics
	m.count = len(orders)
	for _, o := range orders {
		if o.Status.CountsAsRevenue() {
			m.revenue += o.TotalAmount
		}
		if o.Status.IsOutstanding() {
			m.outstanding += o.TotalAmount
		}
	}
	return m
}

// delta is the percentage change rounded to one decimal. A zero previous
// value yields 100 when anything showed up, otherwise 0.
func delta(cur, prev float64) float64 {
	if prev == 0 {
		if cur > 0 {
			return 100
		}
		return 0
	}
	return math.Round((cur-prev)/prev*1000) / 10
}

func (e *Engine) revenueOverTime(orders []Order, p Period, now time.Time) TimeSeries {
	days, first := p.seriesRange(now)
	first = startOfDay(first)

	series := TimeSeries{
		Labels:      make([]string, days),
		Gross:       make([]float64, days),
		Paid:        make([]float64, days),
		Outstanding: make([]float64, days),
		Orders:      make([]int, days),
	}
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		d := first.Add(time.Duration(i) * day)
		index[d.Format("2006-01-02")] = i
		series.Labels[i] = d.Format("01/02")
	}

	for _, o := range orders {
		i, ok := index[o.EffectiveDate.Format("2006-01-02")]
		if !ok {
			continue
		}
		switch {
		case o.Status == StatusPaid:
			series.Paid[i] += o.TotalAmount
		case o.Status.IsOutstanding():
			series.Outstanding[i] += o.TotalAmount
		}
		if o.Status.CountsAsRevenue() {
			series.Gross[i] += o.TotalAmount
			series.Orders[i]++
		}
	}
	return series
}

func ordersVsPayments(orders []Order) CountSeries {
	var confirmed, paid int
	for _, o := range orders {
		if o.Status == StatusPaid {
			paid++
		}
		if o.Status.IsOutstanding() {
			confirmed++
		}
	}
	return CountSeries{
		Labels: []string{"Orders Created", "Orders Confirmed", "Orders Paid"},
		Data:   []int{len(orders), confirmed, paid},
	}
}

// agingDistribution buckets outstanding amounts by age. Paid and draft orders
// never contribute: nothing is owed on them.
func agingDistribution(orders []Order) Distribution {
	var current, week, month, monthPlus float64
	for _, o := range orders {
		if !o.Status.IsOutstanding() {
			continue
		}
		switch {
		case o.AgingDays >= 30:
			monthPlus += o.TotalAmount
		case o.AgingDays >= 8:
			month += o.TotalAmount
		case o.AgingDays >= 1:
			week += o.TotalAmount
		default:
			current += o.TotalAmount
		}
	}
	return Distribution{
		Labels: []string{"Current", "1-7 Days", "8-30 Days", "30+ Days"},
		Data:   []float64{current, week, month, monthPlus},
	}
}

func customerConcentration(orders []Order) Distribution {
	totals := make(map[string]float64)
	for _, o := range orders {
		if !o.Status.CountsAsRevenue() {
			continue
		}
		name := o.CustomerName
		if name == "" {
			name = "Unknown"
		}
		totals[name] += o.TotalAmount
	}

	type entry struct {
		name   string
		amount float64
	}
	entries := make([]entry, 0, len(totals))
	for name, amount := range totals {
		entries = append(entries, entry{name, amount})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].amount != entries[j].amount {
			return entries[i].amount > entries[j].amount
		}
		return entries[i].name < entries[j].name
	})
	if len(entries) > 5 {
		entries = entries[:5]
	}

	dist := Distribution{
		Labels: make([]string, len(entries)),
		Data:   make([]float64, len(entries)),
	}
	for i, e := range entries {
		dist.Labels[i] = elideName(e.name)
		dist.Data[i] = e.amount
	}
	return dist
}

func elideName(name string) string {
	runes := []rune(name)
	if len(runes) > 10 {
		return string(runes[:8]) + "..."
	}
	return name
}

func (e *Engine) revenueBreakdown(orders []Order, now time.Time) RevenueBreakdown {
	today := startOfDay(now)
	week := startOfDay(now.Add(-time.Duration(now.Weekday()) * day))
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	paidSince := func(start time.Time) float64 {
		var sum float64
		for _, o := range orders {
			if o.Status == StatusPaid && !o.EffectiveDate.Before(start) {
				sum += o.TotalAmount
			}
		}
		return sum
	}

	var oldest *OldestUnpaid
	for _, o := range orders {
		if !o.Status.IsOutstanding() {
			continue
		}
		if oldest == nil || o.EffectiveDate.Before(oldest.Date) {
			oldest = &OldestUnpaid{Amount: o.TotalAmount, Date: o.EffectiveDate}
		}
	}

	return RevenueBreakdown{
		Today:        paidSince(today),
		Week:         paidSince(week),
		Month:        paidSince(month),
		OldestUnpaid: oldest,
	}
}

func topOverdueCustomers(orders []Order) []OverdueCustomer {
	byName := make(map[string]*OverdueCustomer)
	for _, o := range orders {
		if !o.Status.IsOutstanding() || o.AgingDays < 1 {
			continue
		}
		c, ok := byName[o.CustomerName]
		if !ok {
			c = &OverdueCustomer{Name: o.CustomerName}
			byName[o.CustomerName] = c
		}
		c.Amount += o.TotalAmount
		if o.AgingDays > c.MaxAge {
			c.MaxAge = o.AgingDays
		}
	}

	out := make([]OverdueCustomer, 0, len(byName))
	for _, c := range byName {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

func topOrders(orders []Order) []Order {
	sorted := make([]Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalAmount > sorted[j].TotalAmount
	})
	if len(sorted) > 3 {
		sorted = sorted[:3]
	}
	return sorted
}
