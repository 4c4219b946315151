package stats

import (
	"testing"
	"time"
)

func fixedClock() time.Time { return testNow }

func order(customer string, status OrderStatus, amount float64, date time.Time) Order {
	return Order{
		ID:            customer + "-" + string(status),
		CustomerName:  customer,
		Status:        status,
		TotalAmount:   amount,
		EffectiveDate: date,
	}
}

func TestDeltaComputation(t *testing.T) {
	cases := []struct {
		cur, prev, want float64
	}{
		{150, 100, 50.0},
		{0, 0, 0},
		{50, 0, 100},
		{100, 150, -33.3},
		{0, 100, -100},
	}
	for _, tc := range cases {
		if got := delta(tc.cur, tc.prev); got != tc.want {
			t.Errorf("delta(%v, %v) = %v, want %v", tc.cur, tc.prev, got, tc.want)
		}
	}
}

func TestComputeDashboardRevenueDelta(t *testing.T) {
	e := NewEngine(fixedClock)
	orders := []Order{
		order("Bakery One", StatusPaid, 150, testNow.Add(-2*day)),
		order("Bakery Two", StatusConfirmed, 100, testNow.Add(-10*day)),
	}

	d := e.ComputeDashboard(orders, ParsePeriod(Period7d))
	if d.Revenue.Value != 150 {
		t.Fatalf("current revenue = %v", d.Revenue.Value)
	}
	if d.Revenue.Delta != 50.0 {
		t.Fatalf("revenue delta = %v, want 50.0", d.Revenue.Delta)
	}
}

func TestComputeDashboardStatusFilters(t *testing.T) {
	e := NewEngine(fixedClock)
	date := testNow.Add(-day)
	orders := []Order{
		order("A", StatusDraft, 50, date),
		order("B", StatusPending, 60, date),
		order("C", StatusConfirmed, 100, date),
		order("D", StatusFulfilled, 200, date),
		order("E", StatusPaid, 300, date),
		order("F", StatusCancelled, 400, date),
	}

	d := e.ComputeDashboard(orders, ParsePeriod(Period7d))
	if d.Orders.Value != 6 {
		t.Fatalf("order count = %v", d.Orders.Value)
	}
	if d.Revenue.Value != 600 {
		t.Fatalf("revenue = %v, want confirmed+fulfilled+paid = 600", d.Revenue.Value)
	}
	if d.Outstanding.Value != 300 {
		t.Fatalf("outstanding = %v, want confirmed+fulfilled = 300", d.Outstanding.Value)
	}
	if !d.Outstanding.Inverted {
		t.Fatal("outstanding metric must carry the inverted flag")
	}
	if d.AOV.Value != 100 {
		t.Fatalf("aov = %v, want 600/6", d.AOV.Value)
	}
}

func TestComputeDashboardEmptyInput(t *testing.T) {
	e := NewEngine(fixedClock)
	d := e.ComputeDashboard(nil, ParsePeriod(Period30d))
	if d.Orders.Value != 0 || d.Revenue.Value != 0 || d.AOV.Value != 0 {
		t.Fatalf("empty input should yield zeros: %+v", d)
	}
	if d.Orders.Delta != 0 {
		t.Fatalf("empty delta = %v", d.Orders.Delta)
	}
	if len(d.Charts.RevenueOverTime.Labels) != 30 {
		t.Fatalf("series should still cover 30 days, got %d", len(d.Charts.RevenueOverTime.Labels))
	}
}

func TestAllPeriodHasZeroDeltas(t *testing.T) {
	e := NewEngine(fixedClock)
	orders := []Order{order("A", StatusPaid, 100, testNow.Add(-100*day))}
	d := e.ComputeDashboard(orders, ParsePeriod(PeriodAll))
	if d.Revenue.Value != 100 {
		t.Fatalf("all-period revenue = %v", d.Revenue.Value)
	}
	// No previous window: previous metrics are zero, so delta collapses to
	// the degenerate 100-or-0 rule.
	if d.Revenue.Delta != 100 {
		t.Fatalf("all-period revenue delta = %v", d.Revenue.Delta)
	}
}

func TestAgingBuckets(t *testing.T) {
	aged := func(status OrderStatus, amount float64, days int) Order {
		o := order("X", status, amount, testNow)
		o.AgingDays = days
		return o
	}
	dist := agingDistribution([]Order{
		aged(StatusConfirmed, 200, 35),
		aged(StatusConfirmed, 50, 0),
		aged(StatusFulfilled, 75, 3),
		aged(StatusFulfilled, 25, 8),
		aged(StatusPaid, 999, 40),
		aged(StatusDraft, 888, 40),
	})

	want := []float64{50, 75, 25, 200}
	for i, amount := range want {
		if dist.Data[i] != amount {
			t.Fatalf("bucket %q = %v, want %v", dist.Labels[i], dist.Data[i], amount)
		}
	}
}

func TestTimeSeriesCompleteness(t *testing.T) {
	e := NewEngine(fixedClock)
	orders := []Order{
		order("A", StatusPaid, 100, testNow.Add(-2*day)),
	}
	d := e.ComputeDashboard(orders, ParsePeriod(Period7d))

	series := d.Charts.RevenueOverTime
	if len(series.Labels) != 7 {
		t.Fatalf("expected 7 labelled days, got %d", len(series.Labels))
	}
	for i := 1; i < len(series.Labels); i++ {
		if series.Labels[i] <= series.Labels[i-1] {
			t.Fatalf("labels not ascending: %v", series.Labels)
		}
	}
	var total float64
	for _, v := range series.Paid {
		total += v
	}
	if total != 100 {
		t.Fatalf("paid series total = %v", total)
	}
	if series.Paid[4] != 100 {
		t.Fatalf("expected payment on day index 4, got %v", series.Paid)
	}
}

func TestCustomerConcentrationTopFive(t *testing.T) {
	var orders []Order
	names := []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta"}
	for i, n := range names {
		orders = append(orders, order(n, StatusPaid, float64((i+1)*100), testNow))
	}
	orders = append(orders, order("Ignored Draft", StatusDraft, 9999, testNow))

	dist := customerConcentration(orders)
	if len(dist.Labels) != 5 {
		t.Fatalf("expected top 5, got %d", len(dist.Labels))
	}
	if dist.Labels[0] != "Zeta" || dist.Data[0] != 600 {
		t.Fatalf("top customer = %s (%v)", dist.Labels[0], dist.Data[0])
	}
	for _, l := range dist.Labels {
		if l == "Alpha" {
			t.Fatal("smallest customer should have been cut")
		}
	}
}

func TestConcentrationElidesLongNames(t *testing.T) {
	dist := customerConcentration([]Order{
		order("Very Long Customer Name", StatusPaid, 100, testNow),
	})
	if dist.Labels[0] != "Very Lon..." {
		t.Fatalf("elided label = %q", dist.Labels[0])
	}
}

func TestRevenueBreakdownAnchors(t *testing.T) {
	e := NewEngine(fixedClock)
	// Wednesday; the week anchor falls on Sunday June 15.
	now := time.Date(2025, 6, 18, 14, 30, 0, 0, time.UTC)
	startOfToday := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)
	orders := []Order{
		order("A", StatusPaid, 10, startOfToday.Add(2*time.Hour)),
		order("B", StatusPaid, 20, startOfToday.Add(-2*day)),  // Monday, inside the week
		order("C", StatusPaid, 40, startOfToday.Add(-10*day)), // this month only
		order("D", StatusConfirmed, 80, startOfToday.Add(-20*day)),
	}
	bd := e.revenueBreakdown(orders, now)

	if bd.Today != 10 {
		t.Fatalf("today = %v", bd.Today)
	}
	if bd.Week != 30 {
		t.Fatalf("week = %v", bd.Week)
	}
	if bd.Month != 70 {
		t.Fatalf("month = %v", bd.Month)
	}
	if bd.OldestUnpaid == nil || bd.OldestUnpaid.Amount != 80 {
		t.Fatalf("oldest unpaid = %+v", bd.OldestUnpaid)
	}
}

func TestTopOverdueCustomersAggregates(t *testing.T) {
	aged := func(name string, amount float64, days int) Order {
		o := order(name, StatusConfirmed, amount, testNow)
		o.AgingDays = days
		return o
	}
	out := topOverdueCustomers([]Order{
		aged("A", 100, 5),
		aged("A", 50, 12),
		aged("B", 500, 2),
		aged("C", 10, 0), // not yet overdue
	})
	if len(out) != 2 {
		t.Fatalf("expected 2 overdue customers, got %d", len(out))
	}
	if out[0].Name != "B" {
		t.Fatalf("largest exposure first, got %s", out[0].Name)
	}
	if out[1].Amount != 150 || out[1].MaxAge != 12 {
		t.Fatalf("aggregate for A = %+v", out[1])
	}
}

func TestMissingDatesSurfaced(t *testing.T) {
	e := NewEngine(fixedClock)
	o := order("A", StatusPaid, 100, testNow)
	o.MissingDate = true
	d := e.ComputeDashboard([]Order{o}, ParsePeriod(Period7d))
	if d.MissingDates != 1 {
		t.Fatalf("missing date count = %d", d.MissingDates)
	}
}

func TestTopOrders(t *testing.T) {
	orders := []Order{
		order("A", StatusPaid, 10, testNow),
		order("B", StatusDraft, 400, testNow),
		order("C", StatusPaid, 300, testNow),
		order("D", StatusConfirmed, 200, testNow),
	}
	top := topOrders(orders)
	if len(top) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(top))
	}
	if top[0].TotalAmount != 400 || top[2].TotalAmount != 200 {
		t.Fatalf("unexpected ordering: %+v", top)
	}
	if orders[0].TotalAmount != 10 {
		t.Fatal("input slice must not be reordered")
	}
}
