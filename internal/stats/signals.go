package stats

import (
	"fmt"
	"sort"
)

// SignalKind classifies a predictive signal for rendering.
type SignalKind string

const (
	SignalWarning SignalKind = "warning"
	SignalInfo    SignalKind = "info"
	SignalDanger  SignalKind = "danger"
)

// Signal is a short textual heads-up shown on the dashboard.
type Signal struct {
	Kind SignalKind `json:"kind"`
	Text string     `json:"text"`
}

// RiskAlert summarises critically overdue exposure for the alert strip.
type RiskAlert struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
	Label  string  `json:"label"`
}

const (
	largeOrderMinSample = 5
	largeOrderFactor    = 2.0
	criticalAgingDays   = 30
	riskAgingDays       = 14
)

// PredictiveSignals derives textual heads-up signals from the order set.
func (e *Engine) PredictiveSignals(orders []Order) []Signal {
	signals := make([]Signal, 0, 3)
	today := startOfDay(e.now())

	ordersToday := 0
	for _, o := range orders {
		if !o.EffectiveDate.Before(today) {
			ordersToday++
		}
	}
	if ordersToday == 0 {
		signals = append(signals, Signal{Kind: SignalWarning, Text: "No orders recorded today yet."})
	}

	if s := e.unusualOrderSignal(orders); s != nil {
		signals = append(signals, *s)
	}

	critical := 0
	for _, o := range orders {
		if o.Status.IsOutstanding() && o.AgingDays >= criticalAgingDays {
			critical++
		}
	}
	if critical > 0 {
		signals = append(signals, Signal{
			Kind: SignalDanger,
			Text: fmt.Sprintf("%d customer(s) are at high risk (>30 days overdue).", critical),
		})
	}

	return signals
}

// unusualOrderSignal flags the most recent order whose amount exceeds twice
// the average of all revenue-counting orders. Small samples stay quiet.
func (e *Engine) unusualOrderSignal(orders []Order) *Signal {
	counted := make([]Order, 0, len(orders))
	var sum float64
	for _, o := range orders {
		if o.Status.CountsAsRevenue() {
			counted = append(counted, o)
			sum += o.TotalAmount
		}
	}
	if len(counted) <= largeOrderMinSample {
		return nil
	}

	avg := sum / float64(len(counted))
	sort.Slice(counted, func(i, j int) bool {
		return counted[i].EffectiveDate.After(counted[j].EffectiveDate)
	})
	for _, o := range counted {
		if o.TotalAmount > avg*largeOrderFactor {
			return &Signal{
				Kind: SignalInfo,
				Text: fmt.Sprintf("Unusual order size from %s (%s).", o.CustomerName, e.money(o.TotalAmount)),
			}
		}
	}
	return nil
}

// ComputeRiskAlert reports confirmed or fulfilled orders overdue beyond the
// risk threshold, nil when there is nothing to flag.
func (e *Engine) ComputeRiskAlert(orders []Order) *RiskAlert {
	var count int
	var amount float64
	for _, o := range orders {
		if o.Status.IsOutstanding() && o.AgingDays >= riskAgingDays {
			count++
			amount += o.TotalAmount
		}
	}
	if count == 0 {
		return nil
	}
	return &RiskAlert{
		Count:  count,
		Amount: amount,
		Label:  fmt.Sprintf("%d invoices overdue >14 days · %s at risk", count, e.money(amount)),
	}
}
