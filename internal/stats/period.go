package stats

import "time"

// Symbolic period tokens accepted by the dashboard.
const (
	PeriodToday = "today"
	Period7d    = "7d"
	Period30d   = "30d"
	PeriodAll   = "all"
)

const day = 24 * time.Hour

// Period scopes a KPI computation: either a symbolic token or an explicit
// start/end pair. The zero value behaves like Period30d.
type Period struct {
	Token string    `json:"token"`
	Start time.Time `json:"start,omitzero"`
	End   time.Time `json:"end,omitzero"`
}

// ParsePeriod maps a request token onto a Period, defaulting to 30d.
func ParsePeriod(token string) Period {
	switch token {
	case PeriodToday, Period7d, Period30d, PeriodAll:
		return Period{Token: token}
	default:
		return Period{Token: Period30d}
	}
}

// Between builds an explicit period.
func Between(start, end time.Time) Period {
	return Period{Start: start, End: end}
}

// IsExplicit reports whether the period carries its own date pair.
func (p Period) IsExplicit() bool {
	return !p.Start.IsZero() && !p.End.IsZero()
}

type window struct {
	start time.Time
	end   time.Time
}

func (w window) contains(t time.Time) bool {
	return !t.Before(w.start) && !t.After(w.end)
}

// resolve derives the current window and the previous window of identical
// duration immediately preceding it. PeriodAll has no previous window and
// returns nil, leaving comparison deltas at zero.
func (p Period) resolve(now time.Time) (window, *window) {
	if p.IsExplicit() {
		current := window{start: p.Start, end: p.End}
		duration := p.End.Sub(p.Start)
		prevEnd := p.Start.Add(-time.Millisecond)
		return current, &window{start: prevEnd.Add(-duration), end: prevEnd}
	}

	switch p.Token {
	case PeriodToday:
		start := startOfDay(now)
		return window{start: start, end: now},
			&window{start: start.Add(-day), end: start.Add(-time.Millisecond)}
	case Period7d:
		return rollingWindow(now, 7)
	case PeriodAll:
		return window{end: now}, nil
	default:
		return rollingWindow(now, 30)
	}
}

func rollingWindow(now time.Time, days int) (window, *window) {
	start := now.Add(-time.Duration(days) * day)
	return window{start: start, end: now},
		&window{start: start.Add(-time.Duration(days) * day), end: start.Add(-time.Millisecond)}
}

// seriesRange yields the day count and first day of the time-series window.
func (p Period) seriesRange(now time.Time) (int, time.Time) {
	if p.IsExplicit() {
		// Count calendar days, not elapsed duration: an end-inclusive range
		// like [Jun 1, Jun 5 23:59:59.999…] still spans exactly five days.
		first := startOfDay(p.Start)
		days := int(startOfDay(p.End).Sub(first)/day) + 1
		if days < 1 {
			days = 1
		}
		return days, first
	}
	days := 30
	switch p.Token {
	case Period7d:
		days = 7
	case PeriodToday:
		days = 1
	}
	return days, now.Add(-time.Duration(days-1) * day)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
