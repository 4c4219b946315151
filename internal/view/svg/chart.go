// Package svg renders the dashboard charts as inline SVG so pages need no
// client-side charting library.
package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Opts customises a chart. Zero values fall back to the dashboard palette.
type Opts struct {
	Title     string
	Stroke    string
	Fill      string
	AxisColor string
	GridColor string
	Padding   float64
	Ticks     int
}

// Chart geometry defaults.
const (
	DefaultWidth   = 720
	DefaultHeight  = 220
	defaultPadding = 28.0
	defaultTicks   = 5
)

type frame struct {
	width, height float64
	padding       float64
	chartW        float64
	chartH        float64
	minVal        float64
	maxVal        float64
}

func newFrame(width, height int, padding float64, series []float64) (frame, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if padding <= 0 {
		padding = defaultPadding
	}
	f := frame{
		width:   float64(width),
		height:  float64(height),
		padding: padding,
		chartW:  float64(width) - 2*padding,
		chartH:  float64(height) - 2*padding,
	}
	if f.chartW <= 0 || f.chartH <= 0 {
		return f, fmt.Errorf("svg: viewport too small")
	}

	f.minVal, f.maxVal = 0, 0
	for _, v := range series {
		if v < f.minVal {
			f.minVal = v
		}
		if v > f.maxVal {
			f.maxVal = v
		}
	}
	if almostEqual(f.maxVal, f.minVal) {
		f.maxVal = f.minVal + 1
	}
	return f, nil
}

func (f frame) y(v float64) float64 {
	scale := f.chartH / (f.maxVal - f.minVal)
	return f.padding + f.chartH - (v-f.minVal)*scale
}

// Line renders a single-series line chart with a filled area underneath.
func Line(width, height int, series []float64, labels []string, opts Opts) (template.HTML, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("svg: series required")
	}
	if len(series) != len(labels) {
		return "", fmt.Errorf("svg: labels length must match series")
	}
	f, err := newFrame(width, height, opts.Padding, series)
	if err != nil {
		return "", err
	}

	stroke := fallback(opts.Stroke, "#b45309")
	fill := fallback(opts.Fill, "rgba(180,83,9,0.12)")

	step := 0.0
	if len(series) > 1 {
		step = f.chartW / float64(len(series)-1)
	}
	x := func(i int) float64 {
		if len(series) == 1 {
			return f.padding + f.chartW/2
		}
		return f.padding + float64(i)*step
	}

	var path strings.Builder
	for i, v := range series {
		if i == 0 {
			fmt.Fprintf(&path, "M%.2f %.2f", x(i), f.y(v))
		} else {
			fmt.Fprintf(&path, " L%.2f %.2f", x(i), f.y(v))
		}
	}

	var b strings.Builder
	openChart(&b, f, opts)
	base := f.padding + f.chartH
	fmt.Fprintf(&b, `<path d="%s L%.2f %.2f L%.2f %.2f Z" fill="%s" stroke="none"></path>`,
		path.String(), x(len(series)-1), base, x(0), base, fill)
	fmt.Fprintf(&b, `<path d="%s" fill="none" stroke="%s" stroke-width="2" stroke-linejoin="round" stroke-linecap="round"></path>`,
		path.String(), stroke)
	writeXLabels(&b, f, labels, x, opts)
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

// Bars renders a single-series bar chart.
func Bars(width, height int, series []float64, labels []string, opts Opts) (template.HTML, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("svg: series required")
	}
	if len(series) != len(labels) {
		return "", fmt.Errorf("svg: labels length must match series")
	}
	f, err := newFrame(width, height, opts.Padding, series)
	if err != nil {
		return "", err
	}

	fill := fallback(opts.Fill, "#b45309")
	slot := f.chartW / float64(len(series))
	barW := slot * 0.6

	var b strings.Builder
	openChart(&b, f, opts)
	zero := f.y(0)
	for i, v := range series {
		x := f.padding + float64(i)*slot + (slot-barW)/2
		top := f.y(v)
		h := zero - top
		if h < 0 {
			top, h = zero, -h
		}
		fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" rx="2"></rect>`,
			x, top, barW, h, fill)
	}
	center := func(i int) float64 {
		return f.padding + float64(i)*slot + slot/2
	}
	writeXLabels(&b, f, labels, center, opts)
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func openChart(b *strings.Builder, f frame, opts Opts) {
	axis := fallback(opts.AxisColor, "#57534e")
	grid := fallback(opts.GridColor, "#e7e5e4")
	ticks := opts.Ticks
	if ticks <= 0 {
		ticks = defaultTicks
	}

	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" role="img" aria-label="%s">`,
		f.width, f.height, template.HTMLEscapeString(fallback(opts.Title, "Chart")))
	for i := 0; i <= ticks; i++ {
		ratio := float64(i) / float64(ticks)
		y := f.padding + f.chartH - ratio*f.chartH
		value := f.minVal + (f.maxVal-f.minVal)*ratio
		fmt.Fprintf(b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="0.5" stroke-dasharray="2,4"></line>`,
			f.padding, y, f.padding+f.chartW, y, grid)
		fmt.Fprintf(b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10" text-anchor="end">%s</text>`,
			f.padding-6, y+4, axis, template.HTMLEscapeString(formatTick(value)))
	}
	fmt.Fprintf(b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1"></line>`,
		f.padding, f.padding+f.chartH, f.padding+f.chartW, f.padding+f.chartH, axis)
}

func writeXLabels(b *strings.Builder, f frame, labels []string, x func(int) float64, opts Opts) {
	axis := fallback(opts.AxisColor, "#57534e")
	// Thin out crowded label rows; 31-day windows keep every third label.
	stride := 1
	if len(labels) > 12 {
		stride = len(labels)/10 + 1
	}
	for i, label := range labels {
		if i%stride != 0 {
			continue
		}
		fmt.Fprintf(b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10" text-anchor="middle">%s</text>`,
			x(i), f.padding+f.chartH+14, axis, template.HTMLEscapeString(label))
	}
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func formatTick(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fk", v/1_000)
	default:
		if almostEqual(v, math.Round(v)) {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.2f", v)
	}
}
