package svg

import (
	"strings"
	"testing"
)

func TestLineRendersPathAndLabels(t *testing.T) {
	out, err := Line(0, 0, []float64{0, 50, 25}, []string{"06/01", "06/02", "06/03"}, Opts{Title: "Revenue"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "<svg") || !strings.Contains(s, "</svg>") {
		t.Fatal("missing svg envelope")
	}
	if !strings.Contains(s, "06/02") {
		t.Fatal("missing x label")
	}
	if !strings.Contains(s, "Revenue") {
		t.Fatal("missing title")
	}
}

func TestLineRejectsMismatchedLabels(t *testing.T) {
	if _, err := Line(0, 0, []float64{1, 2}, []string{"a"}, Opts{}); err == nil {
		t.Fatal("expected error for mismatched labels")
	}
	if _, err := Line(0, 0, nil, nil, Opts{}); err == nil {
		t.Fatal("expected error for empty series")
	}
}

func TestBarsRendersOneRectPerValue(t *testing.T) {
	out, err := Bars(0, 0, []float64{10, 0, 30, 20}, []string{"Current", "1-7", "8-30", "30+"}, Opts{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Count(string(out), "<rect"); got != 4 {
		t.Fatalf("expected 4 bars, got %d", got)
	}
}

func TestFlatSeriesDoesNotDivideByZero(t *testing.T) {
	if _, err := Line(0, 0, []float64{0, 0, 0}, []string{"a", "b", "c"}, Opts{}); err != nil {
		t.Fatalf("flat series should render: %v", err)
	}
}
