package viz

import (
	"strings"
	"testing"

	"github.com/odebench/odebench/internal/ode"
)

func TestProgressBarClamps(t *testing.T) {
	for _, pct := range []float64{-0.5, 0, 0.5, 1, 2} {
		bar := ProgressBar(pct, 10)
		if bar == "" {
			t.Errorf("empty bar for %g", pct)
		}
	}
}

func TestSparkline(t *testing.T) {
	if s := Sparkline(nil, 10); !strings.Contains(s, "─") {
		t.Error("empty series should render a flat line")
	}
	if s := Sparkline([]float64{1, 5, 2, 8, 3}, 5); s == "" {
		t.Error("expected non-empty sparkline")
	}
	// Constant series must not divide by zero.
	if s := Sparkline([]float64{2, 2, 2}, 3); s == "" {
		t.Error("expected non-empty sparkline for constant series")
	}
}

func TestPlotComponent(t *testing.T) {
	sol := &ode.Solution{
		Ts: []float64{0, 1, 2, 3},
		Ys: []ode.State{{1, 0}, {0.5, 0.5}, {0, 1}, {-0.5, 0.5}},
	}

	if out := PlotComponent(sol, 0); !strings.Contains(out, "y[0]") {
		t.Errorf("plot missing caption: %q", out)
	}
	if out := PlotComponent(sol, 5); !strings.Contains(out, "out of range") {
		t.Errorf("expected range error, got %q", out)
	}
	if out := PlotComponent(nil, 0); !strings.Contains(out, "not enough") {
		t.Errorf("expected empty-solution message, got %q", out)
	}
}
