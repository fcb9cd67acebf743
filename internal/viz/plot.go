package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/odebench/odebench/internal/analysis"
	"github.com/odebench/odebench/internal/ode"
)

const (
	plotHeight = 12
	plotWidth  = 70
)

// PlotComponent charts one state component over the trajectory.
func PlotComponent(sol *ode.Solution, idx int) string {
	if sol == nil || len(sol.Ys) < 2 {
		return "(not enough points to plot)"
	}
	if idx < 0 || idx >= len(sol.Ys[0]) {
		return fmt.Sprintf("(component %d out of range)", idx)
	}

	series := make([]float64, len(sol.Ys))
	for i, y := range sol.Ys {
		series[i] = y[idx]
	}

	return asciigraph.Plot(series,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("y[%d] over %d steps", idx, len(series)-1)),
	)
}

// PlotWorkPrecision charts log10 error against the sweep index. The
// raw errors span too many decades to read on a linear axis.
func PlotWorkPrecision(points []analysis.Point) string {
	if len(points) < 2 {
		return "(not enough points to plot)"
	}

	series := make([]float64, len(points))
	for i, p := range points {
		if p.Err <= 0 {
			series[i] = -16
			continue
		}
		series[i] = math.Log10(p.Err)
	}

	return asciigraph.Plot(series,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("log10(error) per tolerance level"),
	)
}
