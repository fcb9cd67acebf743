package problems

import (
	"fmt"
	"math"
	"sort"

	"github.com/odebench/odebench/internal/ode"
)

// builders maps problem names to constructors taking the parameter
// slice from a config or CLI flag. nil params means defaults.
var builders = map[string]func(params []float64) (ode.Problem, error){
	"robertson": func(p []float64) (ode.Problem, error) {
		p = withDefaults(p, []float64{0.04, 3e7, 1e4})
		return Robertson(p[0], p[1], p[2]), nil
	},
	"robertson_scratch": func(p []float64) (ode.Problem, error) {
		p = withDefaults(p, []float64{0.04, 3e7, 1e4})
		return RobertsonScratch(p[0], p[1], p[2]), nil
	},
	"vanderpol": func(p []float64) (ode.Problem, error) {
		p = withDefaults(p, []float64{1000})
		return VanDerPol(p[0]), nil
	},
	"lorenz": func(p []float64) (ode.Problem, error) {
		p = withDefaults(p, []float64{10, 28, 8.0 / 3.0})
		return Lorenz(p[0], p[1], p[2]), nil
	},
	"oscillator": func(p []float64) (ode.Problem, error) {
		return Oscillator(), nil
	},
	"bruss2d": func(p []float64) (ode.Problem, error) {
		p = withDefaults(p, []float64{16})
		// The discretization needs at least a 2x2 grid; smaller or
		// fractional sizes have no meaning.
		if p[0] != math.Trunc(p[0]) || p[0] < 2 {
			return ode.Problem{}, fmt.Errorf("bruss2d: grid size must be a whole number of at least 2, got %g", p[0])
		}
		return Bruss2D(int(p[0])), nil
	},
}

// New builds the named problem with the given parameters (nil for the
// problem's defaults).
func New(name string, params []float64) (ode.Problem, error) {
	fn, ok := builders[name]
	if !ok {
		return ode.Problem{}, fmt.Errorf("unknown problem: %s", name)
	}
	return fn(params)
}

// List returns all registered problem names, sorted.
func List() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func withDefaults(p, defaults []float64) []float64 {
	if len(p) >= len(defaults) {
		return p
	}
	merged := make([]float64, len(defaults))
	copy(merged, defaults)
	copy(merged, p)
	return merged
}
