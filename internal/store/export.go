package store

import (
	"encoding/json"
	"io"

	"github.com/odebench/odebench/internal/bench"
	"github.com/odebench/odebench/internal/ode"
)

type ExportData struct {
	Problem   string      `json:"problem"`
	Algorithm string      `json:"algorithm"`
	Jacobian  string      `json:"jacobian"`
	Linear    string      `json:"linear"`
	ElapsedNs int64       `json:"elapsed_ns"`
	Stats     ode.Stats   `json:"stats"`
	Times     []float64   `json:"times"`
	States    [][]float64 `json:"states"`
}

// ExportJSON writes a run and its trajectory as indented JSON.
func ExportJSON(w io.Writer, tm bench.Timing, sol *ode.Solution) error {
	data := ExportData{
		Problem:   tm.Problem,
		Algorithm: tm.Strategy.Algorithm,
		Jacobian:  tm.Strategy.Jacobian,
		Linear:    tm.Strategy.Linear,
		ElapsedNs: tm.Elapsed.Nanoseconds(),
		Stats:     tm.Stats,
	}

	if sol != nil {
		data.Times = sol.Ts
		data.States = make([][]float64, len(sol.Ys))
		for i, y := range sol.Ys {
			data.States[i] = y
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV writes just the trajectory in the same shape states.csv
// uses on disk.
func ExportCSV(w io.Writer, sol *ode.Solution) error {
	return writeStates(w, sol)
}
