package bench

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/odebench/odebench/internal/ode"
)

// Entry is one row of a comparison: a named strategy and its outcome.
// Err is set when the strategy could not run on the problem at all
// (for example an autodiff Jacobian against a problem whose right-hand
// side cannot propagate derivatives).
type Entry struct {
	Name   string
	Timing Timing
	Err    error
}

// Compare measures every named strategy on the same problem and
// config. Strategies that fail still produce an entry so the caller
// can report why; rows come back sorted by name.
func Compare(ctx context.Context, prob ode.Problem, strategies map[string]ode.Strategy, cfg ode.Config) []Entry {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		tm, err := Run(ctx, prob, strategies[name], cfg)
		entries = append(entries, Entry{Name: name, Timing: tm, Err: err})
	}
	return entries
}

// Render writes a comparison as an aligned table.
func Render(w io.Writer, prob string, entries []Entry) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Problem: %s\n", prob)
	fmt.Fprintln(tw, "STRATEGY\tTIME\tSTEPS\tREJECTED\tEVALS\tJAC\tLINSOLVES")
	for _, e := range entries {
		if e.Err != nil {
			fmt.Fprintf(tw, "%s\terror: %v\t\t\t\t\t\n", e.Name, e.Err)
			continue
		}
		s := e.Timing.Stats
		fmt.Fprintf(tw, "%s\t%v\t%d\t%d\t%d\t%d\t%d\n",
			e.Name, e.Timing.Elapsed, s.Steps, s.Rejected, s.Evals, s.JacEvals, s.LinSolves)
	}
	tw.Flush()
}
