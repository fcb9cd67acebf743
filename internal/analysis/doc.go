// Package analysis provides accuracy measurement for solver runs.
//
// The package answers two questions about a strategy:
//
//   - [ReferenceError]: how far is a final state from a
//     tight-tolerance reference solution
//   - [WorkPrecision]: how do cost and accuracy trade off over a
//     tolerance sweep
//
// # Work-precision diagrams
//
// A sweep produces one point per tolerance:
//
//	points, err := analysis.WorkPrecision(ctx, prob, strat, tols)
//
// Plotting error against elapsed time for several strategies is the
// standard way to pick a solver for a problem class.
package analysis
