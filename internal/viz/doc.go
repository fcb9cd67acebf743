// Package viz provides terminal visualization for benchmark runs.
//
// The package implements a live progress view using the Bubble Tea
// framework plus ASCII charts for finished runs:
//
//   - [NewLive]: live integration progress with step counters and a
//     state sparkline
//   - [PlotComponent]: trajectory chart for one state component
//   - [PlotWorkPrecision]: log-log style chart of a tolerance sweep
//
// # Key Bindings
//
//	Q / Ctrl+C - Quit the live view
package viz
