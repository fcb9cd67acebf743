// Package ode defines the core types for describing and solving
// initial value problems:
//
//   - [Problem]: an immutable description of dy/dt = f(t, y) with an
//     initial state, an integration span and parameters
//   - [Strategy]: the algorithmic variant used to solve a Problem
//     (solver family, Jacobian mode, linear solver, preconditioner)
//   - [Config]: tolerances and step bounds
//   - [Solution]: the computed trajectory plus solver statistics
//
// # Example
//
//	prob := problems.Robertson(0.04, 3e7, 1e4)
//	sol, _ := solver.Solve(ctx, prob, ode.DefaultStrategy(), ode.DefaultConfig())
//
// # Thread Safety
//
// Problem and Strategy values are read-only after construction and safe
// to share. Solutions are written by a single solve and must not be
// mutated concurrently.
package ode
