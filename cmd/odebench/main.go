package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/odebench/odebench/internal/analysis"
	"github.com/odebench/odebench/internal/bench"
	"github.com/odebench/odebench/internal/compute"
	"github.com/odebench/odebench/internal/config"
	"github.com/odebench/odebench/internal/ensemble"
	"github.com/odebench/odebench/internal/ode"
	"github.com/odebench/odebench/internal/problems"
	"github.com/odebench/odebench/internal/solver"
	"github.com/odebench/odebench/internal/store"
	"github.com/odebench/odebench/internal/viz"
)

var (
	dataDir     string
	params      []float64
	algorithm   string
	jacobian    string
	linear      string
	atol        float64
	rtol        float64
	initialStep float64
	maxStep     float64
	reps        int
	configFile  string
	preset      string
	// Ensemble parameters
	members int
	spread  float64
	seed    int64
	// Work-precision sweep
	tols []float64
	// Plot axis
	component int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "odebench",
		Short: "ODE solver benchmark harness",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".odebench", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [problem]",
		Short: "solve a problem and store the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runProblem,
	}
	addStrategyFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	benchCmd := &cobra.Command{
		Use:   "bench [problem]",
		Short: "time one strategy on a problem",
		Args:  cobra.ExactArgs(1),
		RunE:  benchProblem,
	}
	addStrategyFlags(benchCmd)
	benchCmd.Flags().IntVar(&reps, "reps", 3, "repetitions, fastest wins")

	compareCmd := &cobra.Command{
		Use:   "compare [problem]",
		Short: "compare jacobian and linear solver variants on a problem",
		Args:  cobra.ExactArgs(1),
		RunE:  compareStrategies,
	}
	compareCmd.Flags().Float64SliceVar(&params, "params", nil, "problem parameters")
	compareCmd.Flags().Float64Var(&atol, "atol", 1e-8, "absolute tolerance")
	compareCmd.Flags().Float64Var(&rtol, "rtol", 1e-6, "relative tolerance")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [problem]",
		Short: "run a batch of perturbed initial conditions",
		Args:  cobra.ExactArgs(1),
		RunE:  runEnsemble,
	}
	addStrategyFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&members, "members", 16, "ensemble size")
	ensembleCmd.Flags().Float64Var(&spread, "spread", 0.01, "relative perturbation of the initial state")
	ensembleCmd.Flags().Int64Var(&seed, "seed", 1, "base random seed")

	wpCmd := &cobra.Command{
		Use:   "wp [problem]",
		Short: "work-precision sweep over tolerances",
		Args:  cobra.ExactArgs(1),
		RunE:  workPrecision,
	}
	addStrategyFlags(wpCmd)
	wpCmd.Flags().Float64SliceVar(&tols, "tols", []float64{1e-3, 1e-4, 1e-5, 1e-6, 1e-7, 1e-8}, "rtol sweep")

	liveCmd := &cobra.Command{
		Use:   "live [problem]",
		Short: "solve with a live progress view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addStrategyFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&component, "component", -1, "state component to plot (-1 for all)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [problem]",
		Short: "solve and write the trajectory as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	addStrategyFlags(exportCSVCmd)

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [problem]",
		Short: "solve and write run data as JSON to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	addStrategyFlags(exportJSONCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [problem]",
		Short: "list available presets for a problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for problem: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	problemsCmd := &cobra.Command{
		Use:   "problems",
		Short: "list available problems",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range problems.List() {
				fmt.Println(name)
			}
		},
	}

	backendCmd := &cobra.Command{
		Use:   "backend",
		Short: "show the active compute backend",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(compute.GetBackend().Name())
		},
	}

	rootCmd.AddCommand(runCmd, benchCmd, compareCmd, ensembleCmd, wpCmd, liveCmd,
		listCmd, plotCmd, exportCSVCmd, exportJSONCmd, presetsCmd, problemsCmd, backendCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addStrategyFlags(cmd *cobra.Command) {
	cmd.Flags().Float64SliceVar(&params, "params", nil, "problem parameters")
	cmd.Flags().StringVar(&algorithm, "algorithm", "auto", "euler, rk4, dopri, rosenbrock or auto")
	cmd.Flags().StringVar(&jacobian, "jacobian", "autodiff", "autodiff, finitediff, analytic or banded")
	cmd.Flags().StringVar(&linear, "linear", "dense", "dense, banded or gmres")
	cmd.Flags().Float64Var(&atol, "atol", 1e-8, "absolute tolerance")
	cmd.Flags().Float64Var(&rtol, "rtol", 1e-6, "relative tolerance")
	cmd.Flags().Float64Var(&initialStep, "h0", 0, "initial step (0 for automatic)")
	cmd.Flags().Float64Var(&maxStep, "hmax", 0, "maximum step (0 for unbounded)")
}

func flagStrategy() ode.Strategy {
	return ode.Strategy{Algorithm: algorithm, Jacobian: jacobian, Linear: linear}
}

func flagConfig() ode.Config {
	cfg := ode.DefaultConfig()
	cfg.Atol = atol
	cfg.Rtol = rtol
	cfg.InitialStep = initialStep
	cfg.MaxStep = maxStep
	return cfg
}

func runProblem(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	strat := flagStrategy()
	solveCfg := flagConfig()

	if preset != "" {
		if name == "" {
			return fmt.Errorf("--preset needs a problem name")
		}
		cfg := config.GetPreset(name, preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(name))
		}
		applyConfig(cmd, cfg, &name, &strat, &solveCfg)
	}

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyConfig(cmd, cfg, &name, &strat, &solveCfg)
	}

	if name == "" {
		return fmt.Errorf("no problem given (positional argument, --preset or --config)")
	}

	prob, err := problems.New(name, params)
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("solving %s...\n", name)

	tm, err := bench.Run(context.Background(), prob, strat, solveCfg)
	if err != nil {
		return err
	}

	sol, err := solver.Solve(context.Background(), prob, strat, solveCfg)
	if err != nil {
		return err
	}

	runID, err := st.Save(tm, solveCfg, sol)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", tm.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d (%d rejected)\n", tm.Stats.Steps, tm.Stats.Rejected)
	fmt.Printf("rhs evals: %d, jacobians: %d, linear solves: %d\n",
		tm.Stats.Evals, tm.Stats.JacEvals, tm.Stats.LinSolves)
	fmt.Printf("final state at t=%g: %v\n", tm.FinalTime, []float64(tm.FinalY))

	return nil
}

// applyConfig overlays a loaded config; explicitly set CLI flags win.
func applyConfig(cmd *cobra.Command, cfg *config.Config, name *string, strat *ode.Strategy, solveCfg *ode.Config) {
	if *name == "" {
		*name = cfg.Problem
	}
	if len(params) == 0 {
		params = cfg.Params
	}
	fromCfg := cfg.Strategy()
	if !cmd.Flags().Changed("algorithm") && fromCfg.Algorithm != "" {
		strat.Algorithm = fromCfg.Algorithm
	}
	if !cmd.Flags().Changed("jacobian") && fromCfg.Jacobian != "" {
		strat.Jacobian = fromCfg.Jacobian
	}
	if !cmd.Flags().Changed("linear") && fromCfg.Linear != "" {
		strat.Linear = fromCfg.Linear
	}
	sc := cfg.SolveConfig()
	if !cmd.Flags().Changed("atol") && sc.Atol > 0 {
		solveCfg.Atol = sc.Atol
	}
	if !cmd.Flags().Changed("rtol") && sc.Rtol > 0 {
		solveCfg.Rtol = sc.Rtol
	}
	if !cmd.Flags().Changed("h0") && sc.InitialStep > 0 {
		solveCfg.InitialStep = sc.InitialStep
	}
	if !cmd.Flags().Changed("hmax") && sc.MaxStep > 0 {
		solveCfg.MaxStep = sc.MaxStep
	}
}

func benchProblem(cmd *cobra.Command, args []string) error {
	prob, err := problems.New(args[0], params)
	if err != nil {
		return err
	}

	tm, err := bench.RunBest(context.Background(), prob, flagStrategy(), flagConfig(), reps)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROBLEM\tTIME\tSTEPS\tREJECTED\tEVALS\tJAC\tLINSOLVES")
	fmt.Fprintf(w, "%s\t%v\t%d\t%d\t%d\t%d\t%d\n",
		tm.Problem, tm.Elapsed, tm.Stats.Steps, tm.Stats.Rejected,
		tm.Stats.Evals, tm.Stats.JacEvals, tm.Stats.LinSolves)
	return w.Flush()
}

func compareStrategies(cmd *cobra.Command, args []string) error {
	prob, err := problems.New(args[0], params)
	if err != nil {
		return err
	}

	strategies := map[string]ode.Strategy{
		"dopri":               {Algorithm: ode.AlgoDopri},
		"rosenbrock/autodiff": {Algorithm: ode.AlgoRosenbrock, Jacobian: ode.JacAutodiff, Linear: ode.LinDense},
		"rosenbrock/findiff":  {Algorithm: ode.AlgoRosenbrock, Jacobian: ode.JacFiniteDiff, Linear: ode.LinDense},
		"rosenbrock/gmres":    {Algorithm: ode.AlgoRosenbrock, Jacobian: ode.JacFiniteDiff, Linear: ode.LinGMRES},
	}
	if prob.Jac != nil {
		strategies["rosenbrock/analytic"] = ode.Strategy{
			Algorithm: ode.AlgoRosenbrock, Jacobian: ode.JacAnalytic, Linear: ode.LinDense,
		}
	}
	if prob.Banded {
		strategies["rosenbrock/banded"] = ode.Strategy{
			Algorithm: ode.AlgoRosenbrock, Jacobian: ode.JacBanded, Linear: ode.LinBanded,
		}
	}

	entries := bench.Compare(context.Background(), prob, strategies, flagConfig())
	bench.Render(os.Stdout, prob.Name, entries)
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	prob, err := problems.New(args[0], params)
	if err != nil {
		return err
	}

	cfg := ensemble.Config{Members: members, Spread: spread, Seed: seed}
	ms := ensemble.Run(context.Background(), prob, flagStrategy(), flagConfig(), cfg)

	failed := 0
	for _, m := range ms {
		if m.Err != nil {
			failed++
		}
	}

	fmt.Printf("problem: %s\n", prob.Name)
	fmt.Printf("members: %d (%d failed)\n", len(ms), failed)
	fmt.Printf("backend: %s\n", compute.GetBackend().Name())
	fmt.Printf("final spread: %g\n", ensemble.Spread(ms))
	return nil
}

func workPrecision(cmd *cobra.Command, args []string) error {
	prob, err := problems.New(args[0], params)
	if err != nil {
		return err
	}

	points, err := analysis.WorkPrecision(context.Background(), prob, flagStrategy(), tols)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RTOL\tERROR\tTIME\tSTEPS\tEVALS")
	for _, p := range points {
		fmt.Fprintf(w, "%.0e\t%.3e\t%v\t%d\t%d\n", p.Tol, p.Err, p.Elapsed, p.Steps, p.Evals)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(viz.PlotWorkPrecision(points))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	prob, err := problems.New(args[0], params)
	if err != nil {
		return err
	}

	model := viz.NewLive(prob, flagStrategy(), flagConfig())
	_, err = tea.NewProgram(model).Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROBLEM\tTIME\tALGO\tJAC\tLINEAR\tSTEPS\tELAPSED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%v\n",
			run.ID,
			run.Problem,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Algorithm,
			run.Jacobian,
			run.Linear,
			run.Stats.Steps,
			time.Duration(run.ElapsedNs),
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("problem: %s\n", meta.Problem)
	fmt.Printf("samples: %d\n\n", len(states))

	sol := &ode.Solution{Ts: times, Ys: make([]ode.State, len(states))}
	for i, s := range states {
		sol.Ys[i] = s
	}

	if component >= 0 {
		fmt.Println(viz.PlotComponent(sol, component))
		return nil
	}

	numVars := len(states[0])
	maxPlots := 6
	if numVars > maxPlots {
		numVars = maxPlots
	}
	for idx := 0; idx < numVars; idx++ {
		fmt.Println(viz.PlotComponent(sol, idx))
		fmt.Println()
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	prob, err := problems.New(args[0], params)
	if err != nil {
		return err
	}

	sol, err := solver.Solve(context.Background(), prob, flagStrategy(), flagConfig())
	if err != nil {
		return err
	}
	return store.ExportCSV(os.Stdout, sol)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	prob, err := problems.New(args[0], params)
	if err != nil {
		return err
	}

	strat := flagStrategy()
	solveCfg := flagConfig()

	tm, err := bench.Run(context.Background(), prob, strat, solveCfg)
	if err != nil {
		return err
	}
	sol, err := solver.Solve(context.Background(), prob, strat, solveCfg)
	if err != nil {
		return err
	}
	return store.ExportJSON(os.Stdout, tm, sol)
}
