package config

// Presets are curated starting points per problem. Keys are problem
// name, then preset name.
var Presets = map[string]map[string]*Config{
	"robertson": {
		"default": {
			Problem: "robertson", Algorithm: "auto", Jacobian: "autodiff", Linear: "dense",
			Atol: 1e-8, Rtol: 1e-6,
		},
		"finitediff": {
			Problem: "robertson", Algorithm: "rosenbrock", Jacobian: "finitediff", Linear: "dense",
			Atol: 1e-8, Rtol: 1e-6,
		},
		"tight": {
			Problem: "robertson", Algorithm: "rosenbrock", Jacobian: "autodiff", Linear: "dense",
			Atol: 1e-12, Rtol: 1e-10,
		},
	},
	"vanderpol": {
		"stiff": {
			Problem: "vanderpol", Params: []float64{1000},
			Algorithm: "rosenbrock", Jacobian: "autodiff", Linear: "dense",
			Atol: 1e-8, Rtol: 1e-6,
		},
		"mild": {
			Problem: "vanderpol", Params: []float64{5},
			Algorithm: "dopri", Atol: 1e-8, Rtol: 1e-6,
		},
	},
	"lorenz": {
		"classic": {
			Problem: "lorenz", Algorithm: "dopri", Atol: 1e-9, Rtol: 1e-8,
		},
		"ensemble": {
			Problem: "lorenz", Algorithm: "dopri", Atol: 1e-9, Rtol: 1e-8,
			Ensemble: EnsembleConfig{Members: 32, Spread: 1e-4, Seed: 1},
		},
	},
	"bruss2d": {
		"banded": {
			Problem: "bruss2d", Params: []float64{16},
			Algorithm: "rosenbrock", Jacobian: "banded", Linear: "banded",
			Atol: 1e-6, Rtol: 1e-4,
		},
		"krylov": {
			Problem: "bruss2d", Params: []float64{32},
			Algorithm: "rosenbrock", Jacobian: "finitediff", Linear: "gmres",
			Atol: 1e-6, Rtol: 1e-4,
		},
	},
	"oscillator": {
		"fixed": {
			Problem: "oscillator", Algorithm: "rk4", InitialStep: 0.001,
		},
	},
}

func GetPreset(problem, preset string) *Config {
	problemPresets, ok := Presets[problem]
	if !ok {
		return nil
	}
	cfg, ok := problemPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(problem string) []string {
	problemPresets, ok := Presets[problem]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(problemPresets))
	for name := range problemPresets {
		names = append(names, name)
	}
	return names
}
