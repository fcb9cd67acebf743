package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/odebench/odebench/internal/ode"
)

const (
	DefaultAtol    = 1e-8
	DefaultRtol    = 1e-6
	DefaultRuns    = 1
	DefaultMembers = 16
	DefaultSpread  = 0.01
)

// Config is the YAML shape of a run: which problem, which solver
// strategy, tolerances and, for ensemble runs, the batch parameters.
type Config struct {
	Problem string    `yaml:"problem"`
	Params  []float64 `yaml:"params,omitempty"`

	Algorithm string `yaml:"algorithm"`
	Jacobian  string `yaml:"jacobian"`
	Linear    string `yaml:"linear"`

	Atol        float64 `yaml:"atol"`
	Rtol        float64 `yaml:"rtol"`
	InitialStep float64 `yaml:"initial_step,omitempty"`
	MaxStep     float64 `yaml:"max_step,omitempty"`
	MaxSteps    int     `yaml:"max_steps,omitempty"`

	Runs int `yaml:"runs"`

	Ensemble EnsembleConfig `yaml:"ensemble"`
}

type EnsembleConfig struct {
	Members int     `yaml:"members"`
	Spread  float64 `yaml:"spread"`
	Seed    int64   `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Problem:   "robertson",
		Algorithm: "auto",
		Jacobian:  "autodiff",
		Linear:    "dense",
		Atol:      DefaultAtol,
		Rtol:      DefaultRtol,
		Runs:      DefaultRuns,
		Ensemble: EnsembleConfig{
			Members: DefaultMembers,
			Spread:  DefaultSpread,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Strategy converts the YAML fields into a solver strategy.
func (c *Config) Strategy() ode.Strategy {
	return ode.Strategy{
		Algorithm: c.Algorithm,
		Jacobian:  c.Jacobian,
		Linear:    c.Linear,
	}
}

// SolveConfig converts the tolerance and step fields.
func (c *Config) SolveConfig() ode.Config {
	sc := ode.DefaultConfig()
	sc.Atol = c.Atol
	sc.Rtol = c.Rtol
	sc.InitialStep = c.InitialStep
	sc.MaxStep = c.MaxStep
	if c.MaxSteps > 0 {
		sc.MaxSteps = c.MaxSteps
	}
	return sc
}

func (c *Config) Validate() error {
	if c.Problem == "" {
		return fmt.Errorf("config has no problem")
	}
	if c.Atol < 0 || c.Rtol < 0 {
		return fmt.Errorf("tolerances must be non-negative: atol=%g rtol=%g", c.Atol, c.Rtol)
	}
	if c.Runs < 0 {
		return fmt.Errorf("runs must be non-negative, got %d", c.Runs)
	}
	return nil
}
