package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/tanksim/internal/analysis"
	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/san-kum/tanksim/internal/signal"
)

const (
	DefaultSetpoint     = 80.0
	DefaultInitialState = 27.0
	DefaultStart        = 0.0
	DefaultEnd          = 3200.0
	DefaultStep         = 0.1
	DefaultStepLength   = 400.0
	DefaultMaxStep      = 0.1
	DefaultTolerance    = 1e-8
)

// Config is one scenario. Disturbance offsets are relative to Setpoint;
// event levels and tangents are absolute temperatures and do not move
// with Setpoint.
type Config struct {
	Setpoint     float64              `yaml:"setpoint"`
	InitialState float64              `yaml:"initial_state"`
	Start        float64              `yaml:"start"`
	End          float64              `yaml:"end"`
	Step         float64              `yaml:"step"`
	Integrator   string               `yaml:"integrator"`
	Solver       SolverConfig         `yaml:"solver"`
	Plant        map[string]float64   `yaml:"plant,omitempty"`
	Disturbances []signal.Disturbance `yaml:"disturbances"`
	Events       []analysis.StepEvent `yaml:"events"`
}

type SolverConfig struct {
	MaxStep   float64 `yaml:"max_step"`
	Adaptive  bool    `yaml:"adaptive"`
	Tolerance float64 `yaml:"tolerance"`
}

// ReferenceSchedule is the disturbance sequence of the reference experiment.
func ReferenceSchedule() []signal.Disturbance {
	return []signal.Disturbance{
		{Offset: 5, Start: 400, Duration: DefaultStepLength},
		{Offset: -3, Start: 800, Duration: DefaultStepLength},
		{Offset: 3, Start: 1600, Duration: DefaultStepLength},
		{Offset: -5, Start: 2400, Duration: DefaultStepLength},
	}
}

// ReferenceEvents are the hand-drawn tangents for the +5 and -5 steps.
func ReferenceEvents() []analysis.StepEvent {
	return []analysis.StepEvent{
		{
			Name:           "+5",
			Start:          400,
			PreEquilibrium: DefaultSetpoint,
			Delta:          5,
			Tangent:        analysis.Tangent{Slope: 0.06, Intercept: 54.83},
			Window:         analysis.Window{From: 400, To: 530},
		},
		{
			Name:           "-5",
			Start:          2400,
			PreEquilibrium: DefaultSetpoint,
			Delta:          -5,
			Tangent:        analysis.Tangent{Slope: -0.08, Intercept: 272.32},
			Window:         analysis.Window{From: 2400, To: 2520},
		},
	}
}

func DefaultConfig() *Config {
	return &Config{
		Setpoint:     DefaultSetpoint,
		InitialState: DefaultInitialState,
		Start:        DefaultStart,
		End:          DefaultEnd,
		Step:         DefaultStep,
		Integrator:   "rk4",
		Solver: SolverConfig{
			MaxStep:   DefaultMaxStep,
			Tolerance: DefaultTolerance,
		},
		Disturbances: ReferenceSchedule(),
		Events:       ReferenceEvents(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
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

// Validate checks what can be checked without building the scenario. Grid
// fit of disturbances and events is checked when the signal is built.
func (c *Config) Validate() error {
	switch {
	case c.Step <= 0:
		return fmt.Errorf("step must be positive, got %g: %w", c.Step, dynamo.ErrInvalidConfig)
	case c.End <= c.Start:
		return fmt.Errorf("end %g must be after start %g: %w", c.End, c.Start, dynamo.ErrInvalidConfig)
	case c.Setpoint <= 0:
		return fmt.Errorf("setpoint must be positive, got %g: %w", c.Setpoint, dynamo.ErrInvalidConfig)
	case c.InitialState <= 0:
		return fmt.Errorf("initial state must be positive, got %g: %w", c.InitialState, dynamo.ErrInvalidConfig)
	case c.Integrator == "":
		return fmt.Errorf("integrator not set: %w", dynamo.ErrInvalidConfig)
	}
	for i, e := range c.Events {
		if e.Window.To <= e.Window.From {
			return fmt.Errorf("event %d (%s) has empty window: %w", i, e.Name, dynamo.ErrInvalidConfig)
		}
	}
	return nil
}
