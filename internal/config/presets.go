package config

import (
	"sort"

	"github.com/san-kum/tanksim/internal/analysis"
	"github.com/san-kum/tanksim/internal/signal"
)

var Presets = map[string]func() *Config{
	// the full open-loop experiment: heat up from 27, four steps
	"reference": DefaultConfig,

	// held at the setpoint, no disturbances
	"steady": func() *Config {
		cfg := DefaultConfig()
		cfg.InitialState = DefaultSetpoint
		cfg.Disturbances = nil
		cfg.Events = nil
		return cfg
	},

	// a single +5 step from a settled tank
	"step-up": func() *Config {
		cfg := DefaultConfig()
		cfg.InitialState = DefaultSetpoint
		cfg.End = 1200
		cfg.Disturbances = []signal.Disturbance{{Offset: 5, Start: 400, Duration: DefaultStepLength}}
		cfg.Events = []analysis.StepEvent{ReferenceEvents()[0]}
		return cfg
	},

	// the reference experiment on the adaptive Dormand-Prince solver
	"adaptive": func() *Config {
		cfg := DefaultConfig()
		cfg.Integrator = "rk45"
		cfg.Solver.Adaptive = true
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
