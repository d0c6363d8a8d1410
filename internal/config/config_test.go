package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/tanksim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 80.0, cfg.Setpoint)
	assert.Equal(t, 27.0, cfg.InitialState)
	assert.Equal(t, "rk4", cfg.Integrator)
	assert.Len(t, cfg.Disturbances, 4)
	assert.Len(t, cfg.Events, 2)
	require.NoError(t, cfg.Validate())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tank.yaml")
	cfg := DefaultConfig()
	cfg.Plant = map[string]float64{"r": 120}
	cfg.Solver.Adaptive = true

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
setpoint: 60
integrator: rk45
disturbances:
  - offset: 2
    start: 100
    duration: 50
`))
	require.NoError(t, err)

	assert.Equal(t, 60.0, cfg.Setpoint)
	assert.Equal(t, "rk45", cfg.Integrator)
	assert.Equal(t, DefaultStep, cfg.Step)
	require.Len(t, cfg.Disturbances, 1)
	assert.Equal(t, 50.0, cfg.Disturbances[0].Duration)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero step", func(c *Config) { c.Step = 0 }},
		{"reversed span", func(c *Config) { c.End = c.Start }},
		{"negative setpoint", func(c *Config) { c.Setpoint = -1 }},
		{"zero initial state", func(c *Config) { c.InitialState = 0 }},
		{"no integrator", func(c *Config) { c.Integrator = "" }},
		{"empty window", func(c *Config) { c.Events[0].Window.To = c.Events[0].Window.From }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), dynamo.ErrInvalidConfig)
		})
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	_, err := Parse([]byte("step: -1\n"))
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)

	_, err = Parse([]byte("setpoint: [1, 2]\n"))
	assert.Error(t, err)
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("steady")
	require.NotNil(t, cfg)
	assert.Equal(t, cfg.Setpoint, cfg.InitialState)
	assert.Empty(t, cfg.Disturbances)

	// presets are copies
	cfg.Setpoint = 1
	assert.Equal(t, DefaultSetpoint, GetPreset("steady").Setpoint)

	assert.Nil(t, GetPreset("nonexistent"))
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	assert.Equal(t, []string{"adaptive", "reference", "steady", "step-up"}, names)

	for _, name := range names {
		assert.NoError(t, GetPreset(name).Validate(), name)
	}
}
