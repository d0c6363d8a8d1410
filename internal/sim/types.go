package sim

import (
	"fmt"

	"github.com/san-kum/tanksim/internal/dynamo"
)

type Config struct {
	// MaxStep bounds the fixed integration step; grid intervals longer than
	// MaxStep are split into equal sub-steps. Zero means one step per
	// interval. Adaptive runs ignore it.
	MaxStep   float64
	Adaptive  bool
	Tolerance float64
	MinStep   float64
}

func DefaultConfig() Config {
	return Config{
		MaxStep:   0.1,
		Adaptive:  false,
		Tolerance: 1e-8,
		MinStep:   1e-9,
	}
}

func (c Config) Validate() error {
	if c.MaxStep < 0 {
		return fmt.Errorf("max step must not be negative, got %g: %w", c.MaxStep, dynamo.ErrInvalidConfig)
	}
	if c.Adaptive && c.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive for adaptive stepping: %w", dynamo.ErrInvalidConfig)
	}
	if c.Adaptive && c.MinStep <= 0 {
		return fmt.Errorf("min step must be positive for adaptive stepping: %w", dynamo.ErrInvalidConfig)
	}
	return nil
}

// Trajectory holds one sample per grid point.
type Trajectory struct {
	Times   []float64
	Inputs  []float64
	States  []dynamo.State
	Outputs []float64
}

func (tr *Trajectory) Len() int {
	return len(tr.Times)
}

// Window returns the half-open index range of samples with from <= t <= to.
func (tr *Trajectory) Window(from, to float64) (int, int) {
	start := 0
	for start < len(tr.Times) && tr.Times[start] < from {
		start++
	}
	end := start
	for end < len(tr.Times) && tr.Times[end] <= to {
		end++
	}
	return start, end
}

type Result struct {
	Trajectory
	Metrics map[string]float64
	// Substeps counts accepted integrator steps across the whole run.
	Substeps int
	// Rejected counts adaptive steps that were retried with a smaller size.
	Rejected int
}
