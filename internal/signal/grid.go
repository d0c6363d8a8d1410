package signal

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/tanksim/internal/dynamo"
)

// TimeGrid is an immutable, strictly increasing sequence of sample times.
type TimeGrid struct {
	times []float64
	step  float64
}

// NewTimeGrid spaces int((tf-t0)/step) points linearly over [t0, tf], both
// ends included. The realised spacing is (tf-t0)/(n-1), so it differs from
// step by at most step/(n-1).
func NewTimeGrid(t0, tf, step float64) (TimeGrid, error) {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return TimeGrid{}, fmt.Errorf("time grid step %g: %w", step, dynamo.ErrInvalidConfig)
	}
	if math.IsNaN(t0) || math.IsNaN(tf) || tf <= t0 {
		return TimeGrid{}, fmt.Errorf("time grid [%g, %g]: %w", t0, tf, dynamo.ErrInvalidConfig)
	}

	n := int(math.Floor((tf - t0) / step))
	if n < 2 {
		return TimeGrid{}, fmt.Errorf("time grid [%g, %g] with step %g: %w", t0, tf, step,
			&dynamo.RangeError{Start: 0, End: 2, Len: n})
	}

	times := make([]float64, n)
	floats.Span(times, t0, tf)
	return TimeGrid{times: times, step: step}, nil
}

func (g TimeGrid) Len() int {
	return len(g.times)
}

// Step is the nominal step the grid was built with.
func (g TimeGrid) Step() float64 {
	return g.step
}

// Spacing is the realised distance between consecutive samples.
func (g TimeGrid) Spacing() float64 {
	if len(g.times) < 2 {
		return 0
	}
	return g.times[1] - g.times[0]
}

func (g TimeGrid) At(i int) float64 {
	return g.times[i]
}

func (g TimeGrid) Start() float64 {
	return g.times[0]
}

func (g TimeGrid) End() float64 {
	return g.times[len(g.times)-1]
}

// Times returns a copy of the sample times.
func (g TimeGrid) Times() []float64 {
	c := make([]float64, len(g.times))
	copy(c, g.times)
	return c
}

// Index returns the first sample at or after t, or Len() if t is past the end.
func (g TimeGrid) Index(t float64) int {
	return sort.SearchFloat64s(g.times, t)
}
