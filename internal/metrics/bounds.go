package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/tanksim/internal/dynamo"
)

// Bounds tracks the lowest or highest value of the first state component.
// The lowest value is the margin left to the x > 0 domain limit.
type Bounds struct {
	name   string
	lowest bool
	values []float64
}

func NewMinState() *Bounds {
	return &Bounds{name: "min_state", lowest: true}
}

func NewMaxState() *Bounds {
	return &Bounds{name: "max_state"}
}

func (b *Bounds) Name() string {
	return b.name
}

func (b *Bounds) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) > 0 {
		b.values = append(b.values, x[0])
	}
}

func (b *Bounds) Value() float64 {
	if len(b.values) == 0 {
		return math.NaN()
	}
	if b.lowest {
		return floats.Min(b.values)
	}
	return floats.Max(b.values)
}

func (b *Bounds) Reset() {
	b.values = b.values[:0]
}

// Default returns the metrics reported for every scenario run.
func Default() []dynamo.Metric {
	return []dynamo.Metric{
		NewControlEffort(),
		NewDrift(),
		NewMinState(),
		NewMaxState(),
	}
}
