package metrics

import (
	"math"

	"github.com/san-kum/tanksim/internal/dynamo"
)

// Drift is the largest distance of the state from its initial value. A
// plant started and held at equilibrium should report ~0.
type Drift struct {
	name    string
	initial dynamo.State
	max     float64
}

func NewDrift() *Drift {
	return &Drift{
		name: "drift",
	}
}

func (d *Drift) Name() string {
	return d.name
}

func (d *Drift) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) == 0 {
		return
	}
	if d.initial == nil {
		d.initial = x.Clone()
	}
	d.max = math.Max(d.max, x.Sub(d.initial).Norm())
}

func (d *Drift) Value() float64 {
	return d.max
}

func (d *Drift) Reset() {
	d.initial = nil
	d.max = 0
}
