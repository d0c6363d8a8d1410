package metrics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/tanksim/internal/dynamo"
)

// ControlEffort is the mean heater current over the run.
type ControlEffort struct {
	name    string
	samples []float64
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(u) > 0 {
		c.samples = append(c.samples, u[0])
	}
}

func (c *ControlEffort) Value() float64 {
	if len(c.samples) == 0 {
		return 0
	}
	return stat.Mean(c.samples, nil)
}

func (c *ControlEffort) Reset() {
	c.samples = c.samples[:0]
}
