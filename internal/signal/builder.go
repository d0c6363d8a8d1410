package signal

import (
	"fmt"
)

// Equilibrium gives the input that holds a plant at a target output.
type Equilibrium interface {
	EquilibriumInput(target float64) (float64, error)
}

// Disturbance moves the operating point to Setpoint+Offset for Duration
// seconds starting at Start. Offsets are absolute, not cumulative.
type Disturbance struct {
	Offset   float64 `yaml:"offset"`
	Start    float64 `yaml:"start"`
	Duration float64 `yaml:"duration"`
}

// Builder produces the input signal for an operating point and a
// disturbance schedule.
type Builder struct {
	grid     TimeGrid
	plant    Equilibrium
	setpoint float64
}

func NewBuilder(grid TimeGrid, plant Equilibrium, setpoint float64) *Builder {
	return &Builder{grid: grid, plant: plant, setpoint: setpoint}
}

func (b *Builder) Baseline() (Input, error) {
	u, err := b.plant.EquilibriumInput(b.setpoint)
	if err != nil {
		return Input{}, fmt.Errorf("baseline at %g: %w", b.setpoint, err)
	}
	return Constant(b.grid, u), nil
}

// Edits turns the schedule into step edits, in schedule order.
func (b *Builder) Edits(schedule []Disturbance) ([]StepEdit, error) {
	edits := make([]StepEdit, 0, len(schedule))
	for i, d := range schedule {
		u, err := b.plant.EquilibriumInput(b.setpoint + d.Offset)
		if err != nil {
			return nil, fmt.Errorf("disturbance %d (%+g): %w", i, d.Offset, err)
		}
		edits = append(edits, StepEdit{Value: u, Start: d.Start, Duration: d.Duration})
	}
	return edits, nil
}

// Build applies the schedule to the baseline. Later disturbances overwrite
// earlier ones where they overlap. Nothing is returned if any edit fails.
func (b *Builder) Build(schedule []Disturbance) (Input, error) {
	in, err := b.Baseline()
	if err != nil {
		return Input{}, err
	}

	edits, err := b.Edits(schedule)
	if err != nil {
		return Input{}, err
	}

	for i, e := range edits {
		in, err = in.ApplyStep(e, b.grid.Step())
		if err != nil {
			return Input{}, fmt.Errorf("disturbance %d: %w", i, err)
		}
	}
	return in, nil
}
