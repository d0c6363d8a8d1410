package signal

import (
	"fmt"
	"math"

	"github.com/san-kum/tanksim/internal/dynamo"
)

// StepEdit overwrites Duration seconds of a signal, starting at Start, with Value.
type StepEdit struct {
	Value    float64
	Start    float64
	Duration float64
}

// Span converts the edit to the half-open index range [start, end) for a
// grid of nominal step. Both start/step and duration/step are rounded half
// to even.
func (e StepEdit) Span(step float64) (int, int) {
	start := int(math.RoundToEven(e.Start / step))
	count := int(math.RoundToEven(e.Duration / step))
	return start, start + count
}

// Input is a piecewise-constant signal aligned sample for sample with a TimeGrid.
type Input struct {
	values []float64
}

func Constant(grid TimeGrid, value float64) Input {
	values := make([]float64, grid.Len())
	for i := range values {
		values[i] = value
	}
	return Input{values: values}
}

func FromValues(values []float64) Input {
	c := make([]float64, len(values))
	copy(c, values)
	return Input{values: c}
}

func (in Input) Len() int {
	return len(in.values)
}

func (in Input) At(i int) float64 {
	return in.values[i]
}

// Values returns a copy of the samples.
func (in Input) Values() []float64 {
	c := make([]float64, len(in.values))
	copy(c, in.values)
	return c
}

// ApplyStep returns a copy of the signal with the edit applied. The receiver
// is never modified, also when the edit does not fit and a RangeError is returned.
func (in Input) ApplyStep(edit StepEdit, step float64) (Input, error) {
	if step <= 0 {
		return Input{}, fmt.Errorf("step edit with grid step %g: %w", step, dynamo.ErrInvalidConfig)
	}

	start, end := edit.Span(step)
	if start < 0 || end < start || end > len(in.values) {
		return Input{}, fmt.Errorf("step edit at t=%g for %g: %w", edit.Start, edit.Duration,
			&dynamo.RangeError{Start: start, End: end, Len: len(in.values)})
	}

	out := in.Values()
	for i := start; i < end; i++ {
		out[i] = edit.Value
	}
	return Input{values: out}, nil
}
