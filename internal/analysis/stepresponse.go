package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/san-kum/tanksim/internal/sim"
)

// RiseFraction is the share of the final change reached at time B.
const RiseFraction = 0.63

// minSlope is the smallest tangent slope considered non-zero.
const minSlope = 1e-12

// Tangent is the line y = Slope*t + Intercept drawn through the steepest
// part of a step response.
type Tangent struct {
	Slope     float64 `yaml:"slope"`
	Intercept float64 `yaml:"intercept"`
}

func (l Tangent) At(t float64) float64 {
	return l.Slope*t + l.Intercept
}

// Cross returns the time at which the line reaches level.
func (l Tangent) Cross(level float64) (float64, error) {
	if math.IsNaN(l.Slope) || math.IsInf(l.Slope, 0) || math.Abs(l.Slope) < minSlope {
		return 0, &dynamo.ArithmeticError{Op: "tangent crossing", Value: l.Slope}
	}
	return (level - l.Intercept) / l.Slope, nil
}

// Window bounds the part of a trajectory that belongs to one step event.
type Window struct {
	From float64 `yaml:"from"`
	To   float64 `yaml:"to"`
}

type StepEvent struct {
	Name           string  `yaml:"name"`
	Start          float64 `yaml:"start"`
	PreEquilibrium float64 `yaml:"pre_equilibrium"`
	Delta          float64 `yaml:"delta"`
	Tangent        Tangent `yaml:"tangent"`
	Window         Window  `yaml:"window"`
}

// Levels returns the pre-step level, the RiseFraction level and the final level.
func (e StepEvent) Levels() (float64, float64, float64) {
	return e.PreEquilibrium, e.PreEquilibrium + RiseFraction*e.Delta, e.PreEquilibrium + e.Delta
}

// Characterization holds the times at which the tangent crosses the
// pre-step level (A), the RiseFraction level (B) and the final level (C).
type Characterization struct {
	A float64
	B float64
	C float64
}

func Characterize(e StepEvent) (Characterization, error) {
	pre, rise, final := e.Levels()

	var times [3]float64
	for i, level := range [3]float64{pre, rise, final} {
		t, err := e.Tangent.Cross(level)
		if err != nil {
			return Characterization{}, fmt.Errorf("step %q: %w", e.Name, err)
		}
		times[i] = t
	}

	return Characterization{A: times[0], B: times[1], C: times[2]}, nil
}

type StepResponse struct {
	Event StepEvent
	Characterization
	// Samples is the number of trajectory points inside the window.
	Samples int
	First   float64
	Last    float64
	// Crossing is the first sampled time at which the output reaches the
	// RiseFraction level, or NaN if it never does inside the window.
	Crossing float64
}

// Analyze characterizes e and summarizes the trajectory inside its window.
// The trajectory is only read.
func Analyze(tr *sim.Trajectory, e StepEvent) (StepResponse, error) {
	ch, err := Characterize(e)
	if err != nil {
		return StepResponse{}, err
	}

	if e.Window.To <= e.Window.From {
		return StepResponse{}, fmt.Errorf("step %q window [%g, %g]: %w", e.Name, e.Window.From, e.Window.To, dynamo.ErrInvalidConfig)
	}
	start, end := tr.Window(e.Window.From, e.Window.To)
	if start == end {
		return StepResponse{}, fmt.Errorf("step %q window [%g, %g]: %w", e.Name, e.Window.From, e.Window.To,
			&dynamo.RangeError{Start: start, End: end, Len: tr.Len()})
	}

	resp := StepResponse{
		Event:            e,
		Characterization: ch,
		Samples:          end - start,
		First:            tr.Outputs[start],
		Last:             tr.Outputs[end-1],
		Crossing:         math.NaN(),
	}

	_, rise, _ := e.Levels()
	for i := start; i < end; i++ {
		if (e.Delta >= 0 && tr.Outputs[i] >= rise) || (e.Delta < 0 && tr.Outputs[i] <= rise) {
			resp.Crossing = tr.Times[i]
			break
		}
	}

	return resp, nil
}

// AnalyzeAll analyzes every event. A failing event does not stop the others;
// its error is returned in errs at the same index.
func AnalyzeAll(tr *sim.Trajectory, events []StepEvent) ([]StepResponse, []error) {
	out := make([]StepResponse, len(events))
	errs := make([]error, len(events))
	for i, e := range events {
		out[i], errs[i] = Analyze(tr, e)
	}
	return out, errs
}
