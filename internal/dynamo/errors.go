package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrDomain indicates a state outside the physically valid region of a model.
	ErrDomain = errors.New("dynamo: state outside model domain")

	// ErrRange indicates an index or time outside the time grid.
	ErrRange = errors.New("dynamo: outside time grid range")

	// ErrArithmetic indicates a degenerate computation such as division by zero.
	ErrArithmetic = errors.New("dynamo: arithmetic error")

	// ErrInvalidConfig indicates a simulation or scenario parameter that cannot be used.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrStepTooSmall indicates adaptive timestep became too small.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrStepRejected indicates an adaptive step exceeded its error tolerance.
	ErrStepRejected = errors.New("dynamo: adaptive step rejected")

	// ErrNonFinite indicates a step whose result or error estimate is NaN or Inf,
	// usually because a stage left the domain of the system.
	ErrNonFinite = errors.New("dynamo: non-finite step result")

	// ErrDimensionMismatch indicates mismatched state/control dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// DomainError reports where integration left the model domain. State is
// the offending state when it is finite. When the failing step only
// produced NaN, State is the last state inside the domain and Time the
// moment it was reached.
type DomainError struct {
	Step  int
	Time  float64
	State State
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): state %v outside model domain", e.Step, e.Time, []float64(e.State))
}

func (e *DomainError) Unwrap() error {
	return ErrDomain
}

// RangeError reports an index interval that does not fit a grid of length Len.
type RangeError struct {
	Start int
	End   int
	Len   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("index range [%d, %d) outside grid of %d samples", e.Start, e.End, e.Len)
}

func (e *RangeError) Unwrap() error {
	return ErrRange
}

type ArithmeticError struct {
	Op    string
	Value float64
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("%s: degenerate operand %g", e.Op, e.Value)
}

func (e *ArithmeticError) Unwrap() error {
	return ErrArithmetic
}

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
