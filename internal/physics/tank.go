package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/tanksim/internal/dynamo"
)

// Tank models the water temperature in an electrically heated tank:
//
//	dx/dt = (-x^Loss + u*R*Gain*x^Coupling) / Tau
//
// where x is the temperature and u the heater current.
type Tank struct {
	R        float64
	Gain     float64
	Coupling float64
	Loss     float64
	Tau      float64
}

func NewTank() *Tank {
	return &Tank{
		R:        100,
		Gain:     0.53025,
		Coupling: 0.0315 / 8.5,
		Loss:     0.75,
		Tau:      13.76023,
	}
}

func (m *Tank) StateDim() int {
	return 1
}

func (m *Tank) ControlDim() int {
	return 1
}

// Derive returns NaN outside the domain; callers check InDomain.
func (m *Tank) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	temp := x[0]
	current := 0.0
	if len(u) > 0 {
		current = u[0]
	}
	if temp <= 0 {
		return dynamo.State{math.NaN()}
	}

	heating := current * m.R * m.Gain * math.Pow(temp, m.Coupling)
	return dynamo.State{(-math.Pow(temp, m.Loss) + heating) / m.Tau}
}

// Output is the measured temperature, which is the state itself.
func (m *Tank) Output(x dynamo.State) float64 {
	return x[0]
}

func (m *Tank) InDomain(x dynamo.State) bool {
	return len(x) == 1 && x[0] > 0 && !math.IsInf(x[0], 0)
}

// EquilibriumInput returns the current that holds the tank at temp.
func (m *Tank) EquilibriumInput(temp float64) (float64, error) {
	if !m.InDomain(dynamo.State{temp}) {
		return 0, &dynamo.DomainError{State: dynamo.State{temp}}
	}
	return math.Pow(temp, m.Loss) / (m.R * m.Gain * math.Pow(temp, m.Coupling)), nil
}

func (m *Tank) GetParams() map[string]float64 {
	return map[string]float64{
		"r":        m.R,
		"gain":     m.Gain,
		"coupling": m.Coupling,
		"loss":     m.Loss,
		"tau":      m.Tau,
	}
}

func (m *Tank) SetParam(name string, value float64) error {
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("param %s=%g: %w", name, value, dynamo.ErrInvalidConfig)
	}
	switch name {
	case "r":
		m.R = value
	case "gain":
		m.Gain = value
	case "coupling":
		m.Coupling = value
	case "loss":
		m.Loss = value
	case "tau":
		m.Tau = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
