package integrators

import "github.com/san-kum/tanksim/internal/dynamo"

// Euler is the explicit first-order method. It is kept as a baseline for
// comparing integrators on the same scenario.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64, dt float64) dynamo.State {
	return axpy(make(dynamo.State, len(x)), x, dt, dyn.Derive(x, u, t))
}

// axpy stores x + a*y in dst and returns it.
func axpy(dst, x dynamo.State, a float64, y dynamo.State) dynamo.State {
	for i := range x {
		dst[i] = x[i] + a*y[i]
	}
	return dst
}
