// Package dynamo provides core simulation primitives for the tank model.
//
// The package defines the fundamental interfaces and types shared by the
// simulation pipeline:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Plant]: a System with an output map and a valid state domain
//   - [Integrator]: numerical stepper interface
//   - [Metric]: per-sample observer reduced to a single value
//
// # Errors
//
// Failures are reported as [DomainError], [RangeError] and [ArithmeticError],
// which unwrap to [ErrDomain], [ErrRange] and [ErrArithmetic]:
//
//	var derr *dynamo.DomainError
//	if errors.As(err, &derr) {
//	    fmt.Println(derr.Time, derr.State)
//	}
//
// # Thread Safety
//
// Nothing in the pipeline runs concurrently. Integrators keep scratch
// buffers and must not be shared between goroutines.
package dynamo
