// Package analysis characterizes step responses with the three-parameter
// tangent method.
//
// A tangent line is drawn through the steepest part of the response to a
// step of size Delta from the level PreEquilibrium. Three times are read off
// where the line crosses:
//
//   - A: the pre-step level
//   - B: the level PreEquilibrium + 0.63*Delta
//   - C: the final level PreEquilibrium + Delta
//
// The tangent is an input. It is not fitted from the trajectory:
//
//	e := analysis.StepEvent{PreEquilibrium: 80, Delta: 5,
//	    Tangent: analysis.Tangent{Slope: 0.06, Intercept: 54.83}}
//	ch, err := analysis.Characterize(e) // A=419.5 B=472 C=502.83
package analysis
