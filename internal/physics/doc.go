// Package physics provides the plant models driven by the simulator.
//
// [Tank] implements [dynamo.Plant] for the first-order nonlinear heated
// tank and [dynamo.Configurable] for parameter overrides from config.
//
// # Equilibrium
//
// The input that holds the tank at a given temperature has a closed form:
//
//	tank := physics.NewTank()
//	u, _ := tank.EquilibriumInput(80)
//	dx := tank.Derive(dynamo.State{80}, dynamo.Control{u}, 0) // ~0
package physics
