package integrators

import (
	"testing"

	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/san-kum/tanksim/internal/physics"
)

func benchmarkTank(b *testing.B, integ dynamo.Integrator) {
	tank := physics.NewTank()
	u, _ := tank.EquilibriumInput(85)
	x := dynamo.State{80}
	ctrl := dynamo.Control{u}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(tank, x, ctrl, 0, 0.1)
	}
}

func BenchmarkEuler(b *testing.B) { benchmarkTank(b, NewEuler()) }
func BenchmarkRK4(b *testing.B)   { benchmarkTank(b, NewRK4()) }
func BenchmarkRK45(b *testing.B)  { benchmarkTank(b, NewRK45()) }
