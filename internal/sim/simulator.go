package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/san-kum/tanksim/internal/signal"
)

type Simulator struct {
	plant      dynamo.Plant
	integrator dynamo.Integrator
	cfg        Config
	metrics    []dynamo.Metric
}

func New(plant dynamo.Plant, integrator dynamo.Integrator, cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Adaptive {
		if _, ok := integrator.(dynamo.AdaptiveIntegrator); !ok {
			return nil, fmt.Errorf("integrator %T does not support adaptive stepping: %w", integrator, dynamo.ErrInvalidConfig)
		}
	}
	return &Simulator{
		plant:      plant,
		integrator: integrator,
		cfg:        cfg,
		metrics:    make([]dynamo.Metric, 0),
	}, nil
}

func (s *Simulator) AddMetric(m dynamo.Metric) { s.metrics = append(s.metrics, m) }

// Run integrates the plant from x0 over every point of grid. The input is
// held at in.At(i) over [t_i, t_i+1). Leaving the plant domain aborts the
// run with a *dynamo.DomainError and no result.
func (s *Simulator) Run(x0 dynamo.State, grid signal.TimeGrid, in signal.Input) (*Result, error) {
	n := grid.Len()
	if in.Len() != n {
		return nil, fmt.Errorf("input has %d samples, grid has %d: %w", in.Len(), n, dynamo.ErrDimensionMismatch)
	}
	if len(x0) != s.plant.StateDim() {
		return nil, fmt.Errorf("initial state has %d components, plant has %d: %w", len(x0), s.plant.StateDim(), dynamo.ErrDimensionMismatch)
	}
	if !s.plant.InDomain(x0) {
		return nil, &dynamo.DomainError{Step: 0, Time: grid.Start(), State: x0.Clone()}
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{
		Trajectory: Trajectory{
			Times:   grid.Times(),
			Inputs:  in.Values(),
			States:  make([]dynamo.State, n),
			Outputs: make([]float64, n),
		},
		Metrics: make(map[string]float64),
	}

	x := x0.Clone()
	h := s.cfg.MaxStep
	for i := 0; i < n; i++ {
		t := result.Times[i]
		u := dynamo.Control{result.Inputs[i]}

		result.States[i] = x.Clone()
		result.Outputs[i] = s.plant.Output(x)
		for _, m := range s.metrics {
			m.Observe(x, u, t)
		}

		if i == n-1 {
			break
		}

		var err error
		if s.cfg.Adaptive {
			x, h, err = s.advanceAdaptive(result, i, x, u, t, result.Times[i+1], h)
		} else {
			x, err = s.advanceFixed(result, i, x, u, t, result.Times[i+1])
		}
		if err != nil {
			return nil, err
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) advanceFixed(result *Result, step int, x dynamo.State, u dynamo.Control, t0, t1 float64) (dynamo.State, error) {
	span := t1 - t0
	substeps := 1
	if s.cfg.MaxStep > 0 {
		substeps = int(math.Ceil(span/s.cfg.MaxStep - 1e-9))
		if substeps < 1 {
			substeps = 1
		}
	}
	h := span / float64(substeps)

	t := t0
	for k := 0; k < substeps; k++ {
		next := s.integrator.Step(s.plant, x, u, t, h)
		end := t0 + float64(k+1)*h
		if !s.plant.InDomain(next) || !next.IsValid() {
			return nil, domainError(step, x, t, next, end)
		}
		x, t = next, end
		result.Substeps++
	}
	return x, nil
}

// domainError reports the candidate state when it is finite, otherwise the
// last state that was still inside the domain.
func domainError(step int, last dynamo.State, lastTime float64, candidate dynamo.State, t float64) *dynamo.DomainError {
	if candidate.IsValid() {
		return &dynamo.DomainError{Step: step, Time: t, State: candidate.Clone()}
	}
	return &dynamo.DomainError{Step: step, Time: lastTime, State: last.Clone()}
}

// advanceAdaptive integrates [t0, t1] with step control, carrying the
// suggested step size h across grid intervals. Non-finite steps are retried
// smaller like rejected ones; if they persist down to MinStep the state is
// taken to have left the domain.
func (s *Simulator) advanceAdaptive(result *Result, step int, x dynamo.State, u dynamo.Control, t0, t1, h float64) (dynamo.State, float64, error) {
	adaptive := s.integrator.(dynamo.AdaptiveIntegrator)
	if h <= 0 {
		h = t1 - t0
	}

	t := t0
	for t1-t > 1e-12*math.Max(1, math.Abs(t1)) {
		dt := math.Min(h, t1-t)

		newX, next, err := adaptive.StepAdaptive(s.plant, x, u, t, dt, s.cfg.Tolerance)
		if errors.Is(err, dynamo.ErrStepRejected) || errors.Is(err, dynamo.ErrNonFinite) {
			result.Rejected++
			if next < s.cfg.MinStep {
				if errors.Is(err, dynamo.ErrNonFinite) {
					return nil, 0, domainError(step, x, t, newX, t+dt)
				}
				return nil, 0, &dynamo.SimulationError{Step: step, Time: t, State: x.Clone(), Wrapped: dynamo.ErrStepTooSmall}
			}
			h = next
			continue
		}
		if err != nil {
			return nil, 0, err
		}

		end := t + dt
		if dt == t1-t {
			end = t1
		}
		if !s.plant.InDomain(newX) || !newX.IsValid() {
			return nil, 0, domainError(step, x, t, newX, end)
		}
		x, t = newX, end
		h = next
		result.Substeps++
	}
	return x, h, nil
}
