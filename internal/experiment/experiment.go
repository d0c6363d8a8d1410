package experiment

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/tanksim/internal/analysis"
	"github.com/san-kum/tanksim/internal/config"
	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/san-kum/tanksim/internal/signal"
	"github.com/san-kum/tanksim/internal/sim"
)

// minAdaptiveStep is the smallest step the adaptive solver may shrink to.
const minAdaptiveStep = 1e-9

// Report is everything a scenario run produces, for the presentation layer.
type Report struct {
	Config    *config.Config
	Grid      signal.TimeGrid
	Input     signal.Input
	Result    *sim.Result
	Responses []analysis.StepResponse
	// EventErrors holds the analysis error of each event, nil on success.
	EventErrors []error
}

type Experiment struct {
	cfg      *config.Config
	registry *Registry
	logger   *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) *Experiment {
	if logger == nil {
		logger = slog.Default()
	}
	return &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
		logger:   logger,
	}
}

// Run builds the input signal, simulates the tank and characterizes every
// configured step event. Signal and simulation failures abort the run; an
// event that cannot be analyzed only fails that event.
func (e *Experiment) Run() (*Report, error) {
	cfg := e.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tank, err := e.registry.NewPlant(cfg.Plant)
	if err != nil {
		return nil, fmt.Errorf("plant: %w", err)
	}

	grid, err := signal.NewTimeGrid(cfg.Start, cfg.End, cfg.Step)
	if err != nil {
		return nil, fmt.Errorf("time grid: %w", err)
	}

	input, err := signal.NewBuilder(grid, tank, cfg.Setpoint).Build(cfg.Disturbances)
	if err != nil {
		return nil, fmt.Errorf("input signal: %w", err)
	}
	e.logger.Debug("signal built", "samples", grid.Len(), "spacing", grid.Spacing(), "disturbances", len(cfg.Disturbances))

	integ, err := e.registry.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	simulator, err := sim.New(tank, integ, sim.Config{
		MaxStep:   cfg.Solver.MaxStep,
		Adaptive:  cfg.Solver.Adaptive,
		Tolerance: cfg.Solver.Tolerance,
		MinStep:   minAdaptiveStep,
	})
	if err != nil {
		return nil, err
	}
	for _, m := range e.registry.DefaultMetrics() {
		simulator.AddMetric(m)
	}

	e.logger.Info("simulating", "integrator", cfg.Integrator, "adaptive", cfg.Solver.Adaptive, "x0", cfg.InitialState)
	result, err := simulator.Run(dynamo.State{cfg.InitialState}, grid, input)
	if err != nil {
		return nil, fmt.Errorf("simulation: %w", err)
	}
	e.logger.Debug("simulation finished", "substeps", result.Substeps, "rejected", result.Rejected)

	responses, errs := analysis.AnalyzeAll(&result.Trajectory, cfg.Events)
	for i, err := range errs {
		if err != nil {
			e.logger.Warn("step event not characterized", "event", cfg.Events[i].Name, "err", err)
		}
	}

	return &Report{
		Config:      cfg,
		Grid:        grid,
		Input:       input,
		Result:      result,
		Responses:   responses,
		EventErrors: errs,
	}, nil
}
