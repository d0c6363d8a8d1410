package experiment_test

import (
	"errors"
	"log/slog"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/tanksim/internal/config"
	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/san-kum/tanksim/internal/experiment"
	"github.com/san-kum/tanksim/internal/signal"
	"github.com/san-kum/tanksim/internal/sim"
)

func outputAt(r *sim.Result, t float64) float64 {
	start, _ := r.Window(t, t+1)
	return r.Outputs[start]
}

func run(cfg *config.Config) (*experiment.Report, error) {
	logger := slog.New(slog.NewTextHandler(GinkgoWriter, nil))
	return experiment.New(cfg, logger).Run()
}

var _ = Describe("Experiment", func() {
	Describe("steady preset", func() {
		It("stays at the setpoint for the whole run", func() {
			report, err := run(config.GetPreset("steady"))
			Expect(err).NotTo(HaveOccurred())

			for _, y := range report.Result.Outputs {
				Expect(y).To(BeNumerically("~", 80, 0.5))
			}
			Expect(report.Result.Metrics["drift"]).To(BeNumerically("<", 0.5))
			Expect(report.Responses).To(BeEmpty())
		})
	})

	Describe("step-up preset", func() {
		var report *experiment.Report

		BeforeEach(func() {
			var err error
			report, err = run(config.GetPreset("step-up"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("settles at the new level before the step ends", func() {
			Expect(outputAt(report.Result, 399)).To(BeNumerically("~", 80, 0.5))
			Expect(outputAt(report.Result, 790)).To(BeNumerically("~", 85, 0.5))
			Expect(outputAt(report.Result, 1190)).To(BeNumerically("~", 80, 0.5))
		})

		It("orders the characteristic times inside the analysis window", func() {
			Expect(report.EventErrors[0]).NotTo(HaveOccurred())
			r := report.Responses[0]
			Expect(r.A).To(BeNumerically("<", r.B))
			Expect(r.B).To(BeNumerically("<", r.C))
			for _, v := range []float64{r.A, r.B, r.C} {
				Expect(v).To(BeNumerically(">=", 400))
				Expect(v).To(BeNumerically("<=", 530))
			}
			Expect(r.Crossing).To(BeNumerically(">", 400))
			Expect(r.Crossing).To(BeNumerically("<", 530))
		})
	})

	Describe("reference preset", func() {
		var report *experiment.Report

		BeforeEach(func() {
			var err error
			report, err = run(config.GetPreset("reference"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("keeps the signal, grid and trajectory aligned", func() {
			n := report.Grid.Len()
			Expect(n).To(Equal(32000))
			Expect(report.Input.Len()).To(Equal(n))
			Expect(report.Result.Outputs).To(HaveLen(n))
			Expect(report.Result.Inputs).To(HaveLen(n))
		})

		It("follows the absolute step schedule", func() {
			Expect(outputAt(report.Result, 0)).To(Equal(27.0))
			Expect(outputAt(report.Result, 399)).To(BeNumerically("~", 80, 0.5))
			Expect(outputAt(report.Result, 790)).To(BeNumerically("~", 85, 0.5))
			Expect(outputAt(report.Result, 1190)).To(BeNumerically("~", 77, 0.5))
			Expect(outputAt(report.Result, 1590)).To(BeNumerically("~", 80, 0.5))
			Expect(outputAt(report.Result, 1990)).To(BeNumerically("~", 83, 0.5))
			Expect(outputAt(report.Result, 2790)).To(BeNumerically("~", 75, 0.5))
			Expect(outputAt(report.Result, 3190)).To(BeNumerically("~", 80, 0.5))
		})

		It("never leaves the domain", func() {
			Expect(report.Result.Metrics["min_state"]).To(BeNumerically(">", 0))
			Expect(report.Result.Metrics["max_state"]).To(BeNumerically("<", 86))
		})

		It("characterizes both reference steps", func() {
			Expect(report.Responses).To(HaveLen(2))
			Expect(report.Responses[0].A).To(BeNumerically("~", 419.5, 1e-6))
			Expect(report.Responses[1].C).To(BeNumerically("~", 2466.5, 1e-6))
		})
	})

	Describe("adaptive preset", func() {
		It("agrees with the fixed-step run", func() {
			fixed, err := run(config.GetPreset("reference"))
			Expect(err).NotTo(HaveOccurred())
			adaptive, err := run(config.GetPreset("adaptive"))
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < fixed.Result.Len(); i += 100 {
				Expect(adaptive.Result.Outputs[i]).To(BeNumerically("~", fixed.Result.Outputs[i], 1e-3))
			}
		})
	})

	Describe("failures", func() {
		It("rejects a disturbance past the end of the grid", func() {
			cfg := config.DefaultConfig()
			cfg.Disturbances = append(cfg.Disturbances, signal.Disturbance{Offset: 1, Start: 3000, Duration: 400})

			report, err := run(cfg)
			Expect(report).To(BeNil())
			Expect(errors.Is(err, dynamo.ErrRange)).To(BeTrue())
		})

		It("rejects an unknown integrator", func() {
			cfg := config.DefaultConfig()
			cfg.Integrator = "leapfrog"

			_, err := run(cfg)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})

		It("rejects invalid plant parameters", func() {
			cfg := config.DefaultConfig()
			cfg.Plant = map[string]float64{"tau": -1}

			_, err := run(cfg)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})

		It("stops with the offending state when the tank leaves its domain", func() {
			// one explicit Euler step per 222 s interval overshoots below zero
			cfg := config.DefaultConfig()
			cfg.Integrator = "euler"
			cfg.Step = 200
			cfg.End = 2000
			cfg.Solver.MaxStep = 0
			cfg.Disturbances = nil
			cfg.Events = nil

			report, err := run(cfg)
			Expect(report).To(BeNil())

			var derr *dynamo.DomainError
			Expect(errors.As(err, &derr)).To(BeTrue())
			Expect(derr.Time).To(BeNumerically("~", 4000.0/9, 1e-6))
			Expect(derr.State[0]).To(BeNumerically("<", 0))
		})

		It("reports a degenerate tangent without failing the run", func() {
			cfg := config.GetPreset("step-up")
			cfg.Events[0].Tangent.Slope = 0

			report, err := run(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.EventErrors[0]).To(MatchError(dynamo.ErrArithmetic))
			Expect(math.IsNaN(report.Result.Outputs[0])).To(BeFalse())
		})
	})
})
