package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/tanksim/internal/config"
	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/san-kum/tanksim/internal/experiment"
	"github.com/san-kum/tanksim/internal/viz"
)

var (
	verbose    bool
	configFile string
	preset     string
	integrator string
	adaptive   bool
	setpoint   float64
	x0         float64
	showCharts bool
	chartWidth int
	theme      string
	figureFile string
	configOut  string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("tanksim failed", "err", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tanksim",
		Short:         "open-loop heated tank simulation and step identification",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(handler))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate a scenario and print the step characterization",
		RunE:  runScenario,
	}
	scenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&showCharts, "plot", false, "print ascii charts of output and input")
	runCmd.Flags().IntVar(&chartWidth, "width", 80, "chart width")
	runCmd.Flags().StringVar(&theme, "theme", "minimal", fmt.Sprintf("report theme %v", viz.ThemeNames()))

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "render trajectory and tangent constructions (png, svg, pdf by extension)",
		RunE:  plotScenario,
	}
	scenarioFlags(plotCmd)
	plotCmd.Flags().StringVarP(&figureFile, "out", "o", "tank.png", "output file")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same scenario",
		Args:  cobra.MatchAll(cobra.MinimumNArgs(2), knownIntegrators),
		RunE:  compareIntegrators,
	}
	scenarioFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "write the reference configuration as yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(configOut, config.DefaultConfig()); err != nil {
				return err
			}
			slog.Info("config written", "path", configOut)
			return nil
		},
	}
	configCmd.Flags().StringVarP(&configOut, "out", "o", "tanksim.yaml", "output file")

	rootCmd.AddCommand(runCmd, plotCmd, compareCmd, presetsCmd, configCmd)
	return rootCmd
}

func scenarioFlags(cmd *cobra.Command) {
	names := experiment.NewRegistry().ListIntegrators()
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", fmt.Sprintf("use preset configuration %v", config.ListPresets()))
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", fmt.Sprintf("integrator %v", names))
	cmd.Flags().BoolVar(&adaptive, "adaptive", false, "adaptive step control (rk45 only)")
	cmd.Flags().Float64Var(&setpoint, "setpoint", config.DefaultSetpoint, "equilibrium temperature")
	cmd.Flags().Float64Var(&x0, "x0", config.DefaultInitialState, "initial temperature")
	cmd.MarkFlagsMutuallyExclusive("config", "preset")
}

func knownIntegrators(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()
	for _, name := range args {
		if _, err := registry.GetIntegrator(name); err != nil {
			return fmt.Errorf("%w (available: %v)", err, registry.ListIntegrators())
		}
	}
	return nil
}

// loadScenario starts from the preset or config file, then applies any flag
// set on the command line.
func loadScenario(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v): %w", preset, config.ListPresets(), dynamo.ErrInvalidConfig)
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("adaptive") {
		cfg.Solver.Adaptive = adaptive
	}
	if cmd.Flags().Changed("setpoint") {
		cfg.Setpoint = setpoint
		for _, e := range cfg.Events {
			if e.PreEquilibrium != setpoint {
				slog.Warn("step event levels and tangents are absolute and were not moved with the setpoint",
					"event", e.Name, "pre_equilibrium", e.PreEquilibrium, "setpoint", setpoint)
			}
		}
	}
	if cmd.Flags().Changed("x0") {
		cfg.InitialState = x0
	}
	return cfg, cfg.Validate()
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	report, err := experiment.New(cfg, slog.Default()).Run()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := viz.WriteReport(out, report, viz.NewStyles(viz.GetTheme(theme))); err != nil {
		return err
	}
	if showCharts {
		fmt.Fprintln(out)
		return viz.WriteCharts(out, report, chartWidth)
	}
	return nil
}

func plotScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	report, err := experiment.New(cfg, slog.Default()).Run()
	if err != nil {
		return err
	}

	opts := viz.DefaultFigureOptions()
	if ext := strings.TrimPrefix(filepath.Ext(figureFile), "."); ext != "" {
		opts.Format = ext
	}

	// rendered in memory so a failed render leaves no file behind
	var buf bytes.Buffer
	if err := viz.WriteFigure(&buf, report, opts); err != nil {
		return err
	}
	if err := os.WriteFile(figureFile, buf.Bytes(), 0644); err != nil {
		return err
	}
	slog.Info("figure written", "path", figureFile, "events", len(report.Responses))
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tSUBSTEPS\tFINAL\tMAX DEVIATION")

	var reference []float64
	for _, name := range args {
		run := *cfg
		run.Integrator = name
		// only rk45 can control its own step
		run.Solver.Adaptive = cfg.Solver.Adaptive && name == "rk45"

		report, err := experiment.New(&run, slog.Default()).Run()
		if err != nil {
			slog.Error("integrator failed", "integrator", name, "err", err)
			fmt.Fprintf(w, "%s\t-\t-\t-\n", name)
			continue
		}

		outputs := report.Result.Outputs
		deviation := math.NaN()
		if reference == nil {
			reference = outputs
			deviation = 0
		} else if len(reference) == len(outputs) {
			deviation = floats.Distance(reference, outputs, math.Inf(1))
		}
		fmt.Fprintf(w, "%s\t%d\t%.6f\t%.3e\n", name, report.Result.Substeps, outputs[len(outputs)-1], deviation)
	}
	return w.Flush()
}
