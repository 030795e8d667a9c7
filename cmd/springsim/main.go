package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/experiment"
	"github.com/san-kum/springsim/internal/physics"
)

var (
	dataDir     string
	configFile  string
	preset      string
	logLevel    string
	dt          float64
	steps       int
	iterations  int
	sampleEvery int

	// phase, plot and analyze
	massIndex int
	phaseSVG  string
	axis      int

	// sweep and bench
	sweepDts      []float64
	sweepDuration float64
	benchSteps    int

	logger *log.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "springsim",
		Short: "mass-spring simulation lab",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cmd, nil)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".springsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.Float64Var(&dt, "dt", 0, "timestep (0 uses the model default)")
	pf.IntVar(&steps, "steps", config.DefaultSteps, "number of steps for headless runs")
	pf.IntVar(&iterations, "iterations", config.DefaultIterations, "steps per rendered frame")
	pf.IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "record every n-th step")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a headless simulation and archive it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "run simulation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}

	guiCmd := &cobra.Command{
		Use:   "gui [model]",
		Short: "run simulation in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and a mass coordinate of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&massIndex, "mass", -1, "mass index (-1 for the last mass)")
	plotCmd.Flags().IntVar(&axis, "axis", 1, "coordinate (0=x, 1=y, 2=z)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a mass coordinate",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&massIndex, "mass", -1, "mass index (-1 for the last mass)")
	analyzeCmd.Flags().IntVar(&axis, "axis", 1, "coordinate (0=x, 1=y, 2=z)")

	phaseCmd := &cobra.Command{
		Use:   "phase [model]",
		Short: "position/velocity portrait of one mass",
		Args:  cobra.MaximumNArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&massIndex, "mass", -1, "mass index (-1 for the last mass)")
	phaseCmd.Flags().IntVar(&axis, "axis", 1, "coordinate (0=x, 1=y, 2=z)")
	phaseCmd.Flags().StringVar(&phaseSVG, "svg", "", "also write the portrait to this SVG file")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run positions to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := physics.ParseKind(args[0])
			if err != nil {
				return err
			}
			names := config.ListPresets(kind.String())
			if len(names) == 0 {
				fmt.Printf("no presets for model: %s\n", kind)
				return nil
			}
			fmt.Printf("presets for %s:\n", kind)
			for _, name := range names {
				fmt.Printf("  %-12s %s\n", name, config.Presets[kind.String()][name].Description)
			}
			return nil
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "compare timesteps for stability",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepTimesteps,
	}
	sweepCmd.Flags().Float64SliceVar(&sweepDts, "dts", nil, "timesteps to try (default: 0.5x to 8x the model default)")
	sweepCmd.Flags().Float64Var(&sweepDuration, "duration", 2, "simulated seconds per timestep")

	benchCmd := &cobra.Command{
		Use:   "bench [model]",
		Short: "benchmark model step throughput",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchModel,
	}
	benchCmd.Flags().IntVar(&benchSteps, "bench-steps", 5000, "steps per measurement")

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list available models",
		Run: func(cmd *cobra.Command, args []string) {
			reg := experiment.NewRegistry()
			for _, name := range reg.ListModels() {
				k, _ := physics.ParseKind(name)
				fmt.Printf("  %-14s %s (dt %g)\n", name, k.Title(), reg.DefaultDt(k))
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, listCmd, plotCmd, analyzeCmd, phaseCmd,
		exportCSVCmd, exportJSONCmd, presetsCmd, sweepCmd, benchCmd, modelsCmd)
	rootCmd.AddCommand(batchCommands()...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger() error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "springsim",
		Level:           level,
	})
	return nil
}

// loadConfig layers defaults, preset, config file, model argument and
// explicitly set flags, in that order.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	model := cfg.Model
	if len(args) > 0 {
		kind, err := physics.ParseKind(args[0])
		if err != nil {
			return nil, err
		}
		model = kind.String()
	}

	if preset != "" {
		cfg = config.GetPreset(model, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
		if len(args) == 0 {
			model = cfg.Model
		}
	}
	cfg.Model = model

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("iterations") {
		cfg.Iterations = iterations
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger.Debug("config loaded", "model", cfg.Model, "dt", cfg.TimeStep(), "steps", cfg.Steps,
		"preset", preset, "file", configFile)
	return cfg, nil
}
