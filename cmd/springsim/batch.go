package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/springsim/internal/automation"
	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/experiment"
	"github.com/san-kum/springsim/internal/export"
	"github.com/san-kum/springsim/internal/optim"
	"github.com/san-kum/springsim/internal/storage"
	"github.com/san-kum/springsim/internal/viz"
)

var (
	sweepParam   string
	sweepMin     float64
	sweepMax     float64
	sweepCount   int
	mcParams     []string
	mcPerturb    float64
	mcTrials     int
	mcSeed       int64
	tuneGrid     []string
	tuneMetric   string
	tuneMaximize bool
	svgOut       string
	svgTheme     string
)

func batchCommands() []*cobra.Command {
	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	paramSweepCmd := &cobra.Command{
		Use:   "param-sweep [model]",
		Short: "run a model across a range of one parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runParamSweep,
	}
	paramSweepCmd.Flags().StringVar(&sweepParam, "param", "", "parameter path, e.g. chain.stiffness")
	paramSweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	paramSweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	paramSweepCmd.Flags().IntVar(&sweepCount, "count", 5, "number of values")
	_ = paramSweepCmd.MarkFlagRequired("param")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [model]",
		Short: "check stability under random parameter perturbations",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	monteCarloCmd.Flags().StringSliceVar(&mcParams, "params", nil, "parameters to perturb")
	monteCarloCmd.Flags().Float64Var(&mcPerturb, "perturb", 0.1, "relative perturbation")
	monteCarloCmd.Flags().IntVar(&mcTrials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Int64Var(&mcSeed, "seed", 0, "random seed (0 uses the clock)")
	_ = monteCarloCmd.MarkFlagRequired("params")

	tuneCmd := &cobra.Command{
		Use:   "tune [model]",
		Short: "grid search parameters against a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTune,
	}
	tuneCmd.Flags().StringArrayVar(&tuneGrid, "grid", nil, "parameter values, e.g. chain.damping_ratio=0.1,0.3,0.5 (repeatable)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "energy_drift", "metric to optimise")
	tuneCmd.Flags().BoolVar(&tuneMaximize, "maximize", false, "maximise instead of minimise")
	_ = tuneCmd.MarkFlagRequired("grid")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [model]",
		Short: "render the model after --steps steps to SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().StringVar(&svgOut, "out", "snapshot.svg", "output file")
	snapshotCmd.Flags().StringVar(&svgTheme, "theme", viz.ThemeNeon.Name, "colour theme")

	paramsCmd := &cobra.Command{
		Use:   "params",
		Short: "list settable parameter paths",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ParamNames() {
				fmt.Println(name)
			}
		},
	}

	return []*cobra.Command{scenarioCmd, paramSweepCmd, monteCarloCmd, tuneCmd, snapshotCmd, paramsCmd}
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}
	fmt.Println()

	results, err := automation.RunScenario(cmd.Context(), scenario, experiment.NewRegistry(), st, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tMODEL\tSTEPS\tDRIFT\tSTABLE\tRUN ID")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.2e\t%t\t%s\n",
			r.Step, r.Model, r.Result.StepsTaken, r.Result.EnergyDrift, !r.Result.Unstable(), r.RunID)
	}
	return w.Flush()
}

func runParamSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{Base: cfg, Param: sweepParam, Min: sweepMin, Max: sweepMax, Count: sweepCount}
	results, err := automation.RunSweep(cmd.Context(), sweep, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}

	fmt.Printf("parameter sweep: %s %s in [%g, %g]\n\n", cfg.Model, sweepParam, sweepMin, sweepMax)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VALUE\tMIN E\tMAX E\tDRIFT\tSTABILITY\tSTABLE")
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%.4f\t%.4f\t%.2e\t%.3f\t%t\n",
			r.Value, r.MinEnergy, r.MaxEnergy, r.Metrics["energy_drift"], r.Metrics["stability"], !r.Unstable)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	mc := &automation.MonteCarloConfig{
		Base:         cfg,
		Params:       mcParams,
		Perturbation: mcPerturb,
		Trials:       mcTrials,
		Seed:         mcSeed,
	}
	results, err := automation.RunMonteCarlo(cmd.Context(), mc, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	worst := 0.0
	for _, r := range results {
		worst = max(worst, r.Drift)
	}

	fmt.Printf("monte carlo: %s, %d trials, ±%.0f%% on %s\n", cfg.Model, mcTrials, mcPerturb*100, strings.Join(mcParams, ", "))
	fmt.Printf("stable: %d\n", stable)
	fmt.Printf("unstable: %d\n", unstable)
	fmt.Printf("worst energy drift: %.2e\n", worst)
	return nil
}

// parseGrid reads repeated name=v1,v2,... flags.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, nil, fmt.Errorf("grid %q: expected name=v1,v2", spec)
		}
		var values []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid %q: %w", spec, err)
			}
			values = append(values, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(tuneGrid)
	if err != nil {
		return err
	}

	gs, err := optim.NewGridSearch(names, ranges, logger)
	if err != nil {
		return err
	}
	best, val, err := gs.Search(cmd.Context(), cfg, experiment.NewRegistry(), tuneMetric, tuneMaximize)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("best %s: %.6g\n", tuneMetric, val)
	for _, k := range keys {
		fmt.Printf("  %s = %g\n", k, best[k])
	}
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	model, err := experiment.NewRegistry().Build(cfg)
	if err != nil {
		return err
	}

	model.Reset()
	cam := viz.NewCamera()
	cam.Fit(viz.SceneBounds(model))

	dt := cfg.TimeStep()
	for i := 0; i < cfg.Steps; i++ {
		if err := model.Step(dt); err != nil {
			return err
		}
	}

	canvas := viz.NewCanvas(100, 40)
	viz.Render(canvas, model, cam)
	if err := export.WriteFile(svgOut, export.CanvasToSVG(canvas, 4, viz.GetTheme(svgTheme))); err != nil {
		return err
	}
	fmt.Printf("wrote %s (t=%.3fs)\n", svgOut, float64(cfg.Steps)*dt)
	return nil
}
