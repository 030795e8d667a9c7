package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/springsim/internal/analysis"
	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/experiment"
	"github.com/san-kum/springsim/internal/export"
	"github.com/san-kum/springsim/internal/gui"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
	"github.com/san-kum/springsim/internal/storage"
	"github.com/san-kum/springsim/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg, logger)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	fmt.Printf("running %s simulation...\n", cfg.Model)
	start := time.Now()

	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunInfo{
		Dt:          cfg.TimeStep(),
		SampleEvery: cfg.SampleEvery,
		Springs:     exp.Model().View().SpringCount(),
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	if result.Unstable() {
		fmt.Println("warning: simulation diverged, try a smaller --dt")
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return nil
}

// openSession builds a session whose models all use cfg's parameters.
func openSession(cfg *config.Config, kind physics.Kind) (*sim.Session, error) {
	s, err := sim.NewSession(kind, experiment.NewRegistry().Builder(cfg), logger)
	if err != nil {
		return nil, err
	}
	if cfg.Dt != 0 {
		if err := s.SetDt(cfg.Dt); err != nil {
			return nil, err
		}
	}
	s.SetIterations(cfg.Iterations)
	return s, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	var m tea.Model
	if len(args) == 0 {
		m = viz.NewMenu(func(k physics.Kind) (*sim.Session, error) { return openSession(cfg, k) })
	} else {
		kind, err := cfg.Kind()
		if err != nil {
			return err
		}
		s, err := openSession(cfg, kind)
		if err != nil {
			return err
		}
		m = viz.NewLive(s)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	kind, err := cfg.Kind()
	if err != nil {
		return err
	}
	s, err := openSession(cfg, kind)
	if err != nil {
		return err
	}
	gui.Run(s, logger)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tSTEPS\tDT\tMASSES\tSPRINGS\tSTABLE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%g\t%d\t%d\t%t\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			run.Masses,
			run.Springs,
			!run.Unstable,
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []sim.Frame, []float64, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	frames, energies, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, nil, errors.New("no data in run")
	}
	return meta, frames, energies, nil
}

// selectMass resolves the --mass flag against a mass count.
func selectMass(count int) (int, error) {
	idx := massIndex
	if idx < 0 {
		idx = count + idx
	}
	if idx < 0 || idx >= count {
		return 0, fmt.Errorf("mass %d out of range [0, %d)", massIndex, count)
	}
	if axis < 0 || axis > 2 {
		return 0, fmt.Errorf("axis %d out of range [0, 2]", axis)
	}
	return idx, nil
}

var axisNames = [3]string{"x", "y", "z"}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, energies, err := loadRun(args[0])
	if err != nil {
		return err
	}
	mass, err := selectMass(len(frames[0].Positions))
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", len(frames))

	if len(energies) > 1 {
		fmt.Println(asciigraph.Plot(energies,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("total energy (J)"),
		))
		fmt.Println()
	}

	fmt.Println(asciigraph.Plot(analysis.Series(frames, mass, axis),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("mass %d %s (m)", mass, axisNames[axis])),
	))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, _, err := loadRun(args[0])
	if err != nil {
		return err
	}
	mass, err := selectMass(len(frames[0].Positions))
	if err != nil {
		return err
	}

	interval := meta.Dt * float64(max(1, meta.SampleEvery))
	series := analysis.Series(frames, mass, axis)

	freq, err := analysis.DominantFrequency(series, interval)
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("model: %s, mass %d %s, %d samples every %gs\n\n", meta.Model, mass, axisNames[axis], len(series), interval)

	ps := analysis.PowerSpectrum(series)
	fmt.Println(asciigraph.Plot(ps[1:max(2, len(ps)/4)],
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum"),
	))
	fmt.Println()

	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1/freq)
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))
	if c := analysis.Crossings(series, interval, mean); len(c) > 1 {
		measured := float64(len(c)-1) / (c[len(c)-1] - c[0])
		fmt.Printf("mean-crossing frequency: %.3f hz (%d cycles)\n", measured, len(c)-1)
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	model, err := experiment.NewRegistry().Build(cfg)
	if err != nil {
		return err
	}
	mass, err := selectMass(model.View().MassCount())
	if err != nil {
		return err
	}

	portrait, err := analysis.GeneratePhasePortrait(model, mass, axis, cfg.TimeStep(), cfg.Steps)
	if err != nil {
		return err
	}

	fmt.Printf("phase portrait: %s, mass %d, %s against v%s\n\n", cfg.Model, mass, axisNames[axis], axisNames[axis])
	fmt.Print(analysis.PhasePortraitToASCII(portrait, 70, 20))

	if phaseSVG != "" {
		if err := export.WriteFile(phaseSVG, export.PortraitToSVG(portrait, 800, 600, "#00ffff")); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", phaseSVG)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, frames, energies, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time", "energy"}
	for i := range frames[0].Positions {
		header = append(header, fmt.Sprintf("m%d_x", i), fmt.Sprintf("m%d_y", i), fmt.Sprintf("m%d_z", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, f := range frames {
		energy := ""
		if i < len(energies) {
			energy = strconv.FormatFloat(energies[i], 'f', 6, 64)
		}
		row := []string{strconv.FormatFloat(f.T, 'f', 6, 64), energy}
		for _, p := range f.Positions {
			for k := 0; k < 3; k++ {
				row = append(row, strconv.FormatFloat(p[k], 'f', 6, 64))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, energies, err := loadRun(args[0])
	if err != nil {
		return err
	}

	result := &sim.Result{
		Model:       meta.Model,
		Frames:      frames,
		Times:       make([]float64, len(frames)),
		Energies:    energies,
		Metrics:     meta.Metrics,
		StepsTaken:  meta.Steps,
		EnergyDrift: meta.EnergyDrift,
	}
	for i, f := range frames {
		result.Times[i] = f.T
	}
	return storage.WriteJSON(os.Stdout, meta.Dt, result)
}

func sweepTimesteps(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	reg := experiment.NewRegistry()

	dts := sweepDts
	if len(dts) == 0 {
		base := cfg.TimeStep()
		for _, f := range []float64{0.5, 1, 2, 4, 8} {
			dts = append(dts, base*f)
		}
	}

	results, err := sim.Sweep(cmd.Context(), func() (dynamo.Model, error) { return reg.Build(cfg) }, dts, sweepDuration)
	if err != nil {
		return err
	}

	fmt.Printf("timestep sweep: %s over %gs\n\n", cfg.Model, sweepDuration)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tDRIFT\tMAX SPEED\tSTABLE")
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%d\t%.2e\t%.3f\t%t\n", r.Dt, r.StepsTaken, r.Drift, r.MaxSpeed, r.Stable)
	}
	return w.Flush()
}

func benchModel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	reg := experiment.NewRegistry()

	fmt.Printf("benchmarking %s (dt %g)\n\n", cfg.Model, cfg.TimeStep())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEPS\tSPRINGS\tTIME\tSTEPS/SEC\tNS/SPRING")

	for _, n := range []int{benchSteps / 10, benchSteps, benchSteps * 4} {
		if n <= 0 {
			continue
		}
		model, err := reg.Build(cfg)
		if err != nil {
			return err
		}
		springs := model.View().SpringCount()

		s := sim.New(logger)
		start := time.Now()
		result, err := s.Run(cmd.Context(), model, sim.Config{Dt: cfg.TimeStep(), Steps: n, SampleEvery: n})
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		perSec := float64(result.StepsTaken) / elapsed.Seconds()
		perSpring := math.NaN()
		if springs > 0 && result.StepsTaken > 0 {
			perSpring = float64(elapsed.Nanoseconds()) / float64(result.StepsTaken*springs)
		}
		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.1f\n", result.StepsTaken, springs, elapsed, perSec, perSpring)
	}
	return w.Flush()
}
