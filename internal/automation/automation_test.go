package automation

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/experiment"
	"github.com/san-kum/springsim/internal/storage"
)

func quiet() *log.Logger { return log.New(io.Discard) }

func chainConfig(steps int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Model = "chain"
	cfg.Steps = steps
	return cfg
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	data := []byte(`name: warmup
description: two short runs
steps:
  - model: single_spring
    steps: 50
  - model: chain
    preset: free
    steps: 40
    sample_every: 5
    params:
      chain.stiffness: 3000
    save: true
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	scenario, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if scenario.Name != "warmup" || len(scenario.Steps) != 2 {
		t.Fatalf("unexpected scenario: %+v", scenario)
	}

	cfg, err := scenario.Steps[1].Config()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Chain.Stiffness != 3000 {
		t.Errorf("expected stiffness override, got %g", cfg.Chain.Stiffness)
	}
	if cfg.SampleEvery != 5 || cfg.Steps != 40 {
		t.Errorf("expected step overrides, got steps=%d sample_every=%d", cfg.Steps, cfg.SampleEvery)
	}
}

func TestLoadScenarioEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("name: nothing\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScenario(path); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestScenarioStepUnknownPreset(t *testing.T) {
	step := ScenarioStep{Model: "chain", Preset: "missing"}
	if _, err := step.Config(); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestRunScenario(t *testing.T) {
	store := storage.New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	scenario := &Scenario{
		Name: "test",
		Steps: []ScenarioStep{
			{Model: "single_spring", Steps: 30},
			{Model: "chain", Steps: 30, SampleEvery: 3, Save: true},
		},
	}

	results, err := RunScenario(context.Background(), scenario, experiment.NewRegistry(), store, quiet())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].RunID != "" {
		t.Error("unsaved step got a run id")
	}
	if results[1].RunID == "" {
		t.Fatal("saved step has no run id")
	}
	if _, err := store.Load(results[1].RunID); err != nil {
		t.Errorf("saved run not loadable: %v", err)
	}
}

func TestRunSweep(t *testing.T) {
	sweep := &ParameterSweep{
		Base:  chainConfig(40),
		Param: "chain.damping_ratio",
		Min:   0,
		Max:   0.5,
		Count: 3,
	}

	results, err := RunSweep(context.Background(), sweep, experiment.NewRegistry(), quiet())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	want := []float64{0, 0.25, 0.5}
	for i, r := range results {
		if r.Value != want[i] {
			t.Errorf("result %d: expected value %g, got %g", i, want[i], r.Value)
		}
		if r.Unstable {
			t.Errorf("result %d: unexpected instability", i)
		}
		if _, ok := r.Metrics["energy_drift"]; !ok {
			t.Errorf("result %d: missing energy_drift metric", i)
		}
	}
	if sweep.Base.Chain.DampingRatio == 0.5 {
		t.Error("sweep mutated the base config")
	}
}

func TestRunSweepUnknownParam(t *testing.T) {
	sweep := &ParameterSweep{Base: chainConfig(10), Param: "chain.color", Count: 2}
	if _, err := RunSweep(context.Background(), sweep, experiment.NewRegistry(), quiet()); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestRunMonteCarloReproducible(t *testing.T) {
	mc := &MonteCarloConfig{
		Base:         chainConfig(30),
		Params:       []string{"chain.stiffness", "chain.mass"},
		Perturbation: 0.2,
		Trials:       4,
		Seed:         7,
	}
	reg := experiment.NewRegistry()

	a, err := RunMonteCarlo(context.Background(), mc, reg, quiet())
	if err != nil {
		t.Fatalf("monte carlo: %v", err)
	}
	b, err := RunMonteCarlo(context.Background(), mc, reg, quiet())
	if err != nil {
		t.Fatalf("monte carlo: %v", err)
	}

	base := mc.Base.Chain.Stiffness
	for i := range a {
		if a[i].Values["chain.stiffness"] != b[i].Values["chain.stiffness"] {
			t.Errorf("trial %d: same seed drew different values", i)
		}
		k := a[i].Values["chain.stiffness"]
		if k < base*0.8 || k > base*1.2 {
			t.Errorf("trial %d: stiffness %g outside ±20%% of %g", i, k, base)
		}
	}

	stable, unstable := MonteCarloStats(a)
	if stable+unstable != 4 {
		t.Errorf("expected 4 trials, got %d", stable+unstable)
	}
}
