package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/experiment"
	"github.com/san-kum/springsim/internal/sim"
	"github.com/san-kum/springsim/internal/storage"
)

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. Zero fields keep the
// preset's (or default) value.
type ScenarioStep struct {
	Model       string             `yaml:"model"`
	Preset      string             `yaml:"preset"`
	Dt          float64            `yaml:"dt"`
	Steps       int                `yaml:"steps"`
	SampleEvery int                `yaml:"sample_every"`
	Params      map[string]float64 `yaml:"params"`
	Save        bool               `yaml:"save"`
}

// ScenarioResult is the outcome of one step. RunID is empty unless the
// step was saved.
type ScenarioResult struct {
	Step   int
	Model  string
	RunID  string
	Result *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	return &scenario, nil
}

// Config resolves the step into a validated run configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Model, s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %s for %s", s.Preset, s.Model)
		}
	}
	cfg.Model = s.Model
	if s.Dt != 0 {
		cfg.Dt = s.Dt
	}
	if s.Steps != 0 {
		cfg.Steps = s.Steps
	}
	if s.SampleEvery != 0 {
		cfg.SampleEvery = s.SampleEvery
	}
	if err := cfg.Apply(s.Params); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes the steps in order. Steps marked Save are archived
// in store, which may be nil when no step saves.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, store *storage.Store, logger *log.Logger) ([]ScenarioResult, error) {
	if logger == nil {
		logger = log.Default()
	}
	results := make([]ScenarioResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "model", step.Model)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg, logger)
		if err := exp.Setup(registry); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		r := ScenarioResult{Step: i + 1, Model: cfg.Model, Result: result}
		if step.Save {
			if store == nil {
				return results, fmt.Errorf("step %d: save requested without a store", i+1)
			}
			r.RunID, err = store.Save(storage.RunInfo{
				Dt:          cfg.TimeStep(),
				SampleEvery: cfg.SampleEvery,
				Springs:     exp.Model().View().SpringCount(),
			}, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, r)
	}

	return results, nil
}

// ParameterSweep runs Base once per evenly spaced value of Param in
// [Min, Max].
type ParameterSweep struct {
	Base  *config.Config
	Param string
	Min   float64
	Max   float64
	Count int
}

type SweepResult struct {
	Value     float64
	Metrics   map[string]float64
	MinEnergy float64
	MaxEnergy float64
	Unstable  bool
}

func (s *ParameterSweep) values() []float64 {
	if s.Count == 1 {
		return []float64{s.Min}
	}
	out := make([]float64, s.Count)
	step := (s.Max - s.Min) / float64(s.Count-1)
	for i := range out {
		out[i] = s.Min + float64(i)*step
	}
	return out
}

// RunSweep executes the sweep concurrently. Results are in value order.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry, logger *log.Logger) ([]SweepResult, error) {
	if sweep.Count < 1 {
		return nil, fmt.Errorf("sweep count must be positive, got %d", sweep.Count)
	}
	if _, err := sweep.Base.Get(sweep.Param); err != nil {
		return nil, err
	}

	values := sweep.values()
	cfgs := make([]*config.Config, len(values))
	for i, v := range values {
		cfg := sweep.Base.Clone()
		if err := cfg.Set(sweep.Param, v); err != nil {
			return nil, err
		}
		cfgs[i] = cfg
	}

	results := make([]SweepResult, len(values))
	err := runAll(ctx, cfgs, registry, logger, func(i int, r *sim.Result) {
		lo, hi := energyRange(r.Energies)
		results[i] = SweepResult{
			Value:     values[i],
			Metrics:   r.Metrics,
			MinEnergy: lo,
			MaxEnergy: hi,
			Unstable:  r.Unstable(),
		}
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// MonteCarloConfig jitters each of Params by a uniform relative factor in
// [1-Perturbation, 1+Perturbation] per trial.
type MonteCarloConfig struct {
	Base         *config.Config
	Params       []string
	Perturbation float64
	Trials       int
	Seed         int64
}

type MonteCarloResult struct {
	Trial  int
	Values map[string]float64
	Drift  float64
	Stable bool
}

// RunMonteCarlo draws every trial's parameters up front so a seed
// reproduces the same set regardless of scheduling.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry, logger *log.Logger) ([]MonteCarloResult, error) {
	if cfg.Trials < 1 {
		return nil, fmt.Errorf("trials must be positive, got %d", cfg.Trials)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	cfgs := make([]*config.Config, cfg.Trials)
	results := make([]MonteCarloResult, cfg.Trials)
	for trial := range cfgs {
		c := cfg.Base.Clone()
		values := make(map[string]float64, len(cfg.Params))
		for _, name := range cfg.Params {
			base, err := c.Get(name)
			if err != nil {
				return nil, err
			}
			v := base * (1 + (rng.Float64()*2-1)*cfg.Perturbation)
			if err := c.Set(name, v); err != nil {
				return nil, err
			}
			values[name], _ = c.Get(name)
		}
		cfgs[trial] = c
		results[trial] = MonteCarloResult{Trial: trial, Values: values}
	}

	err := runAll(ctx, cfgs, registry, logger, func(i int, r *sim.Result) {
		results[i].Drift = r.EnergyDrift
		results[i].Stable = !r.Unstable() && r.Metrics["stability"] == 1
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// MonteCarloStats counts stable and unstable trials.
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}

// runAll runs one experiment per config on a bounded worker pool. A config
// that fails validation aborts the batch.
func runAll(ctx context.Context, cfgs []*config.Config, registry *experiment.Registry, logger *log.Logger, done func(int, *sim.Result)) error {
	if logger == nil {
		logger = log.Default()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, cfg := range cfgs {
		g.Go(func() error {
			exp := experiment.New(cfg, logger)
			if err := exp.Setup(registry); err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			r, err := exp.Run(ctx)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			done(i, r)
			logger.Debug("batch run finished", "run", i+1, "of", len(cfgs))
			return nil
		})
	}
	return g.Wait()
}

func energyRange(energies []float64) (lo, hi float64) {
	if len(energies) == 0 {
		return 0, 0
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, e := range energies {
		lo, hi = math.Min(lo, e), math.Max(hi, e)
	}
	return lo, hi
}
