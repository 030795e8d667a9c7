package experiment

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	model     dynamo.Model
	simulator *sim.Simulator
	logger    *log.Logger
}

func New(cfg *config.Config, logger *log.Logger) *Experiment {
	if logger == nil {
		logger = log.Default()
	}
	return &Experiment{cfg: cfg, logger: logger}
}

// Setup validates the config, builds the model and attaches the default
// metrics.
func (e *Experiment) Setup(reg *Registry) error {
	if err := e.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	model, err := reg.Build(e.cfg)
	if err != nil {
		return err
	}

	e.model = model
	e.simulator = sim.New(e.logger)
	for _, m := range reg.DefaultMetrics() {
		e.simulator.AddMetric(m)
	}

	e.logger.Debug("experiment ready", "model", model.Name(), "dt", e.cfg.TimeStep(), "steps", e.cfg.Steps)
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	simCfg := sim.Config{
		Dt:          e.cfg.TimeStep(),
		Steps:       e.cfg.Steps,
		SampleEvery: e.cfg.SampleEvery,
	}
	return e.simulator.Run(ctx, e.model, simCfg)
}

// GetSimulator returns the underlying simulator for adding observers.
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Model() dynamo.Model {
	return e.model
}
