package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/san-kum/springsim/internal/dynamo"
)

type Simulator struct {
	metrics   []Metric
	observers []Observer
	logger    *log.Logger
}

func New(logger *log.Logger) *Simulator {
	if logger == nil {
		logger = log.Default()
	}
	return &Simulator{logger: logger}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run resets model and advances it cfg.Steps times, sampling a frame every
// cfg.SampleEvery steps. A diverged state ends the run early and is recorded
// in Result.Errors; a rejected step is returned as an error.
func (s *Simulator) Run(ctx context.Context, model dynamo.Model, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := cfg.steps()
	every := cfg.SampleEvery
	if every <= 0 {
		every = 1
	}

	result := &Result{
		Model:   model.Name(),
		Frames:  make([]Frame, 0, steps/every+1),
		Times:   make([]float64, 0, steps/every+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	model.Reset()
	t := 0.0
	s.sample(result, model, t)

	initialEnergy, hasEnergy := energyOf(model)
	maxDrift := 0.0

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(model, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(model, t)
		}

		if err := model.Step(cfg.Dt); err != nil {
			return result, StepError{Time: t, Step: i, Err: err}
		}
		t += cfg.Dt
		result.StepsTaken++

		if !Finite(model.View()) {
			err := StepError{Time: t, Step: i, Err: dynamo.ErrUnstable}
			result.Errors = append(result.Errors, err)
			s.logger.Warn("simulation diverged", "model", model.Name(), "step", i, "t", t)
			break
		}

		if hasEnergy {
			e, _ := energyOf(model)
			maxDrift = math.Max(maxDrift, dynamo.EnergyDrift(initialEnergy, e))
		}

		if (i+1)%every == 0 {
			s.sample(result, model, t)
		}
	}

	result.EnergyDrift = maxDrift
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Debug("run finished", "model", model.Name(), "steps", result.StepsTaken, "frames", len(result.Frames))
	return result, nil
}

func (s *Simulator) sample(r *Result, model dynamo.Model, t float64) {
	r.Frames = append(r.Frames, Frame{T: t, Positions: model.View().Positions(nil)})
	r.Times = append(r.Times, t)
	if e, ok := energyOf(model); ok {
		r.Energies = append(r.Energies, e)
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if err := dynamo.CheckTimestep(cfg.Dt); err != nil {
		return err
	}
	if cfg.Steps < 0 {
		return fmt.Errorf("steps must be non-negative, got %d", cfg.Steps)
	}
	if cfg.Steps == 0 && cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

// RunWithCallback steps model until cfg is exhausted or callback returns
// false. The callback sees the model before each step.
func (s *Simulator) RunWithCallback(ctx context.Context, model dynamo.Model, cfg Config, callback func(dynamo.Model, float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	model.Reset()
	t := 0.0
	for i := 0; i < cfg.steps(); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(model, t) {
			return nil
		}
		if err := model.Step(cfg.Dt); err != nil {
			return StepError{Time: t, Step: i, Err: err}
		}
		t += cfg.Dt

		if !Finite(model.View()) {
			return StepError{Time: t, Step: i, Err: dynamo.ErrUnstable}
		}
	}
	return nil
}
