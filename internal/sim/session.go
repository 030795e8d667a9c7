package sim

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
)

// Builder constructs a fresh model of the given kind.
type Builder func(physics.Kind) (dynamo.Model, error)

// Session owns the active model of an interactive host and applies the
// host's controls to it frame by frame. It is not safe for concurrent use.
type Session struct {
	build    Builder
	kind     physics.Kind
	model    dynamo.Model
	controls Controls
	time     float64
	steps    int
	logger   *log.Logger
}

// NewSession builds the initial model. A nil build uses the default
// parameters of each kind.
func NewSession(kind physics.Kind, build Builder, logger *log.Logger) (*Session, error) {
	if build == nil {
		build = physics.New
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Session{build: build, logger: logger, controls: Controls{Iterations: MinIterations}}
	if err := s.Select(kind); err != nil {
		return nil, err
	}
	return s, nil
}

// Select discards the current model and builds a new one. The session is
// paused and the kind's default timestep loaded.
func (s *Session) Select(kind physics.Kind) error {
	m, err := s.build(kind)
	if err != nil {
		return fmt.Errorf("select %s: %w", kind, err)
	}
	m.Reset()

	s.kind = kind
	s.model = m
	s.controls.Playing = false
	s.controls.Dt = kind.DefaultDt()
	s.time, s.steps = 0, 0

	s.logger.Info("model selected", "model", kind.String(), "masses", m.View().MassCount(),
		"springs", m.View().SpringCount(), "dt", s.controls.Dt)
	return nil
}

func (s *Session) Kind() physics.Kind  { return s.kind }
func (s *Session) Model() dynamo.Model { return s.model }
func (s *Session) Controls() Controls  { return s.controls }
func (s *Session) Time() float64       { return s.time }
func (s *Session) Steps() int          { return s.steps }
func (s *Session) Playing() bool       { return s.controls.Playing }

func (s *Session) Play()   { s.controls.Playing = true }
func (s *Session) Pause()  { s.controls.Playing = false }
func (s *Session) Toggle() { s.controls.Playing = !s.controls.Playing }

// SetDt changes the timestep. Invalid values are rejected and logged; the
// previous timestep stays in effect.
func (s *Session) SetDt(dt float64) error {
	if err := dynamo.CheckTimestep(dt); err != nil {
		s.logger.Warn("timestep rejected", "dt", dt, "keep", s.controls.Dt)
		return err
	}
	s.controls.Dt = dt
	return nil
}

// SetIterations clamps n into [MinIterations, MaxIterations].
func (s *Session) SetIterations(n int) {
	s.controls.Iterations = max(MinIterations, min(MaxIterations, n))
}

// Reset restores the current model to its initial state. The session keeps
// playing if it was.
func (s *Session) Reset() {
	s.model.Reset()
	s.time, s.steps = 0, 0
	s.logger.Debug("model reset", "model", s.kind.String())
}

// StepOnce advances exactly one step regardless of the play state.
func (s *Session) StepOnce() error {
	if err := s.model.Step(s.controls.Dt); err != nil {
		s.Pause()
		s.logger.Error("step failed", "model", s.kind.String(), "err", err)
		return err
	}
	s.time += s.controls.Dt
	s.steps++
	return nil
}

// Frame runs Iterations steps when playing. A diverged state pauses the
// session and returns ErrUnstable.
func (s *Session) Frame() error {
	if !s.controls.Playing {
		return nil
	}
	for i := 0; i < s.controls.Iterations; i++ {
		if err := s.StepOnce(); err != nil {
			return err
		}
	}
	if !Finite(s.model.View()) {
		s.Pause()
		s.logger.Warn("simulation diverged, paused", "model", s.kind.String(), "t", s.time)
		return dynamo.ErrUnstable
	}
	return nil
}
