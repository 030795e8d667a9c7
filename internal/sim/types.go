package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/springsim/internal/dynamo"
)

const (
	MinIterations = 1
	MaxIterations = 100
)

// Controls is the per-frame value object a host hands to the session.
type Controls struct {
	Dt         float64
	Iterations int
	Playing    bool
}

func (c Controls) Validate() error {
	if err := dynamo.CheckTimestep(c.Dt); err != nil {
		return err
	}
	if c.Iterations < MinIterations || c.Iterations > MaxIterations {
		return fmt.Errorf("iterations must be in [%d, %d], got %d", MinIterations, MaxIterations, c.Iterations)
	}
	return nil
}

type Metric interface {
	Name() string
	Observe(m dynamo.Model, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(m dynamo.Model, t float64)
}

// Config drives a headless run. Steps wins over Duration when both are set.
type Config struct {
	Dt          float64
	Steps       int
	Duration    float64
	SampleEvery int
}

func (c Config) steps() int {
	if c.Steps > 0 {
		return c.Steps
	}
	return int(c.Duration/c.Dt + 0.5)
}

// Frame is a snapshot of every mass position at time T.
type Frame struct {
	T         float64
	Positions []dynamo.Vec3
}

type Result struct {
	Model       string
	Frames      []Frame
	Times       []float64
	Energies    []float64
	Metrics     map[string]float64
	StepsTaken  int
	EnergyDrift float64
	Errors      []error
}

// Unstable reports whether the run stopped on a diverged state.
func (r *Result) Unstable() bool {
	for _, err := range r.Errors {
		if errors.Is(err, dynamo.ErrUnstable) {
			return true
		}
	}
	return false
}

// StepError records where a run failed.
type StepError struct {
	Time float64
	Step int
	Err  error
}

func (e StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Err)
}

func (e StepError) Unwrap() error { return e.Err }
