package dynamo

import (
	"errors"
	"fmt"
	"math"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidTimestep is returned by Step when dt is not strictly positive.
	ErrInvalidTimestep = errors.New("dynamo: timestep must be positive")

	// ErrInvalidTopology indicates a model was configured with an invalid parameter.
	ErrInvalidTopology = errors.New("dynamo: invalid topology configuration")

	// ErrDegenerateSpring marks a spring whose endpoints coincide. Steps skip
	// such springs; the error only surfaces through counters and logs.
	ErrDegenerateSpring = errors.New("dynamo: degenerate spring (zero length)")

	// ErrUnstable indicates the simulation state diverged (NaN or Inf).
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")
)

// TopologyError wraps ErrInvalidTopology with the offending parameter.
type TopologyError struct {
	Model string
	Field string
	Value any
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("%s: %s: invalid %s (%v)", ErrInvalidTopology, e.Model, e.Field, e.Value)
}

func (e *TopologyError) Unwrap() error {
	return ErrInvalidTopology
}

func topologyErr(model, field string, value any) error {
	return &TopologyError{Model: model, Field: field, Value: value}
}

// CheckTimestep returns ErrInvalidTimestep unless dt is a finite positive number.
func CheckTimestep(dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidTimestep, dt)
	}
	return nil
}
