package physics

import (
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
)

const thresholdSlack = 1e-9

// Environment holds the uniform forces acting on every mass.
type Environment struct {
	Gravity dynamo.Vec3
	AirDrag float64
}

// DefaultEnvironment is standard gravity with light air drag.
func DefaultEnvironment() Environment {
	return Environment{Gravity: dynamo.StandardGravity, AirDrag: 0.05}
}

func (e Environment) validate(model string) error {
	if !dynamo.Finite(e.Gravity) {
		return invalid(model, "gravity", e.Gravity)
	}
	if !(e.AirDrag >= 0) {
		return invalid(model, "air drag", e.AirDrag)
	}
	return nil
}

func invalid(model, field string, value any) error {
	return &dynamo.TopologyError{Model: model, Field: field, Value: value}
}

func positive(model, field string, v float64) error {
	if !(v > 0) || math.IsInf(v, 1) {
		return invalid(model, field, v)
	}
	return nil
}

func nonNegative(model, field string, v float64) error {
	if !(v >= 0) || math.IsInf(v, 1) {
		return invalid(model, field, v)
	}
	return nil
}

func finite(model, field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(model, field, v)
	}
	return nil
}

// atLeast rejects v below lo as well as NaN and +Inf.
func atLeast(model, field string, v, lo float64) error {
	if !(v >= lo) || math.IsInf(v, 1) {
		return invalid(model, field, v)
	}
	return nil
}

// firstErr returns the first non-nil error.
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// connect calls fn for every unordered pair of points no further apart than
// threshold, in deterministic (i > j) order. O(n²), run once per build.
func connect(points []dynamo.Vec3, threshold float64, fn func(i, j int, d float64)) {
	limit := threshold * (1 + thresholdSlack)
	for i := range points {
		for j := 0; j < i; j++ {
			d := points[i].Sub(points[j]).Len()
			if d <= limit {
				fn(i, j, d)
			}
		}
	}
}

// base carries the state shared by every topology: the network arena, the
// initial geometry used by Reset and the uniform environment.
type base struct {
	name    string
	net     *dynamo.Network
	env     Environment
	ground  *dynamo.Ground
	initial []dynamo.Vec3
	rest    []float64
}

func newBase(name string, env Environment, masses []dynamo.Mass, springs []dynamo.Spring, initial []dynamo.Vec3) (base, error) {
	net, err := dynamo.NewNetwork(name, masses, springs)
	if err != nil {
		return base{}, err
	}
	rest := make([]float64, len(springs))
	for j := range springs {
		rest[j] = springs[j].RestLength
	}
	b := base{name: name, net: net, env: env, initial: initial, rest: rest}
	b.place()
	return b, nil
}

// place restores positions, velocities, accumulators and spring rest state.
func (b *base) place() {
	masses := b.net.Masses()
	for i := range masses {
		masses[i].Place(b.initial[i])
	}
	springs := b.net.Springs()
	for j := range springs {
		springs[j].Rest(b.rest[j])
	}
}

// advance runs the standard two-phase step: gather every force, then
// integrate every free mass.
func (b *base) advance(dt float64) error {
	if err := dynamo.CheckTimestep(dt); err != nil {
		return err
	}
	b.net.GatherSpringForces()
	b.net.AddUniformForces(b.env.AirDrag)
	b.net.ResolveCollisions(b.ground)
	b.net.Integrate(dt)
	return nil
}

func (b *base) Name() string             { return b.name }
func (b *base) Reset()                   { b.place() }
func (b *base) View() dynamo.View        { return b.net }
func (b *base) Energy() float64          { return b.net.Energy(b.ground) }
func (b *base) DegenerateSprings() int   { return b.net.DegenerateSprings() }
func (b *base) Ground() *dynamo.Ground   { return b.ground }
func (b *base) Environment() Environment { return b.env }
