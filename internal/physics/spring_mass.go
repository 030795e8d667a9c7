package physics

import "github.com/san-kum/springsim/internal/dynamo"

const (
	DefaultSpringMass      = 0.5
	DefaultSpringStiffness = 15.0
	DefaultSpringRest      = 5.0
	DefaultPullStep        = 0.025
	DefaultPullLimit       = -8.0
)

// SingleSpringParams configures a SingleSpring.
type SingleSpringParams struct {
	Mass         float64
	Stiffness    float64
	RestLength   float64
	DampingRatio float64

	// PullStep is how far the free mass is dragged down per step before it is
	// released at PullLimit. Zero disables the pull.
	PullStep  float64
	PullLimit float64

	Env Environment
}

// DefaultSingleSpringParams is an underdamped spring (10% of critical)
// without air drag.
func DefaultSingleSpringParams() SingleSpringParams {
	return SingleSpringParams{
		Mass:         DefaultSpringMass,
		Stiffness:    DefaultSpringStiffness,
		RestLength:   DefaultSpringRest,
		DampingRatio: 0.1,
		PullStep:     DefaultPullStep,
		PullLimit:    DefaultPullLimit,
		Env:          Environment{Gravity: dynamo.StandardGravity},
	}
}

func (p SingleSpringParams) Validate() error {
	name := KindSingleSpring.String()
	return firstErr(
		positive(name, "mass", p.Mass),
		positive(name, "stiffness", p.Stiffness),
		positive(name, "rest length", p.RestLength),
		nonNegative(name, "damping ratio", p.DampingRatio),
		nonNegative(name, "pull step", p.PullStep),
		finite(name, "pull limit", p.PullLimit),
		p.Env.validate(name),
	)
}

// SingleSpring is a mass hanging from a fixed anchor. The free mass is first
// dragged down by PullStep per step until it reaches PullLimit, then released
// to oscillate under spring and gravity forces.
type SingleSpring struct {
	base
	params   SingleSpringParams
	released bool
}

// NewSingleSpring wires the anchor (mass 0) and the free mass (mass 1).
func NewSingleSpring(p SingleSpringParams) (*SingleSpring, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	anchor, err := dynamo.NewMass(p.Mass, p.Env.Gravity, true)
	if err != nil {
		return nil, err
	}
	bob, err := dynamo.NewMass(p.Mass, p.Env.Gravity, false)
	if err != nil {
		return nil, err
	}

	s := dynamo.Spring{A: 0, B: 1, Stiffness: p.Stiffness, RestLength: p.RestLength}
	s.Damping = s.CriticalDamping(p.Mass) * p.DampingRatio

	initial := []dynamo.Vec3{{0, 0, 0}, {0, -p.RestLength, 0}}
	b, err := newBase(KindSingleSpring.String(), p.Env, []dynamo.Mass{anchor, bob}, []dynamo.Spring{s}, initial)
	if err != nil {
		return nil, err
	}
	return &SingleSpring{base: b, params: p}, nil
}

// Reset returns both masses to their initial positions and re-arms the pull.
func (s *SingleSpring) Reset() {
	s.base.Reset()
	s.released = false
}

// Params returns the construction parameters.
func (s *SingleSpring) Params() SingleSpringParams { return s.params }

// Released reports whether the pull phase is over.
func (s *SingleSpring) Released() bool { return s.released }

func (s *SingleSpring) Step(dt float64) error {
	if err := dynamo.CheckTimestep(dt); err != nil {
		return err
	}
	s.net.GatherSpringForces()

	bob := s.net.Mass(1)
	if !s.released && s.params.PullStep > 0 && bob.Position.Y() > s.params.PullLimit {
		bob.Position[1] -= s.params.PullStep
		s.net.ClearForces()
		return nil
	}

	s.released = true
	s.net.AddUniformForces(s.env.AirDrag)
	s.net.Integrate(dt)
	return nil
}
