package physics

import "github.com/san-kum/springsim/internal/dynamo"

// ChainParams configures a Chain.
type ChainParams struct {
	Count        int
	Mass         float64
	Stiffness    float64
	RestLength   float64
	DampingRatio float64
	Env          Environment
}

// DefaultChainParams is an 11-mass chain damped at 25% of critical.
func DefaultChainParams() ChainParams {
	return ChainParams{
		Count:        11,
		Mass:         0.5,
		Stiffness:    100,
		RestLength:   1.5,
		DampingRatio: 0.25,
		Env:          DefaultEnvironment(),
	}
}

func (p ChainParams) Validate() error {
	name := KindChain.String()
	if p.Count < 2 {
		return invalid(name, "mass count", p.Count)
	}
	return firstErr(
		positive(name, "mass", p.Mass),
		positive(name, "stiffness", p.Stiffness),
		nonNegative(name, "rest length", p.RestLength),
		nonNegative(name, "damping ratio", p.DampingRatio),
		p.Env.validate(name),
	)
}

// Chain is a serial pendulum: Count masses joined by Count-1 springs, pinned
// at mass 0. It starts horizontal so it swings down under gravity.
type Chain struct {
	base
	params ChainParams
}

func NewChain(p ChainParams) (*Chain, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	masses := make([]dynamo.Mass, p.Count)
	initial := make([]dynamo.Vec3, p.Count)
	for i := range masses {
		m, err := dynamo.NewMass(p.Mass, p.Env.Gravity, i == 0)
		if err != nil {
			return nil, err
		}
		masses[i] = m
		initial[i] = dynamo.Vec3{float64(i) * p.RestLength, 0, 0}
	}

	springs := make([]dynamo.Spring, p.Count-1)
	for i := range springs {
		s := dynamo.Spring{A: i, B: i + 1, Stiffness: p.Stiffness, RestLength: p.RestLength}
		s.Damping = s.CriticalDamping(p.Mass) * p.DampingRatio
		springs[i] = s
	}

	b, err := newBase(KindChain.String(), p.Env, masses, springs, initial)
	if err != nil {
		return nil, err
	}
	return &Chain{base: b, params: p}, nil
}

func (c *Chain) Step(dt float64) error {
	return c.advance(dt)
}

// Params returns the construction parameters.
func (c *Chain) Params() ChainParams { return c.params }
