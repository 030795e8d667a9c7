package dynamo

// Mass is a point-mass state record.
//
// Force is the per-step accumulator: it is only meaningful between the start
// of a step's force-gathering phase and the integration that clears it.
type Mass struct {
	Position     Vec3
	Velocity     Vec3
	Acceleration Vec3
	Force        Vec3

	// StandingGravity is mass*g, kept in sync by SetMass.
	StandingGravity Vec3

	Fixed       bool
	InCollision bool

	mass float64
}

// NewMass returns a mass of value m under gravitational acceleration g.
func NewMass(m float64, g Vec3, fixed bool) (Mass, error) {
	p := Mass{Fixed: fixed}
	if err := p.SetMass(m, g); err != nil {
		return Mass{}, err
	}
	return p, nil
}

// Value returns the scalar mass.
func (m *Mass) Value() float64 { return m.mass }

// SetMass changes the scalar mass and recomputes the standing gravity force.
func (m *Mass) SetMass(value float64, g Vec3) error {
	if !(value > 0) {
		return topologyErr("mass", "mass", value)
	}
	m.mass = value
	m.StandingGravity = g.Mul(value)
	return nil
}

// Place puts the mass at p at rest with an empty accumulator.
func (m *Mass) Place(p Vec3) {
	m.Position = p
	m.Velocity = Vec3{}
	m.Acceleration = Vec3{}
	m.Force = Vec3{}
	m.InCollision = false
}

// Integrate advances the mass by dt with semi-implicit Euler and clears the
// force accumulator. Fixed masses only have their accumulator cleared.
func (m *Mass) Integrate(dt float64) {
	if m.Fixed {
		m.Velocity = Vec3{}
		m.Force = Vec3{}
		return
	}
	m.Acceleration = m.Force.Mul(1 / m.mass)
	// velocity must be updated before position
	m.Velocity = m.Velocity.Add(m.Acceleration.Mul(dt))
	m.Position = m.Position.Add(m.Velocity.Mul(dt))
	m.Force = Vec3{}
}

// KineticEnergy returns 1/2 m v².
func (m *Mass) KineticEnergy() float64 {
	return 0.5 * m.mass * m.Velocity.Dot(m.Velocity)
}
