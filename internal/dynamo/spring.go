package dynamo

import "math"

// Spring is a linear damped connector between two masses of a Network.
// A and B are indices into the network's mass arena.
type Spring struct {
	A, B int

	RestLength float64
	Stiffness  float64
	Damping    float64

	// Scratch values from the last ApplyForces call.
	Length       float64
	Direction    Vec3
	SpringForce  Vec3
	DampingForce Vec3
}

// CriticalDamping returns the damping coefficient at which a spring of
// stiffness k attached to mass m returns to rest without oscillating.
func CriticalDamping(k, m float64) float64 {
	return 2 * math.Sqrt(k*m)
}

// CriticalDamping returns the critical damping of s for an attached mass m.
func (s *Spring) CriticalDamping(m float64) float64 {
	return CriticalDamping(s.Stiffness, m)
}

// ApplyForces adds the Hookean and axial damping force to both endpoints, equal
// and opposite. It returns false and applies nothing when the endpoints
// coincide.
func (s *Spring) ApplyForces(masses []Mass) bool {
	a, b := &masses[s.A], &masses[s.B]
	d := a.Position.Sub(b.Position)
	s.Length = d.Len()
	if s.Length == 0 {
		s.Direction = Vec3{}
		s.SpringForce = Vec3{}
		s.DampingForce = Vec3{}
		return false
	}
	s.Direction = d.Mul(1 / s.Length)
	s.SpringForce = s.Direction.Mul(-s.Stiffness * (s.Length - s.RestLength))
	s.DampingForce = s.Direction.Mul(-s.Damping * a.Velocity.Sub(b.Velocity).Dot(s.Direction))

	f := s.SpringForce.Add(s.DampingForce)
	a.Force = a.Force.Add(f)
	b.Force = b.Force.Sub(f)
	return true
}

// Rest clears the scratch state and sets the rest length, which is also taken
// as the current length.
func (s *Spring) Rest(length float64) {
	s.RestLength = length
	s.Length = length
	s.Direction = Vec3{}
	s.SpringForce = Vec3{}
	s.DampingForce = Vec3{}
}

// PotentialEnergy returns the elastic energy stored at the given length.
func (s *Spring) PotentialEnergy(length float64) float64 {
	x := length - s.RestLength
	return 0.5 * s.Stiffness * x * x
}
