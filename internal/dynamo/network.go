package dynamo

import (
	"fmt"
	"math"
)

// Network owns the masses and springs of one model. Both collections are
// allocated once by NewNetwork and never resized, so spring indices stay
// valid for the network's lifetime.
type Network struct {
	masses     []Mass
	springs    []Spring
	degenerate int
}

// NewNetwork copies masses and springs into a fixed arena after validating
// them. name identifies the owning model in errors.
func NewNetwork(name string, masses []Mass, springs []Spring) (*Network, error) {
	if len(masses) == 0 {
		return nil, topologyErr(name, "mass count", 0)
	}
	for i := range masses {
		if !(masses[i].mass > 0) {
			return nil, topologyErr(name, fmt.Sprintf("mass[%d]", i), masses[i].mass)
		}
	}
	for j, s := range springs {
		switch {
		case s.A < 0 || s.A >= len(masses) || s.B < 0 || s.B >= len(masses) || s.A == s.B:
			return nil, topologyErr(name, fmt.Sprintf("spring[%d] endpoints", j), [2]int{s.A, s.B})
		case !(s.Stiffness > 0):
			return nil, topologyErr(name, fmt.Sprintf("spring[%d] stiffness", j), s.Stiffness)
		case !(s.Damping >= 0):
			return nil, topologyErr(name, fmt.Sprintf("spring[%d] damping", j), s.Damping)
		case !(s.RestLength >= 0):
			return nil, topologyErr(name, fmt.Sprintf("spring[%d] rest length", j), s.RestLength)
		}
	}

	n := &Network{
		masses:  make([]Mass, len(masses)),
		springs: make([]Spring, len(springs)),
	}
	copy(n.masses, masses)
	copy(n.springs, springs)
	return n, nil
}

// Masses returns the mass arena. Callers may mutate elements but must not
// reslice or append.
func (n *Network) Masses() []Mass { return n.masses }

// Springs returns the spring arena.
func (n *Network) Springs() []Spring { return n.springs }

// Mass returns a pointer to mass i.
func (n *Network) Mass(i int) *Mass { return &n.masses[i] }

// Spring returns a pointer to spring j.
func (n *Network) Spring(j int) *Spring { return &n.springs[j] }

// GatherSpringForces applies every spring once and returns how many were
// skipped as degenerate.
func (n *Network) GatherSpringForces() int {
	n.degenerate = 0
	for j := range n.springs {
		if !n.springs[j].ApplyForces(n.masses) {
			n.degenerate++
		}
	}
	return n.degenerate
}

// DegenerateSprings returns the number of springs skipped in the last gather.
func (n *Network) DegenerateSprings() int { return n.degenerate }

// AddUniformForces adds standing gravity and linear air drag to every mass.
func (n *Network) AddUniformForces(drag float64) {
	for i := range n.masses {
		m := &n.masses[i]
		m.Force = m.Force.Add(m.StandingGravity).Add(m.Velocity.Mul(-drag))
	}
}

// ResolveCollisions applies the ground penalty to every mass. A nil ground is
// a no-op.
func (n *Network) ResolveCollisions(g *Ground) int {
	if g == nil {
		return 0
	}
	hits := 0
	for i := range n.masses {
		if g.Resolve(&n.masses[i]) {
			hits++
		}
	}
	return hits
}

// Integrate advances every free mass by dt and clears all accumulators.
func (n *Network) Integrate(dt float64) {
	for i := range n.masses {
		n.masses[i].Integrate(dt)
	}
}

// ClearForces zeroes every accumulator without integrating.
func (n *Network) ClearForces() {
	for i := range n.masses {
		n.masses[i].Force = Vec3{}
	}
}

// Energy returns kinetic + elastic + gravitational (+ ground penalty) energy.
func (n *Network) Energy(g *Ground) float64 {
	e := 0.0
	for i := range n.masses {
		m := &n.masses[i]
		e += m.KineticEnergy()
		e -= m.StandingGravity.Dot(m.Position)
		if g != nil {
			e += g.PenaltyEnergy(m)
		}
	}
	for j := range n.springs {
		s := &n.springs[j]
		l := n.masses[s.A].Position.Sub(n.masses[s.B].Position).Len()
		e += s.PotentialEnergy(l)
	}
	return e
}

// EnergyScaleFloor is the smallest reference energy EnergyDrift divides by.
// Systems starting near zero energy report absolute drift.
const EnergyScaleFloor = 1.0

// EnergyDrift is |e-e0| relative to max(|e0|, EnergyScaleFloor).
func EnergyDrift(e0, e float64) float64 {
	return math.Abs(e-e0) / math.Max(math.Abs(e0), EnergyScaleFloor)
}

// EnergyGain is the signed increase e-e0 on the same scale as EnergyDrift.
func EnergyGain(e0, e float64) float64 {
	return (e - e0) / math.Max(math.Abs(e0), EnergyScaleFloor)
}

// Finite reports whether every position and velocity is finite.
func (n *Network) Finite() bool {
	for i := range n.masses {
		if !Finite(n.masses[i].Position) || !Finite(n.masses[i].Velocity) {
			return false
		}
	}
	return true
}

// View implementation.

func (n *Network) MassCount() int      { return len(n.masses) }
func (n *Network) Position(i int) Vec3 { return n.masses[i].Position }
func (n *Network) Velocity(i int) Vec3 { return n.masses[i].Velocity }
func (n *Network) IsFixed(i int) bool  { return n.masses[i].Fixed }
func (n *Network) SpringCount() int    { return len(n.springs) }
func (n *Network) SpringPair(j int) (int, int) {
	return n.springs[j].A, n.springs[j].B
}

func (n *Network) SpringEndpoints(j int) (Vec3, Vec3) {
	s := &n.springs[j]
	return n.masses[s.A].Position, n.masses[s.B].Position
}

// Positions copies every mass position into dst, growing it if needed.
func (n *Network) Positions(dst []Vec3) []Vec3 {
	if cap(dst) < len(n.masses) {
		dst = make([]Vec3, len(n.masses))
	}
	dst = dst[:len(n.masses)]
	for i := range n.masses {
		dst[i] = n.masses[i].Position
	}
	return dst
}
