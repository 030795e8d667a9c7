package dynamo

// DefaultPenaltyStiffness is the ground penalty stiffness used by the lattice.
const DefaultPenaltyStiffness = 50000.0

// Ground is a static horizontal plane resolved with a penalty force. There is
// no hard non-penetration guarantee: heavy loads visibly sink.
type Ground struct {
	Height    float64
	Stiffness float64
}

// NewGround returns a ground plane at height h with the default penalty.
func NewGround(h float64) *Ground {
	return &Ground{Height: h, Stiffness: DefaultPenaltyStiffness}
}

// depth is the signed distance of p above the plane along its normal.
func (g *Ground) depth(p Vec3) float64 {
	return Up.Dot(p.Sub(Vec3{p.X(), g.Height, p.Z()}))
}

// Resolve adds the penalty force to m when it is below the plane and reports
// whether it was.
func (g *Ground) Resolve(m *Mass) bool {
	m.InCollision = m.Position.Y() < g.Height
	if !m.InCollision {
		return false
	}
	d := g.depth(m.Position)
	m.Force = m.Force.Add(Up.Mul(-g.Stiffness * d))
	return true
}

// PenaltyEnergy returns the energy stored in the penalty spring for m.
func (g *Ground) PenaltyEnergy(m *Mass) float64 {
	d := g.depth(m.Position)
	if d >= 0 {
		return 0
	}
	return 0.5 * g.Stiffness * d * d
}
