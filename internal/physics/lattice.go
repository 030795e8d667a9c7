package physics

import (
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
)

// LatticeParams configures a Lattice.
type LatticeParams struct {
	Width, Height, Length int
	Spacing               float64
	Mass                  float64
	Stiffness             float64
	DampingRatio          float64

	// ThresholdFactor scales Spacing into the connection radius. √3 wires
	// edges, face diagonals and body diagonals; 1 wires edges only. Values
	// below 1 are rejected.
	ThresholdFactor float64

	// Tilt rotates the cube about z and then y (radians) so it lands on an
	// edge. Lift raises it after rotation.
	Tilt float64
	Lift float64

	GroundHeight     float64
	PenaltyStiffness float64
	Env              Environment
}

// DefaultLatticeParams is a 7×4×4 jelly cube dropped on a ground at -20.
func DefaultLatticeParams() LatticeParams {
	return LatticeParams{
		Width:            7,
		Height:           4,
		Length:           4,
		Spacing:          1,
		Mass:             0.1,
		Stiffness:        2000,
		DampingRatio:     0.4,
		ThresholdFactor:  math.Sqrt(3),
		Tilt:             math.Pi / 4,
		GroundHeight:     -20,
		PenaltyStiffness: dynamo.DefaultPenaltyStiffness,
		Env:              DefaultEnvironment(),
	}
}

func (p LatticeParams) Validate() error {
	name := KindLattice.String()
	switch {
	case p.Width < 2:
		return invalid(name, "width", p.Width)
	case p.Height < 2:
		return invalid(name, "height", p.Height)
	case p.Length < 2:
		return invalid(name, "length", p.Length)
	}
	return firstErr(
		positive(name, "spacing", p.Spacing),
		positive(name, "mass", p.Mass),
		positive(name, "stiffness", p.Stiffness),
		nonNegative(name, "damping ratio", p.DampingRatio),
		atLeast(name, "threshold factor", p.ThresholdFactor, 1),
		finite(name, "tilt", p.Tilt),
		finite(name, "lift", p.Lift),
		finite(name, "ground height", p.GroundHeight),
		positive(name, "penalty stiffness", p.PenaltyStiffness),
		p.Env.validate(name),
	)
}

// Lattice is a volumetric block of masses wired to every neighbour within
// a distance threshold. Every mass is free and collides with the ground.
type Lattice struct {
	base
	params LatticeParams
	faces  []dynamo.Face
}

func NewLattice(p LatticeParams) (*Lattice, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := p.Width * p.Height * p.Length
	masses := make([]dynamo.Mass, n)
	initial := make([]dynamo.Vec3, n)
	sin, cos := math.Sincos(p.Tilt)
	for i := 0; i < p.Width; i++ {
		for j := 0; j < p.Height; j++ {
			for k := 0; k < p.Length; k++ {
				idx := latticeIndex(p, i, j, k)
				m, err := dynamo.NewMass(p.Mass, p.Env.Gravity, false)
				if err != nil {
					return nil, err
				}
				masses[idx] = m

				x, y, z := float64(i)*p.Spacing, float64(j)*p.Spacing, float64(k)*p.Spacing
				x, y = x*cos-y*sin, x*sin+y*cos
				x, z = x*cos+z*sin, -x*sin+z*cos
				initial[idx] = dynamo.Vec3{x, y + p.Lift, z}
			}
		}
	}

	var springs []dynamo.Spring
	connect(initial, p.ThresholdFactor*p.Spacing, func(a, b int, d float64) {
		s := dynamo.Spring{A: a, B: b, Stiffness: p.Stiffness, RestLength: d}
		s.Damping = s.CriticalDamping(p.Mass) * p.DampingRatio
		springs = append(springs, s)
	})

	b, err := newBase(KindLattice.String(), p.Env, masses, springs, initial)
	if err != nil {
		return nil, err
	}
	b.ground = &dynamo.Ground{Height: p.GroundHeight, Stiffness: p.PenaltyStiffness}

	return &Lattice{base: b, params: p, faces: latticeFaces(p)}, nil
}

func latticeIndex(p LatticeParams, i, j, k int) int {
	return (i*p.Height+j)*p.Length + k
}

// latticeFaces triangulates the six outer faces with outward winding.
func latticeFaces(p LatticeParams) []dynamo.Face {
	idx := func(i, j, k int) int { return latticeIndex(p, i, j, k) }
	var faces []dynamo.Face
	quad := func(a, b, c, d int, flip bool) {
		if flip {
			b, d = d, b
		}
		faces = append(faces, dynamo.Face{a, b, c}, dynamo.Face{a, c, d})
	}

	W, H, L := p.Width, p.Height, p.Length
	for _, i := range []int{0, W - 1} {
		for j := 0; j < H-1; j++ {
			for k := 0; k < L-1; k++ {
				quad(idx(i, j, k), idx(i, j+1, k), idx(i, j+1, k+1), idx(i, j, k+1), i == 0)
			}
		}
	}
	for _, j := range []int{0, H - 1} {
		for k := 0; k < L-1; k++ {
			for i := 0; i < W-1; i++ {
				quad(idx(i, j, k), idx(i, j, k+1), idx(i+1, j, k+1), idx(i+1, j, k), j == 0)
			}
		}
	}
	for _, k := range []int{0, L - 1} {
		for i := 0; i < W-1; i++ {
			for j := 0; j < H-1; j++ {
				quad(idx(i, j, k), idx(i+1, j, k), idx(i+1, j+1, k), idx(i, j+1, k), k == 0)
			}
		}
	}
	return faces
}

func (l *Lattice) Step(dt float64) error {
	return l.advance(dt)
}

// Faces returns the outer surface triangles.
func (l *Lattice) Faces() []dynamo.Face { return l.faces }

// Params returns the construction parameters.
func (l *Lattice) Params() LatticeParams { return l.params }
