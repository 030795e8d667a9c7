package physics

import "github.com/san-kum/springsim/internal/dynamo"

// GridParams configures a Grid.
type GridParams struct {
	Width, Height int
	Spacing       float64
	Mass          float64
	Stiffness     float64
	DampingRatio  float64

	// ThresholdFactor scales Spacing into the connection radius, at least 1.
	// 1 wires structural neighbours only, √2 adds shear diagonals and 2 adds
	// straight bend springs.
	ThresholdFactor float64

	Env Environment
}

// DefaultGridParams is a 15×8 cloth lying flat, hung from its first row's
// corners.
func DefaultGridParams() GridParams {
	return GridParams{
		Width:           15,
		Height:          8,
		Spacing:         1,
		Mass:            0.1,
		Stiffness:       100,
		DampingRatio:    0.3,
		ThresholdFactor: 2,
		Env:             DefaultEnvironment(),
	}
}

func (p GridParams) Validate() error {
	name := KindGrid.String()
	switch {
	case p.Width < 2:
		return invalid(name, "width", p.Width)
	case p.Height < 2:
		return invalid(name, "height", p.Height)
	}
	return firstErr(
		positive(name, "spacing", p.Spacing),
		positive(name, "mass", p.Mass),
		positive(name, "stiffness", p.Stiffness),
		nonNegative(name, "damping ratio", p.DampingRatio),
		atLeast(name, "threshold factor", p.ThresholdFactor, 1),
		p.Env.validate(name),
	)
}

// Grid is a cloth of Width×Height masses in the x–z plane. Mass (i, j) sits
// at index j*Width+i; the two corners of row 0 are anchors.
type Grid struct {
	base
	params  GridParams
	anchors [2]int
	faces   []dynamo.Face
}

func NewGrid(p GridParams) (*Grid, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	anchors := [2]int{gridIndex(p, 0, 0), gridIndex(p, p.Width-1, 0)}
	n := p.Width * p.Height
	masses := make([]dynamo.Mass, n)
	initial := make([]dynamo.Vec3, n)
	for j := 0; j < p.Height; j++ {
		for i := 0; i < p.Width; i++ {
			idx := gridIndex(p, i, j)
			fixed := idx == anchors[0] || idx == anchors[1]
			m, err := dynamo.NewMass(p.Mass, p.Env.Gravity, fixed)
			if err != nil {
				return nil, err
			}
			masses[idx] = m
			initial[idx] = dynamo.Vec3{float64(i) * p.Spacing, 0, float64(j) * p.Spacing}
		}
	}

	var springs []dynamo.Spring
	connect(initial, p.ThresholdFactor*p.Spacing, func(a, b int, d float64) {
		s := dynamo.Spring{A: a, B: b, Stiffness: p.Stiffness, RestLength: d}
		s.Damping = s.CriticalDamping(p.Mass) * p.DampingRatio
		springs = append(springs, s)
	})

	b, err := newBase(KindGrid.String(), p.Env, masses, springs, initial)
	if err != nil {
		return nil, err
	}

	g := &Grid{base: b, params: p, anchors: anchors}
	for j := 0; j < p.Height-1; j++ {
		for i := 0; i < p.Width-1; i++ {
			a, c := gridIndex(p, i, j), gridIndex(p, i+1, j+1)
			g.faces = append(g.faces,
				dynamo.Face{a, gridIndex(p, i, j+1), c},
				dynamo.Face{a, c, gridIndex(p, i+1, j)},
			)
		}
	}
	return g, nil
}

func gridIndex(p GridParams, i, j int) int {
	return j*p.Width + i
}

func (g *Grid) Step(dt float64) error {
	return g.advance(dt)
}

// Anchors returns the indices of the two fixed masses.
func (g *Grid) Anchors() [2]int { return g.anchors }

// Faces returns two triangles per grid cell.
func (g *Grid) Faces() []dynamo.Face { return g.faces }

// Params returns the construction parameters.
func (g *Grid) Params() GridParams { return g.params }
