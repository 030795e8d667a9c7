package physics

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/springsim/internal/dynamo"
)

func netOf(m dynamo.Model) *dynamo.Network {
	return m.View().(*dynamo.Network)
}

type snapshot struct {
	pos, vel []dynamo.Vec3
	rest     []float64
}

func capture(m dynamo.Model) snapshot {
	n := netOf(m)
	s := snapshot{}
	for i := 0; i < n.MassCount(); i++ {
		s.pos = append(s.pos, n.Position(i))
		s.vel = append(s.vel, n.Velocity(i))
	}
	for _, sp := range n.Springs() {
		s.rest = append(s.rest, sp.RestLength)
	}
	return s
}

func stepN(m dynamo.Model, n int, dt float64) {
	for i := 0; i < n; i++ {
		Expect(m.Step(dt)).To(Succeed())
	}
}

func weightless() Environment { return Environment{} }

var _ = Describe("every model", func() {
	DescribeTable("reset is deterministic and idempotent",
		func(k Kind) {
			m, err := New(k)
			Expect(err).NotTo(HaveOccurred())
			fresh := capture(m)

			stepN(m, 200, k.DefaultDt())
			m.Reset()
			first := capture(m)
			m.Reset()
			second := capture(m)

			Expect(first).To(Equal(second))
			Expect(first).To(Equal(fresh))
		},
		Entry("single spring", KindSingleSpring),
		Entry("chain", KindChain),
		Entry("lattice", KindLattice),
		Entry("grid", KindGrid),
	)

	DescribeTable("never moves fixed masses",
		func(k Kind, dt float64) {
			m, err := New(k)
			Expect(err).NotTo(HaveOccurred())
			before := capture(m)

			stepN(m, 300, dt)

			v := m.View()
			for i := 0; i < v.MassCount(); i++ {
				if v.IsFixed(i) {
					Expect(v.Position(i)).To(Equal(before.pos[i]))
					Expect(v.Velocity(i)).To(Equal(dynamo.Vec3{}))
				}
			}
		},
		Entry("single spring", KindSingleSpring, 0.015),
		Entry("single spring, large dt", KindSingleSpring, 0.05),
		Entry("chain", KindChain, 0.001),
		Entry("chain, small dt", KindChain, 1e-5),
		Entry("grid", KindGrid, 0.001),
	)

	DescribeTable("leaves every force accumulator empty after a step",
		func(k Kind) {
			m, err := New(k)
			Expect(err).NotTo(HaveOccurred())
			stepN(m, 10, k.DefaultDt())
			for _, mass := range netOf(m).Masses() {
				Expect(mass.Force).To(Equal(dynamo.Vec3{}))
			}
		},
		Entry("single spring", KindSingleSpring),
		Entry("chain", KindChain),
		Entry("lattice", KindLattice),
		Entry("grid", KindGrid),
	)

	DescribeTable("rejects non-positive timesteps without touching state",
		func(k Kind, dt float64) {
			m, err := New(k)
			Expect(err).NotTo(HaveOccurred())
			stepN(m, 5, k.DefaultDt())
			before := capture(m)

			Expect(m.Step(dt)).To(MatchError(dynamo.ErrInvalidTimestep))
			Expect(capture(m)).To(Equal(before))
		},
		Entry("zero", KindChain, 0.0),
		Entry("negative", KindLattice, -0.001),
		Entry("NaN", KindGrid, math.NaN()),
		Entry("zero on single spring", KindSingleSpring, 0.0),
	)
})

var _ = Describe("SingleSpring", func() {
	It("has two masses, one spring and a fixed anchor", func() {
		s, err := NewSingleSpring(DefaultSingleSpringParams())
		Expect(err).NotTo(HaveOccurred())
		v := s.View()
		Expect(v.MassCount()).To(Equal(2))
		Expect(v.SpringCount()).To(Equal(1))
		Expect(v.IsFixed(0)).To(BeTrue())
		Expect(v.IsFixed(1)).To(BeFalse())
	})

	It("damps at 10% of critical", func() {
		s, err := NewSingleSpring(DefaultSingleSpringParams())
		Expect(err).NotTo(HaveOccurred())
		sp := netOf(s).Spring(0)
		Expect(sp.Damping).To(BeNumerically("~", 0.1*2*math.Sqrt(15*0.5), 1e-12))
	})

	It("stays put at rest length without damping, gravity or pull", func() {
		p := DefaultSingleSpringParams()
		p.DampingRatio = 0
		p.PullStep = 0
		p.Env = weightless()
		s, err := NewSingleSpring(p)
		Expect(err).NotTo(HaveOccurred())

		start := s.View().Position(1)
		Expect(s.Step(0.015)).To(Succeed())

		Expect(s.View().Position(1).Sub(start).Len()).To(BeNumerically("<", 1e-12))
	})

	It("pulls down in fixed increments, then oscillates within the pulled amplitude", func() {
		p := DefaultSingleSpringParams()
		s, err := NewSingleSpring(p)
		Expect(err).NotTo(HaveOccurred())
		s.Reset()

		v := s.View()
		Expect(v.Position(1)).To(Equal(dynamo.Vec3{0, -5, 0}))
		Expect(v.Velocity(1)).To(Equal(dynamo.Vec3{}))

		const dt = 0.015
		prev := v.Position(1).Y()
		for steps := 0; ; steps++ {
			Expect(steps).To(BeNumerically("<", 1000))
			Expect(s.Step(dt)).To(Succeed())
			if s.Released() {
				break
			}
			y := v.Position(1).Y()
			Expect(prev - y).To(BeNumerically("~", p.PullStep, 1e-9))
			Expect(v.Velocity(1)).To(Equal(dynamo.Vec3{}))
			prev = y
		}
		releaseY := prev
		Expect(releaseY).To(BeNumerically("<=", p.PullLimit))

		eq := -(p.RestLength + p.Mass*9.81/p.Stiffness)
		upper := 2*eq - releaseY
		for i := 0; i < 3000; i++ {
			Expect(s.Step(dt)).To(Succeed())
			y := v.Position(1).Y()
			Expect(y).To(BeNumerically(">=", releaseY-0.01))
			Expect(y).To(BeNumerically("<=", upper+0.01))
		}
		Expect(v.Position(1).Y()).To(BeNumerically("~", eq, 0.05))
	})

	It("re-arms the pull on reset", func() {
		s, err := NewSingleSpring(DefaultSingleSpringParams())
		Expect(err).NotTo(HaveOccurred())
		stepN(s, 500, 0.015)
		Expect(s.Released()).To(BeTrue())
		s.Reset()
		Expect(s.Released()).To(BeFalse())
	})

	DescribeTable("rejects invalid parameters",
		func(mutate func(*SingleSpringParams)) {
			p := DefaultSingleSpringParams()
			mutate(&p)
			_, err := NewSingleSpring(p)
			Expect(err).To(MatchError(dynamo.ErrInvalidTopology))
		},
		Entry("zero mass", func(p *SingleSpringParams) { p.Mass = 0 }),
		Entry("negative stiffness", func(p *SingleSpringParams) { p.Stiffness = -1 }),
		Entry("negative damping", func(p *SingleSpringParams) { p.DampingRatio = -0.1 }),
		Entry("zero rest length", func(p *SingleSpringParams) { p.RestLength = 0 }),
		Entry("negative air drag", func(p *SingleSpringParams) { p.Env.AirDrag = -1 }),
		Entry("NaN pull limit", func(p *SingleSpringParams) { p.PullLimit = math.NaN() }),
		Entry("infinite pull limit", func(p *SingleSpringParams) { p.PullLimit = math.Inf(-1) }),
	)
})

var _ = Describe("Chain", func() {
	DescribeTable("wires N-1 serial springs",
		func(n int) {
			p := DefaultChainParams()
			p.Count = n
			c, err := NewChain(p)
			Expect(err).NotTo(HaveOccurred())
			v := c.View()
			Expect(v.MassCount()).To(Equal(n))
			Expect(v.SpringCount()).To(Equal(n - 1))
			for j := 0; j < v.SpringCount(); j++ {
				a, b := v.SpringPair(j)
				Expect([]int{a, b}).To(Equal([]int{j, j + 1}))
			}
			Expect(v.IsFixed(0)).To(BeTrue())
			for i := 1; i < n; i++ {
				Expect(v.IsFixed(i)).To(BeFalse())
			}
		},
		Entry("2 masses", 2),
		Entry("default", 11),
		Entry("long", 40),
	)

	It("rejects a single mass", func() {
		p := DefaultChainParams()
		p.Count = 1
		_, err := NewChain(p)
		Expect(err).To(MatchError(dynamo.ErrInvalidTopology))
	})

	It("swings down under gravity", func() {
		c, err := NewChain(DefaultChainParams())
		Expect(err).NotTo(HaveOccurred())
		stepN(c, 1000, 0.001)
		Expect(c.View().Position(10).Y()).To(BeNumerically("<", -1))
	})

	It("does not gain energy when undamped", func() {
		p := DefaultChainParams()
		p.DampingRatio = 0
		p.Env = weightless()
		c, err := NewChain(p)
		Expect(err).NotTo(HaveOccurred())
		netOf(c).Mass(10).Position[0] += 0.3
		netOf(c).Mass(5).Velocity = dynamo.Vec3{0, 1, 0}

		e0 := c.Energy()
		Expect(e0).To(BeNumerically(">", 0))
		for i := 0; i < 5000; i++ {
			Expect(c.Step(0.001)).To(Succeed())
			Expect(c.Energy()).To(BeNumerically("<=", e0*1.05))
		}
	})
})

var _ = Describe("Lattice", func() {
	small := func(factor float64) LatticeParams {
		p := DefaultLatticeParams()
		p.Width, p.Height, p.Length = 2, 2, 2
		p.Tilt = 0
		p.ThresholdFactor = factor
		return p
	}

	It("wires only the 12 edges of a 2×2×2 cube at threshold = spacing", func() {
		l, err := NewLattice(small(1))
		Expect(err).NotTo(HaveOccurred())
		Expect(l.View().MassCount()).To(Equal(8))
		Expect(l.View().SpringCount()).To(Equal(12))
		for _, s := range netOf(l).Springs() {
			Expect(s.RestLength).To(BeNumerically("~", 1, 1e-12))
		}
	})

	It("wires every pair of a 2×2×2 cube at threshold = √3 spacing", func() {
		l, err := NewLattice(small(math.Sqrt(3)))
		Expect(err).NotTo(HaveOccurred())
		Expect(l.View().SpringCount()).To(Equal(28))
	})

	It("uses measured distances as rest lengths so it starts unstressed", func() {
		l, err := NewLattice(DefaultLatticeParams())
		Expect(err).NotTo(HaveOccurred())
		n := netOf(l)
		for _, s := range n.Springs() {
			d := n.Position(s.A).Sub(n.Position(s.B)).Len()
			Expect(s.RestLength).To(Equal(d))
		}
		p := DefaultLatticeParams()
		Expect(n.MassCount()).To(Equal(p.Width * p.Height * p.Length))
	})

	It("has no fixed masses and triangulates its outer surface", func() {
		l, err := NewLattice(DefaultLatticeParams())
		Expect(err).NotTo(HaveOccurred())
		v := l.View()
		for i := 0; i < v.MassCount(); i++ {
			Expect(v.IsFixed(i)).To(BeFalse())
		}
		// 2 triangles per boundary quad: 2*(3*3 + 6*3 + 6*3) per pair of faces
		Expect(l.Faces()).To(HaveLen(2 * 2 * (3*3 + 6*3 + 6*3)))
	})

	It("does not sink through the ground", func() {
		p := small(math.Sqrt(3))
		p.GroundHeight = 0
		p.Lift = 0.5
		l, err := NewLattice(p)
		Expect(err).NotTo(HaveOccurred())

		stepN(l, 20000, 1e-4)

		v := l.View()
		for i := 0; i < v.MassCount(); i++ {
			Expect(v.Position(i).Y()).To(BeNumerically(">", -0.05))
		}
		Expect(l.Ground().Height).To(Equal(0.0))
	})

	It("does not gain energy when undamped", func() {
		p := small(math.Sqrt(3))
		p.DampingRatio = 0
		p.Env = weightless()
		l, err := NewLattice(p)
		Expect(err).NotTo(HaveOccurred())
		netOf(l).Mass(7).Velocity = dynamo.Vec3{0.5, -0.3, 0.2}

		e0 := l.Energy()
		for i := 0; i < 2000; i++ {
			Expect(l.Step(1e-5)).To(Succeed())
			Expect(l.Energy()).To(BeNumerically("<=", e0*1.02))
		}
	})

	DescribeTable("rejects invalid dimensions",
		func(mutate func(*LatticeParams)) {
			p := DefaultLatticeParams()
			mutate(&p)
			_, err := NewLattice(p)
			Expect(err).To(MatchError(dynamo.ErrInvalidTopology))
		},
		Entry("flat", func(p *LatticeParams) { p.Length = 1 }),
		Entry("zero spacing", func(p *LatticeParams) { p.Spacing = 0 }),
		Entry("zero penalty", func(p *LatticeParams) { p.PenaltyStiffness = 0 }),
		Entry("negative mass", func(p *LatticeParams) { p.Mass = -0.1 }),
		Entry("NaN tilt", func(p *LatticeParams) { p.Tilt = math.NaN() }),
		Entry("NaN lift", func(p *LatticeParams) { p.Lift = math.NaN() }),
		Entry("infinite ground", func(p *LatticeParams) { p.GroundHeight = math.Inf(1) }),
		Entry("threshold below spacing", func(p *LatticeParams) { p.ThresholdFactor = 0.5 }),
	)
})

var _ = Describe("Grid", func() {
	sized := func(w, h int, factor float64) GridParams {
		p := DefaultGridParams()
		p.Width, p.Height, p.ThresholdFactor = w, h, factor
		return p
	}

	DescribeTable("wires structural, shear and bend springs",
		func(w, h int, factor float64, want int) {
			g, err := NewGrid(sized(w, h, factor))
			Expect(err).NotTo(HaveOccurred())
			Expect(g.View().MassCount()).To(Equal(w * h))
			Expect(g.View().SpringCount()).To(Equal(want))
		},
		Entry("3×3 structural only", 3, 3, 1.0, 12),
		Entry("3×3 with shear", 3, 3, math.Sqrt2, 20),
		Entry("3×3 with shear and bend", 3, 3, 2.0, 26),
		Entry("4×3 with shear and bend", 4, 3, 2.0, 39),
	)

	It("anchors the two corners of the first row", func() {
		g, err := NewGrid(DefaultGridParams())
		Expect(err).NotTo(HaveOccurred())
		v := g.View()
		fixed := []int{}
		for i := 0; i < v.MassCount(); i++ {
			if v.IsFixed(i) {
				fixed = append(fixed, i)
			}
		}
		Expect(fixed).To(Equal([]int{0, 14}))
		Expect(g.Anchors()).To(Equal([2]int{0, 14}))
		Expect(g.Faces()).To(HaveLen(2 * 14 * 7))
	})

	It("hangs below its anchors", func() {
		g, err := NewGrid(DefaultGridParams())
		Expect(err).NotTo(HaveOccurred())
		stepN(g, 2000, 0.001)
		v := g.View()
		Expect(v.Position(gridIndex(g.Params(), 7, 7)).Y()).To(BeNumerically("<", -1))
	})

	It("rejects a single row", func() {
		_, err := NewGrid(sized(15, 1, 2))
		Expect(err).To(MatchError(dynamo.ErrInvalidTopology))
	})

	DescribeTable("rejects thresholds that cannot reach a neighbour",
		func(factor float64) {
			_, err := NewGrid(sized(3, 3, factor))
			Expect(err).To(MatchError(dynamo.ErrInvalidTopology))
		},
		Entry("half spacing", 0.5),
		Entry("just below spacing", 0.999),
		Entry("NaN", math.NaN()),
		Entry("infinite", math.Inf(1)),
	)
})
