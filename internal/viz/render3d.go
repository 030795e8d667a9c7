package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
)

// Camera orbits a fitted scene and projects it with a simple perspective.
type Camera struct {
	Yaw, Pitch, Roll float64
	Zoom             float64
	Distance         float64

	center dynamo.Vec3
	scale  float64
}

func NewCamera() *Camera {
	c := &Camera{scale: 1}
	c.ResetView()
	return c
}

// ResetView restores the default orientation and zoom, keeping the fit.
func (c *Camera) ResetView() {
	c.Yaw, c.Pitch, c.Roll = -0.5, 0.3, 0
	c.Zoom = 1
	c.Distance = 4
}

func (c *Camera) RotateX(a float64) { c.Pitch += a }
func (c *Camera) RotateY(a float64) { c.Yaw += a }
func (c *Camera) RotateZ(a float64) { c.Roll += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Fit centres the camera on the box [lo, hi] and scales it into the unit
// sphere.
func (c *Camera) Fit(lo, hi dynamo.Vec3) {
	c.center = lo.Add(hi).Mul(0.5)
	r := hi.Sub(lo).Len() / 2
	if r <= 0 {
		r = 1
	}
	c.scale = 1 / r
}

func (c *Camera) rotation() mgl64.Mat3 {
	return mgl64.Rotate3DZ(c.Roll).Mul3(mgl64.Rotate3DX(c.Pitch)).Mul3(mgl64.Rotate3DY(c.Yaw))
}

// Project maps a world point to pixel coordinates of a w×h surface.
// Points behind the near plane are reported invisible.
func (c *Camera) Project(p dynamo.Vec3, w, h int) (x, y int, depth float64, ok bool) {
	return c.project(c.rotation(), p, w, h)
}

func (c *Camera) project(rot mgl64.Mat3, p dynamo.Vec3, w, h int) (int, int, float64, bool) {
	if !dynamo.Finite(p) {
		return 0, 0, 0, false
	}
	q := rot.Mul3x1(p.Sub(c.center).Mul(c.scale * c.Zoom))
	d := c.Distance - q.Z()
	if d < 0.1 {
		return 0, 0, 0, false
	}
	s := c.Distance / d * float64(min(w, h)) * 0.45
	return int(q.X()*s) + w/2, int(-q.Y()*s) + h/2, q.Z(), true
}

// SceneBounds returns a box that contains everywhere the model's masses are
// expected to travel: the initial layout, a swing radius around each fixed
// mass, the ground plane and the pull limit of a single spring.
func SceneBounds(m dynamo.Model) (lo, hi dynamo.Vec3) {
	v := m.View()
	if v.MassCount() == 0 {
		return dynamo.Vec3{-1, -1, -1}, dynamo.Vec3{1, 1, 1}
	}

	lo, hi = v.Position(0), v.Position(0)
	include := func(p dynamo.Vec3) {
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], p[k])
			hi[k] = math.Max(hi[k], p[k])
		}
	}
	for i := 0; i < v.MassCount(); i++ {
		include(v.Position(i))
	}

	for i := 0; i < v.MassCount(); i++ {
		if !v.IsFixed(i) {
			continue
		}
		f, reach := v.Position(i), 0.0
		for j := 0; j < v.MassCount(); j++ {
			reach = math.Max(reach, v.Position(j).Sub(f).Len())
		}
		include(f.Sub(dynamo.Vec3{reach, reach, reach}))
		include(f.Add(dynamo.Vec3{reach, 0, reach}))
	}

	if g, ok := m.(dynamo.Grounded); ok && g.Ground() != nil {
		include(dynamo.Vec3{lo.X(), g.Ground().Height, lo.Z()})
	}
	if s, ok := m.(*physics.SingleSpring); ok {
		include(dynamo.Vec3{0, s.Params().PullLimit, 0})
	}
	return lo, hi
}

// Render draws every spring as a line and every mass as a dot. Fixed masses
// are drawn larger. A grounded model also gets its ground outline.
func Render(c *Canvas, m dynamo.Model, cam *Camera) {
	w, h := c.Pixels()
	rot := cam.rotation()
	v := m.View()

	if g, ok := m.(dynamo.Grounded); ok && g.Ground() != nil {
		drawGround(c, cam, rot, g.Ground().Height, w, h)
	}

	for j := 0; j < v.SpringCount(); j++ {
		a, b := v.SpringEndpoints(j)
		drawSegment(c, cam, rot, a, b, w, h)
	}

	for i := 0; i < v.MassCount(); i++ {
		x, y, _, ok := cam.project(rot, v.Position(i), w, h)
		if !ok {
			continue
		}
		if v.IsFixed(i) {
			c.Dot(x, y, 2)
		} else {
			c.Dot(x, y, 1)
		}
	}
}

func drawGround(c *Canvas, cam *Camera, rot mgl64.Mat3, height float64, w, h int) {
	span := 1.5 / cam.scale
	cx, cz := cam.center.X(), cam.center.Z()
	const lines = 6
	for i := 0; i <= lines; i++ {
		t := -span + 2*span*float64(i)/lines
		segs := [2][2]dynamo.Vec3{
			{{cx + t, height, cz - span}, {cx + t, height, cz + span}},
			{{cx - span, height, cz + t}, {cx + span, height, cz + t}},
		}
		for _, s := range segs {
			drawSegment(c, cam, rot, s[0], s[1], w, h)
		}
	}
}

// drawSegment skips segments with an endpoint far off the surface so a
// diverged model cannot stall Bresenham.
func drawSegment(c *Canvas, cam *Camera, rot mgl64.Mat3, a, b dynamo.Vec3, w, h int) {
	x0, y0, _, ok0 := cam.project(rot, a, w, h)
	x1, y1, _, ok1 := cam.project(rot, b, w, h)
	if !ok0 || !ok1 {
		return
	}
	limit := 4 * max(w, h)
	for _, v := range [4]int{x0, y0, x1, y1} {
		if v < -limit || v > limit {
			return
		}
	}
	c.DrawLine(x0, y0, x1, y1)
}
