package metrics

import (
	"github.com/san-kum/springsim/internal/dynamo"
)

// DegenerateSprings is the peak number of zero-length springs skipped in a
// single step.
type DegenerateSprings struct {
	name string
	peak int
}

func NewDegenerateSprings() *DegenerateSprings {
	return &DegenerateSprings{name: "degenerate_springs"}
}

func (d *DegenerateSprings) Name() string {
	return d.name
}

func (d *DegenerateSprings) Observe(m dynamo.Model, t float64) {
	if c, ok := m.(dynamo.DegenerateCounter); ok {
		d.peak = max(d.peak, c.DegenerateSprings())
	}
}

func (d *DegenerateSprings) Value() float64 {
	return float64(d.peak)
}

func (d *DegenerateSprings) Reset() {
	d.peak = 0
}
