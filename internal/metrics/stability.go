package metrics

import (
	"github.com/san-kum/springsim/internal/dynamo"
)

// Stability is the fraction of observed steps in which every mass is finite
// and slower than the threshold speed.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(m dynamo.Model, t float64) {
	s.samples++
	v := m.View()
	for i := 0; i < v.MassCount(); i++ {
		vel := v.Velocity(i)
		if !dynamo.Finite(v.Position(i)) || !dynamo.Finite(vel) || vel.Len() > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
