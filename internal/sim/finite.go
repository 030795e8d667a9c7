package sim

import "github.com/san-kum/springsim/internal/dynamo"

type finiteChecker interface {
	Finite() bool
}

// Finite reports whether every position and velocity in v is finite.
func Finite(v dynamo.View) bool {
	if f, ok := v.(finiteChecker); ok {
		return f.Finite()
	}
	for i := 0; i < v.MassCount(); i++ {
		if !dynamo.Finite(v.Position(i)) || !dynamo.Finite(v.Velocity(i)) {
			return false
		}
	}
	return true
}

func energyOf(m dynamo.Model) (float64, bool) {
	if h, ok := m.(dynamo.Hamiltonian); ok {
		return h.Energy(), true
	}
	return 0, false
}
