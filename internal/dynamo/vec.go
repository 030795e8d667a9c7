package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is the 3-vector used for all positions, velocities and forces.
type Vec3 = mgl64.Vec3

// Up is the ground plane normal.
var Up = Vec3{0, 1, 0}

// StandardGravity is the default gravitational acceleration.
var StandardGravity = Vec3{0, -9.81, 0}

// Finite reports whether every component of v is a finite number.
func Finite(v Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
