package dynamo

// View is the read-only state a renderer may inspect between steps.
type View interface {
	MassCount() int
	Position(i int) Vec3
	Velocity(i int) Vec3
	IsFixed(i int) bool
	SpringCount() int
	SpringPair(j int) (a, b int)
	SpringEndpoints(j int) (a, b Vec3)
	Positions(dst []Vec3) []Vec3
}

// Model is one simulated topology. Reset must be deterministic and idempotent;
// Step rejects non-positive timesteps with ErrInvalidTimestep.
type Model interface {
	Name() string
	Reset()
	Step(dt float64) error
	View() View
}

// Hamiltonian is implemented by models that can report total energy.
type Hamiltonian interface {
	Energy() float64
}

// DegenerateCounter is implemented by models that report springs skipped in
// the last step because their endpoints coincided.
type DegenerateCounter interface {
	DegenerateSprings() int
}

// Face is a surface triangle given by three mass indices.
type Face [3]int

// Surface is implemented by models with a triangulated surface to render.
type Surface interface {
	Faces() []Face
}

// Grounded is implemented by models that collide with a ground plane.
type Grounded interface {
	Ground() *Ground
}
