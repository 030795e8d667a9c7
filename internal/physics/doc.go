// Package physics builds the mass-spring topologies simulated by springsim.
//
// Each model owns a [dynamo.Network] wired once at construction and
// implements [dynamo.Model]:
//
//   - [SingleSpring]: one mass hanging from a fixed anchor, pulled then released
//   - [Chain]: a serial pendulum of N masses pinned at one end
//   - [Lattice]: a W×H×L "jelly cube" wired by proximity, colliding with the ground
//   - [Grid]: a W×H cloth with structural, shear and bend springs, hung from two corners
//
// All models also implement [dynamo.Hamiltonian] for energy monitoring and
// [dynamo.DegenerateCounter]; Lattice and Grid implement [dynamo.Surface].
//
// Damping is configured as a ratio of critical damping rather than a raw
// coefficient:
//
//	p := physics.DefaultChainParams()
//	p.DampingRatio = 0 // undamped
//	chain, err := physics.NewChain(p)
//
// # Stability
//
// Integration is explicit, so stability is the caller's responsibility: dt
// must stay well below 2/ω for the stiffest spring. [Kind.DefaultDt] returns an
// empirically safe timestep for each default configuration.
package physics
