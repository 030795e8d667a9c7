// Package dynamo provides the core primitives of the mass-spring engine.
//
// The package defines the state records and force laws shared by every
// topology:
//
//   - [Mass]: point mass with position, velocity and a force accumulator
//   - [Spring]: linear damped connector between two masses of a [Network]
//   - [Network]: fixed-capacity arena owning the masses and springs of a model
//   - [Ground]: horizontal penalty plane
//   - [Model]: capability set {Reset, Step, View} implemented by each topology
//
// # Stepping
//
// A step is two-phase. All forces are gathered first (springs, gravity, drag,
// collision), then every free mass is integrated with semi-implicit Euler and
// every accumulator is cleared:
//
//	n := net.GatherSpringForces()
//	net.AddUniformForces(drag)
//	net.ResolveCollisions(ground)
//	net.Integrate(dt)
//
// Springs refer to masses by index into the network arena, never by address,
// and a network cannot grow or shrink after construction.
//
// # Thread Safety
//
// Networks and models are NOT thread-safe. Each model is stepped from a single
// goroutine; independent models may run concurrently (see sim.Sweep).
package dynamo
