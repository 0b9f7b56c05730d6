// Package dynamo defines the shared contracts between the field solvers, the
// simulation object and its hosts.
//
//   - [Field]: read-only view of a solver's current grid
//   - [Solver]: steppable field with source injection and reset
//   - [Collapser]: solvers that support a one-shot measurement collapse
//   - [Configurable]: named float parameters, clamped to [Bounds]
//   - [Metric]: per-tick observer of a field
//
// # Example
//
//	s, _ := wave.New(wave.DefaultConfig())
//	for i := 0; i < 100; i++ {
//		s.Tick()
//	}
//	fmt.Println(s.Magnitude(64, 32))
//
// # Thread Safety
//
// Solvers are NOT thread-safe. A single goroutine owns a solver; other
// goroutines talk to it through sim.Simulation commands.
package dynamo
