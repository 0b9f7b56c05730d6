// Package analysis extracts interference measurements from a screen profile.
//
//   - [Profile]: |a|² along one row of a field
//   - [PowerSpectrum]: magnitude spectrum of a real profile
//   - [FringeSpacing]: dominant fringe period in cells
//   - [Visibility]: (Imax-Imin)/(Imax+Imin) over the lit part of the screen
//
// # Example
//
//	p := analysis.Profile(solver, 100)
//	s := analysis.Analyze(p)
//	fmt.Printf("spacing %.1f cells, visibility %.2f\n", s.Spacing, s.Visibility)
package analysis
