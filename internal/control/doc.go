// Package control is the input layer shared by the graphical hosts.
//
// It turns key presses and slider drags into [sim.Command] values:
//
//   - [Lookup] maps a host-neutral key name to an [Action]
//   - [Panel] holds one [Slider] per tunable parameter, bounded by
//     [dynamo.Bounds], and converts actions and drags into commands
//   - [Layout] places the sliders on screen and hit-tests the pointer
//
// Hosts translate their own key codes to names, so raylib, Ebiten and the
// browser share one binding table.
package control
