// Package viz runs a simulation in the terminal with Bubble Tea.
//
// Pixels are drawn with the upper half block "▀": the foreground colour is
// the top pixel and the background colour the bottom one, so every text row
// shows two image rows.
//
//   - [Model]: live view of one [sim.Simulation]
//   - [Canvas]: half-block surface sampled from an *image.RGBA
//   - [PickPreset]: menu for choosing a preset before starting
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to the initial state
//	M     - Trigger a measurement
//	P     - Cycle palettes
//	Tab   - Select parameter, Up/Down tune it by ±5%
//	G     - Toggle GIF recording
//	T     - Cycle chrome themes
//	?     - Show help overlay
//
// # Recording
//
// Recordings index the active palette directly and are written when
// recording stops or the program quits.
package viz
