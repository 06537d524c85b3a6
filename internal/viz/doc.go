// Package viz is the terminal path viewer.
//
// It plays a PathSet on a braille [Canvas] inside a Bubble Tea program:
//
//   - [Model]: live viewer for one floor configuration
//   - [NewPresetPicker]: preset menu that opens the viewer
//   - [Canvas]: braille canvas with per-cell color, an anim.Surface
//   - [Recording]: GIF capture of the canvas
//
// # Key Bindings
//
//	N     - New path set
//	+/-   - Playback speed (regenerates)
//	</>   - Path count (regenerates)
//	Space - Pause/Resume
//	[ ]   - Step the cursor back or forward
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show full help
//
// Frames are delivered as tea.Tick messages carrying an anim.Frame. Any
// regeneration or seek invalidates ticks already in flight.
package viz
