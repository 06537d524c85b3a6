// Package anim replays a [walk.PathSet] frame by frame onto a 2D surface.
//
// An [Animator] holds the playback state: the loaded paths, one cursor shared
// by every path, and a generation counter. Each scheduled frame carries a
// [Frame] token; a token from an older generation is ignored, which is how a
// regeneration cancels frames that are already in flight.
//
// Hosts decide how frames are scheduled. The terminal viewer wraps tokens in
// bubbletea tick messages; [Loop] schedules them on a [Clock] for surfaces
// that are not driven by an event loop, such as the websocket server.
package anim
