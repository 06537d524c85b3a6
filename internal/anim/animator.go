package anim

import (
	"image"
	"math"
	"time"

	"github.com/san-kum/pathsim/internal/walk"
)

const (
	DefaultSpeed = 50.0
	MinSpeed     = 1.0
	MaxSpeed     = 100.0
)

type State int

const (
	Idle State = iota
	Animating
	Complete
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Animating:
		return "animating"
	case Complete:
		return "complete"
	}
	return "unknown"
}

// Frame identifies one scheduled draw: the cursor to draw at, within the
// PathSet generation that scheduled it.
type Frame struct {
	Generation uint64 `json:"generation"`
	Cursor     int    `json:"cursor"`
}

// ClampSpeed limits a speed setting to [MinSpeed, MaxSpeed].
func ClampSpeed(speed float64) float64 {
	if math.IsNaN(speed) || speed < MinSpeed {
		return MinSpeed
	}
	if speed > MaxSpeed {
		return MaxSpeed
	}
	return speed
}

// Interval is the delay between frames at the given speed (frames per second).
func Interval(speed float64) time.Duration {
	return time.Duration(float64(time.Second) / ClampSpeed(speed))
}

// Animator is the playback state of one PathSet. It does no scheduling of its
// own and is not safe for concurrent use.
type Animator struct {
	floor  walk.FloorBounds
	paths  walk.PathSet
	colors []Color
	maxLen int
	gen    uint64
	cursor int
	state  State
}

func New(floor walk.FloorBounds) *Animator {
	return &Animator{floor: floor}
}

// Load replaces the PathSet, resets the cursor and returns the first frame.
// Frames issued for the previous PathSet become stale.
func (a *Animator) Load(paths walk.PathSet) Frame {
	a.paths = paths
	a.colors = Palette(len(paths))
	a.maxLen = paths.MaxLen()
	a.state = Animating
	return a.restart(0)
}

// SetFloor changes the projection used for the next frames. Hosts regenerate
// the PathSet afterwards.
func (a *Animator) SetFloor(floor walk.FloorBounds) {
	a.floor = floor
}

// Step draws frame f and returns the frame to schedule next. ok is false when
// f is stale, nothing is loaded, or f was the last frame; in the last case the
// animator moves to Complete and the surface keeps the final drawing.
func (a *Animator) Step(f Frame, s Surface) (next Frame, ok bool) {
	if a.state != Animating || f.Generation != a.gen {
		return Frame{}, false
	}
	a.cursor = f.Cursor
	a.draw(s, f.Cursor)
	if f.Cursor >= a.maxLen {
		a.state = Complete
		return Frame{}, false
	}
	return Frame{Generation: a.gen, Cursor: f.Cursor + 1}, true
}

// Seek moves the cursor within [0, MaxLen] and returns a frame for it,
// invalidating frames scheduled before the seek.
func (a *Animator) Seek(cursor int) Frame {
	if a.state == Idle {
		return Frame{}
	}
	if cursor < 0 {
		cursor = 0
	}
	if cursor > a.maxLen {
		cursor = a.maxLen
	}
	a.state = Animating
	return a.restart(cursor)
}

// Resume reissues the current cursor under a new generation.
func (a *Animator) Resume() Frame {
	return a.Seek(a.cursor)
}

// Draw renders the current cursor without advancing playback.
func (a *Animator) Draw(s Surface) {
	if a.state == Idle {
		return
	}
	a.draw(s, a.cursor)
}

func (a *Animator) restart(cursor int) Frame {
	a.gen++
	a.cursor = cursor
	return Frame{Generation: a.gen, Cursor: cursor}
}

func (a *Animator) State() State            { return a.state }
func (a *Animator) Cursor() int             { return a.cursor }
func (a *Animator) MaxLen() int             { return a.maxLen }
func (a *Animator) Generation() uint64      { return a.gen }
func (a *Animator) Paths() walk.PathSet     { return a.paths }
func (a *Animator) Colors() []Color         { return a.colors }
func (a *Animator) Floor() walk.FloorBounds { return a.floor }

// Progress is the cursor as a fraction of the longest path.
func (a *Animator) Progress() float64 {
	if a.maxLen == 0 {
		if a.state == Complete {
			return 1
		}
		return 0
	}
	p := float64(a.cursor) / float64(a.maxLen)
	if p > 1 {
		return 1
	}
	return p
}

func (a *Animator) draw(s Surface, cursor int) {
	if s == nil || !a.floor.Valid() {
		return
	}
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	sx := float64(w) / float64(a.floor.Width)
	sy := float64(h) / float64(a.floor.Length)
	project := func(p walk.PathPoint) image.Point {
		return image.Pt(int(float64(p.X)*sx), int(float64(p.Y)*sy))
	}

	s.Clear()
	for i, path := range a.paths {
		if len(path) == 0 {
			continue
		}
		color := a.colors[i]
		last := min(cursor, len(path)-1)

		pts := make([]image.Point, last+1)
		for j := 0; j <= last; j++ {
			pts[j] = project(path[j])
		}
		s.Polyline(pts, color)
		s.Marker(pts[0], MarkerStart, StartColor)

		if cursor < len(path) {
			s.Marker(pts[last], MarkerCurrent, color)
		}
		if cursor >= len(path)-1 {
			s.Marker(project(path[len(path)-1]), MarkerArrived, ArrivedColor)
		}
	}
}
