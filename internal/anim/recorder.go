package anim

import "image"

// XY is a surface pixel in wire form.
type XY struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Op is one recorded draw command.
type Op struct {
	Op     string `json:"op"`
	Points []XY   `json:"points,omitempty"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Kind   string `json:"kind,omitempty"`
	Radius int    `json:"radius,omitempty"`
	Color  Color  `json:"color,omitempty"`
}

// Recorder is a Surface that keeps the draw commands of the latest frame.
// Clear discards the previous frame's commands.
type Recorder struct {
	width, height int
	ops           []Op
	clears        int
}

func NewRecorder(width, height int) *Recorder {
	return &Recorder{width: width, height: height}
}

func (r *Recorder) Size() (int, int) { return r.width, r.height }

func (r *Recorder) Resize(width, height int) {
	r.width, r.height = width, height
}

func (r *Recorder) Clear() {
	r.ops = append(r.ops[:0], Op{Op: "clear"})
	r.clears++
}

func (r *Recorder) Polyline(pts []image.Point, c Color) {
	xy := make([]XY, len(pts))
	for i, p := range pts {
		xy[i] = XY{X: p.X, Y: p.Y}
	}
	r.ops = append(r.ops, Op{Op: "polyline", Points: xy, Color: c})
}

func (r *Recorder) Marker(p image.Point, kind MarkerKind, c Color) {
	r.ops = append(r.ops, Op{Op: "marker", X: p.X, Y: p.Y, Kind: kind.String(), Radius: kind.Radius(), Color: c})
}

// Ops returns a copy of the current frame's commands.
func (r *Recorder) Ops() []Op {
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Clears counts frames drawn since creation.
func (r *Recorder) Clears() int { return r.clears }

func (r *Recorder) Count(op, kind string) int {
	n := 0
	for _, o := range r.ops {
		if o.Op == op && (kind == "" || o.Kind == kind) {
			n++
		}
	}
	return n
}
