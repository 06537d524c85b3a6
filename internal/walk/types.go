package walk

import (
	"math"
	"time"
)

// Point is an integer position on the floor grid.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// FloorBounds is the walkable rectangle, in grid units.
type FloorBounds struct {
	Width  int `json:"width" yaml:"width"`
	Length int `json:"length" yaml:"length"`
}

func (b FloorBounds) Valid() bool {
	return b.Width > 0 && b.Length > 0
}

// Clamp limits a continuous position to [0, Width-1] x [0, Length-1].
func (b FloorBounds) Clamp(x, y float64) (float64, float64) {
	return clamp(x, 0, float64(b.Width-1)), clamp(y, 0, float64(b.Length-1))
}

func (b FloorBounds) ClampPoint(p Point) Point {
	x, y := b.Clamp(float64(p.X), float64(p.Y))
	return Point{X: int(x), Y: int(y)}
}

func (b FloorBounds) Contains(p Point) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Length
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// PathPoint is one sampled position along a walk. It is current for
// Duration, starting at StartTime.
type PathPoint struct {
	X         int           `json:"x"`
	Y         int           `json:"y"`
	StartTime time.Time     `json:"startTime"`
	Duration  time.Duration `json:"duration"`
}

func (p PathPoint) Point() Point {
	return Point{X: p.X, Y: p.Y}
}

func (p PathPoint) End() time.Time {
	return p.StartTime.Add(p.Duration)
}

// Path is the ordered sequence of points of one walker, in traversal order.
type Path []PathPoint

func (p Path) Start() Point {
	if len(p) == 0 {
		return Point{}
	}
	return p[0].Point()
}

func (p Path) End() Point {
	if len(p) == 0 {
		return Point{}
	}
	return p[len(p)-1].Point()
}

func (p Path) Points() []Point {
	pts := make([]Point, len(p))
	for i, pp := range p {
		pts[i] = pp.Point()
	}
	return pts
}

// Duration is the simulated time between the first point's start and the
// last point's end.
func (p Path) Duration() time.Duration {
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1].End().Sub(p[0].StartTime)
}

// PathSet is a batch of paths generated together for one animation cycle.
type PathSet []Path

// MaxLen returns the number of points in the longest path.
func (s PathSet) MaxLen() int {
	n := 0
	for _, p := range s {
		if len(p) > n {
			n = len(p)
		}
	}
	return n
}

func (s PathSet) TotalPoints() int {
	n := 0
	for _, p := range s {
		n += len(p)
	}
	return n
}
