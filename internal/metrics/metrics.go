package metrics

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/pathsim/internal/walk"
)

// Metric accumulates one statistic over the paths it observes.
type Metric interface {
	Name() string
	Observe(p walk.Path)
	Value() float64
	Reset()
}

// PathStats summarizes a single walk.
type PathStats struct {
	Steps        int
	Length       float64
	Direct       float64
	Straightness float64
	WalkTime     time.Duration
}

func Stats(p walk.Path) PathStats {
	s := PathStats{Steps: len(p), WalkTime: p.Duration()}
	if len(p) == 0 {
		return s
	}
	for i := 1; i < len(p); i++ {
		s.Length += distance(p[i-1].Point(), p[i].Point())
	}
	s.Direct = distance(p.Start(), p.End())
	if s.Length > 0 {
		s.Straightness = s.Direct / s.Length
	} else {
		s.Straightness = 1
	}
	return s
}

func distance(a, b walk.Point) float64 {
	return mgl64.Vec2{float64(b.X - a.X), float64(b.Y - a.Y)}.Len()
}

// Default returns the metrics recorded with every run.
func Default() []Metric {
	return []Metric{
		NewPathLength(),
		NewStraightness(),
		NewWalkTime(),
		NewStepCount(),
		NewDetour(0.75),
	}
}

// Evaluate observes every path of set with each metric and returns their
// values keyed by name. Metrics are reset first.
func Evaluate(set walk.PathSet, ms ...Metric) map[string]float64 {
	if len(ms) == 0 {
		ms = Default()
	}
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for _, p := range set {
			m.Observe(p)
		}
		out[m.Name()] = m.Value()
	}
	return out
}
