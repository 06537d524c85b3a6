package metrics

import "github.com/san-kum/pathsim/internal/walk"

// PathLength is the mean walked distance, in grid units.
type PathLength struct {
	name    string
	total   float64
	samples int
}

func NewPathLength() *PathLength {
	return &PathLength{name: "path_length"}
}

func (m *PathLength) Name() string { return m.name }

func (m *PathLength) Observe(p walk.Path) {
	m.total += Stats(p).Length
	m.samples++
}

func (m *PathLength) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *PathLength) Reset() {
	m.total = 0
	m.samples = 0
}

// Straightness is the mean ratio of direct distance to walked distance.
type Straightness struct {
	name    string
	total   float64
	samples int
}

func NewStraightness() *Straightness {
	return &Straightness{name: "straightness"}
}

func (m *Straightness) Name() string { return m.name }

func (m *Straightness) Observe(p walk.Path) {
	m.total += Stats(p).Straightness
	m.samples++
}

func (m *Straightness) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *Straightness) Reset() {
	m.total = 0
	m.samples = 0
}

// StepCount is the mean number of points per path.
type StepCount struct {
	name    string
	total   int
	samples int
}

func NewStepCount() *StepCount {
	return &StepCount{name: "steps"}
}

func (m *StepCount) Name() string { return m.name }

func (m *StepCount) Observe(p walk.Path) {
	m.total += len(p)
	m.samples++
}

func (m *StepCount) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.total) / float64(m.samples)
}

func (m *StepCount) Reset() {
	m.total = 0
	m.samples = 0
}
