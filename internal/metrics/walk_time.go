package metrics

import "github.com/san-kum/pathsim/internal/walk"

// WalkTime is the mean simulated walking time, in seconds.
type WalkTime struct {
	name    string
	sum     float64
	samples int
}

func NewWalkTime() *WalkTime {
	return &WalkTime{name: "walk_time"}
}

func (w *WalkTime) Name() string {
	return w.name
}

func (w *WalkTime) Observe(p walk.Path) {
	w.sum += p.Duration().Seconds()
	w.samples++
}

func (w *WalkTime) Value() float64 {
	if w.samples == 0 {
		return 0
	}
	return w.sum / float64(w.samples)
}

func (w *WalkTime) Reset() {
	w.sum = 0
	w.samples = 0
}
