package metrics

import "github.com/san-kum/pathsim/internal/walk"

// Detour is the fraction of paths whose straightness falls below threshold.
type Detour struct {
	name      string
	threshold float64
	detours   int
	samples   int
}

func NewDetour(threshold float64) *Detour {
	return &Detour{
		name:      "detour_rate",
		threshold: threshold,
	}
}

func (d *Detour) Name() string {
	return d.name
}

func (d *Detour) Observe(p walk.Path) {
	if Stats(p).Straightness < d.threshold {
		d.detours++
	}
	d.samples++
}

func (d *Detour) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return float64(d.detours) / float64(d.samples)
}

func (d *Detour) Reset() {
	d.detours = 0
	d.samples = 0
}
