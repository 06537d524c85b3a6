package walk

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultStepLength      = 3.0
	DefaultStepDuration    = 500 * time.Millisecond
	DefaultDurationJitter  = 50 * time.Millisecond
	DefaultPathVariance    = 0.2
	DefaultIterationFactor = 4
)

// Params tunes the random-walk step function.
type Params struct {
	StepLength      float64
	StepDuration    time.Duration
	DurationJitter  time.Duration
	PathVariance    float64
	IterationFactor int
}

func DefaultParams() Params {
	return Params{
		StepLength:      DefaultStepLength,
		StepDuration:    DefaultStepDuration,
		DurationJitter:  DefaultDurationJitter,
		PathVariance:    DefaultPathVariance,
		IterationFactor: DefaultIterationFactor,
	}
}

// normalized replaces unusable values with defaults.
func (p Params) normalized() Params {
	d := DefaultParams()
	if p.StepLength <= 0 || math.IsNaN(p.StepLength) || math.IsInf(p.StepLength, 0) {
		p.StepLength = d.StepLength
	}
	if p.StepDuration <= 0 {
		p.StepDuration = d.StepDuration
	}
	if p.DurationJitter < 0 {
		p.DurationJitter = 0
	}
	if p.PathVariance < 0 || math.IsNaN(p.PathVariance) {
		p.PathVariance = 0
	}
	if p.IterationFactor <= 0 {
		p.IterationFactor = d.IterationFactor
	}
	return p
}

// MaxStep is the largest distance a single perturbed step can cover.
func (p Params) MaxStep() float64 {
	return p.StepLength * (1 + p.PathVariance)
}

type Generator struct {
	bounds FloorBounds
	params Params
	seed   int64
	rng    *rand.Rand
	clock  func() time.Time
}

type Option func(*Generator)

func WithParams(p Params) Option {
	return func(g *Generator) {
		g.params = p.normalized()
	}
}

func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithClock sets the origin used for the first point's StartTime.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.clock = now
	}
}

func NewGenerator(bounds FloorBounds, opts ...Option) *Generator {
	g := &Generator{
		bounds: bounds,
		params: DefaultParams(),
		seed:   time.Now().UnixNano(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.rng = rand.New(rand.NewSource(g.seed))
	return g
}

func (g *Generator) Bounds() FloorBounds { return g.bounds }
func (g *Generator) Params() Params      { return g.params }
func (g *Generator) Seed() int64         { return g.seed }

// GenerateWalkingPath walks from start toward end with a perturbed fixed-length
// step until both axes are within one step of end, then appends end itself.
// The walk is capped at IterationCap steps; a walk that stalls is still
// terminated by the exact end point. An invalid floor yields a nil path.
func (g *Generator) GenerateWalkingPath(start, end Point) Path {
	if !g.bounds.Valid() {
		return nil
	}
	start = g.bounds.ClampPoint(start)
	end = g.bounds.ClampPoint(end)

	pos := mgl64.Vec2{float64(start.X), float64(start.Y)}
	target := mgl64.Vec2{float64(end.X), float64(end.Y)}
	step := g.params.StepLength
	spread := g.params.PathVariance * step / 2
	limit := g.IterationCap(start, end)

	now := g.clock()
	direct := int(math.Ceil(target.Sub(pos).Len() / step))
	path := make(Path, 0, direct+1)

	for i := 0; i < limit && !within(pos, target, step); i++ {
		delta := target.Sub(pos).Normalize().Mul(step)
		delta[0] += g.uniform(-spread, spread)
		delta[1] += g.uniform(-spread, spread)

		pos = pos.Add(delta)
		pos[0], pos[1] = g.bounds.Clamp(pos[0], pos[1])

		pt := PathPoint{
			X:         int(math.Round(pos[0])),
			Y:         int(math.Round(pos[1])),
			StartTime: now,
			Duration:  g.jitteredDuration(),
		}
		path = append(path, pt)
		now = pt.End()
	}

	return append(path, PathPoint{
		X:         end.X,
		Y:         end.Y,
		StartTime: now,
		Duration:  g.params.StepDuration,
	})
}

// GenerateMultiplePaths draws count independent start/end pairs uniformly over
// the floor and walks each. Empty paths are dropped.
func (g *Generator) GenerateMultiplePaths(count int) PathSet {
	if count <= 0 || !g.bounds.Valid() {
		return PathSet{}
	}
	set := make(PathSet, 0, count)
	for i := 0; i < count; i++ {
		start := g.randomPoint()
		end := g.randomPoint()
		if p := g.GenerateWalkingPath(start, end); len(p) > 0 {
			set = append(set, p)
		}
	}
	return set
}

// IterationCap bounds the number of random-walk steps between start and end:
// twice the straight-line step count, times IterationFactor. Both points are
// clamped to the floor first.
func (g *Generator) IterationCap(start, end Point) int {
	start, end = g.bounds.ClampPoint(start), g.bounds.ClampPoint(end)
	dist := mgl64.Vec2{float64(end.X - start.X), float64(end.Y - start.Y)}.Len()
	steps := int(math.Ceil(2*dist/g.params.StepLength)) * g.params.IterationFactor
	if steps < 1 {
		return 1
	}
	return steps
}

func (g *Generator) randomPoint() Point {
	return Point{X: g.rng.Intn(g.bounds.Width), Y: g.rng.Intn(g.bounds.Length)}
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *Generator) jitteredDuration() time.Duration {
	j := float64(g.params.DurationJitter)
	return g.params.StepDuration + time.Duration(g.uniform(-j, j))
}

func within(pos, target mgl64.Vec2, step float64) bool {
	return math.Abs(target[0]-pos[0]) <= step && math.Abs(target[1]-pos[1]) <= step
}
