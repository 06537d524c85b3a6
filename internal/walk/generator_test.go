package walk_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pathsim/internal/walk"
)

var origin = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func dist(a, b walk.PathPoint) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

var _ = Describe("Generator", func() {
	var (
		floor walk.FloorBounds
		gen   *walk.Generator
	)

	BeforeEach(func() {
		floor = walk.FloorBounds{Width: 50, Length: 75}
		gen = walk.NewGenerator(floor, walk.WithSeed(7), walk.WithClock(func() time.Time { return origin }))
	})

	Describe("GenerateWalkingPath", func() {
		It("ends exactly at the requested point", func() {
			for i := 0; i < 200; i++ {
				end := walk.Point{X: i % 50, Y: (i * 7) % 75}
				path := gen.GenerateWalkingPath(walk.Point{X: 49 - i%50, Y: i % 75}, end)
				Expect(path).NotTo(BeEmpty())
				Expect(path.End()).To(Equal(end))
			}
		})

		It("keeps every point inside the floor", func() {
			for i := 0; i < 200; i++ {
				path := gen.GenerateWalkingPath(walk.Point{X: 0, Y: 0}, walk.Point{X: 49, Y: 74})
				for _, p := range path {
					Expect(floor.Contains(p.Point())).To(BeTrue(), "point %+v out of bounds", p)
				}
			}
		})

		It("clamps walks that start off the floor", func() {
			path := gen.GenerateWalkingPath(walk.Point{X: -20, Y: 120}, walk.Point{X: 10, Y: 10})
			for _, p := range path {
				Expect(floor.Contains(p.Point())).To(BeTrue())
			}
		})

		It("walks from a far off-floor start in a few steps", func() {
			start, end := walk.Point{X: 1 << 46}, walk.Point{X: 10, Y: 10}
			limit := gen.IterationCap(start, end)
			Expect(limit).To(Equal(gen.IterationCap(walk.Point{X: 49}, end)))
			Expect(limit).To(BeNumerically("<", 200))

			path := gen.GenerateWalkingPath(start, end)
			Expect(len(path)).To(BeNumerically("<=", limit+1))
			Expect(path.End()).To(Equal(end))
			for _, p := range path {
				Expect(floor.Contains(p.Point())).To(BeTrue(), "point %+v out of bounds", p)
			}
		})

		It("bounds the distance between consecutive steps", func() {
			limit := gen.Params().MaxStep() + math.Sqrt2 // rounding to the grid
			for i := 0; i < 100; i++ {
				path := gen.GenerateWalkingPath(walk.Point{X: 2, Y: 3}, walk.Point{X: 47, Y: 70})
				for j := 0; j+2 < len(path); j++ {
					Expect(dist(path[j], path[j+1])).To(BeNumerically("<=", limit))
				}
			}
		})

		It("accumulates start times from the previous duration", func() {
			path := gen.GenerateWalkingPath(walk.Point{X: 0, Y: 0}, walk.Point{X: 40, Y: 60})
			Expect(path[0].StartTime).To(Equal(origin))
			for j := 1; j < len(path); j++ {
				Expect(path[j].StartTime).To(Equal(path[j-1].StartTime.Add(path[j-1].Duration)))
				Expect(path[j].StartTime).NotTo(BeTemporally("<", path[j-1].StartTime))
			}
		})

		It("jitters step durations around the base duration", func() {
			p := gen.Params()
			path := gen.GenerateWalkingPath(walk.Point{X: 0, Y: 0}, walk.Point{X: 49, Y: 74})
			for _, pt := range path[:len(path)-1] {
				Expect(pt.Duration).To(BeNumerically(">=", p.StepDuration-p.DurationJitter))
				Expect(pt.Duration).To(BeNumerically("<=", p.StepDuration+p.DurationJitter))
			}
			Expect(path[len(path)-1].Duration).To(Equal(p.StepDuration))
		})

		It("returns a single point when start equals end", func() {
			path := gen.GenerateWalkingPath(walk.Point{}, walk.Point{})
			Expect(len(path)).To(BeNumerically(">=", 1))
			Expect(len(path)).To(BeNumerically("<=", 2))
			Expect(path.End()).To(Equal(walk.Point{}))
		})

		It("terminates when the perturbation swamps the step", func() {
			noisy := walk.NewGenerator(floor, walk.WithSeed(3), walk.WithParams(walk.Params{
				StepLength:      1,
				StepDuration:    time.Millisecond,
				PathVariance:    40,
				IterationFactor: 1,
			}))
			start, end := walk.Point{X: 0, Y: 0}, walk.Point{X: 49, Y: 74}
			path := noisy.GenerateWalkingPath(start, end)
			Expect(len(path)).To(BeNumerically("<=", noisy.IterationCap(start, end)+1))
			Expect(path.End()).To(Equal(end))
		})

		It("returns nothing for an empty floor", func() {
			empty := walk.NewGenerator(walk.FloorBounds{Width: 0, Length: 10})
			Expect(empty.GenerateWalkingPath(walk.Point{}, walk.Point{X: 1})).To(BeNil())
		})
	})

	Describe("GenerateMultiplePaths", func() {
		It("returns exactly n paths", func() {
			for _, n := range []int{1, 5, 20} {
				Expect(gen.GenerateMultiplePaths(n)).To(HaveLen(n))
			}
		})

		It("returns an empty set for non-positive counts", func() {
			Expect(gen.GenerateMultiplePaths(0)).To(BeEmpty())
			Expect(gen.GenerateMultiplePaths(-3)).To(BeEmpty())
		})

		It("returns an empty set for an invalid floor", func() {
			bad := walk.NewGenerator(walk.FloorBounds{Width: -1, Length: 5})
			Expect(bad.GenerateMultiplePaths(5)).To(BeEmpty())
		})

		It("covers a one-cell floor with degenerate paths", func() {
			tiny := walk.NewGenerator(walk.FloorBounds{Width: 1, Length: 1}, walk.WithSeed(1))
			set := tiny.GenerateMultiplePaths(3)
			Expect(set).To(HaveLen(3))
			for _, p := range set {
				Expect(p).To(HaveLen(1))
				Expect(p.End()).To(Equal(walk.Point{}))
			}
		})

		It("is reproducible from a seed", func() {
			a := walk.NewGenerator(floor, walk.WithSeed(99), walk.WithClock(func() time.Time { return origin }))
			b := walk.NewGenerator(floor, walk.WithSeed(99), walk.WithClock(func() time.Time { return origin }))
			Expect(a.GenerateMultiplePaths(5)).To(Equal(b.GenerateMultiplePaths(5)))
		})
	})

	Describe("PathSet", func() {
		It("reports the longest path", func() {
			set := walk.PathSet{make(walk.Path, 3), make(walk.Path, 7), make(walk.Path, 1)}
			Expect(set.MaxLen()).To(Equal(7))
			Expect(set.TotalPoints()).To(Equal(11))
			Expect(walk.PathSet{}.MaxLen()).To(Equal(0))
		})
	})
})
