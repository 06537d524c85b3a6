package automation

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/san-kum/pathsim/internal/config"
	"github.com/san-kum/pathsim/internal/metrics"
	"github.com/san-kum/pathsim/internal/walk"
	"github.com/sirupsen/logrus"
)

// Ensemble generates one PathSet per seed in [SeedStart, SeedStart+Runs)
// concurrently, all with the Base configuration.
type Ensemble struct {
	Base      *config.Config
	Runs      int
	SeedStart int64
}

// EnsembleRun is the outcome of one seed.
type EnsembleRun struct {
	Seed    int64
	Points  int
	Metrics map[string]float64
}

// Spread summarizes one metric across runs.
type Spread struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Run returns results in seed order. A cancelled context stops runs that
// have not started yet.
func (e *Ensemble) Run(ctx context.Context, log logrus.FieldLogger) ([]EnsembleRun, error) {
	base := e.Base
	if base == nil {
		base = config.DefaultConfig()
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	n := max(e.Runs, 1)

	results := make([]EnsembleRun, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[idx] = err
				return
			}

			seed := e.SeedStart + int64(idx)
			gen := walk.NewGenerator(base.Bounds(), walk.WithParams(base.WalkParams()), walk.WithSeed(seed))
			paths := gen.GenerateMultiplePaths(base.Animation.Paths)
			results[idx] = EnsembleRun{
				Seed:    seed,
				Points:  paths.TotalPoints(),
				Metrics: metrics.Evaluate(paths),
			}
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	log.WithFields(logrus.Fields{"runs": n, "seed_start": e.SeedStart}).Debug("ensemble complete")
	return results, nil
}

// Summarize reduces every metric present in runs to its spread.
func Summarize(runs []EnsembleRun) map[string]Spread {
	values := make(map[string][]float64)
	for _, r := range runs {
		for name, v := range r.Metrics {
			values[name] = append(values[name], v)
		}
	}

	out := make(map[string]Spread, len(values))
	for name, vs := range values {
		sort.Float64s(vs)
		sum := 0.0
		for _, v := range vs {
			sum += v
		}
		mean := sum / float64(len(vs))

		variance := 0.0
		for _, v := range vs {
			variance += (v - mean) * (v - mean)
		}
		variance /= float64(len(vs))

		out[name] = Spread{
			Mean:   mean,
			StdDev: math.Sqrt(variance),
			Min:    vs[0],
			Max:    vs[len(vs)-1],
		}
	}
	return out
}
