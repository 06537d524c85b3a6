package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/pathsim/internal/config"
	"github.com/san-kum/pathsim/internal/metrics"
	"github.com/san-kum/pathsim/internal/storage"
	"github.com/san-kum/pathsim/internal/walk"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyScenario = errors.New("automation: scenario has no steps")
	ErrUnknownPreset = errors.New("automation: unknown preset")
	ErrUnknownParam  = errors.New("automation: unknown sweep parameter")
)

// Scenario defines a scripted sequence of path generations.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step generates one PathSet. Zero fields keep the preset's value.
type Step struct {
	Name         string  `yaml:"name"`
	Preset       string  `yaml:"preset"`
	Paths        int     `yaml:"paths"`
	Seed         int64   `yaml:"seed"`
	FloorWidth   int     `yaml:"floor_width"`
	FloorLength  int     `yaml:"floor_length"`
	PathVariance float64 `yaml:"path_variance"`
	StepLength   float64 `yaml:"step_length"`
}

// Result is one saved step.
type Result struct {
	Step    string
	RunID   string
	Paths   int
	Points  int
	Metrics map[string]float64
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("automation: parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	return &scenario, nil
}

// Config resolves the step against its preset, or the defaults when no
// preset is named.
func (s Step) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		if cfg = config.GetPreset(s.Preset); cfg == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, s.Preset)
		}
	}
	if s.Paths != 0 {
		cfg.Animation.Paths = s.Paths
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.FloorWidth != 0 {
		cfg.Floor.Width = s.FloorWidth
	}
	if s.FloorLength != 0 {
		cfg.Floor.Length = s.FloorLength
	}
	if s.PathVariance != 0 {
		cfg.Walk.PathVariance = s.PathVariance
	}
	if s.StepLength != 0 {
		cfg.Walk.StepLength = s.StepLength
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario generates and saves every step in order. Results for the
// steps that finished are returned alongside any error.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store, log logrus.FieldLogger) ([]Result, error) {
	results := make([]Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("%s_%d", scenario.Name, i+1)
		}
		log.WithFields(logrus.Fields{"step": i + 1, "of": len(scenario.Steps), "name": name}).Info("running step")

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		res, err := generate(cfg, name, st)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		results = append(results, res)
	}

	return results, nil
}

func generate(cfg *config.Config, name string, st *storage.Store) (Result, error) {
	gen := cfg.Generator()
	paths := gen.GenerateMultiplePaths(cfg.Animation.Paths)
	m := metrics.Evaluate(paths)

	runID, err := st.Save(storage.RunInfo{
		Name:   name,
		Preset: cfg.Preset,
		Seed:   gen.Seed(),
		Floor:  cfg.Bounds(),
		Params: gen.Params(),
	}, paths, m)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Step:    name,
		RunID:   runID,
		Paths:   len(paths),
		Points:  paths.TotalPoints(),
		Metrics: m,
	}, nil
}

// Sweep varies one walk parameter across [Min, Max] and measures the
// resulting PathSets. Every point reuses the same seed.
type Sweep struct {
	Param string
	Min   float64
	Max   float64
	Steps int
	Base  *config.Config
}

type SweepResult struct {
	Value   float64
	Metrics map[string]float64
}

var sweepParams = map[string]func(*config.Config, float64){
	"path_variance": func(c *config.Config, v float64) { c.Walk.PathVariance = v },
	"step_length":   func(c *config.Config, v float64) { c.Walk.StepLength = v },
}

func SweepParams() []string {
	return []string{"path_variance", "step_length"}
}

func RunSweep(ctx context.Context, sweep *Sweep, log logrus.FieldLogger) ([]SweepResult, error) {
	apply, ok := sweepParams[sweep.Param]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParam, sweep.Param)
	}
	n := max(sweep.Steps, 1)
	base := sweep.Base
	if base == nil {
		base = config.DefaultConfig()
	}
	seed := base.Seed
	if seed == 0 {
		seed = base.Generator().Seed()
	}

	delta := 0.0
	if n > 1 {
		delta = (sweep.Max - sweep.Min) / float64(n-1)
	}

	results := make([]SweepResult, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		value := sweep.Min + float64(i)*delta

		cfg := *base
		cfg.Seed = seed
		apply(&cfg, value)
		if err := cfg.Validate(); err != nil {
			return results, fmt.Errorf("%s=%.4f: %w", sweep.Param, value, err)
		}

		paths := walk.NewGenerator(cfg.Bounds(), walk.WithParams(cfg.WalkParams()), walk.WithSeed(seed)).
			GenerateMultiplePaths(cfg.Animation.Paths)
		results = append(results, SweepResult{Value: value, Metrics: metrics.Evaluate(paths)})

		log.WithFields(logrus.Fields{"param": sweep.Param, "value": value, "point": i + 1, "of": n}).Debug("sweep point")
	}

	return results, nil
}
