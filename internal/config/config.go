package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/san-kum/pathsim/internal/anim"
	"github.com/san-kum/pathsim/internal/walk"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFloorWidth       = 50
	DefaultFloorLength      = 75
	DefaultPaths            = 5
	DefaultSpeed            = anim.DefaultSpeed
	DefaultCanvasWidth      = 500
	DefaultCanvasHeight     = 750
	DefaultStepLength       = walk.DefaultStepLength
	DefaultStepDurationMS   = 500
	DefaultDurationJitterMS = 50
	DefaultPathVariance     = walk.DefaultPathVariance
	DefaultIterationFactor  = walk.DefaultIterationFactor
	DefaultLogLevel         = "info"
	MaxPaths                = 64
)

var (
	ErrInvalidFloor     = errors.New("config: floor width and length must be positive")
	ErrInvalidCanvas    = errors.New("config: canvas width and height must be positive")
	ErrInvalidPathCount = errors.New("config: path count out of range")
	ErrInvalidSpeed     = errors.New("config: speed out of range")
	ErrInvalidWalk      = errors.New("config: invalid walk parameters")
)

type Config struct {
	Preset    string          `yaml:"preset,omitempty"`
	Seed      int64           `yaml:"seed"`
	Floor     FloorConfig     `yaml:"floor"`
	Walk      WalkConfig      `yaml:"walk"`
	Animation AnimationConfig `yaml:"animation"`
	LogLevel  string          `yaml:"log_level"`
}

type FloorConfig struct {
	Width  int `yaml:"width"`
	Length int `yaml:"length"`
}

type WalkConfig struct {
	StepLength       float64 `yaml:"step_length"`
	StepDurationMS   int     `yaml:"step_duration_ms"`
	DurationJitterMS int     `yaml:"duration_jitter_ms"`
	PathVariance     float64 `yaml:"path_variance"`
	IterationFactor  int     `yaml:"iteration_factor"`
}

type AnimationConfig struct {
	Paths        int     `yaml:"paths"`
	Speed        float64 `yaml:"speed"`
	CanvasWidth  int     `yaml:"canvas_width"`
	CanvasHeight int     `yaml:"canvas_height"`
}

func DefaultConfig() *Config {
	return &Config{
		Floor: FloorConfig{
			Width:  DefaultFloorWidth,
			Length: DefaultFloorLength,
		},
		Walk: WalkConfig{
			StepLength:       DefaultStepLength,
			StepDurationMS:   DefaultStepDurationMS,
			DurationJitterMS: DefaultDurationJitterMS,
			PathVariance:     DefaultPathVariance,
			IterationFactor:  DefaultIterationFactor,
		},
		Animation: AnimationConfig{
			Paths:        DefaultPaths,
			Speed:        DefaultSpeed,
			CanvasWidth:  DefaultCanvasWidth,
			CanvasHeight: DefaultCanvasHeight,
		},
		LogLevel: DefaultLogLevel,
	}
}

// Load reads a yaml file over base. A nil base starts from DefaultConfig.
func Load(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if base != nil {
		c := *base
		cfg = &c
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Floor.Width <= 0 || c.Floor.Length <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidFloor, c.Floor.Width, c.Floor.Length)
	}
	if c.Animation.CanvasWidth <= 0 || c.Animation.CanvasHeight <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidCanvas, c.Animation.CanvasWidth, c.Animation.CanvasHeight)
	}
	if c.Animation.Paths < 1 || c.Animation.Paths > MaxPaths {
		return fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidPathCount, c.Animation.Paths, MaxPaths)
	}
	if c.Animation.Speed < anim.MinSpeed || c.Animation.Speed > anim.MaxSpeed {
		return fmt.Errorf("%w: %v (want %v..%v)", ErrInvalidSpeed, c.Animation.Speed, anim.MinSpeed, anim.MaxSpeed)
	}
	if c.Walk.StepLength <= 0 || c.Walk.StepDurationMS <= 0 || c.Walk.DurationJitterMS < 0 ||
		c.Walk.PathVariance < 0 || c.Walk.IterationFactor <= 0 {
		return fmt.Errorf("%w: %+v", ErrInvalidWalk, c.Walk)
	}
	return nil
}

func (c *Config) Bounds() walk.FloorBounds {
	return walk.FloorBounds{Width: c.Floor.Width, Length: c.Floor.Length}
}

func (c *Config) WalkParams() walk.Params {
	return walk.Params{
		StepLength:      c.Walk.StepLength,
		StepDuration:    time.Duration(c.Walk.StepDurationMS) * time.Millisecond,
		DurationJitter:  time.Duration(c.Walk.DurationJitterMS) * time.Millisecond,
		PathVariance:    c.Walk.PathVariance,
		IterationFactor: c.Walk.IterationFactor,
	}
}

// Generator builds a path generator for this config. A zero seed means a
// time-based seed.
func (c *Config) Generator() *walk.Generator {
	opts := []walk.Option{walk.WithParams(c.WalkParams())}
	if c.Seed != 0 {
		opts = append(opts, walk.WithSeed(c.Seed))
	}
	return walk.NewGenerator(c.Bounds(), opts...)
}
