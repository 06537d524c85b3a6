package config

import "sort"

// Presets are named floor layouts. "ward" matches the dashboard floor.
var Presets = map[string]*Config{
	"ward": {
		Preset: "ward",
		Floor:  FloorConfig{Width: 50, Length: 75},
		Walk: WalkConfig{
			StepLength: 3, StepDurationMS: 500, DurationJitterMS: 50, PathVariance: 0.2, IterationFactor: 4,
		},
		Animation: AnimationConfig{Paths: 5, Speed: 50, CanvasWidth: 500, CanvasHeight: 750},
		LogLevel:  DefaultLogLevel,
	},
	"lobby": {
		Preset: "lobby",
		Floor:  FloorConfig{Width: 120, Length: 80},
		Walk: WalkConfig{
			StepLength: 4, StepDurationMS: 450, DurationJitterMS: 60, PathVariance: 0.3, IterationFactor: 4,
		},
		Animation: AnimationConfig{Paths: 12, Speed: 60, CanvasWidth: 960, CanvasHeight: 640},
		LogLevel:  DefaultLogLevel,
	},
	"corridor": {
		Preset: "corridor",
		Floor:  FloorConfig{Width: 200, Length: 12},
		Walk: WalkConfig{
			StepLength: 3, StepDurationMS: 500, DurationJitterMS: 50, PathVariance: 0.1, IterationFactor: 4,
		},
		Animation: AnimationConfig{Paths: 8, Speed: 80, CanvasWidth: 1000, CanvasHeight: 60},
		LogLevel:  DefaultLogLevel,
	},
	"atrium": {
		Preset: "atrium",
		Floor:  FloorConfig{Width: 100, Length: 100},
		Walk: WalkConfig{
			StepLength: 2, StepDurationMS: 600, DurationJitterMS: 100, PathVariance: 0.35, IterationFactor: 6,
		},
		Animation: AnimationConfig{Paths: 20, Speed: 40, CanvasWidth: 800, CanvasHeight: 800},
		LogLevel:  DefaultLogLevel,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
