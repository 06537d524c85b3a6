package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/pathsim/internal/walk"
)

const (
	metadataFile = "metadata.json"
	pointsFile   = "points.csv"
)

var ErrMalformedPoints = errors.New("storage: malformed points row")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string {
	return s.baseDir
}

// RunInfo describes how a saved path set was generated.
type RunInfo struct {
	Name   string
	Preset string
	Seed   int64
	Floor  walk.FloorBounds
	Params walk.Params
}

type WalkParams struct {
	StepLength       float64 `json:"step_length"`
	StepDurationMS   int64   `json:"step_duration_ms"`
	DurationJitterMS int64   `json:"duration_jitter_ms"`
	PathVariance     float64 `json:"path_variance"`
	IterationFactor  int     `json:"iteration_factor"`
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Floor     walk.FloorBounds   `json:"floor"`
	Walk      WalkParams         `json:"walk"`
	Paths     int                `json:"paths"`
	Points    int                `json:"points"`
	Metrics   map[string]float64 `json:"metrics"`
}

func (m *RunMetadata) Params() walk.Params {
	return walk.Params{
		StepLength:      m.Walk.StepLength,
		StepDuration:    time.Duration(m.Walk.StepDurationMS) * time.Millisecond,
		DurationJitter:  time.Duration(m.Walk.DurationJitterMS) * time.Millisecond,
		PathVariance:    m.Walk.PathVariance,
		IterationFactor: m.Walk.IterationFactor,
	}
}

func (s *Store) Save(info RunInfo, paths walk.PathSet, metrics map[string]float64) (string, error) {
	now := time.Now()
	name := info.Name
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if metrics == nil {
		metrics = map[string]float64{}
	}
	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Preset:    info.Preset,
		Timestamp: now,
		Seed:      info.Seed,
		Floor:     info.Floor,
		Walk: WalkParams{
			StepLength:       info.Params.StepLength,
			StepDurationMS:   info.Params.StepDuration.Milliseconds(),
			DurationJitterMS: info.Params.DurationJitter.Milliseconds(),
			PathVariance:     info.Params.PathVariance,
			IterationFactor:  info.Params.IterationFactor,
		},
		Paths:   len(paths),
		Points:  paths.TotalPoints(),
		Metrics: metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, pointsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WritePoints(csvFile, paths); err != nil {
		return "", err
	}
	return runID, nil
}

// List returns saved runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

// Latest returns the most recently saved run.
func (s *Store) Latest() (*RunMetadata, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, os.ErrNotExist
	}
	return &runs[len(runs)-1], nil
}

func (s *Store) LoadPaths(runID string) (walk.PathSet, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, pointsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadPoints(file)
}

// WritePoints writes one csv row per path point:
// path,step,x,y,start_ms,duration_ms.
func WritePoints(out io.Writer, paths walk.PathSet) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"path", "step", "x", "y", "start_ms", "duration_ms"}); err != nil {
		return err
	}
	for i, p := range paths {
		for j, pt := range p {
			row := []string{
				strconv.Itoa(i),
				strconv.Itoa(j),
				strconv.Itoa(pt.X),
				strconv.Itoa(pt.Y),
				strconv.FormatInt(pt.StartTime.UnixMilli(), 10),
				strconv.FormatInt(pt.Duration.Milliseconds(), 10),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func ReadPoints(in io.Reader) (walk.PathSet, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = 6

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return walk.PathSet{}, nil
	}

	paths := walk.PathSet{}
	for line, record := range records[1:] {
		var v [6]int64
		for k, field := range record {
			n, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedPoints, line+2, err)
			}
			v[k] = n
		}
		idx := int(v[0])
		if idx < 0 {
			return nil, fmt.Errorf("%w: line %d: negative path index", ErrMalformedPoints, line+2)
		}
		for len(paths) <= idx {
			paths = append(paths, walk.Path{})
		}
		paths[idx] = append(paths[idx], walk.PathPoint{
			X:         int(v[2]),
			Y:         int(v[3]),
			StartTime: time.UnixMilli(v[4]).UTC(),
			Duration:  time.Duration(v[5]) * time.Millisecond,
		})
	}
	return paths, nil
}
