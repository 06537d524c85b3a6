package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/pathsim/internal/walk"
)

var start = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func samplePaths() walk.PathSet {
	return walk.PathSet{
		{
			{X: 1, Y: 2, StartTime: start, Duration: 480 * time.Millisecond},
			{X: 3, Y: 4, StartTime: start.Add(480 * time.Millisecond), Duration: 500 * time.Millisecond},
		},
		{
			{X: 9, Y: 9, StartTime: start, Duration: 520 * time.Millisecond},
		},
	}
}

func sampleInfo() RunInfo {
	return RunInfo{
		Name:   "test",
		Preset: "ward",
		Seed:   42,
		Floor:  walk.FloorBounds{Width: 50, Length: 75},
		Params: walk.DefaultParams(),
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(sampleInfo(), samplePaths(), map[string]float64{"steps": 1.5})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "test_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Seed != 42 || meta.Preset != "ward" {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.Paths != 2 || meta.Points != 3 {
		t.Errorf("expected 2 paths and 3 points, got %d and %d", meta.Paths, meta.Points)
	}
	if meta.Metrics["steps"] != 1.5 {
		t.Errorf("expected steps 1.5, got %f", meta.Metrics["steps"])
	}
	if meta.Params() != walk.DefaultParams() {
		t.Errorf("walk params lost: %+v", meta.Params())
	}

	paths, err := st.LoadPaths(runID)
	if err != nil {
		t.Fatalf("load paths failed: %v", err)
	}
	want := samplePaths()
	if len(paths) != len(want) {
		t.Fatalf("expected %d paths, got %d", len(want), len(paths))
	}
	for i := range want {
		if len(paths[i]) != len(want[i]) {
			t.Fatalf("path %d: expected %d points, got %d", i, len(want[i]), len(paths[i]))
		}
		for j := range want[i] {
			got, exp := paths[i][j], want[i][j]
			if got.X != exp.X || got.Y != exp.Y || got.Duration != exp.Duration || !got.StartTime.Equal(exp.StartTime) {
				t.Errorf("path %d point %d: expected %+v, got %+v", i, j, exp, got)
			}
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
	if _, err := st.Latest(); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist from empty store, got %v", err)
	}

	first, _ := st.Save(sampleInfo(), samplePaths(), nil)
	second, err := st.Save(sampleInfo(), walk.PathSet{}, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("expected runs in save order, got %s, %s", runs[0].ID, runs[1].ID)
	}

	latest, err := st.Latest()
	if err != nil || latest.ID != second {
		t.Errorf("expected latest %s, got %v (%v)", second, latest, err)
	}
}

func TestStoreList_MissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list for missing dir, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(sampleInfo(), samplePaths(), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "points.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, runID, "points.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "path,step,x,y,start_ms,duration_ms" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if len(lines) != 4 {
		t.Errorf("expected header plus 3 rows, got %d lines", len(lines))
	}
}

func TestReadPoints_Malformed(t *testing.T) {
	in := "path,step,x,y,start_ms,duration_ms\n0,0,x,1,0,500\n"
	if _, err := ReadPoints(strings.NewReader(in)); !errors.Is(err, ErrMalformedPoints) {
		t.Errorf("expected ErrMalformedPoints, got %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := &RunMetadata{ID: "r1", Seed: 7}
	if err := ExportJSON(&buf, meta, samplePaths()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var got struct {
		Run   RunMetadata `json:"run"`
		Paths [][]struct {
			X int `json:"x"`
			Y int `json:"y"`
		} `json:"paths"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Run.ID != "r1" || len(got.Paths) != 2 || got.Paths[0][1].X != 3 {
		t.Errorf("unexpected export: %+v", got)
	}
}
