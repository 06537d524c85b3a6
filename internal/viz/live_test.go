package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/pathsim/internal/anim"
	"github.com/san-kum/pathsim/internal/config"
	"github.com/san-kum/pathsim/internal/walk"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Seed = 7
	cfg.Animation.Paths = 3
	return NewModel(cfg, nil)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestModelInitDeliversFirstFrame(t *testing.T) {
	m := newTestModel(t)
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("expected first frame command")
	}
	msg, ok := cmd().(frameMsg)
	if !ok {
		t.Fatalf("expected frameMsg, got %T", cmd())
	}
	if msg.frame.Cursor != 0 || msg.frame.Generation != m.anim.Generation() {
		t.Errorf("unexpected first frame %+v", msg.frame)
	}
	if len(m.anim.Paths()) != 3 {
		t.Errorf("expected 3 paths, got %d", len(m.anim.Paths()))
	}
}

func TestModelPlaysToCompletion(t *testing.T) {
	m := newTestModel(t)
	gen := m.anim.Generation()
	maxLen := m.anim.MaxLen()

	var cmd tea.Cmd
	for c := 0; c <= maxLen; c++ {
		m, cmd = send(m, frameMsg{frame: anim.Frame{Generation: gen, Cursor: c}})
		if c < maxLen && cmd == nil {
			t.Fatalf("frame %d: expected next tick", c)
		}
	}
	if cmd != nil {
		t.Error("expected no tick after the last frame")
	}
	if m.anim.State() != anim.Complete {
		t.Errorf("expected complete, got %v", m.anim.State())
	}
	if m.anim.Progress() != 1 {
		t.Errorf("expected full progress, got %f", m.anim.Progress())
	}
}

func TestModelDropsStaleFrames(t *testing.T) {
	m := newTestModel(t)
	old := m.anim.Generation()

	m, cmd := send(m, runes("n"))
	if cmd == nil {
		t.Fatal("expected regenerate to deliver a frame")
	}
	if m.anim.Generation() == old {
		t.Fatal("regenerate should start a new generation")
	}

	m, cmd = send(m, frameMsg{frame: anim.Frame{Generation: old, Cursor: 3}})
	if cmd != nil || m.anim.Cursor() != 0 {
		t.Errorf("stale frame was drawn: cursor %d", m.anim.Cursor())
	}
}

func TestModelPause(t *testing.T) {
	m := newTestModel(t)
	f := anim.Frame{Generation: m.anim.Generation(), Cursor: 0}

	m, _ = send(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.paused {
		t.Fatal("expected paused")
	}

	m, cmd := send(m, frameMsg{frame: f})
	if cmd != nil {
		t.Error("paused model should not schedule")
	}
	if !m.hasPending || m.pending != f {
		t.Errorf("expected frame parked, got %+v", m.pending)
	}

	m, cmd = send(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if cmd == nil {
		t.Fatal("expected resume to deliver the parked frame")
	}
	if got := cmd().(frameMsg).frame; got != f {
		t.Errorf("expected %+v, got %+v", f, got)
	}
}

func TestModelSpeedAndCountRegenerate(t *testing.T) {
	m := newTestModel(t)
	gen := m.anim.Generation()

	m, _ = send(m, runes("+"))
	if m.speed != 55 {
		t.Errorf("expected speed 55, got %v", m.speed)
	}
	if m.anim.Generation() == gen {
		t.Error("speed change should regenerate")
	}

	m, _ = send(m, runes(">"))
	if m.count != 4 || len(m.anim.Paths()) != 4 {
		t.Errorf("expected 4 paths, got %d/%d", m.count, len(m.anim.Paths()))
	}

	for i := 0; i < 30; i++ {
		m, _ = send(m, runes("-"))
	}
	if m.speed != anim.MinSpeed {
		t.Errorf("expected speed clamped to %v, got %v", anim.MinSpeed, m.speed)
	}
}

func TestModelScrub(t *testing.T) {
	m := newTestModel(t)

	m, cmd := send(m, runes("]"))
	if cmd == nil || m.anim.Cursor() != 1 {
		t.Fatalf("expected cursor 1, got %d", m.anim.Cursor())
	}
	if f := cmd().(frameMsg).frame; f.Cursor != 1 || f.Generation != m.anim.Generation() {
		t.Errorf("unexpected seek frame %+v", f)
	}

	m, _ = send(m, runes("["))
	m, _ = send(m, runes("["))
	if m.anim.Cursor() != 0 {
		t.Errorf("expected cursor clamped at 0, got %d", m.anim.Cursor())
	}
}

func TestModelResize(t *testing.T) {
	m := newTestModel(t)
	paths := m.anim.Paths()

	m, _ = send(m, tea.WindowSizeMsg{Width: 160, Height: 50})
	if !m.sized {
		t.Fatal("expected sized")
	}
	if len(m.anim.Paths()) != len(paths) || &m.anim.Paths()[0][0] != &paths[0][0] {
		t.Error("first size message should replay the loaded paths")
	}

	m, _ = send(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if &m.anim.Paths()[0][0] == &paths[0][0] {
		t.Error("later resizes should regenerate")
	}
}

func TestFitCanvas(t *testing.T) {
	cols, rows := fitCanvas(walk.FloorBounds{Width: 50, Length: 75}, 100, 30)
	w, h := 2*cols, 4*rows
	if cols > 100 || rows > 30 {
		t.Fatalf("canvas exceeds limits: %dx%d", cols, rows)
	}
	ratio := float64(w) / float64(h)
	if ratio < 0.6 || ratio > 0.7 {
		t.Errorf("expected aspect near 2/3, got %f (%dx%d)", ratio, w, h)
	}

	cols, rows = fitCanvas(walk.FloorBounds{}, 1, 1)
	if cols != minCols || rows != minRows {
		t.Errorf("expected minimum canvas, got %dx%d", cols, rows)
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(m, frameMsg{frame: anim.Frame{Generation: m.anim.Generation()}})

	out := m.View()
	for _, want := range []string{"Paths", "Speed", "WALKING", "path 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
