package viz

import (
	"image"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/pathsim/internal/anim"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)

	if c.Grid[0][0] != blank|0x1 {
		t.Errorf("expected dot 1 in first cell, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != blank|0x80 {
		t.Errorf("expected dot 8 in second cell, got %U", c.Grid[0][1])
	}

	c.Set(-1, 0)
	c.Set(10, 10)
	c.Unset(0, 0)
	if c.Grid[0][0] != blank {
		t.Errorf("expected empty cell after unset, got %U", c.Grid[0][0])
	}
}

func TestCanvasSurface(t *testing.T) {
	var s anim.Surface = NewCanvas(10, 5)
	w, h := s.Size()
	if w != 20 || h != 20 {
		t.Errorf("expected 20x20 sub-pixels, got %dx%d", w, h)
	}
}

func TestCanvasPolyline(t *testing.T) {
	c := NewCanvas(4, 1)
	c.Polyline([]image.Point{{0, 0}, {7, 0}}, "#ff0000")

	for col := 0; col < 4; col++ {
		if c.Grid[0][col] == blank {
			t.Errorf("cell %d not drawn", col)
		}
		if c.Colors[0][col] != "#ff0000" {
			t.Errorf("cell %d: expected red, got %q", col, c.Colors[0][col])
		}
	}

	c.Clear()
	if strings.Trim(c.String(), string(rune(blank))+"\n") != "" {
		t.Error("expected blank canvas after clear")
	}
	if c.Colors[0][0] != "" {
		t.Error("clear should drop colors")
	}
}

func TestCanvasMarker(t *testing.T) {
	c := NewCanvas(10, 5)
	c.Marker(image.Pt(10, 10), anim.MarkerArrived, anim.ArrivedColor)

	row, col := 10/4, 10/2
	if c.Colors[row][col] != anim.ArrivedColor {
		t.Errorf("expected marker color at center cell, got %q", c.Colors[row][col])
	}
	if c.Grid[0][0] != blank {
		t.Error("small marker should not reach the corner")
	}
}

func TestCanvasRender(t *testing.T) {
	c := NewCanvas(3, 2)
	c.SetColor(0, 0, "#00ff00")
	out := c.Render()

	if strings.Count(out, "\n") != 2 {
		t.Errorf("expected 2 rows, got %q", out)
	}
	if !strings.Contains(out, string(rune(blank|0x1))) {
		t.Errorf("expected drawn dot in output, got %q", out)
	}
}

func TestCanvasResize(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(0, 0)
	c.Resize(4, 3)
	if c.Width != 4 || c.Height != 3 || len(c.Grid) != 3 || len(c.Grid[0]) != 4 {
		t.Fatalf("unexpected size after resize: %dx%d", c.Width, c.Height)
	}
	if c.Grid[0][0] != blank {
		t.Error("resize should clear the canvas")
	}
}

func TestRecording(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Polyline([]image.Point{{0, 0}, {7, 7}}, "#ff0000")

	r := NewRecording()
	path := t.TempDir() + "/out.gif"
	if err := r.Save(path); err != ErrNoFrames {
		t.Errorf("expected ErrNoFrames, got %v", err)
	}

	r.Capture(c, 20*time.Millisecond)
	r.Capture(c, 20*time.Millisecond)
	if r.Len() != 2 {
		t.Fatalf("expected 2 frames, got %d", r.Len())
	}
	if len(r.palette) != 3 {
		t.Errorf("expected background, white and red in palette, got %d colors", len(r.palette))
	}
	if err := r.Save(path); err != nil {
		t.Errorf("save failed: %v", err)
	}
}
