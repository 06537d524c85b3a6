package export

import (
	"image"
	"strings"
	"testing"

	"github.com/san-kum/pathsim/internal/walk"
)

func TestPathSetToSVG(t *testing.T) {
	floor := walk.FloorBounds{Width: 50, Length: 75}
	paths := walk.PathSet{
		{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 20, Y: 30}},
		{{X: 40, Y: 70}, {X: 30, Y: 60}},
	}

	out := PathSetToSVG(paths, floor, 500, 750)

	if !strings.HasPrefix(out, "<?xml") || !strings.HasSuffix(out, "</svg>") {
		t.Fatalf("not an svg document: %q", out)
	}
	if n := strings.Count(out, "<polyline"); n != 2 {
		t.Errorf("expected 2 polylines, got %d", n)
	}
	if n := strings.Count(out, `class="start"`); n != 2 {
		t.Errorf("expected 2 start markers, got %d", n)
	}
	if n := strings.Count(out, `class="arrived"`); n != 2 {
		t.Errorf("expected 2 arrival markers, got %d", n)
	}
	if strings.Contains(out, `class="current"`) {
		t.Error("completed paths should have no current marker")
	}
	if !strings.Contains(out, `points="0,0 100,100 200,300"`) {
		t.Errorf("expected projected first path, got %q", out)
	}
}

func TestPathSetToSVG_Invalid(t *testing.T) {
	if PathSetToSVG(nil, walk.FloorBounds{}, 500, 750) != "" {
		t.Error("expected empty output for invalid floor")
	}
	if PathSetToSVG(nil, walk.FloorBounds{Width: 5, Length: 5}, 0, 10) != "" {
		t.Error("expected empty output for zero width")
	}
}

func TestSVGClear(t *testing.T) {
	s := NewSVG(10, 10, 1)
	s.Polyline([]image.Point{{1, 1}, {2, 2}}, "#ffffff")
	s.Clear()
	if strings.Contains(s.String(), "<polyline") {
		t.Error("clear should drop earlier elements")
	}
}
