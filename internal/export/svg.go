package export

import (
	"fmt"
	"image"
	"strings"

	"github.com/san-kum/pathsim/internal/anim"
	"github.com/san-kum/pathsim/internal/walk"
)

const background = "#0a0a0a"

// SVG is an anim.Surface that accumulates drawing as SVG elements.
type SVG struct {
	width, height int
	scale         float64
	body          strings.Builder
}

// NewSVG sizes the surface in floor-projected pixels. Marker radii are
// multiplied by scale.
func NewSVG(width, height int, scale float64) *SVG {
	if scale <= 0 {
		scale = 1
	}
	return &SVG{width: width, height: height, scale: scale}
}

func (s *SVG) Size() (int, int) { return s.width, s.height }

func (s *SVG) Clear() {
	s.body.Reset()
}

func (s *SVG) Polyline(pts []image.Point, c anim.Color) {
	if len(pts) == 0 {
		return
	}
	coords := make([]string, len(pts))
	for i, p := range pts {
		coords[i] = fmt.Sprintf("%d,%d", p.X, p.Y)
	}
	s.body.WriteString(fmt.Sprintf(`<polyline fill="none" stroke="%s" stroke-width="%.1f" points="%s"/>
`, c, 2*s.scale, strings.Join(coords, " ")))
}

func (s *SVG) Marker(p image.Point, kind anim.MarkerKind, c anim.Color) {
	s.body.WriteString(fmt.Sprintf(`<circle class="%s" cx="%d" cy="%d" r="%.1f" fill="%s"/>
`, kind, p.X, p.Y, float64(kind.Radius())*s.scale, c))
}

func (s *SVG) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.width, s.height, s.width, s.height, background))
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>")
	return sb.String()
}

// PathSetToSVG renders the final frame of paths: every path fully walked,
// with start and arrival markers.
func PathSetToSVG(paths walk.PathSet, floor walk.FloorBounds, width, height int) string {
	if !floor.Valid() || width <= 0 || height <= 0 {
		return ""
	}
	a := anim.New(floor)
	a.Load(paths)
	a.Seek(a.MaxLen())

	scale := float64(width) / 500
	svg := NewSVG(width, height, scale)
	a.Draw(svg)
	return svg.String()
}
