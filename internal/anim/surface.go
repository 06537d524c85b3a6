package anim

import (
	"image"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a "#rrggbb" hex string.
type Color string

const (
	StartColor   Color = "#008000"
	ArrivedColor Color = "#ff0000"
)

type MarkerKind int

const (
	MarkerStart MarkerKind = iota
	MarkerCurrent
	MarkerArrived
)

func (k MarkerKind) String() string {
	switch k {
	case MarkerStart:
		return "start"
	case MarkerCurrent:
		return "current"
	case MarkerArrived:
		return "arrived"
	}
	return "unknown"
}

// Radius is the marker radius in surface pixels at the reference canvas size.
func (k MarkerKind) Radius() int {
	if k == MarkerCurrent {
		return 3
	}
	return 5
}

// Surface is a 2D drawing target sized in its own pixels.
type Surface interface {
	Size() (width, height int)
	Clear()
	Polyline(pts []image.Point, c Color)
	Marker(p image.Point, kind MarkerKind, c Color)
}

// Palette assigns path i of n the hue i*360/n at full saturation and half lightness.
func Palette(n int) []Color {
	colors := make([]Color, n)
	for i := range colors {
		hue := float64(i) * 360 / float64(n)
		colors[i] = Color(colorful.Hsl(hue, 1, 0.5).Clamped().Hex())
	}
	return colors
}
