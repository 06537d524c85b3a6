package viz

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/pathsim/internal/anim"
)

const (
	cellW = 8
	cellH = 16
)

var ErrNoFrames = errors.New("viz: no frames recorded")

// Recording collects canvas frames for a GIF. Colors are added to a shared
// palette as they appear; index 0 is the background and 1 uncolored dots.
type Recording struct {
	frames  []*image.Paletted
	delays  []int
	palette color.Palette
	index   map[anim.Color]uint8
}

func NewRecording() *Recording {
	return &Recording{
		palette: color.Palette{color.Black, color.White},
		index:   map[anim.Color]uint8{"": 1},
	}
}

func (r *Recording) Len() int { return len(r.frames) }

// Capture rasterizes the canvas; delay is how long the frame stays shown.
func (r *Recording) Capture(c *Canvas, delay time.Duration) {
	img := image.NewPaletted(image.Rect(0, 0, c.Width*cellW, c.Height*cellH), nil)
	dotW, dotH := cellW/2, cellH/4

	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pattern := int(c.Grid[row][col] - blank)
			if pattern <= 0 {
				continue
			}
			idx := r.colorIndex(c.Colors[row][col])
			baseX, baseY := col*cellW, row*cellH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, idx)
						}
					}
				}
			}
		}
	}

	r.frames = append(r.frames, img)
	d := int(delay / (10 * time.Millisecond))
	if d < 1 {
		d = 1
	}
	r.delays = append(r.delays, d)
}

func (r *Recording) colorIndex(c anim.Color) uint8 {
	if idx, ok := r.index[c]; ok {
		return idx
	}
	if len(r.palette) >= 256 {
		return 1
	}
	parsed, err := colorful.Hex(string(c))
	if err != nil {
		return 1
	}
	idx := uint8(len(r.palette))
	r.palette = append(r.palette, parsed)
	r.index[c] = idx
	return idx
}

// Save writes the recording as a looping GIF.
func (r *Recording) Save(path string) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	out := gif.GIF{LoopCount: 0}
	for i, frame := range r.frames {
		frame.Palette = r.palette
		out.Image = append(out.Image, frame)
		out.Delay = append(out.Delay, r.delays[i])
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &out)
}
