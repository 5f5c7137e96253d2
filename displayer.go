package comdisplay

import (
	"errors"
	"image/color"

	"github.com/flavioheleno/comdisplay/image565"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Displayer returns a tinygo drivers.Displayer drawing through d, so tinygo
// graphics packages such as tinyfont can target any panel.
//
// SetPixel has no error result in that interface: pixels outside the panel
// are dropped silently and the first other failure is kept and reported by
// Display.
func (d *Display) Displayer() drivers.Displayer {
	return &displayer{d: d}
}

type displayer struct {
	d   *Display
	err error
}

func (p *displayer) Size() (x, y int16) {
	b := p.d.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (p *displayer) SetPixel(x, y int16, c color.RGBA) {
	if p.err != nil {
		return
	}
	err := p.d.SetPixel(int(x), int(y), image565.RGB(c.R, c.G, c.B))
	if err != nil && !errors.Is(err, ErrOutOfBounds) {
		p.err = err
	}
}

// Display returns the first error SetPixel hit since the last call.
func (p *displayer) Display() error {
	err := p.err
	p.err = nil
	return err
}

// DrawText renders s with a tinyfont font, baseline at y.
//
// Each lit font pixel is a SetPixel call, so on monochrome panels without
// dirty page tracking every pixel flushes the whole panel.
func (d *Display) DrawText(x, y int16, f tinyfont.Fonter, s string, c color.RGBA) error {
	p := &displayer{d: d}
	tinyfont.WriteLine(p, f, x, y, s, c)
	return p.Display()
}
