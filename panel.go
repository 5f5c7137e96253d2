package comdisplay

import (
	"image"

	"github.com/flavioheleno/comdisplay/image565"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
)

// Panel is the operation set every panel driver provides.
//
// Optional capabilities are discovered with type assertions against
// GlyphDrawer, Orienter, Rotator and Blitter.
type Panel interface {
	conn.Resource

	// Init brings the controller up and leaves the panel on and blank.
	Init() error
	// Fill sets every pixel to c.
	Fill(c image565.Color) error
	// SetPixel sets one pixel. Coordinates outside Bounds fail with
	// ErrOutOfBounds before any bus activity.
	SetPixel(x, y int, c image565.Color) error
	// Bounds returns the drawable area in the current orientation.
	Bounds() image.Rectangle
}

// GlyphDrawer is implemented by panels that draw 6x12 character cells.
type GlyphDrawer interface {
	DrawGlyph(x, y int, code byte, fg, bg image565.Color) error
}

// Orienter is implemented by panels with a normal/inverted scan direction.
type Orienter interface {
	SetOrientation(normal bool) error
}

// Rotator is implemented by panels with four rotations.
type Rotator interface {
	SetRotation(r Rotation) error
}

// Blitter is implemented by panels accepting raw big-endian RGB565 pixels
// for a rectangle.
type Blitter interface {
	Blit(x, y, w, h int, pix []byte) error
}

// MonoPanel is the operation set of a 1 bit per pixel panel.
type MonoPanel interface {
	conn.Resource
	Init() error
	Fill(on bool) error
	SetPixel(x, y int, on bool) error
	Bounds() image.Rectangle
}

// MonoGlyphDrawer is implemented by monochrome panels that draw transparent
// character cells: only foreground pixels are touched.
type MonoGlyphDrawer interface {
	DrawGlyph(x, y int, code byte, on bool) error
}

// Monochrome adapts a MonoPanel to Panel. Any nonzero color is on, zero is
// off.
func Monochrome(p MonoPanel) Panel {
	return &mono{p: p}
}

type mono struct {
	p MonoPanel
}

func (m *mono) String() string { return m.p.String() }

func (m *mono) Halt() error { return m.p.Halt() }

func (m *mono) Init() error { return m.p.Init() }

func (m *mono) Fill(c image565.Color) error { return m.p.Fill(c != 0) }

func (m *mono) SetPixel(x, y int, c image565.Color) error { return m.p.SetPixel(x, y, c != 0) }

func (m *mono) Bounds() image.Rectangle { return m.p.Bounds() }

// DrawGlyph implements GlyphDrawer. bg is ignored, glyphs are transparent.
func (m *mono) DrawGlyph(x, y int, code byte, fg, bg image565.Color) error {
	g, ok := m.p.(MonoGlyphDrawer)
	if !ok {
		return ErrNotSupported
	}
	return g.DrawGlyph(x, y, code, fg != 0)
}

// SetOrientation implements Orienter.
func (m *mono) SetOrientation(normal bool) error {
	o, ok := m.p.(Orienter)
	if !ok {
		return ErrNotSupported
	}
	return o.SetOrientation(normal)
}

// Draw implements display.Drawer when the underlying panel does.
func (m *mono) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	d, ok := m.p.(display.Drawer)
	if !ok {
		return ErrNotSupported
	}
	return d.Draw(dst, src, sp)
}

// Unwrap returns the monochrome panel.
func (m *mono) Unwrap() MonoPanel {
	return m.p
}
