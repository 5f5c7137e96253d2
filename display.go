package comdisplay

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/flavioheleno/comdisplay/glyph"
	"github.com/flavioheleno/comdisplay/image565"
	"periph.io/x/conn/v3/display"
)

// Opts is the configuration of a Display.
type Opts struct {
	// Background is the cell color for character draws on panels that paint
	// opaque glyphs. Monochrome panels ignore it.
	Background image565.Color
	// Logger receives init and error records. nil discards them.
	Logger *slog.Logger
}

// Display is the one entry point applications draw through. It forwards to
// the Panel chosen at startup.
//
// Display holds no lock. Concurrent callers must serialize every call,
// including a DrawChar against a SetRotation, with a single mutex.
type Display struct {
	p   Panel
	bg  image565.Color
	log *slog.Logger
}

// New returns a Display driving p. opts may be nil.
func New(p Panel, opts *Opts) *Display {
	if opts == nil {
		opts = &Opts{}
	}
	l := opts.Logger
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	return &Display{p: p, bg: opts.Background, log: l.With("panel", p.String())}
}

// Panel returns the underlying driver.
func (d *Display) Panel() Panel {
	return d.p
}

// Init brings the panel up.
func (d *Display) Init() error {
	d.log.Info("display init")
	if err := d.p.Init(); err != nil {
		d.log.Error("display init failed", "err", err)
		return err
	}
	d.log.Info("display initialized", "bounds", d.p.Bounds())
	return nil
}

// Fill sets the whole panel to c.
func (d *Display) Fill(c image565.Color) error {
	return d.p.Fill(c)
}

// SetPixel sets the pixel at (x, y) to c.
func (d *Display) SetPixel(x, y int, c image565.Color) error {
	return d.p.SetPixel(x, y, c)
}

// DrawChar draws the glyph of code with its top-left corner at (x, y).
//
// Out of range codes fail with a CodeError on monochrome panels and are
// drawn as a space on color panels.
func (d *Display) DrawChar(x, y int, code byte, c image565.Color) error {
	g, ok := d.p.(GlyphDrawer)
	if !ok {
		return fmt.Errorf("draw char: %w", ErrNotSupported)
	}
	return g.DrawGlyph(x, y, code, c, d.bg)
}

// DrawString draws text left to right, one glyph.Width wide cell per byte.
// It stops at the first error.
func (d *Display) DrawString(x, y int, text []byte, c image565.Color) error {
	if text == nil {
		return fmt.Errorf("draw string: nil text: %w", ErrInvalidArgument)
	}
	g, ok := d.p.(GlyphDrawer)
	if !ok {
		return fmt.Errorf("draw string: %w", ErrNotSupported)
	}
	for i, code := range text {
		if err := g.DrawGlyph(x+i*glyph.Width, y, code, c, d.bg); err != nil {
			return err
		}
	}
	return nil
}

// SetOrientation selects the normal or inverted scan direction of a
// monochrome panel.
func (d *Display) SetOrientation(normal bool) error {
	o, ok := d.p.(Orienter)
	if !ok {
		return fmt.Errorf("set orientation: %w", ErrNotSupported)
	}
	return o.SetOrientation(normal)
}

// SetRotation rotates a color panel by deg degrees clockwise: 0, 90, 180 or
// 270.
func (d *Display) SetRotation(deg int) error {
	r, ok := d.p.(Rotator)
	if !ok {
		return fmt.Errorf("set rotation: %w", ErrNotSupported)
	}
	rot, err := RotationFromDegrees(deg)
	if err != nil {
		return err
	}
	if err := r.SetRotation(rot); err != nil {
		return err
	}
	d.log.Debug("rotation changed", "rotation", rot)
	return nil
}

// Blit writes w*h big-endian RGB565 pixels to the rectangle at (x, y).
func (d *Display) Blit(x, y, w, h int, pix []byte) error {
	b, ok := d.p.(Blitter)
	if !ok {
		return fmt.Errorf("blit: %w", ErrNotSupported)
	}
	return b.Blit(x, y, w, h, pix)
}

// Draw implements display.Drawer when the panel does.
func (d *Display) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	dr, ok := d.p.(display.Drawer)
	if !ok {
		return fmt.Errorf("draw: %w", ErrNotSupported)
	}
	return dr.Draw(dst, src, sp)
}

// ColorModel returns the panel's color model, RGB565 unless the panel says
// otherwise.
func (d *Display) ColorModel() color.Model {
	if m, ok := d.p.(interface{ ColorModel() color.Model }); ok {
		return m.ColorModel()
	}
	return image565.Model
}

// Bounds returns the drawable area in the current orientation.
func (d *Display) Bounds() image.Rectangle {
	return d.p.Bounds()
}

// Halt turns the panel off.
func (d *Display) Halt() error {
	return d.p.Halt()
}

func (d *Display) String() string {
	return "comdisplay.Display{" + d.p.String() + "}"
}
