// Package tft implements the address window protocol of RGB565 TFT
// controllers: a column range (0x2A), a row range (0x2B) and a memory write
// (0x2C) followed by pixel data, with addressing direction set through
// MADCTL (0x36).
//
// Controller packages describe their bring-up sequence and register values
// with a Controller and embed Dev.
package tft

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"time"

	"github.com/flavioheleno/comdisplay"
	"github.com/flavioheleno/comdisplay/glyph"
	"github.com/flavioheleno/comdisplay/image565"
	"github.com/flavioheleno/comdisplay/transport"
)

// Commands common to the family.
const (
	cmdDisplayOff = 0x28
	cmdColumnSet  = 0x2A
	cmdRowSet     = 0x2B
	cmdMemWrite   = 0x2C
	cmdMadctl     = 0x36
	cmdInvertOff  = 0x20
	cmdInvertOn   = 0x21
)

// Controller describes one controller model.
type Controller struct {
	Name string // Lower case model name, e.g. "st7789"

	W, H       int // Default panel size
	MaxW, MaxH int // Controller RAM size

	ResetHold time.Duration    // RST low and settle time
	Init      []transport.Step // Bring-up sequence, run after the reset pulse

	Madctl  [4]byte        // MADCTL value per rotation
	Offsets [4]image.Point // Panel origin in controller RAM per rotation

	FillChunk int // Largest data write used by Fill, in bytes
	BlitChunk int // Largest data write used by Blit, in bytes
}

// Opts is the configuration shared by the controller packages.
type Opts struct {
	W, H       int // Panel size, 0 for the controller default
	RST        transport.Pin
	BestEffort bool
	Sleep      func(time.Duration)
	Font       glyph.Font
	Logger     *slog.Logger
}

// Dev drives one panel. It holds the current rotation and the MADCTL value
// programmed for it; the address window itself is not cached and is
// programmed before every pixel write.
type Dev struct {
	c     transport.Commander
	ctl   *Controller
	w, h  int
	rst   transport.Pin
	sleep func(time.Duration)
	font  glyph.Font
	log   *slog.Logger

	bestEffort bool

	rot    comdisplay.Rotation
	madctl byte
	off    image.Point

	buf    []byte // Fill pattern, reused
	halted bool
}

// New returns a Dev for ctl using c. The panel is not touched until Init.
func New(c transport.Commander, ctl *Controller, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}
	w, h := opts.W, opts.H
	if w == 0 {
		w = ctl.W
	}
	if h == 0 {
		h = ctl.H
	}
	if w < 0 || w > ctl.MaxW {
		return nil, fmt.Errorf("%s: width must be between 1 and %d", ctl.Name, ctl.MaxW)
	}
	if h < 0 || h > ctl.MaxH {
		return nil, fmt.Errorf("%s: height must be between 1 and %d", ctl.Name, ctl.MaxH)
	}
	if c == nil {
		return nil, errors.New(ctl.Name + ": a transport is required")
	}
	d := &Dev{
		c:          c,
		ctl:        ctl,
		w:          w,
		h:          h,
		rst:        opts.RST,
		sleep:      opts.Sleep,
		font:       opts.Font,
		log:        opts.Logger,
		bestEffort: opts.BestEffort,
		madctl:     ctl.Madctl[comdisplay.Rotation0],
		off:        ctl.Offsets[comdisplay.Rotation0],
	}
	if d.sleep == nil {
		d.sleep = time.Sleep
	}
	if d.font == nil {
		d.font = glyph.Basic()
	}
	if d.log == nil {
		d.log = slog.New(slog.DiscardHandler)
	}
	return d, nil
}

// Init pulses the reset line when one is configured, runs the bring-up
// sequence and selects rotation 0.
//
// It stops at the first failure unless BestEffort is set, in which case every
// step runs and the last failure is returned.
func (d *Dev) Init() error {
	d.log.Info(d.ctl.Name+": init", "size", image.Pt(d.w, d.h), "bus", d.c)
	d.halted = false

	var last error
	fail := func(err error) bool {
		if err == nil {
			return false
		}
		if !d.bestEffort {
			d.log.Error(d.ctl.Name+": init failed", "err", err)
			return true
		}
		last = err
		return false
	}
	if d.rst != nil {
		if err := transport.Reset(d.rst, d.ctl.ResetHold, d.sleep); fail(err) {
			return err
		}
	}
	if err := transport.Run(d.c, d.ctl.Init, d.sleep, d.bestEffort); fail(err) {
		return err
	}
	if err := d.SetRotation(comdisplay.Rotation0); fail(err) {
		return err
	}
	if last != nil {
		d.log.Warn(d.ctl.Name+": init finished with errors", "err", last)
		return last
	}
	d.log.Info(d.ctl.Name + ": initialized")
	return nil
}

// Rotation returns the current rotation.
func (d *Dev) Rotation() comdisplay.Rotation {
	return d.rot
}

// Size returns the panel size in the current rotation.
func (d *Dev) Size() (w, h int) {
	if d.rot.Swapped() {
		return d.h, d.w
	}
	return d.w, d.h
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	w, h := d.Size()
	return image.Rect(0, 0, w, h)
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image565.Model
}

// SetRotation programs the MADCTL value of r.
func (d *Dev) SetRotation(r comdisplay.Rotation) error {
	if d.halted {
		return fmt.Errorf("%s: %w", d.ctl.Name, comdisplay.ErrHalted)
	}
	if !r.Valid() {
		return fmt.Errorf("%s: rotation %v: %w", d.ctl.Name, r, comdisplay.ErrInvalidArgument)
	}
	v := d.ctl.Madctl[r]
	if err := d.writeMadctl(v); err != nil {
		return err
	}
	d.rot, d.madctl, d.off = r, v, d.ctl.Offsets[r]
	d.log.Debug(d.ctl.Name+": rotation set", "rotation", r, "madctl", v)
	return nil
}

func (d *Dev) writeMadctl(v byte) error {
	if err := d.c.WriteCommand(cmdMadctl); err != nil {
		return err
	}
	return d.c.WriteData([]byte{v})
}

// setWindow latches the inclusive rectangle (x0, y0)-(x1, y1) and starts a
// memory write. Pixel data must follow immediately.
func (d *Dev) setWindow(x0, y0, x1, y1 int) error {
	x0, x1 = x0+d.off.X, x1+d.off.X
	y0, y1 = y0+d.off.Y, y1+d.off.Y
	if err := d.c.WriteCommand(cmdColumnSet); err != nil {
		return err
	}
	if err := d.c.WriteData([]byte{byte(x0 >> 8), byte(x0), byte(x1 >> 8), byte(x1)}); err != nil {
		return err
	}
	if err := d.c.WriteCommand(cmdRowSet); err != nil {
		return err
	}
	if err := d.c.WriteData([]byte{byte(y0 >> 8), byte(y0), byte(y1 >> 8), byte(y1)}); err != nil {
		return err
	}
	return d.c.WriteCommand(cmdMemWrite)
}

// chunk returns the largest even write size not above limit nor the
// transport maximum.
func (d *Dev) chunk(limit int) int {
	n := limit
	if m := d.c.MaxTxSize(); m > 0 && (n <= 0 || m < n) {
		n = m
	}
	n &^= 1
	if n < 2 {
		n = 2
	}
	return n
}

// SetPixel sets the pixel at (x, y) to c.
func (d *Dev) SetPixel(x, y int, c image565.Color) error {
	if d.halted {
		return fmt.Errorf("%s: %w", d.ctl.Name, comdisplay.ErrHalted)
	}
	if !(image.Point{x, y}).In(d.Bounds()) {
		return fmt.Errorf("%s: pixel (%d, %d): %w", d.ctl.Name, x, y, comdisplay.ErrOutOfBounds)
	}
	if err := d.setWindow(x, y, x, y); err != nil {
		return err
	}
	b := c.Bytes()
	return d.c.WriteData(b[:])
}

// Fill sets every pixel to c, streaming the color in writes of at most
// FillChunk bytes.
func (d *Dev) Fill(c image565.Color) error {
	if d.halted {
		return fmt.Errorf("%s: %w", d.ctl.Name, comdisplay.ErrHalted)
	}
	w, h := d.Size()
	if err := d.setWindow(0, 0, w-1, h-1); err != nil {
		return err
	}
	n := d.chunk(d.ctl.FillChunk)
	if total := w * h * 2; n > total {
		n = total
	}
	if cap(d.buf) < n {
		d.buf = make([]byte, n)
	}
	buf := d.buf[:n]
	b := c.Bytes()
	for i := 0; i < n; i += 2 {
		buf[i], buf[i+1] = b[0], b[1]
	}
	return transport.Chunks(w*h*2, n, func(_, k int) error {
		return d.c.WriteData(buf[:k])
	})
}

// Blit writes w*h big-endian RGB565 pixels from pix, row by row, to the
// rectangle with its top-left corner at (x, y). Only the first w*h*2 bytes of
// pix are read; writes are at most BlitChunk bytes.
func (d *Dev) Blit(x, y, w, h int, pix []byte) error {
	if d.halted {
		return fmt.Errorf("%s: %w", d.ctl.Name, comdisplay.ErrHalted)
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%s: blit size %dx%d: %w", d.ctl.Name, w, h, comdisplay.ErrInvalidArgument)
	}
	n := w * h * 2
	if len(pix) < n {
		return fmt.Errorf("%s: blit of %dx%d needs %d bytes, got %d: %w", d.ctl.Name, w, h, n, len(pix), comdisplay.ErrInvalidArgument)
	}
	if r := image.Rect(x, y, x+w, y+h); !r.In(d.Bounds()) {
		return fmt.Errorf("%s: blit %v: %w", d.ctl.Name, r, comdisplay.ErrOutOfBounds)
	}
	if err := d.setWindow(x, y, x+w-1, y+h-1); err != nil {
		return err
	}
	return transport.Chunks(n, d.chunk(d.ctl.BlitChunk), func(off, k int) error {
		return d.c.WriteData(pix[off : off+k])
	})
}

// DrawGlyph draws the glyph of code with its top-left corner at (x, y),
// painting foreground pixels fg and background pixels bg. Codes without a
// glyph are drawn as a space.
//
// The cell is drawn with the rotation 0 addressing mode, so (x, y) are panel
// coordinates in rotation 0 whatever the current rotation; the current
// MADCTL value is written back afterwards, also on failure. A SetRotation
// issued concurrently with DrawGlyph leaves the panel in the wrong rotation.
func (d *Dev) DrawGlyph(x, y int, code byte, fg, bg image565.Color) error {
	if d.halted {
		return fmt.Errorf("%s: %w", d.ctl.Name, comdisplay.ErrHalted)
	}
	bm, ok := d.font.Glyph(code)
	if !ok || !glyph.Printable(code) {
		bm, _ = d.font.Glyph(' ')
	}
	if r := image.Rect(x, y, x+glyph.Width, y+glyph.Height); !r.In(image.Rect(0, 0, d.w, d.h)) {
		return fmt.Errorf("%s: glyph cell %v: %w", d.ctl.Name, r, comdisplay.ErrOutOfBounds)
	}

	var cell [glyph.Width * glyph.Height * 2]byte
	f, b := fg.Bytes(), bg.Bytes()
	i := 0
	for row := 0; row < glyph.Height; row++ {
		for col := 0; col < glyph.Width; col++ {
			p := b
			if bm.Pixel(col, row) {
				p = f
			}
			cell[i], cell[i+1] = p[0], p[1]
			i += 2
		}
	}

	saved := d.off
	err := d.writeMadctl(d.ctl.Madctl[comdisplay.Rotation0])
	if err == nil {
		d.off = d.ctl.Offsets[comdisplay.Rotation0]
		err = d.setWindow(x, y, x+glyph.Width-1, y+glyph.Height-1)
	}
	if err == nil {
		err = d.c.WriteData(cell[:])
	}
	d.off = saved
	if rerr := d.writeMadctl(d.madctl); err == nil {
		err = rerr
	}
	return err
}

// Draw implements display.Drawer. src is converted to RGB565 and blitted to
// the part of dst inside the panel.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return fmt.Errorf("%s: %w", d.ctl.Name, comdisplay.ErrHalted)
	}
	r := dst.Intersect(d.Bounds())
	if r.Empty() {
		return nil
	}
	sp = sp.Add(r.Min.Sub(dst.Min))

	// Fast path: src is exactly the RGB565 pixels of r.
	if img, ok := src.(*image565.Image); ok && img.Stride == 2*r.Dx() && img.Rect == (image.Rectangle{Min: sp, Max: sp.Add(r.Size())}) {
		return d.Blit(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), img.Pix)
	}
	img := image565.NewImage(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(img, img.Rect, src, sp, draw.Src)
	return d.Blit(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), img.Pix)
}

// Invert turns color inversion on or off.
func (d *Dev) Invert(invert bool) error {
	if d.halted {
		return fmt.Errorf("%s: %w", d.ctl.Name, comdisplay.ErrHalted)
	}
	cmd := byte(cmdInvertOff)
	if invert {
		cmd = cmdInvertOn
	}
	return d.c.WriteCommand(cmd)
}

// Halt turns the display off. Drawing fails with comdisplay.ErrHalted until
// the next Init.
func (d *Dev) Halt() error {
	d.halted = true
	return d.c.WriteCommand(cmdDisplayOff)
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("%s.Dev{%dx%d}", d.ctl.Name, d.w, d.h)
}
