// Package ssd1306 controls a SSD1306 monochrome OLED display via I2C.
//
// The panel memory is 1 bit per pixel, organized in 8-row pages. The driver
// keeps a shadow copy of it and writes whole pages to the panel. By default
// every drawing call rewrites the full panel; Opts.DirtyPages limits the
// writes to the pages that changed.
package ssd1306

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"github.com/flavioheleno/comdisplay"
	"github.com/flavioheleno/comdisplay/glyph"
	"github.com/flavioheleno/comdisplay/transport"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Opts is the configuration for the SSD1306 display.
type Opts struct {
	W    int    // Width (default: 128, must be ≤128)
	H    int    // Height (default: 64, must be a multiple of 8 and ≤64)
	Addr uint16 // I2C address (default: 0x3C), used by NewI2C

	// DirtyPages writes only the pages a drawing call changed instead of the
	// whole panel.
	DirtyPages bool
	// BestEffort keeps sending the bring-up sequence after a failed command
	// and makes Init return the last error.
	BestEffort bool

	Font   glyph.Font   // Glyphs for DrawGlyph (default: glyph.Basic())
	Logger *slog.Logger // nil discards log records
}

// DefaultOpts is the configuration of the common 128x64 module.
var DefaultOpts = Opts{W: 128, H: 64, Addr: 0x3C}

// Dev is the device handle for the SSD1306 display.
type Dev struct {
	c    transport.Commander
	rect image.Rectangle
	font glyph.Font
	log  *slog.Logger

	// Shadow framebuffer, page-major: byte x+(y/8)*W, bit y%8.
	buf  *image1bit.VerticalLSB
	prev []byte // Copy of buf taken by Draw for change detection

	dirty      uint8 // Bit p is set while page p differs from the panel
	dirtyPages bool
	bestEffort bool

	halted bool
}

// NewI2C returns a device talking to the controller at opts.Addr on b.
//
// opts can be nil to use DefaultOpts. The panel is not touched until Init.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	addr := opts.Addr
	if addr == 0 {
		addr = DefaultOpts.Addr
	}
	return New(transport.NewI2C(b, addr), opts)
}

// New returns a device using c. opts can be nil to use DefaultOpts.
func New(c transport.Commander, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	w, h := opts.W, opts.H
	if w == 0 {
		w = DefaultOpts.W
	}
	if h == 0 {
		h = DefaultOpts.H
	}
	if w < 0 || w > 128 {
		return nil, errors.New("ssd1306: width must be between 1 and 128")
	}
	if h < 0 || h > 64 || h%8 != 0 {
		return nil, errors.New("ssd1306: height must be a multiple of 8 between 8 and 64")
	}
	f := opts.Font
	if f == nil {
		f = glyph.Basic()
	}
	l := opts.Logger
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	rect := image.Rect(0, 0, w, h)
	return &Dev{
		c:          c,
		rect:       rect,
		font:       f,
		log:        l,
		buf:        image1bit.NewVerticalLSB(rect),
		dirtyPages: opts.DirtyPages,
		bestEffort: opts.BestEffort,
	}, nil
}

// Init clears the shadow framebuffer, sends the bring-up sequence, selects
// the normal orientation and writes the blank framebuffer to the panel.
//
// Init also brings a halted device back.
func (d *Dev) Init() error {
	d.log.Info("ssd1306: init", "size", d.rect.Size(), "bus", d.c)
	clear(d.buf.Pix)
	d.dirty = d.allPages()
	d.halted = false

	var last error
	for _, step := range []func() error{
		func() error { return transport.Commands(d.c, d.initSequence(), d.bestEffort) },
		func() error { return d.orient(true, d.bestEffort) },
		d.Update,
	} {
		if err := step(); err != nil {
			if !d.bestEffort {
				d.log.Error("ssd1306: init failed", "err", err)
				return err
			}
			last = err
		}
	}
	if last != nil {
		d.log.Warn("ssd1306: init finished with errors", "err", last)
		return last
	}
	d.log.Info("ssd1306: initialized")
	return nil
}

// initSequence returns the bring-up commands. Each byte, parameters
// included, is sent as its own command transaction.
func (d *Dev) initSequence() []byte {
	comPins := byte(0x12) // Alternative COM pin configuration
	if d.rect.Dy() <= 32 {
		comPins = 0x02 // Sequential COM pin configuration
	}
	return []byte{
		0xAE,       // Display OFF
		0xD5, 0x80, // Clock divider and oscillator frequency
		0xA8, byte(d.rect.Dy() - 1), // Multiplex ratio
		0xD3, 0x00, // Display offset
		0x40,       // Start line 0
		0x8D, 0x14, // Charge pump on
		0x20, 0x00, // Horizontal memory addressing mode
		0xA0,          // Segment remap: column 0 is SEG0
		0xC0,          // COM scan direction: increasing
		0xDA, comPins, // COM pins hardware configuration
		0x81, 0xCF, // Contrast
		0xD9, 0xF1, // Pre-charge period
		0xDB, 0x40, // VCOMH deselect level
		0xA4, // Display follows RAM content
		0xA6, // Normal display mode
		0xAF, // Display ON
	}
}

func (d *Dev) allPages() uint8 {
	return uint8(1<<uint(d.rect.Dy()/8) - 1)
}

// Fill sets every pixel on or off and writes the whole panel.
func (d *Dev) Fill(on bool) error {
	if d.halted {
		return fmt.Errorf("ssd1306: %w", comdisplay.ErrHalted)
	}
	v := byte(0x00)
	if on {
		v = 0xFF
	}
	for i := range d.buf.Pix {
		d.buf.Pix[i] = v
	}
	d.dirty = d.allPages()
	return d.Update()
}

// SetPixel sets the pixel at (x, y) on or off, then writes it to the panel.
func (d *Dev) SetPixel(x, y int, on bool) error {
	if d.halted {
		return fmt.Errorf("ssd1306: %w", comdisplay.ErrHalted)
	}
	if !(image.Point{x, y}).In(d.rect) {
		return fmt.Errorf("ssd1306: pixel (%d, %d): %w", x, y, comdisplay.ErrOutOfBounds)
	}
	d.set(x, y, on)
	return d.flush()
}

// Bit reports whether the pixel at (x, y) is on in the shadow framebuffer.
// Pixels outside the panel are off.
func (d *Dev) Bit(x, y int) bool {
	return bool(d.buf.BitAt(x, y))
}

// set updates one shadow bit and marks its page dirty if it changed.
func (d *Dev) set(x, y int, on bool) {
	if bool(d.buf.BitAt(x, y)) == on {
		return
	}
	d.buf.SetBit(x, y, image1bit.Bit(on))
	d.dirty |= 1 << uint(y/8)
}

// flush writes pixel changes to the panel according to the update policy.
func (d *Dev) flush() error {
	if d.dirtyPages {
		return d.writePages(d.dirty)
	}
	return d.Update()
}

// DrawGlyph draws the foreground pixels of the glyph of code with its
// top-left corner at (x, y). Background pixels are left untouched, as are
// glyph pixels falling outside the panel.
//
// Codes outside 32..126 fail with a comdisplay.CodeError before any bus
// activity.
func (d *Dev) DrawGlyph(x, y int, code byte, on bool) error {
	if d.halted {
		return fmt.Errorf("ssd1306: %w", comdisplay.ErrHalted)
	}
	if !glyph.Printable(code) {
		return fmt.Errorf("ssd1306: %w", comdisplay.CodeError(code))
	}
	bm, ok := d.font.Glyph(code)
	if !ok {
		return fmt.Errorf("ssd1306: %w", comdisplay.CodeError(code))
	}
	// The bottom row is drawn first, matching the COM scan order.
	for row := glyph.Height - 1; row >= 0; row-- {
		for col := 0; col < glyph.Width; col++ {
			if !bm.Pixel(col, row) {
				continue
			}
			p := image.Point{x + col, y + row}
			if !p.In(d.rect) {
				continue
			}
			d.set(p.X, p.Y, on)
			if !d.dirtyPages {
				if err := d.Update(); err != nil {
					return err
				}
			}
		}
	}
	if d.dirtyPages {
		return d.writePages(d.dirty)
	}
	return nil
}

// SetOrientation selects the scan direction: normal draws column 0 at the
// left and row 0 at the top, inverted rotates the picture by 180°. The
// framebuffer is not touched.
func (d *Dev) SetOrientation(normal bool) error {
	if d.halted {
		return fmt.Errorf("ssd1306: %w", comdisplay.ErrHalted)
	}
	return d.orient(normal, false)
}

func (d *Dev) orient(normal, bestEffort bool) error {
	cmds := []byte{0xA0, 0xC0} // Segment remap off, COM scan increasing
	if !normal {
		cmds = []byte{0xA1, 0xC8} // Segment remap on, COM scan decreasing
	}
	return transport.Commands(d.c, cmds, bestEffort)
}

// Update writes the whole shadow framebuffer to the panel, one page at a
// time.
func (d *Dev) Update() error {
	return d.writePages(d.allPages())
}

// writePages writes the pages selected by mask. Each page gets its own
// column and page address range because the controller memory is page-major.
func (d *Dev) writePages(mask uint8) error {
	w := d.rect.Dx()
	for p := 0; p < d.rect.Dy()/8; p++ {
		if mask&(1<<uint(p)) == 0 {
			continue
		}
		cmds := []byte{
			0x21, 0x00, byte(w - 1), // Column address range
			0x22, byte(p), byte(p), // Page address range
		}
		if err := transport.Commands(d.c, cmds, false); err != nil {
			return err
		}
		off := p * d.buf.Stride
		if err := d.c.WriteData(d.buf.Pix[off : off+w]); err != nil {
			return err
		}
		d.dirty &^= 1 << uint(p)
	}
	return nil
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw implements display.Drawer. src is converted to on/off pixels in the
// shadow framebuffer and only the pages that changed are written.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return fmt.Errorf("ssd1306: %w", comdisplay.ErrHalted)
	}
	r := dst.Intersect(d.rect)
	if r.Empty() {
		return nil
	}
	if d.prev == nil {
		d.prev = make([]byte, len(d.buf.Pix))
	}
	copy(d.prev, d.buf.Pix)
	draw.Draw(d.buf, r, src, sp.Add(r.Min.Sub(dst.Min)), draw.Src)

	w := d.rect.Dx()
	for p := r.Min.Y / 8; p <= (r.Max.Y-1)/8; p++ {
		off := p * d.buf.Stride
		if !bytes.Equal(d.prev[off:off+w], d.buf.Pix[off:off+w]) {
			d.dirty |= 1 << uint(p)
		}
	}
	return d.writePages(d.dirty)
}

// SetContrast sets the display contrast (0-255).
func (d *Dev) SetContrast(level byte) error {
	if d.halted {
		return fmt.Errorf("ssd1306: %w", comdisplay.ErrHalted)
	}
	return transport.Commands(d.c, []byte{0x81, level}, false)
}

// Invert inverts the display colors (on pixels become off and vice versa)
// without touching the framebuffer.
func (d *Dev) Invert(invert bool) error {
	if d.halted {
		return fmt.Errorf("ssd1306: %w", comdisplay.ErrHalted)
	}
	mode := byte(0xA6) // Normal display
	if invert {
		mode = 0xA7 // Inverted display
	}
	return d.c.WriteCommand(mode)
}

// Halt turns the display off. Drawing fails with comdisplay.ErrHalted until
// the next Init.
func (d *Dev) Halt() error {
	d.halted = true
	return d.c.WriteCommand(0xAE) // Display OFF
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("ssd1306.Dev{%dx%d}", d.rect.Dx(), d.rect.Dy())
}

// ScrollSpeed is the number of frames between horizontal scroll steps.
type ScrollSpeed byte

// Scroll step intervals, encoded as the controller expects them.
const (
	Speed2Frames   ScrollSpeed = 0x07
	Speed3Frames   ScrollSpeed = 0x04
	Speed4Frames   ScrollSpeed = 0x05
	Speed5Frames   ScrollSpeed = 0x00
	Speed25Frames  ScrollSpeed = 0x06
	Speed64Frames  ScrollSpeed = 0x01
	Speed128Frames ScrollSpeed = 0x02
	Speed256Frames ScrollSpeed = 0x03
)

// ScrollHorizontal starts continuous horizontal scrolling of the pages
// startPage through endPage. If right is true, scrolls right; otherwise
// scrolls left.
func (d *Dev) ScrollHorizontal(startPage, endPage byte, speed ScrollSpeed, right bool) error {
	if d.halted {
		return fmt.Errorf("ssd1306: %w", comdisplay.ErrHalted)
	}
	pages := d.rect.Dy() / 8
	if int(startPage) >= pages || int(endPage) >= pages || startPage > endPage {
		return fmt.Errorf("ssd1306: scroll pages %d-%d: %w", startPage, endPage, comdisplay.ErrOutOfBounds)
	}
	if speed > Speed2Frames {
		return fmt.Errorf("ssd1306: scroll speed %#x: %w", byte(speed), comdisplay.ErrInvalidArgument)
	}
	scrollCmd := byte(0x27) // Left
	if right {
		scrollCmd = 0x26 // Right
	}
	return transport.Commands(d.c, []byte{
		0x2E, // Scrolling must be off while it is configured
		scrollCmd,
		0x00, // Dummy byte
		startPage,
		byte(speed),
		endPage,
		0x00, 0xFF, // Dummy bytes
		0x2F, // Activate scroll
	}, false)
}

// StopScroll stops scrolling and rewrites the panel from the shadow
// framebuffer, since scrolling moves the panel memory.
func (d *Dev) StopScroll() error {
	if d.halted {
		return fmt.Errorf("ssd1306: %w", comdisplay.ErrHalted)
	}
	if err := d.c.WriteCommand(0x2E); err != nil {
		return err
	}
	return d.Update()
}
