// Package st7789 controls a ST7789 RGB565 TFT display via SPI.
//
// The controller RAM is 240x320. On the common 240x240 modules the visible
// area starts 80 rows or columns into RAM when the panel is rotated by 180°
// or 270°; New derives these offsets from the panel height.
package st7789

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/flavioheleno/comdisplay/glyph"
	"github.com/flavioheleno/comdisplay/internal/tft"
	"github.com/flavioheleno/comdisplay/transport"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Frequency is the SPI clock used by NewSPI.
const Frequency = 40 * physic.MegaHertz

// Opts is the configuration for the ST7789 display.
type Opts struct {
	W int // Width (default: 240, must be ≤240)
	H int // Height (default: 240, must be ≤320)

	// Offsets overrides the panel origin in controller RAM, per rotation.
	Offsets *[4]image.Point

	RST gpio.PinOut // Reset pin (optional, nil if not used)

	// BestEffort keeps sending the bring-up sequence after a failed command
	// and makes Init return the last error.
	BestEffort bool

	Font   glyph.Font          // Glyphs for DrawGlyph (default: glyph.Basic())
	Logger *slog.Logger        // nil discards log records
	Sleep  func(time.Duration) // Delay primitive (default: time.Sleep)
}

var controller = tft.Controller{
	Name: "st7789",
	W:    240, H: 240,
	MaxW: 240, MaxH: 320,
	ResetHold: 120 * time.Millisecond,
	Init: []transport.Step{
		{Cmd: 0x01, Delay: 150 * time.Millisecond},              // Software reset
		{Cmd: 0x11, Delay: 120 * time.Millisecond},              // Sleep out
		{Cmd: 0x3A, Data: []byte{0x55}},                         // 16-bit RGB565
		{Cmd: 0xB2, Data: []byte{0x0C, 0x0C, 0x00, 0x33, 0x33}}, // Porch control
		{Cmd: 0xB7, Data: []byte{0x35}},                         // Gate control
		{Cmd: 0xBB, Data: []byte{0x19}},                         // VCOM setting
		{Cmd: 0xC0, Data: []byte{0x2C}},                         // LCM control
		{Cmd: 0xC2, Data: []byte{0x01}},                         // VDV and VRH enable
		{Cmd: 0xC3, Data: []byte{0x12}},                         // VRH set
		{Cmd: 0xC4, Data: []byte{0x20}},                         // VDV set
		{Cmd: 0xC6, Data: []byte{0x0F}},                         // Frame rate, 60Hz
		{Cmd: 0xD0, Data: []byte{0xA4, 0xA1}},                   // Power control 1
		{Cmd: 0xE0, Data: []byte{ // Positive gamma
			0xD0, 0x04, 0x0D, 0x11, 0x13, 0x2B, 0x3F,
			0x54, 0x4C, 0x18, 0x0D, 0x0B, 0x1F, 0x23,
		}},
		{Cmd: 0xE1, Data: []byte{ // Negative gamma
			0xD0, 0x04, 0x0C, 0x11, 0x13, 0x2C, 0x3F,
			0x44, 0x51, 0x2F, 0x1F, 0x1F, 0x20, 0x23,
		}},
		{Cmd: 0x21},                                // Inversion on, the IPS glass is inverted
		{Cmd: 0x13, Delay: 10 * time.Millisecond},  // Normal display mode
		{Cmd: 0x29, Delay: 100 * time.Millisecond}, // Display on
	},
	// MADCTL: MY=0x80, MX=0x40, MV=0x20.
	Madctl:    [4]byte{0x00, 0x60, 0xC0, 0xA0},
	FillChunk: 4096,
	BlitChunk: 4092,
}

// Dev is the device handle for the ST7789 display.
type Dev struct {
	*tft.Dev
}

// NewSPI returns a device on the SPI port p, using dc as the D/C pin.
//
// The SPI port is configured for Frequency, Mode0 (CPOL=0, CPHA=0), 8-bit
// transfers. opts can be nil to use defaults. The panel is not touched until
// Init.
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	c, err := transport.NewSPI(p, dc, Frequency)
	if err != nil {
		return nil, fmt.Errorf("st7789: %w", err)
	}
	return New(c, opts)
}

// New returns a device using c. opts can be nil to use defaults.
func New(c transport.Commander, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}
	ctl := controller
	if opts.Offsets != nil {
		ctl.Offsets = *opts.Offsets
	} else {
		h := opts.H
		if h == 0 {
			h = ctl.H
		}
		if gap := ctl.MaxH - h; gap > 0 {
			ctl.Offsets[2] = image.Pt(0, gap)
			ctl.Offsets[3] = image.Pt(gap, 0)
		}
	}
	o := &tft.Opts{
		W:          opts.W,
		H:          opts.H,
		BestEffort: opts.BestEffort,
		Sleep:      opts.Sleep,
		Font:       opts.Font,
		Logger:     opts.Logger,
	}
	if opts.RST != nil {
		o.RST = opts.RST
	}
	d, err := tft.New(c, &ctl, o)
	if err != nil {
		return nil, err
	}
	return &Dev{Dev: d}, nil
}
