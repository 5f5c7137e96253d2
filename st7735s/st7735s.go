// Package st7735s controls a ST7735S RGB565 TFT display via SPI.
//
// The controller is driven through a four-wire SPI connection: the D/C pin
// selects between command and data bytes. A RST pin is optional.
//
// Use NewSPI with a periph.io SPI port, or New with any transport.Commander,
// for instance one built with transport.NewTinyGoSPI.
package st7735s

import (
	"fmt"
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
const Frequency = 15 * physic.MegaHertz

// Opts is the configuration for the ST7735S display.
type Opts struct {
	W int // Width (default: 128, must be ≤132)
	H int // Height (default: 160, must be ≤162)

	RST gpio.PinOut // Reset pin (optional, nil if not used)

	// BestEffort keeps sending the bring-up sequence after a failed command
	// and makes Init return the last error.
	BestEffort bool

	Font   glyph.Font          // Glyphs for DrawGlyph (default: glyph.Basic())
	Logger *slog.Logger        // nil discards log records
	Sleep  func(time.Duration) // Delay primitive (default: time.Sleep)
}

var controller = tft.Controller{
	Name: "st7735s",
	W:    128, H: 160,
	MaxW: 132, MaxH: 162,
	ResetHold: 150 * time.Millisecond,
	Init: []transport.Step{
		{Cmd: 0x01, Delay: 150 * time.Millisecond},                // Software reset
		{Cmd: 0x11, Delay: 255 * time.Millisecond},                // Sleep out
		{Cmd: 0xB1, Data: []byte{0x01, 0x2C, 0x2D}},               // Frame rate, normal mode
		{Cmd: 0xB2, Data: []byte{0x01, 0x2C, 0x2D}},               // Frame rate, idle mode
		{Cmd: 0xB3, Data: []byte{ // Frame rate, partial mode
			0x01, 0x2C, 0x2D, 0x01, 0x2C, 0x2D,
		}},
		{Cmd: 0xC0, Data: []byte{0xA2, 0x02, 0x84}},               // Power control 1
		{Cmd: 0xC1, Data: []byte{0xC5}},                           // Power control 2
		{Cmd: 0xC2, Data: []byte{0x0A, 0x00}},                     // Power control 3
		{Cmd: 0xC3, Data: []byte{0x8A, 0x2A}},                     // Power control 4
		{Cmd: 0xC4, Data: []byte{0x8A, 0xEE}},                     // Power control 5
		{Cmd: 0xC5, Data: []byte{0x0E}},                           // VCOM control
		{Cmd: 0x20},                                               // Inversion off
		{Cmd: 0x3A, Data: []byte{0x05}},                           // 16-bit RGB565
		{Cmd: 0xE0, Data: []byte{ // Positive gamma
			0x0F, 0x1A, 0x0F, 0x18, 0x2F, 0x28, 0x20, 0x22,
			0x1F, 0x1B, 0x23, 0x37, 0x00, 0x07, 0x02, 0x10,
		}},
		{Cmd: 0xE1, Data: []byte{ // Negative gamma
			0x0F, 0x1B, 0x0F, 0x17, 0x33, 0x2C, 0x29, 0x2E,
			0x30, 0x30, 0x39, 0x3F, 0x00, 0x07, 0x03, 0x10,
		}},
		{Cmd: 0x13, Delay: 10 * time.Millisecond},  // Normal display mode
		{Cmd: 0x29, Delay: 100 * time.Millisecond}, // Display on
	},
	// MADCTL: MY=0x80, MX=0x40, MV=0x20, BGR=0x08.
	Madctl:    [4]byte{0x08, 0x68, 0xC8, 0xA8},
	FillChunk: 4096,
	BlitChunk: 4092,
}

// Dev is the device handle for the ST7735S display.
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
		return nil, fmt.Errorf("st7735s: %w", err)
	}
	return New(c, opts)
}

// New returns a device using c. opts can be nil to use defaults.
func New(c transport.Commander, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
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
	d, err := tft.New(c, &controller, o)
	if err != nil {
		return nil, err
	}
	return &Dev{Dev: d}, nil
}
