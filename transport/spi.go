package transport

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"tinygo.org/x/drivers"
)

// SPI is a four-wire Commander: the D/C line is driven low for command bytes
// and high for data bytes.
type SPI struct {
	tx   func(w []byte) error
	dc   Pin
	name string
	max  int
	cmd  [1]byte
}

// NewSPI connects to a periph.io SPI port in Mode0 with 8-bit words.
//
// When the connection reports a transaction size limit through conn.Limits,
// WriteData honors it.
func NewSPI(p spi.Port, dc gpio.PinOut, f physic.Frequency) (*SPI, error) {
	if dc == nil {
		return nil, errors.New("transport: D/C pin is required")
	}
	c, err := p.Connect(f, spi.Mode0, 8)
	if err != nil {
		return nil, &Error{Op: "connect", Err: err}
	}
	t := &SPI{
		tx:   func(w []byte) error { return c.Tx(w, nil) },
		dc:   dc,
		name: c.String(),
	}
	if l, ok := c.(conn.Limits); ok {
		t.max = l.MaxTxSize()
	}
	return t, nil
}

// NewTinyGoSPI wraps a configured tinygo drivers SPI bus. maxTx is the
// hardware transaction ceiling in bytes, 0 for none.
func NewTinyGoSPI(b drivers.SPI, dc Pin, maxTx int) *SPI {
	return &SPI{
		tx:   func(w []byte) error { return b.Tx(w, nil) },
		dc:   dc,
		name: "tinygo-spi",
		max:  maxTx,
	}
}

// WriteCommand implements Commander.
func (t *SPI) WriteCommand(cmd byte) error {
	if err := t.dc.Out(gpio.Low); err != nil {
		return &Error{Op: "set D/C low", Err: err}
	}
	t.cmd[0] = cmd
	if err := t.tx(t.cmd[:]); err != nil {
		return &Error{Op: fmt.Sprintf("write command %#02x", cmd), Err: err}
	}
	return nil
}

// WriteData implements Commander.
func (t *SPI) WriteData(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := t.dc.Out(gpio.High); err != nil {
		return &Error{Op: "set D/C high", Err: err}
	}
	return Chunks(len(data), t.max, func(off, n int) error {
		if err := t.tx(data[off : off+n]); err != nil {
			return &Error{Op: fmt.Sprintf("write %d data bytes", n), Err: err}
		}
		return nil
	})
}

// MaxTxSize implements Commander.
func (t *SPI) MaxTxSize() int {
	return t.max
}

func (t *SPI) String() string {
	return t.name
}
