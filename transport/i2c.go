package transport

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"tinygo.org/x/drivers"
)

// Control bytes prefixed to every two-wire transaction.
const (
	i2cCommand byte = 0x00
	i2cData    byte = 0x40
)

// I2C is a two-wire Commander. Every command is its own transaction
// [0x00, cmd]; data goes out as [0x40, data...].
type I2C struct {
	tx   func(w []byte) error
	name string
	max  int
	buf  []byte
}

// NewI2C returns a Commander talking to the device at addr on a periph.io bus.
func NewI2C(b i2c.Bus, addr uint16) *I2C {
	d := &i2c.Dev{Bus: b, Addr: addr}
	t := &I2C{
		tx:   func(w []byte) error { return d.Tx(w, nil) },
		name: d.String(),
	}
	if l, ok := b.(conn.Limits); ok {
		t.max = l.MaxTxSize()
	}
	return t
}

// NewTinyGoI2C returns a Commander talking to the device at addr on a tinygo
// drivers bus.
func NewTinyGoI2C(b drivers.I2C, addr uint16) *I2C {
	return &I2C{
		tx:   func(w []byte) error { return b.Tx(addr, w, nil) },
		name: fmt.Sprintf("tinygo-i2c(%#x)", addr),
	}
}

// SetMaxTxSize caps the length of a single transaction, control byte
// included. 0 removes the cap.
func (t *I2C) SetMaxTxSize(n int) {
	t.max = n
}

// WriteCommand implements Commander.
func (t *I2C) WriteCommand(cmd byte) error {
	if err := t.tx([]byte{i2cCommand, cmd}); err != nil {
		return &Error{Op: fmt.Sprintf("write command %#02x", cmd), Err: err}
	}
	return nil
}

// WriteData implements Commander.
func (t *I2C) WriteData(data []byte) error {
	return Chunks(len(data), t.MaxTxSize(), func(off, n int) error {
		t.buf = append(append(t.buf[:0], i2cData), data[off:off+n]...)
		if err := t.tx(t.buf); err != nil {
			return &Error{Op: fmt.Sprintf("write %d data bytes", n), Err: err}
		}
		return nil
	})
}

// MaxTxSize implements Commander. The control byte is accounted for.
func (t *I2C) MaxTxSize() int {
	if t.max <= 1 {
		return 0
	}
	return t.max - 1
}

func (t *I2C) String() string {
	return t.name
}
