// Package transport implements the bus primitives panel drivers are built on.
//
// A Commander sends a controller command byte or a run of data bytes. Two
// implementations are provided: I2C (two-wire, control byte prefixed) and SPI
// (four-wire, command/data selected by a D/C line). Both accept periph.io
// buses as well as tinygo drivers buses.
package transport

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Commander issues controller commands and data over a bus.
type Commander interface {
	// WriteCommand sends a single command byte.
	WriteCommand(cmd byte) error
	// WriteData sends data bytes, splitting them into as many bus
	// transactions as MaxTxSize requires.
	WriteData(data []byte) error
	// MaxTxSize returns the largest payload a single transaction may carry,
	// or 0 when the bus reports no limit.
	MaxTxSize() int
}

// Pin is the level-set primitive used for D/C and reset lines.
//
// gpio.PinOut satisfies it.
type Pin interface {
	Out(l gpio.Level) error
}

// PinFunc adapts a plain level setter, such as the Set method of a tinygo
// machine.Pin, to Pin.
type PinFunc func(high bool)

// Out implements Pin.
func (f PinFunc) Out(l gpio.Level) error {
	f(bool(l))
	return nil
}

// Error is returned when a bus transaction or GPIO level change fails.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "transport: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying bus error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Chunks calls fn for consecutive [off, off+n) spans covering total bytes,
// with n never exceeding max. A max of 0 or less means a single span. It
// stops at the first error.
func Chunks(total, max int, fn func(off, n int) error) error {
	if total <= 0 {
		return nil
	}
	if max <= 0 {
		max = total
	}
	for off := 0; off < total; off += max {
		n := total - off
		if n > max {
			n = max
		}
		if err := fn(off, n); err != nil {
			return err
		}
	}
	return nil
}

// Commands sends each byte of cmds as its own command transaction.
//
// With bestEffort set every byte is sent regardless of failures and the last
// error is returned; otherwise it stops at the first failure.
func Commands(c Commander, cmds []byte, bestEffort bool) error {
	var last error
	for _, cmd := range cmds {
		if err := c.WriteCommand(cmd); err != nil {
			if !bestEffort {
				return err
			}
			last = err
		}
	}
	return last
}

// Step is one entry of a controller bring-up sequence: a command, its
// parameter bytes and the settle time the datasheet mandates afterwards.
type Step struct {
	Cmd   byte
	Data  []byte
	Delay time.Duration
}

// Run sends steps in order, sleeping after each one for its Delay.
//
// With bestEffort set failures do not stop the sequence and the last error is
// returned; otherwise Run returns at the first failure.
func Run(c Commander, steps []Step, sleep func(time.Duration), bestEffort bool) error {
	var last error
	for _, s := range steps {
		err := c.WriteCommand(s.Cmd)
		if err != nil && !bestEffort {
			return err
		}
		if len(s.Data) > 0 {
			if derr := c.WriteData(s.Data); derr != nil {
				if !bestEffort {
					return derr
				}
				err = derr
			}
		}
		if err != nil {
			last = err
		}
		if s.Delay > 0 {
			sleep(s.Delay)
		}
	}
	return last
}

// Reset pulses rst low for hold, then releases it and waits hold again.
func Reset(rst Pin, hold time.Duration, sleep func(time.Duration)) error {
	if err := rst.Out(gpio.Low); err != nil {
		return &Error{Op: "pull RST low", Err: err}
	}
	sleep(hold)
	if err := rst.Out(gpio.High); err != nil {
		return &Error{Op: "pull RST high", Err: err}
	}
	sleep(hold)
	return nil
}
