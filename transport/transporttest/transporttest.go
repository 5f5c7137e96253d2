// Package transporttest is meant to be used to test drivers over a fake bus.
package transporttest

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/flavioheleno/comdisplay/transport"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// ErrInjected is the cause of failures injected with Record.FailAt.
var ErrInjected = errors.New("transporttest: injected failure")

// IO is one recorded transaction.
type IO struct {
	Cmd  bool   // true for a command byte, false for data
	Data []byte // command byte or copy of the data written
}

func (io IO) String() string {
	if io.Cmd {
		return fmt.Sprintf("cmd %#02x", io.Data[0])
	}
	return fmt.Sprintf("data[%d]", len(io.Data))
}

// Record implements transport.Commander and records every transaction.
type Record struct {
	sync.Mutex
	Ops []IO

	// Max is reported by MaxTxSize. Data writes larger than Max fail, so a
	// driver that ignores the limit is caught.
	Max int
	// FailAt makes the FailAt-th transaction (1-based) fail. 0 never fails.
	FailAt int
	// FailAll makes every transaction from FailAt onwards fail.
	FailAll bool

	count int
}

// WriteCommand implements transport.Commander.
func (r *Record) WriteCommand(cmd byte) error {
	r.Lock()
	defer r.Unlock()
	if r.fail() {
		return &transport.Error{Op: fmt.Sprintf("write command %#02x", cmd), Err: ErrInjected}
	}
	r.Ops = append(r.Ops, IO{Cmd: true, Data: []byte{cmd}})
	return nil
}

// WriteData implements transport.Commander.
func (r *Record) WriteData(data []byte) error {
	r.Lock()
	defer r.Unlock()
	if r.Max > 0 && len(data) > r.Max {
		return fmt.Errorf("transporttest: %d byte write exceeds max %d", len(data), r.Max)
	}
	if r.fail() {
		return &transport.Error{Op: fmt.Sprintf("write %d data bytes", len(data)), Err: ErrInjected}
	}
	r.Ops = append(r.Ops, IO{Data: append([]byte(nil), data...)})
	return nil
}

// MaxTxSize implements transport.Commander.
func (r *Record) MaxTxSize() int {
	return r.Max
}

func (r *Record) fail() bool {
	r.count++
	if r.FailAt == 0 {
		return false
	}
	return r.count == r.FailAt || (r.FailAll && r.count > r.FailAt)
}

// Commands returns every recorded command byte in order.
func (r *Record) Commands() []byte {
	r.Lock()
	defer r.Unlock()
	var out []byte
	for _, io := range r.Ops {
		if io.Cmd {
			out = append(out, io.Data[0])
		}
	}
	return out
}

// Writes returns every recorded data write in order.
func (r *Record) Writes() [][]byte {
	r.Lock()
	defer r.Unlock()
	var out [][]byte
	for _, io := range r.Ops {
		if !io.Cmd {
			out = append(out, io.Data)
		}
	}
	return out
}

// DataAfter returns the data written directly after the last occurrence of
// command cmd, concatenated until the next command.
func (r *Record) DataAfter(cmd byte) []byte {
	r.Lock()
	defer r.Unlock()
	last := -1
	for i, io := range r.Ops {
		if io.Cmd && io.Data[0] == cmd {
			last = i
		}
	}
	if last < 0 {
		return nil
	}
	var out []byte
	for _, io := range r.Ops[last+1:] {
		if io.Cmd {
			break
		}
		out = append(out, io.Data...)
	}
	return out
}

// Clear forgets the recorded transactions and the transaction count.
func (r *Record) Clear() {
	r.Lock()
	defer r.Unlock()
	r.Ops = nil
	r.count = 0
}

// Len returns the number of recorded transactions.
func (r *Record) Len() int {
	r.Lock()
	defer r.Unlock()
	return len(r.Ops)
}

// Pin is a gpiotest.Pin that remembers every level it was driven to.
type Pin struct {
	gpiotest.Pin
	Levels []gpio.Level
	// Err is returned by Out when set.
	Err error
}

// Out implements gpio.PinOut.
func (p *Pin) Out(l gpio.Level) error {
	if p.Err != nil {
		return p.Err
	}
	p.Levels = append(p.Levels, l)
	return p.Pin.Out(l)
}

// Sleeper records requested delays instead of sleeping.
type Sleeper struct {
	Delays []time.Duration
}

// Sleep has the signature of time.Sleep.
func (s *Sleeper) Sleep(d time.Duration) {
	s.Delays = append(s.Delays, d)
}

// Total returns the sum of all recorded delays.
func (s *Sleeper) Total() time.Duration {
	var t time.Duration
	for _, d := range s.Delays {
		t += d
	}
	return t
}
