package comdisplay

import (
	"errors"
	"fmt"

	"github.com/flavioheleno/comdisplay/transport"
)

// Errors shared by all panel drivers. Drivers wrap them with context, so test
// them with errors.Is.
var (
	// ErrOutOfBounds is returned for coordinates outside the panel.
	ErrOutOfBounds = errors.New("out of bounds")
	// ErrInvalidArgument is returned for malformed arguments, such as an
	// unsupported rotation angle or a nil string.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotSupported is returned when the panel lacks the capability an
	// operation needs.
	ErrNotSupported = errors.New("not supported")
	// ErrHalted is returned by drawing operations after Halt.
	ErrHalted = errors.New("device halted")
)

// TransportError is returned when a bus transaction, a GPIO level change or
// a port connection fails. It unwraps to the bus error.
type TransportError = transport.Error

// CodeError reports a character code without a glyph. It matches both
// ErrInvalidArgument and ErrOutOfBounds.
type CodeError byte

func (e CodeError) Error() string {
	return fmt.Sprintf("no glyph for character code %d", byte(e))
}

// Is implements errors.Is.
func (e CodeError) Is(target error) bool {
	return target == ErrInvalidArgument || target == ErrOutOfBounds
}
