package comdisplay

import (
	"fmt"
	"strconv"
)

// Rotation is the clockwise rotation of a color panel's addressing.
type Rotation uint8

// Supported rotations.
const (
	Rotation0 Rotation = iota
	Rotation90
	Rotation180
	Rotation270
)

// RotationFromDegrees maps 0, 90, 180 or 270 to a Rotation.
func RotationFromDegrees(deg int) (Rotation, error) {
	switch deg {
	case 0:
		return Rotation0, nil
	case 90:
		return Rotation90, nil
	case 180:
		return Rotation180, nil
	case 270:
		return Rotation270, nil
	}
	return 0, fmt.Errorf("rotation of %d degrees: %w", deg, ErrInvalidArgument)
}

// Valid reports whether r is one of the four supported rotations.
func (r Rotation) Valid() bool {
	return r <= Rotation270
}

// Degrees returns the rotation angle.
func (r Rotation) Degrees() int {
	return int(r) * 90
}

// Swapped reports whether rows and columns are exchanged, that is whether the
// visible width is the panel's native height.
func (r Rotation) Swapped() bool {
	return r == Rotation90 || r == Rotation270
}

func (r Rotation) String() string {
	if !r.Valid() {
		return "Rotation(" + strconv.Itoa(int(r)) + ")"
	}
	return strconv.Itoa(r.Degrees()) + "°"
}
