// Package glyph holds fixed 6x12 character bitmaps for the printable ASCII
// range.
//
// A Bitmap stores one byte per row, top row first. Bit n of a row is column
// n, so bit 0 is the leftmost pixel and only the 6 low bits are significant.
// Drivers that scan their panel differently re-orient the bitmap themselves.
package glyph

import (
	"image"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Cell geometry and code range.
const (
	Width  = 6
	Height = 12
	First  = 32
	Last   = 126
)

// Bitmap is a single glyph, row-major, top row first.
type Bitmap [Height]byte

// Pixel reports whether the pixel at column col of row row is set.
func (b *Bitmap) Pixel(col, row int) bool {
	return b[row]&(1<<uint(col)) != 0
}

// Font looks glyphs up by character code.
type Font interface {
	// Glyph returns the bitmap for code, and false when code has no glyph.
	Glyph(code byte) (Bitmap, bool)
}

// Printable reports whether code is within the printable ASCII range.
func Printable(code byte) bool {
	return code >= First && code <= Last
}

// Table is a Font covering exactly the printable ASCII range.
type Table [Last - First + 1]Bitmap

// Glyph implements Font.
func (t *Table) Glyph(code byte) (Bitmap, bool) {
	if !Printable(code) {
		return Bitmap{}, false
	}
	return t[code-First], true
}

// FromFace rasterizes the printable ASCII range of face into a Table.
//
// Each glyph is drawn with its origin at column 0 and its baseline on row
// baseline of the cell; pixels falling outside the 6x12 cell are dropped.
func FromFace(face font.Face, baseline int) *Table {
	t := new(Table)
	cell := image.Rect(0, 0, Width, Height)
	for code := First; code <= Last; code++ {
		dr, mask, mp, _, ok := face.Glyph(fixed.P(0, baseline), rune(code))
		if !ok {
			continue
		}
		b := &t[code-First]
		r := dr.Intersect(cell)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				_, _, _, a := mask.At(mp.X+x-dr.Min.X, mp.Y+y-dr.Min.Y).RGBA()
				if a >= 0x8000 {
					b[y] |= 1 << uint(x)
				}
			}
		}
	}
	return t
}

var basic = sync.OnceValue(func() *Table {
	// Face7x13 has 6 pixel wide cells and an ascent of 11; the top row is
	// dropped to fit 12 rows.
	return FromFace(basicfont.Face7x13, basicfont.Face7x13.Ascent-1)
})

// Basic returns the default font, rasterized from basicfont.Face7x13.
func Basic() *Table {
	return basic()
}
