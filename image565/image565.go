// Package image565 provides a 16-bit RGB565 image format matching the pixel
// memory of RGB565 TFT controllers.
//
// Each pixel occupies 2 bytes, most significant byte first, which is the order
// the controllers expect on the wire after a memory-write command.
package image565

import (
	"image"
	"image/color"
)

// Color is a 16-bit RGB565 color: 5 bits red, 6 bits green, 5 bits blue.
type Color uint16

// Named colors.
const (
	Black Color = 0x0000
	White Color = 0xFFFF
	Red   Color = 0xF800
	Green Color = 0x07E0
	Blue  Color = 0x001F
)

// RGB packs 8-bit components into an RGB565 color, dropping the low bits.
func RGB(r, g, b uint8) Color {
	return Color(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b>>3))
}

// RGBA converts the RGB565 color to standard 16-bit RGBA.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c>>11&0x1F) * 0xFFFF / 0x1F
	g = uint32(c>>5&0x3F) * 0xFFFF / 0x3F
	b = uint32(c&0x1F) * 0xFFFF / 0x1F
	return r, g, b, 0xFFFF
}

// Bytes returns the color in wire order (big-endian).
func (c Color) Bytes() [2]byte {
	return [2]byte{byte(c >> 8), byte(c)}
}

// toRGB565 converts any color.Color to Color.
func toRGB565(c color.Color) color.Color {
	if v, ok := c.(Color); ok {
		return v
	}
	r, g, b, _ := c.RGBA()
	return Color((r>>11)<<11 | (g>>10)<<5 | b>>11)
}

// Model converts colors to Color.
var Model = color.ModelFunc(toRGB565)

// Image is an RGB565 image with big-endian pixel storage.
type Image struct {
	Pix    []byte          // Pixel data (2 bytes per pixel, big-endian)
	Stride int             // Bytes per row
	Rect   image.Rectangle // Image bounds
}

// NewImage creates a new Image with the specified bounds.
func NewImage(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &Image{Rect: r}
	}
	return &Image{
		Pix:    make([]byte, 2*w*h),
		Stride: 2 * w,
		Rect:   r,
	}
}

// ColorModel returns the color model of the image.
func (p *Image) ColorModel() color.Model {
	return Model
}

// Bounds returns the image bounds.
func (p *Image) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the color of the pixel at (x, y).
func (p *Image) At(x, y int) color.Color {
	return p.RGB565At(x, y)
}

// RGB565At returns the Color of the pixel at (x, y).
func (p *Image) RGB565At(x, y int) Color {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return Black
	}
	i := p.pixOffset(x, y)
	return Color(p.Pix[i])<<8 | Color(p.Pix[i+1])
}

// Set sets the color of the pixel at (x, y).
func (p *Image) Set(x, y int, c color.Color) {
	p.SetRGB565(x, y, Model.Convert(c).(Color))
}

// SetRGB565 sets the Color of the pixel at (x, y) without conversion.
func (p *Image) SetRGB565(x, y int, c Color) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	i := p.pixOffset(x, y)
	p.Pix[i] = byte(c >> 8)
	p.Pix[i+1] = byte(c)
}

// pixOffset returns the index of the high byte of the pixel at (x, y).
func (p *Image) pixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}
