// Package image565 provides a 16-bit RGB565 image format for TFT panel controllers.
//
// ST7735S and ST7789 controllers configured with COLMOD 16-bit accept two bytes
// per pixel, high byte first:
//
//	bit: 15 14 13 12 11 | 10  9  8  7  6  5 | 4  3  2  1  0
//	     R4 R3 R2 R1 R0 | G5 G4 G3 G2 G1 G0 | B4 B3 B2 B1 B0
//
// Memory layout example for a 2-pixel row:
//
//	Pixels: 0       1
//	Colors: Red     Blue
//	Bytes:  F8 00   00 1F
//
// This package provides:
//
// - Color: an RGB565 value implementing color.Color
// - Model: a color model converting standard Go colors to Color
// - Image: a draw.Image whose Pix slice can be streamed to the panel as-is
//
// Example usage:
//
//	img := image565.NewImage(image.Rect(0, 0, 240, 240))
//	img.SetRGB565(10, 20, image565.RGB(0x20, 0x80, 0xFF))
//	draw.Draw(img, img.Bounds(), image.NewUniform(image565.Red), image.Point{}, draw.Src)
package image565
