package image565

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func TestColorRGBA(t *testing.T) {
	tests := []struct {
		name    string
		c       Color
		r, g, b uint32
	}{
		{"black", Black, 0, 0, 0},
		{"white", White, 0xFFFF, 0xFFFF, 0xFFFF},
		{"red", Red, 0xFFFF, 0, 0},
		{"green", Green, 0, 0xFFFF, 0},
		{"blue", Blue, 0, 0, 0xFFFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, a := tt.c.RGBA()
			if r != tt.r || g != tt.g || b != tt.b || a != 0xFFFF {
				t.Errorf("RGBA() = (%x, %x, %x, %x), want (%x, %x, %x, ffff)", r, g, b, a, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestRGB(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    Color
	}{
		{"black", 0, 0, 0, Black},
		{"white", 0xFF, 0xFF, 0xFF, White},
		{"red", 0xFF, 0, 0, Red},
		{"green", 0, 0xFF, 0, Green},
		{"blue", 0, 0, 0xFF, Blue},
		{"low bits dropped", 0x07, 0x03, 0x07, Black},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RGB(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("RGB(%d, %d, %d) = 0x%04X, want 0x%04X", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestModelConvert(t *testing.T) {
	tests := []struct {
		name  string
		input color.Color
		want  Color
	}{
		{"passthrough", Color(0x1234), 0x1234},
		{"black", color.Black, Black},
		{"white", color.White, White},
		{"rgba red", color.RGBA{0xFF, 0, 0, 0xFF}, Red},
		{"rgba mix", color.RGBA{0x20, 0x80, 0xFF, 0xFF}, RGB(0x20, 0x80, 0xFF)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Model.Convert(tt.input).(Color); got != tt.want {
				t.Errorf("Model.Convert(%v) = 0x%04X, want 0x%04X", tt.input, got, tt.want)
			}
		})
	}
}

func TestColorBytes(t *testing.T) {
	if got := Color(0xF81F).Bytes(); got != [2]byte{0xF8, 0x1F} {
		t.Errorf("Bytes() = % X, want F8 1F", got)
	}
}

func TestNewImage(t *testing.T) {
	tests := []struct {
		name       string
		rect       image.Rectangle
		wantStride int
		wantPixLen int
	}{
		{"240x240", image.Rect(0, 0, 240, 240), 480, 115200},
		{"128x160", image.Rect(0, 0, 128, 160), 256, 40960},
		{"odd width", image.Rect(0, 0, 3, 2), 6, 12},
		{"offset rect", image.Rect(10, 20, 14, 22), 8, 16},
		{"empty", image.Rect(0, 0, 0, 0), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := NewImage(tt.rect)
			if img.Rect != tt.rect {
				t.Errorf("Rect = %v, want %v", img.Rect, tt.rect)
			}
			if img.Stride != tt.wantStride {
				t.Errorf("Stride = %d, want %d", img.Stride, tt.wantStride)
			}
			if len(img.Pix) != tt.wantPixLen {
				t.Errorf("len(Pix) = %d, want %d", len(img.Pix), tt.wantPixLen)
			}
		})
	}
}

func TestImageByteOrder(t *testing.T) {
	img := NewImage(image.Rect(0, 0, 2, 1))
	img.SetRGB565(0, 0, Red)
	img.SetRGB565(1, 0, Blue)

	want := []byte{0xF8, 0x00, 0x00, 0x1F}
	for i, b := range want {
		if img.Pix[i] != b {
			t.Errorf("Pix[%d] = 0x%02X, want 0x%02X", i, img.Pix[i], b)
		}
	}
}

func TestImageSetGet(t *testing.T) {
	img := NewImage(image.Rect(0, 0, 3, 2))
	colors := [][3]Color{
		{Red, Green, Blue},
		{White, Black, 0x1234},
	}
	for y, row := range colors {
		for x, c := range row {
			img.SetRGB565(x, y, c)
		}
	}
	for y, row := range colors {
		for x, want := range row {
			if got := img.RGB565At(x, y); got != want {
				t.Errorf("RGB565At(%d, %d) = 0x%04X, want 0x%04X", x, y, got, want)
			}
			if got, ok := img.At(x, y).(Color); !ok || got != want {
				t.Errorf("At(%d, %d) = %v, want 0x%04X", x, y, img.At(x, y), want)
			}
		}
	}
}

func TestImageOutOfBounds(t *testing.T) {
	img := NewImage(image.Rect(0, 0, 2, 2))
	img.SetRGB565(-1, 0, White)
	img.SetRGB565(2, 0, White)
	img.SetRGB565(0, 2, White)

	for i, b := range img.Pix {
		if b != 0 {
			t.Fatalf("Pix[%d] = 0x%02X after out-of-bounds writes, want 0", i, b)
		}
	}
	if got := img.RGB565At(5, 5); got != Black {
		t.Errorf("RGB565At(5, 5) = 0x%04X, want 0", got)
	}
}

func TestImageOffsetRect(t *testing.T) {
	img := NewImage(image.Rect(100, 50, 102, 52))
	img.SetRGB565(100, 50, 0xABCD)
	if img.Pix[0] != 0xAB || img.Pix[1] != 0xCD {
		t.Errorf("Pix[0:2] = % X, want AB CD", img.Pix[0:2])
	}
	if got := img.pixOffset(101, 51); got != 6 {
		t.Errorf("pixOffset(101, 51) = %d, want 6", got)
	}
}

func TestImageDraw(t *testing.T) {
	img := NewImage(image.Rect(0, 0, 4, 4))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{0, 0xFF, 0, 0xFF}), image.Point{}, draw.Src)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := img.RGB565At(x, y); got != Green {
				t.Fatalf("RGB565At(%d, %d) = 0x%04X, want 0x%04X", x, y, got, Green)
			}
		}
	}
}
