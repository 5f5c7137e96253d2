// Package comdisplay is a single drawing API over small microcontroller
// panels.
//
// Three panel drivers are provided, each in its own package:
//
//   - ssd1306: 128x64 (or 128x32) monochrome OLED over I2C, 1 bit per pixel
//     in 8-row pages, kept in a shadow framebuffer.
//   - st7735s: 128x160 RGB565 TFT over SPI with a D/C line.
//   - st7789: 240x240 RGB565 TFT over SPI with a D/C line.
//
// The application picks one of them at startup and hands it to New. Every
// Display call forwards to that panel; capabilities a panel lacks fail with
// ErrNotSupported.
//
// # Hardware Connection
//
// The SSD1306 needs only the I2C bus:
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	SCL         → I2C Clock (SCL)
//	SDA         → I2C Data (SDA)
//
// The TFT panels use SPI plus two GPIOs:
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	SCL/CLK     → SPI Clock (SCLK)
//	SDA/MOSI    → SPI Data (MOSI)
//	DC          → GPIO (any available pin)
//	CS          → SPI Chip Select
//	RES         → Optional: GPIO for hardware reset
//	BLK         → 3.3V or a GPIO driven high
//
// # Basic Usage
//
//	package main
//
//	import (
//		"log"
//
//		"github.com/flavioheleno/comdisplay"
//		"github.com/flavioheleno/comdisplay/image565"
//		"github.com/flavioheleno/comdisplay/st7789"
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		if _, err := host.Init(); err != nil {
//			log.Fatal(err)
//		}
//		p, err := spireg.Open("")
//		if err != nil {
//			log.Fatal(err)
//		}
//		dev, err := st7789.NewSPI(p, gpioreg.ByName("GPIO25"), &st7789.Opts{
//			RST: gpioreg.ByName("GPIO24"),
//		})
//		if err != nil {
//			log.Fatal(err)
//		}
//		d := comdisplay.New(dev, nil)
//		if err := d.Init(); err != nil {
//			log.Fatal(err)
//		}
//		defer d.Halt()
//
//		d.Fill(image565.Black)
//		d.DrawString(0, 0, []byte("hello"), image565.White)
//	}
//
// A monochrome panel is wrapped with Monochrome first; any nonzero color is
// then drawn as on:
//
//	oled, _ := ssd1306.NewI2C(bus, nil)
//	d := comdisplay.New(comdisplay.Monochrome(oled), nil)
//
// # Errors
//
// Coordinates outside the panel fail with ErrOutOfBounds and angles other
// than 0, 90, 180 and 270 with ErrInvalidArgument, before anything is sent.
// Bus failures are returned as *TransportError. Multi-step sequences stop at
// the first bus failure; the drivers' BestEffort option keeps bring-up going
// past failures and returns the last one.
//
// # Concurrency
//
// Nothing here locks. Callers sharing a Display between goroutines must guard
// all of its methods with one mutex. On color panels a character draw briefly
// reprograms the addressing mode and restores it afterwards, so it must not
// run concurrently with SetRotation.
//
// # Compatibility with periph.io and TinyGo
//
// Display and every driver implement display.Drawer from periph.io, so any
// image.Image can be drawn. Display.Displayer returns a drivers.Displayer
// for tinygo graphics code; DrawText uses it to render tinyfont fonts.
package comdisplay
