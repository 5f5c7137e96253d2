package comdisplay_test

import (
	"fmt"
	"log"

	"github.com/flavioheleno/comdisplay"
	"github.com/flavioheleno/comdisplay/image565"
	"github.com/flavioheleno/comdisplay/ssd1306"
	"github.com/flavioheleno/comdisplay/transport/transporttest"
)

func Example() {
	// A real program would use ssd1306.NewI2C with an i2c.Bus from i2creg.
	oled, err := ssd1306.New(&transporttest.Record{}, nil)
	if err != nil {
		log.Fatal(err)
	}
	d := comdisplay.New(comdisplay.Monochrome(oled), nil)
	if err := d.Init(); err != nil {
		log.Fatal(err)
	}
	if err := d.DrawString(0, 0, []byte("hello"), image565.White); err != nil {
		log.Fatal(err)
	}
	fmt.Println(d.Bounds())
	// Output: (0,0)-(128,64)
}

func ExampleDisplay_SetRotation() {
	oled, err := ssd1306.New(&transporttest.Record{}, nil)
	if err != nil {
		log.Fatal(err)
	}
	d := comdisplay.New(comdisplay.Monochrome(oled), nil)
	fmt.Println(d.SetRotation(90))
	// Output: set rotation: not supported
}
