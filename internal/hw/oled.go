package hw

import (
	"fmt"
	"image"
	"image/color"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// OLED is an SSD1306 panel on I2C exposed as a drivers.Displayer. Pixels are collected in a 1-bit buffer and only
// sent to the panel by Display.
type OLED struct {
	dev  *ssd1306.Dev
	img  *image1bit.VerticalLSB
	w, h int16
}

// OpenOLED initializes a w x h panel at the default address on bus.
func OpenOLED(bus i2c.Bus, w, h int) (*OLED, error) {
	dev, err := ssd1306.NewI2C(bus, &ssd1306.Opts{W: w, H: h})
	if err != nil {
		return nil, fmt.Errorf("ssd1306: %w", err)
	}
	return &OLED{
		dev: dev,
		img: image1bit.NewVerticalLSB(dev.Bounds()),
		w:   int16(w),
		h:   int16(h),
	}, nil
}

func (o *OLED) Size() (x, y int16) {
	return o.w, o.h
}

func (o *OLED) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= o.w || y >= o.h {
		return
	}
	o.img.SetBit(int(x), int(y), image1bit.Bit(c.R|c.G|c.B != 0))
}

func (o *OLED) Display() error {
	return o.dev.Draw(o.dev.Bounds(), o.img, image.Point{})
}

// Halt blanks and powers down the panel.
func (o *OLED) Halt() error {
	return o.dev.Halt()
}
