package hw

import (
	"image/color"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/pocketdeck/pocketdeck"
)

func TestButtonsActiveLow(t *testing.T) {
	up := &gpiotest.Pin{N: "GPIO17", Num: 17}
	back := &gpiotest.Pin{N: "GPIO23", Num: 23}
	bt, err := NewButtons(map[pocketdeck.MenuButton]gpio.PinIn{
		pocketdeck.MenuButtonUp:   up,
		pocketdeck.MenuButtonBack: back,
	})
	if err != nil {
		t.Fatal(err)
	}
	if up.P != gpio.PullUp || back.P != gpio.PullUp {
		t.Fatal("pull-ups not enabled")
	}

	up.L, back.L = gpio.High, gpio.High
	if bt.Held(pocketdeck.MenuButtonUp) || bt.Held(pocketdeck.MenuButtonBack) {
		t.Fatal("released buttons reported held")
	}
	up.L = gpio.Low
	if !bt.Held(pocketdeck.MenuButtonUp) {
		t.Fatal("pressed button not held")
	}
	if bt.Held(pocketdeck.MenuButtonSelect) {
		t.Fatal("unwired button reported held")
	}
}

func TestLED(t *testing.T) {
	pin := &gpiotest.Pin{N: "GPIO4", Num: 4, L: gpio.High}
	led, err := NewLED(pin, nil)
	if err != nil {
		t.Fatal(err)
	}
	if pin.L != gpio.Low {
		t.Fatal("led not switched off on open")
	}
	led.High()
	if pin.L != gpio.High {
		t.Fatal("High did not drive the pin")
	}
	led.Low()
	if pin.L != gpio.Low {
		t.Fatal("Low did not drive the pin")
	}
}

func TestOLED(t *testing.T) {
	bus := &i2ctest.Record{}
	o, err := OpenOLED(bus, 128, 32)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := o.Size(); w != 128 || h != 32 {
		t.Fatalf("Size = %d, %d", w, h)
	}

	o.SetPixel(3, 9, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	o.SetPixel(200, 9, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	if !o.img.BitAt(3, 9) {
		t.Fatal("pixel not set")
	}
	o.SetPixel(3, 9, color.RGBA{})
	if o.img.BitAt(3, 9) {
		t.Fatal("pixel not cleared")
	}

	o.SetPixel(0, 0, color.RGBA{R: 0xFF, A: 0xFF})
	before := len(bus.Ops)
	if err := o.Display(); err != nil {
		t.Fatal(err)
	}
	if len(bus.Ops) == before {
		t.Fatal("Display sent nothing to the panel")
	}
}
