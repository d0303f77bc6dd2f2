// Package hw drives the Raspberry Pi build: an SSD1306 OLED on I2C, push buttons and an optional status LED on
// GPIO.
package hw

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/pocketdeck/pocketdeck"
)

type Config struct {
	// I2CBus is the bus name for i2creg; empty picks the first one.
	I2CBus string
	Width  int
	Height int
	Pins   Pins
	// LED is the status LED pin name; empty means there is none.
	LED string
}

// Board is the opened hardware.
type Board struct {
	Display *OLED
	Buttons *Buttons
	// LED is nil when the board has no status light.
	LED *LED

	bus i2c.BusCloser
}

// Open initializes the host drivers and every device in cfg.
func Open(cfg Config, log pocketdeck.Logger) (*Board, error) {
	if log == nil {
		log = pocketdeck.NopLogger{}
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, errors.New("must provide display size")
	}
	if cfg.Pins == nil {
		cfg.Pins = DefaultPins
	}

	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	for _, d := range state.Failed {
		log.Debugf("periph driver %s failed: %v", d.D, d.Err)
	}

	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", cfg.I2CBus, err)
	}
	b := &Board{bus: bus}

	b.Display, err = OpenOLED(bus, cfg.Width, cfg.Height)
	if err != nil {
		bus.Close()
		return nil, err
	}

	pins, err := LookupPins(cfg.Pins)
	if err != nil {
		bus.Close()
		return nil, err
	}
	if b.Buttons, err = NewButtons(pins); err != nil {
		bus.Close()
		return nil, err
	}

	if cfg.LED != "" {
		pin := gpioreg.ByName(cfg.LED)
		if pin == nil {
			bus.Close()
			return nil, fmt.Errorf("no such pin %q for status led", cfg.LED)
		}
		if b.LED, err = NewLED(pin, log); err != nil {
			bus.Close()
			return nil, err
		}
	}

	log.Infof("opened %dx%d display on i2c %s", cfg.Width, cfg.Height, bus)
	return b, nil
}

// Close blanks the display and releases the bus.
func (b *Board) Close() error {
	var errs []error
	if b.LED != nil {
		b.LED.Low()
	}
	if err := b.Display.Halt(); err != nil {
		errs = append(errs, err)
	}
	if err := b.bus.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
