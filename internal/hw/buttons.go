package hw

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/pocketdeck/pocketdeck"
)

// Pins maps buttons to GPIO names as understood by gpioreg, e.g. "GPIO17".
type Pins map[pocketdeck.MenuButton]string

// DefaultPins is the four-button wiring, BCM numbering.
var DefaultPins = Pins{
	pocketdeck.MenuButtonUp:     "GPIO17",
	pocketdeck.MenuButtonDown:   "GPIO27",
	pocketdeck.MenuButtonSelect: "GPIO22",
	pocketdeck.MenuButtonBack:   "GPIO23",
}

// Buttons reads active-low push buttons with the internal pull-ups enabled. It implements input.Source.
type Buttons struct {
	pins map[pocketdeck.MenuButton]gpio.PinIn
}

// LookupPins resolves every name in p through gpioreg.
func LookupPins(p Pins) (map[pocketdeck.MenuButton]gpio.PinIn, error) {
	out := make(map[pocketdeck.MenuButton]gpio.PinIn, len(p))
	for b, name := range p {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, fmt.Errorf("no such pin %q for %s", name, b)
		}
		out[b] = pin
	}
	return out, nil
}

// NewButtons configures pins as pulled-up inputs.
func NewButtons(pins map[pocketdeck.MenuButton]gpio.PinIn) (*Buttons, error) {
	for b, pin := range pins {
		if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("%s button on %s: %w", b, pin, err)
		}
	}
	return &Buttons{pins: pins}, nil
}

// Held reports whether b is pressed. Buttons that are not wired are never held.
func (bt *Buttons) Held(b pocketdeck.MenuButton) bool {
	pin, ok := bt.pins[b]
	return ok && pin.Read() == gpio.Low
}
