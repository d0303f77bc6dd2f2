package hw

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"

	"github.com/pocketdeck/pocketdeck"
)

// LED is a status light on a GPIO output. It implements pocketdeck.Blinker.
type LED struct {
	pin gpio.PinOut
	log pocketdeck.Logger
}

func NewLED(pin gpio.PinOut, log pocketdeck.Logger) (*LED, error) {
	if log == nil {
		log = pocketdeck.NopLogger{}
	}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("status led on %s: %w", pin, err)
	}
	return &LED{pin: pin, log: log}, nil
}

func (l *LED) Low() { l.set(gpio.Low) }

func (l *LED) High() { l.set(gpio.High) }

func (l *LED) set(level gpio.Level) {
	if err := l.pin.Out(level); err != nil {
		l.log.Warnf("status led: %v", err)
	}
}
