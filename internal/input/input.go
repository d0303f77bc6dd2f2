// Package input turns raw "is this button held" readings into discrete, debounced presses.
package input

import (
	"time"

	"github.com/pocketdeck/pocketdeck"
)

// DefaultDelay is the per-button debounce window.
const DefaultDelay = 200 * time.Millisecond

// DefaultOrder is the priority used when several buttons are held at once.
var DefaultOrder = []pocketdeck.MenuButton{
	pocketdeck.MenuButtonUp,
	pocketdeck.MenuButtonDown,
	pocketdeck.MenuButtonSelect,
	pocketdeck.MenuButtonBack,
	pocketdeck.MenuButtonLeft,
	pocketdeck.MenuButtonRight,
}

// Source reads the instantaneous level of the buttons.
type Source interface {
	Held(b pocketdeck.MenuButton) bool
}

// Debouncer implements pocketdeck.Input on top of a Source. A button that stays held is reported again once per
// debounce window, which doubles as key repeat.
type Debouncer struct {
	src   Source
	clock pocketdeck.Clock
	delay time.Duration
	order []pocketdeck.MenuButton
	last  map[pocketdeck.MenuButton]time.Time
}

// New returns a Debouncer polling src in priority order. A zero delay means DefaultDelay and an empty order means
// DefaultOrder.
func New(src Source, clock pocketdeck.Clock, delay time.Duration, order ...pocketdeck.MenuButton) *Debouncer {
	if clock == nil {
		clock = pocketdeck.SystemClock{}
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	if len(order) == 0 {
		order = DefaultOrder
	}
	return &Debouncer{
		src:   src,
		clock: clock,
		delay: delay,
		order: order,
		last:  make(map[pocketdeck.MenuButton]time.Time, len(order)),
	}
}

func (d *Debouncer) PressedButton() pocketdeck.MenuButton {
	now := d.clock.Now()
	for _, b := range d.order {
		if !d.src.Held(b) {
			continue
		}
		if t, ok := d.last[b]; ok && now.Sub(t) <= d.delay {
			continue
		}
		d.last[b] = now
		return b
	}
	return pocketdeck.MenuButtonNone
}
