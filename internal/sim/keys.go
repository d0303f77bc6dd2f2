package sim

import (
	"sync/atomic"
	"time"

	"github.com/pocketdeck/pocketdeck"
)

// TapHold is how long a key from a frontend without release events counts as held. It must outlast the slowest
// input poll.
const TapHold = 120 * time.Millisecond

const numButtons = int(pocketdeck.MenuButtonRight) + 1

// Keys is the button state written by a frontend and read by the deck's debouncer. It implements input.Source.
type Keys struct {
	down  [numButtons]atomic.Bool
	until [numButtons]atomic.Int64

	now func() time.Time
}

func NewKeys() *Keys {
	return &Keys{now: time.Now}
}

// Set records that b is held or released, for frontends that report both.
func (k *Keys) Set(b pocketdeck.MenuButton, held bool) {
	if int(b) >= numButtons {
		return
	}
	k.down[b].Store(held)
}

// Tap marks b as held for TapHold.
func (k *Keys) Tap(b pocketdeck.MenuButton) {
	if int(b) >= numButtons {
		return
	}
	k.until[b].Store(k.now().Add(TapHold).UnixNano())
}

func (k *Keys) Held(b pocketdeck.MenuButton) bool {
	if b == pocketdeck.MenuButtonNone || int(b) >= numButtons {
		return false
	}
	return k.down[b].Load() || k.now().UnixNano() < k.until[b].Load()
}
