package pocketdeck

import (
	"context"
	"errors"
	"time"
)

// PollInterval is how long menu-style loops sleep between input polls.
const PollInterval = 50 * time.Millisecond

// Env bundles the hardware handles every app is constructed with. Exactly one component uses it at a time:
// ownership moves with the blocking Run calls.
type Env struct {
	Display Display
	Input   Input
	Clock   Clock
	Log     Logger
}

func (e Env) validate() error {
	if e.Display == nil {
		return errors.New("must provide display")
	}
	if e.Input == nil {
		return errors.New("must provide input")
	}
	return nil
}

// withDefaults fills in the optional members.
func (e Env) withDefaults() Env {
	if e.Clock == nil {
		e.Clock = SystemClock{}
	}
	if e.Log == nil {
		e.Log = NopLogger{}
	}
	return e
}

// Hold shows text until any button is pressed or d elapses, and returns the button that ended the hold
// (MenuButtonNone on timeout or cancellation).
func (e Env) Hold(ctx context.Context, text string, d time.Duration) MenuButton {
	e = e.withDefaults()
	e.Display.RenderCentered(text)
	deadline := e.Clock.Now().Add(d)
	for e.Clock.Now().Before(deadline) {
		if ctx.Err() != nil {
			return MenuButtonNone
		}
		if b := e.Input.PressedButton(); b != MenuButtonNone {
			return b
		}
		e.Clock.Sleep(PollInterval)
	}
	return MenuButtonNone
}

// Pause shows text for exactly d, ignoring input.
func (e Env) Pause(text string, d time.Duration) {
	e = e.withDefaults()
	e.Display.RenderCentered(text)
	e.Clock.Sleep(d)
}
