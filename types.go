package pocketdeck

import (
	"context"

	"tinygo.org/x/drivers"
)

// App is anything that can be picked from a Menu. Run owns the Display and Input until it returns. Returning nil
// means the user navigated back; any other error is shown on screen by the caller before control returns to the
// menu.
type App interface {
	Name() string
	Run(ctx context.Context) error
}

// Input is the debounced button source.
type Input interface {
	// PressedButton returns the currently-pressed button. The implementation is responsible for prioritizing
	// multiple buttons being pressed at the same time as well as debouncing, so a held button yields at most one
	// non-none result per debounce interval. Callers treat every non-none result as a single discrete press.
	PressedButton() MenuButton
}

// Display is the text and pixel sink shared by the menu and every app.
type Display interface {
	// RenderCentered draws text centered on the display. Embedded newlines start new lines, long lines are soft
	// wrapped, and the resulting block is vertically centered. Text that does not fit is truncated.
	RenderCentered(text string)
	// Clear blanks the whole display.
	Clear()
	// Canvas is the raw pixel surface for apps that draw their own frames. Nothing is shown until the canvas'
	// Display method is called.
	Canvas() drivers.Displayer
}

type MenuButton uint8

const (
	MenuButtonNone MenuButton = iota
	MenuButtonUp
	MenuButtonDown
	MenuButtonSelect
	MenuButtonBack
	// MenuButtonLeft and MenuButtonRight only exist on keyboard simulators and boards wired with the two optional
	// extra buttons. Nothing in the menu depends on them.
	MenuButtonLeft
	MenuButtonRight
)

func (b MenuButton) String() string {
	switch b {
	case MenuButtonNone:
		return "none"
	case MenuButtonUp:
		return "up"
	case MenuButtonDown:
		return "down"
	case MenuButtonSelect:
		return "select"
	case MenuButtonBack:
		return "back"
	case MenuButtonLeft:
		return "left"
	case MenuButtonRight:
		return "right"
	default:
		return "INVALID"
	}
}

// ParseMenuButton is the inverse of MenuButton.String.
func ParseMenuButton(s string) (MenuButton, bool) {
	for b := MenuButtonNone; b <= MenuButtonRight; b++ {
		if b.String() == s {
			return b, true
		}
	}
	return MenuButtonNone, false
}

// deckState indicates what the deck is showing.
type deckState uint8

const (
	deckStateBoot deckState = iota
	deckStateMenu
	deckStateError
)

func (s deckState) String() string {
	switch s {
	case deckStateBoot:
		return "boot"
	case deckStateMenu:
		return "menu"
	case deckStateError:
		return "error"
	default:
		return "INVALID"
	}
}
