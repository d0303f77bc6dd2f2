package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pocketdeck/pocketdeck"
)

var (
	termKeys = map[tcell.Key]pocketdeck.MenuButton{
		tcell.KeyUp:         pocketdeck.MenuButtonUp,
		tcell.KeyDown:       pocketdeck.MenuButtonDown,
		tcell.KeyLeft:       pocketdeck.MenuButtonLeft,
		tcell.KeyRight:      pocketdeck.MenuButtonRight,
		tcell.KeyEnter:      pocketdeck.MenuButtonSelect,
		tcell.KeyEscape:     pocketdeck.MenuButtonBack,
		tcell.KeyBackspace:  pocketdeck.MenuButtonBack,
		tcell.KeyBackspace2: pocketdeck.MenuButtonBack,
	}
	termRunes = map[rune]pocketdeck.MenuButton{
		'w': pocketdeck.MenuButtonUp,
		's': pocketdeck.MenuButtonDown,
		'a': pocketdeck.MenuButtonLeft,
		'd': pocketdeck.MenuButtonRight,
		' ': pocketdeck.MenuButtonSelect,
		'b': pocketdeck.MenuButtonBack,
	}
)

const termRefresh = time.Second / 30

// Terminal draws the framebuffer with half-block characters, two pixel rows per terminal row, and reads keys.
// Terminals do not report key releases, so every key event is a Tap. q or ctrl-c closes it.
type Terminal struct {
	FB   *Framebuffer
	Keys *Keys

	screen tcell.Screen
	lit    []bool
}

// NewTerminal uses the controlling terminal.
func NewTerminal(w, h int16) (*Terminal, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	return newTerminal(s, w, h), nil
}

func newTerminal(s tcell.Screen, w, h int16) *Terminal {
	return &Terminal{
		FB:     NewFramebuffer(w, h),
		Keys:   NewKeys(),
		screen: s,
		lit:    make([]bool, int(w)*int(h)),
	}
}

// Run takes over the terminal until the user quits or ctx is done.
func (t *Terminal) Run(ctx context.Context) error {
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer t.screen.Fini()
	t.screen.HideCursor()
	t.screen.Clear()

	events := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	tick := time.NewTicker(termRefresh)
	defer tick.Stop()

	var shown uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch e := ev.(type) {
			case *tcell.EventResize:
				t.screen.Sync()
				shown = 0
			case *tcell.EventKey:
				if quit(e) {
					return nil
				}
				t.handleKey(e)
			}
		case <-tick.C:
			if v := t.FB.Version(); v != shown {
				shown = t.draw()
			}
		}
	}
}

func quit(e *tcell.EventKey) bool {
	return e.Key() == tcell.KeyCtrlC || (e.Key() == tcell.KeyRune && e.Rune() == 'q')
}

func (t *Terminal) handleKey(e *tcell.EventKey) {
	b, ok := termKeys[e.Key()]
	if !ok && e.Key() == tcell.KeyRune {
		b, ok = termRunes[e.Rune()]
	}
	if ok {
		t.Keys.Tap(b)
	}
}

// draw paints the latest frame and returns its version.
func (t *Terminal) draw() uint64 {
	v := t.FB.Snapshot(t.lit)
	w, h := t.FB.Size()
	for y := 0; y < int(h); y += 2 {
		for x := 0; x < int(w); x++ {
			top := t.lit[y*int(w)+x]
			bottom := y+1 < int(h) && t.lit[(y+1)*int(w)+x]
			st := tcell.StyleDefault.Foreground(colorOf(top)).Background(colorOf(bottom))
			t.screen.SetContent(x, y/2, '▀', nil, st)
		}
	}
	t.screen.Show()
	return v
}

func colorOf(on bool) tcell.Color {
	if on {
		return tcell.ColorWhite
	}
	return tcell.ColorBlack
}
