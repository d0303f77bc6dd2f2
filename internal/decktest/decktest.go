// Package decktest provides in-memory Display and Input implementations for driving the menu and apps in tests.
package decktest

import (
	"image/color"
	"sort"
	"sync"
	"time"

	"tinygo.org/x/drivers"

	"github.com/pocketdeck/pocketdeck"
)

// Framebuffer is a monochrome drivers.Displayer backed by a bool per pixel.
type Framebuffer struct {
	W, H     int16
	pix      []bool
	Displays int
}

func NewFramebuffer(w, h int16) *Framebuffer {
	return &Framebuffer{W: w, H: h, pix: make([]bool, int(w)*int(h))}
}

func (f *Framebuffer) Size() (x, y int16) { return f.W, f.H }

func (f *Framebuffer) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= f.W || y >= f.H {
		return
	}
	f.pix[int(y)*int(f.W)+int(x)] = c.R|c.G|c.B != 0
}

func (f *Framebuffer) Display() error {
	f.Displays++
	return nil
}

// Lit reports whether the pixel at x, y is on.
func (f *Framebuffer) Lit(x, y int) bool {
	if x < 0 || y < 0 || x >= int(f.W) || y >= int(f.H) {
		return false
	}
	return f.pix[y*int(f.W)+x]
}

// LitCount returns the number of pixels that are on.
func (f *Framebuffer) LitCount() int {
	n := 0
	for _, p := range f.pix {
		if p {
			n++
		}
	}
	return n
}

// Display records every text frame.
type Display struct {
	mu     sync.Mutex
	Texts  []string
	Clears int
	fb     *Framebuffer
}

// NewDisplay returns a Display with a 128x32 canvas.
func NewDisplay() *Display {
	return &Display{fb: NewFramebuffer(128, 32)}
}

func (d *Display) RenderCentered(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Texts = append(d.Texts, text)
}

func (d *Display) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Clears++
}

func (d *Display) Canvas() drivers.Displayer { return d.fb }

// Framebuffer returns the canvas with its concrete type.
func (d *Display) Framebuffer() *Framebuffer { return d.fb }

// Last returns the most recent text, or "" if nothing was rendered.
func (d *Display) Last() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.Texts) == 0 {
		return ""
	}
	return d.Texts[len(d.Texts)-1]
}

// Contains reports whether text was rendered at any point.
func (d *Display) Contains(text string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, t := range d.Texts {
		if t == text {
			return true
		}
	}
	return false
}

type press struct {
	at time.Time
	b  pocketdeck.MenuButton
}

// Input replays scheduled presses against a clock. Each press is returned by exactly one poll, no earlier than its
// scheduled time. Queued presses with the same time come out one per poll, in order.
type Input struct {
	mu      sync.Mutex
	clock   pocketdeck.Clock
	pending []press
	Polls   int
}

func NewInput(clock pocketdeck.Clock) *Input {
	return &Input{clock: clock}
}

// Press schedules b to be returned at the clock's current time.
func (in *Input) Press(b ...pocketdeck.MenuButton) *Input {
	in.mu.Lock()
	defer in.mu.Unlock()
	now := in.clock.Now()
	for _, bb := range b {
		in.pending = append(in.pending, press{at: now, b: bb})
	}
	return in
}

// PressAfter schedules b to be returned once d has elapsed from now.
func (in *Input) PressAfter(d time.Duration, b pocketdeck.MenuButton) *Input {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.pending = append(in.pending, press{at: in.clock.Now().Add(d), b: b})
	sort.SliceStable(in.pending, func(i, j int) bool { return in.pending[i].at.Before(in.pending[j].at) })
	return in
}

// Pending returns the number of presses not consumed yet.
func (in *Input) Pending() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.pending)
}

func (in *Input) PressedButton() pocketdeck.MenuButton {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.Polls++
	if len(in.pending) == 0 || in.pending[0].at.After(in.clock.Now()) {
		return pocketdeck.MenuButtonNone
	}
	b := in.pending[0].b
	in.pending = in.pending[1:]
	return b
}

// Env returns an Env wired to a fresh Display, an Input and a FakeClock starting at the Unix epoch.
func Env() (pocketdeck.Env, *Display, *Input, *pocketdeck.FakeClock) {
	clock := pocketdeck.NewFakeClock(time.Unix(0, 0).UTC())
	disp := NewDisplay()
	in := NewInput(clock)
	return pocketdeck.Env{Display: disp, Input: in, Clock: clock, Log: pocketdeck.NopLogger{}}, disp, in, clock
}
