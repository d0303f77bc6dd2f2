// Package sim runs the deck on a desktop: an ebiten window or a tcell terminal stands in for the OLED and the
// buttons. The deck core runs on its own goroutine and talks to the frontend only through a Framebuffer and Keys.
package sim

import (
	"image/color"
	"sync"
)

// Framebuffer is a monochrome drivers.Displayer shared between the deck and a frontend. Drawing goes to a back
// buffer that Display publishes atomically.
type Framebuffer struct {
	w, h int16
	back []bool

	mu      sync.Mutex
	front   []bool
	version uint64
}

func NewFramebuffer(w, h int16) *Framebuffer {
	n := int(w) * int(h)
	return &Framebuffer{w: w, h: h, back: make([]bool, n), front: make([]bool, n)}
}

func (f *Framebuffer) Size() (x, y int16) {
	return f.w, f.h
}

func (f *Framebuffer) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return
	}
	f.back[int(y)*int(f.w)+int(x)] = c.R|c.G|c.B != 0
}

func (f *Framebuffer) Display() error {
	f.mu.Lock()
	copy(f.front, f.back)
	f.version++
	f.mu.Unlock()
	return nil
}

// Snapshot copies the last published frame into dst, which must hold w*h entries, and returns its version.
// Version 0 means nothing has been published yet.
func (f *Framebuffer) Snapshot(dst []bool) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.front)
	return f.version
}

// Version returns the number of frames published so far.
func (f *Framebuffer) Version() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.version
}
