// Package orient wraps a display for panels that are not mounted the right way up.
package orient

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// Flip rotates everything drawn on the wrapped display by 180 degrees.
type Flip struct {
	d    drivers.Displayer
	w, h int16
}

func Flip180(d drivers.Displayer) *Flip {
	w, h := d.Size()
	return &Flip{d: d, w: w, h: h}
}

func (f *Flip) Size() (x, y int16) {
	return f.w, f.h
}

func (f *Flip) SetPixel(x, y int16, c color.RGBA) {
	f.d.SetPixel(f.w-x-1, f.h-y-1, c)
}

func (f *Flip) Display() error {
	return f.d.Display()
}
