// Package sprite draws monochrome images, shapes and text onto a drivers.Displayer.
package sprite

import (
	"image"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	On  = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Off = color.RGBA{}
)

// Font is the small proportional font used for in-game readouts.
var Font tinyfont.Fonter = &proggy.TinySZ8pt7b

// DrawImage draws the lit pixels of img on the display at the given coordinates. Dark pixels are left alone so
// sprites can overlap the ground line. If wrap is true, off-screen coordinates will wrap around to the other side
// of the display. Otherwise, off-screen coordinates will be clipped.
//
// Wrapping negative offsets may not work correctly.
func DrawImage(disp drivers.Displayer, offX, offY int16, img image.Image, wrap bool) {
	w, h := disp.Size()
	b := img.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		xx := int16(x-b.Min.X) + offX
		if xx < 0 || xx >= w {
			if wrap {
				xx = xx % w
			} else {
				continue
			}
		}
		for y := b.Min.Y; y < b.Max.Y; y++ {
			yy := int16(y-b.Min.Y) + offY
			if yy < 0 || yy >= h {
				if wrap {
					yy = yy % h
				} else {
					continue
				}
			}
			if Lit(img.At(x, y)) {
				disp.SetPixel(xx, yy, On)
			}
		}
	}
}

// Lit reports whether c is bright enough to light a monochrome pixel.
func Lit(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	// RGBA returns 16-bit channels; use the usual luma weights
	y := (19595*r + 38470*g + 7471*b + 1<<15) >> 24
	return y >= 0x80
}

// Fill sets every pixel of the display to c.
func Fill(disp drivers.Displayer, c color.RGBA) {
	w, h := disp.Size()
	for x := int16(0); x < w; x++ {
		for y := int16(0); y < h; y++ {
			disp.SetPixel(x, y, c)
		}
	}
}

// FillRect fills a w x h box whose top-left corner is x, y, clipped to the display.
func FillRect(disp drivers.Displayer, x, y, w, h int16, c color.RGBA) {
	dw, dh := disp.Size()
	for xx := x; xx < x+w; xx++ {
		if xx < 0 || xx >= dw {
			continue
		}
		for yy := y; yy < y+h; yy++ {
			if yy < 0 || yy >= dh {
				continue
			}
			disp.SetPixel(xx, yy, c)
		}
	}
}

// HLine draws a full-width horizontal line.
func HLine(disp drivers.Displayer, y int16, c color.RGBA) {
	w, _ := disp.Size()
	FillRect(disp, 0, y, w, 1, c)
}

// Text draws s with its top-left corner at x, y.
func Text(disp drivers.Displayer, x, y int16, s string) {
	tinyfont.WriteLine(disp, Font, x, y+ascent, s, On)
}

// TextWidth returns the width of s in pixels.
func TextWidth(s string) int16 {
	_, w := tinyfont.LineWidth(Font, s)
	return int16(w)
}

// ascent is the distance from the top of a proggy glyph to its baseline.
const ascent = 6

// Cycle flips between frames every Every ticks.
type Cycle struct {
	Frames []image.Image
	Every  int
}

// At returns the frame to show on the given tick.
func (c Cycle) At(tick int) image.Image {
	if len(c.Frames) == 0 {
		return nil
	}
	every := c.Every
	if every <= 0 {
		every = 1
	}
	if tick < 0 {
		tick = -tick
	}
	return c.Frames[(tick/every)%len(c.Frames)]
}
