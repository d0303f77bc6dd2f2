package orient

import (
	"image/color"
	"testing"

	"github.com/pocketdeck/pocketdeck/internal/decktest"
)

func TestFlip180(t *testing.T) {
	fb := decktest.NewFramebuffer(128, 32)
	f := Flip180(fb)

	if w, h := f.Size(); w != 128 || h != 32 {
		t.Fatalf("Size = %d, %d", w, h)
	}
	f.SetPixel(0, 0, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	f.SetPixel(10, 5, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	if !fb.Lit(127, 31) || !fb.Lit(117, 26) || fb.LitCount() != 2 {
		t.Fatalf("pixels not flipped: %d lit", fb.LitCount())
	}
	if err := f.Display(); err != nil || fb.Displays != 1 {
		t.Fatalf("Display = %v, displays %d", err, fb.Displays)
	}
}
