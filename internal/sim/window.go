package sim

import (
	"context"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/pocketdeck/pocketdeck"
)

var windowKeys = map[ebiten.Key]pocketdeck.MenuButton{
	ebiten.KeyArrowUp:    pocketdeck.MenuButtonUp,
	ebiten.KeyArrowDown:  pocketdeck.MenuButtonDown,
	ebiten.KeyArrowLeft:  pocketdeck.MenuButtonLeft,
	ebiten.KeyArrowRight: pocketdeck.MenuButtonRight,
	ebiten.KeyEnter:      pocketdeck.MenuButtonSelect,
	ebiten.KeySpace:      pocketdeck.MenuButtonSelect,
	ebiten.KeyEscape:     pocketdeck.MenuButtonBack,
	ebiten.KeyBackspace:  pocketdeck.MenuButtonBack,
}

// Window shows the framebuffer in a desktop window, scaled up, and reads the arrow keys, enter/space (select)
// and escape/backspace (back).
type Window struct {
	FB   *Framebuffer
	Keys *Keys

	scale int
	ctx   context.Context
	img   *ebiten.Image
	lit   []bool
	pix   []byte
	shown uint64
}

func NewWindow(w, h int16, scale int) *Window {
	if scale <= 0 {
		scale = 4
	}
	return &Window{
		FB:    NewFramebuffer(w, h),
		Keys:  NewKeys(),
		scale: scale,
		lit:   make([]bool, int(w)*int(h)),
		pix:   make([]byte, 4*int(w)*int(h)),
	}
}

// Run opens the window and blocks until it is closed or ctx is done. It must be called from the main goroutine.
func (w *Window) Run(ctx context.Context) error {
	w.ctx = ctx
	fw, fh := w.FB.Size()
	ebiten.SetWindowTitle("pocketdeck")
	ebiten.SetWindowSize(int(fw)*w.scale, int(fh)*w.scale)
	ebiten.SetTPS(60)
	err := ebiten.RunGame(w)
	if err == ebiten.Termination {
		return nil
	}
	return err
}

func (w *Window) Update() error {
	if w.ctx != nil && w.ctx.Err() != nil {
		return ebiten.Termination
	}
	held := make(map[pocketdeck.MenuButton]bool, len(windowKeys))
	for k, b := range windowKeys {
		held[b] = held[b] || ebiten.IsKeyPressed(k)
	}
	for b, h := range held {
		w.Keys.Set(b, h)
	}
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	fw, fh := w.FB.Size()
	if w.img == nil {
		w.img = ebiten.NewImage(int(fw), int(fh))
	}
	if v := w.FB.Snapshot(w.lit); v != w.shown {
		w.shown = v
		toRGBA(w.pix, w.lit)
		w.img.WritePixels(w.pix)
	}
	screen.DrawImage(w.img, nil)
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	fw, fh := w.FB.Size()
	return int(fw), int(fh)
}

// toRGBA expands lit pixels to white and the rest to black.
func toRGBA(dst []byte, lit []bool) {
	for i, on := range lit {
		var v byte
		if on {
			v = 0xFF
		}
		j := i * 4
		dst[j+0] = v
		dst[j+1] = v
		dst[j+2] = v
		dst[j+3] = 0xFF
	}
}
