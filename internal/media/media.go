// Package media holds the embedded game sprites.
package media

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"image"
	"path"

	"golang.org/x/image/bmp"
)

//go:embed media/*/*.bmp
var sprites embed.FS

var (
	ErrUnknownType = errors.New("unknown sprite type")
	ErrWrongSize   = errors.New("sprite has the wrong size")
)

// LoadImage decodes the sprite typ/name and checks that it has the size every sprite of typ shares.
func LoadImage(typ Type, name string) (image.Image, error) {
	w, h := typ.Size()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%s/%s: %w", typ, name, ErrUnknownType)
	}
	raw, err := sprites.ReadFile(path.Join("media", string(typ), name+".bmp"))
	if err != nil {
		return nil, err
	}
	img, err := bmp.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", typ, name, err)
	}
	if got := img.Bounds().Size(); got != image.Pt(int(w), int(h)) {
		return nil, fmt.Errorf("%s/%s is %dx%d, want %dx%d: %w", typ, name, got.X, got.Y, w, h, ErrWrongSize)
	}
	return img, nil
}

// MustLoad is LoadImage for sprites that are compiled in and therefore cannot be missing.
func MustLoad(typ Type, name string) image.Image {
	img, err := LoadImage(typ, name)
	if err != nil {
		panic("media: " + err.Error())
	}
	return img
}
