// Package textview implements pocketdeck.Display with a character buffer drawn on top of any pixel display.
package textview

import (
	"errors"
	"image/color"
	"strings"

	"github.com/ajanata/textbuf"
	"tinygo.org/x/drivers"

	"github.com/pocketdeck/pocketdeck"
)

// View renders centered text through textbuf and exposes the underlying pixels for games.
type View struct {
	disp drivers.Displayer
	buf  *textbuf.Buffer
	log  pocketdeck.Logger

	cols, rows int
}

// glyph size of textbuf.FontSize6x8
const (
	fontW = 6
	fontH = 8
)

// New wraps disp. The display must fit at least 10x2 characters of the 6x8 font.
func New(disp drivers.Displayer, log pocketdeck.Logger) (*View, error) {
	if disp == nil {
		return nil, errors.New("must provide display")
	}
	if log == nil {
		log = pocketdeck.NopLogger{}
	}
	buf, err := textbuf.New(disp, textbuf.FontSize6x8)
	if err != nil {
		return nil, errors.New("init text buffer: " + err.Error())
	}

	w, h := buf.Size()
	if w < 10 || h < 2 {
		return nil, errors.New("unusably small display")
	}
	return &View{
		disp: disp,
		buf:  buf,
		log:  log,
		cols: int(w),
		rows: int(h),
	}, nil
}

// Size returns the text grid in characters.
func (v *View) Size() (cols, rows int) { return v.cols, v.rows }

// RenderCentered folds text to the font's character set, lays it out and writes every row. textbuf flushes the
// whole display on each SetLine, so the frame is complete once the last row is written.
func (v *View) RenderCentered(text string) {
	lines := Layout(Fold(text, '?'), v.cols, v.rows)
	top := (v.rows - len(lines)) / 2
	v.clearMargins()
	for row := 0; row < v.rows; row++ {
		line := ""
		if i := row - top; i >= 0 && i < len(lines) {
			line = Center(lines[i], v.cols)
		}
		if err := v.buf.SetLine(int16(row), line); err != nil {
			v.log.Warnf("textview: line %d: %v", row, err)
		}
	}
}

func (v *View) Clear() {
	v.clearMargins()
	if err := v.buf.Clear(); err != nil {
		v.log.Warnf("textview: clear: %v", err)
	}
}

func (v *View) Canvas() drivers.Displayer { return v.disp }

// clearMargins turns off the pixels the text grid does not cover. Games draw there, and textbuf only repaints
// its own cells.
func (v *View) clearMargins() {
	w, h := v.disp.Size()
	gw, gh := int16(v.cols*fontW), int16(v.rows*fontH)
	for y := int16(0); y < h; y++ {
		x := gw
		if y >= gh {
			x = 0
		}
		for ; x < w; x++ {
			v.disp.SetPixel(x, y, color.RGBA{})
		}
	}
}

// Layout splits text into at most rows lines of at most cols characters. Embedded newlines always break; longer
// lines wrap at spaces, and words longer than a line are split.
func Layout(text string, cols, rows int) []string {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		out = append(out, wrap(para, cols)...)
		if len(out) >= rows {
			return out[:rows]
		}
	}
	return out
}

func wrap(para string, cols int) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	var cur []rune
	for _, w := range words {
		r := []rune(w)
		for len(r) > cols {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(r[:cols]))
			r = r[cols:]
		}
		if len(r) == 0 {
			continue
		}
		switch {
		case len(cur) == 0:
			cur = r
		case len(cur)+1+len(r) <= cols:
			cur = append(append(cur, ' '), r...)
		default:
			lines = append(lines, string(cur))
			cur = r
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}

// Center pads s with leading spaces so it sits in the middle of a cols-wide line.
func Center(s string, cols int) string {
	n := len([]rune(s))
	if n >= cols {
		return s
	}
	return strings.Repeat(" ", (cols-n)/2) + s
}
