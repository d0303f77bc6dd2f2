package textview

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// lookalikes covers letters and punctuation that do not decompose into ASCII.
var lookalikes = map[rune]string{
	'\u00a0': " ",  // no-break space
	'\u00df': "ss", // sharp s
	'\u00e6': "ae",
	'\u00c6': "AE",
	'\u00f8': "o",
	'\u00d8': "O",
	'\u0153': "oe",
	'\u0152': "OE",
	'\u0142': "l",
	'\u0141': "L",
	'\u0111': "d",
	'\u0110': "D",
	'\u00b0': "o", // degree
	'\u2010': "-", // hyphen
	'\u2013': "-", // en dash
	'\u2014': "-", // em dash
	'\u2018': "'",
	'\u2019': "'",
	'\u201c': "\"",
	'\u201d': "\"",
	'\u2026': "...", // ellipsis
}

// Fold rewrites s into printable ASCII, the only characters the display font has glyphs for, one byte per cell.
// Accents are stripped, invisible format characters such as zero-width joiners and variation selectors are
// dropped, and known lookalikes are substituted. Any other rune becomes missing, or is dropped if missing is
// negative. Newlines are kept and tabs become spaces.
func Fold(s string, missing rune) string {
	// transformers keep state between calls, so each Fold gets its own chain
	strip := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), runes.Remove(runes.In(unicode.Cf)))
	if out, _, err := transform.String(strip, s); err == nil {
		s = out
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || (r >= ' ' && r <= '~'):
			b.WriteRune(r)
		case r == '\t':
			b.WriteByte(' ')
		default:
			if alt, ok := lookalikes[r]; ok {
				b.WriteString(alt)
			} else if missing >= 0 {
				b.WriteRune(missing)
			}
		}
	}
	return b.String()
}
