package music

import "github.com/pocketdeck/pocketdeck/internal/textview"

// Clean reduces track and artist names to what the display font can show. Accents are stripped, quotes and
// dashes get ASCII lookalikes, and emoji and anything else without a glyph are dropped.
func Clean(s string) string {
	return textview.Fold(s, -1)
}
