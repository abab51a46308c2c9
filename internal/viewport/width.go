package viewport

import (
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// displayWidth returns the terminal column width of s, the same measure
// the teacher's pitui.VisibleWidth uses (ansi.StringWidth, which already
// accounts for wide glyphs and strips escape sequences) — horizontal
// scroll math needs this instead of byte or rune counts so double-width
// characters don't desync the cursor from its visual column.
func displayWidth(s string) int {
	return ansi.StringWidth(s)
}

// runeWidth is the per-rune fallback used when walking a line
// incrementally (e.g. to find the byte offset at a target display column)
// rather than measuring a whole string at once.
func runeWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// columnAt returns the display column of byte offset col within line
// (both measured from the line's start), by walking runes and summing
// their display widths.
func columnAt(line []byte, byteCol int) int {
	col := 0
	for i := 0; i < byteCol && i < len(line); {
		r, size := utf8.DecodeRune(line[i:])
		col += runeWidth(r)
		i += size
	}
	return col
}

// byteOffsetForColumn is the inverse of columnAt: the byte offset within
// line whose display column is the first to reach or exceed targetCol.
func byteOffsetForColumn(line []byte, targetCol int) int {
	col := 0
	for i := 0; i < len(line); {
		if col >= targetCol {
			return i
		}
		r, size := utf8.DecodeRune(line[i:])
		col += runeWidth(r)
		i += size
	}
	return len(line)
}
