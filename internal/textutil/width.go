package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const DefaultTabWidth = 4

// ExpandTabs replaces tab characters with spaces up to the next tab stop.
func ExpandTabs(text string, tabWidth int) string {
	if tabWidth <= 0 || !strings.ContainsRune(text, '\t') {
		return text
	}

	var builder strings.Builder
	column := 0
	for _, ru := range text {
		if ru == '\t' {
			spaces := tabWidth - (column % tabWidth)
			builder.WriteString(strings.Repeat(" ", spaces))
			column += spaces
			continue
		}
		builder.WriteRune(ru)
		column += max(runewidth.RuneWidth(ru), 0)
	}
	return builder.String()
}

// DisplayWidth reports how many terminal cells text occupies, counting
// each grapheme cluster once.
func DisplayWidth(text string) int {
	return uniseg.StringWidth(text)
}

// PadRight pads text with spaces to width cells.
func PadRight(text string, width int) string {
	if w := DisplayWidth(text); w < width {
		return text + strings.Repeat(" ", width-w)
	}
	return text
}
