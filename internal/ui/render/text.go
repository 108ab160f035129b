package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

const ellipsis = "…"

// measureTextWidth counts cells the way drawTextLine places them.
func (r *Renderer) measureTextWidth(text string) int {
	return uniseg.StringWidth(text)
}

// truncateTextToWidth cuts text to maxWidth cells, ending it with an
// ellipsis when anything was dropped.
func (r *Renderer) truncateTextToWidth(text string, maxWidth int) string {
	if maxWidth <= 0 || text == "" {
		return ""
	}
	if uniseg.StringWidth(text) <= maxWidth {
		return text
	}
	available := maxWidth - uniseg.StringWidth(ellipsis)
	if available <= 0 {
		return ellipsis
	}

	var b strings.Builder
	used := 0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		w := gr.Width()
		if used+w > available {
			break
		}
		b.WriteString(gr.Str())
		used += w
	}
	b.WriteString(ellipsis)
	return b.String()
}

// drawTextLine draws text one grapheme cluster per cell and returns the
// column after it.
func (r *Renderer) drawTextLine(startX, y, maxWidth int, text string, style tcell.Style) int {
	x := startX
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		w := gr.Width()
		if x-startX+w > maxWidth {
			break
		}
		runes := gr.Runes()
		r.screen.SetContent(x, y, runes[0], runes[1:], style)
		x += w
	}
	return x
}
