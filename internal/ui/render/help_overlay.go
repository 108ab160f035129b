package render

import (
	"fmt"
	"strings"

	"github.com/kk-code-lab/mdview/internal/markdown"
	statepkg "github.com/kk-code-lab/mdview/internal/state"
	textutil "github.com/kk-code-lab/mdview/internal/textutil"
)

type helpOverlayEntry struct {
	keys string
	desc string
}

type helpOverlaySection struct {
	title   string
	entries []helpOverlayEntry
}

func buildHelpOverlayLines(state *statepkg.AppState) []string {
	breakDesc := "Render soft breaks as line breaks"
	if state != nil && state.SoftBreak == markdown.SoftBreakLineBreak {
		breakDesc = "Render soft breaks as spaces"
	}
	imageDesc := "Hide images"
	if state != nil && !state.ShowImages {
		imageDesc = "Show images"
	}

	sections := []helpOverlaySection{
		{
			title: "Scrolling",
			entries: []helpOverlayEntry{
				{keys: "↑/↓ or k/j", desc: "Scroll one line"},
				{keys: "PgUp/PgDn", desc: "Scroll one page"},
				{keys: "space / b", desc: "Page down / up"},
				{keys: "g / G", desc: "Top / bottom"},
				{keys: "wheel", desc: "Scroll"},
			},
		},
		{
			title: "Links",
			entries: []helpOverlayEntry{
				{keys: "Tab / S-Tab", desc: "Focus next / previous link"},
				{keys: "↵", desc: "Open focused link"},
				{keys: "click", desc: "Open link under the mouse"},
				{keys: "Esc", desc: "Clear link focus"},
				{keys: "y", desc: "Copy link URL to clipboard"},
				{keys: "[ or ⌫", desc: "Back to previous document"},
			},
		},
		{
			title: "Search",
			entries: []helpOverlayEntry{
				{keys: "/", desc: "Search the document"},
				{keys: "n / N", desc: "Next / previous match"},
				{keys: "Esc", desc: "Clear the search"},
			},
		},
		{
			title: "View",
			entries: []helpOverlayEntry{
				{keys: "s", desc: breakDesc},
				{keys: "i", desc: imageDesc},
				{keys: "t", desc: "Next theme"},
				{keys: "r", desc: "Reload document"},
				{keys: "e", desc: "Edit file in $EDITOR"},
			},
		},
		{
			title: "Exit",
			entries: []helpOverlayEntry{
				{keys: "q", desc: "Quit"},
				{keys: "Ctrl+C", desc: "Quit immediately"},
				{keys: "Ctrl+Z", desc: "Suspend to shell"},
				{keys: "?", desc: "Close this help"},
			},
		},
	}

	lines := make([]string, 0, 32)
	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.title)
		for _, entry := range section.entries {
			lines = append(lines, formatHelpOverlayEntry(entry))
		}
	}

	return lines
}

func formatHelpOverlayEntry(entry helpOverlayEntry) string {
	key := textutil.SanitizeTerminalText(entry.keys)
	desc := textutil.SanitizeTerminalText(entry.desc)
	return fmt.Sprintf("  %-14s %s", key, desc)
}

func (r *Renderer) drawHelpOverlay(state *statepkg.AppState, w, h int) {
	baseStyle := state.Theme.Style()
	for y := 0; y < h; y++ {
		r.fillRow(0, y, w, baseStyle)
	}

	title := " Help "
	headerStyle := state.Theme.StatusStyle().Bold(true)
	r.fillRow(0, 0, w, headerStyle)
	titleStart := 0
	titleWidth := r.measureTextWidth(title)
	if w > titleWidth {
		titleStart = (w - titleWidth) / 2
	}
	r.drawTextLine(titleStart, 0, w-titleStart, title, headerStyle)

	lines := buildHelpOverlayLines(state)
	row := 2
	maxRow := h - 1
	for _, line := range lines {
		if row >= maxRow {
			break
		}
		text := strings.TrimRight(line, " ")
		text = r.truncateTextToWidth(text, w-4)
		r.drawTextLine(2, row, w-4, text, baseStyle)
		row++
	}

	footer := "? toggle · Esc/q close"
	if h > 1 {
		r.fillRow(0, h-1, w, headerStyle)
		footerText := r.truncateTextToWidth(footer, w)
		r.drawTextLine(0, h-1, w, footerText, headerStyle)
	}
}
