package render

import (
	"sort"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdview/internal/linktitle"
	"github.com/kk-code-lab/mdview/internal/search"
	statepkg "github.com/kk-code-lab/mdview/internal/state"
	"github.com/kk-code-lab/mdview/internal/styledtext"
	textutil "github.com/kk-code-lab/mdview/internal/textutil"
	"github.com/rivo/uniseg"
)

// YankFlashDuration is how long the status line flashes after a yank.
const YankFlashDuration = 100 * time.Millisecond

// Renderer handles all UI rendering
type Renderer struct {
	screen tcell.Screen
	// hyperlinks enables OSC 8 hyperlinks on link cells.
	hyperlinks bool
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// SetHyperlinks toggles OSC 8 hyperlinks for link cells.
func (r *Renderer) SetHyperlinks(enabled bool) {
	r.hyperlinks = enabled
}

// Render draws the entire UI based on state
func (r *Renderer) Render(state *statepkg.AppState) {
	r.screen.Clear()

	w, h := r.screen.Size()
	if state.HelpVisible {
		r.drawHelpOverlay(state, w, h)
		r.screen.Show()
		return
	}

	r.drawDocument(state, w, h)
	r.drawStatusLine(state, w, h)

	r.screen.Show()
}

// drawDocument renders the visible layout lines above the status line.
func (r *Renderer) drawDocument(state *statepkg.AppState, w, h int) {
	base := state.Theme.Style()
	bottom := h - statepkg.StatusLines
	for y := 0; y < bottom; y++ {
		r.fillRow(0, y, w, base)
	}

	focused, hasFocus := state.FocusedLinkTarget()
	focusStyle := state.Theme.FocusStyle()
	current, hasCurrent := state.CurrentHit()

	for i, line := range state.VisibleLines() {
		y := i
		if y >= bottom {
			break
		}
		lineIdx := state.ScrollOffset + i
		lineHits := hitsOnLine(state.SearchHits, lineIdx)
		x := statepkg.ContentMarginX
		col := 0
		for _, run := range line.Runs {
			style := r.runStyle(run, base)
			gr := uniseg.NewGraphemes(run.Display())
			for gr.Next() {
				cw := gr.Width()
				if x+cw > w {
					break
				}
				cellStyle := style
				if hasFocus && inRegions(focused.Regions, lineIdx, col) {
					cellStyle = r.linkStyle(focusStyle, run.Attrs.Link)
				}
				if search.Contains(lineHits, lineIdx, col) {
					cellStyle = cellStyle.Reverse(true)
					if hasCurrent && current.Line == lineIdx && col >= current.Span.Start && col < current.Span.End {
						cellStyle = r.linkStyle(focusStyle.Bold(true), run.Attrs.Link)
					}
				}
				runes := gr.Runes()
				r.screen.SetContent(x, y, runes[0], runes[1:], cellStyle)
				x += cw
				col += cw
			}
		}
	}
}

func (r *Renderer) runStyle(run styledtext.Run, base tcell.Style) tcell.Style {
	style := run.Attrs.Style(base)
	if run.Image != nil {
		style = style.Foreground(run.Image.Tint)
	}
	return r.linkStyle(style, run.Attrs.Link)
}

// linkStyle attaches the hyperlink target. Encoded titles never reach the
// terminal.
func (r *Renderer) linkStyle(style tcell.Style, link string) tcell.Style {
	if !r.hyperlinks || link == "" {
		return style
	}
	return style.Url(linktitle.Strip(link))
}

// hitsOnLine returns the hits of line. Hits are in document order.
func hitsOnLine(hits []search.Hit, line int) []search.Hit {
	start := sort.Search(len(hits), func(i int) bool { return hits[i].Line >= line })
	end := start
	for end < len(hits) && hits[end].Line == line {
		end++
	}
	return hits[start:end]
}

func inRegions(regions []statepkg.Region, line, col int) bool {
	for _, region := range regions {
		if region.Line == line && col >= region.Start && col < region.End {
			return true
		}
	}
	return false
}

// drawStatusLine renders the bottom row: source and state on the left,
// position on the right, key hints in between when there is room.
func (r *Renderer) drawStatusLine(state *statepkg.AppState, w, h int) {
	if h <= 0 {
		return
	}
	y := h - 1
	style := state.Theme.StatusStyle()
	if !state.LastYankTime.IsZero() && time.Since(state.LastYankTime) < YankFlashDuration {
		style = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	}
	r.fillRow(0, y, w, style)

	position := " " + formatPosition(state) + " "
	positionWidth := r.measureTextWidth(position)
	available := w - positionWidth
	if available < 0 {
		available = 0
	}

	if state.SearchEditing {
		prompt := r.truncateTextToWidth(" /"+textutil.SanitizeTerminalText(state.SearchQuery), available)
		x := r.drawTextLine(0, y, available, prompt, style)
		if x < w {
			r.screen.ShowCursor(x, y)
		}
		if positionWidth <= w {
			r.drawTextLine(w-positionWidth, y, positionWidth, position, style)
		}
		return
	}
	r.screen.HideCursor()

	left := " " + textutil.SanitizeTerminalText(buildStatusText(state))
	left = r.truncateTextToWidth(left, available)
	x := r.drawTextLine(0, y, available, left, style)

	if state.LastError != nil && x < available {
		errStyle := style.Foreground(state.Theme.ErrorFg).Bold(true)
		text := r.truncateTextToWidth(" · "+textutil.SanitizeTerminalText(state.LastError.Error()), available-x)
		x = r.drawTextLine(x, y, available-x, text, errStyle)
	}

	if hint := buildFooterHelpText(state); hint != "" {
		hintWidth := r.measureTextWidth(hint)
		if x+hintWidth <= available {
			r.drawTextLine(available-hintWidth, y, hintWidth, hint, style.Dim(true))
		}
	}

	if positionWidth <= w {
		r.drawTextLine(w-positionWidth, y, positionWidth, position, style)
	}
}

func (r *Renderer) fillRow(startX, y, endX int, style tcell.Style) {
	for x := startX; x < endX; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}
