package render

import (
	"fmt"
	"strings"

	"github.com/kk-code-lab/mdview/internal/markdown"
	statepkg "github.com/kk-code-lab/mdview/internal/state"
)

// buildStatusText joins the source name, loading flags and the last click.
func buildStatusText(state *statepkg.AppState) string {
	parts := []string{state.Source.Name()}
	parts = append(parts, statusFlags(state)...)
	if click, ok := state.LastClick(); ok {
		parts = append(parts, formatClick(click))
	}
	return strings.Join(parts, " · ")
}

func statusFlags(state *statepkg.AppState) []string {
	var flags []string
	if state.DocumentLoading {
		flags = append(flags, "loading…")
	}
	if state.ImagesLoading {
		flags = append(flags, "images…")
	}
	if state.SoftBreak == markdown.SoftBreakLineBreak {
		flags = append(flags, "breaks")
	}
	if !state.ShowImages {
		flags = append(flags, "no images")
	}
	if state.SearchQuery != "" {
		flags = append(flags, formatSearch(state))
	}
	return flags
}

func formatClick(click statepkg.ClickRecord) string {
	var b strings.Builder
	b.WriteString("→ ")
	if click.IsImage {
		b.WriteString("image ")
	}
	b.WriteString(click.URL)
	if click.Title != "" {
		fmt.Fprintf(&b, " %q", click.Title)
	}
	if click.Result != "" {
		fmt.Fprintf(&b, " (%s)", click.Result)
	}
	return b.String()
}

// formatPosition describes the visible line range, pager style.
func formatPosition(state *statepkg.AppState) string {
	total := len(state.Layout.Lines)
	if total == 0 {
		return "empty"
	}
	top := state.ScrollOffset + 1
	bottom := min(state.ScrollOffset+state.ViewportHeight(), total)
	maxScroll := max(total-state.ViewportHeight(), 0)

	var where string
	switch {
	case maxScroll == 0:
		where = "All"
	case state.ScrollOffset == 0:
		where = "Top"
	case state.ScrollOffset >= maxScroll:
		where = "Bot"
	default:
		where = fmt.Sprintf("%d%%", state.ScrollOffset*100/maxScroll)
	}
	return fmt.Sprintf("%d-%d/%d %s", top, bottom, total, where)
}

func formatSearch(state *statepkg.AppState) string {
	if len(state.SearchHits) == 0 {
		return fmt.Sprintf("/%s: no matches", state.SearchQuery)
	}
	return fmt.Sprintf("/%s %d/%d", state.SearchQuery, state.SearchIndex+1, len(state.SearchHits))
}
