package render

import (
	"strings"

	statepkg "github.com/kk-code-lab/mdview/internal/state"
)

// buildFooterHelpText returns the contextual footer hint string with leading/trailing padding.
func buildFooterHelpText(state *statepkg.AppState) string {
	parts := buildFooterHelpSegments(state)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

// buildFooterHelpSegments assembles context-aware help hints for the footer.
func buildFooterHelpSegments(state *statepkg.AppState) []string {
	if state == nil {
		return nil
	}

	if state.SearchEditing {
		return []string{
			"↵: confirm",
			"Esc: cancel",
		}
	}
	if state.SearchQuery != "" {
		return []string{
			"n/N: next/prev",
			"Esc: clear",
		}
	}
	if _, ok := state.FocusedLinkTarget(); ok {
		return []string{
			"↵: open",
			"Tab/S-Tab: next/prev",
			"Esc: unfocus",
		}
	}
	if len(state.Layout.Links) > 0 {
		return []string{
			"Tab: links",
			"/: search",
			"?: help",
			"q: quit",
		}
	}
	return []string{
		"?: help",
		"q: quit",
	}
}
