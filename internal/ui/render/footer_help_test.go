package render

import (
	"slices"
	"strings"
	"testing"

	statepkg "github.com/kk-code-lab/mdview/internal/state"
)

func TestBuildFooterHelpSegments_NoLinks(t *testing.T) {
	state := &statepkg.AppState{FocusedLink: -1}

	got := buildFooterHelpSegments(state)
	want := []string{"?: help", "q: quit"}

	if !slices.Equal(got, want) {
		t.Fatalf("default help mismatch\nwant: %#v\n got: %#v", want, got)
	}
}

func TestBuildFooterHelpSegments_WithLinks(t *testing.T) {
	state := &statepkg.AppState{
		FocusedLink: -1,
		Layout:      statepkg.Layout{Links: []statepkg.Link{{URL: "https://x.test"}}},
	}

	got := buildFooterHelpSegments(state)
	if len(got) == 0 || got[0] != "Tab: links" {
		t.Fatalf("expected link hint first, got %v", got)
	}

	state.FocusedLink = 0
	got = buildFooterHelpSegments(state)
	want := []string{"↵: open", "Tab/S-Tab: next/prev", "Esc: unfocus"}
	if !slices.Equal(got, want) {
		t.Fatalf("focused help mismatch\nwant: %#v\n got: %#v", want, got)
	}
}

func TestBuildFooterHelpTextPadding(t *testing.T) {
	state := &statepkg.AppState{FocusedLink: -1}

	text := buildFooterHelpText(state)
	if !strings.HasPrefix(text, " ") || !strings.HasSuffix(text, " ") {
		t.Fatalf("help text missing padding: %q", text)
	}
}

func TestBuildFooterHelpSegments_Search(t *testing.T) {
	state := &statepkg.AppState{FocusedLink: -1, SearchEditing: true}
	if got, want := buildFooterHelpSegments(state), []string{"↵: confirm", "Esc: cancel"}; !slices.Equal(got, want) {
		t.Fatalf("prompt help mismatch\nwant: %#v\n got: %#v", want, got)
	}

	state.SearchEditing = false
	state.SearchQuery = "x"
	if got, want := buildFooterHelpSegments(state), []string{"n/N: next/prev", "Esc: clear"}; !slices.Equal(got, want) {
		t.Fatalf("search help mismatch\nwant: %#v\n got: %#v", want, got)
	}
}
