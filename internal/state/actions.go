package state

import (
	"github.com/kk-code-lab/mdview/internal/fs"
	"github.com/kk-code-lab/mdview/internal/images"
)

// Action is the base interface for all state mutations
type Action interface{}

// ===== SCROLL ACTIONS =====

type ScrollUpAction struct{}
type ScrollDownAction struct{}
type ScrollPageUpAction struct{}
type ScrollPageDownAction struct{}
type ScrollTopAction struct{}
type ScrollBottomAction struct{}

// ScrollByAction scrolls by Delta lines, negative is up (mouse wheel).
type ScrollByAction struct {
	Delta int
}

// ===== LINK ACTIONS =====

type FocusNextLinkAction struct{}
type FocusPrevLinkAction struct{}
type ClearLinkFocusAction struct{}

// ClickAction focuses the link under a document cell, if any.
type ClickAction struct {
	Line   int
	Column int
}

// ActivateLinkAction opens the focused link. The event loop performs the
// click and reports back with LinkActivatedAction.
type ActivateLinkAction struct{}

// LinkActivatedAction records a completed click.
type LinkActivatedAction struct {
	Record ClickRecord
}

// YankLinkAction copies the focused link's URL to the clipboard. Performed
// by the event loop.
type YankLinkAction struct{}

// ===== SEARCH ACTIONS =====

// StartSearchAction opens the search prompt.
type StartSearchAction struct{}

// SearchInputAction appends Rune to the query being typed.
type SearchInputAction struct {
	Rune rune
}

type SearchBackspaceAction struct{}

// SearchConfirmAction closes the prompt, keeping the matches highlighted.
type SearchConfirmAction struct{}

// SearchCancelAction closes the prompt and clears the query.
type SearchCancelAction struct{}

type SearchNextAction struct{}
type SearchPrevAction struct{}

// ===== DOCUMENT ACTIONS =====

// LoadDocumentAction starts loading Source, replacing the current document.
type LoadDocumentAction struct {
	Source fs.Source
}

// ReloadAction reloads the current source, keeping the scroll position.
type ReloadAction struct{}

// HistoryBackAction returns to the previously shown document.
type HistoryBackAction struct{}

// OpenEditorAction opens the current file in $EDITOR. Performed by the event
// loop.
type OpenEditorAction struct{}

// DocumentLoadedAction delivers the content of a document load.
type DocumentLoadedAction struct {
	Token   int
	Source  fs.Source
	Content []byte
	Err     error
}

// ImagesLoadedAction delivers an image resolution.
type ImagesLoadedAction struct {
	Token  uint64
	Lookup images.Lookup
	Err    error
}

// ===== VIEW ACTIONS =====

type ResizeAction struct {
	Width  int
	Height int
}

type ToggleHelpAction struct{}
type ToggleSoftBreakAction struct{}
type ToggleImagesAction struct{}
type CycleThemeAction struct{}

// ===== APPLICATION ACTIONS =====

type QuitAction struct{}
type SuspendAction struct{}
