package state

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/kk-code-lab/mdview/internal/fs"
	"github.com/kk-code-lab/mdview/internal/images"
	"github.com/kk-code-lab/mdview/internal/logfields"
	"github.com/kk-code-lab/mdview/internal/markdown"
	"github.com/kk-code-lab/mdview/internal/search"
	"github.com/kk-code-lab/mdview/internal/theme"
)

// ===== REDUCER =====

// StateReducer applies actions to state
type StateReducer struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewStateReducer creates a new reducer. A nil logger discards output.
func NewStateReducer(logger *slog.Logger) *StateReducer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &StateReducer{logger: logger, now: time.Now}
}

// Reduce applies action to state. State is mutated in place; the returned
// pointer is the same state.
func (r *StateReducer) Reduce(state *AppState, action Action) (*AppState, error) {
	switch a := action.(type) {

	// ===== SCROLL =====

	case ScrollDownAction:
		state.scrollBy(1)
	case ScrollUpAction:
		state.scrollBy(-1)
	case ScrollPageDownAction:
		state.scrollBy(max(state.ViewportHeight()-1, 1))
	case ScrollPageUpAction:
		state.scrollBy(-max(state.ViewportHeight()-1, 1))
	case ScrollTopAction:
		state.ScrollOffset = 0
	case ScrollBottomAction:
		state.ScrollOffset = state.maxScroll()
	case ScrollByAction:
		state.scrollBy(a.Delta)

	// ===== LINKS =====

	case FocusNextLinkAction:
		r.moveFocus(state, 1)
	case FocusPrevLinkAction:
		r.moveFocus(state, -1)
	case ClearLinkFocusAction:
		state.FocusedLink = -1
	case ClickAction:
		idx, ok := state.Layout.HitTest(a.Line, a.Column)
		if !ok {
			state.FocusedLink = -1
			return state, nil
		}
		state.FocusedLink = idx
	case ActivateLinkAction, YankLinkAction:
		// Performed by the event loop, which owns the click coordinator.
	case LinkActivatedAction:
		record := a.Record
		if record.At.IsZero() {
			record.At = r.now()
		}
		state.recordClick(record)
		if record.Err != nil {
			state.LastError = record.Err
		}

	// ===== SEARCH =====

	case StartSearchAction:
		state.LastError = nil
		state.SearchEditing = true
		state.SearchQuery = ""
		state.refreshSearch()
	case SearchInputAction:
		if !state.SearchEditing {
			return state, nil
		}
		state.SearchQuery += string(a.Rune)
		r.updateSearch(state)
	case SearchBackspaceAction:
		if !state.SearchEditing {
			return state, nil
		}
		if q := []rune(state.SearchQuery); len(q) > 0 {
			state.SearchQuery = string(q[:len(q)-1])
		}
		r.updateSearch(state)
	case SearchConfirmAction:
		state.SearchEditing = false
		if state.SearchQuery != "" && len(state.SearchHits) == 0 {
			state.LastError = fmt.Errorf("pattern not found: %s", state.SearchQuery)
		}
	case SearchCancelAction:
		state.SearchEditing = false
		state.SearchQuery = ""
		state.refreshSearch()
	case SearchNextAction:
		r.moveHit(state, 1)
	case SearchPrevAction:
		r.moveHit(state, -1)

	// ===== DOCUMENT =====

	case LoadDocumentAction:
		r.startDocumentLoad(state, a.Source, false)
	case ReloadAction:
		if state.Source.IsStdin() {
			return state, nil
		}
		r.startDocumentLoad(state, state.Source, true)
	case HistoryBackAction:
		if len(state.History) == 0 || state.DocumentLoader == nil {
			return state, nil
		}
		r.startDocumentLoad(state, state.History[len(state.History)-1], false)
		state.goingBack = true
	case OpenEditorAction:
		// Handled by the event loop.
	case DocumentLoadedAction:
		if a.Token != 0 && a.Token != state.documentToken {
			r.logger.Debug("dropping stale document load", logfields.Token(uint64(a.Token)))
			return state, nil
		}
		reload := state.reloading
		back := state.goingBack
		state.DocumentLoading = false
		state.reloading = false
		state.goingBack = false
		if a.Err != nil {
			state.LastError = fmt.Errorf("load %s: %w", a.Source.Name(), a.Err)
			r.logger.Warn("document load failed", logfields.Source(a.Source.Name()), logfields.Error(a.Err))
			return state, nil
		}
		switch {
		case back:
			state.History = state.History[:len(state.History)-1]
		case !reload && !state.Source.IsStdin() && !sameSource(state.Source, a.Source):
			state.pushHistory(state.Source)
		}
		r.applyDocument(state, a.Source, a.Content, reload)
	case ImagesLoadedAction:
		if a.Token != state.ImageToken || (state.ImageLoader != nil && !state.ImageLoader.IsTokenCurrent(a.Token)) {
			r.logger.Debug("dropping stale image lookup", logfields.Token(a.Token))
			return state, nil
		}
		state.ImagesLoading = false
		state.Images = a.Lookup
		if a.Err != nil {
			state.LastError = fmt.Errorf("images: %w", a.Err)
		}
		if state.ShowImages {
			state.relayout()
		}

	// ===== VIEW =====

	case ResizeAction:
		widthChanged := state.ScreenWidth != a.Width
		state.ScreenWidth = a.Width
		state.ScreenHeight = a.Height
		if widthChanged {
			state.relayout()
		}
		state.clampScroll()
	case ToggleHelpAction:
		state.HelpVisible = !state.HelpVisible
	case ToggleSoftBreakAction:
		if state.SoftBreak == markdown.SoftBreakSpace {
			state.SoftBreak = markdown.SoftBreakLineBreak
		} else {
			state.SoftBreak = markdown.SoftBreakSpace
		}
		state.relayout()
	case CycleThemeAction:
		state.Theme = nextTheme(state.Theme)
		state.relayout()
	case ToggleImagesAction:
		state.ShowImages = !state.ShowImages
		if state.ShowImages {
			r.requestImages(state)
		} else {
			if state.ImageLoader != nil {
				state.ImageLoader.Cancel()
			}
			state.ImagesLoading = false
		}
		state.relayout()

	case QuitAction, SuspendAction:
		// Handled by the event loop.
	}

	return state, nil
}

func (r *StateReducer) moveFocus(state *AppState, step int) {
	links := state.Layout.Links
	if len(links) == 0 {
		state.FocusedLink = -1
		return
	}
	if state.FocusedLink < 0 || state.FocusedLink >= len(links) {
		state.FocusedLink = firstLinkInView(state, step)
	} else {
		state.FocusedLink = (state.FocusedLink + step + len(links)) % len(links)
	}
	state.ensureLinkVisible()
}

// firstLinkInView picks the first (step > 0) or last (step < 0) link on
// screen, falling back to the document's first or last link.
func firstLinkInView(state *AppState, step int) int {
	links := state.Layout.Links
	top := state.ScrollOffset
	bottom := top + state.ViewportHeight()
	if step > 0 {
		for i, link := range links {
			if line := link.FirstLine(); line >= top && line < bottom {
				return i
			}
		}
		return 0
	}
	for i := len(links) - 1; i >= 0; i-- {
		if line := links[i].FirstLine(); line >= top && line < bottom {
			return i
		}
	}
	return len(links) - 1
}

// updateSearch re-runs the query from the top of the viewport, as typed
// queries refine incrementally.
func (r *StateReducer) updateSearch(state *AppState) {
	state.SearchIndex = -1
	state.refreshSearch()
	state.ensureHitVisible()
}

func (r *StateReducer) moveHit(state *AppState, step int) {
	hits := state.SearchHits
	if len(hits) == 0 {
		return
	}
	if state.SearchIndex < 0 {
		state.SearchIndex = search.NextIndex(hits, state.ScrollOffset)
	} else {
		state.SearchIndex = (state.SearchIndex + step + len(hits)) % len(hits)
	}
	state.ensureHitVisible()
}

func (r *StateReducer) startDocumentLoad(state *AppState, src fs.Source, reload bool) {
	if state.DocumentLoader == nil {
		return
	}
	if state.DocumentLoading && state.documentToken != 0 {
		state.DocumentLoader.Cancel(state.documentToken)
	}
	state.documentToken++
	token := state.documentToken
	state.DocumentLoading = true
	state.reloading = reload
	state.goingBack = false
	state.DocumentLoader.Start(DocumentLoadRequest{
		Token:  token,
		Source: src,
		Callback: func(res DocumentLoadResult) {
			if dispatch := state.getDispatch(); dispatch != nil {
				dispatch(DocumentLoadedAction{Token: res.Token, Source: res.Source, Content: res.Content, Err: res.Err})
			}
		},
	})
}

func (r *StateReducer) applyDocument(state *AppState, src fs.Source, content []byte, reload bool) {
	state.Source = src
	state.Content = content
	state.Document = markdown.Parse(content)
	state.LoadedAt = r.now()
	state.LastError = nil
	if !reload {
		state.ScrollOffset = 0
		state.FocusedLink = -1
		state.SearchEditing = false
		state.SearchQuery = ""
	}
	state.relayout()
	r.logger.Info("document loaded",
		logfields.Source(src.Name()),
		logfields.Count(len(state.Layout.Lines)))
	if reload && state.ImageLoader != nil {
		// Image files may have changed along with the document.
		state.ImageLoader.Invalidate()
	}
	r.requestImages(state)
}

func (r *StateReducer) requestImages(state *AppState) {
	if !state.ShowImages || state.ImageLoader == nil {
		return
	}
	token, started := state.ImageLoader.Load(state.Document.AllInlines(), func(res images.LoadResult) {
		if dispatch := state.getDispatch(); dispatch != nil {
			dispatch(ImagesLoadedAction{Token: res.Token, Lookup: res.Lookup, Err: res.Err})
		}
	})
	if started {
		state.ImageToken = token
		state.ImagesLoading = true
	}
}

func sameSource(a, b fs.Source) bool {
	if a.URL != nil || b.URL != nil {
		return a.URL != nil && b.URL != nil && a.URL.String() == b.URL.String()
	}
	return a.Path == b.Path
}

func nextTheme(current theme.Theme) theme.Theme {
	names := theme.Names()
	next := names[0]
	for i, name := range names {
		if name == current.Name {
			next = names[(i+1)%len(names)]
			break
		}
	}
	t, _ := theme.Get(next)
	return t
}
