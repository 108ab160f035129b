package state

import (
	"net/url"
	"time"

	"github.com/kk-code-lab/mdview/internal/fs"
	"github.com/kk-code-lab/mdview/internal/images"
	"github.com/kk-code-lab/mdview/internal/markdown"
	"github.com/kk-code-lab/mdview/internal/search"
	"github.com/kk-code-lab/mdview/internal/theme"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	// ContentMarginX is the blank column left of the document.
	ContentMarginX = 1
	// StatusLines is the number of rows below the document.
	StatusLines = 1
	// MaxClickHistory bounds AppState.Clicks.
	MaxClickHistory = 5
	// MaxHistory bounds AppState.History.
	MaxHistory = 50
)

// ImageLoader resolves inline images in the background. *images.Loader
// implements it.
type ImageLoader interface {
	Load(nodes []markdown.InlineNode, callback func(images.LoadResult)) (token uint64, started bool)
	IsTokenCurrent(token uint64) bool
	// Invalidate makes the next Load restart even for unchanged nodes.
	Invalidate()
	Cancel()
}

// ClickRecord describes one activated link.
type ClickRecord struct {
	URL     string
	Title   string
	IsImage bool
	Result  string
	Err     error
	At      time.Time
}

// AppState is the single source of truth
type AppState struct {
	// Document
	Source   fs.Source
	Content  []byte
	Document markdown.Document
	Layout   Layout
	LoadedAt time.Time

	// Rendering
	Theme      theme.Theme
	SoftBreak  markdown.SoftBreakMode
	MaxWidth   int
	ShowImages bool
	// BaseURL, when set, resolves relative links instead of the source.
	BaseURL *url.URL

	// LinkGradient overrides the theme's link gradient when it has two or
	// more colors.
	LinkGradient []colorful.Color

	// Images
	Images        images.Lookup
	ImageLoader   ImageLoader
	ImageToken    uint64
	ImagesLoading bool

	// Document loading
	DocumentLoader  DocumentLoader
	DocumentLoading bool
	documentToken   int
	reloading       bool
	goingBack       bool

	// History holds previously shown documents, most recent last.
	History []fs.Source

	// Viewport
	ScrollOffset int
	FocusedLink  int
	ScreenWidth  int
	ScreenHeight int

	// Search
	SearchEditing bool
	SearchQuery   string
	SearchHits    []search.Hit
	SearchIndex   int

	HelpVisible  bool
	Clicks       []ClickRecord
	LastYankTime time.Time // Time of last successful yank (for flash effect)
	LastError    error

	dispatchAction func(Action)
}

// NewAppState returns a state with no document and no focused link.
func NewAppState(t theme.Theme) *AppState {
	return &AppState{Theme: t, ShowImages: true, FocusedLink: -1, SearchIndex: -1}
}

// SetDispatch exposes the reducer dispatch hook to other packages.
func (s *AppState) SetDispatch(fn func(Action)) {
	s.dispatchAction = fn
}

// Dispatch posts action through the dispatch hook, if one is set.
func (s *AppState) Dispatch(action Action) {
	if fn := s.dispatchAction; fn != nil {
		fn(action)
	}
}

func (s *AppState) getDispatch() func(Action) {
	return s.dispatchAction
}

// ContentWidth is the number of columns the document is laid out in.
func (s *AppState) ContentWidth() int {
	width := s.ScreenWidth - 2*ContentMarginX
	if s.MaxWidth > 0 && (width <= 0 || width > s.MaxWidth) {
		width = s.MaxWidth
	}
	return max(width, 0)
}

// ViewportHeight is the number of document lines visible at once.
func (s *AppState) ViewportHeight() int {
	return max(s.ScreenHeight-StatusLines, 1)
}

// VisibleLines returns the lines currently on screen.
func (s *AppState) VisibleLines() []Line {
	lines := s.Layout.Lines
	if s.ScrollOffset >= len(lines) {
		return nil
	}
	end := min(s.ScrollOffset+s.ViewportHeight(), len(lines))
	return lines[s.ScrollOffset:end]
}

// DocumentPosition converts screen coordinates to a document line and
// column.
func (s *AppState) DocumentPosition(x, y int) (line, column int, ok bool) {
	if y < 0 || y >= s.ViewportHeight() || x < ContentMarginX {
		return 0, 0, false
	}
	line = s.ScrollOffset + y
	if line >= len(s.Layout.Lines) {
		return 0, 0, false
	}
	return line, x - ContentMarginX, true
}

// FocusedLinkTarget returns the focused link.
func (s *AppState) FocusedLinkTarget() (Link, bool) {
	if s.FocusedLink < 0 || s.FocusedLink >= len(s.Layout.Links) {
		return Link{}, false
	}
	return s.Layout.Links[s.FocusedLink], true
}

// LastClick returns the most recent click.
func (s *AppState) LastClick() (ClickRecord, bool) {
	if len(s.Clicks) == 0 {
		return ClickRecord{}, false
	}
	return s.Clicks[0], true
}

func (s *AppState) maxScroll() int {
	return max(len(s.Layout.Lines)-s.ViewportHeight(), 0)
}

func (s *AppState) clampScroll() {
	s.ScrollOffset = max(min(s.ScrollOffset, s.maxScroll()), 0)
}

func (s *AppState) scrollBy(delta int) {
	s.ScrollOffset += delta
	s.clampScroll()
}

// ensureLinkVisible scrolls so that the focused link's first line is shown.
func (s *AppState) ensureLinkVisible() {
	link, ok := s.FocusedLinkTarget()
	if !ok {
		return
	}
	line := link.FirstLine()
	switch {
	case line < s.ScrollOffset:
		s.ScrollOffset = line
	case line >= s.ScrollOffset+s.ViewportHeight():
		s.ScrollOffset = line - s.ViewportHeight() + 1
	}
	s.clampScroll()
}

func (s *AppState) linkBase() *url.URL {
	if s.BaseURL != nil {
		return s.BaseURL
	}
	return s.Source.BaseURL()
}

func (s *AppState) relayout() {
	var lookup images.Lookup
	if s.ShowImages {
		lookup = s.Images
	}
	th := s.Theme
	if len(s.LinkGradient) > 1 {
		th.LinkGradient = s.LinkGradient
	}
	s.Layout = LayoutDocument(s.Document, LayoutOptions{
		Width:     s.ContentWidth(),
		Theme:     th,
		Images:    lookup,
		BaseURL:   s.linkBase(),
		SoftBreak: s.SoftBreak,
	})
	if s.FocusedLink >= len(s.Layout.Links) {
		s.FocusedLink = -1
	}
	s.refreshSearch()
	s.clampScroll()
}

// CurrentHit returns the selected search match.
func (s *AppState) CurrentHit() (search.Hit, bool) {
	if s.SearchIndex < 0 || s.SearchIndex >= len(s.SearchHits) {
		return search.Hit{}, false
	}
	return s.SearchHits[s.SearchIndex], true
}

// refreshSearch recomputes matches against the current layout, keeping the
// selection on the same line where possible.
func (s *AppState) refreshSearch() {
	if s.SearchQuery == "" {
		s.SearchHits = nil
		s.SearchIndex = -1
		return
	}
	line := s.ScrollOffset
	if hit, ok := s.CurrentHit(); ok {
		line = hit.Line
	}
	texts := make([]string, len(s.Layout.Lines))
	for i, l := range s.Layout.Lines {
		texts[i] = l.Text()
	}
	s.SearchHits = search.FindAll(texts, s.SearchQuery)
	s.SearchIndex = search.NextIndex(s.SearchHits, line)
}

// ensureHitVisible scrolls the selected match into view.
func (s *AppState) ensureHitVisible() {
	hit, ok := s.CurrentHit()
	if !ok {
		return
	}
	switch {
	case hit.Line < s.ScrollOffset:
		s.ScrollOffset = hit.Line
	case hit.Line >= s.ScrollOffset+s.ViewportHeight():
		s.ScrollOffset = hit.Line - s.ViewportHeight()/2
	}
	s.clampScroll()
}

func (s *AppState) pushHistory(src fs.Source) {
	s.History = append(s.History, src)
	if len(s.History) > MaxHistory {
		s.History = s.History[len(s.History)-MaxHistory:]
	}
}

func (s *AppState) recordClick(record ClickRecord) {
	s.Clicks = append([]ClickRecord{record}, s.Clicks...)
	if len(s.Clicks) > MaxClickHistory {
		s.Clicks = s.Clicks[:MaxClickHistory]
	}
}
