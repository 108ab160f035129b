package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdview/internal/fs"
	statepkg "github.com/kk-code-lab/mdview/internal/state"
	"github.com/kk-code-lab/mdview/internal/theme"
)

func TestTruncateTextToWidth(t *testing.T) {
	r := NewRenderer(nil)

	tests := []struct {
		name   string
		text   string
		width  int
		expect string
	}{
		{
			name:   "fits without truncation",
			text:   "readme.md",
			width:  20,
			expect: "readme.md",
		},
		{
			name:   "adds ellipsis when needed",
			text:   "verylongname",
			width:  6,
			expect: "veryl…",
		},
		{
			name:   "only ellipsis when width too small",
			text:   "example",
			width:  1,
			expect: "…",
		},
		{
			name:   "multi-byte characters respected",
			text:   "你好世界",
			width:  5,
			expect: "你好…",
		},
		{
			name:   "returns empty when width is zero",
			text:   "anything",
			width:  0,
			expect: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := r.truncateTextToWidth(tt.text, tt.width)
			if actual != tt.expect {
				t.Fatalf("expected %q, got %q (width %d)", tt.expect, actual, tt.width)
			}
		})
	}
}

func TestMeasureTextWidth(t *testing.T) {
	r := NewRenderer(nil)

	if got := r.measureTextWidth("abc"); got != 3 {
		t.Fatalf("expected ASCII width 3, got %d", got)
	}

	if got := r.measureTextWidth("你好"); got != 4 {
		t.Fatalf("expected wide rune width 4, got %d", got)
	}
}

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func loadedState(t *testing.T, w, h int, content string) (*statepkg.AppState, *statepkg.StateReducer) {
	t.Helper()
	state := statepkg.NewAppState(theme.Default())
	reducer := statepkg.NewStateReducer(nil)
	actions := []statepkg.Action{
		statepkg.ResizeAction{Width: w, Height: h},
		statepkg.DocumentLoadedAction{Source: fs.Source{Path: "/tmp/notes.md"}, Content: []byte(content)},
	}
	for _, action := range actions {
		if _, err := reducer.Reduce(state, action); err != nil {
			t.Fatalf("reduce %T: %v", action, err)
		}
	}
	return state, reducer
}

func rowText(screen tcell.SimulationScreen, y, w int) string {
	var b strings.Builder
	for x := 0; x < w; x++ {
		mainc, combc, _, _ := screen.GetContent(x, y)
		b.WriteRune(mainc)
		for _, c := range combc {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func TestRenderDrawsDocumentWithMargin(t *testing.T) {
	screen := newScreen(t, 30, 5)
	state, _ := loadedState(t, 30, 5, "go [here](https://x.test)\n")

	NewRenderer(screen).Render(state)

	if got := rowText(screen, 0, 30); !strings.HasPrefix(got, " go here") {
		t.Fatalf("unexpected first row %q", got)
	}
	_, _, style, _ := screen.GetContent(4, 0)
	if _, _, attrs := style.Decompose(); attrs&tcell.AttrUnderline == 0 {
		t.Fatalf("expected link cell to be underlined")
	}
}

func TestRenderHighlightsFocusedLink(t *testing.T) {
	screen := newScreen(t, 30, 5)
	state, reducer := loadedState(t, 30, 5, "go [here](https://x.test)\n")
	if _, err := reducer.Reduce(state, statepkg.FocusNextLinkAction{}); err != nil {
		t.Fatalf("focus: %v", err)
	}

	NewRenderer(screen).Render(state)

	th := theme.Default()
	for x := 4; x < 8; x++ {
		_, _, style, _ := screen.GetContent(x, 0)
		fg, bg, _ := style.Decompose()
		if fg != th.FocusFg || bg != th.FocusBg {
			t.Fatalf("cell %d: expected focus colors, got fg=%v bg=%v", x, fg, bg)
		}
	}
	_, _, style, _ := screen.GetContent(1, 0)
	if _, bg, _ := style.Decompose(); bg == th.FocusBg {
		t.Fatalf("expected text outside the link to keep its style")
	}
}

func TestRenderStatusLine(t *testing.T) {
	screen := newScreen(t, 60, 5)
	state, _ := loadedState(t, 60, 5, "hello\n")
	state.LastError = errors.New("boom")

	NewRenderer(screen).Render(state)

	status := rowText(screen, 4, 60)
	for _, want := range []string{"notes.md", "boom", "1-1/1 All"} {
		if !strings.Contains(status, want) {
			t.Fatalf("expected status to contain %q, got %q", want, status)
		}
	}
}

func TestRenderHelpOverlay(t *testing.T) {
	screen := newScreen(t, 60, 20)
	state, _ := loadedState(t, 60, 20, "hello\n")
	state.HelpVisible = true

	NewRenderer(screen).Render(state)

	if got := rowText(screen, 0, 60); !strings.Contains(got, "Help") {
		t.Fatalf("expected help title, got %q", got)
	}
	if got := rowText(screen, 2, 60); !strings.Contains(got, "Scrolling") {
		t.Fatalf("expected first help section, got %q", got)
	}
}

func TestFormatPosition(t *testing.T) {
	state := statepkg.NewAppState(theme.Default())
	state.ScreenHeight = 11
	state.Layout = statepkg.Layout{Lines: make([]statepkg.Line, 100)}

	cases := []struct {
		offset int
		want   string
	}{
		{0, "1-10/100 Top"},
		{45, "46-55/100 50%"},
		{90, "91-100/100 Bot"},
	}
	for _, tc := range cases {
		state.ScrollOffset = tc.offset
		if got := formatPosition(state); got != tc.want {
			t.Fatalf("offset %d: got %q want %q", tc.offset, got, tc.want)
		}
	}

	state.Layout = statepkg.Layout{}
	if got := formatPosition(state); got != "empty" {
		t.Fatalf("expected empty position, got %q", got)
	}
}

func TestBuildStatusTextShowsLastClick(t *testing.T) {
	state := statepkg.NewAppState(theme.Default())
	state.Source = fs.Source{Path: "/docs/guide.md"}
	state.ImagesLoading = true
	state.Clicks = []statepkg.ClickRecord{{URL: "https://x.test", Title: "world", Result: "handled"}}

	got := buildStatusText(state)
	want := `guide.md · images… · → https://x.test "world" (handled)`
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestRenderHighlightsSearchMatches(t *testing.T) {
	screen := newScreen(t, 30, 5)
	state, reducer := loadedState(t, 30, 5, "find me and me\n")
	for _, action := range []statepkg.Action{
		statepkg.StartSearchAction{},
		statepkg.SearchInputAction{Rune: 'm'},
		statepkg.SearchInputAction{Rune: 'e'},
	} {
		if _, err := reducer.Reduce(state, action); err != nil {
			t.Fatalf("reduce %T: %v", action, err)
		}
	}

	NewRenderer(screen).Render(state)

	th := theme.Default()
	for _, x := range []int{6, 7} {
		_, _, style, _ := screen.GetContent(x, 0)
		if fg, bg, _ := style.Decompose(); fg != th.FocusFg || bg != th.FocusBg {
			t.Fatalf("cell %d: expected current match in focus colors, got fg=%v bg=%v", x, fg, bg)
		}
	}
	_, _, style, _ := screen.GetContent(13, 0)
	if _, _, attrs := style.Decompose(); attrs&tcell.AttrReverse == 0 {
		t.Fatalf("expected other match to be reversed")
	}
	_, _, style, _ = screen.GetContent(2, 0)
	if _, _, attrs := style.Decompose(); attrs&tcell.AttrReverse != 0 {
		t.Fatalf("expected text outside matches to keep its style")
	}

	if status := rowText(screen, 4, 30); !strings.HasPrefix(status, " /me") {
		t.Fatalf("expected search prompt in status line, got %q", status)
	}

	if _, err := reducer.Reduce(state, statepkg.SearchConfirmAction{}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got := buildStatusText(state); !strings.Contains(got, "/me 1/2") {
		t.Fatalf("expected match counter in status, got %q", got)
	}
}
