package termout

import (
	"bytes"
	"net/url"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdview/internal/markdown"
	"github.com/kk-code-lab/mdview/internal/state"
	"github.com/kk-code-lab/mdview/internal/styledtext"
	"github.com/kk-code-lab/mdview/internal/theme"
	"github.com/muesli/reflow/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, source string, opts Options) string {
	t.Helper()
	if opts.Theme.Name == "" {
		opts.Theme = theme.Default()
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, markdown.Parse([]byte(source)), opts))
	return buf.String()
}

func TestWritePlain(t *testing.T) {
	out := render(t, "# Title\n\nSome *emphasis* and `code`.\n", Options{Width: 40, Plain: true})
	assert.Equal(t, "# Title\n\nSome emphasis and code.\n", out)
	assert.NotContains(t, out, "\x1b")
}

func TestWriteWraps(t *testing.T) {
	out := render(t, "alpha beta gamma\n", Options{Width: 10, Plain: true})
	assert.Equal(t, "alpha beta\ngamma\n", out)
}

func TestWriteStylesRuns(t *testing.T) {
	out := render(t, "**bold** text\n", Options{Width: 40})
	assert.Contains(t, out, "\x1b[1m"+"bold"+reset)
	assert.Equal(t, "bold text\n", stripEscapes(out))
}

func TestWriteHyperlinksStripTitle(t *testing.T) {
	out := render(t, "see [the docs](https://example.com/docs?a=1) now\n", Options{Width: 60, Hyperlinks: true})

	assert.Contains(t, out, osc8Start+"https://example.com/docs?a=1\x1b\\")
	assert.Contains(t, out, osc8End)
	assert.NotContains(t, out, "_mdLinkTitle")
	assert.Equal(t, "see the docs now\n", stripEscapes(out))
}

func TestWriteWithoutHyperlinks(t *testing.T) {
	out := render(t, "[docs](https://example.com/)\n", Options{Width: 60})
	assert.NotContains(t, out, "\x1b]8;")
}

func TestWriteResolvesRelativeLinks(t *testing.T) {
	base, err := url.Parse("https://example.com/guide/index.md")
	require.NoError(t, err)

	out := render(t, "[next](next.md)\n", Options{Width: 60, Hyperlinks: true, BaseURL: base})
	assert.Contains(t, out, osc8Start+"https://example.com/guide/next.md\x1b\\")
}

func TestWriteSoftBreakModes(t *testing.T) {
	source := "one\ntwo\n"
	assert.Equal(t, "one two\n", render(t, source, Options{Width: 40, Plain: true}))
	assert.Equal(t, "one\ntwo\n", render(t, source, Options{Width: 40, Plain: true, SoftBreak: markdown.SoftBreakLineBreak}))
}

func TestCodeBlockBackgroundFillsWidth(t *testing.T) {
	out := render(t, "```\nx := 1\n```\n", Options{Width: 20})

	var codeLine string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "x := 1") {
			codeLine = line
		}
	}
	require.NotEmpty(t, codeLine)
	assert.Equal(t, 20, ansi.PrintableRuneWidth(codeLine))
}

func TestFormatLineGroupsHyperlinkRuns(t *testing.T) {
	link := "https://example.com/"
	line := state.Line{Runs: []styledtext.Run{
		{Text: "bold", Attrs: styledtext.Attributes{Bold: true, Link: link}},
		{Text: " plain", Attrs: styledtext.Attributes{Link: link}},
		{Text: " after"},
	}}

	got := FormatLine(line, 0, Options{Hyperlinks: true})
	want := osc8Start + link + "\x1b\\" + "\x1b[1mbold" + reset + " plain" + osc8End + " after"
	assert.Equal(t, want, got)
}

func TestFormatLineDropsControlCharactersFromTargets(t *testing.T) {
	line := state.Line{Runs: []styledtext.Run{
		{Text: "x", Attrs: styledtext.Attributes{Link: "https://example.com/\x1b]0;evil\x07"}},
	}}
	got := FormatLine(line, 0, Options{Hyperlinks: true})
	assert.NotContains(t, got, "\x07")
	assert.Contains(t, got, osc8Start+"https://example.com/]0;evil\x1b\\")
}

func TestFormatLineTintsImages(t *testing.T) {
	line := state.Line{Runs: []styledtext.Run{
		{Image: &styledtext.InlineImage{Label: "logo", Tint: tcell.NewRGBColor(10, 20, 30)}},
	}}
	got := FormatLine(line, 0, Options{})
	assert.Equal(t, "\x1b[38;2;10;20;30m▣ logo"+reset, got)
}

func TestSGR(t *testing.T) {
	tests := []struct {
		name  string
		attrs styledtext.Attributes
		want  string
	}{
		{name: "plain", attrs: styledtext.Attributes{}, want: ""},
		{name: "flags", attrs: styledtext.Attributes{Bold: true, Italic: true, Underline: true}, want: "\x1b[1;3;4m"},
		{name: "dim strike", attrs: styledtext.Attributes{Dim: true, Strikethrough: true}, want: "\x1b[2;9m"},
		{name: "palette", attrs: styledtext.Attributes{Foreground: tcell.Color33}, want: "\x1b[38;5;33m"},
		{name: "rgb background", attrs: styledtext.Attributes{Background: tcell.NewRGBColor(1, 2, 3)}, want: "\x1b[48;2;1;2;3m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SGR(tt.attrs))
		})
	}
}

func TestResolveHyperlinks(t *testing.T) {
	env := map[string]string{"TERM_PROGRAM": "WezTerm"}
	getenv := func(key string) string { return env[key] }

	on, err := ResolveHyperlinks("auto", getenv)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = ResolveHyperlinks("off", getenv)
	require.NoError(t, err)
	assert.False(t, on)

	on, err = ResolveHyperlinks("ON", func(string) string { return "" })
	require.NoError(t, err)
	assert.True(t, on)

	_, err = ResolveHyperlinks("sometimes", getenv)
	assert.Error(t, err)
}

func TestDetectHyperlinks(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want bool
	}{
		{name: "empty", env: nil, want: false},
		{name: "disabled", env: map[string]string{"OSC8": "0", "WT_SESSION": "1"}, want: false},
		{name: "windows terminal", env: map[string]string{"WT_SESSION": "abc"}, want: true},
		{name: "kitty", env: map[string]string{"TERM": "xterm-kitty"}, want: true},
		{name: "new vte", env: map[string]string{"VTE_VERSION": "6800"}, want: true},
		{name: "old vte", env: map[string]string{"VTE_VERSION": "4000"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectHyperlinks(func(key string) string { return tt.env[key] })
			assert.Equal(t, tt.want, got)
		})
	}
}

func stripEscapes(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\x1b' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '[' {
			for i += 2; i < len(s) && (s[i] < 0x40 || s[i] > 0x7e); i++ {
			}
			continue
		}
		if i+1 < len(s) && s[i+1] == ']' {
			end := strings.Index(s[i:], "\x1b\\")
			if end < 0 {
				return b.String()
			}
			i += end + 1
		}
	}
	return b.String()
}
