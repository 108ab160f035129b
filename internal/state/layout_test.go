package state

import (
	"net/url"
	"testing"

	"github.com/kk-code-lab/mdview/internal/images"
	"github.com/kk-code-lab/mdview/internal/linktitle"
	"github.com/kk-code-lab/mdview/internal/markdown"
	"github.com/kk-code-lab/mdview/internal/theme"
)

func layoutText(t *testing.T, source string, width int) Layout {
	t.Helper()
	return LayoutDocument(markdown.Parse([]byte(source)), LayoutOptions{Width: width, Theme: theme.Default()})
}

func lineTexts(layout Layout) []string {
	out := make([]string, len(layout.Lines))
	for i, line := range layout.Lines {
		out[i] = line.Text()
	}
	return out
}

func expectLines(t *testing.T, layout Layout, want ...string) {
	t.Helper()
	got := lineTexts(layout)
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestLayoutWrapsParagraph(t *testing.T) {
	expectLines(t, layoutText(t, "alpha beta gamma\n", 10), "alpha beta", "gamma")
}

func TestLayoutSeparatesBlocks(t *testing.T) {
	expectLines(t, layoutText(t, "## Title\n\nbody\n", 40), "## Title", "", "body")
}

func TestLayoutTightListBullets(t *testing.T) {
	layout := layoutText(t, "- one\n- two\n", 40)
	expectLines(t, layout, "• one", "• two")
	if layout.Lines[0].Indent != 2 {
		t.Fatalf("expected bullet indent 2, got %d", layout.Lines[0].Indent)
	}
}

func TestLayoutOrderedListStart(t *testing.T) {
	expectLines(t, layoutText(t, "3. c\n4. d\n", 40), "3. c", "4. d")
}

func TestLayoutBlockquoteBar(t *testing.T) {
	layout := layoutText(t, "> quoted\n", 40)
	expectLines(t, layout, "│ quoted")
	if !layout.Lines[0].Runs[1].Attrs.Italic {
		t.Fatalf("expected quote text to be italic")
	}
}

func TestLayoutCodeBlock(t *testing.T) {
	layout := layoutText(t, "```go\nx := 1\n```\n", 40)
	expectLines(t, layout, "[go]", " x := 1 ")
	if !layout.Lines[1].Runs[0].Attrs.Monospace {
		t.Fatalf("expected code lines to be monospace")
	}
}

func TestLayoutThematicBreakSpansWidth(t *testing.T) {
	expectLines(t, layoutText(t, "---\n", 5), "─────")
}

func TestLayoutLinkRegionsFollowWrap(t *testing.T) {
	layout := layoutText(t, "see [a long link text](https://x.test) end\n", 12)
	expectLines(t, layout, "see a long", "link text", "end")

	if len(layout.Links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(layout.Links))
	}
	link := layout.Links[0]
	if got := linktitle.Strip(link.URL); got != "https://x.test" {
		t.Fatalf("unexpected link url %q", got)
	}
	if title, ok := linktitle.Decode(link.URL); !ok || title != "a long link text" {
		t.Fatalf("unexpected link title %q (%v)", title, ok)
	}
	want := []Region{{Line: 0, Start: 4, End: 10}, {Line: 1, Start: 0, End: 9}}
	if len(link.Regions) != len(want) {
		t.Fatalf("expected %d regions, got %+v", len(want), link.Regions)
	}
	for i := range want {
		if link.Regions[i] != want[i] {
			t.Fatalf("region %d: got %+v want %+v", i, link.Regions[i], want[i])
		}
	}

	if idx, ok := layout.HitTest(1, 3); !ok || idx != 0 {
		t.Fatalf("expected hit on wrapped link part, got %d %v", idx, ok)
	}
	if _, ok := layout.HitTest(0, 2); ok {
		t.Fatalf("expected no hit before the link")
	}
	if _, ok := layout.HitTest(2, 0); ok {
		t.Fatalf("expected no hit after the link")
	}
}

func TestLayoutSeparatesAdjacentLinksToSameURL(t *testing.T) {
	layout := layoutText(t, "[a](https://x.test) and [a](https://x.test)\n", 40)
	if len(layout.Links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(layout.Links))
	}
}

func TestLayoutLinkInsideListWraps(t *testing.T) {
	layout := layoutText(t, "- [first second](https://x.test)\n", 10)
	expectLines(t, layout, "• first", "  second")
	if len(layout.Links) != 1 || len(layout.Links[0].Regions) != 2 {
		t.Fatalf("expected one link over two lines, got %+v", layout.Links)
	}
	if r := layout.Links[0].Regions[1]; r.Start != 2 {
		t.Fatalf("expected continuation region to start after the indent, got %+v", r)
	}
}

func TestLayoutResolvesRelativeLinks(t *testing.T) {
	base, _ := url.Parse("https://docs.example/guide/index.md")
	layout := LayoutDocument(markdown.Parse([]byte("[next](next.md)\n")), LayoutOptions{
		Width:   40,
		Theme:   theme.Default(),
		BaseURL: base,
	})
	if len(layout.Links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(layout.Links))
	}
	if got := linktitle.Strip(layout.Links[0].URL); got != "https://docs.example/guide/next.md" {
		t.Fatalf("unexpected resolved url %q", got)
	}
}

func TestLayoutImageInsideLink(t *testing.T) {
	lookup := images.Lookup{"img.png": {Source: "img.png", Label: "logo", Width: 4, Height: 2}}
	layout := LayoutDocument(markdown.Parse([]byte("[![logo](img.png)](https://x.test)\n")), LayoutOptions{
		Width:  40,
		Theme:  theme.Default(),
		Images: lookup,
	})
	expectLines(t, layout, "▣ logo")
	if len(layout.Links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(layout.Links))
	}
	link := layout.Links[0]
	if link.Image == nil || link.Image.Label != "logo" {
		t.Fatalf("expected image link, got %+v", link)
	}
	if got := linktitle.Strip(link.URL); got != "https://x.test" {
		t.Fatalf("unexpected link url %q", got)
	}
}

func TestLayoutSingleLinkHeadingKeepsLinkStyle(t *testing.T) {
	layout := layoutText(t, "# [Home](https://x.test)\n", 40)
	expectLines(t, layout, "# Home")
	var found bool
	for _, run := range layout.Lines[0].Runs {
		if run.Attrs.Link == "" {
			continue
		}
		found = true
		if !run.Attrs.Bold || !run.Attrs.Underline {
			t.Fatalf("expected bold underlined link, got %+v", run.Attrs)
		}
		if run.Attrs.Foreground != theme.Default().LinkFg {
			t.Fatalf("expected link color, got %v", run.Attrs.Foreground)
		}
	}
	if !found {
		t.Fatalf("expected a link run in the heading")
	}
}

func TestLayoutSanitizesControlCharacters(t *testing.T) {
	layout := layoutText(t, "a\x07b\tc\n", 40)
	expectLines(t, layout, "ab  c")
}
