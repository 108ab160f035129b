package markdown

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInlinesMapsInlineKinds(t *testing.T) {
	got := ParseInlines("Hello *em* **strong** ~~gone~~ `code` [link](https://a.example/x) ![alt](img.png)")

	want := []InlineNode{
		Text("Hello "),
		Emphasis(Text("em")),
		Text(" "),
		Strong(Text("strong")),
		Text(" "),
		Strikethrough(Text("gone")),
		Text(" "),
		Code("code"),
		Text(" "),
		Link("https://a.example/x", Text("link")),
		Text(" "),
		Image("img.png", Text("alt")),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ParseInlines mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInlinesBreaks(t *testing.T) {
	got := ParseInlines("one\ntwo  \nthree")

	want := []InlineNode{Text("one"), SoftBreak(), Text("two"), LineBreak(), Text("three")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("breaks mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInlinesRawHTMLAndEntities(t *testing.T) {
	got := ParseInlines("a<br/>b &amp; \\*c\\*")

	require.GreaterOrEqual(t, len(got), 3)
	assert.Equal(t, Text("a"), got[0])
	assert.Equal(t, HTML("<br/>"), got[1])
	assert.Equal(t, "a<br/>b & *c*", PlainText(got))
}

func TestParseInlinesMergesAdjacentText(t *testing.T) {
	got := ParseInlines("one<br>   two \*x\*")

	assert.Equal(t, []InlineNode{Text("one"), HTML("<br>"), Text("   two *x*")}, got)
}

func TestParseInlinesAutoLinks(t *testing.T) {
	got := ParseInlines("<https://go.dev> and <gopher@example.com>")

	require.Len(t, got, 3)
	assert.Equal(t, Link("https://go.dev", Text("https://go.dev")), got[0])
	assert.Equal(t, KindLink, got[2].Kind)
	assert.Equal(t, "mailto:gopher@example.com", got[2].Destination)
}

func TestParseBlocks(t *testing.T) {
	src := "# Title\n\nPara\n\n- one\n- two\n\n> quoted\n\n```go\nfmt.Println()\n```\n\n---\n\n| a | b |\n|:--|--:|\n| 1 | 2 |\n"

	doc := Parse([]byte(src))

	require.Len(t, doc.Blocks, 7)
	assert.Equal(t, Heading{Level: 1, Inlines: []InlineNode{Text("Title")}}, doc.Blocks[0])
	assert.Equal(t, Paragraph{Inlines: []InlineNode{Text("Para")}}, doc.Blocks[1])

	list, ok := doc.Blocks[2].(List)
	require.True(t, ok)
	assert.False(t, list.Ordered)
	require.Len(t, list.Items, 2)
	assert.Equal(t, []Block{Paragraph{Inlines: []InlineNode{Text("two")}}}, list.Items[1].Blocks)

	quote, ok := doc.Blocks[3].(Blockquote)
	require.True(t, ok)
	assert.Equal(t, []Block{Paragraph{Inlines: []InlineNode{Text("quoted")}}}, quote.Blocks)

	assert.Equal(t, CodeBlock{Info: "go", Lines: []string{"fmt.Println()"}, Fenced: true}, doc.Blocks[4])
	assert.Equal(t, ThematicBreak{}, doc.Blocks[5])

	tbl, ok := doc.Blocks[6].(Table)
	require.True(t, ok)
	assert.Equal(t, []Alignment{AlignLeft, AlignRight}, tbl.Align)
	assert.Equal(t, [][]InlineNode{{Text("a")}, {Text("b")}}, tbl.Header)
	assert.Equal(t, [][][]InlineNode{{{Text("1")}, {Text("2")}}}, tbl.Rows)
}

func TestDocumentAllInlinesIncludesNestedBlocks(t *testing.T) {
	doc := Parse([]byte("![a](a.png)\n\n> ![b](b.png)\n\n- ![c](c.png)\n"))

	refs := ImageRefs(doc.AllInlines())
	require.Len(t, refs, 3)
	assert.Equal(t, []string{"a.png", "b.png", "c.png"}, []string{refs[0].Source, refs[1].Source, refs[2].Source})
}
