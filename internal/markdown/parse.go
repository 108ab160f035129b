package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// GitHub flavored parser: tables, strikethrough, autolinks and task lists.
var gmParser = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Parse converts Markdown source into a Document.
func Parse(source []byte) Document {
	root := gmParser.Parser().Parse(text.NewReader(source))
	c := converter{source: source}
	return Document{Blocks: c.blocks(root)}
}

// ParseInlines parses source as a single paragraph and returns its inline
// nodes. Block structure other than paragraphs is flattened away.
func ParseInlines(source string) []InlineNode {
	doc := Parse([]byte(source))
	var out []InlineNode
	for i, seq := range doc.Inlines() {
		if i > 0 {
			out = append(out, SoftBreak())
		}
		out = append(out, seq...)
	}
	return out
}

type converter struct {
	source []byte
}

func (c converter) blocks(parent ast.Node) []Block {
	var blocks []Block
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		if block := c.block(child); block != nil {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

func (c converter) block(node ast.Node) Block {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return Paragraph{Inlines: c.inlines(n)}
	case *ast.Heading:
		return Heading{Level: n.Level, Inlines: c.inlines(n)}
	case *ast.FencedCodeBlock:
		return CodeBlock{Info: string(n.Language(c.source)), Lines: c.lines(n.Lines()), Fenced: true}
	case *ast.CodeBlock:
		return CodeBlock{Lines: c.lines(n.Lines())}
	case *ast.Blockquote:
		return Blockquote{Blocks: c.blocks(n)}
	case *ast.List:
		list := List{Ordered: n.IsOrdered(), Start: n.Start, Tight: n.IsTight}
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			list.Items = append(list.Items, ListItem{Blocks: c.blocks(item)})
		}
		return list
	case *ast.ThematicBreak:
		return ThematicBreak{}
	case *ast.HTMLBlock:
		lines := c.lines(n.Lines())
		if n.HasClosure() {
			lines = append(lines, strings.TrimRight(string(n.ClosureLine.Value(c.source)), "\r\n"))
		}
		return HTMLBlock{Lines: lines}
	case *extast.Table:
		return c.table(n)
	default:
		return nil
	}
}

func (c converter) table(n *extast.Table) Table {
	tbl := Table{Align: make([]Alignment, len(n.Alignments))}
	for i, a := range n.Alignments {
		switch a {
		case extast.AlignLeft:
			tbl.Align[i] = AlignLeft
		case extast.AlignCenter:
			tbl.Align[i] = AlignCenter
		case extast.AlignRight:
			tbl.Align[i] = AlignRight
		}
	}
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		var cells [][]InlineNode
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, c.inlines(cell))
		}
		if row.Kind() == extast.KindTableHeader {
			tbl.Header = cells
		} else {
			tbl.Rows = append(tbl.Rows, cells)
		}
	}
	return tbl
}

func (c converter) lines(segments *text.Segments) []string {
	out := make([]string, 0, segments.Len())
	for i := 0; i < segments.Len(); i++ {
		seg := segments.At(i)
		out = append(out, strings.TrimRight(string(seg.Value(c.source)), "\r\n"))
	}
	return out
}

func (c converter) inlines(parent ast.Node) []InlineNode {
	var out []InlineNode
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		out = c.appendInline(out, child)
	}
	return mergeText(out)
}

// mergeText joins adjacent text nodes. goldmark splits text at escapes and
// around inline HTML, which would otherwise scatter one whitespace run over
// several nodes.
func mergeText(nodes []InlineNode) []InlineNode {
	out := nodes[:0]
	for _, n := range nodes {
		if last := len(out) - 1; last >= 0 && n.Kind == KindText && out[last].Kind == KindText {
			out[last].Content += n.Content
			continue
		}
		out = append(out, n)
	}
	return out
}

func (c converter) appendInline(out []InlineNode, node ast.Node) []InlineNode {
	switch n := node.(type) {
	case *ast.Text:
		value := n.Segment.Value(c.source)
		if n.SoftLineBreak() || n.HardLineBreak() {
			value = bytes.TrimRight(value, " \t")
		}
		if len(value) > 0 {
			out = append(out, Text(c.unescape(value, n.IsRaw())))
		}
		switch {
		case n.HardLineBreak():
			out = append(out, LineBreak())
		case n.SoftLineBreak():
			out = append(out, SoftBreak())
		}
	case *ast.String:
		if len(n.Value) > 0 {
			out = append(out, Text(c.unescape(n.Value, n.IsRaw())))
		}
	case *ast.CodeSpan:
		out = append(out, Code(c.codeSpan(n)))
	case *ast.RawHTML:
		var b strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(c.source))
		}
		out = append(out, HTML(b.String()))
	case *ast.Emphasis:
		if n.Level >= 2 {
			out = append(out, Strong(c.inlines(n)...))
		} else {
			out = append(out, Emphasis(c.inlines(n)...))
		}
	case *extast.Strikethrough:
		out = append(out, Strikethrough(c.inlines(n)...))
	case *ast.Link:
		out = append(out, Link(string(n.Destination), c.inlines(n)...))
	case *ast.Image:
		out = append(out, Image(string(n.Destination), c.inlines(n)...))
	case *ast.AutoLink:
		dest := string(n.URL(c.source))
		if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(dest), "mailto:") {
			dest = "mailto:" + dest
		}
		out = append(out, Link(dest, Text(string(n.Label(c.source)))))
	case *extast.TaskCheckBox:
		if n.IsChecked {
			out = append(out, Text("[x] "))
		} else {
			out = append(out, Text("[ ] "))
		}
	default:
		if node.HasChildren() {
			out = append(out, c.inlines(node)...)
		}
	}
	return out
}

func (c converter) codeSpan(n *ast.CodeSpan) string {
	var b strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		var value []byte
		switch t := child.(type) {
		case *ast.Text:
			value = t.Segment.Value(c.source)
		case *ast.String:
			value = t.Value
		default:
			continue
		}
		if bytes.HasSuffix(value, []byte("\n")) {
			b.Write(value[:len(value)-1])
			if child.NextSibling() != nil {
				b.WriteByte(' ')
			}
			continue
		}
		b.Write(value)
	}
	return b.String()
}

func (c converter) unescape(value []byte, raw bool) string {
	if raw {
		return string(value)
	}
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	value = util.ResolveEntityNames(value)
	return string(value)
}
