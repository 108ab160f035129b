package state

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/kk-code-lab/mdview/internal/images"
	"github.com/kk-code-lab/mdview/internal/inline"
	"github.com/kk-code-lab/mdview/internal/markdown"
	"github.com/kk-code-lab/mdview/internal/styledtext"
	"github.com/kk-code-lab/mdview/internal/textutil"
	"github.com/kk-code-lab/mdview/internal/theme"
)

const defaultRuleWidth = 40

// LayoutOptions configures LayoutDocument.
type LayoutOptions struct {
	// Width is the number of columns available. Zero disables wrapping.
	Width     int
	Theme     theme.Theme
	Images    images.Lookup
	BaseURL   *url.URL
	SoftBreak markdown.SoftBreakMode
}

// Line is one display line. The first Indent cells are decoration such as
// list bullets or quote bars.
type Line struct {
	Runs   []styledtext.Run
	Indent int
	// Block marks lines whose background belongs to a block, such as code.
	Block bool
}

// Text returns the displayed text of the line.
func (l Line) Text() string {
	return styledtext.Join(l.Runs)
}

// Region is a horizontal span of cells on one line. End is exclusive.
type Region struct {
	Line  int
	Start int
	End   int
}

// Link is a clickable target in the layout.
type Link struct {
	// URL is the run's link attribute, possibly carrying an encoded title.
	URL string
	// Image is set for images inside links.
	Image   *styledtext.InlineImage
	Regions []Region
}

// FirstLine returns the line the link starts on.
func (l Link) FirstLine() int {
	if len(l.Regions) == 0 {
		return 0
	}
	return l.Regions[0].Line
}

// Layout is a document laid out for one width.
type Layout struct {
	Lines []Line
	Links []Link
	Width int
}

// HitTest returns the index of the link covering the cell at line, column.
func (l Layout) HitTest(line, column int) (int, bool) {
	for i, link := range l.Links {
		for _, r := range link.Regions {
			if r.Line == line && column >= r.Start && column < r.End {
				return i, true
			}
		}
	}
	return -1, false
}

type blockContext struct {
	width   int
	ambient styledtext.Attributes
	depth   int
}

type layoutBuilder struct {
	opts   LayoutOptions
	styles inline.TextStyles
}

// LayoutDocument renders doc into display lines and collects its links.
func LayoutDocument(doc markdown.Document, opts LayoutOptions) Layout {
	b := layoutBuilder{opts: opts, styles: opts.Theme.TextStyles()}
	lines := b.blocks(doc.Blocks, blockContext{width: opts.Width, ambient: opts.Theme.Base()}, false)
	return Layout{Lines: lines, Links: collectLinks(lines), Width: opts.Width}
}

func (b layoutBuilder) blocks(blocks []markdown.Block, ctx blockContext, tight bool) []Line {
	var lines []Line
	for idx, block := range blocks {
		rendered := b.block(block, ctx)
		if idx > 0 && !tight && len(rendered) > 0 && len(lines) > 0 && len(lines[len(lines)-1].Runs) != 0 {
			lines = append(lines, Line{})
		}
		lines = append(lines, rendered...)
	}
	return lines
}

func (b layoutBuilder) block(block markdown.Block, ctx blockContext) []Line {
	switch blk := block.(type) {
	case markdown.Heading:
		return b.heading(blk, ctx)
	case markdown.Paragraph:
		return b.inlineLines(blk.Inlines, ctx, 0)
	case markdown.CodeBlock:
		return b.codeBlock(blk, ctx)
	case markdown.List:
		return b.list(blk, ctx)
	case markdown.Blockquote:
		return b.blockquote(blk, ctx)
	case markdown.ThematicBreak:
		width := ctx.width
		if width <= 0 {
			width = defaultRuleWidth
		}
		return []Line{{Runs: []styledtext.Run{{Text: strings.Repeat("─", width), Attrs: b.opts.Theme.Rule()}}}}
	case markdown.HTMLBlock:
		return b.htmlBlock(blk, ctx)
	case markdown.Table:
		return b.table(blk, ctx)
	default:
		return nil
	}
}

func (b layoutBuilder) heading(h markdown.Heading, ctx blockContext) []Line {
	attrs := b.opts.Theme.Heading(h.Level)
	prefix := strings.Repeat("#", max(h.Level, 1)) + " "
	inner := ctx
	inner.width = shrink(ctx.width, textutil.DisplayWidth(prefix))
	inner.ambient = attrs
	if markdown.IsSingleLink(h.Inlines) {
		inner.ambient = ctx.ambient
		inner.ambient.Bold = true
	}
	lines := b.inlineLines(h.Inlines, inner, h.Level)
	prefixAttrs := attrs
	prefixAttrs.Underline = false
	return indent(lines, []styledtext.Run{{Text: prefix, Attrs: prefixAttrs}}, textutil.DisplayWidth(prefix))
}

// inlineLines renders an inline sequence and wraps each of its lines.
func (b layoutBuilder) inlineLines(nodes []markdown.InlineNode, ctx blockContext, headingLevel int) []Line {
	text := inline.Render(nodes, inline.Options{
		BaseURL:       b.opts.BaseURL,
		Styles:        b.styles,
		Images:        b.opts.Images,
		SoftBreakMode: b.opts.SoftBreak,
		HeadingLevel:  headingLevel,
		Attributes:    ctx.ambient,
	})
	var lines []Line
	for _, runs := range text.Lines() {
		for _, wrapped := range styledtext.Wrap(cleanRuns(runs), ctx.width) {
			lines = append(lines, Line{Runs: wrapped})
		}
	}
	return lines
}

func (b layoutBuilder) codeBlock(block markdown.CodeBlock, ctx blockContext) []Line {
	attrs := b.opts.Theme.CodeBlock()
	var lines []Line
	if block.Info != "" {
		info := b.opts.Theme.Rule()
		info.Dim = true
		lines = append(lines, Line{Runs: []styledtext.Run{{Text: "[" + textutil.CleanDocumentText(block.Info) + "]", Attrs: info}}})
	}
	texts := make([]string, len(block.Lines))
	blockWidth := 0
	for i, raw := range block.Lines {
		texts[i] = " " + textutil.ExpandTabs(textutil.CleanDocumentText(raw), textutil.DefaultTabWidth) + " "
		blockWidth = max(blockWidth, textutil.DisplayWidth(texts[i]))
	}
	if ctx.width > 0 {
		blockWidth = min(blockWidth, ctx.width)
	}
	for _, text := range texts {
		for _, wrapped := range wrapCode(text, blockWidth) {
			lines = append(lines, Line{Runs: []styledtext.Run{{Text: textutil.PadRight(wrapped, blockWidth), Attrs: attrs}}, Block: true})
		}
	}
	return lines
}

// wrapCode breaks a code line at exactly width cells, keeping whitespace.
func wrapCode(text string, width int) []string {
	if width <= 0 || textutil.DisplayWidth(text) <= width {
		return []string{text}
	}
	var out []string
	for _, line := range styledtext.Wrap([]styledtext.Run{{Text: text}}, width) {
		out = append(out, styledtext.Join(line))
	}
	return out
}

func (b layoutBuilder) list(list markdown.List, ctx blockContext) []Line {
	var lines []Line
	for idx, item := range list.Items {
		if idx > 0 && !list.Tight {
			lines = append(lines, Line{})
		}
		marker := bulletSymbol(ctx.depth, list.Ordered, idx, list.Start) + " "
		markerWidth := textutil.DisplayWidth(marker)
		inner := ctx
		inner.width = shrink(ctx.width, markerWidth)
		inner.depth++
		content := b.blocks(item.Blocks, inner, list.Tight)
		if len(content) == 0 {
			lines = append(lines, Line{Runs: []styledtext.Run{{Text: marker, Attrs: ctx.ambient}}, Indent: markerWidth})
			continue
		}
		lines = append(lines, indent(content, []styledtext.Run{{Text: marker, Attrs: ctx.ambient}}, markerWidth)...)
	}
	return lines
}

func (b layoutBuilder) blockquote(quote markdown.Blockquote, ctx blockContext) []Line {
	inner := ctx
	inner.width = shrink(ctx.width, 2)
	inner.ambient = b.opts.Theme.Quote()
	content := b.blocks(quote.Blocks, inner, false)
	if len(content) == 0 {
		return nil
	}
	bar := styledtext.Run{Text: "│ ", Attrs: styledtext.Attributes{Foreground: b.opts.Theme.QuoteFg}}
	out := make([]Line, len(content))
	for i, line := range content {
		out[i] = Line{Runs: append([]styledtext.Run{bar}, line.Runs...), Indent: line.Indent + 2, Block: line.Block}
	}
	return out
}

func (b layoutBuilder) htmlBlock(block markdown.HTMLBlock, ctx blockContext) []Line {
	attrs := ctx.ambient
	attrs.Dim = true
	var lines []Line
	for _, raw := range block.Lines {
		text := textutil.ExpandTabs(textutil.CleanDocumentText(raw), textutil.DefaultTabWidth)
		for _, wrapped := range styledtext.Wrap([]styledtext.Run{{Text: text, Attrs: attrs}}, ctx.width) {
			lines = append(lines, Line{Runs: wrapped})
		}
	}
	return lines
}

// indent prefixes the first line with marker and the rest with blanks of
// the same width.
func indent(lines []Line, marker []styledtext.Run, width int) []Line {
	if len(lines) == 0 {
		return nil
	}
	pad := styledtext.Run{Text: strings.Repeat(" ", width)}
	out := make([]Line, len(lines))
	for i, line := range lines {
		prefix := []styledtext.Run{pad}
		if i == 0 {
			prefix = marker
		}
		runs := make([]styledtext.Run, 0, len(prefix)+len(line.Runs))
		runs = append(runs, prefix...)
		runs = append(runs, line.Runs...)
		out[i] = Line{Runs: runs, Indent: line.Indent + width, Block: line.Block}
	}
	return out
}

func bulletSymbol(depth int, ordered bool, idx int, start int) string {
	if ordered {
		if start <= 0 {
			start = 1
		}
		return strconv.Itoa(start+idx) + "."
	}
	switch depth {
	case 0:
		return "•"
	case 1:
		return "◦"
	default:
		return "▪"
	}
}

func shrink(width, by int) int {
	if width <= 0 {
		return width
	}
	return max(width-by, 1)
}

func cleanRuns(runs []styledtext.Run) []styledtext.Run {
	out := make([]styledtext.Run, 0, len(runs))
	for _, run := range runs {
		if run.Image == nil {
			run.Text = textutil.ExpandTabs(textutil.CleanDocumentText(run.Text), textutil.DefaultTabWidth)
			if run.Text == "" {
				continue
			}
		}
		out = append(out, run)
	}
	return out
}

// collectLinks groups the link runs of lines into links. A link continues
// across wrapped lines until other content interrupts it; decoration does
// not count as content.
func collectLinks(lines []Line) []Link {
	var links []Link
	open := -1
	for lineIdx, line := range lines {
		col := 0
		for _, run := range line.Runs {
			display := run.Display()
			w := textutil.DisplayWidth(display)
			start := col
			col += w
			switch {
			case run.Attrs.Link == "":
				if start >= line.Indent && strings.TrimSpace(display) != "" {
					open = -1
				}
			case run.Image != nil:
				img := *run.Image
				links = append(links, Link{URL: run.Attrs.Link, Image: &img, Regions: []Region{{Line: lineIdx, Start: start, End: col}}})
				open = -1
			case open >= 0 && links[open].URL == run.Attrs.Link:
				regions := links[open].Regions
				if last := &regions[len(regions)-1]; last.Line == lineIdx && last.End == start {
					last.End = col
				} else {
					links[open].Regions = append(regions, Region{Line: lineIdx, Start: start, End: col})
				}
			default:
				links = append(links, Link{URL: run.Attrs.Link, Regions: []Region{{Line: lineIdx, Start: start, End: col}}})
				open = len(links) - 1
			}
		}
	}
	return links
}
