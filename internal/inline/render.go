// Package inline renders a sequence of inline Markdown nodes into a single
// styled text value.
package inline

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/kk-code-lab/mdview/internal/images"
	"github.com/kk-code-lab/mdview/internal/linktitle"
	"github.com/kk-code-lab/mdview/internal/markdown"
	"github.com/kk-code-lab/mdview/internal/styledtext"
)

// Options is the ambient configuration of one render pass.
type Options struct {
	// BaseURL resolves relative link destinations. Nil keeps them relative.
	BaseURL *url.URL
	Styles  TextStyles
	// Images holds the loaded images keyed by literal source. Images
	// missing from it render as nothing.
	Images        images.Lookup
	SoftBreakMode markdown.SoftBreakMode
	// HeadingLevel is 1-6 when rendering heading text, 0 otherwise.
	HeadingLevel int
	// Attributes are applied before any node style.
	Attributes styledtext.Attributes
}

// Render walks nodes once, left to right, and returns the composed text.
// It never fails: nodes that cannot be rendered contribute nothing or fall
// back to their default styled form.
func Render(nodes []markdown.InlineNode, opts Options) styledtext.Text {
	r := renderer{opts: &opts}
	for _, node := range nodes {
		r.render(node)
	}
	return r.result
}

type renderer struct {
	opts   *Options
	result styledtext.Text
	// Set after a forced line break so that the whitespace a source line
	// starts with does not leak onto the new visual line.
	shouldSkipNextWhitespace bool
}

func (r *renderer) render(node markdown.InlineNode) {
	switch node.Kind {
	case markdown.KindText:
		r.renderText(node.Content)
	case markdown.KindSoftBreak:
		r.renderSoftBreak()
	case markdown.KindHTML:
		r.renderHTML(node.Content)
	case markdown.KindImage:
		r.renderImage(node.Source)
	case markdown.KindLink:
		r.renderLink(node)
	default:
		r.defaultRender(node)
	}
}

func (r *renderer) renderText(content string) {
	if r.shouldSkipNextWhitespace {
		r.shouldSkipNextWhitespace = false
		content = strings.TrimLeftFunc(content, unicode.IsSpace)
	}
	r.defaultRender(markdown.Text(content))
}

func (r *renderer) renderSoftBreak() {
	switch {
	case r.opts.SoftBreakMode == markdown.SoftBreakLineBreak:
		r.shouldSkipNextWhitespace = true
		r.defaultRender(markdown.LineBreak())
	case r.shouldSkipNextWhitespace:
		r.shouldSkipNextWhitespace = false
	default:
		r.defaultRender(markdown.SoftBreak())
	}
}

func (r *renderer) renderHTML(content string) {
	if markdown.IsLineBreakTag(content) {
		r.defaultRender(markdown.LineBreak())
		r.shouldSkipNextWhitespace = true
		return
	}
	r.defaultRender(markdown.HTML(content))
}

func (r *renderer) renderImage(source string) {
	img, ok := r.opts.Images.Get(source)
	if !ok {
		return
	}
	r.result = r.result.Append(styledtext.FromImage(img.Inline(), styledtext.Attributes{}))
}

func (r *renderer) renderLink(node markdown.InlineNode) {
	customLink := r.opts.Styles.CustomLink
	if customLink == nil {
		r.defaultRender(node)
		return
	}
	destination, err := resolveURL(r.opts.BaseURL, node.Destination)
	if err != nil {
		r.defaultRender(node)
		return
	}
	config := LinkConfiguration{
		Destination:  destination,
		Title:        markdown.PlainText(node.Children),
		HeadingLevel: r.opts.HeadingLevel,
		Label:        renderAttributed(node, r.opts),
		Attributes:   r.opts.Attributes,
	}
	r.result = r.result.Append(customLink(config))
}

func (r *renderer) defaultRender(node markdown.InlineNode) {
	r.result = r.result.Append(renderAttributed(node, r.opts))
}

func resolveURL(base *url.URL, destination string) (*url.URL, error) {
	u, err := url.Parse(destination)
	if err != nil {
		return nil, err
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	return u, nil
}

// renderAttributed renders a single node in isolation with the ambient
// attributes and the node's own style.
func renderAttributed(node markdown.InlineNode, opts *Options) styledtext.Text {
	a := attributedRenderer{opts: opts}
	a.render(node, opts.Attributes)
	return styledtext.FromRuns(a.runs...)
}

type attributedRenderer struct {
	opts                     *Options
	runs                     []styledtext.Run
	shouldSkipNextWhitespace bool
}

func (a *attributedRenderer) text(s string, attrs styledtext.Attributes) {
	if s != "" {
		a.runs = append(a.runs, styledtext.Run{Text: s, Attrs: attrs})
	}
}

func (a *attributedRenderer) children(nodes []markdown.InlineNode, attrs styledtext.Attributes) {
	for _, child := range nodes {
		a.render(child, attrs)
	}
}

func (a *attributedRenderer) render(node markdown.InlineNode, attrs styledtext.Attributes) {
	styles := a.opts.Styles
	switch node.Kind {
	case markdown.KindText:
		content := node.Content
		if a.shouldSkipNextWhitespace {
			a.shouldSkipNextWhitespace = false
			content = strings.TrimLeftFunc(content, unicode.IsSpace)
		}
		a.text(content, attrs)
	case markdown.KindSoftBreak:
		switch {
		case a.opts.SoftBreakMode == markdown.SoftBreakLineBreak:
			a.text("\n", attrs)
		case a.shouldSkipNextWhitespace:
			a.shouldSkipNextWhitespace = false
		default:
			a.text(" ", attrs)
		}
	case markdown.KindLineBreak:
		a.text("\n", attrs)
	case markdown.KindCode:
		a.text(node.Content, styles.Code.apply(attrs))
	case markdown.KindHTML:
		if markdown.IsLineBreakTag(node.Content) {
			a.text("\n", attrs)
			a.shouldSkipNextWhitespace = true
			return
		}
		a.text(node.Content, attrs)
	case markdown.KindEmphasis:
		a.children(node.Children, styles.Emphasis.apply(attrs))
	case markdown.KindStrong:
		a.children(node.Children, styles.Strong.apply(attrs))
	case markdown.KindStrikethrough:
		a.children(node.Children, styles.Strikethrough.apply(attrs))
	case markdown.KindLink:
		linkAttrs := styles.Link.apply(attrs)
		if u, err := resolveURL(a.opts.BaseURL, node.Destination); err == nil {
			linkAttrs.Link = linktitle.Encode(u.String(), markdown.PlainText(node.Children))
		}
		a.children(node.Children, linkAttrs)
	case markdown.KindImage:
		if img, ok := a.opts.Images.Get(node.Source); ok {
			inline := img.Inline()
			a.runs = append(a.runs, styledtext.Run{Image: &inline, Attrs: styledtext.Attributes{Link: attrs.Link}})
		}
	default:
		a.text(node.Content, attrs)
		a.children(node.Children, attrs)
	}
}
