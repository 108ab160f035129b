package inline

import (
	"net/url"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdview/internal/linktitle"
	"github.com/kk-code-lab/mdview/internal/styledtext"
)

// TextStyle transforms the attributes of the text it applies to. A nil
// TextStyle leaves attributes unchanged.
type TextStyle func(styledtext.Attributes) styledtext.Attributes

func (s TextStyle) apply(attrs styledtext.Attributes) styledtext.Attributes {
	if s == nil {
		return attrs
	}
	return s(attrs)
}

// TextStyles is the set of inline styles used by Render.
type TextStyles struct {
	Code          TextStyle
	Emphasis      TextStyle
	Strong        TextStyle
	Strikethrough TextStyle
	Link          TextStyle
	// CustomLink, when set, replaces the rendering of every top-level link
	// whose destination resolves to a URL.
	CustomLink func(LinkConfiguration) styledtext.Text
}

// DefaultTextStyles returns terminal defaults: monospace code, italic
// emphasis, bold strong, struck-through strikethrough and underlined links.
func DefaultTextStyles() TextStyles {
	return TextStyles{
		Code: func(a styledtext.Attributes) styledtext.Attributes {
			a.Monospace = true
			return a
		},
		Emphasis: func(a styledtext.Attributes) styledtext.Attributes {
			a.Italic = true
			return a
		},
		Strong: func(a styledtext.Attributes) styledtext.Attributes {
			a.Bold = true
			return a
		},
		Strikethrough: func(a styledtext.Attributes) styledtext.Attributes {
			a.Strikethrough = true
			return a
		},
		Link: func(a styledtext.Attributes) styledtext.Attributes {
			a.Underline = true
			return a
		},
	}
}

// LinkConfiguration describes a link handed to TextStyles.CustomLink.
type LinkConfiguration struct {
	// Destination is resolved against the base URL when one is set.
	Destination *url.URL
	// Title is the plain text of the link's children.
	Title string
	// HeadingLevel is 1-6 inside a heading and 0 elsewhere.
	HeadingLevel int
	// Label is the link as it renders without a custom link style.
	Label styledtext.Text
	// Attributes are the ambient attributes at the link.
	Attributes styledtext.Attributes
}

// URLWithEncodedTitle returns the destination with the title carried in
// its query, for click paths that only see the URL.
func (c LinkConfiguration) URLWithEncodedTitle() string {
	if c.Destination == nil {
		return ""
	}
	return linktitle.Encode(c.Destination.String(), c.Title)
}

// StyledText renders the title with a color per character and keeps it
// clickable. colorProvider receives the character index and count.
func (c LinkConfiguration) StyledText(colorProvider func(index, count int) tcell.Color) styledtext.Text {
	base := c.Attributes
	base.Link = c.URLWithEncodedTitle()
	return styledtext.PerGrapheme(c.Title, base, func(index, count int, attrs styledtext.Attributes) styledtext.Attributes {
		if colorProvider != nil {
			attrs.Foreground = colorProvider(index, count)
		}
		return attrs
	})
}
