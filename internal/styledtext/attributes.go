package styledtext

import "github.com/gdamore/tcell/v2"

// Attributes describe how a run of text is drawn. The zero value is plain
// text in the terminal's default colors.
type Attributes struct {
	Foreground    tcell.Color
	Background    tcell.Color
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
	Dim           bool
	Monospace     bool
	// Link is the destination the run activates, possibly carrying an
	// encoded title. Empty means not clickable.
	Link string
}

// Style converts the attributes into a tcell style on top of base.
func (a Attributes) Style(base tcell.Style) tcell.Style {
	style := base
	if a.Foreground != tcell.ColorDefault {
		style = style.Foreground(a.Foreground)
	}
	if a.Background != tcell.ColorDefault {
		style = style.Background(a.Background)
	}
	if a.Bold {
		style = style.Bold(true)
	}
	if a.Italic {
		style = style.Italic(true)
	}
	if a.Underline {
		style = style.Underline(true)
	}
	if a.Strikethrough {
		style = style.StrikeThrough(true)
	}
	if a.Dim {
		style = style.Dim(true)
	}
	return style
}

// Merge overlays the set fields of over on top of a.
func (a Attributes) Merge(over Attributes) Attributes {
	out := a
	if over.Foreground != tcell.ColorDefault {
		out.Foreground = over.Foreground
	}
	if over.Background != tcell.ColorDefault {
		out.Background = over.Background
	}
	out.Bold = out.Bold || over.Bold
	out.Italic = out.Italic || over.Italic
	out.Underline = out.Underline || over.Underline
	out.Strikethrough = out.Strikethrough || over.Strikethrough
	out.Dim = out.Dim || over.Dim
	out.Monospace = out.Monospace || over.Monospace
	if over.Link != "" {
		out.Link = over.Link
	}
	return out
}
