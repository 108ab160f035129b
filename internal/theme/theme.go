// Package theme holds the named color palettes of the viewer and derives
// the inline text styles from them.
package theme

import (
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdview/internal/inline"
	"github.com/kk-code-lab/mdview/internal/styledtext"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultName is the theme used when none is configured.
const DefaultName = "default"

// Theme defines the application colors.
type Theme struct {
	Name       string
	Background tcell.Color
	Foreground tcell.Color

	HeadingFg   tcell.Color
	CodeFg      tcell.Color
	CodeBg      tcell.Color
	CodeBlockFg tcell.Color
	CodeBlockBg tcell.Color
	LinkFg      tcell.Color
	QuoteFg     tcell.Color
	RuleFg      tcell.Color
	TableFg     tcell.Color

	FocusBg  tcell.Color
	FocusFg  tcell.Color
	StatusBg tcell.Color
	StatusFg tcell.Color
	ErrorFg  tcell.Color

	// LinkGradient, when it holds two or more colors, draws links with a
	// per-character gradient instead of the plain link style.
	LinkGradient []colorful.Color
}

var themes = map[string]Theme{
	"default": {
		Name:        "default",
		Background:  tcell.ColorDefault,
		Foreground:  tcell.ColorDefault,
		HeadingFg:   tcell.Color33,
		CodeFg:      tcell.Color44,
		CodeBg:      tcell.ColorDefault,
		CodeBlockFg: tcell.Color252,
		CodeBlockBg: tcell.Color234,
		LinkFg:      tcell.Color75,
		QuoteFg:     tcell.ColorLightSlateGray,
		RuleFg:      tcell.Color240,
		TableFg:     tcell.Color245,
		FocusBg:     tcell.Color33,
		FocusFg:     tcell.ColorWhite,
		StatusBg:    tcell.Color236,
		StatusFg:    tcell.Color252,
		ErrorFg:     tcell.ColorRed,
	},
	"light": {
		Name:        "light",
		Background:  tcell.ColorDefault,
		Foreground:  tcell.ColorDefault,
		HeadingFg:   tcell.Color25,
		CodeFg:      tcell.Color124,
		CodeBg:      tcell.Color254,
		CodeBlockFg: tcell.Color235,
		CodeBlockBg: tcell.Color255,
		LinkFg:      tcell.Color26,
		QuoteFg:     tcell.Color242,
		RuleFg:      tcell.Color248,
		TableFg:     tcell.Color244,
		FocusBg:     tcell.Color153,
		FocusFg:     tcell.ColorBlack,
		StatusBg:    tcell.Color252,
		StatusFg:    tcell.Color235,
		ErrorFg:     tcell.Color160,
	},
	// Attributes only, for terminals with unreliable colors.
	"boring": {
		Name:     "boring",
		FocusFg:  tcell.ColorDefault,
		StatusFg: tcell.ColorDefault,
	},
	"vivid": {
		Name:        "vivid",
		Background:  tcell.ColorDefault,
		Foreground:  tcell.ColorDefault,
		HeadingFg:   tcell.Color171,
		CodeFg:      tcell.Color215,
		CodeBg:      tcell.ColorDefault,
		CodeBlockFg: tcell.Color252,
		CodeBlockBg: tcell.Color235,
		LinkFg:      tcell.Color39,
		QuoteFg:     tcell.Color139,
		RuleFg:      tcell.Color96,
		TableFg:     tcell.Color139,
		FocusBg:     tcell.Color127,
		FocusFg:     tcell.ColorWhite,
		StatusBg:    tcell.Color53,
		StatusFg:    tcell.Color225,
		ErrorFg:     tcell.Color203,
		LinkGradient: []colorful.Color{
			{R: 0, G: 0.48, B: 1},
			{R: 0.69, G: 0.32, B: 0.87},
			{R: 1, G: 0.18, B: 0.33},
		},
	},
}

// Get returns the theme called name.
func Get(name string) (Theme, bool) {
	t, ok := themes[name]
	if ok {
		t.LinkGradient = append([]colorful.Color(nil), t.LinkGradient...)
	}
	return t, ok
}

// Default returns the default theme.
func Default() Theme {
	t, _ := Get(DefaultName)
	return t
}

// Names lists the available themes in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TextStyles derives the inline styles of the theme.
func (t Theme) TextStyles() inline.TextStyles {
	styles := inline.DefaultTextStyles()
	styles.Code = func(a styledtext.Attributes) styledtext.Attributes {
		a.Monospace = true
		a.Foreground = pick(t.CodeFg, a.Foreground)
		a.Background = pick(t.CodeBg, a.Background)
		return a
	}
	styles.Link = func(a styledtext.Attributes) styledtext.Attributes {
		a.Underline = true
		a.Foreground = pick(t.LinkFg, a.Foreground)
		return a
	}
	if len(t.LinkGradient) > 1 {
		styles.CustomLink = GradientLink(t.LinkGradient)
	}
	return styles
}

// Base returns the attributes of ordinary body text.
func (t Theme) Base() styledtext.Attributes {
	return styledtext.Attributes{Foreground: t.Foreground, Background: t.Background}
}

// Heading returns the ambient attributes for a heading of the given level.
func (t Theme) Heading(level int) styledtext.Attributes {
	a := t.Base()
	a.Bold = true
	a.Foreground = pick(t.HeadingFg, a.Foreground)
	a.Underline = level == 1
	a.Dim = level >= 5
	return a
}

// CodeBlock returns the attributes of fenced and indented code.
func (t Theme) CodeBlock() styledtext.Attributes {
	return styledtext.Attributes{Foreground: t.CodeBlockFg, Background: t.CodeBlockBg, Monospace: true}
}

// Quote returns the ambient attributes inside block quotes.
func (t Theme) Quote() styledtext.Attributes {
	a := t.Base()
	a.Foreground = pick(t.QuoteFg, a.Foreground)
	a.Italic = true
	return a
}

// Rule returns the attributes of thematic breaks and table borders.
func (t Theme) Rule() styledtext.Attributes {
	return styledtext.Attributes{Foreground: t.RuleFg}
}

// TableBorder returns the attributes of table borders.
func (t Theme) TableBorder() styledtext.Attributes {
	return styledtext.Attributes{Foreground: pick(t.TableFg, t.RuleFg)}
}

// Style returns the base tcell style of the document area.
func (t Theme) Style() tcell.Style {
	return tcell.StyleDefault.Foreground(t.Foreground).Background(t.Background)
}

// FocusStyle returns the style of the focused link.
func (t Theme) FocusStyle() tcell.Style {
	if t.FocusBg == tcell.ColorDefault {
		return tcell.StyleDefault.Reverse(true)
	}
	return tcell.StyleDefault.Foreground(t.FocusFg).Background(t.FocusBg)
}

// StatusStyle returns the style of the status line.
func (t Theme) StatusStyle() tcell.Style {
	if t.StatusBg == tcell.ColorDefault {
		return tcell.StyleDefault.Reverse(true)
	}
	return tcell.StyleDefault.Foreground(t.StatusFg).Background(t.StatusBg)
}

func pick(c, fallback tcell.Color) tcell.Color {
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
