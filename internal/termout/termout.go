// Package termout writes a laid out document to a terminal or pipe as text
// with SGR styling and OSC 8 hyperlinks.
package termout

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdview/internal/images"
	"github.com/kk-code-lab/mdview/internal/linktitle"
	"github.com/kk-code-lab/mdview/internal/markdown"
	"github.com/kk-code-lab/mdview/internal/state"
	"github.com/kk-code-lab/mdview/internal/styledtext"
	"github.com/kk-code-lab/mdview/internal/theme"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/padding"
)

const (
	csi       = "\x1b["
	reset     = csi + "0m"
	osc8Start = "\x1b]8;;"
	osc8End   = "\x1b]8;;\x1b\\"
)

// Options configures Write.
type Options struct {
	// Width wraps lines to this many columns. Zero disables wrapping.
	Width     int
	Theme     theme.Theme
	Images    images.Lookup
	BaseURL   *url.URL
	SoftBreak markdown.SoftBreakMode
	// Hyperlinks wraps link runs in OSC 8 sequences.
	Hyperlinks bool
	// Plain writes text only, without any escape sequences.
	Plain bool
}

// Write lays doc out and writes it to w, one line per display line.
func Write(w io.Writer, doc markdown.Document, opts Options) error {
	layout := state.LayoutDocument(doc, state.LayoutOptions{
		Width:     opts.Width,
		Theme:     opts.Theme,
		Images:    opts.Images,
		BaseURL:   opts.BaseURL,
		SoftBreak: opts.SoftBreak,
	})
	return WriteLayout(w, layout, opts)
}

// WriteLayout writes an existing layout.
func WriteLayout(w io.Writer, layout state.Layout, opts Options) error {
	bw := bufio.NewWriter(w)
	for _, line := range layout.Lines {
		if _, err := bw.WriteString(FormatLine(line, layout.Width, opts)); err != nil {
			return fmt.Errorf("write line: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("write line: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

// FormatLine renders one line. Block lines are padded to width so their
// background reaches the right edge.
func FormatLine(line state.Line, width int, opts Options) string {
	runs := line.Runs
	if line.Block {
		runs = fillBackground(runs, width)
	}
	if opts.Plain {
		return strings.TrimRight(styledtext.Join(runs), " ")
	}

	var b strings.Builder
	link := ""
	for _, run := range runs {
		text := run.Display()
		if text == "" {
			continue
		}
		if opts.Hyperlinks && run.Attrs.Link != link {
			if link != "" {
				b.WriteString(osc8End)
			}
			link = run.Attrs.Link
			if link != "" {
				b.WriteString(osc8Start)
				b.WriteString(hyperlinkTarget(link))
				b.WriteString("\x1b\\")
			}
		}
		attrs := run.Attrs
		if run.Image != nil && run.Image.Tint != tcell.ColorDefault {
			attrs.Foreground = run.Image.Tint
		}
		if seq := SGR(attrs); seq != "" {
			b.WriteString(seq)
			b.WriteString(text)
			b.WriteString(reset)
		} else {
			b.WriteString(text)
		}
	}
	if link != "" {
		b.WriteString(osc8End)
	}
	return b.String()
}

func fillBackground(runs []styledtext.Run, width int) []styledtext.Run {
	if width <= 0 || len(runs) == 0 {
		return runs
	}
	last := runs[len(runs)-1]
	if last.Image != nil || last.Attrs.Background == tcell.ColorDefault {
		return runs
	}
	fill := width - styledtext.Width(runs)
	if fill <= 0 {
		return runs
	}
	out := append([]styledtext.Run(nil), runs...)
	textWidth := ansi.PrintableRuneWidth(last.Text)
	out[len(out)-1].Text = padding.String(last.Text, uint(textWidth+fill))
	return out
}

// hyperlinkTarget is the URL placed in the OSC 8 sequence. Encoded titles
// and control characters never reach the terminal.
func hyperlinkTarget(link string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, linktitle.Strip(link))
}

// SGR returns the escape sequence selecting attrs, or "" for plain text.
func SGR(attrs styledtext.Attributes) string {
	var codes []string
	if attrs.Bold {
		codes = append(codes, "1")
	}
	if attrs.Dim {
		codes = append(codes, "2")
	}
	if attrs.Italic {
		codes = append(codes, "3")
	}
	if attrs.Underline {
		codes = append(codes, "4")
	}
	if attrs.Strikethrough {
		codes = append(codes, "9")
	}
	if code := colorCode(attrs.Foreground, 38); code != "" {
		codes = append(codes, code)
	}
	if code := colorCode(attrs.Background, 48); code != "" {
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		return ""
	}
	return csi + strings.Join(codes, ";") + "m"
}

func colorCode(c tcell.Color, base int) string {
	if c == tcell.ColorDefault || !c.Valid() {
		return ""
	}
	if !c.IsRGB() {
		if idx := int(c - tcell.ColorValid); idx >= 0 && idx < 256 {
			return strconv.Itoa(base) + ";5;" + strconv.Itoa(idx)
		}
	}
	r, g, b := c.RGB()
	if r < 0 {
		return ""
	}
	return fmt.Sprintf("%d;2;%d;%d;%d", base, r, g, b)
}
