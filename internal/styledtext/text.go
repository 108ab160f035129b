// Package styledtext holds immutable sequences of attributed text runs, the
// output of the inline renderer and the input of the terminal drawers.
package styledtext

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// InlineImage is an image embedded in a text run.
type InlineImage struct {
	Source string
	Label  string
	Width  int
	Height int
	// Tint is the image's average color, used to draw the placeholder.
	Tint tcell.Color
}

// Placeholder is the text drawn in place of the image on a terminal.
func (img InlineImage) Placeholder() string {
	label := strings.TrimSpace(img.Label)
	if label == "" {
		return "▣"
	}
	return "▣ " + label
}

// Run is a span of text sharing one set of attributes. When Image is set the
// run stands for that image and Text is empty.
type Run struct {
	Text  string
	Attrs Attributes
	Image *InlineImage
}

// Display returns what the run shows on screen.
func (r Run) Display() string {
	if r.Image != nil {
		return r.Image.Placeholder()
	}
	return r.Text
}

// Text is an immutable sequence of runs. The zero value is empty text.
type Text struct {
	runs []Run
}

// New returns text consisting of one run.
func New(s string, attrs Attributes) Text {
	if s == "" {
		return Text{}
	}
	return Text{runs: []Run{{Text: s, Attrs: attrs}}}
}

// Plain returns unstyled text.
func Plain(s string) Text {
	return New(s, Attributes{})
}

// FromImage returns text consisting of a single image run.
func FromImage(img InlineImage, attrs Attributes) Text {
	return Text{runs: []Run{{Image: &img, Attrs: attrs}}}
}

// FromRuns builds text from runs, merging adjacent runs that share
// attributes.
func FromRuns(runs ...Run) Text {
	var t Text
	for _, run := range runs {
		t.runs = appendRun(t.runs, run)
	}
	return t
}

// Append returns a new Text with other after t. Neither operand changes.
func (t Text) Append(other Text) Text {
	if len(other.runs) == 0 {
		return t
	}
	if len(t.runs) == 0 {
		return other
	}
	runs := make([]Run, len(t.runs), len(t.runs)+len(other.runs))
	copy(runs, t.runs)
	for _, run := range other.runs {
		runs = appendRun(runs, run)
	}
	return Text{runs: runs}
}

func appendRun(runs []Run, run Run) []Run {
	if run.Image == nil && run.Text == "" {
		return runs
	}
	if n := len(runs); n > 0 && run.Image == nil && runs[n-1].Image == nil && runs[n-1].Attrs == run.Attrs {
		runs[n-1].Text += run.Text
		return runs
	}
	return append(runs, run)
}

// Runs returns a copy of the runs.
func (t Text) Runs() []Run {
	if len(t.runs) == 0 {
		return nil
	}
	out := make([]Run, len(t.runs))
	copy(out, t.runs)
	return out
}

// String returns the displayed text, with image placeholders inline.
func (t Text) String() string {
	var b strings.Builder
	for _, run := range t.runs {
		b.WriteString(run.Display())
	}
	return b.String()
}

// Restyle returns a copy of t with fn applied to every run's attributes.
func (t Text) Restyle(fn func(Attributes) Attributes) Text {
	if fn == nil || len(t.runs) == 0 {
		return t
	}
	var out Text
	for _, run := range t.runs {
		run.Attrs = fn(run.Attrs)
		out.runs = appendRun(out.runs, run)
	}
	return out
}

// Images returns the image runs in order.
func (t Text) Images() []InlineImage {
	var out []InlineImage
	for _, run := range t.runs {
		if run.Image != nil {
			out = append(out, *run.Image)
		}
	}
	return out
}

// Lines splits t at newline characters. Newlines themselves are dropped; an
// empty text yields no lines.
func (t Text) Lines() [][]Run {
	if len(t.runs) == 0 {
		return nil
	}
	lines := [][]Run{nil}
	for _, run := range t.runs {
		if run.Image != nil {
			lines[len(lines)-1] = append(lines[len(lines)-1], run)
			continue
		}
		parts := strings.Split(run.Text, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, nil)
			}
			if part != "" {
				piece := run
				piece.Text = part
				lines[len(lines)-1] = append(lines[len(lines)-1], piece)
			}
		}
	}
	return lines
}
