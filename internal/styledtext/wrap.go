package styledtext

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

type wrapToken struct {
	run   Run
	width int
	space bool
}

// Width returns the number of terminal cells the runs occupy.
func Width(runs []Run) int {
	total := 0
	for _, run := range runs {
		total += uniseg.StringWidth(run.Display())
	}
	return total
}

// Join returns the displayed text of runs.
func Join(runs []Run) string {
	var b strings.Builder
	for _, run := range runs {
		b.WriteString(run.Display())
	}
	return b.String()
}

// Wrap breaks one line of runs into lines no wider than width cells. Lines
// break at whitespace; words wider than a line are split between
// characters. Whitespace at a wrapped line boundary is dropped.
func Wrap(runs []Run, width int) [][]Run {
	if width <= 0 || Width(runs) <= width {
		return [][]Run{runs}
	}

	var lines [][]Run
	var current []Run
	currentWidth := 0
	var pending []wrapToken
	pendingWidth := 0

	flush := func() {
		lines = append(lines, current)
		current = nil
		currentWidth = 0
		pending = pending[:0]
		pendingWidth = 0
	}
	place := func(run Run, w int) {
		current = appendRun(current, run)
		currentWidth += w
	}
	placePending := func() {
		for _, tok := range pending {
			place(tok.run, tok.width)
		}
		pending = pending[:0]
		pendingWidth = 0
	}

	for _, tok := range tokenize(runs) {
		if tok.space {
			switch {
			case currentWidth == 0 && len(lines) == 0:
				place(tok.run, tok.width)
			case currentWidth == 0:
			default:
				pending = append(pending, tok)
				pendingWidth += tok.width
			}
			continue
		}

		if currentWidth+pendingWidth+tok.width <= width {
			placePending()
			place(tok.run, tok.width)
			continue
		}
		if tok.width <= width || tok.run.Image != nil {
			if currentWidth > 0 {
				flush()
			}
			place(tok.run, tok.width)
			continue
		}

		// Word longer than a line: fill the current line, then split.
		if currentWidth > 0 && currentWidth+pendingWidth < width {
			placePending()
		} else if currentWidth > 0 {
			flush()
		}
		gr := uniseg.NewGraphemes(tok.run.Text)
		for gr.Next() {
			cluster := gr.Str()
			w := uniseg.StringWidth(cluster)
			if currentWidth > 0 && currentWidth+w > width {
				flush()
			}
			piece := tok.run
			piece.Text = cluster
			place(piece, w)
		}
	}
	if len(current) > 0 || len(lines) == 0 {
		lines = append(lines, current)
	}
	return lines
}

func tokenize(runs []Run) []wrapToken {
	var tokens []wrapToken
	for _, run := range runs {
		if run.Image != nil {
			tokens = append(tokens, wrapToken{run: run, width: uniseg.StringWidth(run.Image.Placeholder())})
			continue
		}
		start := 0
		inSpace := false
		for i, r := range run.Text {
			isSpace := unicode.IsSpace(r)
			if i > start && isSpace != inSpace {
				tokens = append(tokens, newToken(run, run.Text[start:i], inSpace))
				start = i
			}
			inSpace = isSpace
		}
		if start < len(run.Text) {
			tokens = append(tokens, newToken(run, run.Text[start:], inSpace))
		}
	}
	return tokens
}

func newToken(run Run, text string, space bool) wrapToken {
	piece := run
	piece.Text = text
	return wrapToken{run: piece, width: uniseg.StringWidth(text), space: space}
}
