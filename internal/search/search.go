// Package search finds literal text in laid-out document lines. Queries
// are smart-case: all lower case matches any case, anything else matches
// exactly.
package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kk-code-lab/mdview/internal/textutil"
)

// Span is a range of display columns on one line. End is exclusive.
type Span struct {
	Start int
	End   int
}

// Hit is one match.
type Hit struct {
	Line int
	Span Span
}

// SmartCase reports whether query matches case-insensitively.
func SmartCase(query string) bool {
	for _, r := range query {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// FindAll returns every non-overlapping match of query in lines, in
// document order.
func FindAll(lines []string, query string) []Hit {
	if query == "" {
		return nil
	}
	fold := SmartCase(query)
	var hits []Hit
	for i, line := range lines {
		for _, span := range MatchLine(line, query, fold) {
			hits = append(hits, Hit{Line: i, Span: span})
		}
	}
	return hits
}

// MatchLine returns the column spans of query in text.
func MatchLine(text, query string, caseInsensitive bool) []Span {
	if text == "" || query == "" {
		return nil
	}
	if caseInsensitive {
		return matchFolded(text, strings.ToLower(query))
	}

	var spans []Span
	from := 0
	for {
		idx := strings.Index(text[from:], query)
		if idx < 0 {
			return spans
		}
		start := from + idx
		end := start + len(query)
		spans = append(spans, columnSpan(text, start, end))
		from = end
	}
}

// matchFolded walks text rune by rune so that byte offsets stay valid when
// lower-casing changes a rune's encoded length.
func matchFolded(text, needle string) []Span {
	var spans []Span
	needleRunes := utf8.RuneCountInString(needle)
	for i := 0; i < len(text); {
		if matchesAtFolded(text, i, needle) {
			end := advanceRunes(text, i, needleRunes)
			spans = append(spans, columnSpan(text, i, end))
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += max(size, 1)
	}
	return spans
}

func matchesAtFolded(text string, start int, needle string) bool {
	i := start
	for _, nr := range needle {
		if i >= len(text) {
			return false
		}
		hr, size := utf8.DecodeRuneInString(text[i:])
		if unicode.ToLower(hr) != nr {
			return false
		}
		i += size
	}
	return true
}

func advanceRunes(s string, start, count int) int {
	i := start
	for n := 0; i < len(s) && n < count; n++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += max(size, 1)
	}
	return i
}

func columnSpan(text string, start, end int) Span {
	col := textutil.DisplayWidth(text[:start])
	return Span{Start: col, End: col + textutil.DisplayWidth(text[start:end])}
}

// Contains reports whether column col of line is inside one of hits.
func Contains(hits []Hit, line, col int) bool {
	for _, h := range hits {
		if h.Line == line && col >= h.Span.Start && col < h.Span.End {
			return true
		}
	}
	return false
}

// NextIndex returns the first hit at or after line, wrapping to the first
// hit. It returns -1 when hits is empty.
func NextIndex(hits []Hit, line int) int {
	if len(hits) == 0 {
		return -1
	}
	for i, h := range hits {
		if h.Line >= line {
			return i
		}
	}
	return 0
}
