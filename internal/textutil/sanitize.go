// Package textutil cleans user-controlled text before it reaches the
// terminal.
package textutil

import "strings"

var formattingRuneLabels = map[rune]string{
	0x061C: "⟪ALM⟫",
	0x200B: "⟪ZWSP⟫",
	0x200C: "⟪ZWNJ⟫",
	0x200D: "⟪ZWJ⟫",
	0x200E: "⟪LRM⟫",
	0x200F: "⟪RLM⟫",
	0x202A: "⟪LRE⟫",
	0x202B: "⟪RLE⟫",
	0x202C: "⟪PDF⟫",
	0x202D: "⟪LRO⟫",
	0x202E: "⟪RLO⟫",
	0x2028: "⟪LSEP⟫",
	0x2029: "⟪PSEP⟫",
	0x00AD: "⟪SHY⟫",
	0x180E: "⟪MVS⟫",
	0x2060: "⟪WJ⟫",
	0x2066: "⟪LRI⟫",
	0x2067: "⟪RLI⟫",
	0x2068: "⟪FSI⟫",
	0x2069: "⟪PDI⟫",
	0xFEFF: "⟪BOM⟫",
}

// Bidi overrides and isolates can reorder what a reader sees, so document
// text shows them. Joiners stay: emoji sequences depend on them.
var documentVisibleRunes = map[rune]bool{
	0x202A: true, 0x202B: true, 0x202C: true, 0x202D: true, 0x202E: true,
	0x2066: true, 0x2067: true, 0x2068: true, 0x2069: true,
}

// SanitizeTerminalText makes single-line UI text safe: line breaks and tabs
// become spaces, other control characters become '?', and invisible
// formatting characters are labeled.
func SanitizeTerminalText(text string) string {
	if !strings.ContainsFunc(text, func(r rune) bool {
		return isControl(r) || r == '\t' || r == '\n' || r == '\r' || formattingRuneLabels[r] != ""
	}) {
		return text
	}
	var b strings.Builder
	for _, r := range text {
		switch {
		case formattingRuneLabels[r] != "":
			b.WriteString(formattingRuneLabels[r])
		case r == '\t', r == '\n', r == '\r':
			b.WriteByte(' ')
		case isControl(r):
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CleanDocumentText prepares rendered document text for drawing. Control
// characters other than tab are dropped and direction overrides are
// labeled. Newlines must already be split out.
func CleanDocumentText(text string) string {
	if !strings.ContainsFunc(text, func(r rune) bool {
		return (isControl(r) && r != '\t') || documentVisibleRunes[r]
	}) {
		return text
	}
	var b strings.Builder
	for _, r := range text {
		switch {
		case documentVisibleRunes[r]:
			b.WriteString(formattingRuneLabels[r])
		case r == '\t':
			b.WriteRune(r)
		case isControl(r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isControl(r rune) bool {
	return (r >= 0 && r < 0x20) || r == 0x7f || (r >= 0x80 && r < 0xa0)
}
