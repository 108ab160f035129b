package markdown

import (
	"strings"

	"golang.org/x/net/html"
)

// HTMLTagName returns the lowercased element name of the first tag found in
// fragment, or "" if the fragment is not a tag.
func HTMLTagName(fragment string) string {
	if !strings.HasPrefix(strings.TrimSpace(fragment), "<") {
		return ""
	}
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			return strings.ToLower(string(name))
		case html.TextToken:
			if strings.TrimSpace(string(z.Text())) != "" {
				return ""
			}
		default:
			return ""
		}
	}
}

// IsLineBreakTag reports whether fragment is a br tag in any letter case,
// with or without attributes or a self-closing slash.
func IsLineBreakTag(fragment string) bool {
	return HTMLTagName(fragment) == "br"
}
