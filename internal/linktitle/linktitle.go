// Package linktitle carries a link's visible title inside its URL so that
// click paths which only see the URL can still recover it.
//
// The title travels in a reserved query parameter. Existing parameters are
// left byte-for-byte untouched: encoding appends after them and stripping
// removes only the reserved key.
package linktitle

import (
	"net/url"
	"strings"
)

// Key is the reserved query parameter that holds the title.
const Key = "_mdLinkTitle"

// Encode returns rawURL with title appended as the reserved parameter.
// A URL that does not parse is returned unchanged.
func Encode(rawURL, title string) string {
	if _, err := url.Parse(rawURL); err != nil {
		return rawURL
	}
	parts := split(rawURL)
	param := Key + "=" + url.QueryEscape(title)
	if parts.query == "" {
		parts.query = param
	} else {
		parts.query += "&" + param
	}
	parts.hasQuery = true
	return parts.String()
}

// Decode returns the title carried by rawURL, if any.
func Decode(rawURL string) (string, bool) {
	if _, err := url.Parse(rawURL); err != nil {
		return "", false
	}
	parts := split(rawURL)
	if !parts.hasQuery {
		return "", false
	}
	for _, pair := range strings.Split(parts.query, "&") {
		key, value, _ := strings.Cut(pair, "=")
		if !isKey(key) {
			continue
		}
		title, err := url.QueryUnescape(value)
		if err != nil {
			return value, true
		}
		return title, true
	}
	return "", false
}

// Strip removes every reserved parameter from rawURL. The remaining
// parameters keep their order and encoding; an emptied query is dropped
// together with its '?'. A URL that does not parse is returned unchanged.
func Strip(rawURL string) string {
	if _, err := url.Parse(rawURL); err != nil {
		return rawURL
	}
	parts := split(rawURL)
	if !parts.hasQuery {
		return rawURL
	}
	pairs := strings.Split(parts.query, "&")
	kept := pairs[:0:0]
	removed := false
	for _, pair := range pairs {
		key, _, _ := strings.Cut(pair, "=")
		if isKey(key) {
			removed = true
			continue
		}
		kept = append(kept, pair)
	}
	if !removed {
		return rawURL
	}
	parts.query = strings.Join(kept, "&")
	parts.hasQuery = parts.query != ""
	return parts.String()
}

func isKey(rawKey string) bool {
	if rawKey == Key {
		return true
	}
	key, err := url.QueryUnescape(rawKey)
	return err == nil && key == Key
}

type urlParts struct {
	base        string
	query       string
	hasQuery    bool
	fragment    string
	hasFragment bool
}

func split(rawURL string) urlParts {
	var p urlParts
	rest := rawURL
	if before, after, ok := strings.Cut(rest, "#"); ok {
		rest = before
		p.fragment = after
		p.hasFragment = true
	}
	if before, after, ok := strings.Cut(rest, "?"); ok {
		rest = before
		p.query = after
		p.hasQuery = true
	}
	p.base = rest
	return p
}

func (p urlParts) String() string {
	var b strings.Builder
	b.WriteString(p.base)
	if p.hasQuery {
		b.WriteByte('?')
		b.WriteString(p.query)
	}
	if p.hasFragment {
		b.WriteByte('#')
		b.WriteString(p.fragment)
	}
	return b.String()
}
