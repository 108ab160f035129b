package linktitle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeAppendsTitle(t *testing.T) {
	got := Encode("https://example.com/path", "Hello World")
	assert.Equal(t, "https://example.com/path?_mdLinkTitle=Hello+World", got)

	got = Encode("https://example.com/a?q=1#frag", "x&y")
	assert.Equal(t, "https://example.com/a?q=1&_mdLinkTitle=x%26y#frag", got)
}

func TestEncodeLeavesMalformedURL(t *testing.T) {
	raw := "http://[::1"
	assert.Equal(t, raw, Encode(raw, "title"))
}

func TestDecode(t *testing.T) {
	title, ok := Decode("https://example.com/?a=1&_mdLinkTitle=Caf%C3%A9+au+lait&b=2")
	assert.True(t, ok)
	assert.Equal(t, "Café au lait", title)

	_, ok = Decode("https://example.com/?a=1")
	assert.False(t, ok)

	_, ok = Decode("https://example.com/")
	assert.False(t, ok)
}

func TestStripKeepsOtherParametersInOrder(t *testing.T) {
	got := Strip("https://example.com/?z=9&_mdLinkTitle=T&a=1&m=%20x#top")
	assert.Equal(t, "https://example.com/?z=9&a=1&m=%20x#top", got)
}

func TestStripDropsEmptyQuery(t *testing.T) {
	assert.Equal(t, "https://example.com/docs", Strip("https://example.com/docs?_mdLinkTitle=Docs"))
	assert.Equal(t, "https://example.com/docs#s", Strip("https://example.com/docs?_mdLinkTitle=Docs#s"))
}

func TestStripWithoutTitleIsIdentity(t *testing.T) {
	for _, raw := range []string{
		"https://example.com",
		"https://example.com/?b=2&a=1",
		"mailto:someone@example.com",
		"relative/path.md",
	} {
		assert.Equal(t, raw, Strip(raw))
	}
}

func TestRoundTrip(t *testing.T) {
	urls := []string{
		"https://example.com",
		"https://example.com/x?b=2&a=1",
		"https://example.com/x?q=a%2Fb#frag",
		"docs/readme.md",
	}
	titles := []string{"", "Docs", "a & b = c", "Ünïcödé ✓", "50% off?"}

	for _, raw := range urls {
		for _, title := range titles {
			encoded := Encode(raw, title)
			assert.Equal(t, raw, Strip(encoded), "strip(encode(%q, %q))", raw, title)
			got, ok := Decode(encoded)
			assert.True(t, ok)
			assert.Equal(t, title, got, "decode(encode(%q, %q))", raw, title)
		}
	}
}
