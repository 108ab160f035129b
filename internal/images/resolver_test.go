package images

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"sync"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/kk-code-lab/mdview/internal/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProvider struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (p *recordingProvider) Image(ctx context.Context, u *url.URL, label string) (Image, error) {
	p.mu.Lock()
	p.calls = append(p.calls, u.String())
	p.mu.Unlock()
	if p.fail[u.String()] {
		return Image{}, errors.New("not found")
	}
	return Image{Width: 10, Height: 5, Format: "png"}, nil
}

func (p *recordingProvider) sortedCalls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := append([]string(nil), p.calls...)
	sort.Strings(out)
	return out
}

func TestResolveFetchesEachSourceOnce(t *testing.T) {
	provider := &recordingProvider{}
	nodes := []markdown.InlineNode{
		markdown.Image("https://img.example/a.png", markdown.Text("A")),
		markdown.Link("https://example.com", markdown.Image("https://img.example/b.png")),
		markdown.Strong(markdown.Image("https://img.example/a.png")),
	}

	lookup, err := Resolve(context.Background(), provider, nil, nodes)

	require.NoError(t, err)
	assert.Equal(t, []string{"https://img.example/a.png", "https://img.example/b.png"}, provider.sortedCalls())
	require.Len(t, lookup, 2)
	img, ok := lookup.Get("https://img.example/a.png")
	require.True(t, ok)
	assert.Equal(t, "https://img.example/a.png", img.Source)
	assert.Equal(t, "A", img.Label)
	assert.Equal(t, 10, img.Width)
}

func TestResolveKeysByLiteralSourceAndUsesBaseURL(t *testing.T) {
	provider := &recordingProvider{}
	base, err := url.Parse("https://docs.example/guide/")
	require.NoError(t, err)

	lookup, err := Resolve(context.Background(), provider, base, []markdown.InlineNode{markdown.Image("img/logo.png")})

	require.NoError(t, err)
	assert.Equal(t, []string{"https://docs.example/guide/img/logo.png"}, provider.sortedCalls())
	img, ok := lookup["img/logo.png"]
	require.True(t, ok)
	assert.Equal(t, "https://docs.example/guide/img/logo.png", img.URL.String())
}

func TestResolveIsolatesFailures(t *testing.T) {
	provider := &recordingProvider{fail: map[string]bool{"https://img.example/bad.png": true}}
	nodes := []markdown.InlineNode{
		markdown.Image("https://img.example/good.png"),
		markdown.Image("https://img.example/bad.png"),
	}

	lookup, err := Resolve(context.Background(), provider, nil, nodes)

	require.Error(t, err)
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 1)
	assert.Contains(t, lookup, "https://img.example/good.png")
	assert.NotContains(t, lookup, "https://img.example/bad.png")
}

func TestResolveSkipsUnparseableSources(t *testing.T) {
	provider := &recordingProvider{}
	nodes := []markdown.InlineNode{
		markdown.Image("http://[::1"),
		markdown.Image("https://img.example/ok.png"),
	}

	lookup, err := Resolve(context.Background(), provider, nil, nodes)

	require.NoError(t, err)
	assert.Equal(t, []string{"https://img.example/ok.png"}, provider.sortedCalls())
	assert.Len(t, lookup, 1)
}

func TestResolveWithoutImages(t *testing.T) {
	provider := &recordingProvider{}

	lookup, err := Resolve(context.Background(), provider, nil, []markdown.InlineNode{markdown.Text("plain")})

	require.NoError(t, err)
	assert.Empty(t, lookup)
	assert.Empty(t, provider.sortedCalls())
}

func TestResolveCancelledContextReturnsNil(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	provider := ProviderFunc(func(ctx context.Context, u *url.URL, label string) (Image, error) {
		<-ctx.Done()
		return Image{}, ctx.Err()
	})

	lookup, err := Resolve(ctx, provider, nil, []markdown.InlineNode{markdown.Image("https://x/a.png")})

	assert.Nil(t, lookup)
	assert.ErrorIs(t, err, context.Canceled)
}
