package images

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedScheme is returned by providers asked for a URL they cannot
// fetch.
var ErrUnsupportedScheme = errors.New("unsupported image scheme")

// Provider loads one image. It is invoked at most once per distinct source
// per resolution and must honor ctx cancellation.
type Provider interface {
	Image(ctx context.Context, u *url.URL, label string) (Image, error)
}

// ProviderFunc adapts a function into a Provider.
type ProviderFunc func(ctx context.Context, u *url.URL, label string) (Image, error)

func (f ProviderFunc) Image(ctx context.Context, u *url.URL, label string) (Image, error) {
	return f(ctx, u, label)
}

// HTTPProvider fetches http and https images.
type HTTPProvider struct {
	Client    *http.Client
	UserAgent string
}

func (p HTTPProvider) Image(ctx context.Context, u *url.URL, label string) (Image, error) {
	if u.Scheme != "http" && u.Scheme != "https" {
		return Image{}, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Image{}, fmt.Errorf("build request: %w", err)
	}
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Image{}, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Image{}, fmt.Errorf("fetch %s: %s", u, resp.Status)
	}
	img, err := Decode(resp.Body)
	if err != nil {
		return Image{}, fmt.Errorf("%s: %w", u, err)
	}
	img.URL = u
	img.Label = label
	img.Cached = FromCache(resp)
	return img, nil
}

// FileProvider loads file URLs and scheme-less paths from disk. Relative
// paths resolve against Dir.
type FileProvider struct {
	Dir string
}

func (p FileProvider) Image(ctx context.Context, u *url.URL, label string) (Image, error) {
	if u.Scheme != "" && u.Scheme != "file" {
		return Image{}, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}
	path := filepath.FromSlash(u.Path)
	if !filepath.IsAbs(path) && p.Dir != "" {
		path = filepath.Join(p.Dir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return Image{}, err
	}
	defer func() {
		_ = f.Close()
	}()
	img, err := Decode(f)
	if err != nil {
		return Image{}, fmt.Errorf("%s: %w", path, err)
	}
	img.URL = u
	img.Label = label
	return img, nil
}

// SchemeProvider routes each URL to the provider registered for its scheme.
// The empty scheme covers relative references.
type SchemeProvider map[string]Provider

func (p SchemeProvider) Image(ctx context.Context, u *url.URL, label string) (Image, error) {
	provider, ok := p[strings.ToLower(u.Scheme)]
	if !ok {
		return Image{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	return provider.Image(ctx, u, label)
}

// DefaultProvider serves http(s) through client and files relative to dir.
func DefaultProvider(client *http.Client, dir string) Provider {
	httpProvider := HTTPProvider{Client: client, UserAgent: "mdview"}
	fileProvider := FileProvider{Dir: dir}
	return SchemeProvider{
		"http":  httpProvider,
		"https": httpProvider,
		"file":  fileProvider,
		"":      fileProvider,
	}
}
