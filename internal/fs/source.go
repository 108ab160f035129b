// Package fs locates and reads the Markdown documents the viewer shows.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// MaxDocumentSize bounds how much of a document is read.
const MaxDocumentSize int64 = 8 << 20

// ErrNotText is returned for sources that do not look like text.
var ErrNotText = errors.New("not a text document")

// Source identifies where a document comes from. Exactly one of Path and
// URL is set, or neither for standard input.
type Source struct {
	Path string
	URL  *url.URL
}

// ParseSource interprets a command line argument. "" and "-" mean standard
// input; http and https URLs are fetched; anything else is a file path.
func ParseSource(arg string) (Source, error) {
	if arg == "" || arg == "-" {
		return Source{}, nil
	}
	if lower := strings.ToLower(arg); strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		u, err := url.Parse(arg)
		if err != nil {
			return Source{}, fmt.Errorf("parse url: %w", err)
		}
		return Source{URL: u}, nil
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return Source{}, fmt.Errorf("resolve path: %w", err)
	}
	return Source{Path: abs}, nil
}

// IsStdin reports whether the source is standard input.
func (s Source) IsStdin() bool { return s.Path == "" && s.URL == nil }

// Name is the label shown for the source.
func (s Source) Name() string {
	switch {
	case s.URL != nil:
		return s.URL.String()
	case s.Path != "":
		return filepath.Base(s.Path)
	default:
		return "<stdin>"
	}
}

// BaseURL is the URL relative links and images resolve against. Standard
// input has none.
func (s Source) BaseURL() *url.URL {
	switch {
	case s.URL != nil:
		u := *s.URL
		return &u
	case s.Path != "":
		return &url.URL{Scheme: "file", Path: filepath.ToSlash(s.Path)}
	default:
		return nil
	}
}

// Dir is the directory local relative images resolve against.
func (s Source) Dir() string {
	if s.Path != "" {
		return filepath.Dir(s.Path)
	}
	if s.IsStdin() {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return ""
}

// Reader reads sources. Client serves URL sources and Stdin the standard
// input source.
type Reader struct {
	Client *http.Client
	Stdin  io.Reader
}

// Read returns the decoded document content of src.
func (r Reader) Read(ctx context.Context, src Source) ([]byte, error) {
	var (
		content []byte
		err     error
	)
	switch {
	case src.URL != nil:
		content, err = r.readURL(ctx, src.URL)
	case src.Path != "":
		content, err = readFileHead(src.Path, MaxDocumentSize)
	default:
		if r.Stdin == nil {
			return nil, errors.New("no standard input")
		}
		content, err = io.ReadAll(io.LimitReader(r.Stdin, MaxDocumentSize))
	}
	if err != nil {
		return nil, err
	}
	name := src.Path
	if src.URL != nil {
		name = src.URL.Path
	}
	if !IsText(name, content) {
		return nil, fmt.Errorf("%s: %w", src.Name(), ErrNotText)
	}
	return DecodeText(content), nil
}

func (r Reader) readURL(ctx context.Context, u *url.URL) ([]byte, error) {
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/markdown, text/plain;q=0.9, */*;q=0.5")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", u, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, MaxDocumentSize))
}

func readFileHead(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return io.ReadAll(io.LimitReader(f, limit))
}
