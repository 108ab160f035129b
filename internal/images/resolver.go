package images

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/kk-code-lab/mdview/internal/logfields"
	"github.com/kk-code-lab/mdview/internal/markdown"
)

// Resolver loads every distinct image referenced by an inline sequence.
type Resolver struct {
	Provider Provider
	// BaseURL resolves relative image sources. Nil leaves them relative.
	BaseURL *url.URL
	Logger  *slog.Logger
}

// Resolve is shorthand for a Resolver without logging.
func Resolve(ctx context.Context, provider Provider, base *url.URL, nodes []markdown.InlineNode) (Lookup, error) {
	r := Resolver{Provider: provider, BaseURL: base}
	return r.Resolve(ctx, nodes)
}

// Resolve fetches the images of nodes concurrently, one goroutine per
// distinct source. Sources that do not parse as URLs are skipped. Failed
// sources are left out of the lookup and reported together in the returned
// error next to the partial lookup. If ctx ends first the lookup is nil.
func (r Resolver) Resolve(ctx context.Context, nodes []markdown.InlineNode) (Lookup, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	lookup := make(Lookup)
	refs := markdown.ImageRefs(nodes)
	if len(refs) == 0 || r.Provider == nil {
		return lookup, nil
	}

	start := time.Now()
	var (
		mu   sync.Mutex
		errs *multierror.Error
		wg   sync.WaitGroup
	)
	for _, ref := range refs {
		u, err := r.resolveSource(ref.Source)
		if err != nil {
			logger.Debug("skipping image with invalid source", logfields.Source(ref.Source), logfields.Error(err))
			continue
		}
		wg.Add(1)
		go func(ref markdown.ImageRef, u *url.URL) {
			defer wg.Done()
			img, err := r.Provider.Image(ctx, u, ref.Alt)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("image %q: %w", ref.Source, err))
				return
			}
			img.Source = ref.Source
			if img.URL == nil {
				img.URL = u
			}
			if img.Label == "" {
				img.Label = ref.Alt
			}
			lookup[ref.Source] = img
		}(ref, u)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger.Debug("resolved inline images",
		logfields.Count(len(lookup)),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000),
	)
	return lookup, errs.ErrorOrNil()
}

func (r Resolver) resolveSource(source string) (*url.URL, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, err
	}
	if r.BaseURL != nil {
		u = r.BaseURL.ResolveReference(u)
	}
	return u, nil
}
