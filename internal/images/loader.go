package images

import (
	"context"
	"sync"
	"time"

	"github.com/kk-code-lab/mdview/internal/logfields"
	"github.com/kk-code-lab/mdview/internal/markdown"
)

// LoadResult is delivered once per resolution that was still current when
// it finished.
type LoadResult struct {
	Token  uint64
	Lookup Lookup
	Err    error
}

// Loader runs resolutions in the background. Starting a resolution for a
// different inline sequence cancels the previous one, and results of
// superseded resolutions are never delivered.
type Loader struct {
	resolver Resolver
	timeout  time.Duration

	mu      sync.Mutex
	token   uint64
	current []markdown.InlineNode
	active  bool
	cancel  context.CancelFunc
}

// NewLoader returns a loader using resolver. A positive timeout bounds each
// resolution.
func NewLoader(resolver Resolver, timeout time.Duration) *Loader {
	return &Loader{resolver: resolver, timeout: timeout}
}

// Load starts resolving nodes and calls callback from another goroutine when
// done. When nodes equal the sequence of the current resolution nothing new
// starts and the current token is returned with started=false.
func (l *Loader) Load(nodes []markdown.InlineNode, callback func(LoadResult)) (token uint64, started bool) {
	l.mu.Lock()
	if l.active && markdown.Equal(l.current, nodes) {
		token = l.token
		l.mu.Unlock()
		return token, false
	}
	if l.cancel != nil {
		l.cancel()
	}
	l.token++
	token = l.token
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if l.timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), l.timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	l.cancel = cancel
	l.current = nodes
	l.active = true
	l.mu.Unlock()

	go func() {
		defer cancel()
		lookup, err := l.resolver.Resolve(ctx, nodes)
		if lookup == nil {
			lookup = Lookup{}
		}
		if !l.isTokenCurrent(token) {
			if logger := l.resolver.Logger; logger != nil {
				logger.Debug("dropping superseded image resolution", logfields.Token(token))
			}
			return
		}
		if err != nil {
			if logger := l.resolver.Logger; logger != nil {
				logger.Warn("inline image resolution incomplete", logfields.Token(token), logfields.Error(err))
			}
		}
		if callback != nil {
			callback(LoadResult{Token: token, Lookup: lookup, Err: err})
		}
	}()
	return token, true
}

// Invalidate forgets the current sequence so the next Load restarts even
// for identical nodes. The in-flight resolution keeps running.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.active = false
	l.mu.Unlock()
}

// Cancel stops the in-flight resolution; its result is dropped.
func (l *Loader) Cancel() {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.token++
	l.active = false
	l.current = nil
	l.mu.Unlock()
}

// IsTokenCurrent reports whether token belongs to the latest resolution.
func (l *Loader) IsTokenCurrent(token uint64) bool {
	return l.isTokenCurrent(token)
}

func (l *Loader) isTokenCurrent(token uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return token == l.token
}
