package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kk-code-lab/mdview/internal/fs"
)

// DocumentLoader reads documents asynchronously.
type DocumentLoader interface {
	Start(req DocumentLoadRequest)
	Cancel(token int)
}

// DocumentLoadRequest describes the document to read.
type DocumentLoadRequest struct {
	Token    int
	Source   fs.Source
	Callback func(DocumentLoadResult)
}

// DocumentLoadResult carries the content or any error.
type DocumentLoadResult struct {
	Token   int
	Source  fs.Source
	Content []byte
	Err     error
}

// NewAsyncDocumentLoader constructs the default goroutine-based loader. A
// positive timeout bounds each read.
func NewAsyncDocumentLoader(reader fs.Reader, timeout time.Duration) DocumentLoader {
	return &asyncDocumentLoader{
		reader:  reader,
		timeout: timeout,
		jobs:    make(map[int]context.CancelFunc),
	}
}

type asyncDocumentLoader struct {
	reader  fs.Reader
	timeout time.Duration

	mu   sync.Mutex
	jobs map[int]context.CancelFunc
}

func (l *asyncDocumentLoader) Start(req DocumentLoadRequest) {
	if req.Token == 0 || req.Callback == nil {
		return
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if l.timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), l.timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	l.mu.Lock()
	l.jobs[req.Token] = cancel
	l.mu.Unlock()

	go func() {
		defer func() {
			l.mu.Lock()
			delete(l.jobs, req.Token)
			l.mu.Unlock()
			cancel()
		}()

		content, err := l.reader.Read(ctx, req.Source)

		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}

		req.Callback(DocumentLoadResult{
			Token:   req.Token,
			Source:  req.Source,
			Content: content,
			Err:     err,
		})
	}()
}

func (l *asyncDocumentLoader) Cancel(token int) {
	l.mu.Lock()
	if cancel, ok := l.jobs[token]; ok {
		cancel()
		delete(l.jobs, token)
	}
	l.mu.Unlock()
}
