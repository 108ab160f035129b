// Package linkclick turns an activated link into a call of the registered
// click handler, falling back to opening the URL with the system.
package linkclick

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/kk-code-lab/mdview/internal/linktitle"
	"github.com/kk-code-lab/mdview/internal/logfields"
)

// Result is what a Handler reports back.
type Result int

const (
	// Handled means the handler took care of the click.
	Handled Result = iota
	// SystemAction asks the host to open the URL itself.
	SystemAction
	// Discarded means the click was deliberately ignored.
	Discarded
)

func (r Result) String() string {
	switch r {
	case Handled:
		return "handled"
	case SystemAction:
		return "system-action"
	case Discarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// ClickConfiguration describes one click.
type ClickConfiguration struct {
	// URL is the destination with any encoded title removed.
	URL string
	// Title is the link text, or the alt text for image links.
	Title string
	// IsImage is set when the click landed on an image inside a link.
	IsImage bool
}

// Handler receives clicks on links.
type Handler func(ClickConfiguration) Result

// OpenFunc opens a URL with the platform's default application. It must not
// wait for the application to exit.
type OpenFunc func(url string) error

// OpenResult is what the coordinator reports to the host.
type OpenResult int

const (
	// OpenHandled means nothing more needs to happen.
	OpenHandled OpenResult = iota
	// OpenSystemAction means the host should open Outcome.URL itself.
	OpenSystemAction
)

func (r OpenResult) String() string {
	if r == OpenSystemAction {
		return "system-action"
	}
	return "handled"
}

// Outcome is the result of one click.
type Outcome struct {
	Result OpenResult
	// URL is the clean destination.
	URL   string
	Title string
	// Err is set when the fallback opener failed or is missing. The click
	// still counts as handled.
	Err error
}

// ErrNoOpener is reported when no handler is registered and the
// coordinator has no Open function.
var ErrNoOpener = errors.New("no URL opener configured")

type handlerKey struct{}

// WithHandler returns a context carrying h. Contexts derived from the result
// inherit it unless they register their own.
func WithHandler(ctx context.Context, h Handler) context.Context {
	return context.WithValue(ctx, handlerKey{}, h)
}

// HandlerFromContext returns the innermost handler registered on ctx.
func HandlerFromContext(ctx context.Context) (Handler, bool) {
	if ctx == nil {
		return nil, false
	}
	h, ok := ctx.Value(handlerKey{}).(Handler)
	return h, ok && h != nil
}

// Coordinator dispatches clicks. The zero value uses the context handler
// and reports ErrNoOpener when none is registered.
type Coordinator struct {
	// Handler, when set, takes precedence over a handler on the context.
	Handler Handler
	// Open is used when no handler is registered.
	Open   OpenFunc
	Logger *slog.Logger
}

// HandleURL dispatches a click that only carries a URL, recovering the
// title encoded in its query.
func (c *Coordinator) HandleURL(ctx context.Context, rawURL string) Outcome {
	title, _ := linktitle.Decode(rawURL)
	return c.dispatch(ctx, ClickConfiguration{
		URL:   linktitle.Strip(rawURL),
		Title: title,
	})
}

// HandleImageLink dispatches a click on an image inside a link. title is the
// image's alt text.
func (c *Coordinator) HandleImageLink(ctx context.Context, destination, title string) Outcome {
	return c.dispatch(ctx, ClickConfiguration{
		URL:     linktitle.Strip(destination),
		Title:   title,
		IsImage: true,
	})
}

func (c *Coordinator) dispatch(ctx context.Context, config ClickConfiguration) Outcome {
	logger := c.logger()
	outcome := Outcome{Result: OpenHandled, URL: config.URL, Title: config.Title}

	handler := c.Handler
	if handler == nil {
		handler, _ = HandlerFromContext(ctx)
	}
	if handler != nil {
		result := handler(config)
		if result == SystemAction {
			outcome.Result = OpenSystemAction
		}
		logger.Debug("link click handled",
			logfields.URL(config.URL),
			logfields.Title(config.Title),
			logfields.Result(result.String()))
		return outcome
	}

	open := c.Open
	if open == nil {
		open = func(string) error { return ErrNoOpener }
	}
	if err := open(config.URL); err != nil {
		outcome.Err = err
		logger.Warn("open link failed", logfields.URL(config.URL), logfields.Error(err))
		return outcome
	}
	logger.Debug("link opened", logfields.URL(config.URL))
	return outcome
}

func (c *Coordinator) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
