package app

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdview/internal/fs"
	"github.com/kk-code-lab/mdview/internal/linkclick"
	"github.com/kk-code-lab/mdview/internal/markdown"
	statepkg "github.com/kk-code-lab/mdview/internal/state"
	"github.com/kk-code-lab/mdview/internal/theme"
	inputui "github.com/kk-code-lab/mdview/internal/ui/input"
	renderui "github.com/kk-code-lab/mdview/internal/ui/render"
	"github.com/lucasb-eyer/go-colorful"
)

// Options configures the interactive viewer.
type Options struct {
	Source       fs.Source
	Theme        theme.Theme
	LinkGradient []colorful.Color
	SoftBreak    markdown.SoftBreakMode
	MaxWidth     int
	ShowImages   bool
	// BaseURL overrides the source location when resolving relative links.
	BaseURL *url.URL
	// Hyperlinks emits OSC 8 hyperlinks for link cells.
	Hyperlinks bool
	// Watch reloads file sources when they change on disk.
	Watch bool

	Reader      fs.Reader
	ReadTimeout time.Duration
	Images      statepkg.ImageLoader
	// ClickHandler, when set, replaces the built-in handler that opens
	// Markdown links inside the viewer.
	ClickHandler linkclick.Handler
	Logger       *slog.Logger
}

// Application represents the running app.
type Application struct {
	screen         tcell.Screen
	state          *statepkg.AppState
	reducer        *statepkg.StateReducer
	renderer       *renderui.Renderer
	input          *inputui.InputHandler
	actionCh       chan statepkg.Action
	shouldQuit     bool
	ctx            context.Context
	coordinator    *linkclick.Coordinator
	watcher        *documentWatcher
	watchedPath    string
	mouseDown      bool
	logger         *slog.Logger
	openerCmd      []string
	clipboardCmd   []string
	clipboardAvail bool
	editorCmd      []string
}

// NewApplication opens the terminal screen and prepares the viewer.
func NewApplication(opts Options) (*Application, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	// Parse mouse sequences so modified clicks don't leak as key events.
	screen.EnableMouse()

	app := newApplication(screen, opts)
	app.openerCmd, _ = detectOpener()
	app.clipboardCmd, app.clipboardAvail = detectClipboard()
	app.editorCmd, _ = detectEditorCommand()

	if opts.Watch {
		watcher, err := newDocumentWatcher(func() {
			app.state.Dispatch(statepkg.ReloadAction{})
		}, defaultWatchDebounce, app.logger)
		if err != nil {
			app.logger.Warn("live reload disabled", "error", err)
		} else {
			app.watcher = watcher
		}
	}
	return app, nil
}

// newApplication wires state, reducer, renderer and input around screen.
func newApplication(screen tcell.Screen, opts Options) *Application {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	state := statepkg.NewAppState(opts.Theme)
	state.LinkGradient = opts.LinkGradient
	state.SoftBreak = opts.SoftBreak
	state.MaxWidth = opts.MaxWidth
	state.ShowImages = opts.ShowImages
	state.BaseURL = opts.BaseURL
	state.ImageLoader = opts.Images
	state.DocumentLoader = statepkg.NewAsyncDocumentLoader(opts.Reader, opts.ReadTimeout)
	w, h := screen.Size()
	state.ScreenWidth = w
	state.ScreenHeight = h

	actionCh := make(chan statepkg.Action, 10)
	state.SetDispatch(func(action statepkg.Action) {
		select {
		case actionCh <- action:
		default:
			go func() { actionCh <- action }()
		}
	})

	renderer := renderui.NewRenderer(screen)
	renderer.SetHyperlinks(opts.Hyperlinks)
	inputHandler := inputui.NewInputHandler(actionCh)
	inputHandler.SetState(state)

	ctx := linkclick.WithHandler(context.Background(), documentHandler(func() fs.Source {
		return state.Source
	}, state.Dispatch))

	app := &Application{
		screen:   screen,
		state:    state,
		reducer:  statepkg.NewStateReducer(logger),
		renderer: renderer,
		input:    inputHandler,
		actionCh: actionCh,
		ctx:      ctx,
		coordinator: &linkclick.Coordinator{
			Handler: opts.ClickHandler,
			Logger:  logger,
		},
		logger: logger,
	}
	app.coordinator.Open = app.openURL
	if _, err := app.reducer.Reduce(state, statepkg.LoadDocumentAction{Source: opts.Source}); err != nil {
		state.LastError = err
	}
	return app
}

// Close cleans up resources.
func (app *Application) Close() error {
	if app.watcher != nil {
		_ = app.watcher.Close()
	}
	if app.state.ImageLoader != nil {
		app.state.ImageLoader.Cancel()
	}
	app.screen.Fini()
	return nil
}
