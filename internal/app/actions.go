package app

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"runtime"
	"strings"
	"time"

	"github.com/kk-code-lab/mdview/internal/fs"
	"github.com/kk-code-lab/mdview/internal/linkclick"
	"github.com/kk-code-lab/mdview/internal/linktitle"
	"github.com/kk-code-lab/mdview/internal/logfields"
	statepkg "github.com/kk-code-lab/mdview/internal/state"
)

var markdownExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdown":    true,
	".mkd":      true,
	".mdx":      true,
}

// activateFocusedLink runs the focused link through the click coordinator
// and records the outcome.
func (app *Application) activateFocusedLink() bool {
	link, ok := app.state.FocusedLinkTarget()
	if !ok {
		return false
	}

	var outcome linkclick.Outcome
	if link.Image != nil {
		outcome = app.coordinator.HandleImageLink(app.ctx, link.URL, link.Image.Label)
	} else {
		outcome = app.coordinator.HandleURL(app.ctx, link.URL)
	}

	record := statepkg.ClickRecord{
		URL:     outcome.URL,
		Title:   outcome.Title,
		IsImage: link.Image != nil,
		Result:  outcome.Result.String(),
		Err:     outcome.Err,
	}
	if outcome.Result == linkclick.OpenSystemAction {
		if err := app.openURL(outcome.URL); err != nil {
			record.Err = err
		} else {
			record.Result = "opened"
		}
	}

	if _, err := app.reducer.Reduce(app.state, statepkg.LinkActivatedAction{Record: record}); err != nil {
		app.state.LastError = err
	}
	return true
}

// openURL starts the platform opener without waiting for it.
func (app *Application) openURL(target string) error {
	if len(app.openerCmd) == 0 {
		return errNoOpener
	}
	args := append(append([]string(nil), app.openerCmd[1:]...), target)
	cmd := commandBuilder(app.openerCmd[0], args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	go func() {
		_ = cmd.Wait()
	}()
	app.logger.Info("link opened", logfields.URL(target))
	return nil
}

// documentHandler keeps Markdown links inside the viewer. Other links fall
// back to the system opener, and links to the shown document are ignored.
func documentHandler(current func() fs.Source, dispatch func(statepkg.Action)) linkclick.Handler {
	return func(config linkclick.ClickConfiguration) linkclick.Result {
		if config.IsImage {
			return linkclick.SystemAction
		}
		src, ok := markdownSource(config.URL)
		if !ok {
			return linkclick.SystemAction
		}
		if sameDocument(src, current()) {
			return linkclick.Discarded
		}
		dispatch(statepkg.LoadDocumentAction{Source: src})
		return linkclick.Handled
	}
}

// markdownSource maps a link to a document source when it points at a
// Markdown file the viewer can load.
func markdownSource(raw string) (fs.Source, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return fs.Source{}, false
	}
	if !markdownExtensions[strings.ToLower(path.Ext(u.Path))] {
		return fs.Source{}, false
	}
	switch u.Scheme {
	case "file":
		return fs.Source{Path: u.Path}, true
	case "http", "https":
		clean := *u
		clean.Fragment = ""
		return fs.Source{URL: &clean}, true
	default:
		return fs.Source{}, false
	}
}

func sameDocument(a, b fs.Source) bool {
	switch {
	case a.URL != nil && b.URL != nil:
		return a.URL.String() == b.URL.String()
	case a.URL == nil && b.URL == nil:
		return a.Path != "" && a.Path == b.Path
	default:
		return false
	}
}

func (app *Application) handleClipboard() bool {
	link, ok := app.state.FocusedLinkTarget()
	if !ok {
		return false
	}
	if !app.clipboardAvail || len(app.clipboardCmd) == 0 {
		app.state.LastError = fmt.Errorf("no clipboard command available")
		return true
	}
	target := linktitle.Strip(link.URL)
	cmd := commandBuilder(app.clipboardCmd[0], app.clipboardCmd[1:]...)
	cmd.Stdin = strings.NewReader(target)
	if err := cmd.Run(); err != nil {
		app.state.LastError = fmt.Errorf("copy link with %s: %w", app.clipboardCmd[0], err)
		return true
	}
	app.state.LastYankTime = time.Now()
	return true
}

func (app *Application) handleEditorOpen() bool {
	src := app.state.Source
	if src.Path == "" {
		return false
	}
	if len(app.editorCmd) == 0 {
		app.state.LastError = fmt.Errorf("no editor configured")
		return true
	}
	if err := app.openFileInEditor(src.Path); err != nil {
		app.state.LastError = err
		return true
	}
	if _, err := app.reducer.Reduce(app.state, statepkg.ReloadAction{}); err != nil {
		app.state.LastError = err
	}
	return true
}

func (app *Application) openFileInEditor(filePath string) error {
	editorArgs := app.editorArgsWithFile(filePath)
	useTTY := runtime.GOOS != "windows"
	var tty *os.File
	var err error

	if useTTY {
		tty, err = os.OpenFile("/dev/tty", os.O_RDWR, 0)
		if err != nil {
			return app.openFileInEditorFallback(editorArgs)
		}
		defer func() {
			_ = tty.Close()
		}()
	}

	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}

	cmd := commandBuilder(editorArgs[0], editorArgs[1:]...)
	if useTTY {
		cmd.Stdin = tty
		cmd.Stdout = tty
		cmd.Stderr = tty
	} else {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	runErr := cmd.Run()

	if err := app.screen.Resume(); err != nil {
		return fmt.Errorf("failed to resume screen: %w", err)
	}
	app.screen.Sync()
	return runErr
}

func (app *Application) openFileInEditorFallback(args []string) error {
	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}
	defer func() {
		_ = app.screen.Resume()
		app.screen.Sync()
	}()

	cmd := commandBuilder(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return nil
}

func (app *Application) editorArgsWithFile(filePath string) []string {
	args := make([]string, len(app.editorCmd)+1)
	copy(args, app.editorCmd)
	args[len(app.editorCmd)] = filePath
	return args
}
