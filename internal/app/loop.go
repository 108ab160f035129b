package app

import (
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdview/internal/logfields"
	statepkg "github.com/kk-code-lab/mdview/internal/state"
	renderui "github.com/kk-code-lab/mdview/internal/ui/render"
)

// wheelStep is the number of lines scrolled per mouse wheel notch.
const wheelStep = 3

// Run drives the event loop until the user quits. The screen is released
// by Close.
func (app *Application) Run() {
	app.syncWatcher()
	app.renderer.Render(app.state)

	events := pollEvents(app.screen)
	resumed := notifyResume()
	defer signal.Stop(resumed)

	var flash flashTimer
	defer flash.stop()

	for !app.shouldQuit {
		if app.flashing() {
			flash.arm(flashFrame)
		} else {
			flash.stop()
		}

		dirty := false
		select {
		case ev := <-events:
			dirty = app.handleEvent(ev)
		case <-flash.C():
			dirty = true
		case action := <-app.actionCh:
			dirty = app.handleAction(action)
		case <-resumed:
			dirty = app.resumeAfterStop()
		}
		if app.processActions() {
			dirty = true
		}
		if dirty && !app.shouldQuit {
			app.renderer.Render(app.state)
		}
	}
}

// flashFrame is the redraw interval while the status line flashes.
const flashFrame = 50 * time.Millisecond

// pollEvents forwards screen events until the screen is finalized.
func pollEvents(screen tcell.Screen) <-chan tcell.Event {
	events := make(chan tcell.Event)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()
	return events
}

// notifyResume reports SIGCONT where the platform has it. On other
// platforms the channel never fires.
func notifyResume() chan os.Signal {
	ch := make(chan os.Signal, 1)
	if sigs := contSignals(); len(sigs) > 0 {
		signal.Notify(ch, sigs...)
	}
	return ch
}

// flashTimer is a resettable timer whose channel is nil while stopped, so
// that selecting on it blocks.
type flashTimer struct {
	timer *time.Timer
	armed bool
}

func (f *flashTimer) arm(d time.Duration) {
	if f.timer == nil {
		f.timer = time.NewTimer(d)
		f.armed = true
		return
	}
	f.drain()
	f.timer.Reset(d)
	f.armed = true
}

func (f *flashTimer) stop() {
	if f.timer == nil {
		return
	}
	f.drain()
	f.armed = false
}

func (f *flashTimer) drain() {
	if !f.timer.Stop() {
		select {
		case <-f.timer.C:
		default:
		}
	}
}

func (f *flashTimer) C() <-chan time.Time {
	if !f.armed {
		return nil
	}
	return f.timer.C
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey, *tcell.EventResize:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventMouse:
		return app.handleMouse(ev)
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

// handleMouse focuses and opens links on primary clicks and scrolls on the
// wheel. A held button only counts once.
func (app *Application) handleMouse(ev *tcell.EventMouse) bool {
	if app.state == nil || app.state.HelpVisible {
		return false
	}
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		app.actionCh <- statepkg.ScrollByAction{Delta: -wheelStep}
		return true
	case buttons&tcell.WheelDown != 0:
		app.actionCh <- statepkg.ScrollByAction{Delta: wheelStep}
		return true
	}

	if buttons&tcell.Button1 == 0 {
		app.mouseDown = false
		return false
	}
	if app.mouseDown {
		return false
	}
	app.mouseDown = true

	x, y := ev.Position()
	line, column, ok := app.state.DocumentPosition(x, y)
	if !ok {
		return false
	}
	app.actionCh <- statepkg.ClickAction{Line: line, Column: column}
	if _, hit := app.state.Layout.HitTest(line, column); hit {
		app.actionCh <- statepkg.ActivateLinkAction{}
	}
	return true
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

// flashing reports whether the yank flash is still showing.
func (app *Application) flashing() bool {
	if app.state == nil || app.state.LastYankTime.IsZero() {
		return false
	}
	return time.Since(app.state.LastYankTime) < renderui.YankFlashDuration
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.QuitAction:
		app.shouldQuit = true
		return false
	case statepkg.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	case statepkg.ActivateLinkAction:
		return app.activateFocusedLink()
	case statepkg.YankLinkAction:
		return app.handleClipboard()
	case statepkg.OpenEditorAction:
		return app.handleEditorOpen()
	}

	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		app.state.LastError = err
	}
	if _, loaded := action.(statepkg.DocumentLoadedAction); loaded {
		app.syncWatcher()
	}
	return true
}

// syncWatcher follows the shown document with the file watcher.
func (app *Application) syncWatcher() {
	if app.watcher == nil {
		return
	}
	path := app.state.Source.Path
	if path == app.watchedPath {
		return
	}
	if err := app.watcher.Watch(path); err != nil {
		app.logger.Warn("watch document failed", logfields.Path(path), logfields.Error(err))
		return
	}
	app.watchedPath = path
}
