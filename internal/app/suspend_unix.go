//go:build !windows

package app

import (
	"os"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdview/internal/logfields"
	statepkg "github.com/kk-code-lab/mdview/internal/state"
)

// contSignals arrive when a stopped mdview is continued, including by a
// shell `fg` after an external SIGTSTP.
func contSignals() []os.Signal {
	return []os.Signal{syscall.SIGCONT}
}

// suspendToShell hands the terminal back and stops this process only. The
// process group can include a wrapper shell, and stopping it breaks `fg`.
func (app *Application) suspendToShell() {
	app.logger.Debug("suspending to shell")
	_ = app.screen.Suspend()
	_ = syscall.Kill(syscall.Getpid(), syscall.SIGTSTP)
}

// resumeAfterStop takes the terminal back. The window may have been
// resized while stopped, so the document is laid out again.
func (app *Application) resumeAfterStop() bool {
	if err := app.screen.Resume(); err != nil {
		app.logger.Warn("resume failed", logfields.Error(err))
		return false
	}
	app.screen.EnableMouse()
	app.screen.Sync()
	_ = app.screen.PostEvent(tcell.NewEventInterrupt("resume"))
	if w, h := app.screen.Size(); w > 0 && h > 0 {
		app.handleAction(statepkg.ResizeAction{Width: w, Height: h})
	}
	return true
}
