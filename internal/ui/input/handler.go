package input

import (
	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/mdview/internal/state"
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action
	state      *statepkg.AppState // Reference to current state for mode checking
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetState sets the state reference for mode checking
func (ih *InputHandler) SetState(state *statepkg.AppState) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an Action. It returns false when
// the event asks the application to quit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

// processKeyEvent handles keyboard input
func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	helpVisible := ih.state != nil && ih.state.HelpVisible

	if helpVisible {
		switch ev.Key() {
		case tcell.KeyCtrlC:
			ih.actionChan <- statepkg.QuitAction{}
			return false
		case tcell.KeyEscape:
			ih.actionChan <- statepkg.ToggleHelpAction{}
			return true
		case tcell.KeyRune:
			r := ev.Rune()
			if r == '?' || r == 'q' || r == 'Q' {
				ih.actionChan <- statepkg.ToggleHelpAction{}
			}
			return true
		default:
			return true
		}
	}

	if ih.state != nil && ih.state.SearchEditing {
		return ih.processSearchKey(ev)
	}

	// Handle special keys first
	switch ev.Key() {
	case tcell.KeyCtrlC:
		ih.actionChan <- statepkg.QuitAction{}
		return false
	case tcell.KeyCtrlZ:
		ih.actionChan <- statepkg.SuspendAction{}
		return true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.actionChan <- statepkg.HistoryBackAction{}
		return true
	case tcell.KeyEscape:
		if ih.searching() {
			ih.actionChan <- statepkg.SearchCancelAction{}
			return true
		}
		ih.actionChan <- statepkg.ClearLinkFocusAction{}
		return true
	case tcell.KeyUp:
		ih.actionChan <- statepkg.ScrollUpAction{}
		return true
	case tcell.KeyDown:
		ih.actionChan <- statepkg.ScrollDownAction{}
		return true
	case tcell.KeyPgUp, tcell.KeyCtrlB:
		ih.actionChan <- statepkg.ScrollPageUpAction{}
		return true
	case tcell.KeyPgDn, tcell.KeyCtrlF:
		ih.actionChan <- statepkg.ScrollPageDownAction{}
		return true
	case tcell.KeyHome:
		ih.actionChan <- statepkg.ScrollTopAction{}
		return true
	case tcell.KeyEnd:
		ih.actionChan <- statepkg.ScrollBottomAction{}
		return true
	case tcell.KeyTab:
		ih.actionChan <- statepkg.FocusNextLinkAction{}
		return true
	case tcell.KeyBacktab:
		ih.actionChan <- statepkg.FocusPrevLinkAction{}
		return true
	case tcell.KeyEnter:
		ih.actionChan <- statepkg.ActivateLinkAction{}
		return true
	case tcell.KeyRune:
		return ih.processRune(ev.Rune())
	}

	return true
}

func (ih *InputHandler) processRune(r rune) bool {
	switch r {
	case 'q', 'Q':
		ih.actionChan <- statepkg.QuitAction{}
		return false
	case 'j':
		ih.actionChan <- statepkg.ScrollDownAction{}
	case 'k':
		ih.actionChan <- statepkg.ScrollUpAction{}
	case ' ', 'f':
		ih.actionChan <- statepkg.ScrollPageDownAction{}
	case 'b':
		ih.actionChan <- statepkg.ScrollPageUpAction{}
	case 'g':
		ih.actionChan <- statepkg.ScrollTopAction{}
	case 'G':
		ih.actionChan <- statepkg.ScrollBottomAction{}
	case 'n':
		if ih.searching() {
			ih.actionChan <- statepkg.SearchNextAction{}
		} else {
			ih.actionChan <- statepkg.FocusNextLinkAction{}
		}
	case 'N':
		if ih.searching() {
			ih.actionChan <- statepkg.SearchPrevAction{}
		} else {
			ih.actionChan <- statepkg.FocusPrevLinkAction{}
		}
	case '/':
		ih.actionChan <- statepkg.StartSearchAction{}
	case 'r':
		ih.actionChan <- statepkg.ReloadAction{}
	case '[', 'h':
		ih.actionChan <- statepkg.HistoryBackAction{}
	case 'y':
		ih.actionChan <- statepkg.YankLinkAction{}
	case 'e':
		ih.actionChan <- statepkg.OpenEditorAction{}
	case 's':
		ih.actionChan <- statepkg.ToggleSoftBreakAction{}
	case 'i':
		ih.actionChan <- statepkg.ToggleImagesAction{}
	case 't':
		ih.actionChan <- statepkg.CycleThemeAction{}
	case '?':
		ih.actionChan <- statepkg.ToggleHelpAction{}
	}
	return true
}

// searching reports whether a confirmed query is highlighted.
func (ih *InputHandler) searching() bool {
	return ih.state != nil && ih.state.SearchQuery != ""
}

// processSearchKey edits the search prompt.
func (ih *InputHandler) processSearchKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		ih.actionChan <- statepkg.QuitAction{}
		return false
	case tcell.KeyEscape:
		ih.actionChan <- statepkg.SearchCancelAction{}
	case tcell.KeyEnter:
		ih.actionChan <- statepkg.SearchConfirmAction{}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.actionChan <- statepkg.SearchBackspaceAction{}
	case tcell.KeyRune:
		ih.actionChan <- statepkg.SearchInputAction{Rune: ev.Rune()}
	}
	return true
}
