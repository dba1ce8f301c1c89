package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/advfind/internal/state"
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// ProcessEvent converts a tcell event into an Action. It returns false once
// the event asked the application to quit.
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

func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	mods := ev.Modifiers()

	switch ev.Key() {
	case tcell.KeyCtrlC:
		ih.actionChan <- statepkg.QuitAction{}
		return false

	case tcell.KeyEscape:
		ih.actionChan <- statepkg.QueryClearAction{}
		return true

	case tcell.KeyEnter:
		if mods&tcell.ModShift != 0 {
			ih.actionChan <- statepkg.PrevMatchAction{}
		} else {
			ih.actionChan <- statepkg.NextMatchAction{}
		}
		return true

	case tcell.KeyF3, tcell.KeyCtrlN:
		if ev.Key() == tcell.KeyF3 && mods&tcell.ModShift != 0 {
			ih.actionChan <- statepkg.PrevMatchAction{}
		} else {
			ih.actionChan <- statepkg.NextMatchAction{}
		}
		return true

	case tcell.KeyF15, tcell.KeyCtrlP:
		// Some terminals report Shift-F3 as F15.
		ih.actionChan <- statepkg.PrevMatchAction{}
		return true

	case tcell.KeyF1:
		ih.actionChan <- statepkg.ToggleHelpAction{}
		return true

	case tcell.KeyF5:
		ih.actionChan <- statepkg.ToggleCaseSensitiveAction{}
		return true
	case tcell.KeyF6:
		ih.actionChan <- statepkg.ToggleWholeWordAction{}
		return true
	case tcell.KeyF7:
		ih.actionChan <- statepkg.ToggleRegexAction{}
		return true

	case tcell.KeyUp:
		ih.actionChan <- statepkg.ScrollUpAction{}
		return true
	case tcell.KeyDown:
		ih.actionChan <- statepkg.ScrollDownAction{}
		return true
	case tcell.KeyPgUp:
		ih.actionChan <- statepkg.ScrollPageUpAction{}
		return true
	case tcell.KeyPgDn:
		ih.actionChan <- statepkg.ScrollPageDownAction{}
		return true

	case tcell.KeyLeft:
		if mods&(tcell.ModAlt|tcell.ModCtrl) != 0 {
			ih.actionChan <- statepkg.QueryMoveCursorAction{Direction: "word-left"}
		} else {
			ih.actionChan <- statepkg.QueryMoveCursorAction{Direction: "left"}
		}
		return true
	case tcell.KeyRight:
		if mods&(tcell.ModAlt|tcell.ModCtrl) != 0 {
			ih.actionChan <- statepkg.QueryMoveCursorAction{Direction: "word-right"}
		} else {
			ih.actionChan <- statepkg.QueryMoveCursorAction{Direction: "right"}
		}
		return true

	case tcell.KeyHome:
		if mods&tcell.ModCtrl != 0 {
			ih.actionChan <- statepkg.ScrollTopAction{}
		} else {
			ih.actionChan <- statepkg.QueryMoveCursorAction{Direction: "home"}
		}
		return true
	case tcell.KeyEnd:
		if mods&tcell.ModCtrl != 0 {
			ih.actionChan <- statepkg.ScrollBottomAction{}
		} else {
			ih.actionChan <- statepkg.QueryMoveCursorAction{Direction: "end"}
		}
		return true
	case tcell.KeyCtrlA:
		ih.actionChan <- statepkg.QueryMoveCursorAction{Direction: "home"}
		return true
	case tcell.KeyCtrlE:
		ih.actionChan <- statepkg.QueryMoveCursorAction{Direction: "end"}
		return true

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if mods&tcell.ModAlt != 0 {
			ih.actionChan <- statepkg.QueryDeleteWordAction{}
		} else {
			ih.actionChan <- statepkg.QueryBackspaceAction{}
		}
		return true
	case tcell.KeyDelete:
		ih.actionChan <- statepkg.QueryDeleteAction{}
		return true
	case tcell.KeyCtrlW:
		ih.actionChan <- statepkg.QueryDeleteWordAction{}
		return true

	case tcell.KeyCtrlZ:
		ih.actionChan <- statepkg.SuspendAction{}
		return true

	case tcell.KeyRune:
		r := ev.Rune()
		if mods&tcell.ModAlt != 0 {
			switch unicode.ToLower(r) {
			case 'c':
				ih.actionChan <- statepkg.ToggleCaseSensitiveAction{}
			case 'w':
				ih.actionChan <- statepkg.ToggleWholeWordAction{}
			case 'r':
				ih.actionChan <- statepkg.ToggleRegexAction{}
			}
			return true
		}
		if unicode.IsPrint(r) {
			ih.actionChan <- statepkg.QueryCharAction{Char: r}
		}
		return true
	}

	return true
}
