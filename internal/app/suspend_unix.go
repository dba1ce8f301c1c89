//go:build !windows

package app

import (
	"os"
	"syscall"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/advfind/internal/state"
)

func (app *Application) suspendToShell() {
	// Hand the terminal back before stopping so the shell prompt is usable.
	_ = app.screen.Suspend()
	// Stop only this process, not the whole group, so job control keeps working.
	_ = syscall.Kill(syscall.Getpid(), syscall.SIGTSTP)
}

func (app *Application) resumeAfterStop() bool {
	if err := app.screen.Resume(); err != nil {
		return false
	}
	app.screen.Sync()
	_ = app.screen.PostEvent(tcell.NewEventInterrupt("resume"))
	if w, h := app.screen.Size(); w > 0 && h > 0 {
		select {
		case app.actionCh <- statepkg.ResizeAction{Width: w, Height: h}:
		default:
		}
	}
	return true
}

// stopSignals are delivered when the shell resumes a suspended viewer.
func stopSignals() []os.Signal {
	return []os.Signal{syscall.SIGCONT}
}
