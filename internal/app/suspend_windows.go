//go:build windows

package app

import "os"

// Windows has no SIGTSTP; Ctrl-Z is ignored.
func (app *Application) suspendToShell() {
}

func (app *Application) resumeAfterStop() bool {
	return false
}

func stopSignals() []os.Signal { return nil }
