package app

import (
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/advfind/internal/state"
	"github.com/kk-code-lab/advfind/internal/ui/viewer"
)

// Run drives the event loop until the user quits.
func (app *Application) Run() {
	app.render()
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-app.done:
				return
			}
		}
	}()

	var sigContCh chan os.Signal
	if sigs := stopSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	for !app.shouldQuit {
		if renderPending {
			app.render()
			renderPending = false
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case <-app.debounceCh:
			app.debounceCh = nil
			app.runSearch()
			renderPending = true
		case u := <-app.updates:
			app.applyUpdate(u)
			renderPending = true
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}

	app.stopDebounce()
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev.(type) {
	case *tcell.EventKey, *tcell.EventResize:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventInterrupt:
		return true
	}
	return false
}

// processActions drains actions queued by the input handler.
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

func (app *Application) handleAction(action statepkg.Action) bool {
	eff := app.reducer.Reduce(app.state, action)

	if eff.Quit {
		app.shouldQuit = true
		return false
	}
	if eff.Suspend {
		app.suspendToShell()
		return true
	}
	if eff.Search {
		if eff.Debounce && app.settings.Debounce > 0 {
			app.scheduleSearch(app.settings.Debounce)
		} else {
			app.runSearch()
		}
	}
	if eff.Navigate != 0 {
		app.flushPendingSearch()
		app.dispatcher.Navigate(eff.Navigate)
	}
	if eff.Scroll != 0 {
		app.viewer.Scroll(eff.Scroll)
	}
	if eff.Page != 0 {
		app.viewer.Page(eff.Page)
	}
	if eff.Jump != 0 {
		app.viewer.Jump(eff.Jump)
	}
	if eff.Resize {
		app.screen.Sync()
		w, _ := app.viewer.Size()
		if int64(w) != app.layoutWidth.Load() {
			app.layoutWidth.Store(int64(w))
			app.relayout()
		}
	}
	return true
}

// scheduleSearch (re)arms the debounce timer so only the last edit of a burst
// reaches the worker.
func (app *Application) scheduleSearch(delay time.Duration) {
	if app.debounceTimer == nil {
		app.debounceTimer = time.NewTimer(delay)
	} else {
		if !app.debounceTimer.Stop() {
			select {
			case <-app.debounceTimer.C:
			default:
			}
		}
		app.debounceTimer.Reset(delay)
	}
	app.debounceCh = app.debounceTimer.C
}

func (app *Application) stopDebounce() {
	if app.debounceTimer == nil {
		return
	}
	if !app.debounceTimer.Stop() {
		select {
		case <-app.debounceTimer.C:
		default:
		}
	}
	app.debounceCh = nil
}

// flushPendingSearch runs a debounced search right away so navigation acts
// on the query the user sees.
func (app *Application) flushPendingSearch() {
	if app.debounceCh == nil {
		return
	}
	app.stopDebounce()
	app.runSearch()
}

func (app *Application) runSearch() {
	app.stopDebounce()
	app.state.Searching = true
	gen := app.dispatcher.Search(app.state.SearchConfig())
	app.log.Printf("queued search gen=%d pattern=%q", gen, app.state.Query)
}

func (app *Application) applyUpdate(u update) {
	if u.hasStatus {
		app.state.Status = u.status
		if u.status.Generation == app.dispatcher.Generation() {
			app.state.Searching = false
		}
	}
	if u.layout != nil {
		app.viewer.SetLayout(u.layout, u.follow)
	}
}

func (app *Application) render() {
	app.viewer.Draw(viewer.Prompt{
		Query:         app.state.Query,
		CursorPos:     app.state.CursorPos,
		CaseSensitive: app.state.CaseSensitive,
		WholeWord:     app.state.WholeWord,
		UseRegex:      app.state.UseRegex,
		Status:        app.state.StatusText(),
		Problem:       app.state.Status.InvalidPattern || app.state.Status.Unavailable,
		Help:          app.state.ShowHelp,
	})
}
