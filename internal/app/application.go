package app

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/advfind/internal/config"
	"github.com/kk-code-lab/advfind/internal/debuglog"
	"github.com/kk-code-lab/advfind/internal/dom"
	"github.com/kk-code-lab/advfind/internal/search"
	statepkg "github.com/kk-code-lab/advfind/internal/state"
	"github.com/kk-code-lab/advfind/internal/ui/input"
	"github.com/kk-code-lab/advfind/internal/ui/viewer"
)

// Options configures an interactive session.
type Options struct {
	Document *dom.Document
	Settings config.Config
	// Initial is searched as soon as the viewer starts.
	Initial search.Config
	Logger  *debuglog.Logger
	// Screen must be initialised; Close finalises it.
	Screen tcell.Screen
}

// update is what the search worker hands back to the UI goroutine.
type update struct {
	status    search.Status
	hasStatus bool
	layout    *viewer.Layout
	follow    bool
}

// Application represents the running app.
type Application struct {
	screen     tcell.Screen
	state      *statepkg.AppState
	reducer    *statepkg.StateReducer
	viewer     *viewer.Viewer
	input      *input.InputHandler
	actionCh   chan statepkg.Action
	doc        *dom.Document
	session    *search.Session
	dispatcher *search.Dispatcher
	settings   config.Config
	log        *debuglog.Logger
	shouldQuit bool

	updates     chan update
	done        chan struct{}
	closeOnce   sync.Once
	layoutWidth atomic.Int64

	debounceTimer *time.Timer
	debounceCh    <-chan time.Time
}

// NewApplication sets up the screen, the search worker and the first layout.
func NewApplication(opts Options) (*Application, error) {
	if opts.Document == nil {
		return nil, errors.New("no document")
	}
	screen := opts.Screen
	if screen == nil {
		return nil, errors.New("no screen")
	}

	w, h := screen.Size()
	state := &statepkg.AppState{
		Query:         opts.Initial.Pattern,
		CursorPos:     len([]rune(opts.Initial.Pattern)),
		CaseSensitive: opts.Initial.CaseSensitive,
		WholeWord:     opts.Initial.WholeWord,
		UseRegex:      opts.Initial.UseRegex,
		ScreenWidth:   w,
		ScreenHeight:  h,
	}

	actionCh := make(chan statepkg.Action, 10)
	app := &Application{
		screen:   screen,
		state:    state,
		reducer:  statepkg.NewStateReducer(),
		viewer:   viewer.New(screen, viewer.GetColorTheme()),
		input:    input.NewInputHandler(actionCh),
		actionCh: actionCh,
		doc:      opts.Document,
		settings: opts.Settings,
		log:      opts.Logger,
		updates:  make(chan update, 4),
		done:     make(chan struct{}),
	}
	app.layoutWidth.Store(int64(w))

	app.session = search.NewSession(opts.Document,
		search.WithMaxMatches(opts.Settings.MaxMatches),
		search.WithLogger(opts.Logger),
	)
	app.dispatcher = search.NewDispatcher(app.session, app.onStatus)

	// The first layout is built before anything can be searched.
	if err := app.dispatcher.Do(func() {
		app.viewer.SetLayout(app.buildLayout(), false)
	}); err != nil {
		return nil, err
	}
	if !opts.Initial.Blank() {
		state.Searching = true
		app.dispatcher.Search(state.SearchConfig())
	}
	return app, nil
}

// onStatus runs on the search worker, which owns the tree.
func (app *Application) onStatus(st search.Status) {
	app.publish(update{status: st, hasStatus: true, layout: app.buildLayout(), follow: true})
}

func (app *Application) buildLayout() *viewer.Layout {
	return viewer.Build(app.doc, int(app.layoutWidth.Load()), app.settings.TabWidth)
}

func (app *Application) publish(u update) {
	select {
	case app.updates <- u:
	case <-app.done:
	}
}

// relayout rebuilds the layout on the worker without searching.
func (app *Application) relayout() {
	go func() {
		_ = app.dispatcher.Do(func() {
			app.publish(update{layout: app.buildLayout()})
		})
	}()
}

// Status returns the latest status seen by the UI.
func (app *Application) Status() search.Status {
	return app.state.Status
}

// Close stops the worker, which restores every highlight, and releases the
// terminal.
func (app *Application) Close() error {
	var err error
	app.closeOnce.Do(func() {
		close(app.done)
		app.stopDebounce()
		err = app.dispatcher.Close()
		app.screen.Fini()
	})
	return err
}
