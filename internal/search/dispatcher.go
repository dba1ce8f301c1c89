package search

import (
	"context"
	"errors"
	"sync"
)

// ErrDispatcherClosed is returned by Do after Close.
var ErrDispatcherClosed = errors.New("dispatcher closed")

type requestKind int

const (
	requestSearch requestKind = iota
	requestNavigate
	requestDo
)

type request struct {
	kind requestKind
	gen  uint64
	ctx  context.Context
	cfg  Config
	dir  int
	fn   func()
	done chan struct{}
}

// Dispatcher serialises search and navigation requests onto one worker
// goroutine, which is the only code touching the tree. Every Search bumps a
// generation; a search superseded before it runs is skipped, and one that
// becomes stale while matching is cancelled and its result dropped.
type Dispatcher struct {
	session *Session
	notify  func(Status)

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	pending []request
	closed  bool

	wake    chan struct{}
	stopped chan struct{}
}

// NewDispatcher starts a worker for session. notify is called on the worker
// after every applied request, so it may read the tree safely.
func NewDispatcher(session *Session, notify func(Status)) *Dispatcher {
	d := &Dispatcher{
		session: session,
		notify:  notify,
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
	go d.run()
	return d
}

// Search queues a configuration change and returns its generation.
func (d *Dispatcher) Search(cfg Config) uint64 {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return 0
	}
	if d.cancel != nil {
		d.cancel()
	}
	d.gen++
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	gen := d.gen
	d.pending = append(d.pending, request{kind: requestSearch, gen: gen, ctx: ctx, cfg: cfg})
	d.mu.Unlock()
	d.signal()
	return gen
}

// Navigate queues a cursor step against the latest search.
func (d *Dispatcher) Navigate(dir int) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.pending = append(d.pending, request{kind: requestNavigate, gen: d.gen, dir: dir})
	d.mu.Unlock()
	d.signal()
}

// Do runs fn on the worker once every earlier request has been processed and
// waits for it to finish.
func (d *Dispatcher) Do(fn func()) error {
	done := make(chan struct{})
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDispatcherClosed
	}
	d.pending = append(d.pending, request{kind: requestDo, fn: fn, done: done})
	d.mu.Unlock()
	d.signal()
	<-done
	return nil
}

// Generation returns the generation of the latest queued search.
func (d *Dispatcher) Generation() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gen
}

// Close cancels in-flight work, waits for the worker and restores the tree.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.stopped
		return nil
	}
	d.closed = true
	if d.cancel != nil {
		d.cancel()
	}
	d.mu.Unlock()
	d.signal()
	<-d.stopped
	return d.session.Close()
}

func (d *Dispatcher) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *Dispatcher) next() (request, bool, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.pending) == 0 {
		return request{}, false, d.closed
	}
	req := d.pending[0]
	d.pending[0] = request{}
	d.pending = d.pending[1:]
	return req, true, false
}

func (d *Dispatcher) current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gen == gen && !d.closed
}

func (d *Dispatcher) run() {
	defer close(d.stopped)
	for {
		req, ok, closed := d.next()
		if closed {
			return
		}
		if !ok {
			<-d.wake
			continue
		}
		d.handle(req)
	}
}

func (d *Dispatcher) handle(req request) {
	switch req.kind {
	case requestDo:
		req.fn()
		close(req.done)
	case requestSearch:
		if !d.current(req.gen) {
			return
		}
		st := d.session.OnConfigChanged(req.ctx, req.cfg)
		if !d.current(req.gen) || req.ctx.Err() != nil {
			return
		}
		st.Generation = req.gen
		d.emit(st)
	case requestNavigate:
		if !d.current(req.gen) {
			return
		}
		st := d.session.OnNavigate(req.dir)
		st.Generation = req.gen
		d.emit(st)
	}
}

func (d *Dispatcher) emit(st Status) {
	if d.notify != nil {
		d.notify(st)
	}
}
