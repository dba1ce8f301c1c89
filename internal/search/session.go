package search

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kk-code-lab/advfind/internal/debuglog"
)

// SessionState is the coarse lifecycle of a session.
type SessionState int

const (
	StateIdle SessionState = iota
	StateSearching
	StateNavigating
)

func (s SessionState) String() string {
	switch s {
	case StateSearching:
		return "searching"
	case StateNavigating:
		return "navigating"
	default:
		return "idle"
	}
}

// Session owns the search configuration, the match count and the cursor for
// one document. The tree itself, through the identifiers written onto its
// highlights, is the only state shared between a search and later navigation.
type Session struct {
	id         string
	tree       Tree
	cfg        Config
	cursor     Cursor
	ids        []int // highlight id for each cursor position
	truncated  bool
	state      SessionState
	maxMatches int
	log        *debuglog.Logger
}

// SessionOption customises a Session.
type SessionOption func(*Session)

// WithMaxMatches overrides the match cap.
func WithMaxMatches(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.maxMatches = n
		}
	}
}

// WithLogger routes diagnostics to l.
func WithLogger(l *debuglog.Logger) SessionOption {
	return func(s *Session) {
		s.log = l
	}
}

// NewSession binds a session to tree.
func NewSession(tree Tree, opts ...SessionOption) *Session {
	s := &Session{
		id:         uuid.NewString(),
		tree:       tree,
		cursor:     NewCursor(0),
		maxMatches: MaxMatches,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ID() string          { return s.id }
func (s *Session) Config() Config      { return s.cfg }
func (s *Session) State() SessionState { return s.state }

// Status reports the current position without touching the tree.
func (s *Session) Status() Status {
	st := Status{Total: s.cursor.Count(), Truncated: s.truncated}
	if a := s.cursor.Active(); a >= 0 {
		st.Active = a + 1
	}
	return st
}

func (s *Session) reset() {
	s.cursor = NewCursor(0)
	s.ids = nil
	s.truncated = false
}

// OnConfigChanged restores the tree and, unless the pattern is blank, runs a
// fresh search and selects the first match. Invalid patterns and tree
// failures are reported in the returned status, never as a panic. A context
// cancelled before highlighting leaves the tree restored and unhighlighted.
func (s *Session) OnConfigChanged(ctx context.Context, cfg Config) Status {
	s.cfg = cfg
	s.reset()
	s.state = StateIdle

	if !usable(s.tree) {
		s.log.Printf("session=%s tree unavailable", s.id)
		return Status{Unavailable: true, Err: ErrTreeUnavailable}
	}
	if _, err := RestoreAll(s.tree); err != nil {
		s.log.Printf("session=%s restore failed: %v", s.id, err)
		return Status{Unavailable: true, Err: err}
	}
	if cfg.Blank() {
		return s.Status()
	}

	s.state = StateSearching
	leaves := Linearize(s.tree)
	list, err := Match(ctx, leaves, cfg, s.maxMatches)
	switch {
	case errors.Is(err, ErrInvalidPattern):
		s.log.Printf("session=%s pattern=%q: %v", s.id, cfg.Pattern, err)
		return Status{InvalidPattern: true, Err: err}
	case err != nil:
		return Status{Err: err}
	}
	if err := ctx.Err(); err != nil {
		return Status{Err: err}
	}

	var applyErr error
	var written []MatchSpan
	if list.Len() > 0 {
		written, applyErr = ApplyHighlights(s.tree, leaves, GroupByLeaf(list))
		if applyErr != nil {
			s.log.Printf("session=%s highlight: %v", s.id, applyErr)
			if errors.Is(applyErr, ErrTreeUnavailable) {
				return Status{Unavailable: true, Err: applyErr}
			}
		}
	}
	// Only matches that made it into the tree can be counted or visited.
	s.ids = make([]int, len(written))
	for i, span := range written {
		s.ids[i] = span.GlobalIndex
	}
	s.cursor = NewCursor(len(s.ids))
	s.truncated = list.Truncated
	s.log.Printf("session=%s pattern=%q leaves=%d matches=%d highlighted=%d truncated=%v", s.id, cfg.Pattern, len(leaves), list.Len(), len(s.ids), list.Truncated)

	if len(s.ids) == 0 {
		st := s.Status()
		st.Err = applyErr
		return st
	}
	st := s.step(1)
	if st.Err == nil {
		st.Err = applyErr
	}
	return st
}

// OnNavigate moves the active highlight by dir without rebuilding the tree.
func (s *Session) OnNavigate(dir int) Status {
	if s.cursor.Count() == 0 {
		return s.Status()
	}
	s.state = StateNavigating
	return s.step(dir)
}

func (s *Session) step(dir int) Status {
	prev := s.cursor.Active()
	next, ok := s.cursor.Step(dir)
	st := s.Status()
	if !ok {
		return st
	}
	prevID := -1
	if prev >= 0 {
		prevID = s.ids[prev]
	}
	if err := Activate(s.tree, prevID, s.ids[next]); err != nil {
		s.log.Printf("session=%s activate %d: %v", s.id, next, err)
		st.Err = err
	}
	return st
}

// Close removes every highlight and returns the session to idle.
func (s *Session) Close() error {
	s.reset()
	s.state = StateIdle
	s.cfg = Config{}
	if !usable(s.tree) {
		return nil
	}
	_, err := RestoreAll(s.tree)
	return err
}
