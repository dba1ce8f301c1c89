package state

import (
	"testing"

	"github.com/kk-code-lab/advfind/internal/search"
)

func typeQuery(r *StateReducer, s *AppState, text string) Effect {
	var eff Effect
	for _, ch := range text {
		eff = r.Reduce(s, QueryCharAction{Char: ch})
	}
	return eff
}

func TestQueryEditingRequestsDebouncedSearch(t *testing.T) {
	s := &AppState{}
	r := NewStateReducer()

	eff := typeQuery(r, s, "find")
	if s.Query != "find" || s.CursorPos != 4 {
		t.Fatalf("unexpected query %q cursor %d", s.Query, s.CursorPos)
	}
	if !eff.Search || !eff.Debounce {
		t.Fatalf("typing should schedule a debounced search, got %+v", eff)
	}
	if !s.Searching {
		t.Fatalf("state should be marked searching")
	}

	r.Reduce(s, QueryMoveCursorAction{Direction: "home"})
	r.Reduce(s, QueryCharAction{Char: '>'})
	if s.Query != ">find" || s.CursorPos != 1 {
		t.Fatalf("insert at cursor failed: %q %d", s.Query, s.CursorPos)
	}

	r.Reduce(s, QueryBackspaceAction{})
	if s.Query != "find" || s.CursorPos != 0 {
		t.Fatalf("backspace failed: %q %d", s.Query, s.CursorPos)
	}
	if eff := r.Reduce(s, QueryBackspaceAction{}); eff.Search {
		t.Fatalf("backspace at start must not search")
	}

	r.Reduce(s, QueryDeleteAction{})
	if s.Query != "ind" {
		t.Fatalf("delete failed: %q", s.Query)
	}
}

func TestQueryDeleteWord(t *testing.T) {
	s := &AppState{}
	r := NewStateReducer()
	typeQuery(r, s, "foo bar baz")

	r.Reduce(s, QueryDeleteWordAction{})
	if s.Query != "foo bar " || s.CursorPos != len([]rune("foo bar ")) {
		t.Fatalf("expected 'foo bar ', got %q at %d", s.Query, s.CursorPos)
	}
	r.Reduce(s, QueryDeleteWordAction{})
	r.Reduce(s, QueryDeleteWordAction{})
	if s.Query != "" || s.CursorPos != 0 {
		t.Fatalf("expected empty query, got %q at %d", s.Query, s.CursorPos)
	}
}

func TestQueryCursorMovementWithMultibyteRunes(t *testing.T) {
	s := &AppState{}
	r := NewStateReducer()
	typeQuery(r, s, "数字 abc")

	r.Reduce(s, QueryMoveCursorAction{Direction: "word-left"})
	if s.CursorPos != 3 {
		t.Fatalf("word-left should stop at 3, got %d", s.CursorPos)
	}
	r.Reduce(s, QueryMoveCursorAction{Direction: "word-left"})
	if s.CursorPos != 0 {
		t.Fatalf("word-left should stop at 0, got %d", s.CursorPos)
	}
	r.Reduce(s, QueryMoveCursorAction{Direction: "word-right"})
	if s.CursorPos != 2 {
		t.Fatalf("word-right should stop at 2, got %d", s.CursorPos)
	}
	r.Reduce(s, QueryMoveCursorAction{Direction: "left"})
	r.Reduce(s, QueryMoveCursorAction{Direction: "left"})
	r.Reduce(s, QueryMoveCursorAction{Direction: "left"})
	if s.CursorPos != 0 {
		t.Fatalf("cursor should clamp at 0, got %d", s.CursorPos)
	}
	r.Reduce(s, QueryMoveCursorAction{Direction: "end"})
	if s.CursorPos != 6 {
		t.Fatalf("end should move to 6, got %d", s.CursorPos)
	}
}

func TestEscClearsThenQuits(t *testing.T) {
	s := &AppState{}
	r := NewStateReducer()
	typeQuery(r, s, "x")

	eff := r.Reduce(s, QueryClearAction{})
	if s.Query != "" || !eff.Search || eff.Debounce || eff.Quit {
		t.Fatalf("first Esc should clear immediately, got %+v query %q", eff, s.Query)
	}
	if eff := r.Reduce(s, QueryClearAction{}); !eff.Quit {
		t.Fatalf("Esc on empty query should quit")
	}
}

func TestEscClosesHelpFirst(t *testing.T) {
	s := &AppState{}
	r := NewStateReducer()
	typeQuery(r, s, "x")

	r.Reduce(s, ToggleHelpAction{})
	if !s.ShowHelp {
		t.Fatalf("F1 should show help")
	}
	if eff := r.Reduce(s, QueryClearAction{}); eff != (Effect{}) || s.ShowHelp || s.Query != "x" {
		t.Fatalf("Esc should only close help, got %+v help=%v query %q", eff, s.ShowHelp, s.Query)
	}
	r.Reduce(s, ToggleHelpAction{})
	r.Reduce(s, ToggleHelpAction{})
	if s.ShowHelp {
		t.Fatalf("second toggle should hide help")
	}
}

func TestToggleOptions(t *testing.T) {
	s := &AppState{}
	r := NewStateReducer()

	if eff := r.Reduce(s, ToggleCaseSensitiveAction{}); eff.Search {
		t.Fatalf("toggling with an empty query should not search")
	}
	if !s.CaseSensitive {
		t.Fatalf("case sensitivity not toggled")
	}

	typeQuery(r, s, "a")
	eff := r.Reduce(s, ToggleRegexAction{})
	if !eff.Search || eff.Debounce {
		t.Fatalf("toggle should search immediately, got %+v", eff)
	}
	r.Reduce(s, ToggleWholeWordAction{})
	cfg := s.SearchConfig()
	if cfg != (search.Config{Pattern: "a", CaseSensitive: true, WholeWord: true, UseRegex: true}) {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestNavigationNeedsMatches(t *testing.T) {
	s := &AppState{}
	r := NewStateReducer()

	if eff := r.Reduce(s, NextMatchAction{}); eff.Navigate != 0 {
		t.Fatalf("navigation without matches should be ignored")
	}
	s.Status = search.Status{Active: 1, Total: 3}
	if eff := r.Reduce(s, NextMatchAction{}); eff.Navigate != 1 {
		t.Fatalf("expected +1, got %d", eff.Navigate)
	}
	if eff := r.Reduce(s, PrevMatchAction{}); eff.Navigate != -1 {
		t.Fatalf("expected -1, got %d", eff.Navigate)
	}
}

func TestStatusText(t *testing.T) {
	s := &AppState{Searching: true}
	if s.StatusText() != "…" {
		t.Fatalf("pending search should show an ellipsis, got %q", s.StatusText())
	}
	s.Searching = false
	s.Status = search.Status{Active: 3, Total: 5000, Truncated: true}
	if s.StatusText() != "3/5000+" {
		t.Fatalf("unexpected status %q", s.StatusText())
	}
}

func TestResize(t *testing.T) {
	s := &AppState{}
	eff := NewStateReducer().Reduce(s, ResizeAction{Width: 80, Height: 24})
	if !eff.Resize || s.ScreenWidth != 80 || s.ScreenHeight != 24 {
		t.Fatalf("resize not applied: %+v %+v", eff, s)
	}
}
