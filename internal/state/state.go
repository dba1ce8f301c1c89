package state

import (
	"github.com/kk-code-lab/advfind/internal/search"
)

// AppState is the single source of truth for the find prompt.
type AppState struct {
	Query         string
	CursorPos     int // rune index into Query
	CaseSensitive bool
	WholeWord     bool
	UseRegex      bool

	// Status is the latest report from the search worker.
	Status search.Status
	// Searching is set while a configuration change is waiting to be applied.
	Searching bool

	ShowHelp bool

	ScreenWidth  int
	ScreenHeight int
}

// SearchConfig is the configuration the prompt currently describes.
func (s *AppState) SearchConfig() search.Config {
	return search.Config{
		Pattern:       s.Query,
		CaseSensitive: s.CaseSensitive,
		WholeWord:     s.WholeWord,
		UseRegex:      s.UseRegex,
	}
}

// StatusText is the position indicator shown next to the prompt.
func (s *AppState) StatusText() string {
	if s.Searching && s.Status.Total == 0 && !s.Status.InvalidPattern {
		return "…"
	}
	return s.Status.String()
}

func (s *AppState) setQuery(query string, cursor int) {
	s.Query = query
	n := len([]rune(query))
	if cursor < 0 {
		cursor = 0
	}
	if cursor > n {
		cursor = n
	}
	s.CursorPos = cursor
}
