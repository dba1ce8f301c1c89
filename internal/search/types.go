package search

import (
	"errors"
	"fmt"
	"strings"
)

// MaxMatches bounds the number of matches a single search produces.
const MaxMatches = 5000

var (
	ErrInvalidPattern   = errors.New("invalid pattern")
	ErrTreeUnavailable  = errors.New("document tree unavailable")
	ErrTextMismatch     = errors.New("fragment text does not reproduce leaf content")
	ErrHighlightMissing = errors.New("highlight not found")
)

// TextLeaf is a text-bearing node together with the content it held when the
// tree was linearized. Offset is the leaf's start in the concatenated text.
type TextLeaf struct {
	Ref     Node
	Content string
	Offset  int
}

// MatchSpan locates one occurrence. Offsets and lengths are byte offsets into
// UTF-8 text.
type MatchSpan struct {
	GlobalIndex  int
	LeafIndex    int
	LocalOffset  int
	GlobalOffset int
	Length       int
	Text         string
}

// End returns the local offset just past the match.
func (m MatchSpan) End() int {
	return m.LocalOffset + m.Length
}

// Config describes what to look for.
type Config struct {
	Pattern       string
	CaseSensitive bool
	WholeWord     bool
	UseRegex      bool
}

// Blank reports whether the pattern has nothing to search for.
func (c Config) Blank() bool {
	return strings.TrimSpace(c.Pattern) == ""
}

// MatchList is the ordered result of one search.
type MatchList struct {
	Spans     []MatchSpan
	Truncated bool
}

// Len returns the number of matches.
func (l MatchList) Len() int {
	return len(l.Spans)
}

// Status is what a session reports after every request.
type Status struct {
	Active         int // 1-based, 0 when nothing is active
	Total          int
	Truncated      bool
	InvalidPattern bool
	Unavailable    bool
	Err            error
	Generation     uint64
}

func (s Status) String() string {
	switch {
	case s.InvalidPattern:
		return "0/0 invalid pattern"
	case s.Unavailable:
		return "0/0 document unavailable"
	case s.Total == 0:
		return "0/0"
	}
	if s.Truncated {
		return fmt.Sprintf("%d/%d+", s.Active, s.Total)
	}
	return fmt.Sprintf("%d/%d", s.Active, s.Total)
}
