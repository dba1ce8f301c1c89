package search

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Fragment is one piece of a split leaf: plain text, or a highlight carrying
// the global index of its match.
type Fragment struct {
	Text      string
	Highlight bool
	ID        int
}

// BuildFragments splits content around spans. Concatenating the fragment
// texts reproduces content exactly; spans that overlap an earlier span or run
// past the content are rejected.
func BuildFragments(content string, spans []MatchSpan) ([]Fragment, error) {
	sorted := append([]MatchSpan(nil), spans...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LocalOffset < sorted[j].LocalOffset
	})

	frags := make([]Fragment, 0, len(sorted)*2+1)
	last := 0
	for _, span := range sorted {
		start, end := span.LocalOffset, span.End()
		if start < last || end > len(content) || start > end {
			return nil, fmt.Errorf("%w: span %d at [%d,%d) in %d bytes", ErrTextMismatch, span.GlobalIndex, start, end, len(content))
		}
		if start > last {
			frags = append(frags, Fragment{Text: content[last:start]})
		}
		frags = append(frags, Fragment{Text: content[start:end], Highlight: true, ID: span.GlobalIndex})
		last = end
	}
	if last < len(content) {
		frags = append(frags, Fragment{Text: content[last:]})
	}
	if joined := joinFragments(frags); joined != content {
		return nil, fmt.Errorf("%w: got %q", ErrTextMismatch, joined)
	}
	return frags, nil
}

func joinFragments(frags []Fragment) string {
	var b strings.Builder
	for _, f := range frags {
		b.WriteString(f.Text)
	}
	return b.String()
}

// ApplyHighlights replaces every leaf that owns matches with its fragment run
// and returns the spans that were written, in document order. A leaf is
// either fully replaced or left as it was; failures are collected and do not
// stop the remaining leaves.
func ApplyHighlights(t Tree, leaves []TextLeaf, byLeaf map[int][]MatchSpan) ([]MatchSpan, error) {
	if !usable(t) {
		return nil, ErrTreeUnavailable
	}
	indices := make([]int, 0, len(byLeaf))
	for idx := range byLeaf {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	var written []MatchSpan
	var errs []error
	for _, idx := range indices {
		spans := byLeaf[idx]
		if len(spans) == 0 {
			continue
		}
		if idx < 0 || idx >= len(leaves) {
			errs = append(errs, fmt.Errorf("leaf %d out of range", idx))
			continue
		}
		if err := highlightLeaf(t, leaves[idx], spans); err != nil {
			errs = append(errs, fmt.Errorf("leaf %d: %w", idx, err))
			continue
		}
		written = append(written, spans...)
	}
	sort.SliceStable(written, func(i, j int) bool {
		return written[i].GlobalIndex < written[j].GlobalIndex
	})
	return written, errors.Join(errs...)
}

func highlightLeaf(t Tree, leaf TextLeaf, spans []MatchSpan) error {
	frags, err := BuildFragments(leaf.Content, spans)
	if err != nil {
		return err
	}
	run := make([]Node, 0, len(frags))
	for _, f := range frags {
		if f.Highlight {
			run = append(run, t.NewHighlight(f.ID, f.Text))
		} else {
			run = append(run, t.NewText(f.Text))
		}
	}
	return t.Replace([]Node{leaf.Ref}, run)
}
