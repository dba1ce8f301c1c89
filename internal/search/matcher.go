package search

import (
	"context"
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// matchTimeout bounds a single match attempt so a pathological pattern cannot
// pin the worker.
const matchTimeout = 2 * time.Second

// Compile builds the effective pattern for cfg. Regex patterns use ECMAScript
// syntax. Literal patterns are escaped and, for whole words, wrapped in
// Unicode-aware word boundaries. Case insensitivity is an option, the pattern
// text itself is never folded.
func Compile(cfg Config) (*regexp2.Regexp, error) {
	expr := cfg.Pattern
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	if !cfg.UseRegex {
		expr = regexp2.Escape(expr)
		if cfg.WholeWord {
			expr = `\b` + expr + `\b`
		}
		opts = regexp2.None
	}
	if !cfg.CaseSensitive {
		opts |= regexp2.IgnoreCase
	}
	re, err := regexp2.Compile(expr, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	re.MatchTimeout = matchTimeout
	return re, nil
}

// Match scans every leaf for non-overlapping occurrences of cfg. Each scan
// resumes where the previous occurrence ended, one character further when
// that occurrence was empty. At most limit matches are produced (MaxMatches
// when limit <= 0); one more occurrence marks the list truncated and stops
// the scan. A blank pattern yields an empty list.
func Match(ctx context.Context, leaves []TextLeaf, cfg Config, limit int) (MatchList, error) {
	if cfg.Blank() {
		return MatchList{}, nil
	}
	re, err := Compile(cfg)
	if err != nil {
		return MatchList{}, err
	}
	return matchCompiled(ctx, leaves, re, limit)
}

func matchCompiled(ctx context.Context, leaves []TextLeaf, re *regexp2.Regexp, limit int) (MatchList, error) {
	if limit <= 0 {
		limit = MaxMatches
	}
	var list MatchList
	for leafIdx, leaf := range leaves {
		if err := ctx.Err(); err != nil {
			return list, err
		}
		if len(list.Spans) == limit {
			more, err := hasMoreFrom(leaves[leafIdx:], re)
			if err != nil {
				return list, err
			}
			list.Truncated = more
			break
		}

		offsets := runeOffsets(leaf.Content)
		m, err := re.FindStringMatch(leaf.Content)
		for ; m != nil && err == nil; m, err = re.FindNextMatch(m) {
			if len(list.Spans) == limit {
				list.Truncated = true
				break
			}
			start, end := offsets[m.Index], offsets[m.Index+m.Length]
			list.Spans = append(list.Spans, MatchSpan{
				GlobalIndex:  len(list.Spans),
				LeafIndex:    leafIdx,
				LocalOffset:  start,
				GlobalOffset: leaf.Offset + start,
				Length:       end - start,
				Text:         leaf.Content[start:end],
			})
		}
		if err != nil {
			return list, fmt.Errorf("leaf %d: %w", leafIdx, err)
		}
		if list.Truncated {
			break
		}
	}
	return list, nil
}

// runeOffsets maps rune indices, as reported by regexp2, to byte offsets. The
// extra trailing entry is len(s).
func runeOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	return append(offsets, len(s))
}

func hasMoreFrom(leaves []TextLeaf, re *regexp2.Regexp) (bool, error) {
	for _, leaf := range leaves {
		ok, err := re.MatchString(leaf.Content)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

// GroupByLeaf buckets spans by their owning leaf.
func GroupByLeaf(list MatchList) map[int][]MatchSpan {
	if len(list.Spans) == 0 {
		return nil
	}
	out := make(map[int][]MatchSpan)
	for _, span := range list.Spans {
		out[span.LeafIndex] = append(out[span.LeafIndex], span)
	}
	return out
}
