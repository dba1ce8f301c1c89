// Package textutil prepares document text for terminal cells.
package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const DefaultTabWidth = 4

// DisplayWidth reports how many cells text occupies, measured per grapheme
// cluster so emoji sequences and flags count once.
func DisplayWidth(text string) int {
	return uniseg.StringWidth(text)
}

// ClusterWidth is the cell width of a single grapheme cluster, never below one.
func ClusterWidth(cluster string) int {
	w := uniseg.StringWidth(cluster)
	if w < 1 {
		if r := []rune(cluster); len(r) == 1 {
			w = runewidth.RuneWidth(r[0])
		}
	}
	if w < 1 {
		w = 1
	}
	return w
}

// ExpandTabs replaces tabs with spaces. col is the cell column text starts
// at, so stops line up with text already on the line.
func ExpandTabs(text string, tabWidth, col int) string {
	if tabWidth <= 0 || !strings.ContainsRune(text, '\t') {
		return text
	}

	var b strings.Builder
	state := -1
	rest := text
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if cluster == "\t" {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteString(cluster)
		col += ClusterWidth(cluster)
	}
	return b.String()
}

// CollapseSpace folds every run of white space into one space, the way
// browsers lay out text outside <pre>. leading reports whether the previous
// output already ended in a space, in which case a leading run is dropped.
func CollapseSpace(text string, leading bool) string {
	var b strings.Builder
	b.Grow(len(text))
	space := leading
	for _, r := range text {
		if isCollapsible(r) {
			if !space {
				b.WriteByte(' ')
				space = true
			}
			continue
		}
		b.WriteRune(r)
		space = false
	}
	return b.String()
}

func isCollapsible(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}
