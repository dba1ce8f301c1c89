package search

import "strings"

// Linearize collects the text leaves under the tree root in reading order.
// Leaves holding only whitespace are skipped since they cannot hold a match.
func Linearize(t Tree) []TextLeaf {
	if !usable(t) {
		return nil
	}
	var leaves []TextLeaf
	offset := 0
	walk(t, t.Root(), func(n Node) bool {
		if _, ok := t.HighlightID(n); ok {
			return false
		}
		content, ok := t.Text(n)
		if !ok {
			return true
		}
		if strings.TrimSpace(content) != "" {
			leaves = append(leaves, TextLeaf{Ref: n, Content: content, Offset: offset})
			offset += len(content)
		}
		return false
	})
	return leaves
}

// Contents returns the leaf strings, mostly useful for comparisons.
func Contents(leaves []TextLeaf) []string {
	out := make([]string, len(leaves))
	for i, leaf := range leaves {
		out[i] = leaf.Content
	}
	return out
}
