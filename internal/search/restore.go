package search

import "strings"

// RestoreAll unwraps every highlight under the root and merges the result
// with its neighbouring text, leaving the tree shaped as before highlighting.
// It returns the number of highlights removed; a tree without highlights is
// left untouched.
func RestoreAll(t Tree) (int, error) {
	if !usable(t) {
		return 0, ErrTreeUnavailable
	}
	var parents []Node
	walk(t, t.Root(), func(n Node) bool {
		if _, ok := t.HighlightID(n); ok {
			return false
		}
		for _, child := range t.Children(n) {
			if _, ok := t.HighlightID(child); ok {
				parents = append(parents, n)
				break
			}
		}
		return true
	})

	removed := 0
	for _, parent := range parents {
		n, err := restoreChildren(t, parent)
		removed += n
		if err != nil {
			return removed, err
		}
	}
	return removed, nil
}

// restoreChildren collapses each maximal run of text and highlight siblings
// that contains a highlight into a single text node.
func restoreChildren(t Tree, parent Node) (int, error) {
	children := t.Children(parent)
	removed := 0
	for i := 0; i < len(children); {
		if !isInline(t, children[i]) {
			i++
			continue
		}
		j := i
		highlights := 0
		var b strings.Builder
		for ; j < len(children) && isInline(t, children[j]); j++ {
			if _, ok := t.HighlightID(children[j]); ok {
				highlights++
				b.WriteString(t.HighlightText(children[j]))
				continue
			}
			text, _ := t.Text(children[j])
			b.WriteString(text)
		}
		if highlights > 0 {
			var with []Node
			if b.Len() > 0 {
				with = []Node{t.NewText(b.String())}
			}
			if err := t.Replace(children[i:j], with); err != nil {
				return removed, err
			}
			removed += highlights
		}
		i = j
	}
	return removed, nil
}

func isInline(t Tree, n Node) bool {
	if _, ok := t.HighlightID(n); ok {
		return true
	}
	_, ok := t.Text(n)
	return ok
}
