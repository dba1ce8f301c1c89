package search

// Node is an opaque, non-owning handle into a host tree.
type Node any

// Tree is the host capability the engine works against. Implementations own
// the nodes; the engine only reads text and asks for structural edits.
type Tree interface {
	Root() Node
	// Children lists n's children in document order.
	Children(n Node) []Node
	// Text reports the content of a plain text leaf.
	Text(n Node) (string, bool)
	// HighlightID reports the identifier of a highlight fragment.
	HighlightID(n Node) (int, bool)
	// HighlightText returns the text wrapped by a highlight fragment.
	HighlightText(n Node) string
	// Replace swaps a run of adjacent siblings for a new run.
	Replace(old []Node, with []Node) error
	NewText(text string) Node
	NewHighlight(id int, text string) Node
	SetActive(n Node, active bool)
	ScrollIntoView(n Node)
}

// walk visits n and its descendants in pre-order. Returning false from fn
// skips the node's children.
func walk(t Tree, n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range t.Children(n) {
		walk(t, child, fn)
	}
}

func usable(t Tree) bool {
	return t != nil && t.Root() != nil
}
