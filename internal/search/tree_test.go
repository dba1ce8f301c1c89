package search

import (
	"errors"
	"strconv"
	"strings"
)

type memKind int

const (
	memElement memKind = iota
	memText
	memHighlight
)

type memNode struct {
	kind     memKind
	tag      string
	text     string
	id       int
	active   bool
	parent   *memNode
	children []*memNode
}

// memTree is a small in-memory host used to exercise the engine without HTML.
type memTree struct {
	root     *memNode
	scrolled []int
	broken   bool
	// refuse makes Replace fail for a text leaf with exactly this content.
	refuse string
}

func el(tag string, children ...*memNode) *memNode {
	n := &memNode{kind: memElement, tag: tag}
	for _, c := range children {
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

func txt(s string) *memNode {
	return &memNode{kind: memText, text: s}
}

func newMemTree(children ...*memNode) *memTree {
	return &memTree{root: el("body", children...)}
}

func (t *memTree) Root() Node {
	if t.root == nil {
		return nil
	}
	return t.root
}

func (t *memTree) Children(n Node) []Node {
	node := n.(*memNode)
	out := make([]Node, len(node.children))
	for i, c := range node.children {
		out[i] = c
	}
	return out
}

func (t *memTree) Text(n Node) (string, bool) {
	node := n.(*memNode)
	return node.text, node.kind == memText
}

func (t *memTree) HighlightID(n Node) (int, bool) {
	node := n.(*memNode)
	return node.id, node.kind == memHighlight
}

func (t *memTree) HighlightText(n Node) string {
	return n.(*memNode).text
}

func (t *memTree) Replace(old []Node, with []Node) error {
	if t.broken {
		return errors.New("replace refused")
	}
	first := old[0].(*memNode)
	if t.refuse != "" && first.kind == memText && first.text == t.refuse {
		return errors.New("replace refused")
	}
	parent := first.parent
	if parent == nil {
		return errors.New("detached")
	}
	at := -1
	for i, c := range parent.children {
		if c == first {
			at = i
			break
		}
	}
	if at < 0 || at+len(old) > len(parent.children) {
		return errors.New("not a child")
	}
	for i, n := range old {
		if parent.children[at+i] != n.(*memNode) {
			return errors.New("not adjacent")
		}
	}
	repl := make([]*memNode, 0, len(parent.children)-len(old)+len(with))
	repl = append(repl, parent.children[:at]...)
	for _, n := range with {
		node := n.(*memNode)
		node.parent = parent
		repl = append(repl, node)
	}
	repl = append(repl, parent.children[at+len(old):]...)
	for _, n := range old {
		n.(*memNode).parent = nil
	}
	parent.children = repl
	return nil
}

func (t *memTree) NewText(text string) Node {
	return &memNode{kind: memText, text: text}
}

func (t *memTree) NewHighlight(id int, text string) Node {
	return &memNode{kind: memHighlight, id: id, text: text}
}

func (t *memTree) SetActive(n Node, active bool) {
	n.(*memNode).active = active
}

func (t *memTree) ScrollIntoView(n Node) {
	t.scrolled = append(t.scrolled, n.(*memNode).id)
}

// dump renders the tree shape, e.g. "<p>ab[0:c]d</p>", with "*" marking the
// active highlight.
func (t *memTree) dump() string {
	var b strings.Builder
	var visit func(*memNode)
	visit = func(n *memNode) {
		switch n.kind {
		case memText:
			b.WriteString(n.text)
		case memHighlight:
			b.WriteString("[")
			if n.active {
				b.WriteString("*")
			}
			b.WriteString(strconv.Itoa(n.id))
			b.WriteString(":")
			b.WriteString(n.text)
			b.WriteString("]")
		default:
			b.WriteString("<" + n.tag + ">")
			for _, c := range n.children {
				visit(c)
			}
			b.WriteString("</" + n.tag + ">")
		}
	}
	visit(t.root)
	return b.String()
}

func (t *memTree) highlights() []*memNode {
	var out []*memNode
	var visit func(*memNode)
	visit = func(n *memNode) {
		if n.kind == memHighlight {
			out = append(out, n)
			return
		}
		for _, c := range n.children {
			visit(c)
		}
	}
	visit(t.root)
	return out
}
