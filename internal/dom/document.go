// Package dom adapts a parsed HTML document to the search engine's host tree.
// Highlights are <span class="advanced-find-highlight" data-match-index="N">
// elements; the active one additionally carries the "active" class.
package dom

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/kk-code-lab/advfind/internal/search"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	DefaultHighlightClass = "advanced-find-highlight"
	DefaultActiveClass    = "active"
	matchIndexAttr        = "data-match-index"
)

var (
	ErrNoBody      = errors.New("document has no body")
	ErrNotSiblings = errors.New("nodes are not adjacent siblings")
	ErrAttached    = errors.New("replacement node already attached")
	ErrForeignNode = errors.New("node does not belong to this document")
)

// DefaultSkipTags hold text that is never rendered.
var DefaultSkipTags = []string{"script", "style", "noscript", "template", "head"}

// Options controls highlight markup and which subtrees hold searchable text.
type Options struct {
	HighlightClass string
	ActiveClass    string
	SkipTags       []string
	Charset        string
}

func (o Options) withDefaults() Options {
	if o.HighlightClass == "" {
		o.HighlightClass = DefaultHighlightClass
	}
	if o.ActiveClass == "" {
		o.ActiveClass = DefaultActiveClass
	}
	if o.SkipTags == nil {
		o.SkipTags = DefaultSkipTags
	}
	return o
}

// Document is an HTML tree searched from its <body>.
type Document struct {
	root       *html.Node
	body       *html.Node
	opts       Options
	skip       map[string]struct{}
	highlights map[int]*html.Node
	focused    *html.Node
}

var _ search.Tree = (*Document)(nil)
var _ search.HighlightIndex = (*Document)(nil)

// NewDocument wraps an already parsed tree.
func NewDocument(root *html.Node, opts Options) (*Document, error) {
	opts = opts.withDefaults()
	body := findBody(root)
	if body == nil {
		return nil, ErrNoBody
	}
	skip := make(map[string]struct{}, len(opts.SkipTags))
	for _, tag := range opts.SkipTags {
		skip[strings.ToLower(strings.TrimSpace(tag))] = struct{}{}
	}
	return &Document{
		root:       root,
		body:       body,
		opts:       opts,
		skip:       skip,
		highlights: make(map[int]*html.Node),
	}, nil
}

func findBody(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

// Body returns the search root.
func (d *Document) Body() *html.Node { return d.body }

// Focused returns the node last scrolled into view.
func (d *Document) Focused() *html.Node { return d.focused }

// Skipped reports whether n's subtree holds no searchable text.
func (d *Document) Skipped(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	_, ok := d.skip[strings.ToLower(n.Data)]
	return ok
}

// Render writes the whole document, highlights included.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *Document) Root() search.Node {
	if d == nil || d.body == nil {
		return nil
	}
	return d.body
}

func (d *Document) Children(n search.Node) []search.Node {
	node := asNode(n)
	if node == nil || d.Skipped(node) {
		return nil
	}
	var out []search.Node
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

func (d *Document) Text(n search.Node) (string, bool) {
	node := asNode(n)
	if node == nil || node.Type != html.TextNode {
		return "", false
	}
	return node.Data, true
}

func (d *Document) HighlightID(n search.Node) (int, bool) {
	return d.highlightID(asNode(n))
}

func (d *Document) highlightID(node *html.Node) (int, bool) {
	if node == nil || node.Type != html.ElementNode || node.DataAtom != atom.Span {
		return 0, false
	}
	if !hasClass(node, d.opts.HighlightClass) {
		return 0, false
	}
	raw, ok := attr(node, matchIndexAttr)
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}

// IsHighlight reports whether n is a highlight span.
func (d *Document) IsHighlight(n *html.Node) bool {
	_, ok := d.highlightID(n)
	return ok
}

// IsActive reports whether n is the active highlight.
func (d *Document) IsActive(n *html.Node) bool {
	return d.IsHighlight(n) && hasClass(n, d.opts.ActiveClass)
}

func (d *Document) HighlightText(n search.Node) string {
	return textContent(asNode(n))
}

// Replace inserts with in place of the adjacent siblings old. Nothing is
// changed unless every node checks out.
func (d *Document) Replace(old []search.Node, with []search.Node) error {
	if len(old) == 0 {
		return nil
	}
	olds := make([]*html.Node, len(old))
	for i, n := range old {
		olds[i] = asNode(n)
		if olds[i] == nil {
			return ErrForeignNode
		}
	}
	parent := olds[0].Parent
	if parent == nil {
		return ErrNotSiblings
	}
	for i := 1; i < len(olds); i++ {
		if olds[i-1].NextSibling != olds[i] {
			return ErrNotSiblings
		}
	}
	news := make([]*html.Node, len(with))
	for i, n := range with {
		news[i] = asNode(n)
		if news[i] == nil {
			return ErrForeignNode
		}
		if news[i].Parent != nil || news[i].PrevSibling != nil || news[i].NextSibling != nil {
			return ErrAttached
		}
	}

	anchor := olds[0]
	for _, n := range news {
		parent.InsertBefore(n, anchor)
	}
	for _, n := range olds {
		parent.RemoveChild(n)
		d.forget(n)
	}
	return nil
}

// forget drops index entries for highlights detached with n.
func (d *Document) forget(n *html.Node) {
	if id, ok := d.highlightID(n); ok && d.highlights[id] == n {
		delete(d.highlights, id)
	}
	if d.focused == n {
		d.focused = nil
	}
}

func (d *Document) NewText(text string) search.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

func (d *Document) NewHighlight(id int, text string) search.Node {
	span := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Span,
		Data:     atom.Span.String(),
		Attr: []html.Attribute{
			{Key: "class", Val: d.opts.HighlightClass},
			{Key: matchIndexAttr, Val: strconv.Itoa(id)},
		},
	}
	span.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	d.highlights[id] = span
	return span
}

func (d *Document) SetActive(n search.Node, active bool) {
	node := asNode(n)
	if node == nil {
		return
	}
	if active {
		addClass(node, d.opts.ActiveClass)
	} else {
		removeClass(node, d.opts.ActiveClass)
	}
}

func (d *Document) ScrollIntoView(n search.Node) {
	node := asNode(n)
	if node == nil {
		return
	}
	d.focused = node
}

// LookupHighlight resolves id through the index kept by NewHighlight, falling
// back to a walk for highlights that came in with the parsed markup.
func (d *Document) LookupHighlight(id int) (search.Node, bool) {
	if n, ok := d.highlights[id]; ok && d.attached(n) {
		return n, true
	}
	var found *html.Node
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		for c := n.FirstChild; c != nil && found == nil; c = c.NextSibling {
			if hid, ok := d.highlightID(c); ok {
				if hid == id {
					found = c
				}
				continue
			}
			if !d.Skipped(c) {
				visit(c)
			}
		}
	}
	visit(d.body)
	if found == nil {
		return nil, false
	}
	d.highlights[id] = found
	return found, true
}

func (d *Document) attached(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.body {
			return true
		}
	}
	return false
}

func asNode(n search.Node) *html.Node {
	node, _ := n.(*html.Node)
	return node
}

func textContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	raw, ok := attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(raw) {
		if c == class {
			return true
		}
	}
	return false
}

func addClass(n *html.Node, class string) {
	if hasClass(n, class) {
		return
	}
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == "class" {
			n.Attr[i].Val = strings.TrimSpace(a.Val + " " + class)
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
}

func removeClass(n *html.Node, class string) {
	for i, a := range n.Attr {
		if a.Namespace != "" || a.Key != "class" {
			continue
		}
		fields := strings.Fields(a.Val)
		kept := fields[:0]
		for _, c := range fields {
			if c != class {
				kept = append(kept, c)
			}
		}
		n.Attr[i].Val = strings.Join(kept, " ")
		return
	}
}
