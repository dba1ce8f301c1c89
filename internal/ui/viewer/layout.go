package viewer

import (
	"strings"

	"github.com/kk-code-lab/advfind/internal/dom"
	"github.com/kk-code-lab/advfind/internal/textutil"
	"github.com/rivo/uniseg"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Kind classifies a run of text for styling.
type Kind int

const (
	KindText Kind = iota
	KindHeading
	KindLink
	KindPre
	KindMatch
	KindActive
)

// Segment is a run of cells sharing one style. Match is the identifier of
// the highlight it came from, or -1.
type Segment struct {
	Text  string
	Kind  Kind
	Match int
}

// Line is one screen row of content.
type Line []Segment

// Text joins the segment texts.
func (l Line) Text() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Layout is an immutable snapshot of a document wrapped to a width. It holds
// no references into the tree, so it may be handed to another goroutine.
type Layout struct {
	Lines []Line
	Width int
	// FocusRow is the row of the highlight last scrolled into view, or -1.
	FocusRow  int
	matchRows map[int]int
}

// RowOf returns the first row showing the highlight with identifier id.
func (l *Layout) RowOf(id int) (int, bool) {
	if l == nil {
		return 0, false
	}
	row, ok := l.matchRows[id]
	return row, ok
}

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Ul: true, atom.Ol: true, atom.Li: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Tr: true, atom.Table: true, atom.Pre: true, atom.Blockquote: true,
	atom.Section: true, atom.Article: true, atom.Header: true, atom.Footer: true,
	atom.Nav: true, atom.Main: true, atom.Dl: true, atom.Dt: true, atom.Dd: true,
	atom.Figure: true, atom.Figcaption: true, atom.Form: true, atom.Aside: true,
	atom.Body: true,
}

func isHeading(a atom.Atom) bool {
	switch a {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

type layoutBuilder struct {
	doc      *dom.Document
	width    int
	tabWidth int

	lines []Line
	cur   Line
	col   int
	space bool

	pre     int
	heading int
	link    int
	match   int
	active  bool

	matchRows map[int]int
}

// Build lays doc out for a screen width cells wide. It reads the tree, so it
// must run wherever the tree is owned.
func Build(doc *dom.Document, width, tabWidth int) *Layout {
	if width < 1 {
		width = 1
	}
	if tabWidth <= 0 {
		tabWidth = textutil.DefaultTabWidth
	}
	b := &layoutBuilder{
		doc:       doc,
		width:     width,
		tabWidth:  tabWidth,
		space:     true,
		match:     -1,
		matchRows: make(map[int]int),
	}
	layout := &Layout{Width: width, FocusRow: -1, matchRows: b.matchRows}
	if doc == nil || doc.Body() == nil {
		return layout
	}
	b.visit(doc.Body())
	b.endLine()
	layout.Lines = b.lines

	if focused := doc.Focused(); focused != nil {
		if id, ok := doc.HighlightID(focused); ok {
			if row, ok := b.matchRows[id]; ok {
				layout.FocusRow = row
			}
		}
	}
	return layout
}

func (b *layoutBuilder) visit(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.text(n.Data)
		return
	case html.ElementNode:
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			b.visit(c)
		}
		return
	}

	if b.doc.Skipped(n) {
		return
	}
	if id, ok := b.doc.HighlightID(n); ok {
		prevMatch, prevActive := b.match, b.active
		b.match, b.active = id, b.doc.IsActive(n)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			b.visit(c)
		}
		b.match, b.active = prevMatch, prevActive
		return
	}

	switch n.DataAtom {
	case atom.Br:
		b.newLine()
		return
	case atom.Hr:
		b.endLine()
		b.emit(strings.Repeat("─", b.width), KindText)
		b.endLine()
		return
	case atom.Img:
		if alt, ok := attrValue(n, "alt"); ok && strings.TrimSpace(alt) != "" {
			b.text("[" + alt + "]")
		}
		return
	}

	block := blockElements[n.DataAtom]
	if block {
		b.endLine()
	}
	switch {
	case n.DataAtom == atom.Pre:
		b.pre++
		defer func() { b.pre-- }()
	case isHeading(n.DataAtom):
		b.heading++
		defer func() { b.heading-- }()
	case n.DataAtom == atom.A:
		b.link++
		defer func() { b.link-- }()
	case n.DataAtom == atom.Li:
		b.emit("• ", KindText)
		b.space = true
	case n.DataAtom == atom.Td || n.DataAtom == atom.Th:
		if b.col > 0 && !b.space {
			b.emit(" ", KindText)
			b.space = true
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.visit(c)
	}
	if block {
		b.endLine()
	}
}

func (b *layoutBuilder) kind() Kind {
	switch {
	case b.match >= 0 && b.active:
		return KindActive
	case b.match >= 0:
		return KindMatch
	case b.pre > 0:
		return KindPre
	case b.heading > 0:
		return KindHeading
	case b.link > 0:
		return KindLink
	}
	return KindText
}

func (b *layoutBuilder) text(raw string) {
	raw = textutil.SanitizeTerminalText(raw)
	if b.pre > 0 {
		for i, part := range strings.Split(raw, "\n") {
			if i > 0 {
				b.newLine()
			}
			b.clusters(textutil.ExpandTabs(part, b.tabWidth, b.col))
		}
		return
	}

	collapsed := textutil.CollapseSpace(raw, b.space)
	if collapsed == "" {
		// A highlight over white space alone still needs a row.
		b.markRow()
		return
	}
	for _, word := range splitWords(collapsed) {
		if word == " " {
			if b.col > 0 && b.col < b.width {
				b.emit(" ", b.kind())
			}
			b.space = true
			continue
		}
		w := textutil.DisplayWidth(word)
		if b.col > 0 && b.col+w > b.width {
			b.newLine()
		}
		b.clusters(word)
		b.space = false
	}
}

// splitWords cuts collapsed text into words and single spaces.
func splitWords(s string) []string {
	var out []string
	for len(s) > 0 {
		i := strings.IndexByte(s, ' ')
		switch {
		case i < 0:
			out = append(out, s)
			s = ""
		case i == 0:
			out = append(out, " ")
			s = s[1:]
		default:
			out = append(out, s[:i])
			s = s[i:]
		}
	}
	return out
}

// clusters emits text one grapheme cluster at a time, wrapping at the width.
func (b *layoutBuilder) clusters(text string) {
	if text == "" {
		b.markRow()
		return
	}
	kind := b.kind()
	var run strings.Builder
	state := -1
	for len(text) > 0 {
		var cluster string
		cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
		w := textutil.ClusterWidth(cluster)
		if b.col+w > b.width && b.col > 0 {
			b.emit(run.String(), kind)
			run.Reset()
			b.newLine()
		}
		run.WriteString(cluster)
		b.col += w
	}
	// emit advances col itself.
	b.col -= textutil.DisplayWidth(run.String())
	b.emit(run.String(), kind)
}

func (b *layoutBuilder) markRow() {
	if b.match < 0 {
		return
	}
	if _, ok := b.matchRows[b.match]; !ok {
		b.matchRows[b.match] = len(b.lines)
	}
}

func (b *layoutBuilder) emit(text string, kind Kind) {
	if text == "" {
		return
	}
	b.markRow()
	match := -1
	if kind == KindMatch || kind == KindActive {
		match = b.match
	}
	if n := len(b.cur); n > 0 && b.cur[n-1].Kind == kind && b.cur[n-1].Match == match {
		b.cur[n-1].Text += text
	} else {
		b.cur = append(b.cur, Segment{Text: text, Kind: kind, Match: match})
	}
	b.col += textutil.DisplayWidth(text)
}

// newLine always finishes the current row, even an empty one.
func (b *layoutBuilder) newLine() {
	b.lines = append(b.lines, trimTrailingSpace(b.cur))
	b.cur = nil
	b.col = 0
	b.space = true
}

// endLine finishes the current row unless it is empty.
func (b *layoutBuilder) endLine() {
	if len(b.cur) > 0 {
		b.newLine()
	}
}

func trimTrailingSpace(l Line) Line {
	if n := len(l); n > 0 && l[n-1].Kind != KindMatch && l[n-1].Kind != KindActive && l[n-1].Kind != KindPre {
		l[n-1].Text = strings.TrimRight(l[n-1].Text, " ")
		if l[n-1].Text == "" {
			l = l[:n-1]
		}
	}
	return l
}

func attrValue(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
