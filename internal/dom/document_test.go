package dom

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/kk-code-lab/advfind/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const samplePage = `<!DOCTYPE html>
<html><head><title>search title</title><style>.search{}</style></head>
<body>
<h1>Search engines</h1>
<p>Use the <b>search</b> box to SEARCH &amp; find.</p>
<script>var search = 1;</script>
<ul><li>testing</li><li>a test case</li></ul>
<p>数字123和456</p>
</body></html>`

func parseSample(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse([]byte(samplePage), "page.html", Options{})
	require.NoError(t, err)
	return doc
}

func render(t *testing.T, doc *Document) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, doc.Render(&buf))
	return buf.String()
}

func highlightTexts(doc *Document) []string {
	var out []string
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if doc.IsHighlight(n) {
			out = append(out, textContent(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc.Body())
	return out
}

func TestSearchSkipsHiddenText(t *testing.T) {
	doc := parseSample(t)
	s := search.NewSession(doc)

	st := s.OnConfigChanged(context.Background(), search.Config{Pattern: "search"})
	require.NoError(t, st.Err)
	assert.Equal(t, "1/3", st.String())
	assert.Equal(t, []string{"Search", "search", "SEARCH"}, highlightTexts(doc))
}

func TestSearchCaseSensitive(t *testing.T) {
	doc := parseSample(t)
	s := search.NewSession(doc)

	st := s.OnConfigChanged(context.Background(), search.Config{Pattern: "SEARCH", CaseSensitive: true})
	assert.Equal(t, "1/1", st.String())
	assert.Equal(t, []string{"SEARCH"}, highlightTexts(doc))
}

func TestSearchWholeWordAndRegex(t *testing.T) {
	doc := parseSample(t)
	s := search.NewSession(doc)

	st := s.OnConfigChanged(context.Background(), search.Config{Pattern: "test", WholeWord: true})
	assert.Equal(t, "1/1", st.String())

	st = s.OnConfigChanged(context.Background(), search.Config{Pattern: `\d+`, UseRegex: true})
	assert.Equal(t, "1/2", st.String())
	assert.Equal(t, []string{"123", "456"}, highlightTexts(doc))
}

func TestHighlightMarkup(t *testing.T) {
	doc, err := Parse([]byte(`<p>one two one</p>`), "", Options{})
	require.NoError(t, err)
	s := search.NewSession(doc)

	s.OnConfigChanged(context.Background(), search.Config{Pattern: "one"})
	out := render(t, doc)
	assert.Contains(t, out, `<span class="advanced-find-highlight active" data-match-index="0">one</span>`)
	assert.Contains(t, out, `<span class="advanced-find-highlight" data-match-index="1">one</span>`)

	s.OnNavigate(1)
	out = render(t, doc)
	assert.Contains(t, out, `<span class="advanced-find-highlight" data-match-index="0">one</span>`)
	assert.Contains(t, out, `<span class="advanced-find-highlight active" data-match-index="1">one</span>`)
}

func TestRoundTripRestoresMarkup(t *testing.T) {
	doc := parseSample(t)
	before := render(t, doc)
	s := search.NewSession(doc)

	for _, cfg := range []search.Config{
		{Pattern: "search"},
		{Pattern: "e"},
		{Pattern: `[a-z]+`, UseRegex: true},
		{Pattern: "find", WholeWord: true},
	} {
		st := s.OnConfigChanged(context.Background(), cfg)
		require.NoError(t, st.Err, "pattern %q", cfg.Pattern)
		require.NotEqual(t, before, render(t, doc))
		s.OnNavigate(-1)

		removed, err := search.RestoreAll(doc)
		require.NoError(t, err)
		assert.Equal(t, st.Total, removed)
		assert.Equal(t, before, render(t, doc), "pattern %q", cfg.Pattern)

		removed, err = search.RestoreAll(doc)
		require.NoError(t, err)
		assert.Zero(t, removed)
	}
}

func TestTextConservation(t *testing.T) {
	doc := parseSample(t)
	before := visibleText(doc)
	s := search.NewSession(doc)

	for _, pattern := range []string{"s", "search", " "} {
		s.OnConfigChanged(context.Background(), search.Config{Pattern: pattern})
		assert.Equal(t, before, visibleText(doc), "pattern %q", pattern)
	}
}

// visibleText concatenates every text node outside skipped subtrees,
// highlight content included.
func visibleText(doc *Document) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if doc.Skipped(n) {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc.Body())
	return b.String()
}

func TestInvalidPatternLeavesDocumentUnhighlighted(t *testing.T) {
	doc := parseSample(t)
	before := render(t, doc)
	s := search.NewSession(doc)
	s.OnConfigChanged(context.Background(), search.Config{Pattern: "search"})

	st := s.OnConfigChanged(context.Background(), search.Config{Pattern: "(", UseRegex: true})
	assert.True(t, st.InvalidPattern)
	assert.Equal(t, before, render(t, doc))
}

func TestScrollIntoViewTracksActive(t *testing.T) {
	doc, err := Parse([]byte(`<p>a</p><p>a</p><p>a</p>`), "", Options{})
	require.NoError(t, err)
	var scrolled []string
	focusedIndex := func() {
		v, _ := attr(doc.Focused(), matchIndexAttr)
		scrolled = append(scrolled, v)
	}
	s := search.NewSession(doc)

	s.OnConfigChanged(context.Background(), search.Config{Pattern: "a"})
	focusedIndex()
	s.OnNavigate(-1)
	focusedIndex()
	s.OnNavigate(1)
	focusedIndex()
	assert.Equal(t, []string{"0", "2", "0"}, scrolled)
	assert.True(t, doc.IsActive(doc.Focused()))
}

func TestLookupHighlightFromParsedMarkup(t *testing.T) {
	doc, err := Parse([]byte(`<p>x<span class="advanced-find-highlight" data-match-index="4">y</span>z</p>`), "", Options{})
	require.NoError(t, err)

	n, ok := doc.LookupHighlight(4)
	require.True(t, ok)
	assert.Equal(t, "y", doc.HighlightText(n))

	removed, err := search.RestoreAll(doc)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Contains(t, render(t, doc), "<p>xyz</p>")
	_, ok = doc.LookupHighlight(4)
	assert.False(t, ok)
}

func TestCustomClasses(t *testing.T) {
	doc, err := Parse([]byte(`<p>hit</p>`), "", Options{HighlightClass: "mark", ActiveClass: "current"})
	require.NoError(t, err)
	search.NewSession(doc).OnConfigChanged(context.Background(), search.Config{Pattern: "hit"})

	assert.Contains(t, render(t, doc), `<span class="mark current" data-match-index="0">hit</span>`)
}

func TestReplaceValidation(t *testing.T) {
	doc, err := Parse([]byte(`<p>a</p><p>b</p>`), "", Options{})
	require.NoError(t, err)
	first := doc.Body().FirstChild.FirstChild
	second := doc.Body().LastChild.FirstChild

	assert.ErrorIs(t, doc.Replace([]search.Node{first, second}, nil), ErrNotSiblings)
	assert.ErrorIs(t, doc.Replace([]search.Node{first}, []search.Node{second}), ErrAttached)
	assert.ErrorIs(t, doc.Replace([]search.Node{"nope"}, nil), ErrForeignNode)
	assert.Equal(t, "a", first.Data)
}

func TestNoBody(t *testing.T) {
	_, err := NewDocument(&html.Node{Type: html.DocumentNode}, Options{})
	assert.ErrorIs(t, err, ErrNoBody)

	var missing *Document
	assert.Nil(t, missing.Root())
}
