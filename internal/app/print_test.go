package app

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/kk-code-lab/advfind/internal/dom"
	"github.com/kk-code-lab/advfind/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, markup string) *dom.Document {
	t.Helper()
	doc, err := dom.Parse([]byte(markup), "", dom.Options{})
	require.NoError(t, err)
	return doc
}

func TestPrintWritesHighlightedMarkup(t *testing.T) {
	doc := mustParse(t, `<p>one two one</p>`)
	var out, status bytes.Buffer

	st, err := Print(context.Background(), doc, PrintOptions{Search: search.Config{Pattern: "one"}}, &out, &status)
	require.NoError(t, err)
	assert.Equal(t, "1/2", st.String())
	assert.Equal(t, "1/2\n", status.String())
	assert.Contains(t, out.String(), `<span class="advanced-find-highlight active" data-match-index="0">one</span>`)
}

func TestPrintSelectWraps(t *testing.T) {
	doc := mustParse(t, `<p>a a a</p>`)
	var out, status bytes.Buffer

	st, err := Print(context.Background(), doc, PrintOptions{Search: search.Config{Pattern: "a"}, Select: 3}, &out, &status)
	require.NoError(t, err)
	assert.Equal(t, "3/3", st.String())
	assert.Contains(t, out.String(), `data-match-index="2"`)
	assert.Equal(t, 1, strings.Count(out.String(), "active"))

	doc = mustParse(t, `<p>a a a</p>`)
	st, err = Print(context.Background(), doc, PrintOptions{Search: search.Config{Pattern: "a"}, Select: 4}, &out, &status)
	require.NoError(t, err)
	assert.Equal(t, "1/3", st.String())
}

func TestPrintNoMatches(t *testing.T) {
	doc := mustParse(t, `<p>nothing</p>`)
	var out, status bytes.Buffer

	st, err := Print(context.Background(), doc, PrintOptions{Search: search.Config{Pattern: "zzz"}}, &out, &status)
	require.NoError(t, err)
	assert.Equal(t, "0/0", st.String())
	assert.Contains(t, out.String(), "<p>nothing</p>")
}

func TestPrintInvalidPattern(t *testing.T) {
	doc := mustParse(t, `<p>(x)</p>`)
	var out, status bytes.Buffer

	st, err := Print(context.Background(), doc, PrintOptions{Search: search.Config{Pattern: "(", UseRegex: true}}, &out, &status)
	assert.ErrorIs(t, err, search.ErrInvalidPattern)
	assert.True(t, st.InvalidPattern)
	assert.Empty(t, out.String())
	assert.Equal(t, "0/0 invalid pattern\n", status.String())
}

func TestPrintRespectsCap(t *testing.T) {
	doc := mustParse(t, "<p>"+strings.Repeat("x ", 20)+"</p>")
	var out, status bytes.Buffer

	st, err := Print(context.Background(), doc, PrintOptions{Search: search.Config{Pattern: "x"}, MaxMatches: 5}, &out, &status)
	require.NoError(t, err)
	assert.Equal(t, "1/5+", st.String())
	assert.Equal(t, 5, strings.Count(out.String(), "data-match-index"))
}
