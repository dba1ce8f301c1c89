package dom

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kk-code-lab/advfind/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"golang.org/x/text/encoding/unicode"
)

func TestIsTextContent(t *testing.T) {
	assert.True(t, IsTextContent(nil))
	assert.True(t, IsTextContent([]byte("<p>plain</p>")))
	assert.True(t, IsTextContent([]byte{0xFF, 0xFE, 'a', 0x00}))
	assert.False(t, IsTextContent([]byte{0x7F, 'E', 'L', 'F', 0x00, 0x01}))
	assert.False(t, IsTextContent([]byte{0x01, 0x02, 0x03, 0x04, 0x05}))
}

func TestParseRejectsBinary(t *testing.T) {
	_, err := Parse([]byte{0x00, 0x01, 0x02}, "blob.html", Options{})
	assert.ErrorIs(t, err, ErrBinaryContent)
}

func TestParsePlainTextKeepsWhitespace(t *testing.T) {
	doc, err := Parse([]byte("line one\n  <not a tag>\n"), "notes.TXT", Options{})
	require.NoError(t, err)

	leaves := search.Linearize(doc)
	require.Len(t, leaves, 1)
	assert.Equal(t, "line one\n  <not a tag>\n", leaves[0].Content)
}

func TestDecodeTextUTF16(t *testing.T) {
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String("<p>héllo</p>")
	require.NoError(t, err)

	text, err := DecodeText([]byte(encoded), "")
	require.NoError(t, err)
	assert.Equal(t, "<p>héllo</p>", text)
}

func TestDecodeTextStripsUTF8BOM(t *testing.T) {
	text, err := DecodeText([]byte("\xEF\xBB\xBFhi"), "")
	require.NoError(t, err)
	assert.Equal(t, "hi", text)
}

func TestDecodeTextCharsetLabel(t *testing.T) {
	text, err := DecodeText([]byte("caf\xe9"), "windows-1252")
	require.NoError(t, err)
	assert.Equal(t, "café", text)

	_, err = DecodeText([]byte("x"), "no-such-charset")
	assert.Error(t, err)
}

func TestDecodeTextSniffsDeclaredCharset(t *testing.T) {
	raw := []byte("<html><head><meta charset=\"iso-8859-1\"></head><body>na\xefve</body></html>")
	text, err := DecodeText(raw, "")
	require.NoError(t, err)
	assert.True(t, strings.Contains(text, "naïve"), text)
}

func TestLoadFromMemoryStore(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	url := "mem://localhost/advfind/page.html"
	require.NoError(t, fs.Upload(ctx, url, 0o644, strings.NewReader("<p>needle in a haystack</p>")))

	doc, err := Load(ctx, fs, url, Options{})
	require.NoError(t, err)
	st := search.NewSession(doc).OnConfigChanged(ctx, search.Config{Pattern: "needle"})
	assert.Equal(t, "1/1", st.String())
}

func TestLoadLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# title\nbody"), 0o644))

	doc, err := Load(context.Background(), nil, path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"# title\nbody"}, search.Contents(search.Linearize(doc)))
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(context.Background(), afs.New(), filepath.Join(t.TempDir(), "missing.html"), Options{})
	assert.Error(t, err)
}
