package dom

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/viant/afs"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

const (
	sniffLen          = 4096
	maxControlPercent = 30
)

var ErrBinaryContent = errors.New("content is not text")

type unicodeEncoding int

const (
	encodingUnknown unicodeEncoding = iota
	encodingUTF8BOM
	encodingUTF16LE
	encodingUTF16BE
)

var plainTextExtensions = map[string]struct{}{
	".txt":  {},
	".text": {},
	".log":  {},
	".md":   {},
	".csv":  {},
}

// Load fetches url (a local path or any location afs understands) and parses it.
func Load(ctx context.Context, fs afs.Service, url string, opts Options) (*Document, error) {
	if fs == nil {
		fs = afs.New()
	}
	data, err := fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", url, err)
	}
	return Parse(data, url, opts)
}

// Parse decodes content and builds a Document. Files with a plain text
// extension are wrapped in a <pre> so their text survives as-is.
func Parse(content []byte, name string, opts Options) (*Document, error) {
	if !IsTextContent(content) {
		return nil, ErrBinaryContent
	}
	text, err := DecodeText(content, opts.Charset)
	if err != nil {
		return nil, err
	}
	if isPlainTextName(name) {
		return NewDocument(plainTextTree(text), opts)
	}
	root, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return NewDocument(root, opts)
}

func isPlainTextName(name string) bool {
	if name == "" {
		return false
	}
	_, ok := plainTextExtensions[strings.ToLower(path.Ext(name))]
	return ok
}

func plainTextTree(text string) *html.Node {
	root := &html.Node{Type: html.DocumentNode}
	htmlEl := element(atom.Html)
	body := element(atom.Body)
	pre := element(atom.Pre)
	root.AppendChild(htmlEl)
	htmlEl.AppendChild(element(atom.Head))
	htmlEl.AppendChild(body)
	body.AppendChild(pre)
	if text != "" {
		pre.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	return root
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

// IsTextContent reports whether content looks like markup or prose rather
// than a binary blob. Only the first few kilobytes are inspected.
func IsTextContent(content []byte) bool {
	sample := content
	if len(sample) > sniffLen {
		sample = sample[:sniffLen]
	}
	if len(sample) == 0 || detectUnicodeEncoding(sample) != encodingUnknown {
		return true
	}
	if bytes.IndexByte(sample, 0x00) >= 0 {
		return false
	}

	controls, total := 0, 0
	for len(sample) > 0 {
		r, size := utf8.DecodeRune(sample)
		sample = sample[size:]
		total++
		// A rune cut off by the sample boundary is not evidence either way.
		if r == utf8.RuneError && size == 1 && len(sample) < utf8.UTFMax {
			total--
			continue
		}
		if isControlRune(r) {
			controls++
		}
	}
	if total == 0 {
		return true
	}
	return controls*100/total < maxControlPercent
}

// isControlRune flags C0 controls that never show up in documents, along
// with bytes that are not valid UTF-8.
func isControlRune(r rune) bool {
	switch r {
	case '\t', '\n', '\r', '\f', 0x1B:
		return false
	case utf8.RuneError:
		return false
	}
	return r < 0x20 || r == 0x7F
}

func detectUnicodeEncoding(sample []byte) unicodeEncoding {
	if len(sample) >= 3 && sample[0] == 0xEF && sample[1] == 0xBB && sample[2] == 0xBF {
		return encodingUTF8BOM
	}
	if len(sample) >= 2 {
		switch {
		case sample[0] == 0xFF && sample[1] == 0xFE:
			return encodingUTF16LE
		case sample[0] == 0xFE && sample[1] == 0xFF:
			return encodingUTF16BE
		}
	}
	return encodingUnknown
}

// DecodeText converts content to UTF-8. A byte order mark wins, then an
// explicit charset label, then whatever the markup declares or sniffs as.
func DecodeText(content []byte, label string) (string, error) {
	if len(content) == 0 {
		return "", nil
	}

	switch detectUnicodeEncoding(content) {
	case encodingUTF8BOM:
		return string(content[3:]), nil
	case encodingUTF16LE:
		return decodeUTF16(content, unicode.LittleEndian)
	case encodingUTF16BE:
		return decodeUTF16(content, unicode.BigEndian)
	}

	if label != "" {
		enc, err := htmlindex.Get(label)
		if err != nil {
			return "", fmt.Errorf("charset %q: %w", label, err)
		}
		out, err := enc.NewDecoder().Bytes(content)
		if err != nil {
			return "", fmt.Errorf("decode %s: %w", label, err)
		}
		return string(out), nil
	}

	if utf8.Valid(content) {
		return string(content), nil
	}
	enc, _, _ := charset.DetermineEncoding(content, "text/html")
	out, err := enc.NewDecoder().Bytes(content)
	if err != nil {
		return string(content), nil
	}
	return string(out), nil
}

func decodeUTF16(content []byte, endian unicode.Endianness) (string, error) {
	decoder := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder()
	out, err := decoder.Bytes(content)
	if err != nil {
		return "", fmt.Errorf("decode utf-16: %w", err)
	}
	return string(out), nil
}
