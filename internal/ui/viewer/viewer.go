// Package viewer draws a laid out document and the find prompt on a tcell
// screen.
package viewer

import (
	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/advfind/internal/textutil"
	"github.com/rivo/uniseg"
)

const promptLabel = "Find: "

// Prompt is what the bottom row shows.
type Prompt struct {
	Query         string
	CursorPos     int
	CaseSensitive bool
	WholeWord     bool
	UseRegex      bool
	Status        string
	Problem       bool
	// Help replaces the document with the key reference.
	Help bool
}

// Viewer owns the viewport over a Layout. It never touches the document
// tree; layouts are built elsewhere and handed over.
type Viewer struct {
	screen tcell.Screen
	theme  ColorTheme
	layout *Layout
	scroll int
}

// New creates a viewer drawing on screen.
func New(screen tcell.Screen, theme ColorTheme) *Viewer {
	return &Viewer{screen: screen, theme: theme, layout: &Layout{FocusRow: -1}}
}

// Size returns the content area, which is the screen minus the prompt row.
func (v *Viewer) Size() (int, int) {
	w, h := v.screen.Size()
	h--
	if h < 1 {
		h = 1
	}
	if w < 1 {
		w = 1
	}
	return w, h
}

// Layout returns the layout currently shown.
func (v *Viewer) Layout() *Layout { return v.layout }

// ScrollOffset returns the first visible row.
func (v *Viewer) ScrollOffset() int { return v.scroll }

// SetLayout replaces the layout. With follow set and a focused highlight in
// the new layout, the viewport is centred on it.
func (v *Viewer) SetLayout(l *Layout, follow bool) {
	if l == nil {
		l = &Layout{FocusRow: -1}
	}
	v.layout = l
	if follow && l.FocusRow >= 0 {
		v.CenterOn(l.FocusRow)
		return
	}
	v.clampScroll()
}

// CenterOn scrolls so row sits in the middle of the content area.
func (v *Viewer) CenterOn(row int) {
	_, h := v.Size()
	target := row - h/2
	if target < 0 {
		target = 0
	}
	v.scroll = target
	v.clampScroll()
}

// Scroll moves the viewport by delta rows.
func (v *Viewer) Scroll(delta int) {
	v.scroll += delta
	v.clampScroll()
}

// Page moves the viewport by dir screens, keeping one row of overlap.
func (v *Viewer) Page(dir int) {
	_, h := v.Size()
	step := h - 1
	if step < 1 {
		step = 1
	}
	v.Scroll(dir * step)
}

// Jump moves to the top (dir < 0) or the bottom (dir > 0).
func (v *Viewer) Jump(dir int) {
	if dir < 0 {
		v.scroll = 0
	} else {
		v.scroll = len(v.layout.Lines)
	}
	v.clampScroll()
}

func (v *Viewer) clampScroll() {
	_, h := v.Size()
	maxScroll := len(v.layout.Lines) - h
	if maxScroll < 0 {
		maxScroll = 0
	}
	if v.scroll > maxScroll {
		v.scroll = maxScroll
	}
	if v.scroll < 0 {
		v.scroll = 0
	}
}

// Draw paints the visible rows and the prompt, then shows the screen.
func (v *Viewer) Draw(p Prompt) {
	v.screen.Clear()
	w, h := v.Size()
	if p.Help {
		v.drawHelp(w, h)
		v.drawPrompt(p)
		v.screen.Show()
		return
	}
	base := v.theme.base()
	for row := 0; row < h; row++ {
		idx := v.scroll + row
		if idx >= len(v.layout.Lines) {
			break
		}
		x := 0
		for _, seg := range v.layout.Lines[idx] {
			x = v.drawText(x, row, w, seg.Text, v.theme.styleFor(seg.Kind))
		}
		for ; x < w; x++ {
			v.screen.SetContent(x, row, ' ', nil, base)
		}
	}
	v.drawPrompt(p)
	v.screen.Show()
}

func (v *Viewer) drawPrompt(p Prompt) {
	w, screenH := v.screen.Size()
	y := screenH - 1
	if y < 0 {
		return
	}
	style := v.theme.promptStyle()
	for x := 0; x < w; x++ {
		v.screen.SetContent(x, y, ' ', nil, style)
	}

	x := v.drawText(0, y, w, promptLabel, style.Bold(true))
	queryStart := x

	right := []struct {
		text string
		on   bool
	}{
		{"[Aa]", p.CaseSensitive},
		{"[W]", p.WholeWord},
		{"[.*]", p.UseRegex},
	}
	rightWidth := textutil.DisplayWidth(p.Status) + 1
	for _, opt := range right {
		rightWidth += len(opt.text) + 1
	}
	limit := w - rightWidth - 1
	if limit < queryStart {
		limit = queryStart
	}

	query := textutil.SanitizeTerminalText(p.Query)
	v.drawText(queryStart, y, limit, query, style)
	cursorX := queryStart + textutil.DisplayWidth(string([]rune(query)[:clampRunes(p.CursorPos, query)]))
	if cursorX >= limit {
		cursorX = limit - 1
	}
	v.screen.ShowCursor(cursorX, y)

	rx := w - rightWidth
	if rx < limit {
		return
	}
	for _, opt := range right {
		fg := v.theme.OptionOffFg
		if opt.on {
			fg = v.theme.OptionOnFg
		}
		rx = v.drawText(rx, y, w, opt.text, style.Foreground(fg).Bold(opt.on))
		rx++
	}
	statusStyle := style
	if p.Problem {
		statusStyle = style.Foreground(v.theme.ErrorFg)
	}
	v.drawText(rx, y, w, p.Status, statusStyle)
}

func clampRunes(pos int, s string) int {
	n := len([]rune(s))
	if pos < 0 {
		return 0
	}
	if pos > n {
		return n
	}
	return pos
}

// drawText writes text from x on row y, one grapheme cluster per cell group,
// stopping at maxX. It returns the column after the last drawn cluster.
func (v *Viewer) drawText(x, y, maxX int, text string, style tcell.Style) int {
	state := -1
	for len(text) > 0 && x < maxX {
		var cluster string
		cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
		width := textutil.ClusterWidth(cluster)
		if x+width > maxX {
			break
		}
		runes := []rune(cluster)
		v.screen.SetContent(x, y, runes[0], runes[1:], style)
		for i := 1; i < width; i++ {
			v.screen.SetContent(x+i, y, ' ', nil, style)
		}
		x += width
	}
	return x
}
