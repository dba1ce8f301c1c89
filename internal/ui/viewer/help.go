package viewer

import (
	"fmt"
	"strings"

	"github.com/kk-code-lab/advfind/internal/textutil"
)

type helpEntry struct {
	keys string
	desc string
}

type helpSection struct {
	title   string
	entries []helpEntry
}

var helpSections = []helpSection{
	{
		title: "Matches",
		entries: []helpEntry{
			{keys: "↵ / F3 / ^N", desc: "Next match"},
			{keys: "⇧↵ / ⇧F3 / ^P", desc: "Previous match"},
		},
	},
	{
		title: "Options",
		entries: []helpEntry{
			{keys: "F5 / Alt+C", desc: "Match case"},
			{keys: "F6 / Alt+W", desc: "Whole word"},
			{keys: "F7 / Alt+R", desc: "Regular expression"},
		},
	},
	{
		title: "Scrolling",
		entries: []helpEntry{
			{keys: "↑/↓ PgUp/PgDn", desc: "Scroll document"},
			{keys: "^Home / ^End", desc: "Top / bottom"},
		},
	},
	{
		title: "Exit",
		entries: []helpEntry{
			{keys: "Esc", desc: "Clear query, quit when empty"},
			{keys: "Ctrl+C", desc: "Quit immediately"},
			{keys: "F1", desc: "Close this help"},
		},
	},
}

func helpLines() []string {
	lines := make([]string, 0, 24)
	for i, section := range helpSections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.title)
		for _, entry := range section.entries {
			lines = append(lines, fmt.Sprintf("  %s %s", padRight(entry.keys, 16), entry.desc))
		}
	}
	return lines
}

// padRight pads by display width; fmt's %-Ns counts runes.
func padRight(s string, width int) string {
	if w := textutil.DisplayWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func (v *Viewer) drawHelp(w, h int) {
	base := v.theme.base()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v.screen.SetContent(x, y, ' ', nil, base)
		}
	}

	title := " Help "
	header := v.theme.promptStyle().Bold(true)
	start := 0
	if tw := textutil.DisplayWidth(title); w > tw {
		start = (w - tw) / 2
	}
	v.drawText(start, 0, w, title, header)

	row := 2
	for _, line := range helpLines() {
		if row >= h {
			break
		}
		style := base
		if line != "" && line[0] != ' ' {
			style = base.Foreground(v.theme.HeadingFg).Bold(true)
		}
		v.drawText(2, row, w, strings.TrimRight(line, " "), style)
		row++
	}
}
