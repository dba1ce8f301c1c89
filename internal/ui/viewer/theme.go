package viewer

import "github.com/gdamore/tcell/v2"

// ColorTheme defines viewer colors.
type ColorTheme struct {
	Background  tcell.Color
	Foreground  tcell.Color
	HeadingFg   tcell.Color
	LinkFg      tcell.Color
	CodeBlockBg tcell.Color
	CodeBlockFg tcell.Color
	MatchBg     tcell.Color
	MatchFg     tcell.Color
	ActiveBg    tcell.Color
	ActiveFg    tcell.Color
	PromptBg    tcell.Color
	PromptFg    tcell.Color
	OptionOnFg  tcell.Color
	OptionOffFg tcell.Color
	ErrorFg     tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:  tcell.ColorDefault,
		Foreground:  tcell.ColorDefault,
		HeadingFg:   tcell.Color33,
		LinkFg:      tcell.Color44,
		CodeBlockBg: tcell.Color234,
		CodeBlockFg: tcell.Color252,
		MatchBg:     tcell.Color226,
		MatchFg:     tcell.ColorBlack,
		ActiveBg:    tcell.Color208,
		ActiveFg:    tcell.ColorBlack,
		PromptBg:    tcell.Color236,
		PromptFg:    tcell.ColorWhite,
		OptionOnFg:  tcell.Color33,
		OptionOffFg: tcell.ColorLightSlateGray,
		ErrorFg:     tcell.ColorRed,
	}
}

func (t ColorTheme) base() tcell.Style {
	return tcell.StyleDefault.Background(t.Background).Foreground(t.Foreground)
}

// styleFor maps a segment kind to its cell style.
func (t ColorTheme) styleFor(kind Kind) tcell.Style {
	switch kind {
	case KindHeading:
		return t.base().Foreground(t.HeadingFg).Bold(true)
	case KindLink:
		return t.base().Foreground(t.LinkFg).Underline(true)
	case KindPre:
		return t.base().Background(t.CodeBlockBg).Foreground(t.CodeBlockFg)
	case KindMatch:
		return t.base().Background(t.MatchBg).Foreground(t.MatchFg)
	case KindActive:
		return t.base().Background(t.ActiveBg).Foreground(t.ActiveFg).Bold(true)
	default:
		return t.base()
	}
}

func (t ColorTheme) promptStyle() tcell.Style {
	return tcell.StyleDefault.Background(t.PromptBg).Foreground(t.PromptFg)
}
