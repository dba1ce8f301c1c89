package state

import "unicode"

// Effect tells the application loop what has to happen outside the state
// after an action was reduced.
type Effect struct {
	// Search asks for the current configuration to be searched. Debounce is
	// set for query edits, cleared for option toggles.
	Search   bool
	Debounce bool
	// Navigate is +1 or -1 to move the active match.
	Navigate int
	// Scroll moves the viewport by lines; Page by screens.
	Scroll int
	Page   int
	// Jump is -1 for the top of the document and +1 for the bottom.
	Jump    int
	Resize  bool
	Suspend bool
	Quit    bool
}

// StateReducer applies actions to AppState.
type StateReducer struct{}

// NewStateReducer creates a new reducer
func NewStateReducer() *StateReducer {
	return &StateReducer{}
}

// Reduce mutates state for action and reports the side effects the caller
// has to carry out.
func (r *StateReducer) Reduce(state *AppState, action Action) Effect {
	switch a := action.(type) {

	// ===== QUERY =====

	case QueryCharAction:
		runes := []rune(state.Query)
		cursor := clampCursor(state.CursorPos, len(runes))
		buffer := make([]rune, 0, len(runes)+1)
		buffer = append(buffer, runes[:cursor]...)
		buffer = append(buffer, a.Char)
		buffer = append(buffer, runes[cursor:]...)
		state.setQuery(string(buffer), cursor+1)
		return r.queryChanged(state)

	case QueryBackspaceAction:
		runes := []rune(state.Query)
		cursor := clampCursor(state.CursorPos, len(runes))
		if cursor == 0 {
			return Effect{}
		}
		buffer := append([]rune{}, runes[:cursor-1]...)
		buffer = append(buffer, runes[cursor:]...)
		state.setQuery(string(buffer), cursor-1)
		return r.queryChanged(state)

	case QueryDeleteAction:
		runes := []rune(state.Query)
		cursor := clampCursor(state.CursorPos, len(runes))
		if cursor >= len(runes) {
			return Effect{}
		}
		buffer := append([]rune{}, runes[:cursor]...)
		buffer = append(buffer, runes[cursor+1:]...)
		state.setQuery(string(buffer), cursor)
		return r.queryChanged(state)

	case QueryDeleteWordAction:
		runes := []rune(state.Query)
		cursor := clampCursor(state.CursorPos, len(runes))
		if cursor == 0 {
			return Effect{}
		}
		start := previousWordBoundary(runes, cursor)
		buffer := append([]rune{}, runes[:start]...)
		buffer = append(buffer, runes[cursor:]...)
		state.setQuery(string(buffer), start)
		return r.queryChanged(state)

	case QueryMoveCursorAction:
		runes := []rune(state.Query)
		switch a.Direction {
		case "left":
			state.CursorPos = clampCursor(state.CursorPos-1, len(runes))
		case "right":
			state.CursorPos = clampCursor(state.CursorPos+1, len(runes))
		case "word-left":
			state.CursorPos = previousWordBoundary(runes, state.CursorPos)
		case "word-right":
			state.CursorPos = nextWordBoundary(runes, state.CursorPos)
		case "home":
			state.CursorPos = 0
		case "end":
			state.CursorPos = len(runes)
		}
		return Effect{}

	case QueryClearAction:
		if state.ShowHelp {
			state.ShowHelp = false
			return Effect{}
		}
		if state.Query == "" {
			return Effect{Quit: true}
		}
		state.setQuery("", 0)
		state.Searching = true
		// Clearing is applied at once so highlights vanish without delay.
		return Effect{Search: true}

	// ===== OPTIONS =====

	case ToggleCaseSensitiveAction:
		state.CaseSensitive = !state.CaseSensitive
		return r.optionsChanged(state)

	case ToggleWholeWordAction:
		state.WholeWord = !state.WholeWord
		return r.optionsChanged(state)

	case ToggleRegexAction:
		state.UseRegex = !state.UseRegex
		return r.optionsChanged(state)

	// ===== MATCH NAVIGATION =====

	case NextMatchAction:
		if state.Status.Total == 0 {
			return Effect{}
		}
		return Effect{Navigate: 1}

	case PrevMatchAction:
		if state.Status.Total == 0 {
			return Effect{}
		}
		return Effect{Navigate: -1}

	// ===== SCROLL =====

	case ScrollUpAction:
		return Effect{Scroll: -1}
	case ScrollDownAction:
		return Effect{Scroll: 1}
	case ScrollPageUpAction:
		return Effect{Page: -1}
	case ScrollPageDownAction:
		return Effect{Page: 1}
	case ScrollTopAction:
		return Effect{Jump: -1}
	case ScrollBottomAction:
		return Effect{Jump: 1}

	// ===== VIEW =====

	case ResizeAction:
		state.ScreenWidth = a.Width
		state.ScreenHeight = a.Height
		return Effect{Resize: true}

	case ToggleHelpAction:
		state.ShowHelp = !state.ShowHelp
		return Effect{}

	case SuspendAction:
		return Effect{Suspend: true}

	case QuitAction:
		return Effect{Quit: true}
	}

	return Effect{}
}

func (r *StateReducer) queryChanged(state *AppState) Effect {
	state.Searching = true
	return Effect{Search: true, Debounce: true}
}

func (r *StateReducer) optionsChanged(state *AppState) Effect {
	if state.Query == "" {
		return Effect{}
	}
	state.Searching = true
	return Effect{Search: true}
}

func clampCursor(pos, n int) int {
	if pos < 0 {
		return 0
	}
	if pos > n {
		return n
	}
	return pos
}

func isSearchWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func previousWordBoundary(runes []rune, pos int) int {
	if pos <= 0 {
		return 0
	}
	if pos > len(runes) {
		pos = len(runes)
	}

	i := pos - 1
	for i >= 0 && !isSearchWordChar(runes[i]) {
		i--
	}
	for i >= 0 && isSearchWordChar(runes[i]) {
		i--
	}
	return i + 1
}

func nextWordBoundary(runes []rune, pos int) int {
	if pos >= len(runes) {
		return len(runes)
	}
	if pos < 0 {
		pos = 0
	}

	i := pos
	for i < len(runes) && !isSearchWordChar(runes[i]) {
		i++
	}
	for i < len(runes) && isSearchWordChar(runes[i]) {
		i++
	}
	return i
}
