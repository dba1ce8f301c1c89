package state

// Action is the base interface for all state mutations
type Action interface{}

// ===== QUERY ACTIONS =====

type QueryCharAction struct {
	Char rune
}
type QueryBackspaceAction struct{}
type QueryDeleteAction struct{}
type QueryDeleteWordAction struct{}
type QueryMoveCursorAction struct {
	Direction string // "left", "right", "word-left", "word-right", "home", "end"
}

// QueryClearAction empties the query; on an already empty query it quits.
type QueryClearAction struct{}

// ===== OPTION ACTIONS =====

type ToggleCaseSensitiveAction struct{}
type ToggleWholeWordAction struct{}
type ToggleRegexAction struct{}

// ===== MATCH NAVIGATION =====

type NextMatchAction struct{}
type PrevMatchAction struct{}

// ===== SCROLL ACTIONS =====

type ScrollUpAction struct{}
type ScrollDownAction struct{}
type ScrollPageUpAction struct{}
type ScrollPageDownAction struct{}
type ScrollTopAction struct{}
type ScrollBottomAction struct{}

// ===== VIEW ACTIONS =====

type ResizeAction struct {
	Width  int
	Height int
}

// ToggleHelpAction shows or hides the key reference.
type ToggleHelpAction struct{}

type SuspendAction struct{}
type QuitAction struct{}
