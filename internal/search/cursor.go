package search

// Cursor tracks the active match over a list of count matches. An active
// index of -1 means nothing is selected yet.
type Cursor struct {
	active int
	count  int
}

// NewCursor returns a cursor with nothing selected.
func NewCursor(count int) Cursor {
	if count < 0 {
		count = 0
	}
	return Cursor{active: -1, count: count}
}

func (c Cursor) Active() int { return c.active }
func (c Cursor) Count() int  { return c.count }

// Step moves the cursor by dir with wrap-around in both directions. With no
// matches it leaves the cursor alone and reports false.
func (c *Cursor) Step(dir int) (int, bool) {
	if c.count == 0 {
		return c.active, false
	}
	switch {
	case dir > 0:
		dir = 1
	case dir < 0:
		dir = -1
	default:
		return c.active, c.active >= 0
	}
	c.active = ((c.active+dir)%c.count + c.count) % c.count
	return c.active, true
}

// HighlightIndex is implemented by hosts that can resolve a highlight
// identifier without walking the tree.
type HighlightIndex interface {
	LookupHighlight(id int) (Node, bool)
}

// FindHighlight locates the highlight fragment carrying id.
func FindHighlight(t Tree, id int) (Node, bool) {
	if !usable(t) {
		return nil, false
	}
	if idx, ok := t.(HighlightIndex); ok {
		return idx.LookupHighlight(id)
	}
	var found Node
	walk(t, t.Root(), func(n Node) bool {
		if found != nil {
			return false
		}
		if hid, ok := t.HighlightID(n); ok {
			if hid == id {
				found = n
			}
			return false
		}
		return true
	})
	return found, found != nil
}

// Activate demotes the highlight for prev (when prev >= 0), promotes the one
// for next and asks the host to bring it into view.
func Activate(t Tree, prev, next int) error {
	if !usable(t) {
		return ErrTreeUnavailable
	}
	if prev >= 0 && prev != next {
		if n, ok := FindHighlight(t, prev); ok {
			t.SetActive(n, false)
		}
	}
	n, ok := FindHighlight(t, next)
	if !ok {
		return ErrHighlightMissing
	}
	t.SetActive(n, true)
	t.ScrollIntoView(n)
	return nil
}
