package tui

import "github.com/stefanpenner/goalie/pkg/goal"

// Board geometry shared by the view and mouse hit-testing. Cards are a
// fixed three terminal rows (title, meta, spacer) so a pointer row maps
// directly to a card index.
const (
	contentTop = 3 // header + separator + column titles
	cardLines  = 3
)

// dragState tracks an in-progress mouse drag within one column. A drag
// stays inside the column it started in; releasing over the other column
// or outside the board aborts with zero side effects.
type dragState struct {
	active bool
	list   goal.ListType
	id     string
	from   int
	insert int
}

// columnAt maps a pointer x to the column under it.
func columnAt(x, width int) (goal.ListType, bool) {
	if width <= 0 || x < 0 || x >= width {
		return "", false
	}
	if x < width/2 {
		return goal.ListActive, true
	}
	return goal.ListCompleted, true
}

// cardIndexAt maps a pointer y to the card under it in a column of n
// cards. ok is false for the header area, the spacer row below the last
// card, and anything past the column's cards.
func cardIndexAt(y, n int) (int, bool) {
	if y < contentTop || n == 0 {
		return 0, false
	}
	idx := (y - contentTop) / cardLines
	if idx >= n {
		return 0, false
	}
	return idx, true
}

// insertIndexAt maps a pointer y to the slot a dragged card would land in
// if dropped now, clamped to the column's valid range.
func insertIndexAt(y, n int) int {
	if n <= 1 {
		return 0
	}
	idx := (y - contentTop) / cardLines
	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}

// begin starts a drag for the card at index from in the given column.
func (d *dragState) begin(list goal.ListType, id string, from int) {
	d.active = true
	d.list = list
	d.id = id
	d.from = from
	d.insert = from
}

// update recomputes the insertion slot from the current pointer position.
// Leaving the column's half of the board aborts the drag.
func (d *dragState) update(x, y, width, n int) {
	if !d.active {
		return
	}
	col, ok := columnAt(x, width)
	if !ok || col != d.list {
		d.abort()
		return
	}
	d.insert = insertIndexAt(y, n)
}

// drop ends the drag and returns its landing slot. ok is false when the
// release happened outside the drag's column or the drag was already
// aborted; in that case nothing may be committed.
func (d *dragState) drop(x, y, width, n int) (insert int, ok bool) {
	if !d.active {
		return 0, false
	}
	col, colOK := columnAt(x, width)
	if !colOK || col != d.list {
		d.abort()
		return 0, false
	}
	insert = insertIndexAt(y, n)
	d.active = false
	return insert, true
}

// abort discards the drag; the pre-drag arrangement stays in place.
func (d *dragState) abort() {
	d.active = false
}
