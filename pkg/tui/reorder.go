package tui

import (
	"fmt"

	"github.com/stefanpenner/goalie/pkg/goal"
)

// Surface is the keyboard reorder state machine for one goal column. It is
// either idle or holding a pending move for the focused goal; a pending
// move previews at its candidate slot and only becomes a reorder when
// committed. Exactly one Surface exists per collection, and the two are
// never cross-wired: a goal cannot move between columns by reordering.
type Surface struct {
	list   goal.ListType
	ids    []string
	titles []string

	focus     int
	pending   bool
	candidate int
	disabled  bool

	announce func(string)
}

// NewSurface creates an idle surface for one collection. announce receives
// a line of text at each protocol transition; pass nil to stay silent.
func NewSurface(list goal.ListType, announce func(string)) *Surface {
	if announce == nil {
		announce = func(string) {}
	}
	return &Surface{list: list, announce: announce}
}

// List returns the collection this surface reorders.
func (s *Surface) List() goal.ListType {
	return s.list
}

// SetRows replaces the surface's rows, keeping focus on the same goal when
// it is still present. Any pending move is dropped: the rows changed under
// it, so its candidate index no longer means anything.
func (s *Surface) SetRows(ids, titles []string) {
	var focusedID string
	if s.focus >= 0 && s.focus < len(s.ids) {
		focusedID = s.ids[s.focus]
	}

	s.ids = ids
	s.titles = titles
	s.pending = false

	s.focus = 0
	for i, id := range ids {
		if id == focusedID {
			s.focus = i
			break
		}
	}
	if s.focus >= len(ids) {
		s.focus = max(0, len(ids)-1)
	}
}

// Len returns the number of rows.
func (s *Surface) Len() int {
	return len(s.ids)
}

// Focus returns the focused row index.
func (s *Surface) Focus() int {
	return s.focus
}

// FocusedID returns the focused goal's ID, or "" for an empty column.
func (s *Surface) FocusedID() string {
	if s.focus < 0 || s.focus >= len(s.ids) {
		return ""
	}
	return s.ids[s.focus]
}

// Pending reports whether a move is pending commit.
func (s *Surface) Pending() bool {
	return s.pending
}

// CandidateIndex returns the pending move's target slot. Only meaningful
// while Pending.
func (s *Surface) CandidateIndex() int {
	return s.candidate
}

// Disabled reports whether the surface is ignoring input.
func (s *Surface) Disabled() bool {
	return s.disabled
}

// SetDisabled marks the surface disabled, e.g. while a reorder commit is
// mid-flight to storage. All input on a disabled surface is ignored.
func (s *Surface) SetDisabled(v bool) {
	s.disabled = v
}

// MoveFocus shifts focus by delta and announces the newly focused goal's
// title and 1-based position. A pending move stays pending: focus movement
// neither commits nor cancels it.
func (s *Surface) MoveFocus(delta int) {
	if s.disabled || len(s.ids) == 0 {
		return
	}
	next := s.focus + delta
	if next < 0 || next >= len(s.ids) {
		return
	}
	s.focus = next
	s.announce(fmt.Sprintf("%s, position %d of %d", s.titles[s.focus], s.focus+1, len(s.ids)))
}

// SetFocus moves focus directly to index, clamped to the valid range.
func (s *Surface) SetFocus(index int) {
	if s.disabled || len(s.ids) == 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(s.ids)-1 {
		index = len(s.ids) - 1
	}
	s.focus = index
}

// StartOrAdjustMove shifts the candidate slot by delta. From idle it begins
// a pending move for the focused goal, unless that goal is already at the
// boundary in the requested direction. While pending, each press recomputes
// from the current previewed position rather than accumulating offsets, so
// two separate presses of the same key land exactly two slots away.
func (s *Surface) StartOrAdjustMove(delta int) {
	if s.disabled || len(s.ids) < 2 {
		return
	}

	if !s.pending {
		next := s.focus + delta
		if next < 0 || next >= len(s.ids) {
			return // already first/last in that direction
		}
		s.pending = true
		s.candidate = next
	} else {
		next := s.candidate + delta
		if next < 0 {
			next = 0
		}
		if next > len(s.ids)-1 {
			next = len(s.ids) - 1
		}
		s.candidate = next
	}

	s.announce(fmt.Sprintf("move %s to position %d of %d, enter to confirm",
		s.titles[s.focus], s.candidate+1, len(s.ids)))
}

// Commit resolves a pending move into the full new ID order: the focused
// goal removed from its original index and reinserted at the candidate
// slot. ok is false when there is nothing to commit. Focus follows the
// moved goal.
func (s *Surface) Commit() (ids []string, ok bool) {
	if s.disabled || !s.pending {
		return nil, false
	}

	id := s.ids[s.focus]
	title := s.titles[s.focus]
	out := make([]string, 0, len(s.ids))
	out = append(out, s.ids[:s.focus]...)
	out = append(out, s.ids[s.focus+1:]...)
	out = append(out[:s.candidate], append([]string{id}, out[s.candidate:]...)...)

	titles := make([]string, 0, len(s.titles))
	titles = append(titles, s.titles[:s.focus]...)
	titles = append(titles, s.titles[s.focus+1:]...)
	titles = append(titles[:s.candidate], append([]string{title}, titles[s.candidate:]...)...)

	// The surface adopts the committed order immediately so focus and ids
	// never disagree while the write is in flight.
	s.ids = append([]string(nil), out...)
	s.titles = titles
	s.pending = false
	s.focus = s.candidate

	s.announce(fmt.Sprintf("moved %s to position %d of %d",
		title, s.candidate+1, len(out)))
	return out, true
}

// CancelMove discards a pending move with zero side effects.
func (s *Surface) CancelMove() {
	if s.disabled || !s.pending {
		return
	}
	s.pending = false
	s.announce("move cancelled")
}

// DisplayOrder returns the IDs in on-screen order: the stored order, with a
// pending move previewed at its candidate slot.
func (s *Surface) DisplayOrder() []string {
	if !s.pending {
		out := make([]string, len(s.ids))
		copy(out, s.ids)
		return out
	}

	id := s.ids[s.focus]
	out := make([]string, 0, len(s.ids))
	out = append(out, s.ids[:s.focus]...)
	out = append(out, s.ids[s.focus+1:]...)
	out = append(out[:s.candidate], append([]string{id}, out[s.candidate:]...)...)
	return out
}
