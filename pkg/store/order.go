package store

import (
	"github.com/stefanpenner/goalie/pkg/goal"
)

// Renumbering policy: after any structural change to a collection the full
// dense sequence {0..n-1} is recomputed in one pass. There is no partial
// renumbering, so a collection can never be observed with gaps or duplicate
// order values.

// renumber assigns Order = index to every goal in the sequence.
func renumber(goals []goal.Goal) {
	for i := range goals {
		goals[i].Order = i
	}
}

// renumberCompleted assigns Order = index to every completed goal.
func renumberCompleted(goals []goal.CompletedGoal) {
	for i := range goals {
		goals[i].Order = i
	}
}

// moveIndex returns ids with the named element moved to position to,
// clamped to the valid index range. ok is false when id is absent.
func moveIndex(ids []string, id string, to int) ([]string, bool) {
	from := -1
	for i, v := range ids {
		if v == id {
			from = i
			break
		}
	}
	if from == -1 {
		return nil, false
	}

	if to < 0 {
		to = 0
	}
	if to > len(ids)-1 {
		to = len(ids) - 1
	}

	out := make([]string, 0, len(ids))
	out = append(out, ids[:from]...)
	out = append(out, ids[from+1:]...)
	out = append(out[:to], append([]string{id}, out[to:]...)...)
	return out, true
}
