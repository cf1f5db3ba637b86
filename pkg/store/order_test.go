package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stefanpenner/goalie/pkg/goal"
)

func TestRenumber(t *testing.T) {
	goals := []goal.Goal{
		{ID: "a", Order: 7},
		{ID: "b", Order: 0},
		{ID: "c", Order: 3},
	}
	renumber(goals)
	for i, g := range goals {
		assert.Equal(t, i, g.Order)
	}
}

func TestRenumberEmpty(t *testing.T) {
	renumber(nil)
	renumberCompleted(nil)
}

func TestMoveIndex(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}

	tests := []struct {
		name string
		id   string
		to   int
		want []string
	}{
		{"to front", "c", 0, []string{"c", "a", "b", "d"}},
		{"to back", "a", 3, []string{"b", "c", "d", "a"}},
		{"middle", "d", 1, []string{"a", "d", "b", "c"}},
		{"same place", "b", 1, []string{"a", "b", "c", "d"}},
		{"clamped low", "b", -5, []string{"b", "a", "c", "d"}},
		{"clamped high", "b", 99, []string{"a", "c", "d", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := moveIndex(ids, tt.id, tt.to)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
			// The input must be left untouched.
			assert.Equal(t, []string{"a", "b", "c", "d"}, ids)
		})
	}
}

func TestMoveIndexUnknownID(t *testing.T) {
	_, ok := moveIndex([]string{"a", "b"}, "z", 0)
	assert.False(t, ok)
}

func TestMoveIndexSingleElement(t *testing.T) {
	got, ok := moveIndex([]string{"only"}, "only", 0)
	assert.True(t, ok)
	assert.Equal(t, []string{"only"}, got)
}
