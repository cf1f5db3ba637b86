package goal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGoal(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	due := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

	g := New("  Ship the release  ", due, now)

	assert.NotEmpty(t, g.ID)
	assert.Equal(t, "Ship the release", g.Title)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), g.EndDate)
	assert.Equal(t, now, g.CreatedAt)
	assert.Equal(t, StatusSynced, g.SyncStatus)
}

func TestNewGoalUniqueIDs(t *testing.T) {
	now := time.Now()
	a := New("a", now, now)
	b := New("b", now, now)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestCompleteRestoreRoundTrip(t *testing.T) {
	now := time.Now()
	g := New("walk the dog", now, now)
	g.Order = 3

	done := g.Complete(now)
	assert.Equal(t, g.ID, done.ID)
	assert.Equal(t, now, done.CompletedAt)

	back := done.Restore()
	assert.Equal(t, g, back)
}

func TestCompletedGoalJSONIsFlat(t *testing.T) {
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	g := New("flat", now, now)
	done := g.Complete(now)

	data, err := json.Marshal(done)
	require.NoError(t, err)

	// The embedded Goal must flatten into one object: a reader of the
	// persisted document sees a single goal record, not a nested one.
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "id")
	assert.Contains(t, raw, "title")
	assert.Contains(t, raw, "completedAt")
	assert.NotContains(t, raw, "Goal")
}

func TestListTypeValid(t *testing.T) {
	assert.True(t, ListActive.Valid())
	assert.True(t, ListCompleted.Valid())
	assert.False(t, ListType("archived").Valid())
	assert.False(t, ListType("").Valid())
}
