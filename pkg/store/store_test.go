package store

import (
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/goalie/pkg/goal"
	"github.com/stefanpenner/goalie/pkg/notify"
	"github.com/stefanpenner/goalie/pkg/storage"
)

type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func setupStore(t *testing.T) (*Store, *bool) {
	t.Helper()
	st, err := storage.New(t.TempDir(), 0)
	require.NoError(t, err)

	online := true
	clock := &testClock{t: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}
	s := New(st, Options{
		Online: func() bool { return online },
		Now:    clock.now,
	})
	return s, &online
}

func addGoals(t *testing.T, s *Store, titles ...string) []goal.Goal {
	t.Helper()
	due := time.Now().AddDate(0, 0, 7)
	for _, title := range titles {
		_, err := s.Add(title, due)
		require.NoError(t, err)
	}
	return s.LoadActive()
}

func assertDense(t *testing.T, orders []int) {
	t.Helper()
	seen := make(map[int]bool)
	for _, o := range orders {
		assert.False(t, seen[o], "duplicate order %d", o)
		assert.GreaterOrEqual(t, o, 0)
		assert.Less(t, o, len(orders))
		seen[o] = true
	}
}

func activeOrders(s *Store) []int {
	goals := s.LoadActive()
	orders := make([]int, len(goals))
	for i, g := range goals {
		orders[i] = g.Order
	}
	return orders
}

func TestAddAssignsDenseOrder(t *testing.T) {
	s, _ := setupStore(t)
	goals := addGoals(t, s, "first", "second", "third")

	require.Len(t, goals, 3)
	assert.Equal(t, "first", goals[0].Title)
	assert.Equal(t, 0, goals[0].Order)
	assert.Equal(t, "second", goals[1].Title)
	assert.Equal(t, 1, goals[1].Order)
	assert.Equal(t, "third", goals[2].Title)
	assert.Equal(t, 2, goals[2].Order)
}

func TestLoadMissingCollections(t *testing.T) {
	s, _ := setupStore(t)
	assert.Empty(t, s.LoadActive())
	assert.Empty(t, s.LoadCompleted())
}

func TestLoadCorruptedCollection(t *testing.T) {
	st, err := storage.New(t.TempDir(), 0)
	require.NoError(t, err)
	require.NoError(t, st.Write(KeyActive, []byte("][ definitely not json")))

	s := New(st, Options{})
	assert.Empty(t, s.LoadActive())

	// The store keeps working after the corrupted read.
	_, err = s.Add("fresh start", time.Now().AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, s.LoadActive(), 1)
}

func TestLoadSortsDefensively(t *testing.T) {
	st, err := storage.New(t.TempDir(), 0)
	require.NoError(t, err)

	// Persist out of stored order; load must sort by Order regardless.
	scrambled := []goal.Goal{
		{ID: "b", Title: "b", Order: 1},
		{ID: "c", Title: "c", Order: 2},
		{ID: "a", Title: "a", Order: 0},
	}
	data, err := json.Marshal(scrambled)
	require.NoError(t, err)
	require.NoError(t, st.Write(KeyActive, data))

	s := New(st, Options{})
	goals := s.LoadActive()
	require.Len(t, goals, 3)
	assert.Equal(t, "a", goals[0].ID)
	assert.Equal(t, "b", goals[1].ID)
	assert.Equal(t, "c", goals[2].ID)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, _ := setupStore(t)
	goals := addGoals(t, s, "alpha", "beta")

	reloaded := s.LoadActive()
	assert.Equal(t, goals, reloaded)
}

func TestReorderFullPermutation(t *testing.T) {
	s, _ := setupStore(t)
	goals := addGoals(t, s, "A", "B", "C")
	a, b, c := goals[0].ID, goals[1].ID, goals[2].ID

	require.NoError(t, s.Reorder(goal.ListActive, []string{c, a, b}))

	got := s.LoadActive()
	require.Len(t, got, 3)
	assert.Equal(t, "C", got[0].Title)
	assert.Equal(t, 0, got[0].Order)
	assert.Equal(t, "A", got[1].Title)
	assert.Equal(t, 1, got[1].Order)
	assert.Equal(t, "B", got[2].Title)
	assert.Equal(t, 2, got[2].Order)
}

func TestReorderIdempotent(t *testing.T) {
	s, _ := setupStore(t)
	goals := addGoals(t, s, "A", "B", "C")

	ids := []string{goals[0].ID, goals[1].ID, goals[2].ID}
	require.NoError(t, s.Reorder(goal.ListActive, ids))

	got := s.LoadActive()
	for i, g := range got {
		assert.Equal(t, goals[i].ID, g.ID)
		assert.Equal(t, i, g.Order)
	}
}

func TestReorderDropsUnknownIDs(t *testing.T) {
	s, _ := setupStore(t)
	goals := addGoals(t, s, "A", "B")

	// "ghost" was deleted mid-drag; the permutation still covers A and B.
	require.NoError(t, s.Reorder(goal.ListActive, []string{goals[1].ID, "ghost", goals[0].ID}))

	got := s.LoadActive()
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Title)
	assert.Equal(t, "A", got[1].Title)
}

func TestReorderRefusesOmittedIDs(t *testing.T) {
	s, _ := setupStore(t)
	goals := addGoals(t, s, "A", "B", "C")

	err := s.Reorder(goal.ListActive, []string{goals[0].ID, goals[2].ID})
	assert.ErrorIs(t, err, ErrIncompleteOrder)

	// Refused means untouched.
	got := s.LoadActive()
	require.Len(t, got, 3)
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, "B", got[1].Title)
	assert.Equal(t, "C", got[2].Title)
}

func TestReorderEmptyAndSingle(t *testing.T) {
	s, _ := setupStore(t)

	require.NoError(t, s.Reorder(goal.ListActive, nil))

	goals := addGoals(t, s, "only")
	require.NoError(t, s.Reorder(goal.ListActive, []string{goals[0].ID}))
	got := s.LoadActive()
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].Order)
}

func TestReorderOfflineQueuesOperation(t *testing.T) {
	s, online := setupStore(t)
	goals := addGoals(t, s, "A", "B", "C")
	a, b, c := goals[0].ID, goals[1].ID, goals[2].ID

	*online = false
	require.NoError(t, s.Reorder(goal.ListActive, []string{c, a, b}))

	// Goals carry pending-sync until connectivity returns.
	for _, g := range s.LoadActive() {
		assert.Equal(t, goal.StatusPendingSync, g.SyncStatus)
	}

	ops := s.Queue().Pending()
	require.Len(t, ops, 1)
	assert.Equal(t, goal.ListActive, ops[0].ListType)
	assert.Equal(t, []string{c, a, b}, ops[0].GoalIDs)
	assert.Equal(t, goal.OpPending, ops[0].SyncStatus)
	assert.False(t, ops[0].Timestamp.IsZero())
}

func TestReorderOnlineDoesNotQueue(t *testing.T) {
	s, _ := setupStore(t)
	goals := addGoals(t, s, "A", "B")

	require.NoError(t, s.Reorder(goal.ListActive, []string{goals[1].ID, goals[0].ID}))

	assert.Empty(t, s.Queue().Pending())
	for _, g := range s.LoadActive() {
		assert.Equal(t, goal.StatusSynced, g.SyncStatus)
	}
}

func TestSyncPendingDrainsAndFlips(t *testing.T) {
	s, online := setupStore(t)
	goals := addGoals(t, s, "A", "B")

	*online = false
	require.NoError(t, s.Reorder(goal.ListActive, []string{goals[1].ID, goals[0].ID}))
	require.Len(t, s.Queue().Pending(), 1)

	*online = true
	drained := s.SyncPending()
	assert.Equal(t, 1, drained)
	assert.Empty(t, s.Queue().Pending())
	for _, g := range s.LoadActive() {
		assert.Equal(t, goal.StatusSynced, g.SyncStatus)
	}
}

func TestMoveSingle(t *testing.T) {
	s, _ := setupStore(t)
	goals := addGoals(t, s, "A", "B", "C")

	require.NoError(t, s.MoveSingle(goal.ListActive, goals[2].ID, 0))

	got := s.LoadActive()
	assert.Equal(t, "C", got[0].Title)
	assert.Equal(t, "A", got[1].Title)
	assert.Equal(t, "B", got[2].Title)
	assertDense(t, activeOrders(s))
}

func TestMoveSingleNoOpBoundaries(t *testing.T) {
	s, _ := setupStore(t)
	goals := addGoals(t, s, "A", "B", "C")

	// First element to position 0 and last element to the last position.
	require.NoError(t, s.MoveSingle(goal.ListActive, goals[0].ID, 0))
	require.NoError(t, s.MoveSingle(goal.ListActive, goals[2].ID, 2))

	got := s.LoadActive()
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, "B", got[1].Title)
	assert.Equal(t, "C", got[2].Title)
}

func TestMoveSingleUnknownID(t *testing.T) {
	s, _ := setupStore(t)
	addGoals(t, s, "A")

	err := s.MoveSingle(goal.ListActive, "nope", 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteMovesBetweenCollections(t *testing.T) {
	s, _ := setupStore(t)
	goals := addGoals(t, s, "A", "B")

	done, err := s.Complete(goals[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "A", done.Title)
	assert.False(t, done.CompletedAt.IsZero())
	assert.Equal(t, 0, done.Order)

	active := s.LoadActive()
	require.Len(t, active, 1)
	assert.Equal(t, "B", active[0].Title)
	assert.Equal(t, 0, active[0].Order)

	completed := s.LoadCompleted()
	require.Len(t, completed, 1)
	assert.Equal(t, goals[0].ID, completed[0].ID)
}

func TestCompleteUnknownID(t *testing.T) {
	s, _ := setupStore(t)
	_, err := s.Complete("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRestoreAppendsToActive(t *testing.T) {
	s, _ := setupStore(t)
	goals := addGoals(t, s, "A", "B")

	done, err := s.Complete(goals[0].ID)
	require.NoError(t, err)

	restored, err := s.Restore(done.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", restored.Title)

	active := s.LoadActive()
	require.Len(t, active, 2)
	// Restored goals land at the end, not their old slot.
	assert.Equal(t, "B", active[0].Title)
	assert.Equal(t, "A", active[1].Title)
	assert.Empty(t, s.LoadCompleted())
}

func TestDeleteRenumbersRemainder(t *testing.T) {
	s, _ := setupStore(t)
	goals := addGoals(t, s, "A", "B", "C")

	require.NoError(t, s.Delete(goal.ListActive, goals[1].ID))

	got := s.LoadActive()
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, 0, got[0].Order)
	assert.Equal(t, "C", got[1].Title)
	assert.Equal(t, 1, got[1].Order)
}

func TestDeleteFromCompleted(t *testing.T) {
	s, _ := setupStore(t)
	goals := addGoals(t, s, "A")

	done, err := s.Complete(goals[0].ID)
	require.NoError(t, err)

	require.NoError(t, s.Delete(goal.ListCompleted, done.ID))
	assert.Empty(t, s.LoadCompleted())
	assert.Empty(t, s.LoadActive())
}

func TestDeleteUnknownID(t *testing.T) {
	s, _ := setupStore(t)
	assert.ErrorIs(t, s.Delete(goal.ListActive, "nope"), ErrNotFound)
}

func TestWriteFailureIsSoft(t *testing.T) {
	// A quota small enough that any collection write fails.
	st, err := storage.New(t.TempDir(), 8)
	require.NoError(t, err)

	var notifications []notify.Notification
	bus := notify.NewBus()
	bus.Subscribe(func(n notify.Notification) { notifications = append(notifications, n) })

	s := New(st, Options{Bus: bus})

	g, err := s.Add("too big to save", time.Now().AddDate(0, 0, 1))
	assert.ErrorIs(t, err, storage.ErrQuotaExceeded)
	// The caller still gets the goal it created; only durability was lost.
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, "too big to save", g.Title)

	require.NotEmpty(t, notifications)
	assert.Equal(t, notify.LevelError, notifications[0].Level)
}

// TestInvariantsUnderRandomOps drives the store through a random operation
// sequence and checks the structural invariants after every step: dense
// zero-based orders in both collections and each ID in exactly one of them.
func TestInvariantsUnderRandomOps(t *testing.T) {
	s, online := setupStore(t)
	rng := rand.New(rand.NewSource(42))
	due := time.Now().AddDate(0, 0, 3)

	check := func() {
		active := s.LoadActive()
		completed := s.LoadCompleted()

		for i, g := range active {
			require.Equal(t, i, g.Order, "active order not dense")
		}
		for i, g := range completed {
			require.Equal(t, i, g.Order, "completed order not dense")
		}

		seen := make(map[string]int)
		for _, g := range active {
			seen[g.ID]++
		}
		for _, g := range completed {
			seen[g.ID]++
		}
		for id, n := range seen {
			require.Equal(t, 1, n, "id %s appears in more than one collection", id)
		}
	}

	for i := 0; i < 300; i++ {
		*online = rng.Intn(4) != 0 // occasionally offline
		active := s.LoadActive()
		completed := s.LoadCompleted()

		switch op := rng.Intn(5); {
		case op == 0 || len(active)+len(completed) == 0:
			_, err := s.Add("goal", due)
			require.NoError(t, err)
		case op == 1 && len(active) > 0:
			_, err := s.Complete(active[rng.Intn(len(active))].ID)
			require.NoError(t, err)
		case op == 2 && len(completed) > 0:
			_, err := s.Restore(completed[rng.Intn(len(completed))].ID)
			require.NoError(t, err)
		case op == 3 && len(active) > 0:
			require.NoError(t, s.Delete(goal.ListActive, active[rng.Intn(len(active))].ID))
		case op == 4 && len(active) > 1:
			ids := make([]string, len(active))
			for j, g := range active {
				ids[j] = g.ID
			}
			rng.Shuffle(len(ids), func(a, b int) { ids[a], ids[b] = ids[b], ids[a] })
			require.NoError(t, s.Reorder(goal.ListActive, ids))
		}

		check()
	}
}
