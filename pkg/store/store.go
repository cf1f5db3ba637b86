// Package store implements the goal store: persistence of the two ordered
// goal collections, the dense-order renumbering policy, and the offline
// reorder queue. Nothing in here is fatal to the application; reads degrade
// to empty collections and failed writes are reported while the in-memory
// state the caller already holds stays authoritative for the session.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/stefanpenner/goalie/pkg/goal"
	"github.com/stefanpenner/goalie/pkg/logutils"
	"github.com/stefanpenner/goalie/pkg/notify"
	"github.com/stefanpenner/goalie/pkg/storage"
)

// Storage keys for the two collections.
const (
	KeyActive    = "active-goals"
	KeyCompleted = "completed-goals"
)

var (
	// ErrNotFound reports an operation referencing a goal that is not in
	// the named collection.
	ErrNotFound = errors.New("store: goal not found")
	// ErrIncompleteOrder reports a reorder whose ID sequence omits goals
	// that are still in the collection. Omission is refused, never treated
	// as a silent delete.
	ErrIncompleteOrder = errors.New("store: new order is missing goals")
)

// Options configures a Store.
type Options struct {
	// Online reports current connectivity. Defaults to always-online.
	Online func() bool
	// Now supplies timestamps. Defaults to time.Now.
	Now func() time.Time
	// Bus receives write-failure and sync notifications. Optional.
	Bus *notify.Bus
}

// Store persists the active and completed goal collections and owns the
// offline reorder queue.
type Store struct {
	storage *storage.Storage
	queue   *Queue
	online  func() bool
	now     func() time.Time
	bus     *notify.Bus
	log     zerolog.Logger
}

// New creates a Store over the given storage handle.
func New(st *storage.Storage, opts Options) *Store {
	if opts.Online == nil {
		opts.Online = func() bool { return true }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		storage: st,
		queue:   NewQueue(st),
		online:  opts.Online,
		now:     opts.Now,
		bus:     opts.Bus,
		log:     logutils.Component("store"),
	}
}

// Queue returns the store's offline reorder queue.
func (s *Store) Queue() *Queue {
	return s.queue
}

// LoadActive returns the active collection sorted by Order. A missing or
// unparsable document degrades to an empty collection; one corrupted record
// must not lock the whole app out.
func (s *Store) LoadActive() []goal.Goal {
	goals := loadJSON[goal.Goal](s, KeyActive)
	sort.SliceStable(goals, func(i, j int) bool { return goals[i].Order < goals[j].Order })
	return goals
}

// LoadCompleted returns the completed collection sorted by Order, with the
// same degradation rules as LoadActive.
func (s *Store) LoadCompleted() []goal.CompletedGoal {
	goals := loadJSON[goal.CompletedGoal](s, KeyCompleted)
	sort.SliceStable(goals, func(i, j int) bool { return goals[i].Order < goals[j].Order })
	return goals
}

// SaveActive persists the active collection verbatim. Callers are
// responsible for order density. A write failure is logged and published,
// and the returned error is informational: in-memory state is never rolled
// back, the save attempt is simply dropped.
func (s *Store) SaveActive(goals []goal.Goal) error {
	return s.persist(KeyActive, goals, "active")
}

// SaveCompleted persists the completed collection verbatim.
func (s *Store) SaveCompleted(goals []goal.CompletedGoal) error {
	return s.persist(KeyCompleted, goals, "completed")
}

// Add creates a goal at the end of the active collection and persists it.
// Input validation happens at the edge (form or CLI); Add trusts its input
// beyond trimming done by goal.New.
func (s *Store) Add(title string, endDate time.Time) (goal.Goal, error) {
	active := s.LoadActive()

	g := goal.New(title, endDate, s.now())
	active = append(active, g)
	renumber(active)

	err := s.SaveActive(active)
	return active[len(active)-1], err
}

// Complete moves the goal with the given ID from the active collection to
// the end of the completed collection, stamping CompletedAt. Both source
// and destination are renumbered.
func (s *Store) Complete(id string) (goal.CompletedGoal, error) {
	active := s.LoadActive()
	idx := indexByID(active, id)
	if idx < 0 {
		return goal.CompletedGoal{}, fmt.Errorf("%w: %s in active", ErrNotFound, id)
	}

	g := active[idx]
	active = append(active[:idx], active[idx+1:]...)
	renumber(active)

	completed := s.LoadCompleted()
	completed = append(completed, g.Complete(s.now()))
	renumberCompleted(completed)

	errA := s.SaveActive(active)
	errC := s.SaveCompleted(completed)
	return completed[len(completed)-1], errors.Join(errA, errC)
}

// Restore moves the goal with the given ID from the completed collection
// back to the end of the active collection, dropping CompletedAt.
func (s *Store) Restore(id string) (goal.Goal, error) {
	completed := s.LoadCompleted()
	idx := indexByIDCompleted(completed, id)
	if idx < 0 {
		return goal.Goal{}, fmt.Errorf("%w: %s in completed", ErrNotFound, id)
	}

	g := completed[idx].Restore()
	completed = append(completed[:idx], completed[idx+1:]...)
	renumberCompleted(completed)

	active := s.LoadActive()
	active = append(active, g)
	renumber(active)

	errC := s.SaveCompleted(completed)
	errA := s.SaveActive(active)
	return active[len(active)-1], errors.Join(errC, errA)
}

// Delete permanently removes the goal with the given ID from the named
// collection and renumbers the remainder. There is no undo.
func (s *Store) Delete(list goal.ListType, id string) error {
	switch list {
	case goal.ListActive:
		active := s.LoadActive()
		idx := indexByID(active, id)
		if idx < 0 {
			return fmt.Errorf("%w: %s in %s", ErrNotFound, id, list)
		}
		active = append(active[:idx], active[idx+1:]...)
		renumber(active)
		return s.SaveActive(active)

	case goal.ListCompleted:
		completed := s.LoadCompleted()
		idx := indexByIDCompleted(completed, id)
		if idx < 0 {
			return fmt.Errorf("%w: %s in %s", ErrNotFound, id, list)
		}
		completed = append(completed[:idx], completed[idx+1:]...)
		renumberCompleted(completed)
		return s.SaveCompleted(completed)

	default:
		return fmt.Errorf("store: unknown collection %q", list)
	}
}

// Reorder applies a full permutation of the collection's IDs. IDs that are
// no longer in the collection are dropped silently (the goal may have been
// deleted mid-drag), but an order omitting goals that are still present is
// refused with ErrIncompleteOrder. Each goal gets Order = index and a
// SyncStatus matching current connectivity; when offline, the operation is
// also appended to the reorder queue for later replay.
func (s *Store) Reorder(list goal.ListType, ids []string) error {
	online := s.online()
	status := goal.StatusSynced
	if !online {
		status = goal.StatusPendingSync
	}

	var saveErr error
	switch list {
	case goal.ListActive:
		current := s.LoadActive()
		byID := make(map[string]goal.Goal, len(current))
		for _, g := range current {
			byID[g.ID] = g
		}
		reordered := make([]goal.Goal, 0, len(current))
		for _, id := range ids {
			if g, ok := byID[id]; ok {
				reordered = append(reordered, g)
				delete(byID, id)
			}
		}
		if len(byID) > 0 {
			return fmt.Errorf("%w: %d of %d %s goal(s) omitted", ErrIncompleteOrder, len(byID), len(current), list)
		}
		for i := range reordered {
			reordered[i].Order = i
			reordered[i].SyncStatus = status
		}
		saveErr = s.SaveActive(reordered)

	case goal.ListCompleted:
		current := s.LoadCompleted()
		byID := make(map[string]goal.CompletedGoal, len(current))
		for _, g := range current {
			byID[g.ID] = g
		}
		reordered := make([]goal.CompletedGoal, 0, len(current))
		for _, id := range ids {
			if g, ok := byID[id]; ok {
				reordered = append(reordered, g)
				delete(byID, id)
			}
		}
		if len(byID) > 0 {
			return fmt.Errorf("%w: %d of %d %s goal(s) omitted", ErrIncompleteOrder, len(byID), len(current), list)
		}
		for i := range reordered {
			reordered[i].Order = i
			reordered[i].SyncStatus = status
		}
		saveErr = s.SaveCompleted(reordered)

	default:
		return fmt.Errorf("store: unknown collection %q", list)
	}

	if !online {
		op := goal.ReorderOperation{
			Timestamp:  s.now(),
			ListType:   list,
			GoalIDs:    ids,
			SyncStatus: goal.OpPending,
		}
		if err := s.queue.Enqueue(op); err != nil {
			s.log.Warn().Err(err).Str("list", string(list)).Msg("could not queue offline reorder")
		}
	}

	return saveErr
}

// MoveSingle moves one goal to a new position within its collection and
// delegates to Reorder. The position is clamped to the valid index range.
func (s *Store) MoveSingle(list goal.ListType, id string, to int) error {
	ids, err := s.idsOf(list)
	if err != nil {
		return err
	}

	moved, ok := moveIndex(ids, id, to)
	if !ok {
		return fmt.Errorf("%w: %s in %s", ErrNotFound, id, list)
	}
	return s.Reorder(list, moved)
}

// SyncPending runs when connectivity returns: it drains the offline queue
// and flips any pending-sync goals back to synced. Draining is the whole
// reconciliation step in this system; the hook point stays so a real
// backend could be attached without changing the Reorder contract.
func (s *Store) SyncPending() int {
	ops := s.queue.Drain()

	active := s.LoadActive()
	if flipPending(active) {
		_ = s.SaveActive(active)
	}
	completed := s.LoadCompleted()
	if flipPendingCompleted(completed) {
		_ = s.SaveCompleted(completed)
	}

	if len(ops) > 0 {
		s.log.Info().Int("operations", len(ops)).Msg("drained offline reorder queue")
		s.notify(notify.LevelInfo, fmt.Sprintf("synced %d queued reorder(s)", len(ops)))
	}
	return len(ops)
}

func (s *Store) idsOf(list goal.ListType) ([]string, error) {
	switch list {
	case goal.ListActive:
		active := s.LoadActive()
		ids := make([]string, len(active))
		for i, g := range active {
			ids[i] = g.ID
		}
		return ids, nil
	case goal.ListCompleted:
		completed := s.LoadCompleted()
		ids := make([]string, len(completed))
		for i, g := range completed {
			ids[i] = g.ID
		}
		return ids, nil
	default:
		return nil, fmt.Errorf("store: unknown collection %q", list)
	}
}

func (s *Store) persist(key string, v any, what string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing %s goals: %w", what, err)
	}
	if err := s.storage.Write(key, data); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("write failed; keeping in-memory state")
		s.notify(notify.LevelError, fmt.Sprintf("could not save %s goals: %v", what, err))
		return fmt.Errorf("saving %s goals: %w", what, err)
	}
	return nil
}

func (s *Store) notify(level notify.Level, msg string) {
	if s.bus != nil {
		s.bus.Publish(level, msg)
	}
}

// loadJSON reads and decodes a collection document. A missing document is
// an empty collection; an unparsable one is logged and discarded.
func loadJSON[T any](s *Store, key string) []T {
	data, err := s.storage.Read(key)
	if errors.Is(err, storage.ErrNotExist) {
		return nil
	}
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("reading collection")
		return nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("discarding unparsable collection")
		return nil
	}
	return items
}

func indexByID(goals []goal.Goal, id string) int {
	for i, g := range goals {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func indexByIDCompleted(goals []goal.CompletedGoal, id string) int {
	for i, g := range goals {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func flipPending(goals []goal.Goal) bool {
	changed := false
	for i := range goals {
		if goals[i].SyncStatus == goal.StatusPendingSync {
			goals[i].SyncStatus = goal.StatusSynced
			changed = true
		}
	}
	return changed
}

func flipPendingCompleted(goals []goal.CompletedGoal) bool {
	changed := false
	for i := range goals {
		if goals[i].SyncStatus == goal.StatusPendingSync {
			goals[i].SyncStatus = goal.StatusSynced
			changed = true
		}
	}
	return changed
}
