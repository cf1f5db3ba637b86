// Package goal defines the core data model: the two goal shapes, the
// collection names, and the queued reorder operation.
package goal

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ListType names one of the two goal collections.
type ListType string

const (
	ListActive    ListType = "active"
	ListCompleted ListType = "completed"
)

// Valid reports whether l is one of the two known collections.
func (l ListType) Valid() bool {
	return l == ListActive || l == ListCompleted
}

// SyncStatus marks whether the last write touching a goal's collection has
// been reconciled. It only diverges from synced after an offline reorder.
type SyncStatus string

const (
	StatusSynced      SyncStatus = "synced"
	StatusPendingSync SyncStatus = "pending-sync"
)

// Goal is a single tracked objective. This is the active shape: it has no
// CompletedAt, so an active goal cannot claim to be completed.
type Goal struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	EndDate    time.Time  `json:"endDate"`
	CreatedAt  time.Time  `json:"createdAt"`
	Order      int        `json:"order"`
	SyncStatus SyncStatus `json:"syncStatus"`
}

// CompletedGoal is a goal that has been checked off. CompletedAt exists only
// on this shape, so membership in the completed collection and the presence
// of a completion time can never disagree.
type CompletedGoal struct {
	Goal
	CompletedAt time.Time `json:"completedAt"`
}

// New creates an active goal with a fresh ID. The title is trimmed and the
// end date normalized to the start of its day. The caller assigns Order.
func New(title string, endDate, now time.Time) Goal {
	return Goal{
		ID:         uuid.New().String(),
		Title:      strings.TrimSpace(title),
		EndDate:    StartOfDay(endDate),
		CreatedAt:  now,
		SyncStatus: StatusSynced,
	}
}

// Complete returns the completed shape of g, stamped at the given time.
func (g Goal) Complete(at time.Time) CompletedGoal {
	return CompletedGoal{Goal: g, CompletedAt: at}
}

// Restore returns the active shape of c, dropping the completion time.
func (c CompletedGoal) Restore() Goal {
	return c.Goal
}

// OpStatus is the lifecycle state of a queued reorder operation.
type OpStatus string

const (
	OpPending OpStatus = "pending"
	OpSyncing OpStatus = "syncing"
	OpSynced  OpStatus = "synced"
)

// ReorderOperation records a reorder committed while offline, pending replay
// against an authoritative source. GoalIDs is the full new ordering of the
// collection at the time of the operation.
type ReorderOperation struct {
	Timestamp  time.Time `json:"timestamp"`
	ListType   ListType  `json:"listType"`
	GoalIDs    []string  `json:"goalIds"`
	SyncStatus OpStatus  `json:"syncStatus"`
}
