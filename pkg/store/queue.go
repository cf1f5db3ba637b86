package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stefanpenner/goalie/pkg/goal"
	"github.com/stefanpenner/goalie/pkg/logutils"
	"github.com/stefanpenner/goalie/pkg/storage"
)

// KeyQueue is the storage key holding the offline reorder queue.
const KeyQueue = "reorder-queue"

// Queue is the persisted append-only list of reorder operations committed
// while offline. Operations keep their local commit order; a future backend
// would have to replay them in that order to preserve last-write-wins.
type Queue struct {
	storage *storage.Storage
	log     zerolog.Logger
}

// NewQueue creates a queue backed by the given storage handle.
func NewQueue(st *storage.Storage) *Queue {
	return &Queue{
		storage: st,
		log:     logutils.Component("queue"),
	}
}

// Pending returns the queued operations in commit order. A missing or
// unparsable queue document degrades to an empty queue.
func (q *Queue) Pending() []goal.ReorderOperation {
	data, err := q.storage.Read(KeyQueue)
	if errors.Is(err, storage.ErrNotExist) {
		return nil
	}
	if err != nil {
		q.log.Warn().Err(err).Msg("reading reorder queue")
		return nil
	}

	var ops []goal.ReorderOperation
	if err := json.Unmarshal(data, &ops); err != nil {
		q.log.Warn().Err(err).Msg("discarding unparsable reorder queue")
		return nil
	}
	return ops
}

// Enqueue appends op to the persisted queue.
func (q *Queue) Enqueue(op goal.ReorderOperation) error {
	ops := append(q.Pending(), op)
	data, err := json.MarshalIndent(ops, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing reorder queue: %w", err)
	}
	if err := q.storage.Write(KeyQueue, data); err != nil {
		return fmt.Errorf("saving reorder queue: %w", err)
	}
	return nil
}

// Drain returns the queued operations and clears the persisted queue. With
// no backend in scope there is nothing to reconcile against, so draining is
// the whole synchronization step; the returned operations let a future
// integration replay them instead.
func (q *Queue) Drain() []goal.ReorderOperation {
	ops := q.Pending()
	if err := q.storage.Remove(KeyQueue); err != nil {
		q.log.Warn().Err(err).Msg("clearing reorder queue")
	}
	return ops
}
