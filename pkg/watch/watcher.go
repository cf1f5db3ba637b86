// Package watch observes the data directory for collection writes made by
// other processes sharing it. It is the same-origin "storage event" of the
// browser original: it fires for the two collection documents only, and
// never for writes made through this process's own storage handle.
package watch

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/stefanpenner/goalie/pkg/goal"
	"github.com/stefanpenner/goalie/pkg/logutils"
	"github.com/stefanpenner/goalie/pkg/notify"
	"github.com/stefanpenner/goalie/pkg/storage"
	"github.com/stefanpenner/goalie/pkg/store"
)

const debounceDelay = 200 * time.Millisecond

// Event reports that a collection changed in another process. Exactly one
// of Active or Completed is populated, matching ListType.
type Event struct {
	ListType  goal.ListType
	Active    []goal.Goal
	Completed []goal.CompletedGoal
	Timestamp time.Time
}

// Watcher reports external changes to the two collection documents. It is
// an explicit object with a Start/Stop lifecycle; the owner constructs one,
// injects it where needed, and stops it on shutdown.
type Watcher struct {
	storage  *storage.Storage
	onChange func(Event)
	bus      *notify.Bus
	log      zerolog.Logger

	fsw  *fsnotify.Watcher
	done chan struct{}

	mu       sync.Mutex
	debounce map[goal.ListType]*time.Timer
}

// New creates a watcher over the given storage handle's directory. onChange
// receives the refreshed collection; the bus separately gets an
// informational notification so toasts can react independently.
func New(st *storage.Storage, onChange func(Event), bus *notify.Bus) *Watcher {
	return &Watcher{
		storage:  st,
		onChange: onChange,
		bus:      bus,
		log:      logutils.Component("watch"),
		debounce: make(map[goal.ListType]*time.Timer),
	}
}

// Start begins watching. It is an error to start a watcher twice without
// stopping it in between.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	if err := fsw.Add(w.storage.Dir()); err != nil {
		fsw.Close()
		return fmt.Errorf("watching %s: %w", w.storage.Dir(), err)
	}

	w.fsw = fsw
	w.done = make(chan struct{})
	// run works against its own copies; Stop may clear the fields while
	// the goroutine is still draining.
	go w.run(fsw, w.done)
	return nil
}

// Stop ends watching and cancels any pending debounce timers. Safe to call
// on a watcher that was never started.
func (w *Watcher) Stop() {
	if w.fsw == nil {
		return
	}
	close(w.done)
	w.fsw.Close()
	w.fsw = nil

	w.mu.Lock()
	for _, timer := range w.debounce {
		timer.Stop()
	}
	w.debounce = make(map[goal.ListType]*time.Timer)
	w.mu.Unlock()
}

func (w *Watcher) run(fsw *fsnotify.Watcher, done chan struct{}) {
	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case _, ok := <-fsw.Errors:
			if !ok {
				return
			}
			// fsnotify errors are not actionable here
		case <-done:
			return
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return
	}

	var list goal.ListType
	switch filepath.Base(ev.Name) {
	case store.KeyActive + ".json":
		list = goal.ListActive
	case store.KeyCompleted + ".json":
		list = goal.ListCompleted
	default:
		// Queue writes, temp files, logs: not ours to report.
		return
	}

	// Debounce per collection: atomic writes land as create+rename pairs.
	w.mu.Lock()
	if timer, ok := w.debounce[list]; ok {
		timer.Stop()
	}
	w.debounce[list] = time.AfterFunc(debounceDelay, func() {
		w.emit(list)
	})
	w.mu.Unlock()
}

// emit re-reads the changed document and, unless this process wrote it,
// delivers the typed event. A malformed payload from another process is
// logged and dropped; it never crashes the observing side.
func (w *Watcher) emit(list goal.ListType) {
	key := store.KeyActive
	if list == goal.ListCompleted {
		key = store.KeyCompleted
	}

	data, err := w.storage.Read(key)
	if err != nil && !errors.Is(err, storage.ErrNotExist) {
		w.log.Warn().Err(err).Str("key", key).Msg("re-reading changed collection")
		return
	}
	if w.storage.WroteRecently(key, data) {
		return // our own write; storage events are for other processes
	}

	ev := Event{ListType: list, Timestamp: time.Now()}
	switch list {
	case goal.ListActive:
		if len(data) > 0 {
			if err := json.Unmarshal(data, &ev.Active); err != nil {
				w.log.Warn().Err(err).Str("key", key).Msg("dropping malformed external change")
				return
			}
		}
		sort.SliceStable(ev.Active, func(i, j int) bool { return ev.Active[i].Order < ev.Active[j].Order })
	case goal.ListCompleted:
		if len(data) > 0 {
			if err := json.Unmarshal(data, &ev.Completed); err != nil {
				w.log.Warn().Err(err).Str("key", key).Msg("dropping malformed external change")
				return
			}
		}
		sort.SliceStable(ev.Completed, func(i, j int) bool { return ev.Completed[i].Order < ev.Completed[j].Order })
	}

	w.log.Debug().Str("list", string(list)).Msg("collection changed externally")
	if w.onChange != nil {
		w.onChange(ev)
	}
	if w.bus != nil {
		w.bus.Publishf(notify.LevelInfo, "%s goals were updated in another window", list)
	}
}
