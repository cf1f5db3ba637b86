package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/stefanpenner/goalie/pkg/goal"
	"github.com/stefanpenner/goalie/pkg/notify"
	"github.com/stefanpenner/goalie/pkg/store"
	"github.com/stefanpenner/goalie/pkg/watch"
)

// WatchEventMsg is sent when the storage watcher sees an external change.
type WatchEventMsg watch.Event

// ConnectivityMsg is sent when the network monitor flips online state.
type ConnectivityMsg bool

// NotificationMsg carries a bus notification into the UI loop.
type NotificationMsg notify.Notification

// reorderDoneMsg is sent when an async reorder commit finishes.
type reorderDoneMsg struct {
	list goal.ListType
	err  error
}

// syncDoneMsg is sent when a queue sync finishes.
type syncDoneMsg struct {
	count int
}

// statusSink receives surface announcements. It is shared by pointer so the
// surfaces' closures stay wired to the model across value copies.
type statusSink struct {
	msg   string
	until time.Time
}

const statusTTL = 4 * time.Second

// Model is the Bubble Tea model for the goal board: two columns, one
// reorder surface each, and the modal states layered on top.
type Model struct {
	store  *store.Store
	keys   KeyMap
	width  int
	height int

	active    []goal.Goal
	completed []goal.CompletedGoal

	activeSurface    *Surface
	completedSurface *Surface
	focusedColumn    goal.ListType

	drag   dragState
	toasts *ToastController
	status *statusSink

	online     bool
	queueCount int
	now        func() time.Time

	// Modal state
	showHelp          bool
	showDeleteConfirm bool
	deleteList        goal.ListType
	deleteID          string
	deleteTitle       string
	form              *addForm
}

// NewModel creates the board model over an already-loaded store.
func NewModel(s *store.Store, online bool, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	sink := &statusSink{}
	announce := func(msg string) {
		sink.msg = msg
		sink.until = now().Add(statusTTL)
	}

	m := Model{
		store:            s,
		keys:             DefaultKeyMap(),
		activeSurface:    NewSurface(goal.ListActive, announce),
		completedSurface: NewSurface(goal.ListCompleted, announce),
		focusedColumn:    goal.ListActive,
		toasts:           NewToastController(),
		status:           sink,
		online:           online,
		now:              now,
	}
	m.reload()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, tea.ClearScreen

	case WatchEventMsg:
		// Another window rewrote a collection; adopt its contents. Any
		// pending move on that surface is dropped by SetRows.
		switch msg.ListType {
		case goal.ListActive:
			m.active = msg.Active
		case goal.ListCompleted:
			m.completed = msg.Completed
		}
		m.syncSurfaces()
		return m, nil

	case ConnectivityMsg:
		wasOnline := m.online
		m.online = bool(msg)
		if m.online && !wasOnline {
			return m, m.syncQueue()
		}
		if !m.online {
			m.setStatus("Offline: reorders will be queued")
		}
		return m, nil

	case NotificationMsg:
		m.toasts.Push(notify.Notification(msg))
		if !m.toasts.Ticking() {
			m.toasts.SetTicking(true)
			return m, scheduleToastTick()
		}
		return m, nil

	case toastTickMsg:
		m.toasts.Tick(toastTickInterval)
		if m.toasts.HasToasts() {
			return m, scheduleToastTick()
		}
		m.toasts.SetTicking(false)
		return m, nil

	case reorderDoneMsg:
		m.surface(msg.list).SetDisabled(false)
		if msg.err != nil {
			m.setStatus("Reorder error: " + msg.err.Error())
		}
		m.reload()
		return m, nil

	case syncDoneMsg:
		m.reload()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Add form owns the keyboard while open.
	if m.form != nil {
		if msg.Type == tea.KeyEsc {
			m.form = nil
			return m, nil
		}
		return m.updateForm(msg)
	}

	// Help modal
	if m.showHelp {
		switch msg.String() {
		case "esc", "enter", "?", "q":
			m.showHelp = false
		}
		return m, nil
	}

	// Delete confirmation
	if m.showDeleteConfirm {
		switch msg.String() {
		case "y", "Y":
			m.showDeleteConfirm = false
			if err := m.store.Delete(m.deleteList, m.deleteID); err != nil {
				m.setStatus("Delete failed: " + err.Error())
			} else {
				m.setStatus("Deleted: " + m.deleteTitle)
			}
			m.reload()
		case "n", "N", "esc":
			m.showDeleteConfirm = false
		}
		return m, nil
	}

	sur := m.surface(m.focusedColumn)

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		sur.MoveFocus(-1)

	case key.Matches(msg, m.keys.Down):
		sur.MoveFocus(1)

	case key.Matches(msg, m.keys.SwitchColumn):
		// Switching focus neither commits nor cancels a pending move.
		if m.focusedColumn == goal.ListActive {
			m.focusedColumn = goal.ListCompleted
		} else {
			m.focusedColumn = goal.ListActive
		}

	case key.Matches(msg, m.keys.MoveUp):
		sur.StartOrAdjustMove(-1)

	case key.Matches(msg, m.keys.MoveDown):
		sur.StartOrAdjustMove(1)

	case key.Matches(msg, m.keys.Commit):
		if ids, ok := sur.Commit(); ok {
			sur.SetDisabled(true)
			return m, m.commitReorder(sur.List(), ids)
		}

	case key.Matches(msg, m.keys.Cancel):
		if m.drag.active {
			m.drag.abort()
			break
		}
		sur.CancelMove()

	case key.Matches(msg, m.keys.Toggle):
		id := sur.FocusedID()
		if id == "" {
			break
		}
		if m.focusedColumn == goal.ListActive {
			c, err := m.store.Complete(id)
			if err != nil {
				m.setStatus("Error: " + err.Error())
			} else {
				m.setStatus("Completed: " + c.Title)
			}
		} else {
			g, err := m.store.Restore(id)
			if err != nil {
				m.setStatus("Error: " + err.Error())
			} else {
				m.setStatus("Restored: " + g.Title)
			}
		}
		m.reload()

	case key.Matches(msg, m.keys.Add):
		m.form = newAddForm(m.now)
		return m, m.form.form.Init()

	case key.Matches(msg, m.keys.Delete):
		id := sur.FocusedID()
		if id == "" {
			break
		}
		m.showDeleteConfirm = true
		m.deleteList = m.focusedColumn
		m.deleteID = id
		m.deleteTitle = m.titleOf(m.focusedColumn, id)

	case key.Matches(msg, m.keys.Reload):
		m.reload()
		m.setStatus("Reloaded")

	case key.Matches(msg, m.keys.Sync):
		return m, m.syncQueue()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	}

	return m, nil
}

func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.form != nil || m.showHelp || m.showDeleteConfirm {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		col, ok := columnAt(msg.X, m.width)
		if !ok {
			return m, nil
		}
		sur := m.surface(col)
		if sur.Disabled() {
			return m, nil
		}
		idx, ok := cardIndexAt(msg.Y, sur.Len())
		if !ok {
			return m, nil
		}
		m.focusedColumn = col
		sur.SetFocus(idx)
		m.drag.begin(col, sur.FocusedID(), idx)

	case tea.MouseActionMotion:
		if m.drag.active {
			m.drag.update(msg.X, msg.Y, m.width, m.surface(m.drag.list).Len())
		}

	case tea.MouseActionRelease:
		if !m.drag.active {
			return m, nil
		}
		list, id, from := m.drag.list, m.drag.id, m.drag.from
		insert, ok := m.drag.drop(msg.X, msg.Y, m.width, m.surface(list).Len())
		if !ok || insert == from {
			return m, nil
		}
		sur := m.surface(list)
		ids := reinsert(sur.DisplayOrder(), id, insert)
		// Focus the dragged goal where it currently sits; the reload after
		// the commit follows its ID to the new slot.
		sur.SetFocus(from)
		sur.SetDisabled(true)
		return m, m.commitReorder(list, ids)
	}

	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	f, cmd := m.form.form.Update(msg)
	if hf, ok := f.(*huh.Form); ok {
		m.form.form = hf
	}

	switch m.form.form.State {
	case huh.StateCompleted:
		in := m.form.Input()
		m.form = nil
		g, err := m.store.Add(in.Title, in.EndDate)
		if err != nil {
			m.setStatus("Error: " + err.Error())
		} else {
			m.setStatus("Added: " + g.Title)
		}
		m.reload()
		return m, nil
	case huh.StateAborted:
		m.form = nil
		return m, nil
	}
	return m, cmd
}

// commitReorder persists a committed arrangement off the UI goroutine. The
// owning surface stays disabled until reorderDoneMsg arrives.
func (m Model) commitReorder(list goal.ListType, ids []string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		return reorderDoneMsg{list: list, err: s.Reorder(list, ids)}
	}
}

// syncQueue replays the offline reorder queue.
func (m Model) syncQueue() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		return syncDoneMsg{count: s.SyncPending()}
	}
}

func (m *Model) reload() {
	m.active = m.store.LoadActive()
	m.completed = m.store.LoadCompleted()
	m.queueCount = len(m.store.Queue().Pending())
	m.syncSurfaces()
}

func (m *Model) syncSurfaces() {
	ids := make([]string, len(m.active))
	titles := make([]string, len(m.active))
	for i, g := range m.active {
		ids[i] = g.ID
		titles[i] = g.Title
	}
	m.activeSurface.SetRows(ids, titles)

	cids := make([]string, len(m.completed))
	ctitles := make([]string, len(m.completed))
	for i, c := range m.completed {
		cids[i] = c.ID
		ctitles[i] = c.Title
	}
	m.completedSurface.SetRows(cids, ctitles)
}

func (m Model) surface(list goal.ListType) *Surface {
	if list == goal.ListCompleted {
		return m.completedSurface
	}
	return m.activeSurface
}

func (m Model) titleOf(list goal.ListType, id string) string {
	if list == goal.ListCompleted {
		for _, c := range m.completed {
			if c.ID == id {
				return c.Title
			}
		}
		return id
	}
	for _, g := range m.active {
		if g.ID == id {
			return g.Title
		}
	}
	return id
}

func (m *Model) setStatus(msg string) {
	m.status.msg = msg
	m.status.until = m.now().Add(statusTTL)
}

// reinsert removes id from ids and reinserts it at index to.
func reinsert(ids []string, id string, to int) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	if to < 0 {
		to = 0
	}
	if to > len(out) {
		to = len(out)
	}
	out = append(out[:to], append([]string{id}, out[to:]...)...)
	return out
}
