package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the board.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	SwitchColumn key.Binding
	MoveUp       key.Binding
	MoveDown     key.Binding
	Commit       key.Binding
	Cancel       key.Binding
	Toggle       key.Binding
	Add          key.Binding
	Delete       key.Binding
	Reload       key.Binding
	Sync         key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "focus up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "focus down"),
		),
		SwitchColumn: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch column"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("shift+up", "K"),
			key.WithHelp("shift+↑", "move goal up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("shift+down", "J"),
			key.WithHelp("shift+↓", "move goal down"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "commit move"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel move"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "complete/restore"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add goal"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload"),
		),
		Sync: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sync queue"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the footer help text.
func (k KeyMap) ShortHelp() string {
	return "↑↓ nav  tab column  shift+↑↓ move  enter commit  space done  a add  d delete  ? help"
}

// FullHelp returns all key bindings for the help modal.
func (k KeyMap) FullHelp() [][]string {
	return [][]string{
		{"↑/k", "Focus previous goal"},
		{"↓/j", "Focus next goal"},
		{"tab", "Switch between active and completed"},
		{"shift+↑/K", "Start or adjust a move up"},
		{"shift+↓/J", "Start or adjust a move down"},
		{"enter", "Commit the pending move"},
		{"esc", "Cancel the pending move"},
		{"space/x", "Complete (or restore) the focused goal"},
		{"a", "Add a goal"},
		{"d", "Delete the focused goal (with confirmation)"},
		{"R", "Reload from storage"},
		{"s", "Sync the offline reorder queue"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
}
