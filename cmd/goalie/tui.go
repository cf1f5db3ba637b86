package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stefanpenner/goalie/pkg/notify"
	"github.com/stefanpenner/goalie/pkg/tui"
	"github.com/stefanpenner/goalie/pkg/watch"
)

// runTUI wires the watcher, connectivity monitor, and notification bus
// into the board and blocks until the user quits.
func runTUI(a *app) error {
	m := tui.NewModel(a.store, a.monitor.Online(), time.Now)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Everything below runs off the UI goroutine; p.Send is the only safe
	// way back in.
	a.bus.Subscribe(func(n notify.Notification) {
		p.Send(tui.NotificationMsg(n))
	})
	a.monitor.Subscribe(func(online bool) {
		p.Send(tui.ConnectivityMsg(online))
	})

	watcher := watch.New(a.storage, func(ev watch.Event) {
		p.Send(tui.WatchEventMsg(ev))
	}, a.bus)
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("start storage watcher: %w", err)
	}
	defer watcher.Stop()

	a.monitor.Start()

	_, err := p.Run()
	return err
}
