// Package notify carries application-wide notifications from the core to
// whatever UI is listening, independently of any data-refresh callbacks.
package notify

import (
	"fmt"
	"sync"
	"time"
)

// Level represents the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a single user-facing notification event.
type Notification struct {
	Level     Level
	Message   string
	CreatedAt time.Time
}

// Bus is a synchronous in-process fan-out. Publish calls every subscriber
// on the publishing goroutine before returning; subscribers that need the
// UI loop are expected to forward the notification as a message themselves.
type Bus struct {
	mu   sync.Mutex
	subs []func(Notification)
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for every subsequent notification.
func (b *Bus) Subscribe(fn func(Notification)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// Publish sends a notification to all subscribers.
func (b *Bus) Publish(level Level, message string) {
	n := Notification{Level: level, Message: message, CreatedAt: time.Now()}

	b.mu.Lock()
	subs := make([]func(Notification), len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}
}

// Publishf is Publish with fmt.Sprintf formatting.
func (b *Bus) Publishf(level Level, format string, args ...any) {
	b.Publish(level, fmt.Sprintf(format, args...))
}
