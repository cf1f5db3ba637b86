// Package netmon reports network connectivity. It is the stand-in for the
// browser's online/offline events: the store asks it whether a reorder is
// synced or pending-sync, and the application drains the offline queue on
// the offline-to-online transition.
package netmon

import (
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/stefanpenner/goalie/pkg/logutils"
)

const (
	// DefaultProbeAddr is dialed to decide connectivity. Any reachable
	// TCP endpoint works; nothing is sent on the connection.
	DefaultProbeAddr     = "1.1.1.1:443"
	DefaultProbeInterval = 15 * time.Second
	probeTimeout         = 3 * time.Second
)

// Monitor probes a TCP address on an interval and reports transitions to
// subscribers. A forced-offline monitor never probes and never reports
// online; it exists for airplane-mode use and for exercising the offline
// reorder queue deliberately.
type Monitor struct {
	addr     string
	interval time.Duration
	forced   bool
	log      zerolog.Logger

	mu     sync.Mutex
	online bool
	subs   []func(online bool)

	done chan struct{}
}

// New creates a monitor. Empty addr or a non-positive interval select the
// defaults. The monitor starts optimistically online (unless forced
// offline); the first probe corrects that within one dial timeout.
func New(addr string, interval time.Duration, forcedOffline bool) *Monitor {
	if addr == "" {
		addr = DefaultProbeAddr
	}
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	return &Monitor{
		addr:     addr,
		interval: interval,
		forced:   forcedOffline,
		online:   !forcedOffline,
		log:      logutils.Component("netmon"),
	}
}

// Online reports the current connectivity state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Subscribe registers fn for connectivity transitions. Subscribers are
// invoked from the probe goroutine; forward to your own loop if needed.
func (m *Monitor) Subscribe(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Start begins probing. A forced-offline monitor is a no-op to start.
func (m *Monitor) Start() {
	if m.forced || m.done != nil {
		return
	}
	m.done = make(chan struct{})
	// run works against its own copy; Stop may clear the field while the
	// goroutine is still inside a probe.
	go m.run(m.done)
}

// Stop ends probing. Safe to call on a monitor that was never started.
func (m *Monitor) Stop() {
	if m.done == nil {
		return
	}
	close(m.done)
	m.done = nil
}

func (m *Monitor) run(done chan struct{}) {
	m.probe()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.probe()
		case <-done:
			return
		}
	}
}

func (m *Monitor) probe() {
	conn, err := net.DialTimeout("tcp", m.addr, probeTimeout)
	if err == nil {
		conn.Close()
	}
	m.set(err == nil)
}

// set records the new state and notifies subscribers on a transition.
func (m *Monitor) set(online bool) {
	m.mu.Lock()
	if online == m.online {
		m.mu.Unlock()
		return
	}
	m.online = online
	subs := make([]func(bool), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	m.log.Info().Bool("online", online).Msg("connectivity changed")
	for _, fn := range subs {
		fn(online)
	}
}
