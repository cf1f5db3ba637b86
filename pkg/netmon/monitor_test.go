package netmon

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForcedOffline(t *testing.T) {
	m := New("", 0, true)
	assert.False(t, m.Online())

	// Start is a no-op in forced-offline mode.
	m.Start()
	m.Stop()
	assert.False(t, m.Online())
}

func TestDefaults(t *testing.T) {
	m := New("", 0, false)
	assert.Equal(t, DefaultProbeAddr, m.addr)
	assert.Equal(t, DefaultProbeInterval, m.interval)
	assert.True(t, m.Online(), "starts optimistic")
}

func TestProbeAgainstLocalListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	m := New(ln.Addr().String(), time.Hour, false)
	m.probe()
	assert.True(t, m.Online())
}

func TestProbeUnreachable(t *testing.T) {
	// A listener that is closed before probing guarantees a refused dial.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	m := New(addr, time.Hour, false)
	m.probe()
	assert.False(t, m.Online())
}

func TestSubscribersSeeTransitions(t *testing.T) {
	m := New("127.0.0.1:1", time.Hour, false)

	var transitions []bool
	m.Subscribe(func(online bool) { transitions = append(transitions, online) })

	m.set(false)
	m.set(false) // no transition, no callback
	m.set(true)

	assert.Equal(t, []bool{false, true}, transitions)
}

func TestStopIsIdempotent(t *testing.T) {
	m := New("127.0.0.1:1", time.Hour, false)
	m.Stop()
	m.Start()
	m.Stop()
	m.Stop()
}

// TestStartStopChurn cycles the probe loop rapidly against a live
// listener. The run goroutine must exit on the done channel it captured
// at Start, even when Stop lands mid-probe; run with -race.
func TestStartStopChurn(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	for i := 0; i < 20; i++ {
		m := New(ln.Addr().String(), time.Millisecond, false)
		m.Start()
		time.Sleep(2 * time.Millisecond)
		m.Stop()
	}
}
