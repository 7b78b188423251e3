// Package timer provides the one-second tick source that drives a session's
// elapsed time, plus a manual fake for tests.
package timer

import (
	"sync"
	"time"
)

// Ticker calls a callback roughly once per interval between Start and Stop.
// Stop must be safe to call more than once and, once it returns, no further
// callbacks may be delivered.
type Ticker interface {
	Start(tick func())
	Stop()
}

// WallTicker delivers ticks from a time.Ticker on its own goroutine.
type WallTicker struct {
	interval time.Duration

	mu      sync.Mutex
	started bool
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWallTicker returns a ticker firing every interval. A non-positive
// interval means one second.
func NewWallTicker(interval time.Duration) *WallTicker {
	if interval <= 0 {
		interval = time.Second
	}
	return &WallTicker{
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start arms the ticker. Calling it again, or after Stop, does nothing.
func (w *WallTicker) Start(tick func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	select {
	case <-w.stop:
		return
	default:
	}
	w.started = true

	t := time.NewTicker(w.interval)
	go func() {
		defer close(w.done)
		defer t.Stop()
		for {
			select {
			case <-w.stop:
				return
			case <-t.C:
				// A stop racing with a tick wins.
				select {
				case <-w.stop:
					return
				default:
				}
				tick()
			}
		}
	}()
}

// Stop disarms the ticker and waits for the tick goroutine to exit. It must not
// be called from inside the tick callback.
func (w *WallTicker) Stop() {
	w.once.Do(func() { close(w.stop) })
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()
	if started {
		<-w.done
	}
}

// Manual is a Ticker driven by explicit Tick calls.
type Manual struct {
	mu      sync.Mutex
	tick    func()
	stopped bool
}

// NewManual returns an unarmed manual ticker.
func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Start(tick func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped || m.tick != nil {
		return
	}
	m.tick = tick
}

func (m *Manual) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	m.tick = nil
}

// Tick delivers n ticks if the ticker is armed and reports how many were delivered.
func (m *Manual) Tick(n int) int {
	m.mu.Lock()
	tick := m.tick
	m.mu.Unlock()
	if tick == nil {
		return 0
	}
	for range n {
		tick()
	}
	return n
}

// Stopped reports whether Stop has been called.
func (m *Manual) Stopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}
