package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultLogCapacity bounds the activity log.
const DefaultLogCapacity = 500

// Session is the explicit context of one logged-in trading session. It owns
// the trading-enabled flag and the display sinks the loop writes to.
type Session struct {
	ID        string
	StartedAt time.Time

	mu      sync.Mutex
	enabled bool
	started chan struct{} // closed while trading is enabled
	stopped chan struct{} // closed while trading is disabled

	log      []string
	logCap   int
	progress int
	balance  int
	now      func() time.Time
}

// New creates a session with trading disabled.
func New() *Session {
	stopped := make(chan struct{})
	close(stopped)
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		started:   make(chan struct{}),
		stopped:   stopped,
		logCap:    DefaultLogCapacity,
		now:       time.Now,
	}
}

// Start enables trading. Calling it while enabled is a no-op.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enabled {
		return
	}
	s.enabled = true
	close(s.started)
	s.stopped = make(chan struct{})
}

// Stop disables trading and wakes anything waiting on Stopped.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}
	s.enabled = false
	close(s.stopped)
	s.started = make(chan struct{})
}

// Enabled reports the trading-enabled flag.
func (s *Session) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Started returns a channel closed once trading is enabled.
func (s *Session) Started() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Stopped returns a channel closed once trading is disabled.
func (s *Session) Stopped() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Log appends a timestamped line to the activity log, dropping the oldest
// line when full.
func (s *Session) Log(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log = append(s.log, s.now().Format("15:04:05")+": "+line)
	if over := len(s.log) - s.logCap; over > 0 {
		s.log = append(s.log[:0:0], s.log[over:]...)
	}
}

// Lines returns up to limit of the most recent log lines, oldest first.
// A non-positive limit returns everything.
func (s *Session) Lines(limit int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := 0
	if limit > 0 && len(s.log) > limit {
		start = len(s.log) - limit
	}
	out := make([]string, len(s.log)-start)
	copy(out, s.log[start:])
	return out
}

// SetProgress publishes the action count.
func (s *Session) SetProgress(n int) {
	s.mu.Lock()
	s.progress = n
	s.mu.Unlock()
}

// Progress returns the last published action count.
func (s *Session) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// SetBalance publishes the coin balance.
func (s *Session) SetBalance(n int) {
	s.mu.Lock()
	s.balance = n
	s.mu.Unlock()
}

// Balance returns the last published coin balance.
func (s *Session) Balance() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}
