package budget

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Marketplace quota defaults.
const (
	DefaultLimit  = 500
	DefaultWindow = time.Hour
)

// Tracker counts rate-limited marketplace actions within a rolling window.
// It performs no sleeping; the scheduler decides when to wait. It is safe for
// concurrent use so the control surface can read snapshots.
type Tracker struct {
	mu       sync.Mutex
	state    *State
	limit    int
	window   time.Duration
	filePath string
	logger   *zap.Logger
}

// NewTracker creates a Tracker, loading state from filePath when set. A fresh
// state starts its window at now.
func NewTracker(filePath string, limit int, window time.Duration, now time.Time, logger *zap.Logger) (*Tracker, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	if state.WindowStart.IsZero() {
		state.WindowStart = now
	}
	t := &Tracker{state: state, limit: limit, window: window, filePath: filePath, logger: logger}
	if err := t.save(); err != nil {
		return nil, err
	}
	return t, nil
}

// RecordActions adds n consumed actions and returns the new count.
// Non-positive n leaves the count unchanged.
func (t *Tracker) RecordActions(n int) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n > 0 {
		t.state.Count += n
		t.persist()
	}
	return t.state.Count
}

// ShouldThrottle reports whether the quota is spent.
func (t *Tracker) ShouldThrottle() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Count >= t.limit
}

// Exhaust marks the quota as spent, used when the marketplace itself reports
// rate limiting before our own count got there.
func (t *Tracker) Exhaust() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Count < t.limit {
		t.state.Count = t.limit
		t.persist()
	}
}

// TimeUntilReset returns how long until the current window ends, never negative.
func (t *Tracker) TimeUntilReset(now time.Time) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	remaining := t.window - now.Sub(t.state.WindowStart)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// WindowExpired reports whether more than one window has passed since it started.
func (t *Tracker) WindowExpired(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return now.Sub(t.state.WindowStart) > t.window
}

// Reset starts a clean window at now.
func (t *Tracker) Reset(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state.Count = 0
	t.state.WindowStart = now
	t.persist()
}

// Count returns the actions consumed in the current window.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Count
}

// Limit returns the per-window quota.
func (t *Tracker) Limit() int { return t.limit }

// GetState returns a copy of the current budget state.
func (t *Tracker) GetState() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return *t.state
}

func (t *Tracker) persist() {
	if err := t.save(); err != nil {
		t.logger.Error("failed to save budget state", zap.String("file", t.filePath), zap.Error(err))
	}
}

func (t *Tracker) save() error {
	return SaveState(t.filePath, t.state)
}
