package budget

import (
	"path/filepath"
	"testing"
	"time"
)

var epoch = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	tr, err := NewTracker("", DefaultLimit, DefaultWindow, epoch, nil)
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	return tr
}

func TestTracker_ThrottleAtLimit(t *testing.T) {
	tr := newTestTracker(t)
	if got := tr.RecordActions(499); got != 499 {
		t.Fatalf("expected 499, got %d", got)
	}
	if tr.ShouldThrottle() {
		t.Fatal("499 actions should not throttle")
	}
	if got := tr.RecordActions(1); got != 500 {
		t.Fatalf("expected 500, got %d", got)
	}
	if !tr.ShouldThrottle() {
		t.Fatal("500 actions should throttle")
	}
}

func TestTracker_ResetClearsCount(t *testing.T) {
	tr := newTestTracker(t)
	tr.RecordActions(750)
	later := epoch.Add(90 * time.Minute)
	tr.Reset(later)
	if tr.Count() != 0 {
		t.Errorf("expected count 0 after reset, got %d", tr.Count())
	}
	if tr.ShouldThrottle() {
		t.Error("should not throttle after reset")
	}
	if got := tr.GetState().WindowStart; !got.Equal(later) {
		t.Errorf("expected window start %v, got %v", later, got)
	}
}

func TestTracker_NeverNegative(t *testing.T) {
	tr := newTestTracker(t)
	tr.RecordActions(3)
	if got := tr.RecordActions(-10); got != 3 {
		t.Errorf("negative record should be ignored, got %d", got)
	}
}

func TestTracker_TimeUntilReset(t *testing.T) {
	tr := newTestTracker(t)
	tests := []struct {
		elapsed time.Duration
		want    time.Duration
	}{
		{0, time.Hour},
		{20 * time.Minute, 40 * time.Minute},
		{time.Hour, 0},
		{3 * time.Hour, 0},
	}
	for _, tt := range tests {
		if got := tr.TimeUntilReset(epoch.Add(tt.elapsed)); got != tt.want {
			t.Errorf("elapsed %v: expected %v, got %v", tt.elapsed, tt.want, got)
		}
	}
}

func TestTracker_WindowExpired(t *testing.T) {
	tr := newTestTracker(t)
	if tr.WindowExpired(epoch.Add(time.Hour)) {
		t.Error("exactly one window should not count as expired")
	}
	if !tr.WindowExpired(epoch.Add(time.Hour + time.Second)) {
		t.Error("past one window should be expired")
	}
}

func TestTracker_Exhaust(t *testing.T) {
	tr := newTestTracker(t)
	tr.RecordActions(12)
	tr.Exhaust()
	if tr.Count() != DefaultLimit || !tr.ShouldThrottle() {
		t.Errorf("expected exhausted budget at %d, got %d", DefaultLimit, tr.Count())
	}
}

func TestTracker_PersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budget", "state.json")
	tr, err := NewTracker(path, 10, time.Hour, epoch, nil)
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	tr.RecordActions(7)

	reopened, err := NewTracker(path, 10, time.Hour, epoch.Add(time.Minute), nil)
	if err != nil {
		t.Fatalf("reopen tracker: %v", err)
	}
	if reopened.Count() != 7 {
		t.Errorf("expected persisted count 7, got %d", reopened.Count())
	}
	if !reopened.GetState().WindowStart.Equal(epoch) {
		t.Errorf("expected persisted window start %v, got %v", epoch, reopened.GetState().WindowStart)
	}
}
