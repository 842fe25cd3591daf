package session

import (
	"fmt"
	"testing"
	"time"
)

func closed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestSession_StartStopChannels(t *testing.T) {
	s := New()
	if s.ID == "" {
		t.Fatal("expected a session id")
	}
	if s.Enabled() || closed(s.Started()) || !closed(s.Stopped()) {
		t.Fatal("new session should be stopped")
	}

	s.Start()
	stopped := s.Stopped()
	if !s.Enabled() || !closed(s.Started()) || closed(stopped) {
		t.Fatal("started session should expose an open stop channel")
	}
	s.Start() // no-op

	s.Stop()
	if s.Enabled() || !closed(stopped) {
		t.Fatal("stop should close the channel handed out while running")
	}
	if closed(s.Started()) {
		t.Error("start channel should be rearmed after stop")
	}
	s.Stop() // no-op
}

func TestSession_StopWakesWaiter(t *testing.T) {
	s := New()
	s.Start()
	done := make(chan struct{})
	go func() {
		select {
		case <-s.Stopped():
		case <-time.After(5 * time.Second):
			t.Error("waiter not woken")
		}
		close(done)
	}()
	s.Stop()
	<-done
}

func TestSession_LogBounded(t *testing.T) {
	s := New()
	s.logCap = 3
	s.now = func() time.Time { return time.Date(2026, 1, 1, 9, 5, 7, 0, time.UTC) }
	for i := 0; i < 5; i++ {
		s.Log(fmt.Sprintf("line %d", i))
	}
	lines := s.Lines(0)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "09:05:07: line 2" || lines[2] != "09:05:07: line 4" {
		t.Errorf("unexpected lines %q", lines)
	}
	if got := s.Lines(1); len(got) != 1 || got[0] != "09:05:07: line 4" {
		t.Errorf("expected latest line only, got %q", got)
	}
}
