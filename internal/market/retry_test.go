package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"BidSentinel/internal/model"
)

func TestFetchWatchList_RetriesOnce(t *testing.T) {
	sim := NewSimulator(1000, nil)
	sim.AddListing(model.Auction{AssetID: 1, StartingBid: 100, BidState: model.BidHighest, ExpiresIn: 300})
	sim.WatchListFailures = 1

	watch, err := FetchWatchList(context.Background(), sim, 2, time.Millisecond, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("expected success on retry, got %v", err)
	}
	if len(watch) != 1 {
		t.Errorf("expected 1 watched auction, got %d", len(watch))
	}
	if sim.Calls("watchlist") != 2 {
		t.Errorf("expected 2 attempts, got %d", sim.Calls("watchlist"))
	}
}

func TestFetchWatchList_BoundedFailure(t *testing.T) {
	sim := NewSimulator(1000, nil)
	sim.WatchListFailures = 5

	_, err := FetchWatchList(context.Background(), sim, 2, time.Millisecond, nil, zap.NewNop())
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected wrapped ErrNetwork, got %v", err)
	}
	if sim.Calls("watchlist") != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", sim.Calls("watchlist"))
	}
}

func TestFetchWatchList_SessionErrorNotRetried(t *testing.T) {
	sim := NewSimulator(1000, nil)
	sim.SessionExpired = true

	_, err := FetchWatchList(context.Background(), sim, 3, time.Millisecond, nil, zap.NewNop())
	if !errors.Is(err, ErrSession) {
		t.Fatalf("expected ErrSession, got %v", err)
	}
}

func TestFetchWatchList_StopInterruptsDelay(t *testing.T) {
	sim := NewSimulator(1000, nil)
	sim.WatchListFailures = 5
	stop := make(chan struct{})
	close(stop)

	start := time.Now()
	_, err := FetchWatchList(context.Background(), sim, 2, time.Hour, stop, zap.NewNop())
	if err == nil {
		t.Fatal("expected an error when stopped")
	}
	if time.Since(start) > time.Second {
		t.Error("stop signal should cut the retry delay short")
	}
}
