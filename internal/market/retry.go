package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"BidSentinel/internal/model"
)

// FetchWatchList fetches the watch list, retrying network failures up to
// attempts times with a fixed delay. The wait ends early when ctx is done or
// stop is closed. Other failure kinds are returned immediately.
func FetchWatchList(ctx context.Context, c Client, attempts int, delay time.Duration, stop <-chan struct{}, logger *zap.Logger) ([]model.Auction, error) {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		watch, err := c.WatchList(ctx)
		if err == nil {
			return watch, nil
		}
		lastErr = err
		if !errors.Is(err, ErrNetwork) || i == attempts-1 {
			break
		}
		logger.Warn("watch list fetch failed, retrying",
			zap.Int("attempt", i+1), zap.Int("attempts", attempts), zap.Duration("delay", delay), zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-stop:
			return nil, fmt.Errorf("watch list: stopped while retrying: %w", lastErr)
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("watch list: %w", lastErr)
}
