package scheduler

import (
	"math/rand/v2"
	"time"
)

// Span is a randomized pause range. A pause lasts at least Min and less than
// Max; Max <= Min always yields Min.
type Span struct {
	Min time.Duration
	Max time.Duration
}

func (sp Span) pick(rng *rand.Rand) time.Duration {
	if sp.Max <= sp.Min {
		return sp.Min
	}
	return sp.Min + time.Duration(rng.Int64N(int64(sp.Max-sp.Min)))
}

// Timing holds every pause and bound of the trading loop.
type Timing struct {
	CyclePause        Span // between cycles
	SweepPause        Span // after a non-aggressive watch list sweep
	BidPause          Span // after each bid
	TargetPause       Span // after searching one target item
	BuyNowSearchPause Span // between buy-now searches

	BuyNowMaxDuration  time.Duration
	BuyNowExpiryMargin time.Duration // buy-now stops this long before the next watched expiry
	BuyNowSearchLimit  int           // consecutive searches before a rest
	BuyNowRest         time.Duration

	WatchListAttempts int
	WatchListDelay    time.Duration
}

// DefaultTiming returns the marketplace-tuned pauses.
func DefaultTiming() Timing {
	return Timing{
		CyclePause:         Span{Min: 1 * time.Second, Max: 3 * time.Second},
		SweepPause:         Span{Min: 20 * time.Second, Max: 40 * time.Second},
		BidPause:           Span{Min: 1 * time.Second, Max: 4 * time.Second},
		TargetPause:        Span{Min: 6 * time.Second, Max: 12 * time.Second},
		BuyNowSearchPause:  Span{Min: 1 * time.Second, Max: 2 * time.Second},
		BuyNowMaxDuration:  100 * time.Second,
		BuyNowExpiryMargin: 50 * time.Second,
		BuyNowSearchLimit:  15,
		BuyNowRest:         10 * time.Second,
		WatchListAttempts:  2,
		WatchListDelay:     15 * time.Second,
	}
}
