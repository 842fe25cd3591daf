package strategy

import "BidSentinel/internal/model"

// Mode selection thresholds.
const (
	AggressiveWindow     = 120  // seconds
	BuyNowWindow         = 3000 // seconds
	BuyNowBudgetLimit    = 300  // actions
	EmptyWatchListExpiry = 3600 // seconds, sentinel for an empty watch list
)

// SelectMode picks this cycle's strategy. First match wins.
func SelectMode(nextExpiry, budgetCount int) model.TradeMode {
	switch {
	case nextExpiry < AggressiveWindow:
		return model.ModeAggressive
	case nextExpiry < BuyNowWindow && budgetCount < BuyNowBudgetLimit:
		return model.ModeBuyNow
	default:
		return model.ModePassive
	}
}

// NextExpiry is the soonest expiry on the watch list, or EmptyWatchListExpiry
// when it is empty.
func NextExpiry(watchList []model.Auction) int {
	if len(watchList) == 0 {
		return EmptyWatchListExpiry
	}
	next := watchList[0].ExpiresIn
	for _, a := range watchList[1:] {
		if a.ExpiresIn < next {
			next = a.ExpiresIn
		}
	}
	return next
}
