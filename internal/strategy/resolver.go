package strategy

import "BidSentinel/internal/model"

// Horizons, in seconds.
const (
	BidHorizon       = 3600 // only bid on auctions closing within the hour
	AggressiveCutoff = 60   // aggressive sweeps stop past this expiry
)

// Action is the follow-up the resolver asks for.
type Action string

const (
	ActionNone   Action = "NONE"
	ActionRemove Action = "REMOVE" // drop from the watch list
	ActionWin    Action = "WIN"    // record and move to the trade pile
	ActionBid    Action = "BID"
)

// Decision is the resolver's verdict for a single auction snapshot.
type Decision struct {
	Action Action
	Price  int
	Reason string
}

// Resolve classifies a watched auction. It depends only on its arguments, so
// evaluating the same snapshot twice yields the same decision.
func Resolve(a model.Auction, maxPrice int) Decision {
	price, ok := NextBid(a, maxPrice)

	switch {
	case !ok && a.BidState == model.BidOutbid:
		return Decision{Action: ActionRemove, Reason: "too expensive"}
	case !ok && a.Highest() && a.Closed():
		return Decision{Action: ActionWin, Price: a.CurrentPrice(), Reason: "won auction"}
	case a.Closed() && !a.Highest():
		return Decision{Action: ActionRemove, Reason: "lost auction"}
	case a.Closed() && a.Highest():
		return Decision{Action: ActionWin, Price: a.CurrentPrice(), Reason: "won auction"}
	}

	if p, bid := OpeningBid(a, maxPrice); bid {
		return Decision{Action: ActionBid, Price: p, Reason: "contesting"}
	}
	if !ok {
		return Decision{Action: ActionNone, Reason: "too expensive"}
	}
	return Decision{Action: ActionNone, Price: price, Reason: "too early"}
}

// OpeningBid applies the per-auction bid rule shared by watch-list sweeps and
// target searches: open, not already leading, closing within the horizon, and
// affordable.
func OpeningBid(a model.Auction, maxPrice int) (int, bool) {
	if a.ExpiresIn >= BidHorizon || a.Closed() || a.Highest() {
		return 0, false
	}
	return NextBid(a, maxPrice)
}

// PastAggressiveCutoff reports whether an aggressive sweep should stop after a.
// Watch lists arrive ordered by ascending expiry.
func PastAggressiveCutoff(a model.Auction) bool {
	return a.ExpiresIn > AggressiveCutoff
}
