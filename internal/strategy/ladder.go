package strategy

import "BidSentinel/internal/model"

// Ladder defines the marketplace's minimum bid increment per price band,
// highest band first.
var Ladder = []struct {
	MinPrice  int
	Increment int
}{
	{100000, 1000},
	{50000, 500},
	{10000, 250},
	{1000, 100},
	{0, 50},
}

// increment returns the legal step above price.
func increment(price int) int {
	for _, band := range Ladder {
		if price >= band.MinPrice {
			return band.Increment
		}
	}
	return Ladder[len(Ladder)-1].Increment
}

// NextBid computes the next legal bid on a. An auction without bids is claimed
// at its starting price. ok is false when the bid would exceed maxPrice.
func NextBid(a model.Auction, maxPrice int) (price int, ok bool) {
	current := a.CurrentPrice()
	if a.CurrentBid == 0 {
		price = current
	} else {
		price = current + increment(current)
	}
	if price > maxPrice {
		return 0, false
	}
	return price, true
}
