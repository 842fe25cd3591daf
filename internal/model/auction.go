package model

// BidState describes this account's standing on an auction.
type BidState string

const (
	BidNone    BidState = "none"
	BidOutbid  BidState = "outbid"
	BidHighest BidState = "highest"
)

// TradeState describes whether an auction still accepts bids.
type TradeState string

const (
	TradeActive TradeState = "active"
	TradeClosed TradeState = "closed"
)

// Auction is a point-in-time snapshot of a marketplace listing as returned by
// a search or watch-list query. Snapshots are never cached across cycles.
type Auction struct {
	TradeID     int64
	ItemID      int64 // instance id, used when moving a won item to the trade pile
	AssetID     int64 // catalogue id, matches Target.ItemID
	Name        ItemName
	CurrentBid  int
	StartingBid int
	BuyNowPrice int
	BidState    BidState
	TradeState  TradeState
	ExpiresIn   int // seconds until the auction closes
}

// CurrentPrice is the current bid, or the starting bid when nobody has bid yet.
func (a Auction) CurrentPrice() int {
	if a.CurrentBid != 0 {
		return a.CurrentBid
	}
	return a.StartingBid
}

// Closed reports whether the auction no longer accepts bids.
func (a Auction) Closed() bool { return a.TradeState == TradeClosed }

// Highest reports whether this account holds the highest bid.
func (a Auction) Highest() bool { return a.BidState == BidHighest }

// DisplayName returns a printable item name.
func (a Auction) DisplayName() string {
	if a.Name == nil {
		return UnknownName{AssetID: a.AssetID}.DisplayName()
	}
	return a.Name.DisplayName()
}
