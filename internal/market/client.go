package market

import (
	"context"
	"errors"

	"BidSentinel/internal/model"
)

// PageSize is the number of auctions the marketplace returns per search page.
const PageSize = 16

// Failure kinds. Implementations wrap one of these so callers can branch with
// errors.Is.
var (
	ErrNetwork     = errors.New("market: network failure")
	ErrRejectedBid = errors.New("market: bid rejected")
	ErrRateLimited = errors.New("market: rate limited")
	ErrSession     = errors.New("market: session invalid")
)

// SearchQuery filters a transfer market search. Zero prices mean no filter.
type SearchQuery struct {
	AssetID   int64
	Start     int // offset of the first result, a multiple of PageSize
	MaxPrice  int // ceiling on the current bid
	MaxBuyNow int // ceiling on the buy-now price; only buy-now listings match
}

// Client is the marketplace capability set the trading loop consumes. Every
// call blocks until the marketplace answers.
type Client interface {
	Name() string
	KeepAlive(ctx context.Context) (balance int, err error)
	Search(ctx context.Context, q SearchQuery) ([]model.Auction, error)
	// Bid returns nil when the bid was accepted.
	Bid(ctx context.Context, tradeID int64, price int) error
	WatchList(ctx context.Context) ([]model.Auction, error)
	WatchlistDelete(ctx context.Context, tradeID int64) error
	SendToTradepile(ctx context.Context, itemID int64) error
	Relist(ctx context.Context) error
	Logout(ctx context.Context) error
}
