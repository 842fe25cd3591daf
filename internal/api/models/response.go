package models

import "BidSentinel/internal/model"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TradingResponse reports the trading flag after a start or stop request.
type TradingResponse struct {
	Enabled bool `json:"enabled"`
}

// LogResponse holds the latest activity log lines, oldest first.
type LogResponse struct {
	Lines []string `json:"lines"`
}

// WatchItem is one watch-list auction as seen by the last cycle.
type WatchItem struct {
	TradeID    int64  `json:"trade_id"`
	AssetID    int64  `json:"asset_id"`
	Name       string `json:"name"`
	Price      int    `json:"price"`
	BuyNow     int    `json:"buy_now_price,omitempty"`
	BidState   string `json:"bid_state"`
	TradeState string `json:"trade_state"`
	ExpiresIn  int    `json:"expires_in"`
}

// NewWatchItem converts an auction snapshot for display.
func NewWatchItem(a model.Auction) WatchItem {
	return WatchItem{
		TradeID:    a.TradeID,
		AssetID:    a.AssetID,
		Name:       a.DisplayName(),
		Price:      a.CurrentPrice(),
		BuyNow:     a.BuyNowPrice,
		BidState:   string(a.BidState),
		TradeState: string(a.TradeState),
		ExpiresIn:  a.ExpiresIn,
	}
}
