package model

import "time"

// Target is an item the bot pursues and the most it will pay for it.
type Target struct {
	ItemID   int64 `json:"item_id" yaml:"item_id"`
	MaxPrice int   `json:"max_price" yaml:"max_price"`
}

// TradeMode names the strategy the scheduler runs for one cycle.
type TradeMode string

const (
	ModeAggressive TradeMode = "AGGRESSIVE"
	ModeBuyNow     TradeMode = "BUY_NOW"
	ModePassive    TradeMode = "PASSIVE"
)

// LedgerEntry records one item acquired during a session, in resolution order.
type LedgerEntry struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	TradeID    int64     `json:"trade_id"`
	ItemID     int64     `json:"item_id"`
	AssetID    int64     `json:"asset_id"`
	Name       string    `json:"name"`
	Price      int       `json:"price"`
	Mode       TradeMode `json:"mode"`
	ResolvedAt time.Time `json:"resolved_at"`
}
