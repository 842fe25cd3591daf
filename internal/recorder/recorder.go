package recorder

import (
	"time"

	"BidSentinel/internal/model"
)

// BidEvent records one bid attempt.
type BidEvent struct {
	SessionID string
	TradeID   int64
	AssetID   int64
	Price     int
	Mode      model.TradeMode
	Accepted  bool
	Err       string
}

// ThrottleEvent records a cooldown caused by the action quota.
type ThrottleEvent struct {
	SessionID string
	Count     int
	Wait      time.Duration
}

// CycleEvent records the state observed at the start of one trading cycle.
type CycleEvent struct {
	SessionID     string
	Mode          model.TradeMode
	Balance       int
	ActionCount   int
	NextExpiry    int
	WatchListSize int
}

// Recorder persists session history for later reporting. The trading loop
// never reads it back.
type Recorder interface {
	RecordWin(entry *model.LedgerEntry) error
	RecordBid(evt *BidEvent) error
	RecordThrottle(evt *ThrottleEvent) error
	RecordCycle(evt *CycleEvent) error
	Close() error
}
