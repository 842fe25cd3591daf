package model

import "time"

// Status is a read-only snapshot of the trading loop for display surfaces.
type Status struct {
	SessionID     string    `json:"session_id"`
	State         string    `json:"state"`
	Mode          TradeMode `json:"mode,omitempty"`
	Enabled       bool      `json:"enabled"`
	Balance       int       `json:"balance"`
	CoinLimit     int       `json:"coin_limit"`
	ActionCount   int       `json:"action_count"`
	ActionLimit   int       `json:"action_limit"`
	WindowStart   time.Time `json:"window_start"`
	NextExpiry    int       `json:"next_expiry"`
	WatchListSize int       `json:"watch_list_size"`
	LedgerSize    int       `json:"ledger_size"`
	Targets       int       `json:"targets"`
	LastCycleAt   time.Time `json:"last_cycle_at,omitempty"`
	LastError     string    `json:"last_error,omitempty"`
}
