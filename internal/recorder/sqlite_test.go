package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"BidSentinel/internal/model"
)

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "data", "bot.db"), nil)
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	defer r.Close()

	entry := &model.LedgerEntry{
		ID: "win-1", SessionID: "s1", TradeID: 10, ItemID: 100, AssetID: 7,
		Name: "Messi", Price: 900, Mode: model.ModePassive, ResolvedAt: time.Now(),
	}
	if err := r.RecordWin(entry); err != nil {
		t.Fatalf("record win: %v", err)
	}
	if err := r.RecordBid(&BidEvent{SessionID: "s1", TradeID: 10, Price: 900, Mode: model.ModeAggressive, Accepted: true}); err != nil {
		t.Fatalf("record bid: %v", err)
	}
	if err := r.RecordThrottle(&ThrottleEvent{SessionID: "s1", Count: 500, Wait: 30 * time.Minute}); err != nil {
		t.Fatalf("record throttle: %v", err)
	}
	if err := r.RecordCycle(&CycleEvent{SessionID: "s1", Mode: model.ModeBuyNow, Balance: 5000}); err != nil {
		t.Fatalf("record cycle: %v", err)
	}

	var price int
	var mode string
	if err := r.db.QueryRow(`SELECT price, mode FROM wins WHERE id = ?`, "win-1").Scan(&price, &mode); err != nil {
		t.Fatalf("query win: %v", err)
	}
	if price != 900 || mode != "PASSIVE" {
		t.Errorf("unexpected win row price=%d mode=%s", price, mode)
	}

	for _, table := range []string{"bid_attempts", "throttle_events", "cycles"} {
		var n int
		if err := r.db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if n != 1 {
			t.Errorf("%s: expected 1 row, got %d", table, n)
		}
	}

	// Duplicate ledger ids are rejected.
	if err := r.RecordWin(entry); err == nil {
		t.Error("expected duplicate win id to fail")
	}
}
