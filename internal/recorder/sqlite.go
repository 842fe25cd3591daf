package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"BidSentinel/internal/model"
)

// SQLiteRecorder persists session history to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so reports can read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS wins (
			id          TEXT PRIMARY KEY,
			session_id  TEXT NOT NULL,
			timestamp   INTEGER NOT NULL,
			trade_id    INTEGER,
			item_id     INTEGER,
			asset_id    INTEGER,
			name        TEXT,
			price       INTEGER,
			mode        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_wins_ts ON wins(timestamp)`,

		`CREATE TABLE IF NOT EXISTS bid_attempts (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id  TEXT NOT NULL,
			timestamp   INTEGER NOT NULL,
			trade_id    INTEGER,
			asset_id    INTEGER,
			price       INTEGER,
			mode        TEXT,
			accepted    INTEGER,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bids_ts ON bid_attempts(timestamp)`,

		`CREATE TABLE IF NOT EXISTS throttle_events (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id   TEXT NOT NULL,
			timestamp    INTEGER NOT NULL,
			action_count INTEGER,
			wait_seconds REAL
		)`,

		`CREATE TABLE IF NOT EXISTS cycles (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id   TEXT NOT NULL,
			timestamp    INTEGER NOT NULL,
			mode         TEXT,
			balance      INTEGER,
			action_count INTEGER,
			next_expiry  INTEGER,
			watch_size   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cycles_ts ON cycles(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordWin(entry *model.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO wins
		(id, session_id, timestamp, trade_id, item_id, asset_id, name, price, mode)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		entry.ID, entry.SessionID, entry.ResolvedAt.Unix(),
		entry.TradeID, entry.ItemID, entry.AssetID, entry.Name, entry.Price, string(entry.Mode),
	)
	return err
}

func (r *SQLiteRecorder) RecordBid(evt *BidEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO bid_attempts
		(session_id, timestamp, trade_id, asset_id, price, mode, accepted, error)
		VALUES (?,?,?,?,?,?,?,?)`,
		evt.SessionID, time.Now().Unix(), evt.TradeID, evt.AssetID, evt.Price,
		string(evt.Mode), evt.Accepted, evt.Err,
	)
	return err
}

func (r *SQLiteRecorder) RecordThrottle(evt *ThrottleEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO throttle_events
		(session_id, timestamp, action_count, wait_seconds)
		VALUES (?,?,?,?)`,
		evt.SessionID, time.Now().Unix(), evt.Count, evt.Wait.Seconds(),
	)
	return err
}

func (r *SQLiteRecorder) RecordCycle(evt *CycleEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO cycles
		(session_id, timestamp, mode, balance, action_count, next_expiry, watch_size)
		VALUES (?,?,?,?,?,?,?)`,
		evt.SessionID, time.Now().Unix(), string(evt.Mode), evt.Balance,
		evt.ActionCount, evt.NextExpiry, evt.WatchListSize,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}
