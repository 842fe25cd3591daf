package scheduler

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"BidSentinel/internal/budget"
	"BidSentinel/internal/market"
	"BidSentinel/internal/model"
	"BidSentinel/internal/notifier"
	"BidSentinel/internal/recorder"
	"BidSentinel/internal/session"
	"BidSentinel/internal/targets"
)

// State is a Mode Scheduler state.
type State string

const (
	StateIdle      State = "IDLE"
	StateWarmingUp State = "WARMING_UP"
	StateRunning   State = "RUNNING"
	StateCooldown  State = "COOLDOWN"
	StateStopped   State = "STOPPED"
)

// Config wires the scheduler's collaborators. Client, Budget, Targets and
// Session are required.
type Config struct {
	Client    market.Client
	Budget    *budget.Tracker
	Targets   *targets.List
	Session   *session.Session
	Recorder  recorder.Recorder
	Notifier  notifier.Notifier
	Logger    *zap.Logger
	Timing    Timing
	CoinLimit int
	Rand      *rand.Rand
	Now       func() time.Time
}

// Scheduler runs the trading loop. A single goroutine drives Run; the
// snapshot accessors are safe to call from anywhere.
type Scheduler struct {
	client    market.Client
	budget    *budget.Tracker
	targets   *targets.List
	session   *session.Session
	recorder  recorder.Recorder
	notifier  notifier.Notifier
	logger    *zap.Logger
	timing    Timing
	coinLimit int
	rng       *rand.Rand
	now       func() time.Time

	mu         sync.RWMutex
	state      State
	mode       model.TradeMode
	watch      []model.Auction
	nextExpiry int
	ledger     []model.LedgerEntry
	won        map[int64]bool // trade ids already in the ledger
	lastCycle  time.Time
	lastErr    string

	cron *cron.Cron
}

// New creates a Scheduler in the IDLE state.
func New(cfg Config) *Scheduler {
	if cfg.Recorder == nil {
		cfg.Recorder = recorder.NewNoopRecorder()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notifier.NoopNotifier{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		cfg.Rand = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Timing == (Timing{}) {
		cfg.Timing = DefaultTiming()
	}
	return &Scheduler{
		client:    cfg.Client,
		budget:    cfg.Budget,
		targets:   cfg.Targets,
		session:   cfg.Session,
		recorder:  cfg.Recorder,
		notifier:  cfg.Notifier,
		logger:    cfg.Logger.Named("scheduler").With(zap.String("session", cfg.Session.ID)),
		timing:    cfg.Timing,
		coinLimit: cfg.CoinLimit,
		rng:       cfg.Rand,
		now:       cfg.Now,
		state:     StateIdle,
		won:       make(map[int64]bool),
	}
}

// State returns the current state.
func (s *Scheduler) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Scheduler) setState(next State) {
	s.mu.Lock()
	prev := s.state
	s.state = next
	s.mu.Unlock()
	if prev != next {
		s.logger.Info("state transition", zap.String("from", string(prev)), zap.String("to", string(next)))
	}
}

// Status returns a snapshot of the loop for display.
func (s *Scheduler) Status() model.Status {
	bs := s.budget.GetState()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Status{
		SessionID:     s.session.ID,
		State:         string(s.state),
		Mode:          s.mode,
		Enabled:       s.session.Enabled(),
		Balance:       s.session.Balance(),
		CoinLimit:     s.coinLimit,
		ActionCount:   bs.Count,
		ActionLimit:   s.budget.Limit(),
		WindowStart:   bs.WindowStart,
		NextExpiry:    s.nextExpiry,
		WatchListSize: len(s.watch),
		LedgerSize:    len(s.ledger),
		Targets:       s.targets.Len(),
		LastCycleAt:   s.lastCycle,
		LastError:     s.lastErr,
	}
}

// Ledger returns a copy of the items won or bought, in resolution order.
func (s *Scheduler) Ledger() []model.LedgerEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.LedgerEntry, len(s.ledger))
	copy(out, s.ledger)
	return out
}

// WatchList returns the watch list seen by the last cycle.
func (s *Scheduler) WatchList() []model.Auction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Auction, len(s.watch))
	copy(out, s.watch)
	return out
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	switch strings.ToLower(fields[0]) {
	case "/status":
		st := s.Status()
		return notifier.FormatStatus(&st)
	case "/start":
		s.session.Start()
		return "▶️ Trading started"
	case "/stop":
		s.session.Stop()
		return "⏹ Trading stopped"
	case "/ledger":
		return notifier.FormatLedger(s.Ledger(), 20)
	default:
		return helpText
	}
}

const helpText = "Available commands:\n• /status\n• /start\n• /stop\n• /ledger"

// RegisterReports schedules the periodic status report. cronSpec uses the
// six-field format with seconds.
func (s *Scheduler) RegisterReports(ctx context.Context, cronSpec string) error {
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(cronSpec, func() { s.report(ctx) }); err != nil {
		return fmt.Errorf("register status report: %w", err)
	}
	s.cron = c
	return nil
}

// StartReports starts the report cron, if registered.
func (s *Scheduler) StartReports() {
	if s.cron != nil {
		s.cron.Start()
		s.logger.Info("report cron started")
	}
}

// StopReports stops the report cron and waits for a running report.
func (s *Scheduler) StopReports() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		s.logger.Info("report cron stopped")
	}
}

func (s *Scheduler) report(ctx context.Context) {
	st := s.Status()
	s.notify(ctx, notifier.FormatStatus(&st))
}

func (s *Scheduler) notify(ctx context.Context, text string) {
	if err := s.notifier.Notify(ctx, text); err != nil {
		s.logger.Error("send notification", zap.Error(err))
	}
}

// logf writes one line to the activity log and the structured log.
func (s *Scheduler) logf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	s.session.Log(line)
	s.logger.Info(line)
}
