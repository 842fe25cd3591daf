package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"BidSentinel/internal/market"
	"BidSentinel/internal/model"
	"BidSentinel/internal/notifier"
	"BidSentinel/internal/recorder"
	"BidSentinel/internal/strategy"
)

var errCoinLimit = errors.New("balance at coin limit")

// Serve runs the trading loop every time trading is started, returning to
// wait after each stop. It returns nil when ctx ends and the error when the
// marketplace session becomes invalid.
func (s *Scheduler) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.session.Started():
		}
		err := s.Run(ctx)
		switch {
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, market.ErrSession):
			return err
		case err != nil:
			s.logger.Error("trading loop ended", zap.Error(err))
		}
	}
}

// Run warms up and then cycles until trading is stopped, the balance reaches
// the coin limit, ctx ends or the session becomes invalid. Recoverable
// failures are logged and retried on the next cycle.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.session.Enabled() {
		s.setState(StateStopped)
		return nil
	}
	s.setState(StateWarmingUp)
	if err := s.warmUp(ctx); err != nil {
		return s.finish(err)
	}
	s.setState(StateRunning)

	for {
		if err := ctx.Err(); err != nil {
			return s.finish(err)
		}
		if !s.session.Enabled() {
			return s.finish(nil)
		}
		if s.budget.ShouldThrottle() {
			if err := s.cooldown(ctx); err != nil {
				return s.finish(err)
			}
			continue
		}

		err := s.cycle(ctx)
		if errors.Is(err, errCoinLimit) {
			s.logf("Balance %d reached coin limit %d, stopping", s.session.Balance(), s.coinLimit)
			return s.finish(nil)
		}
		if err := s.absorb("cycle", err); err != nil {
			return s.finish(err)
		}
		if err := s.pause(ctx, s.timing.CyclePause); err != nil {
			return s.finish(err)
		}
	}
}

// finish moves to STOPPED and clears the trading flag.
func (s *Scheduler) finish(err error) error {
	s.session.Stop()
	s.setState(StateStopped)
	if err != nil && !fatalCtx(err) {
		s.logf("Trading stopped: %v", err)
		s.setLastErr(err)
	} else {
		s.logf("Trading stopped")
	}
	return err
}

func (s *Scheduler) warmUp(ctx context.Context) error {
	s.logf("Warming up...")
	balance, err := s.client.KeepAlive(ctx)
	if err := s.absorb("keep alive", err); err != nil {
		return err
	}
	if err == nil {
		s.session.SetBalance(balance)
	}

	if err := s.searchTargets(ctx, model.ModePassive); err != nil {
		return err
	}
	s.logf("Done adding items to the watch list")

	if now := s.now(); s.budget.WindowExpired(now) {
		s.budget.Reset(now)
	}
	s.logf("Relisting...")
	return s.absorb("relist", s.client.Relist(ctx))
}

// cycle performs one refresh-decide-act pass.
func (s *Scheduler) cycle(ctx context.Context) error {
	if !s.spend(1) {
		return nil
	}
	balance, err := s.client.KeepAlive(ctx)
	if err != nil {
		return fmt.Errorf("keep alive: %w", err)
	}
	s.session.SetBalance(balance)
	if balance <= s.coinLimit {
		return errCoinLimit
	}

	watch, err := market.FetchWatchList(ctx, s.client, s.timing.WatchListAttempts, s.timing.WatchListDelay, s.session.Stopped(), s.logger)
	if err != nil {
		return err
	}

	if now := s.now(); s.budget.WindowExpired(now) {
		s.logf("Relisting...")
		if err := s.absorb("relist", s.client.Relist(ctx)); err != nil {
			return err
		}
		s.budget.Reset(now)
	}

	next := strategy.NextExpiry(watch)
	mode := strategy.SelectMode(next, s.budget.Count())
	s.mu.Lock()
	s.watch = watch
	s.nextExpiry = next
	s.mode = mode
	s.lastCycle = s.now()
	s.mu.Unlock()

	s.logger.Debug("cycle",
		zap.String("mode", string(mode)), zap.Int("balance", balance),
		zap.Int("actions", s.budget.Count()), zap.Int("next_expiry", next), zap.Int("watch_list", len(watch)))
	if err := s.recorder.RecordCycle(&recorder.CycleEvent{
		SessionID:     s.session.ID,
		Mode:          mode,
		Balance:       balance,
		ActionCount:   s.budget.Count(),
		NextExpiry:    next,
		WatchListSize: len(watch),
	}); err != nil {
		s.logger.Error("record cycle", zap.Error(err))
	}

	switch mode {
	case model.ModeAggressive:
		s.logf("Going aggressive")
		return s.sweepWatchList(ctx, watch, true, mode)
	case model.ModeBuyNow:
		return s.buyNow(ctx, next)
	default:
		if err := s.sweepWatchList(ctx, watch, false, mode); err != nil {
			return err
		}
		return s.searchTargets(ctx, mode)
	}
}

// cooldown waits out the action window and starts a fresh one. A stop
// request ends the wait early and leaves the count untouched.
func (s *Scheduler) cooldown(ctx context.Context) error {
	s.setState(StateCooldown)
	count := s.budget.Count()
	wait := s.budget.TimeUntilReset(s.now())
	s.logf("Action quota reached (%d), sleeping %s", count, wait.Round(time.Second))
	if err := s.recorder.RecordThrottle(&recorder.ThrottleEvent{SessionID: s.session.ID, Count: count, Wait: wait}); err != nil {
		s.logger.Error("record throttle", zap.Error(err))
	}
	s.notify(ctx, notifier.FormatThrottle(count, wait))

	if err := s.wait(ctx, wait); err != nil {
		return err
	}
	if !s.session.Enabled() {
		return nil
	}
	s.budget.Reset(s.now())
	s.setState(StateRunning)
	return nil
}

// spend consumes n actions unless the quota is already used up.
func (s *Scheduler) spend(n int) bool {
	if s.budget.ShouldThrottle() {
		return false
	}
	s.session.SetProgress(s.budget.RecordActions(n))
	return true
}

// absorb handles a marketplace failure. It returns err only when the loop
// must stop: the session is invalid or ctx ended.
func (s *Scheduler) absorb(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, market.ErrSession) || fatalCtx(err) {
		return err
	}
	if errors.Is(err, market.ErrRateLimited) {
		s.budget.Exhaust()
	}
	s.logger.Warn(op+" failed", zap.Error(err))
	s.session.Log(fmt.Sprintf("%s failed: %v", op, err))
	s.setLastErr(err)
	return nil
}

func (s *Scheduler) setLastErr(err error) {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
}

func fatalCtx(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// wait sleeps for d. Stopping trading ends it early; only ctx ending is an
// error.
func (s *Scheduler) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.session.Stopped():
		return nil
	case <-timer.C:
		return nil
	}
}

func (s *Scheduler) pause(ctx context.Context, sp Span) error {
	return s.wait(ctx, sp.pick(s.rng))
}
