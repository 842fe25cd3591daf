package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"BidSentinel/internal/market"
	"BidSentinel/internal/model"
	"BidSentinel/internal/notifier"
	"BidSentinel/internal/recorder"
	"BidSentinel/internal/strategy"
)

type bidOutcome int

const (
	bidThrottled bidOutcome = iota // quota spent, nothing sent
	bidFailed
	bidPlaced
)

// sweepWatchList applies the outcome resolver to every watched auction. An
// aggressive sweep stops after the first auction past the aggressive cutoff
// and skips the closing pause.
func (s *Scheduler) sweepWatchList(ctx context.Context, watch []model.Auction, aggressive bool, mode model.TradeMode) error {
	s.logf("Searching watch list for actions...")
	for _, a := range watch {
		if !s.session.Enabled() {
			return nil
		}
		maxPrice, _ := s.targets.MaxPrice(a.AssetID)
		d := strategy.Resolve(a, maxPrice)
		name := a.DisplayName()

		switch d.Action {
		case strategy.ActionRemove:
			s.logf("%s: %s, removing from watch list", name, d.Reason)
			if err := s.absorb("watch list delete", s.client.WatchlistDelete(ctx, a.TradeID)); err != nil {
				return err
			}
		case strategy.ActionWin:
			s.logf("Won auction! Sending %s to trade pile", name)
			if err := s.claim(ctx, a, d.Price, mode); err != nil {
				return err
			}
		case strategy.ActionBid:
			outcome, err := s.placeBid(ctx, a, d.Price, mode)
			if err != nil {
				return err
			}
			if outcome == bidThrottled {
				return nil
			}
			if err := s.pause(ctx, s.timing.BidPause); err != nil {
				return err
			}
		default:
			s.logger.Debug("no action", zap.Int64("trade_id", a.TradeID), zap.String("reason", d.Reason))
		}

		if aggressive && strategy.PastAggressiveCutoff(a) {
			s.logger.Debug("aggressive sweep past cutoff", zap.Int("expires_in", a.ExpiresIn))
			break
		}
	}
	if aggressive {
		return nil
	}
	s.logf("Waiting...")
	return s.pause(ctx, s.timing.SweepPause)
}

// searchTargets pages through the market for every target item and places
// opening bids on auctions that qualify.
func (s *Scheduler) searchTargets(ctx context.Context, mode model.TradeMode) error {
	for _, t := range s.targets.All() {
		if !s.session.Enabled() {
			return nil
		}
		more, err := s.searchTarget(ctx, t, mode)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		s.logger.Debug("target searched", zap.Int64("item_id", t.ItemID))
		if err := s.pause(ctx, s.timing.TargetPause); err != nil {
			return err
		}
	}
	return nil
}

// searchTarget sweeps one target. It reports false once the quota is spent.
// Paging ends on a short page or at the first auction beyond the bid
// horizon, since results arrive ordered by expiry.
func (s *Scheduler) searchTarget(ctx context.Context, t model.Target, mode model.TradeMode) (bool, error) {
	for start := 0; ; start += market.PageSize {
		if !s.session.Enabled() {
			return true, nil
		}
		if !s.spend(1) {
			return false, nil
		}
		page, err := s.client.Search(ctx, market.SearchQuery{AssetID: t.ItemID, Start: start, MaxPrice: t.MaxPrice})
		if err != nil {
			return true, s.absorb("search", err)
		}

		for _, a := range page {
			if a.ExpiresIn >= strategy.BidHorizon {
				s.logf("%s expires in %ds, too early to bid", a.DisplayName(), a.ExpiresIn)
				return true, nil
			}
			price, ok := strategy.OpeningBid(a, t.MaxPrice)
			if !ok {
				continue
			}
			outcome, err := s.placeBid(ctx, a, price, mode)
			if err != nil {
				return true, err
			}
			if outcome == bidThrottled {
				return false, nil
			}
			if err := s.pause(ctx, s.timing.BidPause); err != nil {
				return true, err
			}
		}
		if len(page) < market.PageSize {
			return true, nil
		}
	}
}

// buyNow repeatedly searches one random target for instant-buy listings
// within its ceiling and buys every one found. It ends when trading stops, the
// quota is spent, the maximum duration passes or the next watched auction
// is about to need attention.
func (s *Scheduler) buyNow(ctx context.Context, nextExpiry int) error {
	t, ok := s.targets.Random(s.rng)
	if !ok {
		return nil
	}
	s.logf("Buy-now search for item %d up to %d", t.ItemID, t.MaxPrice)
	started := s.now()
	horizon := time.Duration(nextExpiry)*time.Second - s.timing.BuyNowExpiryMargin
	searches := 0

	for s.session.Enabled() {
		elapsed := s.now().Sub(started)
		if elapsed > horizon || elapsed > s.timing.BuyNowMaxDuration {
			return nil
		}
		if !s.spend(1) {
			return nil
		}
		found, err := s.client.Search(ctx, market.SearchQuery{AssetID: t.ItemID, MaxBuyNow: t.MaxPrice})
		if err := s.absorb("buy-now search", err); err != nil {
			return err
		}
		for _, a := range found {
			if a.BuyNowPrice <= 0 || a.BuyNowPrice > t.MaxPrice {
				s.logger.Debug("buy-now listing outside ceiling",
					zap.Int64("trade_id", a.TradeID), zap.Int("buy_now", a.BuyNowPrice), zap.Int("max_price", t.MaxPrice))
				continue
			}
			s.logf("Found %s for %d", a.DisplayName(), a.BuyNowPrice)
			outcome, err := s.placeBid(ctx, a, a.BuyNowPrice, model.ModeBuyNow)
			if err != nil {
				return err
			}
			switch outcome {
			case bidThrottled:
				return nil
			case bidPlaced:
				if err := s.claim(ctx, a, a.BuyNowPrice, model.ModeBuyNow); err != nil {
					return err
				}
			}
		}

		if err := s.pause(ctx, s.timing.BuyNowSearchPause); err != nil {
			return err
		}
		searches++
		if searches >= s.timing.BuyNowSearchLimit {
			if err := s.wait(ctx, s.timing.BuyNowRest); err != nil {
				return err
			}
			searches = 0
		}
	}
	return nil
}

// placeBid sends one bid. Every bid sent consumes one action whatever the
// marketplace answers; a failed bid only ends the sweep when the session is
// gone.
func (s *Scheduler) placeBid(ctx context.Context, a model.Auction, price int, mode model.TradeMode) (bidOutcome, error) {
	if !s.spend(1) {
		return bidThrottled, nil
	}
	name := a.DisplayName()
	s.logf("Attempting to bid on %s for %d", name, price)
	err := s.client.Bid(ctx, a.TradeID, price)

	evt := &recorder.BidEvent{
		SessionID: s.session.ID,
		TradeID:   a.TradeID,
		AssetID:   a.AssetID,
		Price:     price,
		Mode:      mode,
		Accepted:  err == nil,
	}
	if err != nil {
		evt.Err = err.Error()
	}
	if rerr := s.recorder.RecordBid(evt); rerr != nil {
		s.logger.Error("record bid", zap.Error(rerr))
	}

	if err != nil {
		s.logf("Bid on %s failed", name)
		return bidFailed, s.absorb("bid", err)
	}
	s.logf("Bid on %s successful", name)
	return bidPlaced, nil
}

// claim adds a won or bought item to the ledger once and moves it to the
// trade pile.
func (s *Scheduler) claim(ctx context.Context, a model.Auction, price int, mode model.TradeMode) error {
	s.mu.Lock()
	seen := s.won[a.TradeID]
	var entry model.LedgerEntry
	if !seen {
		s.won[a.TradeID] = true
		entry = model.LedgerEntry{
			ID:         uuid.NewString(),
			SessionID:  s.session.ID,
			TradeID:    a.TradeID,
			ItemID:     a.ItemID,
			AssetID:    a.AssetID,
			Name:       a.DisplayName(),
			Price:      price,
			Mode:       mode,
			ResolvedAt: s.now(),
		}
		s.ledger = append(s.ledger, entry)
	}
	s.mu.Unlock()

	if !seen {
		s.logger.Info("item acquired",
			zap.Int64("trade_id", a.TradeID), zap.Int("price", price), zap.String("mode", string(mode)))
		if err := s.recorder.RecordWin(&entry); err != nil {
			s.logger.Error("record win", zap.Error(err))
		}
		s.notify(ctx, notifier.FormatWin(&entry))
	}
	return s.absorb("send to trade pile", s.client.SendToTradepile(ctx, a.ItemID))
}
