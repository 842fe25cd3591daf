package market

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"BidSentinel/internal/model"
)

// SimBid is one bid the simulator accepted or rejected.
type SimBid struct {
	TradeID  int64
	Price    int
	Accepted bool
}

type simListing struct {
	auction   model.Auction
	expiresAt time.Time
	watched   bool
}

// Simulator is an in-memory marketplace used for dry runs and tests. It
// implements Client.
type Simulator struct {
	mu       sync.Mutex
	now      func() time.Time
	balance  int
	listings map[int64]*simListing
	nextID   int64

	tradePile  []int64
	unassigned []int64
	bids       []SimBid
	calls      map[string]int
	loggedOut  bool

	// WatchListFailures makes the next n WatchList calls fail with ErrNetwork.
	WatchListFailures int
	// RateLimitAfter makes every call fail with ErrRateLimited once this many
	// calls have been served. Zero disables it.
	RateLimitAfter int
	// SessionExpired makes every call fail with ErrSession.
	SessionExpired bool
}

// NewSimulator creates a Simulator. A nil now uses time.Now.
func NewSimulator(balance int, now func() time.Time) *Simulator {
	if now == nil {
		now = time.Now
	}
	return &Simulator{
		now:      now,
		balance:  balance,
		listings: make(map[int64]*simListing),
		nextID:   1000,
		calls:    make(map[string]int),
	}
}

func (s *Simulator) Name() string { return "simulator" }

// AddListing lists an auction. Missing trade and item ids are assigned; the
// expiry is measured from the simulator clock. It returns the trade id.
func (s *Simulator) AddListing(a model.Auction) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.TradeID == 0 {
		s.nextID++
		a.TradeID = s.nextID
	}
	if a.ItemID == 0 {
		a.ItemID = a.TradeID * 10
	}
	if a.BidState == "" {
		a.BidState = model.BidNone
	}
	if a.TradeState == "" {
		a.TradeState = model.TradeActive
	}
	watched := a.BidState != model.BidNone
	s.listings[a.TradeID] = &simListing{
		auction:   a,
		expiresAt: s.now().Add(time.Duration(a.ExpiresIn) * time.Second),
		watched:   watched,
	}
	return a.TradeID
}

// Seed lists perTarget random auctions for every target, priced around the
// target's ceiling.
func (s *Simulator) Seed(targets []model.Target, perTarget int, rng *rand.Rand) {
	for _, t := range targets {
		for i := 0; i < perTarget; i++ {
			start := t.MaxPrice/2 + rng.IntN(t.MaxPrice/2+1)
			a := model.Auction{
				AssetID:     t.ItemID,
				Name:        model.UnknownName{AssetID: t.ItemID},
				StartingBid: start,
				ExpiresIn:   30 + rng.IntN(7200),
			}
			if rng.IntN(4) == 0 {
				a.BuyNowPrice = start + rng.IntN(t.MaxPrice/2+1)
			}
			s.AddListing(a)
		}
	}
}

// Outbid simulates a rival bid on tradeID.
func (s *Simulator) Outbid(tradeID int64, price int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.listings[tradeID]; ok {
		l.auction.CurrentBid = price
		if l.auction.BidState == model.BidHighest {
			l.auction.BidState = model.BidOutbid
		}
	}
}

func (s *Simulator) KeepAlive(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.serve("keepalive"); err != nil {
		return 0, err
	}
	return s.balance, nil
}

func (s *Simulator) Search(ctx context.Context, q SearchQuery) ([]model.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.serve("search"); err != nil {
		return nil, err
	}

	var matches []model.Auction
	for _, l := range s.listings {
		a := s.snapshot(l)
		if a.AssetID != q.AssetID || a.Closed() {
			continue
		}
		if q.MaxPrice > 0 && a.CurrentPrice() > q.MaxPrice {
			continue
		}
		if q.MaxBuyNow > 0 && (a.BuyNowPrice == 0 || a.BuyNowPrice > q.MaxBuyNow) {
			continue
		}
		matches = append(matches, a)
	}
	sortByExpiry(matches)

	if q.Start >= len(matches) {
		return nil, nil
	}
	end := q.Start + PageSize
	if end > len(matches) {
		end = len(matches)
	}
	return matches[q.Start:end], nil
}

func (s *Simulator) Bid(ctx context.Context, tradeID int64, price int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.serve("bid"); err != nil {
		return err
	}

	l, ok := s.listings[tradeID]
	if !ok {
		s.bids = append(s.bids, SimBid{TradeID: tradeID, Price: price})
		return fmt.Errorf("%w: trade %d not found", ErrRejectedBid, tradeID)
	}
	a := s.snapshot(l)
	if err := s.checkBid(a, price); err != nil {
		s.bids = append(s.bids, SimBid{TradeID: tradeID, Price: price})
		return err
	}
	s.bids = append(s.bids, SimBid{TradeID: tradeID, Price: price, Accepted: true})

	l.auction.CurrentBid = price
	l.auction.BidState = model.BidHighest
	if a.BuyNowPrice > 0 && price >= a.BuyNowPrice {
		// Bought outright: the item skips the watch list.
		l.auction.TradeState = model.TradeClosed
		l.watched = false
		s.balance -= price
		s.unassigned = append(s.unassigned, a.ItemID)
		return nil
	}
	l.watched = true
	return nil
}

func (s *Simulator) checkBid(a model.Auction, price int) error {
	switch {
	case a.Closed():
		return fmt.Errorf("%w: trade %d closed", ErrRejectedBid, a.TradeID)
	case a.Highest():
		return fmt.Errorf("%w: already highest bidder on %d", ErrRejectedBid, a.TradeID)
	case price > s.balance:
		return fmt.Errorf("%w: insufficient funds for %d", ErrRejectedBid, price)
	case a.CurrentBid == 0 && price < a.StartingBid:
		return fmt.Errorf("%w: %d below starting bid %d", ErrRejectedBid, price, a.StartingBid)
	case a.CurrentBid != 0 && price <= a.CurrentBid:
		return fmt.Errorf("%w: %d does not beat %d", ErrRejectedBid, price, a.CurrentBid)
	}
	return nil
}

func (s *Simulator) WatchList(ctx context.Context) ([]model.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.serve("watchlist"); err != nil {
		return nil, err
	}
	if s.WatchListFailures > 0 {
		s.WatchListFailures--
		return nil, fmt.Errorf("%w: simulated timeout", ErrNetwork)
	}

	var watch []model.Auction
	for _, l := range s.listings {
		if l.watched {
			watch = append(watch, s.snapshot(l))
		}
	}
	sortByExpiry(watch)
	return watch, nil
}

func (s *Simulator) WatchlistDelete(ctx context.Context, tradeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.serve("watchlist_delete"); err != nil {
		return err
	}
	if l, ok := s.listings[tradeID]; ok {
		l.watched = false
	}
	return nil
}

func (s *Simulator) SendToTradepile(ctx context.Context, itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.serve("tradepile"); err != nil {
		return err
	}
	for _, l := range s.listings {
		if l.auction.ItemID == itemID && l.watched {
			l.watched = false
			s.balance -= l.auction.CurrentBid
		}
	}
	for i, id := range s.unassigned {
		if id == itemID {
			s.unassigned = append(s.unassigned[:i], s.unassigned[i+1:]...)
			break
		}
	}
	s.tradePile = append(s.tradePile, itemID)
	return nil
}

func (s *Simulator) Relist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serve("relist")
}

func (s *Simulator) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["logout"]++
	s.loggedOut = true
	return nil
}

// Bids returns a copy of every bid received.
func (s *Simulator) Bids() []SimBid {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SimBid, len(s.bids))
	copy(out, s.bids)
	return out
}

// Calls returns how many times the named operation was served.
func (s *Simulator) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// TradePile returns the item ids moved to the trade pile.
func (s *Simulator) TradePile() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, len(s.tradePile))
	copy(out, s.tradePile)
	return out
}

// Unassigned returns the item ids bought outright and not yet moved to the
// trade pile.
func (s *Simulator) Unassigned() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, len(s.unassigned))
	copy(out, s.unassigned)
	return out
}

// Watched reports whether tradeID is on the watch list.
func (s *Simulator) Watched(tradeID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[tradeID]
	return ok && l.watched
}

// LoggedOut reports whether Logout was called.
func (s *Simulator) LoggedOut() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedOut
}

// serve counts the call and applies the configured failure modes. Callers hold mu.
func (s *Simulator) serve(op string) error {
	if s.SessionExpired {
		return fmt.Errorf("%w: %s", ErrSession, op)
	}
	total := 0
	for _, n := range s.calls {
		total += n
	}
	if s.RateLimitAfter > 0 && total >= s.RateLimitAfter {
		return fmt.Errorf("%w: %s", ErrRateLimited, op)
	}
	s.calls[op]++
	return nil
}

// snapshot derives the point-in-time view of a listing. Callers hold mu.
func (s *Simulator) snapshot(l *simListing) model.Auction {
	a := l.auction
	remaining := l.expiresAt.Sub(s.now())
	if remaining <= 0 {
		a.ExpiresIn = 0
		a.TradeState = model.TradeClosed
	} else {
		a.ExpiresIn = int(remaining / time.Second)
	}
	return a
}

func sortByExpiry(auctions []model.Auction) {
	sort.SliceStable(auctions, func(i, j int) bool {
		if auctions[i].ExpiresIn != auctions[j].ExpiresIn {
			return auctions[i].ExpiresIn < auctions[j].ExpiresIn
		}
		return auctions[i].TradeID < auctions[j].TradeID
	})
}
