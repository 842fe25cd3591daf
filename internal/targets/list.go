package targets

import (
	"math/rand/v2"
	"sort"
	"sync"

	"BidSentinel/internal/model"
)

// List holds the items to pursue and their per-item max price. Entries can be
// added or overwritten but never removed.
type List struct {
	mu      sync.RWMutex
	entries map[int64]int
}

// NewList creates a List seeded with the given targets. Later duplicates win.
func NewList(seed []model.Target) *List {
	l := &List{entries: make(map[int64]int, len(seed))}
	for _, t := range seed {
		l.Add(t.ItemID, t.MaxPrice)
	}
	return l
}

// Add sets the max price for itemID, replacing any existing entry.
func (l *List) Add(itemID int64, maxPrice int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[itemID] = maxPrice
}

// MaxPrice returns the configured ceiling for itemID. Untracked items get 0,
// which makes every bid on them too expensive.
func (l *List) MaxPrice(itemID int64) (int, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.entries[itemID]
	return p, ok
}

// All returns every target ordered by item id.
func (l *List) All() []model.Target {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.Target, 0, len(l.entries))
	for id, p := range l.entries {
		out = append(out, model.Target{ItemID: id, MaxPrice: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

// Len returns the number of targets.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Random picks one target uniformly. ok is false when the list is empty.
func (l *List) Random(rng *rand.Rand) (model.Target, bool) {
	all := l.All()
	if len(all) == 0 {
		return model.Target{}, false
	}
	return all[rng.IntN(len(all))], true
}
