package targets

import (
	"math/rand/v2"
	"testing"

	"BidSentinel/internal/model"
)

func TestList_AddOverwrites(t *testing.T) {
	l := NewList([]model.Target{{ItemID: 7, MaxPrice: 1000}, {ItemID: 7, MaxPrice: 1500}})
	if l.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", l.Len())
	}
	if p, _ := l.MaxPrice(7); p != 1500 {
		t.Errorf("seed duplicate: expected 1500, got %d", p)
	}

	l.Add(7, 900)
	if p, _ := l.MaxPrice(7); p != 900 {
		t.Errorf("last write should win, got %d", p)
	}
}

func TestList_MaxPriceMissing(t *testing.T) {
	l := NewList(nil)
	if p, ok := l.MaxPrice(42); ok || p != 0 {
		t.Errorf("expected (0,false) for missing item, got (%d,%v)", p, ok)
	}
}

func TestList_All(t *testing.T) {
	l := NewList([]model.Target{{ItemID: 3, MaxPrice: 30}, {ItemID: 1, MaxPrice: 10}, {ItemID: 2, MaxPrice: 20}})
	all := l.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 targets, got %d", len(all))
	}
	for i, want := range []int64{1, 2, 3} {
		if all[i].ItemID != want || all[i].MaxPrice != int(want)*10 {
			t.Errorf("index %d: unexpected %+v", i, all[i])
		}
	}
}

func TestList_Random(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	if _, ok := NewList(nil).Random(rng); ok {
		t.Error("empty list should not yield a target")
	}
	l := NewList([]model.Target{{ItemID: 5, MaxPrice: 50}, {ItemID: 6, MaxPrice: 60}})
	for i := 0; i < 20; i++ {
		tg, ok := l.Random(rng)
		if !ok {
			t.Fatal("expected a target")
		}
		if p, _ := l.MaxPrice(tg.ItemID); p != tg.MaxPrice {
			t.Fatalf("random target %+v does not match list", tg)
		}
	}
}
