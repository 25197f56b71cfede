package vision

import (
	"testing"

	"cardsight/card"
)

func snapshotOf(zones map[Zone]card.CardList) *TableSnapshot {
	return NewTableSnapshot(zones)
}

func TestDiff_IdenticalSnapshotsNoDeltas(t *testing.T) {
	a := snapshotOf(map[Zone]card.CardList{
		ZonePlayer: {card.CardSpadeK, card.CardHeart7},
		ZoneDealer: {card.CardClub9},
	})
	b := snapshotOf(map[Zone]card.CardList{
		ZonePlayer: {card.CardHeart7, card.CardSpadeK}, // other insertion order
		ZoneDealer: {card.CardClub9},
	})
	if ds := Diff(a, b); len(ds) != 0 {
		t.Fatalf("expected no deltas for equal occupancy, got %v", ds)
	}
}

func TestDiff_AddedCard(t *testing.T) {
	prev := snapshotOf(map[Zone]card.CardList{ZonePlayer: {card.CardSpadeK}})
	next := snapshotOf(map[Zone]card.CardList{ZonePlayer: {card.CardSpadeK, card.CardHeart7}})

	ds := Diff(prev, next)
	if len(ds) != 1 {
		t.Fatalf("expected 1 delta, got %v", ds)
	}
	want := Delta{Kind: DeltaAdded, Zone: ZonePlayer, Card: card.CardHeart7}
	if ds[0] != want {
		t.Fatalf("got %v, want %v", ds[0], want)
	}
}

// 换区: 必须先 removed(旧区) 再 added(新区)。
func TestDiff_ZoneMoveOrdering(t *testing.T) {
	prev := snapshotOf(map[Zone]card.CardList{ZonePlayer: {card.CardSpadeA}})
	next := snapshotOf(map[Zone]card.CardList{ZoneDealer: {card.CardSpadeA}})

	ds := Diff(prev, next)
	if len(ds) != 2 {
		t.Fatalf("expected 2 deltas, got %v", ds)
	}
	if ds[0].Kind != DeltaRemoved || ds[0].Zone != ZonePlayer {
		t.Fatalf("first delta must be removed from old zone, got %v", ds[0])
	}
	if ds[1].Kind != DeltaAdded || ds[1].Zone != ZoneDealer {
		t.Fatalf("second delta must be added to new zone, got %v", ds[1])
	}
}

func TestDiff_AllCleared(t *testing.T) {
	prev := snapshotOf(map[Zone]card.CardList{
		ZonePlayer: {card.CardSpadeK},
		ZoneDealer: {card.CardClub9},
	})

	ds := Diff(prev, EmptySnapshot())
	if len(ds) != 1 || ds[0].Kind != DeltaAllCleared {
		t.Fatalf("expected single AllCleared delta, got %v", ds)
	}

	// empty -> empty 不产生任何 delta
	if ds := Diff(EmptySnapshot(), EmptySnapshot()); len(ds) != 0 {
		t.Fatalf("empty to empty produced deltas: %v", ds)
	}
}

func TestDiff_NilSnapshotsTreatedEmpty(t *testing.T) {
	next := snapshotOf(map[Zone]card.CardList{ZonePlayer: {card.CardSpade2}})
	ds := Diff(nil, next)
	if len(ds) != 1 || ds[0].Kind != DeltaAdded {
		t.Fatalf("nil prev should act as empty, got %v", ds)
	}
	if ds := Diff(nil, nil); len(ds) != 0 {
		t.Fatalf("nil to nil produced deltas: %v", ds)
	}
}

func TestDiff_Deterministic(t *testing.T) {
	prev := EmptySnapshot()
	next := snapshotOf(map[Zone]card.CardList{
		ZonePlayer: {card.CardHeart7, card.CardSpadeK, card.CardClub2},
		ZoneDealer: {card.CardDiamond9},
	})
	first := Diff(prev, next)
	for i := 0; i < 10; i++ {
		again := Diff(prev, next)
		if len(again) != len(first) {
			t.Fatalf("delta count varies between runs")
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("delta order varies between runs: %v vs %v", first, again)
			}
		}
	}
}
