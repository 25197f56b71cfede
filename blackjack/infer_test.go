package blackjack

import (
	"testing"

	"cardsight/card"
	"cardsight/vision"
)

// AllCleared 在所有阶段都透传: AwaitingSetup 也可能持有未发完的牌,
// 扫台必须触发重置 (双手皆空的退化情形由状态机幂等处理)。
func TestInfer_AllClearedEmittedInEveryPhase(t *testing.T) {
	deltas := []vision.Delta{{Kind: vision.DeltaAllCleared}}
	for phase := range PhaseDictionary {
		evs := Infer(deltas, phase)
		if len(evs) != 1 || evs[0].Type != EventTableCleared {
			t.Fatalf("phase %v: expected TableCleared, got %v", phase, evs)
		}
	}
}

func TestInfer_PlayerAddByPhase(t *testing.T) {
	deltas := []vision.Delta{{Kind: vision.DeltaAdded, Zone: vision.ZonePlayer, Card: card.CardSpadeK}}

	for _, phase := range []Phase{PhaseAwaitingSetup, PhasePlayerTurn} {
		evs := Infer(deltas, phase)
		if len(evs) != 1 || evs[0].Type != EventCardAdded || evs[0].Zone != vision.ZonePlayer {
			t.Fatalf("phase %v: expected player CardAdded, got %v", phase, evs)
		}
	}
	for _, phase := range []Phase{PhaseDealerTurn, PhaseRoundComplete} {
		if evs := Infer(deltas, phase); len(evs) != 0 {
			t.Fatalf("phase %v: player add should be ignored, got %v", phase, evs)
		}
	}
}

func TestInfer_DealerAddByPhase(t *testing.T) {
	deltas := []vision.Delta{{Kind: vision.DeltaAdded, Zone: vision.ZoneDealer, Card: card.CardHeart9}}

	for _, phase := range []Phase{PhaseAwaitingSetup, PhasePlayerTurn, PhaseDealerTurn} {
		evs := Infer(deltas, phase)
		if len(evs) != 1 || evs[0].Type != EventCardAdded || evs[0].Zone != vision.ZoneDealer {
			t.Fatalf("phase %v: expected dealer CardAdded, got %v", phase, evs)
		}
	}
	if evs := Infer(deltas, PhaseRoundComplete); len(evs) != 0 {
		t.Fatalf("dealer add after round complete should be ignored, got %v", evs)
	}
}

// removed 不驱动任何事件 (拿起未放回不算动作)。
func TestInfer_RemovedProducesNothing(t *testing.T) {
	deltas := []vision.Delta{
		{Kind: vision.DeltaRemoved, Zone: vision.ZonePlayer, Card: card.CardSpadeK},
		{Kind: vision.DeltaRemoved, Zone: vision.ZoneDealer, Card: card.CardHeart9},
	}
	for phase := range PhaseDictionary {
		if evs := Infer(deltas, phase); len(evs) != 0 {
			t.Fatalf("phase %v: removed deltas produced events: %v", phase, evs)
		}
	}
}

func TestInfer_UnknownZoneIgnored(t *testing.T) {
	deltas := []vision.Delta{{Kind: vision.DeltaAdded, Zone: vision.ZoneUnknown, Card: card.CardClub2}}
	for phase := range PhaseDictionary {
		if evs := Infer(deltas, phase); len(evs) != 0 {
			t.Fatalf("phase %v: unknown-zone add produced events: %v", phase, evs)
		}
	}
}
