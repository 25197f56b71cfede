package vision

import (
	"sort"

	"cardsight/card"
)

// DeltaKind 占位变化类型
type DeltaKind byte

const (
	DeltaAdded DeltaKind = iota + 1
	DeltaRemoved
	// DeltaAllCleared marks a non-empty table going fully empty. Emitted
	// alone, never alongside per-card removals.
	DeltaAllCleared
)

var DeltaKindDictionary = map[DeltaKind]string{
	DeltaAdded:      "added",
	DeltaRemoved:    "removed",
	DeltaAllCleared: "all_cleared",
}

func (k DeltaKind) String() string {
	if s, ok := DeltaKindDictionary[k]; ok {
		return s
	}
	return "invalid"
}

// Delta is one occupancy change between two consecutive stable snapshots.
type Delta struct {
	Kind DeltaKind
	Zone Zone
	Card card.Card
}

// Diff computes the minimal delta set between two stable snapshots.
//
// 规则:
// - 同区域同牌不产生 delta (幂等)。
// - 换区的牌先在旧区产生 removed, 再在新区产生 added;
//   顺序有意义, 事件推理以"进区"为动作信号。
// - 非空 -> 空 只产生一条 AllCleared。
func Diff(prev, next *TableSnapshot) []Delta {
	if prev == nil {
		prev = EmptySnapshot()
	}
	if next == nil {
		next = EmptySnapshot()
	}
	if next.Empty() {
		if prev.Empty() {
			return nil
		}
		return []Delta{{Kind: DeltaAllCleared}}
	}

	var removed, added []Delta
	for _, zone := range []Zone{ZoneUnknown, ZonePlayer, ZoneDealer} {
		for _, c := range prev.Cards(zone) {
			if !next.Contains(zone, c) {
				removed = append(removed, Delta{Kind: DeltaRemoved, Zone: zone, Card: c})
			}
		}
		for _, c := range next.Cards(zone) {
			if !prev.Contains(zone, c) {
				added = append(added, Delta{Kind: DeltaAdded, Zone: zone, Card: c})
			}
		}
	}

	sortDeltas(removed)
	sortDeltas(added)
	return append(removed, added...)
}

// sortDeltas keeps delta order deterministic for replay.
func sortDeltas(ds []Delta) {
	sort.Slice(ds, func(i, j int) bool {
		if ds[i].Zone != ds[j].Zone {
			return ds[i].Zone < ds[j].Zone
		}
		return ds[i].Card < ds[j].Card
	})
}
