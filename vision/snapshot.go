package vision

import (
	"sort"

	"cardsight/card"
)

// TableSnapshot is the engine's current belief about which cards are stably
// present in which zone. Snapshots are immutable once built: the Normalizer
// replaces the whole value on every stable update, never edits one in place.
type TableSnapshot struct {
	zones map[Zone]card.CardList
}

// NewTableSnapshot builds a snapshot from a zone mapping. Card lists are
// copied and sorted so that equal occupancy always compares equal.
func NewTableSnapshot(zones map[Zone]card.CardList) *TableSnapshot {
	s := &TableSnapshot{zones: make(map[Zone]card.CardList, len(zones))}
	for z, cards := range zones {
		if len(cards) == 0 {
			continue
		}
		cp := cards.Clone()
		sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
		s.zones[z] = cp
	}
	return s
}

func EmptySnapshot() *TableSnapshot {
	return &TableSnapshot{zones: map[Zone]card.CardList{}}
}

// Cards 返回该区域的稳定牌组 (副本)。
func (s *TableSnapshot) Cards(z Zone) card.CardList {
	return s.zones[z].Clone()
}

func (s *TableSnapshot) Contains(z Zone, c card.Card) bool {
	return s.zones[z].Contains(c)
}

func (s *TableSnapshot) Empty() bool {
	for _, cards := range s.zones {
		if len(cards) > 0 {
			return false
		}
	}
	return true
}

func (s *TableSnapshot) Count() int {
	n := 0
	for _, cards := range s.zones {
		n += len(cards)
	}
	return n
}

func (s *TableSnapshot) Equal(other *TableSnapshot) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.zones) != len(other.zones) {
		return false
	}
	for z, cards := range s.zones {
		oc, ok := other.zones[z]
		if !ok || len(oc) != len(cards) {
			return false
		}
		for i := range cards {
			if cards[i] != oc[i] {
				return false
			}
		}
	}
	return true
}
