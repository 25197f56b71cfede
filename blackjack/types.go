package blackjack

import (
	"cardsight/card"
	"cardsight/vision"
)

// Phase 游戏阶段
type Phase byte

const (
	PhaseAwaitingSetup Phase = 0
	PhasePlayerTurn    Phase = 1
	PhaseDealerTurn    Phase = 2
	PhaseRoundComplete Phase = 3
)

var PhaseDictionary = map[Phase]string{
	PhaseAwaitingSetup: "awaiting_setup",
	PhasePlayerTurn:    "player_turn",
	PhaseDealerTurn:    "dealer_turn",
	PhaseRoundComplete: "round_complete",
}

func (p Phase) String() string {
	if s, ok := PhaseDictionary[p]; ok {
		return s
	}
	return "invalid"
}

// EventType 事件类型
type EventType byte

const (
	EventCardAdded    EventType = 1
	EventTableCleared EventType = 2
)

var EventTypeDictionary = map[EventType]string{
	EventCardAdded:    "card_added",
	EventTableCleared: "table_cleared",
}

func (t EventType) String() string {
	if s, ok := EventTypeDictionary[t]; ok {
		return s
	}
	return "invalid"
}

// GameEvent is one discrete inferred action, consumed exactly once by the
// state machine. Zone and Card are only set for EventCardAdded.
type GameEvent struct {
	Type EventType
	Zone vision.Zone
	Card card.Card
}

func CardAdded(zone vision.Zone, c card.Card) GameEvent {
	return GameEvent{Type: EventCardAdded, Zone: zone, Card: c}
}

func TableCleared() GameEvent {
	return GameEvent{Type: EventTableCleared}
}
