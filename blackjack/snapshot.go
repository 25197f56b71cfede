package blackjack

import "cardsight/card"

// Snapshot is a deep copy of the game state for inspection and broadcast.
type Snapshot struct {
	Round   uint16
	Phase   Phase
	Outcome Outcome

	PlayerCards card.CardList
	PlayerTotal int
	PlayerSoft  bool

	DealerCards card.CardList
	DealerTotal int
	DealerSoft  bool
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	playerTotal, playerSoft := g.player.Total()
	dealerTotal, dealerSoft := g.dealer.Total()
	return Snapshot{
		Round:       g.round,
		Phase:       g.phase,
		Outcome:     g.outcome,
		PlayerCards: g.player.Cards(),
		PlayerTotal: playerTotal,
		PlayerSoft:  playerSoft,
		DealerCards: g.dealer.Cards(),
		DealerTotal: dealerTotal,
		DealerSoft:  dealerSoft,
	}
}
