package blackjack

import (
	"fmt"
	"log"
	"sync"

	"cardsight/speech"
	"cardsight/vision"
)

// SetupPrompt is announced whenever a cleared table starts a fresh round.
const SetupPrompt = "New round. Place your cards when ready."

// Game is the authoritative blackjack state machine. It consumes GameEvents
// and emits announcement requests through the configured announce callback.
// 状态流转: AwaitingSetup -> PlayerTurn -> DealerTurn -> RoundComplete
// -> (TableCleared) -> AwaitingSetup。
type Game struct {
	cfg Config

	mu sync.Mutex

	round   uint16
	phase   Phase
	player  Hand
	dealer  Hand
	outcome Outcome

	announce func(speech.Request)
}

func NewGame(cfg Config, announce func(speech.Request)) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if announce == nil {
		announce = func(speech.Request) {}
	}
	return &Game{
		cfg:      cfg,
		phase:    PhaseAwaitingSetup,
		announce: announce,
	}, nil
}

func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

func (g *Game) Outcome() Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.outcome
}

// Advance runs event inference over one delta batch and applies the results,
// re-reading the phase after each delta so a batch that crosses a phase
// boundary is interpreted correctly. Invalid events are logged and skipped.
func (g *Game) Advance(deltas []vision.Delta) []GameEvent {
	var applied []GameEvent
	for _, d := range deltas {
		for _, ev := range Infer([]vision.Delta{d}, g.Phase()) {
			if err := g.Apply(ev); err != nil {
				log.Printf("[Game] dropped %v event: %v", ev.Type, err)
				continue
			}
			applied = append(applied, ev)
		}
	}
	return applied
}

// Apply consumes one game event. Events inconsistent with the current state
// return an InvalidEventError and leave the game untouched; the engine never
// aborts a round over a bad event.
func (g *Game) Apply(ev GameEvent) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch ev.Type {
	case EventTableCleared:
		return g.applyCleared()
	case EventCardAdded:
		return g.applyCardAdded(ev)
	default:
		return ErrInvalidEvent(fmt.Sprintf("unknown event type %d", ev.Type))
	}
}

func (g *Game) applyCleared() error {
	if g.phase == PhaseAwaitingSetup && g.player.Count() == 0 && g.dealer.Count() == 0 {
		return ErrInvalidEvent("table already clear")
	}

	// A clear during the dealer's draw is the settle boundary when the
	// engine is not settling on the stand threshold.
	if g.phase == PhaseDealerTurn && g.outcome == OutcomeNone {
		g.settle()
	}

	g.player.Reset()
	g.dealer.Reset()
	g.outcome = OutcomeNone
	g.phase = PhaseAwaitingSetup
	g.say(SetupPrompt, speech.PriorityImportant, "setup-prompt")
	return nil
}

func (g *Game) applyCardAdded(ev GameEvent) error {
	if g.player.Contains(ev.Card) || g.dealer.Contains(ev.Card) {
		// Detection dropped and re-added a card already in play: a
		// duplicate observation, not a new draw.
		return ErrInvalidEvent(fmt.Sprintf("card %v already in play", ev.Card))
	}

	switch g.phase {
	case PhaseAwaitingSetup:
		return g.setupCard(ev)
	case PhasePlayerTurn:
		return g.playerTurnCard(ev)
	case PhaseDealerTurn:
		return g.dealerTurnCard(ev)
	case PhaseRoundComplete:
		return ErrInvalidEvent(fmt.Sprintf("card %v added after round complete", ev.Card))
	default:
		return ErrInvalidEvent(fmt.Sprintf("card added in unknown phase %d", g.phase))
	}
}

func (g *Game) setupCard(ev GameEvent) error {
	switch ev.Zone {
	case vision.ZonePlayer:
		if g.player.Count() >= g.cfg.InitialPlayerCards {
			return ErrInvalidEvent("player initial deal already satisfied")
		}
		g.player.Add(ev.Card)
	case vision.ZoneDealer:
		if g.dealer.Count() >= g.cfg.InitialDealerCards {
			return ErrInvalidEvent("dealer initial deal already satisfied")
		}
		g.dealer.Add(ev.Card)
	default:
		return ErrInvalidEvent(fmt.Sprintf("card %v in neutral zone", ev.Card))
	}

	if g.player.Count() == g.cfg.InitialPlayerCards && g.dealer.Count() == g.cfg.InitialDealerCards {
		g.completeSetup()
	}
	return nil
}

func (g *Game) completeSetup() {
	g.round++
	g.say("Cards dealt", speech.PriorityImportant, "deal")
	g.say(fmt.Sprintf("Dealer shows %s", g.dealer.Spoken()), speech.PriorityImportant, "dealer-up")

	// Blackjack check happens exactly once, at the setup boundary.
	if g.player.IsBlackjack() {
		g.say("Blackjack! You have 21!", speech.PriorityImportant, "blackjack")
		g.settle()
		return
	}

	playerTotal, _ := g.player.Total()
	g.say(fmt.Sprintf("Your total is now %d", playerTotal), speech.PriorityRoutine, "player-total")
	g.phase = PhasePlayerTurn
}

func (g *Game) playerTurnCard(ev GameEvent) error {
	switch ev.Zone {
	case vision.ZonePlayer:
		// Hit.
		g.player.Add(ev.Card)
		g.say(fmt.Sprintf("You drew %s", ev.Card.SpokenName()), speech.PriorityRoutine, "player-drew")
		playerTotal, _ := g.player.Total()
		g.say(fmt.Sprintf("Your total is now %d", playerTotal), speech.PriorityRoutine, "player-total")

		if g.player.IsBust() {
			// Bust ends the round without the dealer drawing; the
			// dealer hand is still revealed in the settlement.
			g.phase = PhaseDealerTurn
			g.settle()
		}
		return nil

	case vision.ZoneDealer:
		// A dealer-zone placement is the implicit stand signal.
		playerTotal, _ := g.player.Total()
		g.say(fmt.Sprintf("You stand with %d", playerTotal), speech.PriorityImportant, "stand")

		g.dealer.Add(ev.Card)
		g.phase = PhaseDealerTurn
		g.say(fmt.Sprintf("Dealer draws %s", ev.Card.SpokenName()), speech.PriorityRoutine, "dealer-drew")
		dealerTotal, _ := g.dealer.Total()
		g.say(fmt.Sprintf("Dealer total: %d", dealerTotal), speech.PriorityRoutine, "dealer-total")
		g.dealerProgress()
		return nil

	default:
		return ErrInvalidEvent(fmt.Sprintf("card %v in neutral zone", ev.Card))
	}
}

func (g *Game) dealerTurnCard(ev GameEvent) error {
	if ev.Zone != vision.ZoneDealer {
		return ErrInvalidEvent(fmt.Sprintf("player card %v during dealer turn", ev.Card))
	}
	g.dealer.Add(ev.Card)
	g.say(fmt.Sprintf("Dealer draws %s", ev.Card.SpokenName()), speech.PriorityRoutine, "dealer-drew")
	dealerTotal, _ := g.dealer.Total()
	g.say(fmt.Sprintf("Dealer total: %d", dealerTotal), speech.PriorityRoutine, "dealer-total")
	g.dealerProgress()
	return nil
}

// dealerProgress checks the dealer's terminal conditions after every dealer
// card: bust settles immediately, and reaching the stand threshold settles
// when SettleOnDealerStand is on. Otherwise the round waits for TableCleared.
func (g *Game) dealerProgress() {
	if g.dealer.IsBust() {
		g.settle()
		return
	}
	dealerTotal, _ := g.dealer.Total()
	if g.cfg.SettleOnDealerStand && dealerTotal >= g.cfg.DealerStandTotal {
		g.settle()
	}
}

// settle finalizes the round: compares hands once, announces the result, and
// parks the machine in RoundComplete until the table is cleared.
func (g *Game) settle() {
	g.outcome = DetermineOutcome(&g.player, &g.dealer)

	g.say(fmt.Sprintf("Your hand: %s", g.player.Spoken()), speech.PriorityImportant, "final-player")
	g.say(fmt.Sprintf("Dealer's hand: %s", g.dealer.Spoken()), speech.PriorityImportant, "final-dealer")
	g.say(g.outcome.Spoken(), speech.PriorityTerminal, "outcome")

	g.phase = PhaseRoundComplete
}

func (g *Game) say(text string, pri speech.Priority, key string) {
	g.announce(speech.Request{Text: text, Priority: pri, DedupeKey: key})
}
