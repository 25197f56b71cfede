package replay

import (
	"cardsight/blackjack"
	"cardsight/card"
	"cardsight/speech"
	"cardsight/vision"
)

// Run replays a recorded detection session through the full pipeline:
// Normalizer -> occupancy diff -> event inference -> game state machine.
// Announcements are captured on the tape instead of being spoken.
func Run(spec RoundSpec) (*Tape, error) {
	normalizer, err := vision.NewNormalizer(spec.Normalizer.config(), spec.Geometry.geometry())
	if err != nil {
		return nil, &ReplayError{Frame: -1, Reason: "normalizer_init_failed", Message: err.Error()}
	}

	tape := &Tape{}
	game, err := blackjack.NewGame(spec.Game.config(), func(req speech.Request) {
		tape.Announcements = append(tape.Announcements, TapeAnnouncement{
			Text:     req.Text,
			Priority: req.Priority.String(),
		})
	})
	if err != nil {
		return nil, &ReplayError{Frame: -1, Reason: "game_init_failed", Message: err.Error()}
	}

	prev := normalizer.Stable()
	for frameIdx, frame := range spec.Frames {
		detections, err := parseFrame(frame)
		if err != nil {
			return nil, &ReplayError{Frame: frameIdx, Reason: "bad_read", Message: err.Error()}
		}

		next, changed := normalizer.Observe(detections)
		if !changed {
			continue
		}
		deltas := vision.Diff(prev, next)
		prev = next

		for _, ev := range game.Advance(deltas) {
			te := TapeEvent{Frame: frameIdx, Type: ev.Type.String()}
			if ev.Type == blackjack.EventCardAdded {
				te.Zone = ev.Zone.String()
				te.Card = ev.Card.String()
			}
			tape.Events = append(tape.Events, te)
		}
	}

	tape.Final = finalState(game.Snapshot())
	return tape, nil
}

func parseFrame(frame []ReadSpec) ([]vision.Detection, error) {
	out := make([]vision.Detection, 0, len(frame))
	for _, r := range frame {
		c, err := card.ParseLabel(r.Label)
		if err != nil {
			return nil, err
		}
		out = append(out, vision.Detection{
			Card:       c,
			X:          r.X,
			Y:          r.Y,
			Confidence: r.Confidence,
		})
	}
	return out, nil
}

func finalState(snap blackjack.Snapshot) FinalState {
	fs := FinalState{
		Round:       snap.Round,
		Phase:       snap.Phase.String(),
		Outcome:     snap.Outcome.String(),
		PlayerTotal: snap.PlayerTotal,
		DealerTotal: snap.DealerTotal,
	}
	for _, c := range snap.PlayerCards {
		fs.PlayerCards = append(fs.PlayerCards, c.String())
	}
	for _, c := range snap.DealerCards {
		fs.DealerCards = append(fs.DealerCards, c.String())
	}
	return fs
}
