package session

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"cardsight/apps/server/internal/ledger"
	"cardsight/blackjack"
	"cardsight/card"
	"cardsight/speech"
	"cardsight/vision"
)

// Frame is one detector frame as received over the wire.
type Frame struct {
	Reads []Read `json:"reads"`
	TsMs  int64  `json:"ts_ms,omitempty"`
}

// Read is a single raw card read within a frame.
type Read struct {
	Label      string  `json:"label"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// StateMessage is the JSON payload broadcast to observers after every
// stable table change.
type StateMessage struct {
	Type          string   `json:"type"`
	Profile       string   `json:"profile,omitempty"`
	Round         uint16   `json:"round"`
	Phase         string   `json:"phase"`
	Outcome       string   `json:"outcome,omitempty"`
	PlayerCards   []string `json:"player_cards"`
	PlayerTotal   int      `json:"player_total"`
	DealerCards   []string `json:"dealer_cards"`
	DealerTotal   int      `json:"dealer_total"`
	Announcements []string `json:"announcements,omitempty"`
}

type Config struct {
	Geometry   vision.Geometry
	Normalizer vision.NormalizerConfig
	Game       blackjack.Config
}

// Session is the single-table actor: it owns the normalizer, tracker state
// and game engine, and is the only goroutine touching them. Detector frames
// arrive on a channel; observers receive state through the broadcast callback.
type Session struct {
	mu          sync.Mutex
	profileName string
	spoken      []string // announcements since the last broadcast

	normalizer *vision.Normalizer
	stable     *vision.TableSnapshot
	game       *blackjack.Game
	announcer  *speech.Announcer
	ledger     ledger.Service

	lastRecorded uint16

	frames   chan Frame
	done     chan struct{}
	stopOnce sync.Once

	broadcast func(data []byte)
}

func New(
	cfg Config,
	announcer *speech.Announcer,
	ledgerService ledger.Service,
	broadcastFn func(data []byte),
) (*Session, error) {
	normalizer, err := vision.NewNormalizer(cfg.Normalizer, cfg.Geometry)
	if err != nil {
		return nil, err
	}

	s := &Session{
		normalizer: normalizer,
		stable:     vision.EmptySnapshot(),
		announcer:  announcer,
		ledger:     ledgerService,
		frames:     make(chan Frame, 256),
		done:       make(chan struct{}),
		broadcast:  broadcastFn,
	}
	if s.broadcast == nil {
		s.broadcast = func([]byte) {}
	}

	game, err := blackjack.NewGame(cfg.Game, s.onAnnounce)
	if err != nil {
		return nil, err
	}
	s.game = game

	go s.run()
	return s, nil
}

// Offer hands a frame to the actor without blocking; under backpressure the
// frame is dropped, which the dwell windows absorb like any other miss.
func (s *Session) Offer(frame Frame) {
	select {
	case s.frames <- frame:
	default:
	}
}

func (s *Session) SetProfile(name string) {
	s.mu.Lock()
	s.profileName = name
	s.mu.Unlock()
	log.Printf("[Session] Active profile: %s", name)
}

func (s *Session) Profile() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileName
}

func (s *Session) Announce(req speech.Request) {
	if s.announcer != nil {
		s.announcer.Announce(req)
	}
}

// StateJSON renders the current game state for a freshly connected observer.
func (s *Session) StateJSON() []byte {
	return s.stateJSON(nil)
}

func (s *Session) Close() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
}

func (s *Session) run() {
	for {
		select {
		case frame := <-s.frames:
			s.handleFrame(frame)
		case <-s.done:
			log.Printf("[Session] Actor stopped")
			return
		}
	}
}

func (s *Session) handleFrame(frame Frame) {
	detections := s.parseFrame(frame)

	snapshot, changed := s.normalizer.Observe(detections)
	if !changed {
		return
	}

	deltas := vision.Diff(s.stable, snapshot)
	s.stable = snapshot
	if len(deltas) == 0 {
		return
	}

	s.game.Advance(deltas)
	s.recordIfSettled()

	s.broadcast(s.stateJSON(s.drainSpoken()))
}

func (s *Session) parseFrame(frame Frame) []vision.Detection {
	at := time.Now()
	if frame.TsMs > 0 {
		at = time.UnixMilli(frame.TsMs)
	}

	detections := make([]vision.Detection, 0, len(frame.Reads))
	for _, read := range frame.Reads {
		c, err := card.ParseLabel(read.Label)
		if err != nil {
			log.Printf("[Session] Skipping unreadable label %q: %v", read.Label, err)
			continue
		}
		detections = append(detections, vision.Detection{
			Card:       c,
			X:          read.X,
			Y:          read.Y,
			Confidence: read.Confidence,
			At:         at,
		})
	}
	return detections
}

// recordIfSettled appends one ledger row per settled round. The round counter
// guards against double-recording when late frames arrive after settlement.
func (s *Session) recordIfSettled() {
	snap := s.game.Snapshot()
	if snap.Outcome == blackjack.OutcomeNone || snap.Round == s.lastRecorded {
		return
	}
	s.lastRecorded = snap.Round

	if s.ledger == nil {
		return
	}
	rec := ledger.RoundRecord{
		RoundID:     uuid.NewString(),
		Profile:     s.Profile(),
		Outcome:     snap.Outcome.String(),
		PlayerTotal: snap.PlayerTotal,
		DealerTotal: snap.DealerTotal,
		PlayerCards: cardLabels(snap.PlayerCards),
		DealerCards: cardLabels(snap.DealerCards),
		PlayedAt:    time.Now().UTC(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.ledger.RecordRound(ctx, rec); err != nil {
		log.Printf("[Session] Record round failed: round=%d err=%v", snap.Round, err)
	}
}

func (s *Session) onAnnounce(req speech.Request) {
	if s.announcer != nil {
		s.announcer.Announce(req)
	}
	s.mu.Lock()
	s.spoken = append(s.spoken, req.Text)
	s.mu.Unlock()
}

func (s *Session) drainSpoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.spoken
	s.spoken = nil
	return out
}

func (s *Session) stateJSON(announcements []string) []byte {
	snap := s.game.Snapshot()
	msg := StateMessage{
		Type:          "state",
		Profile:       s.Profile(),
		Round:         snap.Round,
		Phase:         snap.Phase.String(),
		PlayerCards:   cardLabels(snap.PlayerCards),
		PlayerTotal:   snap.PlayerTotal,
		DealerCards:   cardLabels(snap.DealerCards),
		DealerTotal:   snap.DealerTotal,
		Announcements: announcements,
	}
	if snap.Outcome != blackjack.OutcomeNone {
		msg.Outcome = snap.Outcome.String()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[Session] Marshal state failed: %v", err)
		return nil
	}
	return data
}

func cardLabels(cards card.CardList) []string {
	labels := make([]string, 0, len(cards))
	for _, c := range cards {
		labels = append(labels, c.String())
	}
	return labels
}
