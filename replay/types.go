package replay

import (
	"cardsight/blackjack"
	"cardsight/vision"
)

// RoundSpec is a recorded (or hand-written) detection session: the full
// configuration plus every raw frame the detector produced, replayable
// without a camera.
type RoundSpec struct {
	Geometry   GeometrySpec    `json:"geometry"`
	Normalizer *NormalizerSpec `json:"normalizer,omitempty"`
	Game       *GameSpec       `json:"game,omitempty"`
	Frames     [][]ReadSpec    `json:"frames"`
}

type GeometrySpec struct {
	FrameWidth  int `json:"frame_width"`
	FrameHeight int `json:"frame_height"`
	DividerY    int `json:"divider_y"`
}

type NormalizerSpec struct {
	MinConfidence float64 `json:"min_confidence"`
	DwellFrames   int     `json:"dwell_frames"`
	ClearFrames   int     `json:"clear_frames"`
}

type GameSpec struct {
	InitialPlayerCards  int  `json:"initial_player_cards"`
	InitialDealerCards  int  `json:"initial_dealer_cards"`
	DealerStandTotal    int  `json:"dealer_stand_total"`
	SettleOnDealerStand bool `json:"settle_on_dealer_stand"`
}

// ReadSpec is one raw detection within a frame. Label uses the detector's
// class naming ("AS", "10H", "kd").
type ReadSpec struct {
	Label      string  `json:"label"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// Tape is the replay output: every inferred event and announcement, plus the
// final game state, all derived deterministically from the spec.
type Tape struct {
	Events        []TapeEvent        `json:"events"`
	Announcements []TapeAnnouncement `json:"announcements"`
	Final         FinalState         `json:"final"`
}

type TapeEvent struct {
	Frame int    `json:"frame"` // frame index that triggered the event
	Type  string `json:"type"`
	Zone  string `json:"zone,omitempty"`
	Card  string `json:"card,omitempty"`
}

type TapeAnnouncement struct {
	Text     string `json:"text"`
	Priority string `json:"priority"`
}

type FinalState struct {
	Round       uint16   `json:"round"`
	Phase       string   `json:"phase"`
	Outcome     string   `json:"outcome"`
	PlayerCards []string `json:"player_cards"`
	PlayerTotal int      `json:"player_total"`
	DealerCards []string `json:"dealer_cards"`
	DealerTotal int      `json:"dealer_total"`
}

func (g GeometrySpec) geometry() vision.Geometry {
	return vision.Geometry{FrameWidth: g.FrameWidth, FrameHeight: g.FrameHeight, DividerY: g.DividerY}
}

func (n *NormalizerSpec) config() vision.NormalizerConfig {
	if n == nil {
		return vision.DefaultNormalizerConfig()
	}
	return vision.NormalizerConfig{
		MinConfidence: n.MinConfidence,
		DwellFrames:   n.DwellFrames,
		ClearFrames:   n.ClearFrames,
	}
}

func (g *GameSpec) config() blackjack.Config {
	if g == nil {
		return blackjack.DefaultConfig()
	}
	return blackjack.Config{
		InitialPlayerCards:  g.InitialPlayerCards,
		InitialDealerCards:  g.InitialDealerCards,
		DealerStandTotal:    g.DealerStandTotal,
		SettleOnDealerStand: g.SettleOnDealerStand,
	}
}
