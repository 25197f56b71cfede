package vision

import (
	"fmt"
	"log"

	"cardsight/card"
)

// NormalizerConfig 去抖配置
type NormalizerConfig struct {
	// MinConfidence drops reads below this confidence before windowing.
	MinConfidence float64
	// DwellFrames 连续可见帧数达到该值才算稳定; 消失不足该帧数视为噪声。
	DwellFrames int
	// ClearFrames 连续全空帧数达到该值判定为清台 (区别于瞬时空帧)。
	ClearFrames int
}

func (c NormalizerConfig) Validate() error {
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("MinConfidence must be in [0,1]: %v", c.MinConfidence)
	}
	if c.DwellFrames <= 0 {
		return fmt.Errorf("DwellFrames must be > 0")
	}
	if c.ClearFrames <= 0 {
		return fmt.Errorf("ClearFrames must be > 0")
	}
	return nil
}

// DefaultNormalizerConfig matches the tuning of the original detector:
// confidence 40%, 5 stable frames to promote, 15 empty frames to clear.
func DefaultNormalizerConfig() NormalizerConfig {
	return NormalizerConfig{
		MinConfidence: 0.4,
		DwellFrames:   5,
		ClearFrames:   15,
	}
}

type candidateKey struct {
	card card.Card
	zone Zone
}

// candidate tracks one (card, zone) pair across consecutive frames.
type candidate struct {
	run    int // consecutive frames seen
	missed int // consecutive frames not seen
	stable bool
}

// Normalizer turns noisy per-frame detections into stable table snapshots.
// 每帧调用一次 Observe; 只有稳定快照发生变化时才返回新快照。
type Normalizer struct {
	cfg NormalizerConfig
	geo Geometry

	candidates map[candidateKey]*candidate
	emptyRun   int
	stable     *TableSnapshot
}

func NewNormalizer(cfg NormalizerConfig, geo Geometry) (*Normalizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := geo.Validate(); err != nil {
		return nil, err
	}
	return &Normalizer{
		cfg:        cfg,
		geo:        geo,
		candidates: make(map[candidateKey]*candidate),
		stable:     EmptySnapshot(),
	}, nil
}

// Stable returns the current stable snapshot.
func (n *Normalizer) Stable() *TableSnapshot {
	return n.stable
}

// Observe consumes one frame of raw detections. It returns the new stable
// snapshot and true when the frame changed the engine's stable belief;
// otherwise the frame was absorbed as noise.
func (n *Normalizer) Observe(frame []Detection) (*TableSnapshot, bool) {
	accepted := n.filterFrame(frame)

	if len(accepted) == 0 {
		n.emptyRun++
		if n.emptyRun >= n.cfg.ClearFrames && !n.stable.Empty() {
			// Table cleared: drop all window state at once.
			n.candidates = make(map[candidateKey]*candidate)
			n.stable = EmptySnapshot()
			return n.stable, true
		}
		// A fully empty frame never advances miss counters: full-table
		// disappearance is judged by ClearFrames alone, so a brief whole-
		// frame occlusion cannot demote a live layout. Dwell runs still
		// break, keeping promotion strictly consecutive.
		for _, c := range n.candidates {
			c.run = 0
		}
		return n.stable, false
	}
	n.emptyRun = 0

	// Advance windows: seen keys extend their run, unseen keys accumulate
	// misses and are demoted once the miss run reaches the dwell threshold.
	for key, c := range n.candidates {
		if _, ok := accepted[key]; ok {
			continue
		}
		c.run = 0
		c.missed++
		if c.missed >= n.cfg.DwellFrames {
			delete(n.candidates, key)
		}
	}
	for key := range accepted {
		c := n.candidates[key]
		if c == nil {
			c = &candidate{}
			n.candidates[key] = c
		}
		c.missed = 0
		c.run++
		if c.run >= n.cfg.DwellFrames && !c.stable {
			c.stable = true
			n.promote(key)
		}
	}

	next := n.buildSnapshot()
	if next.Equal(n.stable) {
		return n.stable, false
	}
	n.stable = next
	return n.stable, true
}

// filterFrame applies the confidence cutoff, derives zones, and keeps only
// the highest-confidence read per physical card. A card whose two index
// corners are both detected must not count twice.
func (n *Normalizer) filterFrame(frame []Detection) map[candidateKey]struct{} {
	best := make(map[card.Card]Detection, len(frame))
	for _, d := range frame {
		if d.Card == card.CardInvalid {
			continue
		}
		if d.Confidence < n.cfg.MinConfidence {
			continue
		}
		if prev, ok := best[d.Card]; !ok || d.Confidence > prev.Confidence {
			best[d.Card] = d
		}
	}
	out := make(map[candidateKey]struct{}, len(best))
	for c, d := range best {
		zone := n.geo.ZoneOf(d.X, d.Y)
		out[candidateKey{card: c, zone: zone}] = struct{}{}
	}
	return out
}

// promote enforces the one-zone-per-card invariant: when a card turns stable
// in a new zone, its window in any other zone is force-removed.
func (n *Normalizer) promote(key candidateKey) {
	for other, c := range n.candidates {
		if other.card == key.card && other.zone != key.zone {
			if c.stable {
				log.Printf("[Normalizer] card %v moved zone %v -> %v", key.card, other.zone, key.zone)
			}
			delete(n.candidates, other)
		}
	}
}

func (n *Normalizer) buildSnapshot() *TableSnapshot {
	zones := make(map[Zone]card.CardList)
	for key, c := range n.candidates {
		if !c.stable {
			continue
		}
		list := zones[key.zone]
		list.Add(key.card)
		zones[key.zone] = list
	}
	return NewTableSnapshot(zones)
}
