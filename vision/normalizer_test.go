package vision

import (
	"testing"

	"cardsight/card"
)

func testGeometry() Geometry {
	return Geometry{FrameWidth: 640, FrameHeight: 480, DividerY: 240}
}

func testConfig() NormalizerConfig {
	return NormalizerConfig{MinConfidence: 0.4, DwellFrames: 3, ClearFrames: 5}
}

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := NewNormalizer(testConfig(), testGeometry())
	if err != nil {
		t.Fatalf("NewNormalizer err: %v", err)
	}
	return n
}

func playerRead(c card.Card) Detection {
	return Detection{Card: c, X: 320, Y: 400, Confidence: 0.9}
}

func dealerRead(c card.Card) Detection {
	return Detection{Card: c, X: 320, Y: 100, Confidence: 0.9}
}

func TestNormalizer_PromotesAfterDwell(t *testing.T) {
	n := newTestNormalizer(t)

	for i := 0; i < 2; i++ {
		if _, changed := n.Observe([]Detection{playerRead(card.CardSpadeK)}); changed {
			t.Fatalf("frame %d: promoted before dwell threshold", i)
		}
	}
	snap, changed := n.Observe([]Detection{playerRead(card.CardSpadeK)})
	if !changed {
		t.Fatalf("expected promotion on frame 3")
	}
	if !snap.Contains(ZonePlayer, card.CardSpadeK) {
		t.Fatalf("stable snapshot missing promoted card")
	}
}

func TestNormalizer_LowConfidenceDropped(t *testing.T) {
	n := newTestNormalizer(t)

	read := playerRead(card.CardHeart7)
	read.Confidence = 0.2
	for i := 0; i < 10; i++ {
		if _, changed := n.Observe([]Detection{read}); changed {
			t.Fatalf("low-confidence read must never promote")
		}
	}
}

// 检测丢 1 帧后复现: 不应产生任何稳定快照变化 (去抖属性)。
func TestNormalizer_OneFrameGapIsNoise(t *testing.T) {
	n := newTestNormalizer(t)

	for i := 0; i < 3; i++ {
		n.Observe([]Detection{playerRead(card.CardClub9)})
	}
	if _, changed := n.Observe(nil); changed {
		t.Fatalf("single empty frame changed the stable snapshot")
	}
	if _, changed := n.Observe([]Detection{playerRead(card.CardClub9)}); changed {
		t.Fatalf("redetection after 1-frame gap changed the stable snapshot")
	}
	if !n.Stable().Contains(ZonePlayer, card.CardClub9) {
		t.Fatalf("card lost from stable snapshot after transient gap")
	}
}

func TestNormalizer_DemotesAfterSustainedLoss(t *testing.T) {
	n := newTestNormalizer(t)

	for i := 0; i < 3; i++ {
		n.Observe([]Detection{playerRead(card.CardClub9), playerRead(card.CardSpade2)})
	}
	// CardSpade2 stays, CardClub9 vanishes for the full dwell window.
	var changed bool
	for i := 0; i < 3; i++ {
		_, changed = n.Observe([]Detection{playerRead(card.CardSpade2)})
	}
	if !changed {
		t.Fatalf("sustained loss did not demote the card")
	}
	if n.Stable().Contains(ZonePlayer, card.CardClub9) {
		t.Fatalf("demoted card still in stable snapshot")
	}
	if !n.Stable().Contains(ZonePlayer, card.CardSpade2) {
		t.Fatalf("surviving card dropped with the demoted one")
	}
}

// 整帧遮挡 (手臂扫过镜头) 短于清台阈值: 布局必须原样保留。
// 清台与单牌降级是两个独立阈值, 全空帧只走清台计数。
func TestNormalizer_OcclusionShorterThanClearKeepsLayout(t *testing.T) {
	n := newTestNormalizer(t)
	cfg := testConfig()

	for i := 0; i < cfg.DwellFrames; i++ {
		n.Observe([]Detection{playerRead(card.CardSpadeK), dealerRead(card.CardHeart9)})
	}
	if !n.Stable().Contains(ZonePlayer, card.CardSpadeK) {
		t.Fatalf("setup: card never promoted")
	}

	// Every empty-frame count below ClearFrames, including the whole
	// DwellFrames..ClearFrames-1 band, must leave the snapshot untouched.
	for i := 0; i < cfg.ClearFrames-1; i++ {
		if snap, changed := n.Observe(nil); changed {
			t.Fatalf("empty snapshot emitted after only %d empty frames; ClearFrames=%d (snap=%d cards)",
				i+1, cfg.ClearFrames, snap.Count())
		}
	}
	if !n.Stable().Contains(ZonePlayer, card.CardSpadeK) || !n.Stable().Contains(ZoneDealer, card.CardHeart9) {
		t.Fatalf("layout lost during sub-threshold occlusion")
	}

	// Redetection picks the layout back up without any spurious deltas.
	if _, changed := n.Observe([]Detection{playerRead(card.CardSpadeK), dealerRead(card.CardHeart9)}); changed {
		t.Fatalf("redetection after occlusion changed the stable snapshot")
	}
}

func TestNormalizer_ClearAfterEmptyRun(t *testing.T) {
	n := newTestNormalizer(t)

	for i := 0; i < 3; i++ {
		n.Observe([]Detection{playerRead(card.CardDiamondA)})
	}

	cleared := false
	for i := 0; i < 5; i++ {
		snap, changed := n.Observe(nil)
		if changed {
			if !snap.Empty() {
				t.Fatalf("clear emitted a non-empty snapshot")
			}
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("empty run never cleared the table")
	}
	// Further empty frames must not emit again.
	if _, changed := n.Observe(nil); changed {
		t.Fatalf("duplicate clear emission")
	}
}

// 同一张牌两个角同时被识别 (双框): 只能计一次。
func TestNormalizer_CornerDuplicateCountsOnce(t *testing.T) {
	n := newTestNormalizer(t)

	for i := 0; i < 3; i++ {
		a := playerRead(card.CardHeartQ)
		b := playerRead(card.CardHeartQ)
		b.Confidence = 0.6
		n.Observe([]Detection{a, b})
	}
	if got := n.Stable().Cards(ZonePlayer).Count(); got != 1 {
		t.Fatalf("expected 1 stable card, got %d", got)
	}
}

func TestNormalizer_ZoneMoveForcesSingleZone(t *testing.T) {
	n := newTestNormalizer(t)

	for i := 0; i < 3; i++ {
		n.Observe([]Detection{playerRead(card.CardSpadeA)})
	}
	for i := 0; i < 3; i++ {
		n.Observe([]Detection{dealerRead(card.CardSpadeA)})
	}
	snap := n.Stable()
	if snap.Contains(ZonePlayer, card.CardSpadeA) {
		t.Fatalf("card still stable in the old zone after moving")
	}
	if !snap.Contains(ZoneDealer, card.CardSpadeA) {
		t.Fatalf("card not stable in the new zone")
	}
}

func TestNormalizerConfig_Validate(t *testing.T) {
	bad := []NormalizerConfig{
		{MinConfidence: -0.1, DwellFrames: 3, ClearFrames: 5},
		{MinConfidence: 1.5, DwellFrames: 3, ClearFrames: 5},
		{MinConfidence: 0.4, DwellFrames: 0, ClearFrames: 5},
		{MinConfidence: 0.4, DwellFrames: 3, ClearFrames: 0},
	}
	for i, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
	if err := DefaultNormalizerConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestGeometry_ZoneOf(t *testing.T) {
	geo := testGeometry()
	if err := geo.Validate(); err != nil {
		t.Fatalf("geometry invalid: %v", err)
	}
	if z := geo.ZoneOf(320, 100); z != ZoneDealer {
		t.Fatalf("above divider should be dealer, got %v", z)
	}
	if z := geo.ZoneOf(320, 400); z != ZonePlayer {
		t.Fatalf("below divider should be player, got %v", z)
	}
	if z := geo.ZoneOf(-10, 100); z != ZoneUnknown {
		t.Fatalf("out of frame should be unknown, got %v", z)
	}
	if z := geo.ZoneOf(320, 600); z != ZoneUnknown {
		t.Fatalf("below frame should be unknown, got %v", z)
	}
}
