package vision

import (
	"fmt"
	"time"

	"cardsight/card"
)

// Zone 桌面区域
type Zone byte

const (
	ZoneUnknown Zone = 0
	ZonePlayer  Zone = 1
	ZoneDealer  Zone = 2
)

var ZoneDictionary = map[Zone]string{
	ZoneUnknown: "unknown",
	ZonePlayer:  "player",
	ZoneDealer:  "dealer",
}

func (z Zone) String() string {
	if s, ok := ZoneDictionary[z]; ok {
		return s
	}
	return "invalid"
}

// Detection is a single raw read from the card detector: one card seen at a
// centroid position in one frame. It is consumed immediately by the
// Normalizer and never stored.
type Detection struct {
	Card       card.Card
	X          float64 // centroid, frame pixel coordinates
	Y          float64
	Confidence float64 // 0..1
	At         time.Time
}

// Geometry 区域划分: 分界线以上为庄家区, 以下为玩家区。
// 与检测端的画面尺寸一致, 越界的中心点归为 ZoneUnknown。
type Geometry struct {
	FrameWidth  int
	FrameHeight int
	DividerY    int
}

func (g Geometry) Validate() error {
	if g.FrameWidth <= 0 || g.FrameHeight <= 0 {
		return fmt.Errorf("frame size must be positive: %dx%d", g.FrameWidth, g.FrameHeight)
	}
	if g.DividerY <= 0 || g.DividerY >= g.FrameHeight {
		return fmt.Errorf("divider y=%d outside frame height %d", g.DividerY, g.FrameHeight)
	}
	return nil
}

// ZoneOf 根据中心点坐标推导区域 (派生属性, 不落盘)。
func (g Geometry) ZoneOf(x, y float64) Zone {
	if x < 0 || y < 0 || x >= float64(g.FrameWidth) || y >= float64(g.FrameHeight) {
		return ZoneUnknown
	}
	if y < float64(g.DividerY) {
		return ZoneDealer
	}
	return ZonePlayer
}
