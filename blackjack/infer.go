package blackjack

import (
	"log"

	"cardsight/vision"
)

// Infer 纯函数: 把占位 delta 序列映射为游戏事件, 只依赖当前阶段。
// 不接触摄像头和语音, 可用合成序列独立测试。
//
// 规则按顺序评估:
// 1. AllCleared -> TableCleared (含 AwaitingSetup: 扫走未发完的牌必须重置,
//    双手皆空时状态机按幂等 no-op 处理)
// 2. 玩家区 added (AwaitingSetup / PlayerTurn) -> CardAdded(Player)
// 3. 庄家区 added -> CardAdded(Dealer); PlayerTurn 时由状态机解释为隐式停牌
// 4. AwaitingSetup 的庄家区 added 计入开局, 无停牌语义
// 5. removed 只记日志, 不驱动转移 (拿起未放回不算动作)
func Infer(deltas []vision.Delta, phase Phase) []GameEvent {
	var events []GameEvent
	for _, d := range deltas {
		switch d.Kind {
		case vision.DeltaAllCleared:
			events = append(events, TableCleared())

		case vision.DeltaAdded:
			switch d.Zone {
			case vision.ZonePlayer:
				if phase != PhaseAwaitingSetup && phase != PhasePlayerTurn {
					log.Printf("[Infer] ignoring player-zone card %v during %v", d.Card, phase)
					continue
				}
				events = append(events, CardAdded(d.Zone, d.Card))
			case vision.ZoneDealer:
				if phase == PhaseRoundComplete {
					log.Printf("[Infer] ignoring dealer-zone card %v during %v", d.Card, phase)
					continue
				}
				events = append(events, CardAdded(d.Zone, d.Card))
			default:
				// Neutral zone: visible but not part of either hand.
			}

		case vision.DeltaRemoved:
			log.Printf("[Infer] card %v removed from %v zone (no action)", d.Card, d.Zone)
		}
	}
	return events
}
