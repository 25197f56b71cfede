package blackjack

import (
	"fmt"

	"cardsight/card"
)

// Hand 一方的手牌, 插入顺序即检测顺序。同一轮内不允许重复的牌。
type Hand struct {
	cards card.CardList
}

func (h *Hand) Add(c card.Card) {
	h.cards.Add(c)
}

func (h *Hand) Contains(c card.Card) bool {
	return h.cards.Contains(c)
}

func (h *Hand) Count() int {
	return h.cards.Count()
}

func (h *Hand) Cards() card.CardList {
	return h.cards.Clone()
}

func (h *Hand) Reset() {
	h.cards = nil
}

// Total 计算 21 点点数。A 先按 11 计; 爆点时逐张降为 1,
// 固定点循环, 上界为手牌数, 不递归。
// soft 为 true 表示仍有 A 按 11 计 (软点数)。
func (h *Hand) Total() (total int, soft bool) {
	aces := 0
	for _, c := range h.cards {
		if c.IsAce() {
			aces++
		}
		total += c.BlackjackValue()
	}
	softAces := aces
	for total > 21 && softAces > 0 {
		total -= 10
		softAces--
	}
	return total, softAces > 0
}

// IsBlackjack 恰好两张合计 21 (仅在开局发牌时有意义)。
func (h *Hand) IsBlackjack() bool {
	if h.cards.Count() != 2 {
		return false
	}
	total, _ := h.Total()
	return total == 21
}

func (h *Hand) IsBust() bool {
	total, _ := h.Total()
	return total > 21
}

// Spoken 返回口语化的手牌描述, 如
// "ace of spades and nine of hearts, total 20"。
func (h *Hand) Spoken() string {
	if h.cards.Count() == 0 {
		return "no cards"
	}
	total, _ := h.Total()
	return fmt.Sprintf("%s, total %d", h.cards.SpokenList(), total)
}
