package card

import "strings"

type CardList []Card

// Count 获取总牌数
func (ds CardList) Count() int {
	return len(ds)
}

func (ds *CardList) Add(cards ...Card) {
	*ds = append(*ds, cards...)
}

// Contains 工具：判断牌是否在切片里
func (ds CardList) Contains(c Card) bool {
	for _, cc := range ds {
		if cc == c {
			return true
		}
	}
	return false
}

func (ds CardList) Clone() CardList {
	out := make(CardList, len(ds))
	copy(out, ds)
	return out
}

// SpokenList 返回口语化的牌组描述，如
// "ace of spades and nine of hearts" (对齐原始播报格式)。
func (ds CardList) SpokenList() string {
	if len(ds) == 0 {
		return "no cards"
	}
	names := make([]string, len(ds))
	for i, c := range ds {
		names[i] = c.SpokenName()
	}
	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}
