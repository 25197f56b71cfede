package card

type Suit byte

const (
	Spade Suit = iota // ♠️
	Heart             // ♥️
	Club              // ♣️
	Diamond           // ♦️
)

func (s Suit) String() string {
	switch s {
	case Diamond:
		return "♦️"
	case Club:
		return "♣️"
	case Heart:
		return "♥️"
	case Spade:
		return "♠️"
	}
	return "?"
}

// Name 花色英文名 (用于语音播报)
func (s Suit) Name() string {
	switch s {
	case Diamond:
		return "diamonds"
	case Club:
		return "clubs"
	case Heart:
		return "hearts"
	case Spade:
		return "spades"
	}
	return "unknown"
}
