package blackjack

// Outcome 本轮结算结果
type Outcome byte

const (
	OutcomeNone Outcome = iota
	OutcomeDealerWinsPlayerBust
	OutcomePlayerWinsDealerBust
	OutcomePushBothBlackjack
	OutcomePlayerBlackjack
	OutcomeDealerBlackjack
	OutcomePlayerWinsHigher
	OutcomeDealerWinsHigher
	OutcomePush
)

var OutcomeDictionary = map[Outcome]string{
	OutcomeNone:                 "none",
	OutcomeDealerWinsPlayerBust: "dealer_wins_player_bust",
	OutcomePlayerWinsDealerBust: "player_wins_dealer_bust",
	OutcomePushBothBlackjack:    "push_both_blackjack",
	OutcomePlayerBlackjack:      "player_blackjack",
	OutcomeDealerBlackjack:      "dealer_blackjack",
	OutcomePlayerWinsHigher:     "player_wins_higher",
	OutcomeDealerWinsHigher:     "dealer_wins_higher",
	OutcomePush:                 "push",
}

func (o Outcome) String() string {
	if s, ok := OutcomeDictionary[o]; ok {
		return s
	}
	return "invalid"
}

func (o Outcome) PlayerWon() bool {
	switch o {
	case OutcomePlayerWinsDealerBust, OutcomePlayerBlackjack, OutcomePlayerWinsHigher:
		return true
	}
	return false
}

func (o Outcome) IsPush() bool {
	return o == OutcomePush || o == OutcomePushBothBlackjack
}

var outcomeSpoken = map[Outcome]string{
	OutcomePlayerWinsDealerBust: "You win! Dealer busted.",
	OutcomeDealerWinsPlayerBust: "Dealer wins. You busted.",
	OutcomePlayerBlackjack:      "You win with Blackjack!",
	OutcomeDealerBlackjack:      "Dealer wins with Blackjack.",
	OutcomePushBothBlackjack:    "Push! Both have Blackjack.",
	OutcomePlayerWinsHigher:     "You win with the higher total!",
	OutcomeDealerWinsHigher:     "Dealer wins with the higher total.",
	OutcomePush:                 "Push! It's a tie.",
}

// Spoken 结算播报文案 (对齐原始语音)。
func (o Outcome) Spoken() string {
	if s, ok := outcomeSpoken[o]; ok {
		return s
	}
	return "Game complete."
}

// DetermineOutcome 只在到达终局条件后调用一次:
// 先判爆点, 再判 Blackjack, 最后比大小。
func DetermineOutcome(player, dealer *Hand) Outcome {
	if player.IsBust() {
		return OutcomeDealerWinsPlayerBust
	}
	if dealer.IsBust() {
		return OutcomePlayerWinsDealerBust
	}

	playerBJ := player.IsBlackjack()
	dealerBJ := dealer.IsBlackjack()
	switch {
	case playerBJ && dealerBJ:
		return OutcomePushBothBlackjack
	case playerBJ:
		return OutcomePlayerBlackjack
	case dealerBJ:
		return OutcomeDealerBlackjack
	}

	playerTotal, _ := player.Total()
	dealerTotal, _ := dealer.Total()
	switch {
	case playerTotal > dealerTotal:
		return OutcomePlayerWinsHigher
	case dealerTotal > playerTotal:
		return OutcomeDealerWinsHigher
	default:
		return OutcomePush
	}
}
