package blackjack

import "fmt"

type Config struct {
	// Initial deal: cards required before the round starts.
	InitialPlayerCards int
	InitialDealerCards int

	// DealerStandTotal 庄家停牌线 (标准规则 17)。
	DealerStandTotal int

	// SettleOnDealerStand settles as soon as the dealer total reaches
	// DealerStandTotal. When false the round settles only on table clear.
	SettleOnDealerStand bool
}

func DefaultConfig() Config {
	return Config{
		InitialPlayerCards:  2,
		InitialDealerCards:  1,
		DealerStandTotal:    17,
		SettleOnDealerStand: true,
	}
}

func (c Config) validate() error {
	if c.InitialPlayerCards <= 0 {
		return fmt.Errorf("InitialPlayerCards must be > 0")
	}
	if c.InitialDealerCards <= 0 {
		return fmt.Errorf("InitialDealerCards must be > 0")
	}
	if c.DealerStandTotal < 2 || c.DealerStandTotal > 21 {
		return fmt.Errorf("invalid DealerStandTotal: %d", c.DealerStandTotal)
	}
	return nil
}
