package market

import (
	"github.com/shopspring/decimal"
)

// Outcome is the side of a doom/life prediction event.
type Outcome int

const (
	Doom Outcome = iota
	Life
)

func (o Outcome) String() string {
	if o == Doom {
		return "doom"
	}
	return "life"
}

func ParseOutcome(s string) (Outcome, bool) {
	switch s {
	case "doom":
		return Doom, true
	case "life":
		return Life, true
	}
	return 0, false
}

const bpsDenominator = 10000

// Pools holds the token amounts wagered on each side of an event.
type Pools struct {
	Doom decimal.Decimal
	Life decimal.Decimal
}

func (p Pools) Total() decimal.Decimal {
	return p.Doom.Add(p.Life)
}

func (p Pools) side(o Outcome) decimal.Decimal {
	if o == Doom {
		return p.Doom
	}
	return p.Life
}

func (p Pools) opposite(o Outcome) decimal.Decimal {
	if o == Doom {
		return p.Life
	}
	return p.Doom
}

// OddsBps returns the implied probability of the outcome in basis points.
// An empty market quotes even odds.
func (p Pools) OddsBps(o Outcome) int64 {
	total := p.Total()
	if total.IsZero() {
		return bpsDenominator / 2
	}
	return p.side(o).Mul(decimal.NewFromInt(bpsDenominator)).Div(total).IntPart()
}

// Fee computes the platform cut of amount at the given basis-point rate.
func Fee(amount decimal.Decimal, feeBps uint16) decimal.Decimal {
	return amount.Mul(decimal.New(int64(feeBps), 0)).Div(decimal.NewFromInt(bpsDenominator))
}

// Payout computes the settlement for a bet in a parimutuel market: a winner
// recovers the stake plus a pro-rata share of the losing pool, less the
// platform fee charged on the winnings only. ok is false for losing bets and
// for the degenerate empty-winning-pool case.
func Payout(stake decimal.Decimal, side Outcome, pools Pools, resolved Outcome, feeBps uint16) (payout, fee decimal.Decimal, ok bool) {
	if side != resolved {
		return decimal.Zero, decimal.Zero, false
	}
	winning := pools.side(side)
	if winning.IsZero() {
		return decimal.Zero, decimal.Zero, false
	}
	share := stake.Mul(pools.opposite(side)).Div(winning)
	fee = Fee(share, feeBps)
	return stake.Add(share).Sub(fee), fee, true
}
