package pricing

import (
	"github.com/shopspring/decimal"
)

// Tier sets the cost of a life post once the user has already made MinPosts
// posts during the current calendar day. Tiers are ascending by MinPosts and
// the first tier always starts at 0.
type Tier struct {
	MinPosts int
	Cost     decimal.Decimal
}

var tiers = []Tier{
	{MinPosts: 0, Cost: decimal.NewFromInt(1)},
	{MinPosts: 3, Cost: decimal.RequireFromString("2.5")},
	{MinPosts: 7, Cost: decimal.NewFromInt(5)},
	{MinPosts: 15, Cost: decimal.NewFromInt(10)},
}

// Streak discount: one percent per streak day, capped.
const (
	discountPerDayPct = 1
	maxDiscountPct    = 50
)

// LifePostCost quotes the price of the next life post. The base cost
// escalates with the number of posts already made today; a running streak
// earns a discount of one percent per day up to half price.
func LifePostCost(postsToday, currentStreak int) decimal.Decimal {
	if postsToday < 0 {
		postsToday = 0
	}
	base := tiers[0].Cost
	for _, t := range tiers {
		if postsToday >= t.MinPosts {
			base = t.Cost
		}
	}
	pct := currentStreak * discountPerDayPct
	if pct > maxDiscountPct {
		pct = maxDiscountPct
	}
	if pct < 0 {
		pct = 0
	}
	multiplier := decimal.New(int64(100-pct), -2)
	return base.Mul(multiplier)
}

// Tiers exposes a copy of the tier table for display surfaces.
func Tiers() []Tier {
	return append([]Tier(nil), tiers...)
}
