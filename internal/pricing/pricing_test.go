package pricing_test

import (
	"testing"

	"github.com/doomlife/pulse/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLifePostCost(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		Desc       string
		PostsToday int
		Streak     int
		Expected   string
	}{
		{
			Desc:       "first post of the day at base cost",
			PostsToday: 0,
			Streak:     0,
			Expected:   "1",
		},
		{
			Desc:       "still in first tier",
			PostsToday: 2,
			Streak:     0,
			Expected:   "1",
		},
		{
			Desc:       "second tier",
			PostsToday: 3,
			Streak:     0,
			Expected:   "2.5",
		},
		{
			Desc:       "third tier",
			PostsToday: 8,
			Streak:     0,
			Expected:   "5",
		},
		{
			Desc:       "top tier for heavy posters",
			PostsToday: 40,
			Streak:     0,
			Expected:   "10",
		},
		{
			Desc:       "ten day streak takes ten percent off",
			PostsToday: 0,
			Streak:     10,
			Expected:   "0.9",
		},
		{
			Desc:       "discount caps at half price",
			PostsToday: 0,
			Streak:     365,
			Expected:   "0.5",
		},
		{
			Desc:       "discount applies on top of tiers",
			PostsToday: 3,
			Streak:     20,
			Expected:   "2",
		},
		{
			Desc:       "negative inputs clamp",
			PostsToday: -1,
			Streak:     -5,
			Expected:   "1",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			got := pricing.LifePostCost(tc.PostsToday, tc.Streak)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.Expected)), "cost = %s", got)
		})
	}
}

func TestTiersAscending(t *testing.T) {
	t.Parallel()
	tiers := pricing.Tiers()
	assert.Equal(t, 0, tiers[0].MinPosts)
	for i := 1; i < len(tiers); i++ {
		assert.Greater(t, tiers[i].MinPosts, tiers[i-1].MinPosts)
		assert.True(t, tiers[i].Cost.GreaterThan(tiers[i-1].Cost))
	}
}
