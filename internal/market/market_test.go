package market_test

import (
	"testing"
	"time"

	"github.com/doomlife/pulse/internal/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestOddsBps(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		Desc         string
		Pools        market.Pools
		ExpectedDoom int64
		ExpectedLife int64
	}{
		{
			Desc:         "empty market quotes even odds",
			Pools:        market.Pools{},
			ExpectedDoom: 5000,
			ExpectedLife: 5000,
		},
		{
			Desc:         "one sided market",
			Pools:        market.Pools{Doom: dec(100), Life: dec(0)},
			ExpectedDoom: 10000,
			ExpectedLife: 0,
		},
		{
			Desc:         "quarter split",
			Pools:        market.Pools{Doom: dec(100), Life: dec(300)},
			ExpectedDoom: 2500,
			ExpectedLife: 7500,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			assert.Equal(t, tc.ExpectedDoom, tc.Pools.OddsBps(market.Doom))
			assert.Equal(t, tc.ExpectedLife, tc.Pools.OddsBps(market.Life))
		})
	}
}

func TestPayout(t *testing.T) {
	t.Parallel()
	pools := market.Pools{Doom: dec(100), Life: dec(300)}

	// Winner takes stake + share of losing pool minus 2% fee on the share.
	payout, fee, ok := market.Payout(dec(100), market.Doom, pools, market.Doom, 200)
	require.True(t, ok)
	assert.True(t, fee.Equal(dec(6)), "fee = %s", fee)
	assert.True(t, payout.Equal(dec(394)), "payout = %s", payout)

	// Losing side gets nothing.
	_, _, ok = market.Payout(dec(100), market.Life, pools, market.Doom, 200)
	assert.False(t, ok)

	// Empty winning pool cannot settle.
	_, _, ok = market.Payout(dec(100), market.Doom, market.Pools{Life: dec(300)}, market.Doom, 200)
	assert.False(t, ok)
}

func TestPayoutZeroFee(t *testing.T) {
	t.Parallel()
	pools := market.Pools{Doom: dec(50), Life: dec(150)}
	payout, fee, ok := market.Payout(dec(50), market.Doom, pools, market.Doom, 0)
	require.True(t, ok)
	assert.True(t, fee.IsZero())
	assert.True(t, payout.Equal(dec(200)))
}

func TestStatsRuns(t *testing.T) {
	t.Parallel()
	var s market.Stats
	now := time.Now()

	s.RecordBet(dec(10), now)
	s.RecordWin(dec(10), dec(25))
	s.RecordBet(dec(10), now)
	s.RecordWin(dec(10), dec(20))
	assert.Equal(t, 2, s.CurrentRun)
	assert.Equal(t, 2, s.BestWinRun)

	s.RecordBet(dec(10), now)
	s.RecordLoss(dec(10))
	s.RecordBet(dec(10), now)
	s.RecordLoss(dec(10))
	s.RecordBet(dec(10), now)
	s.RecordLoss(dec(10))
	assert.Equal(t, -3, s.CurrentRun)
	assert.Equal(t, 3, s.WorstLossRun)
	assert.Equal(t, 2, s.BestWinRun)

	s.RecordBet(dec(10), now)
	s.RecordWin(dec(10), dec(30))
	assert.Equal(t, 1, s.CurrentRun)

	assert.Equal(t, 6, s.TotalBets)
	assert.True(t, s.TotalWagered.Equal(dec(60)))
	// 15 + 10 + 20 won, 30 lost.
	assert.True(t, s.NetProfit.Equal(dec(15)), "net = %s", s.NetProfit)
	assert.Equal(t, int64(5000), s.WinRateBps())

	require.NotNil(t, s.FirstBetAt)
	require.NotNil(t, s.LastBetAt)
}

func TestParseOutcome(t *testing.T) {
	t.Parallel()
	o, ok := market.ParseOutcome("doom")
	assert.True(t, ok)
	assert.Equal(t, market.Doom, o)
	o, ok = market.ParseOutcome("life")
	assert.True(t, ok)
	assert.Equal(t, market.Life, o)
	_, ok = market.ParseOutcome("maybe")
	assert.False(t, ok)
}
