package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stats aggregates a user's betting record. CurrentRun is signed: a positive
// value is a run of wins, a negative one a run of losses.
type Stats struct {
	TotalBets    int             `json:"totalBets"`
	Wins         int             `json:"wins"`
	Losses       int             `json:"losses"`
	TotalWagered decimal.Decimal `json:"totalWagered"`
	TotalWon     decimal.Decimal `json:"totalWon"`
	TotalLost    decimal.Decimal `json:"totalLost"`
	NetProfit    decimal.Decimal `json:"netProfit"`
	CurrentRun   int             `json:"currentRun"`
	BestWinRun   int             `json:"bestWinRun"`
	WorstLossRun int             `json:"worstLossRun"`
	FirstBetAt   *time.Time      `json:"firstBetAt"`
	LastBetAt    *time.Time      `json:"lastBetAt"`
}

func (s *Stats) RecordBet(amount decimal.Decimal, at time.Time) {
	s.TotalBets++
	s.TotalWagered = s.TotalWagered.Add(amount)
	if s.FirstBetAt == nil {
		first := at
		s.FirstBetAt = &first
	}
	last := at
	s.LastBetAt = &last
}

func (s *Stats) RecordWin(wagered, won decimal.Decimal) {
	s.Wins++
	s.TotalWon = s.TotalWon.Add(won)
	s.NetProfit = s.NetProfit.Add(won.Sub(wagered))
	if s.CurrentRun >= 0 {
		s.CurrentRun++
	} else {
		s.CurrentRun = 1
	}
	if s.CurrentRun > s.BestWinRun {
		s.BestWinRun = s.CurrentRun
	}
}

func (s *Stats) RecordLoss(wagered decimal.Decimal) {
	s.Losses++
	s.TotalLost = s.TotalLost.Add(wagered)
	s.NetProfit = s.NetProfit.Sub(wagered)
	if s.CurrentRun <= 0 {
		s.CurrentRun--
	} else {
		s.CurrentRun = -1
	}
	if -s.CurrentRun > s.WorstLossRun {
		s.WorstLossRun = -s.CurrentRun
	}
}

// WinRateBps returns the share of winning bets in basis points.
func (s *Stats) WinRateBps() int64 {
	if s.TotalBets == 0 {
		return 0
	}
	return int64(s.Wins) * bpsDenominator / int64(s.TotalBets)
}
