package streak

import (
	"time"

	"github.com/bytedance/sonic"
)

// persisted is the stored JSON layout. LastActivityDay travels as unix
// milliseconds so the blob stays portable across hosts.
type persisted struct {
	CurrentStreak     int     `json:"currentStreak"`
	LongestStreak     int     `json:"longestStreak"`
	LastActivityDay   *int64  `json:"lastActivityDay"`
	ClaimedMilestones []int   `json:"claimedMilestones"`
	TotalBonusEarned  float64 `json:"totalBonusEarned"`
	HasActivityToday  bool    `json:"hasActivityToday"`
}

// Marshal serializes the engine state. The engine itself never touches the
// backing store; a persistence adapter owns load/save timing.
func (e *Engine) Marshal() ([]byte, error) {
	p := persisted{
		CurrentStreak:     e.state.CurrentStreak,
		LongestStreak:     e.state.LongestStreak,
		ClaimedMilestones: e.state.ClaimedMilestones,
		TotalBonusEarned:  e.state.TotalBonusEarned,
		HasActivityToday:  e.state.HasActivityToday,
	}
	if p.ClaimedMilestones == nil {
		p.ClaimedMilestones = []int{}
	}
	if e.state.LastActivityDay != nil {
		ms := e.state.LastActivityDay.UnixMilli()
		p.LastActivityDay = &ms
	}
	return sonic.Marshal(p)
}

// Unmarshal replaces the engine state with the stored blob. The stored day is
// re-normalized to local midnight so the start-of-day invariant holds even
// when the blob was written in another timezone.
func (e *Engine) Unmarshal(blob []byte) error {
	var p persisted
	if err := sonic.Unmarshal(blob, &p); err != nil {
		return err
	}
	s := State{
		CurrentStreak:     p.CurrentStreak,
		LongestStreak:     p.LongestStreak,
		ClaimedMilestones: p.ClaimedMilestones,
		TotalBonusEarned:  p.TotalBonusEarned,
		HasActivityToday:  p.HasActivityToday,
	}
	if p.LastActivityDay != nil {
		day := StartOfDay(time.UnixMilli(*p.LastActivityDay).Local())
		s.LastActivityDay = &day
	}
	e.state = s
	return nil
}
