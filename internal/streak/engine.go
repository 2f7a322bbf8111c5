package streak

import (
	"math"
	"time"
)

// graceDays is how many whole calendar days may be skipped between two
// qualifying activities before the streak breaks. With graceDays = 1 a gap
// of two days (one day of silence) still continues the streak.
const graceDays = 1

type State struct {
	CurrentStreak     int
	LongestStreak     int
	LastActivityDay   *time.Time
	ClaimedMilestones []int
	TotalBonusEarned  float64
	HasActivityToday  bool
}

type RecordResult struct {
	Updated      bool
	StreakBroken bool
	NewStreak    int
	Milestone    *Milestone
}

// Engine is the per-user streak state machine. It is not safe for concurrent
// use; callers owning more than one goroutine must serialize access.
type Engine struct {
	now   func() time.Time
	state State
}

func New() *Engine {
	return NewWithClock(time.Now)
}

func NewWithClock(now func() time.Time) *Engine {
	return &Engine{
		now: now,
	}
}

// dayGap classifies the whole-day distance between the last activity day and
// today. The buckets are the states of the transition table below.
type dayGap int

const (
	gapSameDay dayGap = iota
	gapConsecutive
	gapGrace
	gapLapsed
)

func bucketGap(diff int) dayGap {
	switch {
	case diff == 0:
		return gapSameDay
	case diff == 1:
		return gapConsecutive
	case diff <= 1+graceDays:
		return gapGrace
	default:
		return gapLapsed
	}
}

type transition func(current int) (next int, broken bool)

var transitions = map[dayGap]transition{
	gapSameDay:     func(cur int) (int, bool) { return cur, false },
	gapConsecutive: func(cur int) (int, bool) { return cur + 1, false },
	gapGrace:       func(cur int) (int, bool) { return cur + 1, false },
	gapLapsed:      func(cur int) (int, bool) { return 1, cur > 0 },
}

// RecordActivity registers a qualifying action for the current calendar day.
// Repeated calls on the same day are no-ops with Updated = false.
func (e *Engine) RecordActivity() RecordResult {
	today := StartOfDay(e.now())
	if e.state.HasActivityToday && e.state.LastActivityDay != nil && e.state.LastActivityDay.Equal(today) {
		return RecordResult{NewStreak: e.state.CurrentStreak}
	}

	var next int
	var broken bool
	if e.state.LastActivityDay == nil {
		next = 1
	} else {
		gap := bucketGap(WholeDaysBetween(*e.state.LastActivityDay, today))
		next, broken = transitions[gap](e.state.CurrentStreak)
	}

	e.state.CurrentStreak = next
	if next > e.state.LongestStreak {
		e.state.LongestStreak = next
	}
	e.state.LastActivityDay = &today
	e.state.HasActivityToday = true

	return RecordResult{
		Updated:      true,
		StreakBroken: broken,
		NewStreak:    next,
		Milestone:    e.reachedAt(next),
	}
}

// Reconcile folds elapsed wall-clock time into the state without recording
// new activity. Called on app load/resume and by the daily sweep. A streak
// left beyond the grace window lapses to zero; the longest streak and the
// claim history survive.
func (e *Engine) Reconcile() {
	if e.state.LastActivityDay == nil {
		return
	}
	diff := WholeDaysBetween(*e.state.LastActivityDay, StartOfDay(e.now()))
	if diff > 0 {
		e.state.HasActivityToday = false
	}
	if diff > 1+graceDays && e.state.CurrentStreak > 0 {
		e.state.CurrentStreak = 0
	}
}

// ClaimMilestone claims the bonus for the given day threshold. It fails soft:
// an unknown, already claimed or not yet reached milestone yields 0.
func (e *Engine) ClaimMilestone(days int) float64 {
	ms := FindMilestone(days)
	if ms == nil {
		return 0
	}
	if e.claimed(days) {
		return 0
	}
	if e.state.CurrentStreak < days {
		return 0
	}
	e.state.ClaimedMilestones = append(e.state.ClaimedMilestones, days)
	e.state.TotalBonusEarned += ms.Bonus
	return ms.Bonus
}

func (e *Engine) UnclaimedMilestones() []Milestone {
	var out []Milestone
	for _, ms := range Milestones {
		if ms.Days <= e.state.CurrentStreak && !e.claimed(ms.Days) {
			out = append(out, ms)
		}
	}
	return out
}

func (e *Engine) NextMilestone() *Milestone {
	for _, ms := range Milestones {
		if ms.Days > e.state.CurrentStreak {
			return &ms
		}
	}
	return nil
}

func (e *Engine) DaysUntilNextMilestone() int {
	next := e.NextMilestone()
	if next == nil {
		return 0
	}
	return next.Days - e.state.CurrentStreak
}

// AtRisk reports whether the grace window has started consuming its buffer:
// the user holds a streak, has not posted today, and at least one whole day
// has passed since the last activity.
func (e *Engine) AtRisk() bool {
	if e.state.CurrentStreak == 0 || e.state.HasActivityToday || e.state.LastActivityDay == nil {
		return false
	}
	return WholeDaysBetween(*e.state.LastActivityDay, StartOfDay(e.now())) >= 1
}

// Reset restores all fields to their defaults. Used on logout and in tests.
func (e *Engine) Reset() {
	e.state = State{}
}

// Snapshot returns a copy of the state safe to hand out.
func (e *Engine) Snapshot() State {
	s := e.state
	if e.state.LastActivityDay != nil {
		day := *e.state.LastActivityDay
		s.LastActivityDay = &day
	}
	s.ClaimedMilestones = append([]int(nil), e.state.ClaimedMilestones...)
	return s
}

func (e *Engine) reachedAt(streak int) *Milestone {
	ms := FindMilestone(streak)
	if ms == nil || e.claimed(ms.Days) {
		return nil
	}
	return ms
}

func (e *Engine) claimed(days int) bool {
	for _, d := range e.state.ClaimedMilestones {
		if d == days {
			return true
		}
	}
	return false
}

// StartOfDay normalizes t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WholeDaysBetween counts calendar days from one instant's day to another's.
// Rounding absorbs DST shifts. A backwards-moving clock yields a negative
// raw delta, which is clamped to 0 and treated as the same day.
func WholeDaysBetween(from, to time.Time) int {
	diff := int(math.Round(StartOfDay(to).Sub(StartOfDay(from)).Hours() / 24))
	if diff < 0 {
		return 0
	}
	return diff
}
