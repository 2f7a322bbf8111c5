package safeguard

import (
	"time"

	"github.com/doomlife/pulse/internal/streak"
	"github.com/shopspring/decimal"
)

// increaseDelay is how long a loosened limit waits before taking effect.
// Tightening is always immediate.
const increaseDelay = 24 * time.Hour

// Limits are per-calendar-day caps. A zero cap means unlimited.
type Limits struct {
	DailyWagerCap decimal.Decimal `json:"dailyWagerCap"`
	DailyLossCap  decimal.Decimal `json:"dailyLossCap"`
}

// tighterOrEqual reports whether cap b restricts at least as much as a.
func tighterOrEqual(a, b decimal.Decimal) bool {
	if b.IsZero() {
		return a.IsZero()
	}
	if a.IsZero() {
		return true
	}
	return b.LessThanOrEqual(a)
}

type Verdict int

const (
	Allowed Verdict = iota
	DeniedCoolingOff
	DeniedWagerCap
	DeniedLossCap
)

func (v Verdict) String() string {
	switch v {
	case Allowed:
		return "allowed"
	case DeniedCoolingOff:
		return "cooling_off"
	case DeniedWagerCap:
		return "daily_wager_cap"
	case DeniedLossCap:
		return "daily_loss_cap"
	}
	return "unknown"
}

type pendingLimits struct {
	Limits      Limits    `json:"limits"`
	EffectiveAt time.Time `json:"effectiveAt"`
}

// Guard is the per-user responsible-gambling state machine. Like the streak
// engine it is a plain in-memory object with an injected clock; callers
// serialize access and own persistence.
type Guard struct {
	now          func() time.Time
	limits       Limits
	pending      *pendingLimits
	coolingUntil *time.Time
	day          time.Time
	wageredToday decimal.Decimal
	lostToday    decimal.Decimal
}

func New() *Guard {
	return NewWithClock(time.Now)
}

func NewWithClock(now func() time.Time) *Guard {
	return &Guard{now: now}
}

// SetLimits applies new caps. Any cap at least as tight as the current one
// takes effect immediately; a loosening is parked and only becomes effective
// after the delay, replacing any previously parked change.
func (g *Guard) SetLimits(l Limits) {
	g.tick()
	if tighterOrEqual(g.limits.DailyWagerCap, l.DailyWagerCap) &&
		tighterOrEqual(g.limits.DailyLossCap, l.DailyLossCap) {
		g.limits = l
		g.pending = nil
		return
	}
	// Tightened fields still apply now.
	immediate := g.limits
	if tighterOrEqual(g.limits.DailyWagerCap, l.DailyWagerCap) {
		immediate.DailyWagerCap = l.DailyWagerCap
	}
	if tighterOrEqual(g.limits.DailyLossCap, l.DailyLossCap) {
		immediate.DailyLossCap = l.DailyLossCap
	}
	g.limits = immediate
	g.pending = &pendingLimits{
		Limits:      l,
		EffectiveAt: g.now().Add(increaseDelay),
	}
}

// StartCoolingOff blocks all wagering until the period elapses. A
// non-positive duration is ignored.
func (g *Guard) StartCoolingOff(d time.Duration) {
	if d <= 0 {
		return
	}
	until := g.now().Add(d)
	g.coolingUntil = &until
}

func (g *Guard) InCoolingOff() bool {
	g.tick()
	return g.coolingUntil != nil
}

// CheckWager decides whether a wager of the given amount may be placed now.
func (g *Guard) CheckWager(amount decimal.Decimal) Verdict {
	g.tick()
	if g.coolingUntil != nil {
		return DeniedCoolingOff
	}
	if !g.limits.DailyWagerCap.IsZero() && g.wageredToday.Add(amount).GreaterThan(g.limits.DailyWagerCap) {
		return DeniedWagerCap
	}
	if !g.limits.DailyLossCap.IsZero() && g.lostToday.GreaterThanOrEqual(g.limits.DailyLossCap) {
		return DeniedLossCap
	}
	return Allowed
}

// RecordWager adds to today's wagered total. Callers check first.
func (g *Guard) RecordWager(amount decimal.Decimal) {
	g.tick()
	g.wageredToday = g.wageredToday.Add(amount)
}

// RecordLoss adds to today's loss total.
func (g *Guard) RecordLoss(amount decimal.Decimal) {
	g.tick()
	g.lostToday = g.lostToday.Add(amount)
}

type Snapshot struct {
	Limits       Limits          `json:"limits"`
	Pending      *Limits         `json:"pendingLimits,omitempty"`
	PendingAt    *time.Time      `json:"pendingEffectiveAt,omitempty"`
	CoolingUntil *time.Time      `json:"coolingUntil,omitempty"`
	WageredToday decimal.Decimal `json:"wageredToday"`
	LostToday    decimal.Decimal `json:"lostToday"`
}

func (g *Guard) Snapshot() Snapshot {
	g.tick()
	s := Snapshot{
		Limits:       g.limits,
		WageredToday: g.wageredToday,
		LostToday:    g.lostToday,
	}
	if g.pending != nil {
		l := g.pending.Limits
		at := g.pending.EffectiveAt
		s.Pending = &l
		s.PendingAt = &at
	}
	if g.coolingUntil != nil {
		until := *g.coolingUntil
		s.CoolingUntil = &until
	}
	return s
}

// tick folds elapsed time into the state: day counters roll over at local
// midnight, parked limit changes mature, expired cooling-off ends.
func (g *Guard) tick() {
	now := g.now()
	today := streak.StartOfDay(now)
	if !g.day.Equal(today) {
		g.day = today
		g.wageredToday = decimal.Zero
		g.lostToday = decimal.Zero
	}
	if g.pending != nil && !now.Before(g.pending.EffectiveAt) {
		g.limits = g.pending.Limits
		g.pending = nil
	}
	if g.coolingUntil != nil && !now.Before(*g.coolingUntil) {
		g.coolingUntil = nil
	}
}
