package safeguard_test

import (
	"testing"
	"time"

	"github.com/doomlife/pulse/internal/safeguard"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func newGuard() (*safeguard.Guard, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.Local)}
	return safeguard.NewWithClock(clock.Now), clock
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func limits(wager, loss int64) safeguard.Limits {
	return safeguard.Limits{DailyWagerCap: dec(wager), DailyLossCap: dec(loss)}
}

func TestUnlimitedByDefault(t *testing.T) {
	t.Parallel()
	guard, _ := newGuard()
	assert.Equal(t, safeguard.Allowed, guard.CheckWager(dec(1_000_000)))
}

func TestDailyWagerCap(t *testing.T) {
	t.Parallel()
	guard, clock := newGuard()
	guard.SetLimits(limits(100, 0))

	assert.Equal(t, safeguard.Allowed, guard.CheckWager(dec(60)))
	guard.RecordWager(dec(60))

	assert.Equal(t, safeguard.Allowed, guard.CheckWager(dec(40)))
	assert.Equal(t, safeguard.DeniedWagerCap, guard.CheckWager(dec(41)))

	// Counters reset at the next calendar day.
	clock.t = clock.t.AddDate(0, 0, 1)
	assert.Equal(t, safeguard.Allowed, guard.CheckWager(dec(100)))
}

func TestDailyLossCap(t *testing.T) {
	t.Parallel()
	guard, _ := newGuard()
	guard.SetLimits(limits(0, 50))

	guard.RecordLoss(dec(49))
	assert.Equal(t, safeguard.Allowed, guard.CheckWager(dec(10)))
	guard.RecordLoss(dec(1))
	assert.Equal(t, safeguard.DeniedLossCap, guard.CheckWager(dec(10)))
}

func TestTighteningIsImmediate(t *testing.T) {
	t.Parallel()
	guard, _ := newGuard()
	guard.SetLimits(limits(100, 0))
	guard.SetLimits(limits(50, 0))
	assert.Equal(t, safeguard.DeniedWagerCap, guard.CheckWager(dec(51)))
	assert.Nil(t, guard.Snapshot().Pending)
}

func TestLooseningIsDeferred(t *testing.T) {
	t.Parallel()
	guard, clock := newGuard()
	guard.SetLimits(limits(50, 0))
	guard.SetLimits(limits(100, 0))

	// Old cap still rules for the next 24 hours.
	assert.Equal(t, safeguard.DeniedWagerCap, guard.CheckWager(dec(60)))
	snap := guard.Snapshot()
	require.NotNil(t, snap.Pending)
	assert.True(t, snap.Pending.DailyWagerCap.Equal(dec(100)))

	clock.t = clock.t.Add(24 * time.Hour)
	assert.Equal(t, safeguard.Allowed, guard.CheckWager(dec(60)))
	assert.Nil(t, guard.Snapshot().Pending)
}

func TestRemovingCapIsDeferred(t *testing.T) {
	t.Parallel()
	guard, clock := newGuard()
	guard.SetLimits(limits(50, 0))
	guard.SetLimits(limits(0, 0))

	assert.Equal(t, safeguard.DeniedWagerCap, guard.CheckWager(dec(60)))
	clock.t = clock.t.Add(25 * time.Hour)
	assert.Equal(t, safeguard.Allowed, guard.CheckWager(dec(60)))
}

func TestMixedChangeTightensNowLoosensLater(t *testing.T) {
	t.Parallel()
	guard, clock := newGuard()
	guard.SetLimits(limits(100, 100))
	guard.SetLimits(limits(50, 200))

	// Wager cap tightened immediately, loss cap loosening parked.
	assert.Equal(t, safeguard.DeniedWagerCap, guard.CheckWager(dec(51)))
	guard.RecordLoss(dec(150))
	assert.Equal(t, safeguard.DeniedLossCap, guard.CheckWager(dec(10)))

	clock.t = clock.t.Add(24 * time.Hour)
	// New day also reset the loss counter; the matured caps now apply.
	assert.Equal(t, safeguard.DeniedWagerCap, guard.CheckWager(dec(51)))
	assert.Equal(t, safeguard.Allowed, guard.CheckWager(dec(50)))
}

func TestCoolingOff(t *testing.T) {
	t.Parallel()
	guard, clock := newGuard()
	guard.StartCoolingOff(48 * time.Hour)

	assert.True(t, guard.InCoolingOff())
	assert.Equal(t, safeguard.DeniedCoolingOff, guard.CheckWager(dec(1)))

	clock.t = clock.t.Add(47 * time.Hour)
	assert.Equal(t, safeguard.DeniedCoolingOff, guard.CheckWager(dec(1)))

	clock.t = clock.t.Add(time.Hour)
	assert.False(t, guard.InCoolingOff())
	assert.Equal(t, safeguard.Allowed, guard.CheckWager(dec(1)))
}

func TestCoolingOffIgnoresNonPositive(t *testing.T) {
	t.Parallel()
	guard, _ := newGuard()
	guard.StartCoolingOff(0)
	assert.False(t, guard.InCoolingOff())
}

func TestGuardCodecRoundTrip(t *testing.T) {
	t.Parallel()
	guard, clock := newGuard()
	guard.SetLimits(limits(50, 25))
	guard.SetLimits(limits(100, 25))
	guard.RecordWager(dec(10))
	guard.RecordLoss(dec(5))
	guard.StartCoolingOff(time.Hour)

	blob, err := guard.Marshal()
	require.NoError(t, err)

	restored := safeguard.NewWithClock(clock.Now)
	require.NoError(t, restored.Unmarshal(blob))

	want, got := guard.Snapshot(), restored.Snapshot()
	assert.True(t, got.Limits.DailyWagerCap.Equal(want.Limits.DailyWagerCap))
	assert.True(t, got.Limits.DailyLossCap.Equal(want.Limits.DailyLossCap))
	require.NotNil(t, got.Pending)
	assert.True(t, got.Pending.DailyWagerCap.Equal(dec(100)))
	assert.True(t, got.WageredToday.Equal(want.WageredToday))
	assert.True(t, got.LostToday.Equal(want.LostToday))
	require.NotNil(t, got.CoolingUntil)
	assert.True(t, got.CoolingUntil.Equal(*want.CoolingUntil))
}
