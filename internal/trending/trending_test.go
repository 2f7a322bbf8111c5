package trending_test

import (
	"testing"
	"time"

	"github.com/doomlife/pulse/internal/trending"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func newBoard() (*trending.Board, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)}
	return trending.NewBoardWithClock(clock.Now, 6*time.Hour), clock
}

func TestTopOrdering(t *testing.T) {
	t.Parallel()
	board, _ := newBoard()
	board.Touch("doom", 3)
	board.Touch("life", 5)
	board.Touch("gm", 1)

	top := board.Top(2)
	require.Len(t, top, 2)
	assert.Equal(t, "life", top[0].Tag)
	assert.Equal(t, "doom", top[1].Tag)
}

func TestDecayHalvesScore(t *testing.T) {
	t.Parallel()
	board, clock := newBoard()
	board.Touch("doom", 8)

	clock.t = clock.t.Add(6 * time.Hour)
	top := board.Top(1)
	require.Len(t, top, 1)
	assert.InDelta(t, 4, top[0].Score, 1e-9)

	clock.t = clock.t.Add(6 * time.Hour)
	top = board.Top(1)
	assert.InDelta(t, 2, top[0].Score, 1e-9)
}

func TestFreshBeatsStale(t *testing.T) {
	t.Parallel()
	board, clock := newBoard()
	board.Touch("old", 10)
	clock.t = clock.t.Add(24 * time.Hour)
	board.Touch("new", 2)

	top := board.Top(2)
	require.Len(t, top, 2)
	assert.Equal(t, "new", top[0].Tag)
}

func TestTouchAccumulatesWithDecay(t *testing.T) {
	t.Parallel()
	board, clock := newBoard()
	board.Touch("doom", 4)
	clock.t = clock.t.Add(6 * time.Hour)
	board.Touch("doom", 1)

	top := board.Top(1)
	require.Len(t, top, 1)
	assert.InDelta(t, 3, top[0].Score, 1e-9)
}

func TestNormalization(t *testing.T) {
	t.Parallel()
	board, _ := newBoard()
	board.Touch("#Doom", 1)
	board.Touch("doom", 1)
	board.Touch("  #DOOM ", 1)
	board.Touch("", 1)
	board.Touch("life", -2)

	assert.Equal(t, 1, board.Len())
	top := board.Top(5)
	require.Len(t, top, 1)
	assert.Equal(t, "doom", top[0].Tag)
	assert.InDelta(t, 3, top[0].Score, 1e-9)
}

func TestCompactDropsNoise(t *testing.T) {
	t.Parallel()
	board, clock := newBoard()
	board.Touch("doom", 1)
	board.Touch("life", 1000)

	// Two days of decay leave "doom" below the floor while "life" survives.
	clock.t = clock.t.Add(48 * time.Hour)
	removed := board.Compact()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, board.Len())

	top := board.Top(5)
	require.Len(t, top, 1)
	assert.Equal(t, "life", top[0].Tag)
}
