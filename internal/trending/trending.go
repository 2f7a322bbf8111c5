package trending

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	defaultHalfLife = 6 * time.Hour

	// Entries whose decayed score falls below this are dropped by Compact.
	minScore = 0.01
)

type Entry struct {
	Tag   string  `json:"tag"`
	Score float64 `json:"score"`
}

type tagStat struct {
	score     float64
	touchedAt time.Time
}

// Board ranks hashtags by an exponentially decaying engagement score. Each
// Touch adds weight; stored scores decay with the configured half life, so a
// burst of old engagement loses to fresh activity. Safe for concurrent use.
type Board struct {
	mu       sync.Mutex
	now      func() time.Time
	halfLife time.Duration
	tags     map[string]*tagStat
}

func NewBoard() *Board {
	return NewBoardWithClock(time.Now, defaultHalfLife)
}

func NewBoardWithClock(now func() time.Time, halfLife time.Duration) *Board {
	if halfLife <= 0 {
		halfLife = defaultHalfLife
	}
	return &Board{
		now:      now,
		halfLife: halfLife,
		tags:     map[string]*tagStat{},
	}
}

// Touch adds weight to a tag's score. Tags are case-insensitive; empty tags
// and non-positive weights are ignored.
func (b *Board) Touch(tag string, weight float64) {
	tag = Normalize(tag)
	if tag == "" || weight <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	st, ok := b.tags[tag]
	if !ok {
		b.tags[tag] = &tagStat{score: weight, touchedAt: now}
		return
	}
	st.score = st.score*b.decay(st.touchedAt, now) + weight
	st.touchedAt = now
}

// Top returns the n highest-scoring tags at the current instant, ties broken
// lexicographically for a stable order.
func (b *Board) Top(n int) []Entry {
	if n <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	entries := make([]Entry, 0, len(b.tags))
	for tag, st := range b.tags {
		entries = append(entries, Entry{Tag: tag, Score: st.score * b.decay(st.touchedAt, now)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Tag < entries[j].Tag
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Compact drops tags that have decayed to noise. Run periodically.
func (b *Board) Compact() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	removed := 0
	for tag, st := range b.tags {
		if st.score*b.decay(st.touchedAt, now) < minScore {
			delete(b.tags, tag)
			removed++
		}
	}
	return removed
}

func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.tags)
}

func (b *Board) decay(from, to time.Time) float64 {
	age := to.Sub(from)
	if age <= 0 {
		return 1
	}
	return math.Pow(0.5, float64(age)/float64(b.halfLife))
}

// Normalize lowercases a tag and strips a leading '#'.
func Normalize(tag string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
}
