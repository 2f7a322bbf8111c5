package service

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	errorvalues "github.com/doomlife/pulse/internal/error_values"
	"github.com/doomlife/pulse/internal/repository"
	"github.com/doomlife/pulse/internal/streak"
)

const streakStateKind = "streak"

// StreakService owns one streak engine per user. Engine operations are not
// individually safe to interleave (two same-day RecordActivity calls must not
// double-increment), so every session carries its own mutex and all work on
// an engine happens under it.
type StreakService struct {
	states repository.StateRepositoryI
	now    func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*streakSession
}

type streakSession struct {
	mu  sync.Mutex
	eng *streak.Engine
}

func NewStreakService(states repository.StateRepositoryI) *StreakService {
	return NewStreakServiceWithClock(states, time.Now)
}

func NewStreakServiceWithClock(states repository.StateRepositoryI, now func() time.Time) *StreakService {
	if states == nil {
		log.Fatal("provided nil state repository")
	}
	return &StreakService{
		states:   states,
		now:      now,
		sessions: map[uuid.UUID]*streakSession{},
	}
}

func (ss *StreakService) RecordActivity(ctx context.Context, uid uuid.UUID) (streak.RecordResult, error) {
	sess, err := ss.session(ctx, uid)
	if err != nil {
		return streak.RecordResult{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	res := sess.eng.RecordActivity()
	if res.Updated {
		ss.persist(ctx, uid, sess)
	}
	return res, nil
}

func (ss *StreakService) Status(ctx context.Context, uid uuid.UUID) (*StreakStatus, error) {
	sess, err := ss.session(ctx, uid)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	before := sess.eng.Snapshot()
	sess.eng.Reconcile()
	after := sess.eng.Snapshot()
	if before.CurrentStreak != after.CurrentStreak || before.HasActivityToday != after.HasActivityToday {
		ss.persist(ctx, uid, sess)
	}
	status := &StreakStatus{
		CurrentStreak:          after.CurrentStreak,
		LongestStreak:          after.LongestStreak,
		HasActivityToday:       after.HasActivityToday,
		AtRisk:                 sess.eng.AtRisk(),
		TotalBonusEarned:       after.TotalBonusEarned,
		NextMilestone:          sess.eng.NextMilestone(),
		DaysUntilNextMilestone: sess.eng.DaysUntilNextMilestone(),
		UnclaimedMilestones:    sess.eng.UnclaimedMilestones(),
	}
	return status, nil
}

func (ss *StreakService) ClaimMilestone(ctx context.Context, uid uuid.UUID, days int) (float64, error) {
	sess, err := ss.session(ctx, uid)
	if err != nil {
		return 0, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	bonus := sess.eng.ClaimMilestone(days)
	if bonus > 0 {
		ss.persist(ctx, uid, sess)
	}
	return bonus, nil
}

func (ss *StreakService) Reset(ctx context.Context, uid uuid.UUID) error {
	sess, err := ss.session(ctx, uid)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.eng.Reset()
	if err := ss.states.Delete(ctx, uid, streakStateKind); err != nil {
		return errors.New("repository error: " + err.Error())
	}
	return nil
}

// ReconcileLoaded sweeps every in-memory session, lapsing streaks left beyond
// the grace window. Run by the daily cron job.
func (ss *StreakService) ReconcileLoaded(ctx context.Context) {
	ss.mu.Lock()
	sessions := make(map[uuid.UUID]*streakSession, len(ss.sessions))
	for uid, sess := range ss.sessions {
		sessions[uid] = sess
	}
	ss.mu.Unlock()
	for uid, sess := range sessions {
		sess.mu.Lock()
		sess.eng.Reconcile()
		ss.persist(ctx, uid, sess)
		sess.mu.Unlock()
	}
}

// session returns the per-user engine, loading the stored blob on first use.
// The fresh session is published locked, so concurrent callers wait for the
// load instead of seeing an empty engine.
func (ss *StreakService) session(ctx context.Context, uid uuid.UUID) (*streakSession, error) {
	ss.mu.Lock()
	sess, ok := ss.sessions[uid]
	if ok {
		ss.mu.Unlock()
		return sess, nil
	}
	sess = &streakSession{eng: streak.NewWithClock(ss.now)}
	sess.mu.Lock()
	ss.sessions[uid] = sess
	ss.mu.Unlock()
	defer sess.mu.Unlock()

	blob, err := ss.states.Load(ctx, uid, streakStateKind)
	if err != nil {
		if errors.Is(err, errorvalues.ErrStateNotFound) {
			return sess, nil
		}
		ss.dropSession(uid)
		return nil, errors.New("repository error: " + err.Error())
	}
	if err := sess.eng.Unmarshal(blob); err != nil {
		// A corrupt blob must not take the feature down; start over.
		slog.Warn("dropping corrupt streak state", slog.String("uid", uid.String()), slog.String("error", err.Error()))
		sess.eng.Reset()
	}
	return sess, nil
}

func (ss *StreakService) dropSession(uid uuid.UUID) {
	ss.mu.Lock()
	delete(ss.sessions, uid)
	ss.mu.Unlock()
}

// persist writes the blob out-of-band of the state transition: a store
// failure is logged, never surfaced, the in-memory state stays authoritative.
func (ss *StreakService) persist(ctx context.Context, uid uuid.UUID, sess *streakSession) {
	blob, err := sess.eng.Marshal()
	if err != nil {
		slog.Error("marshaling streak state", slog.String("uid", uid.String()), slog.String("error", err.Error()))
		return
	}
	if err := ss.states.Save(ctx, uid, streakStateKind, blob); err != nil {
		slog.Warn("saving streak state", slog.String("uid", uid.String()), slog.String("error", err.Error()))
	}
}
