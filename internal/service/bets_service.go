package service

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	errorvalues "github.com/doomlife/pulse/internal/error_values"
	"github.com/doomlife/pulse/internal/market"
	"github.com/doomlife/pulse/internal/repository"
	"github.com/doomlife/pulse/internal/safeguard"
)

const (
	betStatsStateKind  = "bet_stats"
	safeguardStateKind = "safeguard"
)

// BetsService keeps each user's betting record and responsible-gambling
// guard. Like the streak service it holds one locked session per user; the
// parimutuel math itself lives in the market package and stays pure.
type BetsService struct {
	states repository.StateRepositoryI
	now    func() time.Time
	feeBps uint16

	mu       sync.Mutex
	sessions map[uuid.UUID]*betSession
}

type betSession struct {
	mu    sync.Mutex
	guard *safeguard.Guard
	stats market.Stats
}

func NewBetsService(states repository.StateRepositoryI, feeBps uint16) *BetsService {
	return NewBetsServiceWithClock(states, feeBps, time.Now)
}

func NewBetsServiceWithClock(states repository.StateRepositoryI, feeBps uint16, now func() time.Time) *BetsService {
	if states == nil {
		log.Fatal("provided nil state repository")
	}
	return &BetsService{
		states:   states,
		now:      now,
		feeBps:   feeBps,
		sessions: map[uuid.UUID]*betSession{},
	}
}

func (bs *BetsService) PlaceBet(ctx context.Context, uid uuid.UUID, req *PlaceBetRequest) (*BetTicket, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	outcome, ok := market.ParseOutcome(req.Outcome)
	if !ok {
		return nil, errorvalues.ErrUnknownOutcome
	}
	if !req.Amount.IsPositive() {
		return nil, errors.New("bet amount must be positive")
	}
	sess, err := bs.session(ctx, uid)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	pools := market.Pools{Doom: req.DoomPool, Life: req.LifePool}
	ticket := &BetTicket{
		OddsBps: pools.OddsBps(outcome),
	}
	verdict := sess.guard.CheckWager(req.Amount)
	ticket.Verdict = verdict.String()
	if verdict != safeguard.Allowed {
		// Fail soft: a denied wager is a regular answer, not an error.
		return ticket, nil
	}

	sess.guard.RecordWager(req.Amount)
	sess.stats.RecordBet(req.Amount, bs.now())

	// The quote assumes the bet joins its pool and eventually wins.
	joined := pools
	if outcome == market.Doom {
		joined.Doom = joined.Doom.Add(req.Amount)
	} else {
		joined.Life = joined.Life.Add(req.Amount)
	}
	if payout, fee, ok := market.Payout(req.Amount, outcome, joined, outcome, bs.feeBps); ok {
		ticket.PotentialPayout = payout
		ticket.PotentialFee = fee
	}
	bs.persist(ctx, uid, sess)
	return ticket, nil
}

func (bs *BetsService) SettleBet(ctx context.Context, uid uuid.UUID, req *SettleBetRequest) (*Settlement, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	outcome, ok := market.ParseOutcome(req.Outcome)
	if !ok {
		return nil, errorvalues.ErrUnknownOutcome
	}
	resolved, ok := market.ParseOutcome(req.Resolved)
	if !ok {
		return nil, errorvalues.ErrUnknownOutcome
	}
	sess, err := bs.session(ctx, uid)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	pools := market.Pools{Doom: req.DoomPool, Life: req.LifePool}
	payout, fee, won := market.Payout(req.Amount, outcome, pools, resolved, bs.feeBps)
	if won {
		sess.stats.RecordWin(req.Amount, payout)
	} else {
		sess.stats.RecordLoss(req.Amount)
		sess.guard.RecordLoss(req.Amount)
	}
	bs.persist(ctx, uid, sess)
	return &Settlement{Won: won, Payout: payout, Fee: fee}, nil
}

func (bs *BetsService) Stats(ctx context.Context, uid uuid.UUID) (*market.Stats, error) {
	sess, err := bs.session(ctx, uid)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	stats := sess.stats
	return &stats, nil
}

func (bs *BetsService) SetLimits(ctx context.Context, uid uuid.UUID, limits safeguard.Limits) (*safeguard.Snapshot, error) {
	sess, err := bs.session(ctx, uid)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.guard.SetLimits(limits)
	bs.persist(ctx, uid, sess)
	snap := sess.guard.Snapshot()
	return &snap, nil
}

func (bs *BetsService) StartCoolingOff(ctx context.Context, uid uuid.UUID, hours int) (*safeguard.Snapshot, error) {
	sess, err := bs.session(ctx, uid)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.guard.StartCoolingOff(time.Duration(hours) * time.Hour)
	bs.persist(ctx, uid, sess)
	snap := sess.guard.Snapshot()
	return &snap, nil
}

func (bs *BetsService) Safeguards(ctx context.Context, uid uuid.UUID) (*safeguard.Snapshot, error) {
	sess, err := bs.session(ctx, uid)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	snap := sess.guard.Snapshot()
	return &snap, nil
}

func (bs *BetsService) session(ctx context.Context, uid uuid.UUID) (*betSession, error) {
	bs.mu.Lock()
	sess, ok := bs.sessions[uid]
	if ok {
		bs.mu.Unlock()
		return sess, nil
	}
	sess = &betSession{guard: safeguard.NewWithClock(bs.now)}
	sess.mu.Lock()
	bs.sessions[uid] = sess
	bs.mu.Unlock()
	defer sess.mu.Unlock()

	if blob, err := bs.states.Load(ctx, uid, safeguardStateKind); err == nil {
		if err := sess.guard.Unmarshal(blob); err != nil {
			slog.Warn("dropping corrupt safeguard state", slog.String("uid", uid.String()), slog.String("error", err.Error()))
		}
	} else if !errors.Is(err, errorvalues.ErrStateNotFound) {
		bs.dropSession(uid)
		return nil, errors.New("repository error: " + err.Error())
	}

	if blob, err := bs.states.Load(ctx, uid, betStatsStateKind); err == nil {
		if err := sonic.Unmarshal(blob, &sess.stats); err != nil {
			slog.Warn("dropping corrupt bet stats", slog.String("uid", uid.String()), slog.String("error", err.Error()))
			sess.stats = market.Stats{}
		}
	} else if !errors.Is(err, errorvalues.ErrStateNotFound) {
		bs.dropSession(uid)
		return nil, errors.New("repository error: " + err.Error())
	}
	return sess, nil
}

func (bs *BetsService) dropSession(uid uuid.UUID) {
	bs.mu.Lock()
	delete(bs.sessions, uid)
	bs.mu.Unlock()
}

func (bs *BetsService) persist(ctx context.Context, uid uuid.UUID, sess *betSession) {
	if blob, err := sess.guard.Marshal(); err == nil {
		if err := bs.states.Save(ctx, uid, safeguardStateKind, blob); err != nil {
			slog.Warn("saving safeguard state", slog.String("uid", uid.String()), slog.String("error", err.Error()))
		}
	}
	if blob, err := sonic.Marshal(sess.stats); err == nil {
		if err := bs.states.Save(ctx, uid, betStatsStateKind, blob); err != nil {
			slog.Warn("saving bet stats", slog.String("uid", uid.String()), slog.String("error", err.Error()))
		}
	}
}
