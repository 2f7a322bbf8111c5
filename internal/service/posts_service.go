package service

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/doomlife/pulse/internal/badges"
	errorvalues "github.com/doomlife/pulse/internal/error_values"
	"github.com/doomlife/pulse/internal/pricing"
	"github.com/doomlife/pulse/internal/repository"
	"github.com/doomlife/pulse/internal/streak"
	"github.com/doomlife/pulse/internal/trending"
	"github.com/doomlife/pulse/pkg/entity"
)

const badgesStateKind = "badges"

type badgeSet struct {
	Owned []string `json:"owned"`
}

// PostsService drives the post-creation flow: charging the tiered life-post
// price, advancing the streak, feeding the trending board and handing out
// badges. Doom posts are free and do not advance the streak.
type PostsService struct {
	repo    repository.PostsRepositoryI
	states  repository.StateRepositoryI
	streaks StreakServiceI
	board   *trending.Board
	now     func() time.Time
}

func NewPostsService(postsRepo repository.PostsRepositoryI, states repository.StateRepositoryI, streaks StreakServiceI, board *trending.Board) *PostsService {
	return NewPostsServiceWithClock(postsRepo, states, streaks, board, time.Now)
}

func NewPostsServiceWithClock(postsRepo repository.PostsRepositoryI, states repository.StateRepositoryI, streaks StreakServiceI, board *trending.Board, now func() time.Time) *PostsService {
	if postsRepo == nil || states == nil || streaks == nil || board == nil {
		log.Fatal("on posts service provided nil dependencies")
	}
	return &PostsService{
		repo:    postsRepo,
		states:  states,
		streaks: streaks,
		board:   board,
		now:     now,
	}
}

func (ps *PostsService) CreatePost(ctx context.Context, uid uuid.UUID, req *CreatePostRequest) (*PostReceipt, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	kind := entity.PostKind(req.Kind)
	if kind != entity.PostKindDoom && kind != entity.PostKindLife {
		return nil, errorvalues.ErrUnknownKind
	}

	status, err := ps.streaks.Status(ctx, uid)
	if err != nil {
		return nil, errors.New("streak service error: " + err.Error())
	}

	cost := decimal.Zero
	if kind == entity.PostKindLife {
		postsToday, err := ps.repo.CountByUserAndDay(ctx, uid, streak.StartOfDay(ps.now()))
		if err != nil {
			return nil, errors.New("repository error: " + err.Error())
		}
		cost = pricing.LifePostCost(postsToday, status.CurrentStreak)
	}

	post := &entity.Post{
		UserID:    uid,
		Kind:      kind,
		Body:      req.Body,
		Tags:      normalizeTags(req.Tags),
		Cost:      cost,
		CreatedAt: ps.now(),
	}
	id, err := ps.repo.Create(ctx, post)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	post.ID = id

	receipt := &PostReceipt{Post: post}
	if kind == entity.PostKindLife {
		res, err := ps.streaks.RecordActivity(ctx, uid)
		if err != nil {
			return nil, errors.New("streak service error: " + err.Error())
		}
		receipt.Streak = &res
	}

	for _, tag := range post.Tags {
		ps.board.Touch(tag, 1)
	}

	receipt.NewBadges = ps.awardBadges(ctx, uid, receipt)
	return receipt, nil
}

func (ps *PostsService) QuoteLifePost(ctx context.Context, uid uuid.UUID) (decimal.Decimal, error) {
	status, err := ps.streaks.Status(ctx, uid)
	if err != nil {
		return decimal.Zero, errors.New("streak service error: " + err.Error())
	}
	postsToday, err := ps.repo.CountByUserAndDay(ctx, uid, streak.StartOfDay(ps.now()))
	if err != nil {
		return decimal.Zero, errors.New("repository error: " + err.Error())
	}
	return pricing.LifePostCost(postsToday, status.CurrentStreak), nil
}

// awardBadges re-reads the user's counters and appends any newly met badges
// to the owned set. Badges are a bonus surface; failures here are logged and
// the receipt simply carries no awards.
func (ps *PostsService) awardBadges(ctx context.Context, uid uuid.UUID, receipt *PostReceipt) []badges.Badge {
	lifePosts, err := ps.repo.CountByUserAndKind(ctx, uid, entity.PostKindLife)
	if err != nil {
		slog.Warn("counting life posts for badges", slog.String("error", err.Error()))
		return nil
	}
	doomPosts, err := ps.repo.CountByUserAndKind(ctx, uid, entity.PostKindDoom)
	if err != nil {
		slog.Warn("counting doom posts for badges", slog.String("error", err.Error()))
		return nil
	}
	counters := badges.Counters{
		LifePosts: lifePosts,
		DoomPosts: doomPosts,
	}
	if receipt.Streak != nil {
		counters.LongestStreak = receipt.Streak.NewStreak
	}

	var owned badgeSet
	blob, err := ps.states.Load(ctx, uid, badgesStateKind)
	switch {
	case err == nil:
		if err := sonic.Unmarshal(blob, &owned); err != nil {
			slog.Warn("dropping corrupt badge state", slog.String("uid", uid.String()), slog.String("error", err.Error()))
			owned = badgeSet{}
		}
	case errors.Is(err, errorvalues.ErrStateNotFound):
	default:
		slog.Warn("loading badge state", slog.String("error", err.Error()))
		return nil
	}

	earned := badges.Evaluate(counters, owned.Owned)
	if len(earned) == 0 {
		return nil
	}
	for _, b := range earned {
		owned.Owned = append(owned.Owned, b.ID)
	}
	if blob, err := sonic.Marshal(owned); err == nil {
		if err := ps.states.Save(ctx, uid, badgesStateKind, blob); err != nil {
			slog.Warn("saving badge state", slog.String("error", err.Error()))
		}
	}
	return earned
}

func normalizeTags(tags []string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, tag := range tags {
		tag = trending.Normalize(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
