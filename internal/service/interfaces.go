package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/doomlife/pulse/internal/badges"
	"github.com/doomlife/pulse/internal/market"
	"github.com/doomlife/pulse/internal/safeguard"
	"github.com/doomlife/pulse/internal/streak"
	"github.com/doomlife/pulse/pkg/entity"
)

type RegisterRequest struct {
	Name     string `validate:"required,alphanum_underscore,min=3,max=100"`
	Password string `validate:"required,min=8,max=72"`
}

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, give back user's data with ID.
	Login(ctx context.Context, name, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
}

// StreakStatus is the display surface of the streak widget.
type StreakStatus struct {
	CurrentStreak          int                `json:"current_streak"`
	LongestStreak          int                `json:"longest_streak"`
	HasActivityToday       bool               `json:"has_activity_today"`
	AtRisk                 bool               `json:"at_risk"`
	TotalBonusEarned       float64            `json:"total_bonus_earned"`
	NextMilestone          *streak.Milestone  `json:"next_milestone,omitempty"`
	DaysUntilNextMilestone int                `json:"days_until_next_milestone"`
	UnclaimedMilestones    []streak.Milestone `json:"unclaimed_milestones,omitempty"`
}

type StreakServiceI interface {
	// Records a qualifying activity for today. Same-day repeats are no-ops
	RecordActivity(ctx context.Context, uid uuid.UUID) (streak.RecordResult, error)
	// Reconciles elapsed time and returns the widget view of the streak
	Status(ctx context.Context, uid uuid.UUID) (*StreakStatus, error)
	// Claims a milestone bonus; returns 0 for unknown/unreached/claimed ones
	ClaimMilestone(ctx context.Context, uid uuid.UUID, days int) (float64, error)
	// Drops all streak state back to defaults (logout)
	Reset(ctx context.Context, uid uuid.UUID) error
}

type CreatePostRequest struct {
	Kind string   `validate:"required,oneof=doom life"`
	Body string   `validate:"required,max=560"`
	Tags []string `validate:"max=8,dive,hashtag"`
}

// PostReceipt reports everything a successful post triggered, so the caller
// can celebrate milestones and fresh badges.
type PostReceipt struct {
	Post      *entity.Post         `json:"post"`
	Streak    *streak.RecordResult `json:"streak,omitempty"`
	NewBadges []badges.Badge       `json:"new_badges,omitempty"`
}

type PostsServiceI interface {
	CreatePost(ctx context.Context, uid uuid.UUID, req *CreatePostRequest) (*PostReceipt, error)
	// Quotes the cost of the user's next life post
	QuoteLifePost(ctx context.Context, uid uuid.UUID) (decimal.Decimal, error)
}

type PlaceBetRequest struct {
	Outcome  string          `validate:"required,oneof=doom life"`
	Amount   decimal.Decimal `validate:"required"`
	DoomPool decimal.Decimal
	LifePool decimal.Decimal
}

type BetTicket struct {
	Verdict         string          `json:"verdict"`
	OddsBps         int64           `json:"odds_bps"`
	PotentialPayout decimal.Decimal `json:"potential_payout"`
	PotentialFee    decimal.Decimal `json:"potential_fee"`
}

type SettleBetRequest struct {
	Outcome  string          `validate:"required,oneof=doom life"`
	Resolved string          `validate:"required,oneof=doom life"`
	Amount   decimal.Decimal `validate:"required"`
	DoomPool decimal.Decimal
	LifePool decimal.Decimal
}

type Settlement struct {
	Won    bool            `json:"won"`
	Payout decimal.Decimal `json:"payout"`
	Fee    decimal.Decimal `json:"fee"`
}

type BetsServiceI interface {
	// Runs safeguard checks and registers the wager; denial comes back in the
	// ticket verdict, not as an error
	PlaceBet(ctx context.Context, uid uuid.UUID, req *PlaceBetRequest) (*BetTicket, error)
	// Settles a resolved bet and updates the user's win/loss record
	SettleBet(ctx context.Context, uid uuid.UUID, req *SettleBetRequest) (*Settlement, error)
	Stats(ctx context.Context, uid uuid.UUID) (*market.Stats, error)
	SetLimits(ctx context.Context, uid uuid.UUID, limits safeguard.Limits) (*safeguard.Snapshot, error)
	StartCoolingOff(ctx context.Context, uid uuid.UUID, hours int) (*safeguard.Snapshot, error)
	Safeguards(ctx context.Context, uid uuid.UUID) (*safeguard.Snapshot, error)
}
