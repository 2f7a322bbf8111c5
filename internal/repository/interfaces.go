package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/doomlife/pulse/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database, returns the generated id
	Create(ctx context.Context, user *entity.User) (uuid.UUID, error)
	// Looks up user by name. Can be used for login
	FindByName(ctx context.Context, name string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Deletes user
	Delete(ctx context.Context, uid uuid.UUID) error
}

type PostsRepositoryI interface {
	// Stores a post, returns the generated id
	Create(ctx context.Context, post *entity.Post) (uuid.UUID, error)
	// Counts posts made by uid on the given calendar day (for pricing tiers)
	CountByUserAndDay(ctx context.Context, uid uuid.UUID, day time.Time) (int, error)
	// Counts posts of a kind ever made by uid (for badge counters)
	CountByUserAndKind(ctx context.Context, uid uuid.UUID, kind entity.PostKind) (int, error)
}

// StateRepositoryI is the generic per-user key-value blob store. Each
// gamification engine persists its whole state as one JSON blob under a kind
// of its own; the engines never touch the store directly.
type StateRepositoryI interface {
	// Loads the blob for (uid, kind). ErrStateNotFound when nothing stored yet
	Load(ctx context.Context, uid uuid.UUID, kind string) ([]byte, error)
	// Upserts the blob for (uid, kind)
	Save(ctx context.Context, uid uuid.UUID, kind string, blob []byte) error
	// Removes the blob for (uid, kind); absent blobs are not an error
	Delete(ctx context.Context, uid uuid.UUID, kind string) error
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
