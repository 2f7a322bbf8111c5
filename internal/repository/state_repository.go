package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	errorvalues "github.com/doomlife/pulse/internal/error_values"
)

// StateRepository keeps one JSON blob per (user, kind) in postgres. The
// engines behind it are agnostic to the backend; see the redis variant.
type StateRepository struct {
	conn PgConnection
}

func NewStateRepo(cfg DBConfig) *StateRepository {
	return &StateRepository{
		conn: newPool(cfg, "stateRepo"),
	}
}

func NewStateRepoWithConn(conn PgConnection) *StateRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for stateRepo: " + err.Error())
	}
	return &StateRepository{
		conn: conn,
	}
}

func (sr *StateRepository) Load(ctx context.Context, uid uuid.UUID, kind string) ([]byte, error) {
	row := sr.conn.QueryRow(
		ctx,
		`SELECT blob FROM user_state WHERE user_id = $1 AND kind = $2;`,
		uid,
		kind,
	)
	var blob []byte
	if err := row.Scan(&blob); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrStateNotFound
		}
		return nil, errors.New("loading state blob error: " + err.Error())
	}
	return blob, nil
}

func (sr *StateRepository) Save(ctx context.Context, uid uuid.UUID, kind string, blob []byte) error {
	_, err := sr.conn.Exec(
		ctx,
		`INSERT INTO user_state (user_id, kind, blob, updated_at) VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, kind) DO UPDATE SET blob = EXCLUDED.blob, updated_at = NOW();`,
		uid,
		kind,
		blob,
	)
	if err != nil {
		return errors.New("saving state blob error: " + err.Error())
	}
	return nil
}

func (sr *StateRepository) Delete(ctx context.Context, uid uuid.UUID, kind string) error {
	_, err := sr.conn.Exec(
		ctx,
		`DELETE FROM user_state WHERE user_id = $1 AND kind = $2;`,
		uid,
		kind,
	)
	if err != nil {
		return errors.New("deleting state blob error: " + err.Error())
	}
	return nil
}
