package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	errorvalues "github.com/doomlife/pulse/internal/error_values"
	"github.com/doomlife/pulse/pkg/entity"
)

type PostsRepository struct {
	conn PgConnection
}

func NewPostsRepo(cfg DBConfig) *PostsRepository {
	return &PostsRepository{
		conn: newPool(cfg, "postsRepo"),
	}
}

func NewPostsRepoWithConn(conn PgConnection) *PostsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for postsRepo: " + err.Error())
	}
	return &PostsRepository{
		conn: conn,
	}
}

func (pr *PostsRepository) Create(ctx context.Context, post *entity.Post) (uuid.UUID, error) {
	if post == nil {
		return uuid.UUID{}, errors.New("post is nil")
	}
	var id uuid.UUID
	row := pr.conn.QueryRow(
		ctx,
		`INSERT INTO posts (user_id, kind, body, tags, cost) VALUES ($1, $2, $3, $4, $5) RETURNING id;`,
		post.UserID,
		string(post.Kind),
		post.Body,
		post.Tags,
		post.Cost,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return uuid.UUID{}, errorvalues.ErrUserNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating post error: " + err.Error())
	}
	return id, nil
}

func (pr *PostsRepository) CountByUserAndDay(ctx context.Context, uid uuid.UUID, day time.Time) (int, error) {
	row := pr.conn.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM posts WHERE user_id = $1 AND created_at >= $2 AND created_at < $3;`,
		uid,
		day,
		day.AddDate(0, 0, 1),
	)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, errors.New("counting posts for day error: " + err.Error())
	}
	return count, nil
}

func (pr *PostsRepository) CountByUserAndKind(ctx context.Context, uid uuid.UUID, kind entity.PostKind) (int, error) {
	row := pr.conn.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM posts WHERE user_id = $1 AND kind = $2;`,
		uid,
		string(kind),
	)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, errors.New("counting posts by kind error: " + err.Error())
	}
	return count, nil
}
