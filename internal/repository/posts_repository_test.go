package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errorvalues "github.com/doomlife/pulse/internal/error_values"
	"github.com/doomlife/pulse/internal/repository"
	"github.com/doomlife/pulse/pkg/entity"
)

func TestCreatePost(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	postsRepo := repository.NewPostsRepoWithConn(mock)
	query := regexp.QuoteMeta(`INSERT INTO posts (user_id, kind, body, tags, cost) VALUES ($1, $2, $3, $4, $5) RETURNING id;`)
	postID := uuid.New()
	post := &entity.Post{
		UserID: uuid.New(),
		Kind:   entity.PostKindLife,
		Body:   "gm world",
		Tags:   []string{"gm", "life"},
		Cost:   decimal.NewFromInt(1),
	}
	testCases := []struct {
		Desc            string
		Error           error
		MockPrepareFunc func()
	}{
		{
			Desc:  "successful",
			Error: nil,
			MockPrepareFunc: func() {
				mock.ExpectQuery(query).
					WithArgs(post.UserID, "life", post.Body, post.Tags, post.Cost).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(postID))
			},
		},
		{
			Desc:  "fk violation maps to user not found",
			Error: errorvalues.ErrUserNotFound,
			MockPrepareFunc: func() {
				mock.ExpectQuery(query).
					WithArgs(post.UserID, "life", post.Body, post.Tags, post.Cost).
					WillReturnError(&pgconn.PgError{Code: "23503"})
			},
		},
		{
			Desc:  "db error",
			Error: errors.New("creating post error: db error"),
			MockPrepareFunc: func() {
				mock.ExpectQuery(query).
					WithArgs(post.UserID, "life", post.Body, post.Tags, post.Cost).
					WillReturnError(errors.New("db error"))
			},
		},
	}
	ctx := context.Background()
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepareFunc()
			id, err := postsRepo.Create(ctx, post)
			if tc.Error != nil {
				assert.EqualError(t, err, tc.Error.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, postID, id)
			}
		})
	}
}

func TestCountPostsByUserAndDay(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	postsRepo := repository.NewPostsRepoWithConn(mock)
	query := regexp.QuoteMeta(`SELECT COUNT(*) FROM posts WHERE user_id = $1 AND created_at >= $2 AND created_at < $3;`)
	uid := uuid.New()
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local)

	mock.ExpectQuery(query).WithArgs(uid, day, day.AddDate(0, 0, 1)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))
	count, err := postsRepo.CountByUserAndDay(context.Background(), uid, day)
	assert.NoError(t, err)
	assert.Equal(t, 4, count)

	mock.ExpectQuery(query).WithArgs(uid, day, day.AddDate(0, 0, 1)).
		WillReturnError(errors.New("db error"))
	_, err = postsRepo.CountByUserAndDay(context.Background(), uid, day)
	assert.EqualError(t, err, "counting posts for day error: db error")
}

func TestCountPostsByUserAndKind(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	postsRepo := repository.NewPostsRepoWithConn(mock)
	query := regexp.QuoteMeta(`SELECT COUNT(*) FROM posts WHERE user_id = $1 AND kind = $2;`)
	uid := uuid.New()

	mock.ExpectQuery(query).WithArgs(uid, "doom").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(12))
	count, err := postsRepo.CountByUserAndKind(context.Background(), uid, entity.PostKindDoom)
	assert.NoError(t, err)
	assert.Equal(t, 12, count)
}
