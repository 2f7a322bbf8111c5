package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errorvalues "github.com/doomlife/pulse/internal/error_values"
	"github.com/doomlife/pulse/internal/repository"
	"github.com/doomlife/pulse/pkg/entity"
)

func TestCreateUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	usersRepo := repository.NewUsersRepoWithConn(mock)
	query := regexp.QuoteMeta(`INSERT INTO users (name, password_hash) VALUES ($1, $2) RETURNING id;`)
	uid := uuid.New()
	user := &entity.User{
		Name:         "test_user",
		PasswordHash: "hash",
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
				mock.ExpectQuery(query).WithArgs(user.Name, user.PasswordHash).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(uid))
			},
		},
		{
			Desc:  "duplicate name",
			Error: errorvalues.ErrUserExists,
			MockPrepareFunc: func() {
				mock.ExpectQuery(query).WithArgs(user.Name, user.PasswordHash).
					WillReturnError(&pgconn.PgError{Code: "23505"})
			},
		},
		{
			Desc:  "db error",
			Error: errors.New("creating user db error: db error"),
			MockPrepareFunc: func() {
				mock.ExpectQuery(query).WithArgs(user.Name, user.PasswordHash).
					WillReturnError(errors.New("db error"))
			},
		},
	}
	ctx := context.Background()
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepareFunc()
			id, err := usersRepo.Create(ctx, user)
			if tc.Error != nil {
				assert.EqualError(t, err, tc.Error.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, uid, id)
			}
		})
	}
}

func TestFindUserByName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	usersRepo := repository.NewUsersRepoWithConn(mock)
	query := regexp.QuoteMeta(`SELECT id, name, password_hash FROM users WHERE name = $1;`)
	uid := uuid.New()

	mock.ExpectQuery(query).WithArgs("test_user").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "password_hash"}).AddRow(uid, "test_user", "hash"))
	user, err := usersRepo.FindByName(context.Background(), "test_user")
	require.NoError(t, err)
	assert.Equal(t, uid, user.ID)

	mock.ExpectQuery(query).WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "password_hash"}))
	_, err = usersRepo.FindByName(context.Background(), "ghost")
	assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	usersRepo := repository.NewUsersRepoWithConn(mock)
	query := regexp.QuoteMeta(`DELETE FROM users WHERE id = $1;`)
	uid := uuid.New()

	mock.ExpectExec(query).WithArgs(uid).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	assert.NoError(t, usersRepo.Delete(context.Background(), uid))

	mock.ExpectExec(query).WithArgs(uid).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	assert.ErrorIs(t, usersRepo.Delete(context.Background(), uid), errorvalues.ErrUserNotFound)
}
