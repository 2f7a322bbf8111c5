package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	errorvalues "github.com/doomlife/pulse/internal/error_values"
	"github.com/doomlife/pulse/internal/repository/mocks"
	"github.com/doomlife/pulse/internal/service"
	"github.com/doomlife/pulse/pkg/entity"
)

func TestMain(m *testing.M) {
	service.InitValidator()
	m.Run()
}

func TestRegister(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUsersRepositoryI(ctrl)
	us := service.NewUserService(repo)
	ctx := context.Background()
	userID := uuid.New()
	testCases := []struct {
		Desc         string
		Error        error
		Name         string
		Password     string
		MockPrepFunc func()
	}{
		{
			Desc:     "success",
			Error:    nil,
			Name:     "test_user",
			Password: "test_password",
			MockPrepFunc: func() {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(userID, nil)
			},
		},
		{
			Desc:         "error invalid name",
			Error:        errors.New("validation error"),
			Name:         "no spaces allowed",
			Password:     "test_password",
			MockPrepFunc: func() {},
		},
		{
			Desc:         "error short password",
			Error:        errors.New("validation error"),
			Name:         "test_user",
			Password:     "short",
			MockPrepFunc: func() {},
		},
		{
			Desc:     "error user exists",
			Error:    errorvalues.ErrUserExists,
			Name:     "test_user",
			Password: "test_password",
			MockPrepFunc: func() {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(uuid.Nil, errorvalues.ErrUserExists)
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			user, err := us.Register(ctx, &service.RegisterRequest{
				Name:     tc.Name,
				Password: tc.Password,
			})
			if tc.Error != nil {
				assert.Error(t, err)
				if errors.Is(tc.Error, errorvalues.ErrUserExists) {
					assert.ErrorIs(t, err, errorvalues.ErrUserExists)
				}
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, userID, user.ID)
			assert.Equal(t, tc.Name, user.Name)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tc.Password)))
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUsersRepositoryI(ctrl)
	us := service.NewUserService(repo)
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("test_password"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	user := &entity.User{
		ID:           uuid.New(),
		Name:         "test_user",
		PasswordHash: string(hash),
	}
	testCases := []struct {
		Desc         string
		Error        error
		Password     string
		MockPrepFunc func()
	}{
		{
			Desc:     "success",
			Error:    nil,
			Password: "test_password",
			MockPrepFunc: func() {
				repo.EXPECT().FindByName(gomock.Any(), user.Name).Return(user, nil)
			},
		},
		{
			Desc:     "error wrong password",
			Error:    errorvalues.ErrWrongCredentials,
			Password: "wrong_password",
			MockPrepFunc: func() {
				repo.EXPECT().FindByName(gomock.Any(), user.Name).Return(user, nil)
			},
		},
		{
			Desc:     "error user not found",
			Error:    errorvalues.ErrUserNotFound,
			Password: "test_password",
			MockPrepFunc: func() {
				repo.EXPECT().FindByName(gomock.Any(), user.Name).Return(nil, errorvalues.ErrUserNotFound)
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			res, err := us.Login(ctx, user.Name, tc.Password)
			if tc.Error != nil {
				assert.ErrorIs(t, err, tc.Error)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, *user, *res)
		})
	}
}

func TestDeleteAccount(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUsersRepositoryI(ctrl)
	us := service.NewUserService(repo)
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("test_password"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	user := &entity.User{
		ID:           uuid.New(),
		Name:         "test_user",
		PasswordHash: string(hash),
	}
	testCases := []struct {
		Desc         string
		Error        error
		Password     string
		MockPrepFunc func()
	}{
		{
			Desc:     "success",
			Error:    nil,
			Password: "test_password",
			MockPrepFunc: func() {
				repo.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)
				repo.EXPECT().Delete(gomock.Any(), user.ID).Return(nil)
			},
		},
		{
			Desc:     "error wrong password",
			Error:    errorvalues.ErrWrongCredentials,
			Password: "wrong_password",
			MockPrepFunc: func() {
				repo.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)
			},
		},
		{
			Desc:     "error user not found",
			Error:    errorvalues.ErrUserNotFound,
			Password: "test_password",
			MockPrepFunc: func() {
				repo.EXPECT().FindByID(gomock.Any(), user.ID).Return(nil, errorvalues.ErrUserNotFound)
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			err := us.DeleteAccount(ctx, user.ID, tc.Password)
			if tc.Error != nil {
				assert.ErrorIs(t, err, tc.Error)
				return
			}
			assert.NoError(t, err)
		})
	}
}