// service/user_service_test.go
package service

import (
	"context"
	"database/sql"
	"errors"
	"go-ledger-api/model"
	"go-ledger-api/repository"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()
	authService := NewAuthService(nil, testSecret, time.Hour, bcrypt.MinCost)
	req := model.CreateUserRequest{Name: "Name sample", Email: "NameSample@email.com", Password: "123"}

	t.Run("success", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetUserByEmail", ctx, "namesample@email.com").Return(nil, sql.ErrNoRows).Once()
		userRepo.On("CreateUser", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "namesample@email.com" &&
				u.Name == "Name sample" &&
				u.Password != "123" &&
				authService.CheckPasswordHash("123", u.Password)
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*model.User).ID = uuid.New()
		}).Return(nil).Once()

		userService := NewUserService(userRepo, authService)
		user, err := userService.CreateUser(ctx, req)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, user.ID)
		userRepo.AssertExpectations(t)
	})

	t.Run("email already exists", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetUserByEmail", ctx, "namesample@email.com").Return(&model.User{ID: uuid.New()}, nil).Once()

		userService := NewUserService(userRepo, authService)
		_, err := userService.CreateUser(ctx, req)

		assert.Equal(t, ErrEmailAlreadyExists, err)
		userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("concurrent registration hits unique index", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetUserByEmail", ctx, "namesample@email.com").Return(nil, sql.ErrNoRows).Once()
		userRepo.On("CreateUser", ctx, mock.AnythingOfType("*model.User")).Return(repository.ErrDuplicateEmail).Once()

		userService := NewUserService(userRepo, authService)
		_, err := userService.CreateUser(ctx, req)

		assert.Equal(t, ErrEmailAlreadyExists, err)
	})

	t.Run("password over bcrypt byte limit", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		long := req
		// 40 runes, 80 bytes.
		long.Password = strings.Repeat("é", 40)

		userService := NewUserService(userRepo, authService)
		_, err := userService.CreateUser(ctx, long)

		assert.Equal(t, ErrPasswordTooLong, err)
		userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("multi-byte password within limit", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetUserByEmail", ctx, "namesample@email.com").Return(nil, sql.ErrNoRows).Once()
		userRepo.On("CreateUser", ctx, mock.AnythingOfType("*model.User")).Return(nil).Once()
		ok := req
		ok.Password = strings.Repeat("é", 36)

		userService := NewUserService(userRepo, authService)
		user, err := userService.CreateUser(ctx, ok)

		require.NoError(t, err)
		assert.True(t, authService.CheckPasswordHash(ok.Password, user.Password))
	})

	t.Run("repository error", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		expectedError := errors.New("database error")
		userRepo.On("GetUserByEmail", ctx, "namesample@email.com").Return(nil, expectedError).Once()

		userService := NewUserService(userRepo, authService)
		_, err := userService.CreateUser(ctx, req)

		assert.ErrorIs(t, err, expectedError)
	})
}

func TestUserService_GetProfile(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("found", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetUserByID", ctx, userID).Return(&model.User{ID: userID, Email: "namesample@email.com"}, nil).Once()

		user, err := NewUserService(userRepo, nil).GetProfile(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, "namesample@email.com", user.Email)
	})

	t.Run("not found", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetUserByID", ctx, userID).Return(nil, sql.ErrNoRows).Once()

		_, err := NewUserService(userRepo, nil).GetProfile(ctx, userID)

		assert.Equal(t, ErrUserNotFound, err)
	})
}
