package service

import (
	"context"
	"database/sql"
	"service-desk/model"
	"service-desk/repository"
	"service-desk/repository/inmemory"
	"service-desk/validation"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validRegistration() model.RegisterInput {
	return model.RegisterInput{
		Username:        "ivan.petrov",
		Email:           "ivan@example.com",
		DisplayName:     "Ivan",
		Password:        "Tr0ub4dor&3x",
		PasswordConfirm: "Tr0ub4dor&3x",
	}
}

func TestAuthService_PasswordHashing(t *testing.T) {
	s := NewAuthService(new(mockUserRepo), nil)

	hash, err := s.HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, s.CheckPasswordHash("password123", hash))
	assert.False(t, s.CheckPasswordHash("wrongpassword", hash))
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success runs hooks after insert", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("UsernameTaken", ctx, "ivan.petrov", 0).Return(false, nil).Once()
		repo.On("EmailTaken", ctx, "ivan@example.com", 0).Return(false, nil).Once()
		repo.On("CreateUser", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.IsActive && !u.IsAdmin() && u.Password != "Tr0ub4dor&3x"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*model.User).ID = 10
		}).Return(nil).Once()

		var hooked []int
		s := NewAuthService(repo, nil, func(_ context.Context, u *model.User) {
			hooked = append(hooked, u.ID)
		})
		s.OnRegistered(func(_ context.Context, u *model.User) {
			hooked = append(hooked, -u.ID)
		})

		user, err := s.Register(ctx, validRegistration())

		require.NoError(t, err)
		assert.Equal(t, 10, user.ID)
		assert.True(t, s.CheckPasswordHash("Tr0ub4dor&3x", user.Password))
		assert.Equal(t, []int{10, -10}, hooked)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate username and email", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("UsernameTaken", ctx, "ivan.petrov", 0).Return(true, nil).Once()
		repo.On("EmailTaken", ctx, "ivan@example.com", 0).Return(true, nil).Once()

		called := false
		s := NewAuthService(repo, nil, func(context.Context, *model.User) { called = true })

		_, err := s.Register(ctx, validRegistration())

		var errs validation.Errors
		require.ErrorAs(t, err, &errs)
		assert.True(t, errs.Has("username", validation.Duplicate))
		assert.True(t, errs.Has("email", validation.Duplicate))
		assert.False(t, called)
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("bad format and weak mismatched password", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("EmailTaken", ctx, "ivan@example.com", 0).Return(false, nil).Once()

		in := validRegistration()
		in.Username = "bad name!"
		in.Password = "12345678"
		in.PasswordConfirm = "12345679"

		_, err := NewAuthService(repo, nil).Register(ctx, in)

		var errs validation.Errors
		require.ErrorAs(t, err, &errs)
		assert.True(t, errs.Has("username", validation.InvalidFormat))
		assert.True(t, errs.Has("password1", validation.WeakPassword))
		assert.True(t, errs.Has("password2", validation.Mismatch))
		repo.AssertNotCalled(t, "UsernameTaken", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("race on insert is reported as duplicate", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("UsernameTaken", ctx, mock.Anything, 0).Return(false, nil)
		repo.On("EmailTaken", ctx, mock.Anything, 0).Return(false, nil)
		repo.On("CreateUser", ctx, mock.Anything).Return(repository.ErrDuplicate).Once()

		_, err := NewAuthService(repo, nil).Register(ctx, validRegistration())

		var errs validation.Errors
		require.ErrorAs(t, err, &errs)
		assert.True(t, errs.Has("__all__", validation.Duplicate))
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	s := NewAuthService(nil, nil)
	hash, err := s.HashPassword("Tr0ub4dor&3x")
	require.NoError(t, err)

	tests := []struct {
		name    string
		user    *model.User
		repoErr error
		pw      string
		wantErr error
	}{
		{name: "success", user: &model.User{ID: 3, Username: "ivan", Password: hash, IsActive: true}, pw: "Tr0ub4dor&3x"},
		{name: "wrong password", user: &model.User{ID: 3, Username: "ivan", Password: hash, IsActive: true}, pw: "nope", wantErr: ErrInvalidCredentials},
		{name: "inactive", user: &model.User{ID: 3, Username: "ivan", Password: hash}, pw: "Tr0ub4dor&3x", wantErr: ErrInvalidCredentials},
		{name: "unknown user", repoErr: sql.ErrNoRows, pw: "Tr0ub4dor&3x", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockUserRepo)
			if tt.user != nil {
				repo.On("GetUserByUsername", ctx, "ivan").Return(tt.user, nil).Once()
			} else {
				repo.On("GetUserByUsername", ctx, "ivan").Return(nil, tt.repoErr).Once()
			}

			user, err := NewAuthService(repo, nil).Authenticate(ctx, model.LoginInput{Username: "ivan", Password: tt.pw})

			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 3, user.ID)
		})
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("keeping own username is allowed", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("UsernameTaken", ctx, "ivan", regularUser.ID).Return(false, nil).Once()
		repo.On("EmailTaken", ctx, "new@example.com", regularUser.ID).Return(false, nil).Once()
		repo.On("UpdateProfile", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.ID == regularUser.ID && u.Email == "new@example.com" && u.DisplayName == "Ivan P"
		})).Return(nil).Once()

		user, err := NewAuthService(repo, nil).UpdateProfile(ctx, regularUser, model.ProfileInput{
			Username:    "ivan",
			Email:       "new@example.com",
			DisplayName: "Ivan P",
		})

		require.NoError(t, err)
		assert.Equal(t, "new@example.com", user.Email)
		assert.Empty(t, regularUser.Email, "actor must not be mutated")
		repo.AssertExpectations(t)
	})

	t.Run("rename drops cached landing", func(t *testing.T) {
		cache := inmemory.NewCache()
		require.NoError(t, cache.Set(ctx, landingCacheKey, `{"requests":[{"username":"ivan"}]}`, time.Minute).Err())

		repo := new(mockUserRepo)
		repo.On("UsernameTaken", ctx, "ivan.petrov", regularUser.ID).Return(false, nil).Once()
		repo.On("EmailTaken", ctx, "ivan@example.com", regularUser.ID).Return(false, nil).Once()
		repo.On("UpdateProfile", ctx, mock.Anything).Return(nil).Once()

		user, err := NewAuthService(repo, cache).UpdateProfile(ctx, regularUser, model.ProfileInput{
			Username: "ivan.petrov",
			Email:    "ivan@example.com",
		})

		require.NoError(t, err)
		assert.Equal(t, "ivan.petrov", user.Username)
		assert.Equal(t, int64(0), cache.Exists(ctx, landingCacheKey).Val())
		repo.AssertExpectations(t)
	})

	t.Run("username of another account", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("UsernameTaken", ctx, "admin", regularUser.ID).Return(true, nil).Once()
		repo.On("EmailTaken", ctx, "ivan@example.com", regularUser.ID).Return(false, nil).Once()

		_, err := NewAuthService(repo, nil).UpdateProfile(ctx, regularUser, model.ProfileInput{Username: "admin", Email: "ivan@example.com"})

		var errs validation.Errors
		require.ErrorAs(t, err, &errs)
		assert.True(t, errs.Has("username", validation.Duplicate))
		repo.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := NewAuthService(new(mockUserRepo), nil).UpdateProfile(ctx, nil, model.ProfileInput{})
		assert.Equal(t, ErrLoginRequired, err)
	})
}

func TestAuthService_CreateSuperuser(t *testing.T) {
	ctx := context.Background()
	repo := new(mockUserRepo)
	repo.On("UsernameTaken", ctx, "root", 0).Return(false, nil).Once()
	repo.On("EmailTaken", ctx, "root@example.com", 0).Return(false, nil).Once()
	repo.On("CreateUser", ctx, mock.Anything).Return(nil).Once()

	user, err := NewAuthService(repo, nil).CreateSuperuser(ctx, "root", "root@example.com", "changeme")

	require.NoError(t, err)
	assert.True(t, user.IsSuperuser)
	assert.True(t, user.IsStaff)
	assert.True(t, user.IsAdmin())
}
