package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"service-desk/logger"
	"service-desk/model"
	"service-desk/repository"
	"service-desk/validation"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// RegistrationHook runs synchronously after a new account has been stored.
type RegistrationHook func(ctx context.Context, user *model.User)

// AuthService handles registration, login and profile changes.
type AuthService struct {
	users repository.IUserRepository
	cache ICacheClient
	hooks []RegistrationHook
}

// NewAuthService wires the account operations. cache is the store holding the
// landing summary, which embeds usernames.
func NewAuthService(users repository.IUserRepository, cache ICacheClient, hooks ...RegistrationHook) *AuthService {
	return &AuthService{users: users, cache: cache, hooks: hooks}
}

// OnRegistered appends a hook invoked after every successful registration.
func (s *AuthService) OnRegistered(hook RegistrationHook) {
	s.hooks = append(s.hooks, hook)
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// checkUnique adds Duplicate errors for a username or email held by another
// account. Fields that already failed format checks are skipped.
func (s *AuthService) checkUnique(ctx context.Context, errs validation.Errors, username, email string, selfID int) error {
	if len(errs["username"]) == 0 {
		taken, err := s.users.UsernameTaken(ctx, username, selfID)
		if err != nil {
			return fmt.Errorf("could not check username: %w", err)
		}
		if taken {
			errs.Add("username", validation.Duplicate, "A user with that username already exists.")
		}
	}
	if len(errs["email"]) == 0 {
		taken, err := s.users.EmailTaken(ctx, email, selfID)
		if err != nil {
			return fmt.Errorf("could not check email: %w", err)
		}
		if taken {
			errs.Add("email", validation.Duplicate, "A user with that email already exists.")
		}
	}
	return nil
}

// Register creates an active account from the registration form and runs
// the registration hooks. Validation failures come back as validation.Errors.
func (s *AuthService) Register(ctx context.Context, in model.RegisterInput) (*model.User, error) {
	errs := validation.Register(in)
	if err := s.checkUnique(ctx, errs, in.Username, in.Email, 0); err != nil {
		return nil, err
	}
	if !errs.Empty() {
		return nil, errs
	}

	return s.createUser(ctx, &model.User{
		Username:    in.Username,
		Email:       in.Email,
		DisplayName: in.DisplayName,
		IsActive:    true,
		IsActivated: true,
	}, in.Password)
}

// CreateSuperuser creates an administrator account, bypassing the password
// strength rules but not the format and uniqueness checks.
func (s *AuthService) CreateSuperuser(ctx context.Context, username, email, password string) (*model.User, error) {
	errs := validation.Profile(model.ProfileInput{Username: username, Email: email})
	if password == "" {
		errs.Add("password", validation.Required, "This field is required.")
	}
	if err := s.checkUnique(ctx, errs, username, email, 0); err != nil {
		return nil, err
	}
	if !errs.Empty() {
		return nil, errs
	}

	return s.createUser(ctx, &model.User{
		Username:     username,
		Email:        email,
		IsActive:     true,
		IsActivated:  true,
		IsAdminPanel: true,
		IsStaff:      true,
		IsSuperuser:  true,
	}, password)
}

func (s *AuthService) createUser(ctx context.Context, user *model.User, password string) (*model.User, error) {
	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("could not hash password: %w", err)
	}
	user.Password = hash

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			errs := validation.Errors{}
			errs.Add("__all__", validation.Duplicate, "A user with that username or email already exists.")
			return nil, errs
		}
		return nil, fmt.Errorf("could not create user: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("User registered")

	for _, hook := range s.hooks {
		hook(ctx, user)
	}
	return user, nil
}

// Authenticate checks the credentials and returns the matching active account.
func (s *AuthService) Authenticate(ctx context.Context, in model.LoginInput) (*model.User, error) {
	if errs := validation.Struct(in); !errs.Empty() {
		return nil, errs
	}

	log := logger.Log.WithField("username", in.Username)
	user, err := s.users.GetUserByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warn("Login attempt for unknown user")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("could not load user: %w", err)
	}
	if !s.CheckPasswordHash(in.Password, user.Password) {
		log.Warn("Login attempt with wrong password")
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		log.Warn("Login attempt for inactive account")
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID int) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes the actor's username, email and display name.
// Uniqueness checks ignore the actor's own record.
func (s *AuthService) UpdateProfile(ctx context.Context, actor *model.User, in model.ProfileInput) (*model.User, error) {
	if actor == nil {
		return nil, ErrLoginRequired
	}

	errs := validation.Profile(in)
	if err := s.checkUnique(ctx, errs, in.Username, in.Email, actor.ID); err != nil {
		return nil, err
	}
	if !errs.Empty() {
		return nil, errs
	}

	updated := *actor
	updated.Username = in.Username
	updated.Email = in.Email
	updated.DisplayName = in.DisplayName

	if err := s.users.UpdateProfile(ctx, &updated); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			errs.Add("__all__", validation.Duplicate, "A user with that username or email already exists.")
			return nil, errs
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("could not update profile: %w", err)
	}

	if actor.Username != updated.Username {
		invalidateLanding(ctx, s.cache)
	}
	logger.Log.WithField("user_id", updated.ID).Info("User profile updated")
	return &updated, nil
}
