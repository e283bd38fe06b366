// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Services accept primitives and small input structs, never *http.Request,
// and return domain errors (apperror), never HTTP status codes. They receive
// repository INTERFACES, not concrete sqlite types — which is what lets the
// tests inject in-memory mocks.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/habit-tracker/internal/apperror"
	"github.com/sakif/habit-tracker/internal/auth"
	"github.com/sakif/habit-tracker/internal/model"
	"github.com/sakif/habit-tracker/internal/repository"
	"github.com/sakif/habit-tracker/internal/xp"
)

const MaxUsernameLength = 50

// AuthService handles registration, login and profile reads.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user record and the issued JWT so the handler can
// set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account and logs it in.
//
// Validation happens before any write: username and email are required,
// the email is lowercased (so lookups are case-insensitive by construction),
// and the password must meet the minimum length. Duplicate username/email
// surfaces as apperror.ErrConflict from the repository.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or less", MaxUsernameLength))
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperror.ValidationFailed("email", "a valid email is required")
	}
	if len(password) < auth.MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", auth.MinPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and issues a JWT.
//
// Unknown email and wrong password return the SAME Unauthorized error —
// the response must not reveal which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("credentials", "email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	ok, err := s.passwords.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: verifying password: %w", err)
	}
	if !ok {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// GetProfile returns the user record together with its derived level info.
// Level is ALWAYS computed from TotalXP here — it is never read from
// storage, because it is never stored.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*model.User, xp.LevelInfo, error) {
	if userID == "" {
		return nil, xp.LevelInfo{}, apperror.ValidationFailed("id", "user ID is required")
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, xp.LevelInfo{}, err
	}

	return user, xp.ComputeLevelInfo(user.TotalXP), nil
}

// UpdateProfile changes the user's display name (the only editable profile
// field) and returns the fresh profile.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, username string) (*model.User, xp.LevelInfo, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, xp.LevelInfo{}, apperror.ValidationFailed("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return nil, xp.LevelInfo{}, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or less", MaxUsernameLength))
	}

	user, err := s.users.UpdateUsername(ctx, userID, username)
	if err != nil {
		return nil, xp.LevelInfo{}, err
	}

	s.logger.Info("profile updated", slog.String("userID", userID))

	return user, xp.ComputeLevelInfo(user.TotalXP), nil
}
