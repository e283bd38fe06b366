package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/habit-tracker/internal/apperror"
	"github.com/sakif/habit-tracker/internal/auth"
)

func newAuthTestService(t *testing.T) (*AuthService, *mockStore) {
	t.Helper()
	store := newMockStore()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars")
	if err != nil {
		t.Fatalf("creating token service: %v", err)
	}
	// bcrypt's minimum cost keeps these tests fast.
	passwords := auth.NewPasswordServiceForTest(4)
	svc := NewAuthService(store, tokens, passwords, testLogger())
	return svc, store
}

// =========================================================================
// REGISTER
// =========================================================================

func TestRegister_Success(t *testing.T) {
	svc, _ := newAuthTestService(t)

	result, err := svc.Register(context.Background(), "alice", "Alice@Example.com", "secret123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if result.User.ID == "" {
		t.Error("expected user to have an ID")
	}
	if result.Token == "" {
		t.Error("expected a token to be issued")
	}
	if result.User.Email != "alice@example.com" {
		t.Errorf("Email = %q, want lowercased", result.User.Email)
	}
	if result.User.TotalXP != 0 {
		t.Errorf("TotalXP = %d, want 0 for a new account", result.User.TotalXP)
	}
	if result.User.PasswordHash == "secret123" {
		t.Error("password stored in plaintext")
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newAuthTestService(t)

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"empty username", "", "a@b.com", "secret123"},
		{"empty email", "alice", "", "secret123"},
		{"email without @", "alice", "not-an-email", "secret123"},
		{"short password", "alice", "a@b.com", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.username, tt.email, tt.password)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "a@b.com", "secret123"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(ctx, "alice2", "a@b.com", "secret123")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

// =========================================================================
// LOGIN
// =========================================================================

func TestLogin_Success(t *testing.T) {
	svc, _ := newAuthTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "a@b.com", "secret123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	result, err := svc.Login(ctx, "A@B.com", "secret123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token == "" {
		t.Error("expected a token")
	}
}

// TestLogin_FailuresAreIndistinguishable: a wrong password and an unknown
// email must produce the same error, or the endpoint leaks which accounts
// exist.
func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newAuthTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "a@b.com", "secret123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, wrongPass := svc.Login(ctx, "a@b.com", "wrong-password")
	_, noSuchUser := svc.Login(ctx, "ghost@b.com", "secret123")

	if !errors.Is(wrongPass, apperror.ErrUnauthorized) {
		t.Errorf("wrong password: error = %v, want ErrUnauthorized", wrongPass)
	}
	if !errors.Is(noSuchUser, apperror.ErrUnauthorized) {
		t.Errorf("unknown email: error = %v, want ErrUnauthorized", noSuchUser)
	}
	if wrongPass.Error() != noSuchUser.Error() {
		t.Errorf("failure messages differ: %q vs %q", wrongPass.Error(), noSuchUser.Error())
	}
}

// =========================================================================
// PROFILE
// =========================================================================

func TestGetProfile_DerivesLevelFromTotalXP(t *testing.T) {
	svc, store := newAuthTestService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, "alice", "a@b.com", "secret123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Push the account into level 11 territory.
	if _, err := store.AdjustTotalXP(ctx, result.User.ID, 1000); err != nil {
		t.Fatalf("AdjustTotalXP() error = %v", err)
	}

	user, info, err := svc.GetProfile(ctx, result.User.ID)
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if user.TotalXP != 1000 {
		t.Errorf("TotalXP = %d, want 1000", user.TotalXP)
	}
	if info.Level != 11 || info.XP != 0 || info.XPToNextLevel != 250 {
		t.Errorf("LevelInfo = %+v, want level 11 / xp 0 / next 250", info)
	}
}

func TestUpdateProfile_ChangesUsername(t *testing.T) {
	svc, _ := newAuthTestService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, "alice", "a@b.com", "secret123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, _, err := svc.UpdateProfile(ctx, result.User.ID, "alice-the-great")
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if user.Username != "alice-the-great" {
		t.Errorf("Username = %q, want %q", user.Username, "alice-the-great")
	}
}

func TestUpdateProfile_EmptyUsername(t *testing.T) {
	svc, _ := newAuthTestService(t)

	_, _, err := svc.UpdateProfile(context.Background(), "user-1", "   ")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}
