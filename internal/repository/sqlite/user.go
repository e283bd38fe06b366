package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/habit-tracker/internal/apperror"
	"github.com/sakif/habit-tracker/internal/model"
	"github.com/sakif/habit-tracker/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new user. Username and email carry UNIQUE constraints;
// a violation is translated to apperror.Conflict so the handler can return
// 409 instead of a generic 500.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, total_xp, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.TotalXP,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", "username or email already registered")
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by internal ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `WHERE id = ?`, id)
}

// GetUserByEmail retrieves a user by email. The service lowercases emails before
// both storage and lookup, so this is an exact match.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `WHERE email = ?`, email)
}

func (db *DB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var user model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, total_xp, created_at, updated_at
		 FROM users `+where,
		arg,
	).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.TotalXP,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	return &user, nil
}

// UpdateUsername changes a user's display name and returns the fresh record.
func (db *DB) UpdateUsername(ctx context.Context, id, username string) (*model.User, error) {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE users SET username = ?, updated_at = ? WHERE id = ?`,
		username, time.Now(), id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Conflict("user", "username already taken")
		}
		return nil, fmt.Errorf("sqlite: updating user %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, apperror.NotFound("user", id)
	}

	return db.GetUserByID(ctx, id)
}

// AdjustTotalXP adds delta (which may be negative) to a user's XP total and
// returns the new total.
//
// ATOMICITY IS THE POINT:
// The increment and the zero-floor clamp happen inside ONE UPDATE statement,
// so two requests adjusting the same user concurrently can never both read a
// stale total and each write their own sum — SQLite serializes the writes
// and each one applies on top of the previous result. This is the
// storage-level half of the ledger's concurrency story (the service adds a
// per-key lock around the read-record/write-record sequence).
func (db *DB) AdjustTotalXP(ctx context.Context, id string, delta int) (int, error) {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE users SET total_xp = MAX(0, total_xp + ?), updated_at = ? WHERE id = ?`,
		delta, time.Now(), id,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: adjusting xp for user %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return 0, apperror.NotFound("user", id)
	}

	var total int
	err = db.conn.QueryRowContext(ctx,
		`SELECT total_xp FROM users WHERE id = ?`, id,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sqlite: reading xp for user %s: %w", id, err)
	}

	return total, nil
}
