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

// compile-time check that *DB implements repository.HabitRepository
var _ repository.HabitRepository = (*DB)(nil)

const habitColumns = `id, user_id, name, description, frequency, color, xp_reward, difficulty, created_at, updated_at`

func scanHabit(row interface{ Scan(...any) error }, h *model.Habit) error {
	return row.Scan(
		&h.ID,
		&h.UserID,
		&h.Name,
		&h.Description,
		&h.Frequency,
		&h.Color,
		&h.XPReward,
		&h.Difficulty,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
}

// CreateHabit inserts a new habit, generating its ID and timestamps.
func (db *DB) CreateHabit(ctx context.Context, habit *model.Habit) error {
	now := time.Now()
	habit.ID = xid.New().String()
	habit.CreatedAt = now
	habit.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO habits (`+habitColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.ID,
		habit.UserID,
		habit.Name,
		habit.Description,
		habit.Frequency,
		habit.Color,
		habit.XPReward,
		habit.Difficulty,
		habit.CreatedAt,
		habit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating habit: %w", err)
	}

	return nil
}

// GetHabitByID retrieves a single habit by ID.
func (db *DB) GetHabitByID(ctx context.Context, id string) (*model.Habit, error) {
	var habit model.Habit

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	if err := scanHabit(row, &habit); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("habit", id)
		}
		return nil, fmt.Errorf("sqlite: getting habit %s: %w", id, err)
	}

	return &habit, nil
}

// ListHabitsByUser returns all habits owned by a user, newest first.
func (db *DB) ListHabitsByUser(ctx context.Context, userID string) ([]model.Habit, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing habits: %w", err)
	}
	defer rows.Close()

	habits := make([]model.Habit, 0)
	for rows.Next() {
		var h model.Habit
		if err := scanHabit(rows, &h); err != nil {
			return nil, fmt.Errorf("sqlite: scanning habit row: %w", err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating habits: %w", err)
	}

	return habits, nil
}

// UpdateHabit persists changes to an existing habit.
// RowsAffected == 0 means the WHERE clause matched nothing → not found.
func (db *DB) UpdateHabit(ctx context.Context, habit *model.Habit) error {
	habit.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE habits
		 SET name = ?, description = ?, frequency = ?, color = ?, xp_reward = ?, difficulty = ?, updated_at = ?
		 WHERE id = ?`,
		habit.Name,
		habit.Description,
		habit.Frequency,
		habit.Color,
		habit.XPReward,
		habit.Difficulty,
		habit.UpdatedAt,
		habit.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating habit %s: %w", habit.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("habit", habit.ID)
	}

	return nil
}

// DeleteHabit removes a habit. Its completion records are left in place —
// they keep their habit_id as a dangling reference, which the ledger treats
// as "reward unknown, skip deduction" on later record deletions.
func (db *DB) DeleteHabit(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM habits WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting habit %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("habit", id)
	}

	return nil
}
