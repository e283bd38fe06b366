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

// compile-time check that *DB implements repository.RecordRepository
var _ repository.RecordRepository = (*DB)(nil)

const recordColumns = `id, habit_id, user_id, date, completed, notes, created_at, updated_at`

func scanRecord(row interface{ Scan(...any) error }, r *model.HabitRecord) error {
	return row.Scan(
		&r.ID,
		&r.HabitID,
		&r.UserID,
		&r.Date,
		&r.Completed,
		&r.Notes,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
}

// CreateRecord inserts a completion record.
//
// The unique index on (habit_id, date) rejects a second record for the same
// habit and day; that surfaces here as apperror.Conflict. The ledger's
// upsert path normally looks up the record first, so this conflict only
// fires when two requests race past the lookup — or when a caller bypasses
// the upsert entirely.
func (db *DB) CreateRecord(ctx context.Context, record *model.HabitRecord) error {
	now := time.Now()
	record.ID = xid.New().String()
	record.CreatedAt = now
	record.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO habit_records (`+recordColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.HabitID,
		record.UserID,
		record.Date,
		record.Completed,
		record.Notes,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("record", "a record already exists for this habit and date")
		}
		return fmt.Errorf("sqlite: creating record: %w", err)
	}

	return nil
}

// GetRecordByID retrieves a single record by ID.
func (db *DB) GetRecordByID(ctx context.Context, id string) (*model.HabitRecord, error) {
	var record model.HabitRecord

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM habit_records WHERE id = ?`, id)
	if err := scanRecord(row, &record); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("record", id)
		}
		return nil, fmt.Errorf("sqlite: getting record %s: %w", id, err)
	}

	return &record, nil
}

// GetRecordByKey is the ledger's point lookup: the unique record for one
// habit on one calendar day, scoped to the owning user. date must already
// be normalized to midnight UTC.
func (db *DB) GetRecordByKey(ctx context.Context, habitID, userID string, date time.Time) (*model.HabitRecord, error) {
	var record model.HabitRecord

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM habit_records
		 WHERE habit_id = ? AND user_id = ? AND date = ?`,
		habitID, userID, date)
	if err := scanRecord(row, &record); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("record", habitID+"@"+date.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("sqlite: getting record for habit %s: %w", habitID, err)
	}

	return &record, nil
}

// UpdateRecord persists the completed flag and notes of an existing record.
// The (habit, date) key and ownership are immutable after creation.
func (db *DB) UpdateRecord(ctx context.Context, record *model.HabitRecord) error {
	record.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE habit_records SET completed = ?, notes = ?, updated_at = ? WHERE id = ?`,
		record.Completed,
		record.Notes,
		record.UpdatedAt,
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating record %s: %w", record.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("record", record.ID)
	}

	return nil
}

// DeleteRecord removes a record by ID.
func (db *DB) DeleteRecord(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM habit_records WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting record %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("record", id)
	}

	return nil
}

// ListRecordsByHabit returns all records for one habit, newest day first.
func (db *DB) ListRecordsByHabit(ctx context.Context, habitID string) ([]model.HabitRecord, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM habit_records WHERE habit_id = ? ORDER BY date DESC`,
		habitID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing records for habit %s: %w", habitID, err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// ListRecordsByUser returns a user's records, newest day first, optionally
// bounded by an inclusive date range.
func (db *DB) ListRecordsByUser(ctx context.Context, userID string, filter repository.RecordFilter) ([]model.HabitRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM habit_records WHERE user_id = ?`
	args := []any{userID}

	// The bounds are appended conditionally; both stay parameterized.
	if filter.From != nil {
		query += ` AND date >= ?`
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		query += ` AND date <= ?`
		args = append(args, *filter.To)
	}
	query += ` ORDER BY date DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing records for user %s: %w", userID, err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func collectRecords(rows *sql.Rows) ([]model.HabitRecord, error) {
	records := make([]model.HabitRecord, 0)
	for rows.Next() {
		var r model.HabitRecord
		if err := scanRecord(rows, &r); err != nil {
			return nil, fmt.Errorf("sqlite: scanning record row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating records: %w", err)
	}
	return records, nil
}
