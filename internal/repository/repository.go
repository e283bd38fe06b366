// Package repository defines the storage interfaces the service layer
// depends on. The concrete implementation lives in repository/sqlite;
// services only ever see these interfaces, which is what lets the tests
// swap in hand-written in-memory mocks.
package repository

import (
	"context"
	"time"

	"github.com/sakif/habit-tracker/internal/model"
)

// RecordFilter narrows ListByUser queries. From/To are inclusive calendar-day
// bounds; a nil bound means "unbounded on that side".
type RecordFilter struct {
	From *time.Time
	To   *time.Time
}

// UserRepository reads and writes user accounts.
//
// AdjustTotalXP is the one mutation the completion ledger uses for XP. It
// must be ATOMIC at the storage layer: a single statement that adds the
// delta and clamps at zero, returning the new total. Doing read-modify-write
// in application code would let two concurrent requests race on the total.
// Method names are entity-qualified (CreateUser, not Create) because the
// sqlite DB type implements all three interfaces on one receiver.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUsername(ctx context.Context, id, username string) (*model.User, error)
	AdjustTotalXP(ctx context.Context, id string, delta int) (int, error)
}

// HabitRepository reads and writes habit definitions.
type HabitRepository interface {
	CreateHabit(ctx context.Context, habit *model.Habit) error
	GetHabitByID(ctx context.Context, id string) (*model.Habit, error)
	ListHabitsByUser(ctx context.Context, userID string) ([]model.Habit, error)
	UpdateHabit(ctx context.Context, habit *model.Habit) error
	DeleteHabit(ctx context.Context, id string) error
}

// RecordRepository reads and writes per-day completion records.
//
// CreateRecord must fail with apperror.ErrConflict when a record already
// exists for the same (habit, date) — the unique compound index is the
// structural guarantee behind the ledger's one-record-per-day rule.
// GetRecordByKey is the upsert path's point lookup; date must already be
// normalized to midnight UTC by the caller.
type RecordRepository interface {
	CreateRecord(ctx context.Context, record *model.HabitRecord) error
	GetRecordByID(ctx context.Context, id string) (*model.HabitRecord, error)
	GetRecordByKey(ctx context.Context, habitID, userID string, date time.Time) (*model.HabitRecord, error)
	UpdateRecord(ctx context.Context, record *model.HabitRecord) error
	DeleteRecord(ctx context.Context, id string) error
	ListRecordsByHabit(ctx context.Context, habitID string) ([]model.HabitRecord, error)
	ListRecordsByUser(ctx context.Context, userID string, filter RecordFilter) ([]model.HabitRecord, error)
}
