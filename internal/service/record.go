package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/habit-tracker/internal/apperror"
	"github.com/sakif/habit-tracker/internal/model"
	"github.com/sakif/habit-tracker/internal/repository"
	"github.com/sakif/habit-tracker/internal/xp"
)

const MaxNotesLength = 1000

// RecordService is the completion ledger: it governs how the per-(habit,
// day) completion record is created, updated and removed, and how each
// transition moves the owning user's XP total.
//
// THE TRANSITION TABLE (the only place XP ever moves):
//
//	absent     → complete    +reward
//	absent     → incomplete  no change
//	incomplete → complete    +reward
//	complete   → incomplete  -reward (floored at 0)
//	complete   → absent      -reward (floored at 0)
//	incomplete → absent      no change
//	same flag  → same flag   no change
//
// Deductions clamp at zero and the clamped remainder is never restored —
// over-deduction is silently absorbed, not banked.
type RecordService struct {
	records repository.RecordRepository
	habits  repository.HabitRepository
	users   repository.UserRepository
	locks   *keyedMutex
	logger  *slog.Logger
}

// NewRecordService creates a RecordService.
func NewRecordService(
	records repository.RecordRepository,
	habits repository.HabitRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *RecordService {
	return &RecordService{
		records: records,
		habits:  habits,
		users:   users,
		locks:   newKeyedMutex(),
		logger:  logger,
	}
}

// SubmitRecordInput is the upsert payload.
//
// Completed and Notes are pointers so that "field omitted" is a distinct
// state: on create, a nil Completed defaults to TRUE (submitting a record
// means "I did it" unless said otherwise); on update, nil fields preserve
// the prior value — this is a patch, not an overwrite.
type SubmitRecordInput struct {
	HabitID   string
	Date      time.Time
	Completed *bool
	Notes     *string
}

// RecordResult pairs the persisted record with the submitter's refreshed
// level info, so the client can update its XP bar from one response.
type RecordResult struct {
	Record    *model.HabitRecord
	LevelInfo xp.LevelInfo
}

// lockKey serializes ledger mutations per (user, habit, day) triple.
func lockKey(userID, habitID string, day time.Time) string {
	return userID + "|" + habitID + "|" + day.Format("2006-01-02")
}

// Submit creates or updates the unique record for (habit, day) and applies
// the XP transition.
//
// ORDER OF OPERATIONS:
//  1. Validate and resolve the habit BEFORE any write — a bad request must
//     not leave a partial XP award behind.
//  2. Take the per-key lock, then read the prior record (or find it absent).
//  3. Persist the record transition.
//  4. Apply the XP delta as one atomic storage-level adjustment.
//  5. Recompute level info from the new total.
//
// The per-key lock makes steps 2–4 atomic with respect to other submissions
// and deletions for the same (user, habit, day); without it two racing
// toggles could both read the same prior flag and double-apply a delta.
func (s *RecordService) Submit(ctx context.Context, userID string, in SubmitRecordInput) (*RecordResult, error) {
	if in.HabitID == "" {
		return nil, apperror.ValidationFailed("habitId", "habitId is required")
	}
	if in.Date.IsZero() {
		return nil, apperror.ValidationFailed("date", "date is required")
	}
	if in.Notes != nil && len(*in.Notes) > MaxNotesLength {
		return nil, apperror.ValidationFailed("notes",
			fmt.Sprintf("notes must be %d characters or less", MaxNotesLength))
	}

	// The habit must exist and belong to the submitter. A foreign habit is
	// indistinguishable from a missing one.
	habit, err := s.habits.GetHabitByID(ctx, in.HabitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, apperror.NotFound("habit", in.HabitID)
	}

	// The calendar day, not the submitted timestamp, is the ledger key.
	day := model.NormalizeDate(in.Date)

	key := lockKey(userID, habit.ID, day)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	record, err := s.records.GetRecordByKey(ctx, habit.ID, userID, day)

	var delta int
	switch {
	case err == nil:
		// Existing record: capture the prior flag, then patch.
		prior := record.Completed
		if in.Completed != nil {
			record.Completed = *in.Completed
		}
		if in.Notes != nil {
			record.Notes = *in.Notes
		}

		if err := s.records.UpdateRecord(ctx, record); err != nil {
			return nil, fmt.Errorf("updating record: %w", err)
		}

		switch {
		case !prior && record.Completed:
			delta = habit.XPReward
		case prior && !record.Completed:
			delta = -habit.XPReward
		}

	case errors.Is(err, apperror.ErrNotFound):
		// No record yet for this day: create one. Completed defaults to true.
		completed := true
		if in.Completed != nil {
			completed = *in.Completed
		}
		notes := ""
		if in.Notes != nil {
			notes = *in.Notes
		}

		record = &model.HabitRecord{
			HabitID:   habit.ID,
			UserID:    userID,
			Date:      day,
			Completed: completed,
			Notes:     notes,
		}
		if err := s.records.CreateRecord(ctx, record); err != nil {
			return nil, fmt.Errorf("creating record: %w", err)
		}

		if completed {
			delta = habit.XPReward
		}

	default:
		return nil, fmt.Errorf("looking up record: %w", err)
	}

	total, err := s.applyXP(ctx, userID, delta)
	if err != nil {
		return nil, err
	}

	s.logger.Info("completion submitted",
		slog.String("recordID", record.ID),
		slog.String("habitID", habit.ID),
		slog.String("userID", userID),
		slog.Bool("completed", record.Completed),
		slog.Int("xpDelta", delta),
	)

	return &RecordResult{Record: record, LevelInfo: xp.ComputeLevelInfo(total)}, nil
}

// Delete removes a record and reverses its XP effect if it was completed.
//
// The lookup is scoped to the requesting user: a record that doesn't exist
// and a record that belongs to someone else get the SAME not-found answer.
//
// EDGE CASE — ORPHANED RECORDS:
// The owning habit may have been deleted since the record was created. In
// that case the reward amount is unknowable, so the deduction is skipped
// and only the record is removed.
func (s *RecordService) Delete(ctx context.Context, userID, recordID string) (xp.LevelInfo, error) {
	if recordID == "" {
		return xp.LevelInfo{}, apperror.ValidationFailed("id", "record ID is required")
	}

	record, err := s.records.GetRecordByID(ctx, recordID)
	if err != nil {
		return xp.LevelInfo{}, err
	}
	if record.UserID != userID {
		return xp.LevelInfo{}, apperror.NotFound("record", recordID)
	}

	key := lockKey(userID, record.HabitID, record.Date)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	// Re-read under the lock — a racing toggle may have flipped the flag
	// (or deleted the record) between the ownership check and here.
	record, err = s.records.GetRecordByID(ctx, recordID)
	if err != nil {
		return xp.LevelInfo{}, err
	}

	var delta int
	if record.Completed {
		habit, err := s.habits.GetHabitByID(ctx, record.HabitID)
		switch {
		case err == nil:
			delta = -habit.XPReward
		case errors.Is(err, apperror.ErrNotFound):
			// Habit is gone; reward unknown, skip the deduction.
		default:
			return xp.LevelInfo{}, fmt.Errorf("looking up habit for record %s: %w", recordID, err)
		}
	}

	total, err := s.applyXP(ctx, userID, delta)
	if err != nil {
		return xp.LevelInfo{}, err
	}

	if err := s.records.DeleteRecord(ctx, recordID); err != nil {
		return xp.LevelInfo{}, err
	}

	s.logger.Info("completion deleted",
		slog.String("recordID", recordID),
		slog.String("userID", userID),
		slog.Int("xpDelta", delta),
	)

	return xp.ComputeLevelInfo(total), nil
}

// applyXP adjusts the user's total by delta (atomically, floored at zero at
// the storage layer) and returns the new total. A zero delta just reads the
// current total.
func (s *RecordService) applyXP(ctx context.Context, userID string, delta int) (int, error) {
	if delta == 0 {
		user, err := s.users.GetUserByID(ctx, userID)
		if err != nil {
			return 0, fmt.Errorf("reading user %s: %w", userID, err)
		}
		return user.TotalXP, nil
	}

	total, err := s.users.AdjustTotalXP(ctx, userID, delta)
	if err != nil {
		return 0, fmt.Errorf("adjusting xp for user %s: %w", userID, err)
	}
	return total, nil
}

// ListByHabit returns all records for one owned habit, newest day first.
func (s *RecordService) ListByHabit(ctx context.Context, userID, habitID string) ([]model.HabitRecord, error) {
	if habitID == "" {
		return nil, apperror.ValidationFailed("habitId", "habit ID is required")
	}

	habit, err := s.habits.GetHabitByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, apperror.NotFound("habit", habitID)
	}

	records, err := s.records.ListRecordsByHabit(ctx, habitID)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return records, nil
}

// ListByUser returns the user's records, optionally bounded by an inclusive
// calendar-day range. Bounds are normalized to midnight UTC like record
// dates, so "to 2024-01-15" includes records dated that day.
func (s *RecordService) ListByUser(ctx context.Context, userID string, from, to *time.Time) ([]model.HabitRecord, error) {
	var filter repository.RecordFilter
	if from != nil {
		f := model.NormalizeDate(*from)
		filter.From = &f
	}
	if to != nil {
		t := model.NormalizeDate(*to)
		filter.To = &t
	}

	records, err := s.records.ListRecordsByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return records, nil
}
