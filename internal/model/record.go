package model

import "time"

// HabitRecord tracks whether a habit was marked done on one calendar day.
//
// UNIQUENESS:
// At most one record exists per (habit, day). The Date field is always
// normalized to midnight UTC (see NormalizeDate) so that two submissions at
// different times of the same day hit the SAME record. The sqlite layer
// backs this with a unique index on (habit_id, date).
//
// UserID is stored redundantly (the habit already knows its owner) so that
// ownership checks on records don't need a join — and so records remain
// attributable after their habit is deleted.
type HabitRecord struct {
	ID        string    `json:"id"        db:"id"`
	HabitID   string    `json:"habitId"   db:"habit_id"`
	UserID    string    `json:"userId"    db:"user_id"`
	Date      time.Time `json:"date"      db:"date"` // midnight UTC
	Completed bool      `json:"completed" db:"completed"`
	Notes     string    `json:"notes"     db:"notes"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// NormalizeDate truncates a timestamp to the start of its calendar day in
// UTC. This is the lookup and uniqueness key for completion records — the
// literal submitted timestamp is never stored.
func NormalizeDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
