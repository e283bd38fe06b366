package model

import "time"

// Habit frequencies. The value is advisory — completion records are always
// keyed per calendar day regardless of frequency.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Habit is a recurring activity a user wants to track.
//
// XPReward is the fixed amount of XP one completion of this habit is worth.
// It defaults to 0 and can never be negative — the ledger relies on that
// when it awards and deducts XP.
type Habit struct {
	ID          string    `json:"id"          db:"id"`
	UserID      string    `json:"userId"      db:"user_id"`
	Name        string    `json:"name"        db:"name"`
	Description string    `json:"description" db:"description"`
	Frequency   string    `json:"frequency"   db:"frequency"`  // daily|weekly|monthly
	Color       string    `json:"color"       db:"color"`      // hex, e.g. "#3b82f6"
	XPReward    int       `json:"xpReward"    db:"xp_reward"`  // >= 0
	Difficulty  string    `json:"difficulty"  db:"difficulty"` // Easy|Medium|Hard|Epic, optional
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}
