// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other
// languages, but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered account.
//
// WHY `json:"-"` ON PasswordHash?
// The dash tells encoding/json to NEVER serialize the field. Handlers return
// User values directly in responses, so the hash must be unserializable by
// construction — not by every handler remembering to strip it.
//
// TotalXP is the only persisted piece of the leveling state. Level and
// in-level progress are derived from it on every read (see internal/xp);
// storing them alongside would let the values drift apart.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"`
	Email        string    `json:"email"     db:"email"` // stored lowercased, unique
	PasswordHash string    `json:"-"         db:"password_hash"`
	TotalXP      int       `json:"totalXp"   db:"total_xp"` // never negative
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
