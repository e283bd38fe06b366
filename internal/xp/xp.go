// Package xp implements the leveling engine: the mapping between a user's
// cumulative XP total and their level.
//
// HOW LEVELING WORKS:
// Each level costs a fixed amount of XP to complete, and the cost comes from
// a tier table — early levels are cheap, later levels are expensive:
//
//	levels  1–10 → 100 XP each
//	levels 11–20 → 250 XP each
//	levels 21–30 → 500 XP each
//	levels 31+   → 1000 XP each
//
// A user's totalXP is the ONLY value we persist. Level and in-level progress
// are always derived from it, never stored — storing them separately would
// let the three values drift apart.
//
// Everything in this package is a pure function: no state, no I/O, safe to
// call from any goroutine.
package xp

// LevelInfo describes where a cumulative XP total lands on the curve.
//
// Invariant: 0 <= XP < XPToNextLevel, and Level >= 1.
type LevelInfo struct {
	Level         int `json:"level"`
	XP            int `json:"xp"`
	XPToNextLevel int `json:"xpToNextLevel"`
}

// ForLevel returns the XP cost to advance out of the given level.
//
// The function is total over all positive levels — there is no level cap,
// the cost just stays at 1000 from level 31 on.
func ForLevel(level int) int {
	switch {
	case level <= 10:
		return 100
	case level <= 20:
		return 250
	case level <= 30:
		return 500
	default:
		return 1000
	}
}

// ComputeLevelInfo derives the level and in-level progress for a cumulative
// XP total.
//
// Starting at level 1, we repeatedly "spend" the cost of the current level
// while the remaining XP covers it. Whatever is left over is the progress
// within the final level. The loop always terminates because every level
// costs at least 100 XP.
//
// Tier boundaries land exactly on a level-up: 1000 total XP is level 11 with
// 0 progress, 3500 is level 21, 8500 is level 31.
//
// Negative input is treated as zero (a user's total can never go below zero,
// but a defensive caller shouldn't get a nonsense result either).
func ComputeLevelInfo(totalXP int) LevelInfo {
	if totalXP < 0 {
		totalXP = 0
	}

	level := 1
	remaining := totalXP

	for {
		needed := ForLevel(level)
		if remaining < needed {
			return LevelInfo{
				Level:         level,
				XP:            remaining,
				XPToNextLevel: needed,
			}
		}
		remaining -= needed
		level++
	}
}
