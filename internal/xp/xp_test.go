package xp

import "testing"

func TestForLevel_Tiers(t *testing.T) {
	// Each tier is a contiguous level range with a flat per-level cost.
	tests := []struct {
		name     string
		from, to int
		want     int
	}{
		{name: "levels 1-10 cost 100", from: 1, to: 10, want: 100},
		{name: "levels 11-20 cost 250", from: 11, to: 20, want: 250},
		{name: "levels 21-30 cost 500", from: 21, to: 30, want: 500},
		{name: "levels 31+ cost 1000", from: 31, to: 120, want: 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for level := tt.from; level <= tt.to; level++ {
				if got := ForLevel(level); got != tt.want {
					t.Errorf("ForLevel(%d) = %d, want %d", level, got, tt.want)
				}
			}
		})
	}
}

func TestComputeLevelInfo(t *testing.T) {
	tests := []struct {
		name    string
		totalXP int
		want    LevelInfo
	}{
		{name: "zero XP is level 1", totalXP: 0, want: LevelInfo{Level: 1, XP: 0, XPToNextLevel: 100}},
		{name: "mid first level", totalXP: 50, want: LevelInfo{Level: 1, XP: 50, XPToNextLevel: 100}},
		{name: "exactly one level up", totalXP: 100, want: LevelInfo{Level: 2, XP: 0, XPToNextLevel: 100}},
		{name: "one short of tier 2", totalXP: 999, want: LevelInfo{Level: 10, XP: 99, XPToNextLevel: 100}},
		{name: "tier 2 boundary", totalXP: 1000, want: LevelInfo{Level: 11, XP: 0, XPToNextLevel: 250}},
		{name: "inside tier 2", totalXP: 1100, want: LevelInfo{Level: 11, XP: 100, XPToNextLevel: 250}},
		{name: "tier 3 boundary", totalXP: 3500, want: LevelInfo{Level: 21, XP: 0, XPToNextLevel: 500}},
		{name: "tier 4 boundary", totalXP: 8500, want: LevelInfo{Level: 31, XP: 0, XPToNextLevel: 1000}},
		{name: "deep into tier 4", totalXP: 8500 + 2500, want: LevelInfo{Level: 33, XP: 500, XPToNextLevel: 1000}},
		{name: "negative clamps to zero", totalXP: -42, want: LevelInfo{Level: 1, XP: 0, XPToNextLevel: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeLevelInfo(tt.totalXP)
			if got != tt.want {
				t.Errorf("ComputeLevelInfo(%d) = %+v, want %+v", tt.totalXP, got, tt.want)
			}
		})
	}
}

// TestComputeLevelInfo_Invariants sweeps a range of totals and checks the
// structural properties that must hold for EVERY input:
//   - progress is non-negative and strictly below the next-level cost
//   - the derivation is consistent with the tier table (walking back down
//     the levels re-produces the original total)
func TestComputeLevelInfo_Invariants(t *testing.T) {
	for total := 0; total <= 20000; total++ {
		info := ComputeLevelInfo(total)

		if info.Level < 1 {
			t.Fatalf("ComputeLevelInfo(%d).Level = %d, want >= 1", total, info.Level)
		}
		if info.XP < 0 || info.XP >= info.XPToNextLevel {
			t.Fatalf("ComputeLevelInfo(%d) progress %d out of range [0, %d)", total, info.XP, info.XPToNextLevel)
		}
		if info.XPToNextLevel != ForLevel(info.Level) {
			t.Fatalf("ComputeLevelInfo(%d).XPToNextLevel = %d, want ForLevel(%d) = %d",
				total, info.XPToNextLevel, info.Level, ForLevel(info.Level))
		}

		// Reconstruct the total from (level, xp) — sums the cost of every
		// completed level and adds the leftover progress.
		reconstructed := info.XP
		for l := 1; l < info.Level; l++ {
			reconstructed += ForLevel(l)
		}
		if reconstructed != total {
			t.Fatalf("ComputeLevelInfo(%d) reconstructs to %d", total, reconstructed)
		}
	}
}

// Adding one level's worth of XP must advance the level by exactly one.
func TestComputeLevelInfo_OneLevelStep(t *testing.T) {
	boundaries := []int{0, 100, 900, 1000, 2250, 3500, 8000, 8500, 12500}
	for _, total := range boundaries {
		before := ComputeLevelInfo(total)
		after := ComputeLevelInfo(total + before.XPToNextLevel - before.XP)
		if after.Level != before.Level+1 {
			t.Errorf("level after topping up from %d = %d, want %d", total, after.Level, before.Level+1)
		}
		if after.XP != 0 {
			t.Errorf("progress after topping up from %d = %d, want 0", total, after.XP)
		}
	}
}
