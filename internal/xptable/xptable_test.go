package xptable

import "testing"

func TestBuildFirstLevelRequiresZero(t *testing.T) {
	table := Build(MaxSkillLevel)

	if got := table.XPForLevel(1); got != 0 {
		t.Errorf("XPForLevel(1) = %d, want 0", got)
	}
	if got := table.MaxLevel(); got != MaxSkillLevel {
		t.Errorf("MaxLevel() = %d, want %d", got, MaxSkillLevel)
	}
}

func TestBuildStrictlyIncreasing(t *testing.T) {
	table := Build(MaxSkillLevel)
	thresholds := table.Thresholds()

	for i := 1; i < len(thresholds); i++ {
		prev, cur := thresholds[i-1], thresholds[i]
		if cur.Level != prev.Level+1 {
			t.Fatalf("levels not contiguous: %d after %d", cur.Level, prev.Level)
		}
		if cur.XPRequired <= prev.XPRequired {
			t.Fatalf("XPRequired not strictly increasing at level %d: %d <= %d",
				cur.Level, cur.XPRequired, prev.XPRequired)
		}
	}
}

func TestLevelForXPRoundTrip(t *testing.T) {
	table := Build(MaxSkillLevel)

	// LevelForXP(XPForLevel(L)) must recover L for every table level.
	for _, th := range table.Thresholds() {
		if got := table.LevelForXP(th.XPRequired); got != th.Level {
			t.Errorf("LevelForXP(%d) = %d, want %d", th.XPRequired, got, th.Level)
		}
	}

	// One XP short of a threshold stays on the previous level.
	for _, th := range table.Thresholds() {
		if th.Level == 1 {
			continue
		}
		if got := table.LevelForXP(th.XPRequired - 1); got != th.Level-1 {
			t.Errorf("LevelForXP(%d) = %d, want %d", th.XPRequired-1, got, th.Level-1)
		}
	}
}

func TestLevelForXPNonDecreasing(t *testing.T) {
	table := Build(MaxSkillLevel)

	prev := 0
	for xp := 0; xp <= 20000; xp += 7 {
		level := table.LevelForXP(xp)
		if level < prev {
			t.Fatalf("LevelForXP decreased at xp=%d: %d < %d", xp, level, prev)
		}
		prev = level
	}
}

func TestLevelForXPEdgeCases(t *testing.T) {
	table := Build(MaxSkillLevel)

	tests := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{-100, 1}, // treated as 0
		{1, 1},
	}

	for _, tc := range tests {
		if got := table.LevelForXP(tc.xp); got != tc.want {
			t.Errorf("LevelForXP(%d) = %d, want %d", tc.xp, got, tc.want)
		}
	}

	// Far beyond the table caps at the max level.
	if got := table.LevelForXP(1 << 60); got != MaxSkillLevel {
		t.Errorf("LevelForXP(huge) = %d, want %d", got, MaxSkillLevel)
	}
}

func TestBuildDeterministic(t *testing.T) {
	a := Build(MaxSkillLevel)
	b := Build(MaxSkillLevel)

	at, bt := a.Thresholds(), b.Thresholds()
	for i := range at {
		if at[i] != bt[i] {
			t.Fatalf("table not deterministic at level %d: %+v vs %+v", i+1, at[i], bt[i])
		}
	}
}
