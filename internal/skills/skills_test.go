package skills

import (
	"testing"

	"github.com/HuntleyOG/eldvar/internal/xptable"
)

func TestAwardXPAccumulates(t *testing.T) {
	table := xptable.Build(xptable.MaxSkillLevel)
	us := UserSkill{UserID: 1, SkillKey: Pathfinding, Level: 1, XP: 0}

	us = AwardXP(us, 50, table)
	if us.XP != 50 {
		t.Errorf("XP = %d, want 50", us.XP)
	}

	us = AwardXP(us, 70, table)
	if us.XP != 120 {
		t.Errorf("XP = %d, want 120", us.XP)
	}
	if us.Level != table.LevelForXP(120) {
		t.Errorf("Level = %d, want %d", us.Level, table.LevelForXP(120))
	}
}

func TestAwardXPZeroKeepsLevel(t *testing.T) {
	table := xptable.Build(xptable.MaxSkillLevel)
	us := UserSkill{UserID: 1, SkillKey: Attack, Level: 5, XP: 1000}

	got := AwardXP(us, 0, table)
	if got.Level < 5 {
		t.Errorf("Level dropped to %d on zero award", got.Level)
	}
	if got.XP != 1000 {
		t.Errorf("XP = %d, want 1000", got.XP)
	}
}

func TestAwardXPMonotonicMerge(t *testing.T) {
	table := xptable.Build(xptable.MaxSkillLevel)

	// A stale snapshot claims a higher level than its XP justifies.
	// The merge must not regress the level.
	stale := UserSkill{UserID: 1, SkillKey: Magic, Level: 40, XP: 10}

	got := AwardXP(stale, 5, table)
	if got.Level != 40 {
		t.Errorf("Level = %d, want 40 (never decreases)", got.Level)
	}
}

func TestAwardXPNegativeTreatedAsZero(t *testing.T) {
	table := xptable.Build(xptable.MaxSkillLevel)
	us := UserSkill{UserID: 1, SkillKey: Defense, Level: 3, XP: 500}

	got := AwardXP(us, -100, table)
	if got.XP != 500 {
		t.Errorf("XP = %d, want 500", got.XP)
	}
	if got.Level != 3 {
		t.Errorf("Level = %d, want 3", got.Level)
	}
}

func TestAllContainsPathfinding(t *testing.T) {
	found := false
	for _, s := range All() {
		if s.Key == Pathfinding {
			found = true
		}
		if s.Name == "" {
			t.Errorf("skill %q has no name", s.Key)
		}
	}
	if !found {
		t.Error("pathfinding missing from skill catalog")
	}
}
