// Package skills tracks per-user skill experience against the shared
// XP curve.
package skills

import "github.com/HuntleyOG/eldvar/internal/xptable"

// Skill keys seeded into the reference table.
const (
	Pathfinding = "pathfinding"
	Attack      = "attack"
	Strength    = "strength"
	Defense     = "defense"
	Range       = "range"
	Magic       = "magic"
)

// Skill is a static reference row.
type Skill struct {
	Key  string
	Name string
}

// All returns the seeded skill catalog in display order.
func All() []Skill {
	return []Skill{
		{Key: Pathfinding, Name: "Pathfinding"},
		{Key: Attack, Name: "Attack"},
		{Key: Strength, Name: "Strength"},
		{Key: Defense, Name: "Defense"},
		{Key: Range, Name: "Range"},
		{Key: Magic, Name: "Magic"},
	}
}

// UserSkill is one user's progress in a single skill.
type UserSkill struct {
	UserID   int64
	SkillKey string
	Level    int
	XP       int
}

// AwardXP applies an XP gain and recomputes the level from the curve.
// The merge is monotonic: neither level nor XP ever decrease, so a
// stale snapshot or a zero award cannot regress stored progress.
func AwardXP(us UserSkill, amount int, table *xptable.Table) UserSkill {
	if amount < 0 {
		amount = 0
	}

	newXP := us.XP + amount
	if newXP < us.XP {
		newXP = us.XP
	}

	newLevel := table.LevelForXP(newXP)
	if newLevel < us.Level {
		newLevel = us.Level
	}
	if newLevel > xptable.MaxSkillLevel {
		newLevel = xptable.MaxSkillLevel
	}

	return UserSkill{
		UserID:   us.UserID,
		SkillKey: us.SkillKey,
		Level:    newLevel,
		XP:       newXP,
	}
}
