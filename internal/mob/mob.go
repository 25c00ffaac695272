// Package mob defines the monster catalog and random selection by
// floor window.
package mob

// Mob is a catalog entry. Battles copy these values at creation, so
// later catalog edits never alter an in-progress fight.
type Mob struct {
	Key        string
	Name       string
	Level      int
	HP         int
	Attack     int
	Defense    int
	Magic      int
	Range      int
	RewardXP   int
	RewardGold int

	// MinFloor..MaxFloor is the eligibility window for random selection.
	MinFloor int
	MaxFloor int
}

// EligibleFor reports whether the mob's floor window contains the floor.
func (m *Mob) EligibleFor(floor int) bool {
	return floor >= m.MinFloor && floor <= m.MaxFloor
}

// OffenseStat returns the mob's best offensive stat. Mobs lean on
// whichever of attack, range, or magic they were built around.
func (m *Mob) OffenseStat() int {
	best := m.Attack
	if m.Range > best {
		best = m.Range
	}
	if m.Magic > best {
		best = m.Magic
	}
	return best
}
