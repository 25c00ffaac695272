// Package player defines the engine-facing view of a user: combat
// stats, gold, floor progression, and location. The engine operates on
// value snapshots and returns updated copies; the storage layer owns
// the durable row.
package player

// Player is a snapshot of the user ledger fields the engine reads and
// writes. Floor and void-pressure state live here, not on a battle.
type Player struct {
	ID       int64
	Username string

	Level     int
	OverallXP int
	Gold      int

	// Combat stats
	Attack   int
	Strength int
	Defense  int
	Range    int
	Magic    int
	HP       int
	MaxHP    int

	// Progression
	CurrentFloor  int
	DeepestFloor  int
	FloorWins     int
	VoidIntensity int

	// CurrentArea is the slug of the world area the player occupies.
	CurrentArea string

	// Active travel session, carried on the user between steps. A
	// zero TravelDestination means no journey is underway.
	TravelDestination string
	TravelProgress    int
	TravelDistance    int
}

// New returns a level-1 player with starting stats on floor 1.
func New(username string) Player {
	return Player{
		Username:      username,
		Level:         1,
		Attack:        10,
		Strength:      10,
		Defense:       10,
		Range:         10,
		Magic:         10,
		HP:            100,
		MaxHP:         100,
		Gold:          25,
		CurrentFloor:  1,
		DeepestFloor:  1,
		CurrentArea:   "hollowmere",
		VoidIntensity: 0,
	}
}

// Normalize repairs the floor invariants: currentFloor >= 1 and
// deepestFloor >= currentFloor.
func (p *Player) Normalize() {
	if p.CurrentFloor < 1 {
		p.CurrentFloor = 1
	}
	if p.DeepestFloor < p.CurrentFloor {
		p.DeepestFloor = p.CurrentFloor
	}
}

// IsAlive reports whether the player has hit points remaining.
func (p *Player) IsAlive() bool {
	return p.HP > 0
}
