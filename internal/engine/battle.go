// Package engine resolves turn-based battles between a player and a
// mob. Battles are value snapshots: the resolver takes a battle in,
// returns the advanced battle and the turns it appended, and never
// touches storage. All randomness comes from an explicit *rand.Rand so
// outcomes are reproducible under a seeded source.
package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/HuntleyOG/eldvar/internal/mob"
	"github.com/HuntleyOG/eldvar/internal/player"
)

// Status is the battle lifecycle state. ONGOING is the only
// non-terminal status; a battle leaves it at most once.
type Status string

const (
	StatusOngoing Status = "ONGOING"
	StatusWon     Status = "WON"
	StatusLost    Status = "LOST"
	StatusFled    Status = "FLED"
)

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s != StatusOngoing
}

// Actor identifies who acted on a battle turn.
type Actor string

const (
	ActorPlayer Actor = "PLAYER"
	ActorMob    Actor = "MOB"
)

// Turn is one append-only battle log entry. Turn numbers are 1-based,
// monotonic, and gapless within a battle.
type Turn struct {
	TurnNo int
	Actor  Actor
	Damage int
	CharHP int
	MobHP  int
	Text   string
}

// Battle holds one fight between a player and a mob. The mob's stats
// are copied at creation so catalog edits never alter an in-progress
// fight; the same applies to the player's combat stats.
type Battle struct {
	ID     string
	UserID int64

	// Mob snapshot
	MobKey        string
	MobName       string
	MobLevel      int
	MobAttack     int
	MobDefense    int
	MobMagic      int
	MobRange      int
	MobRewardXP   int
	MobRewardGold int

	// Player stat snapshot
	CharAttack   int
	CharStrength int
	CharDefense  int
	CharRange    int
	CharMagic    int

	CharHPCurrent int
	CharHPMax     int
	MobHPCurrent  int
	MobHPMax      int

	Floor         int
	VoidIntensity int

	Status    Status
	TurnCount int

	// Rewards, attached when the battle is won.
	RewardXP   int
	RewardGold int

	// Travel resume context, present when the battle interrupted a
	// journey.
	TravelDestination string
	TravelProgress    int
	TravelDistance    int

	CreatedAt time.Time
	EndedAt   time.Time
}

// StartBattle snapshots the mob and the player's combat state into a
// new ONGOING battle. Fails with ErrInvalidMob if the mob's floor
// window excludes the floor. The caller is responsible for rejecting a
// second battle for a user that already has one ONGOING
// (ErrBattleAlreadyActive).
func StartBattle(p player.Player, m mob.Mob, floor, voidIntensity int) (Battle, error) {
	if !m.EligibleFor(floor) {
		return Battle{}, ErrInvalidMob
	}

	return Battle{
		ID:            uuid.NewString(),
		UserID:        p.ID,
		MobKey:        m.Key,
		MobName:       m.Name,
		MobLevel:      m.Level,
		MobAttack:     m.Attack,
		MobDefense:    m.Defense,
		MobMagic:      m.Magic,
		MobRange:      m.Range,
		MobRewardXP:   m.RewardXP,
		MobRewardGold: m.RewardGold,
		CharAttack:    p.Attack,
		CharStrength:  p.Strength,
		CharDefense:   p.Defense,
		CharRange:     p.Range,
		CharMagic:     p.Magic,
		CharHPCurrent: p.HP,
		CharHPMax:     p.MaxHP,
		MobHPCurrent:  m.HP,
		MobHPMax:      m.HP,
		Floor:         floor,
		VoidIntensity: voidIntensity,
		Status:        StatusOngoing,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// Flee ends an ONGOING battle with no damage exchange. Travel progress
// already accrued is not forfeited; the orchestrator resumes the
// journey from the stored context.
func Flee(b Battle) (Battle, error) {
	if b.Status.Terminal() {
		return b, ErrBattleNotOngoing
	}
	b.Status = StatusFled
	b.EndedAt = time.Now().UTC()
	return b, nil
}

// offenseStat returns the player stat the style fights with. DEFENSE
// falls back to the attack stat; its trade-off is handled in the
// accuracy and incoming-damage formulas.
func (b *Battle) offenseStat(style CombatStyle) int {
	switch style {
	case StyleStrength:
		return b.CharStrength
	case StyleRange:
		return b.CharRange
	case StyleMagic:
		return b.CharMagic
	default:
		return b.CharAttack
	}
}

// mobOffenseStat returns the mob's best offensive stat from the
// snapshot.
func (b *Battle) mobOffenseStat() int {
	best := b.MobAttack
	if b.MobRange > best {
		best = b.MobRange
	}
	if b.MobMagic > best {
		best = b.MobMagic
	}
	return best
}
