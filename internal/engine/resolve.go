package engine

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/HuntleyOG/eldvar/internal/progression"
	"github.com/HuntleyOG/eldvar/internal/settings"
)

// Accuracy bounds and baseline, in percent.
const (
	baseAccuracy      = 75.0
	minAccuracy       = 5.0
	maxAccuracy       = 95.0
	defenseAccPenalty = 15.0
)

// Tuning holds the combat knobs for one operation. Read from settings
// once per call; immutable during a simulation step.
type Tuning struct {
	AccPenDivisor    float64
	DmgMinMultiplier float64
	PlayerDmgDivisor float64
	MobDmgDivisor    float64

	Progression progression.Tuning
}

// TuningFrom reads the combat knobs out of settings.
func TuningFrom(s *settings.Settings) Tuning {
	return Tuning{
		AccPenDivisor:    s.Float(settings.KeyPlayerAccPenDivisor),
		DmgMinMultiplier: s.Float(settings.KeyPlayerDmgMinMult),
		PlayerDmgDivisor: s.Float(settings.KeyPlayerDmgDivisor),
		MobDmgDivisor:    s.Float(settings.KeyMobDmgDivisor),
		Progression:      progression.TuningFrom(s),
	}
}

// TakeTurn resolves one round of combat: the player acts first, then
// the mob answers only if the battle is still ONGOING. The returned
// battle is a new snapshot; the input is not mutated. Rolls are drawn
// from rng in a fixed order (player accuracy, player damage on hit,
// mob accuracy, mob damage on hit) so a seeded source replays exactly.
func TakeTurn(b Battle, style CombatStyle, tun Tuning, rng *rand.Rand) (Battle, []Turn, error) {
	if b.Status.Terminal() {
		return b, nil, ErrBattleNotOngoing
	}
	if !style.Valid() {
		return b, nil, ErrInvalidCombatStyle
	}

	var turns []Turn

	// Player action
	offense := b.offenseStat(style)
	accuracy := accuracyChance(offense, b.MobDefense, style == StyleDefense, tun.AccPenDivisor)

	damage := 0
	var text string
	if rng.Float64()*100.0 < accuracy {
		damage = rollDamage(offense, tun.DmgMinMultiplier, tun.PlayerDmgDivisor, b.VoidIntensity, rng)
		b.MobHPCurrent = clampHP(b.MobHPCurrent - damage)
		text = fmt.Sprintf("You strike the %s for %d damage.", b.MobName, damage)
	} else {
		text = fmt.Sprintf("You lunge at the %s and miss.", b.MobName)
	}

	b.TurnCount++
	turns = append(turns, Turn{
		TurnNo: b.TurnCount,
		Actor:  ActorPlayer,
		Damage: damage,
		CharHP: b.CharHPCurrent,
		MobHP:  b.MobHPCurrent,
		Text:   text,
	})

	if b.MobHPCurrent == 0 {
		b.Status = StatusWon
		b.EndedAt = time.Now().UTC()
		b.RewardXP = progression.RewardXP(b.MobRewardXP, b.Floor, tun.Progression)
		b.RewardGold = progression.RewardGold(b.MobRewardGold, b.Floor, tun.Progression)
		return b, turns, nil
	}

	// Mob action
	mobOffense := b.mobOffenseStat()
	mobAccuracy := accuracyChance(mobOffense, b.CharDefense, false, tun.AccPenDivisor)

	mobDamage := 0
	if rng.Float64()*100.0 < mobAccuracy {
		mobDamage = rollDamage(mobOffense, tun.DmgMinMultiplier, tun.MobDmgDivisor, b.VoidIntensity, rng)
		if style == StyleDefense {
			mobDamage -= defenseReduction(b.CharDefense)
			if mobDamage < 0 {
				mobDamage = 0
			}
		}
		b.CharHPCurrent = clampHP(b.CharHPCurrent - mobDamage)
		text = fmt.Sprintf("The %s hits you for %d damage.", b.MobName, mobDamage)
	} else {
		text = fmt.Sprintf("The %s swings at you and misses.", b.MobName)
	}

	b.TurnCount++
	turns = append(turns, Turn{
		TurnNo: b.TurnCount,
		Actor:  ActorMob,
		Damage: mobDamage,
		CharHP: b.CharHPCurrent,
		MobHP:  b.MobHPCurrent,
		Text:   text,
	})

	if b.CharHPCurrent == 0 {
		b.Status = StatusLost
		b.EndedAt = time.Now().UTC()
	}

	return b, turns, nil
}

// accuracyChance computes the hit chance in percent: a baseline
// reduced by the defender's stat advantage over the attacker's,
// clamped to [5, 95]. Fighting defensively trades a flat accuracy
// penalty for reduced incoming damage.
func accuracyChance(offense, defense int, defensive bool, accPenDivisor float64) float64 {
	accuracy := baseAccuracy
	if defensive {
		accuracy -= defenseAccPenalty
	}
	if accPenDivisor > 0 {
		accuracy -= float64(defense-offense) / accPenDivisor
	}

	if accuracy < minAccuracy {
		return minAccuracy
	}
	if accuracy > maxAccuracy {
		return maxAccuracy
	}
	return accuracy
}

// rollDamage computes hit damage: a uniform multiplier with a
// configured lower bound, applied to the offense stat over the
// configured divisor, amplified by void intensity. A hit always deals
// at least 1.
func rollDamage(offense int, minMult, divisor float64, voidIntensity int, rng *rand.Rand) int {
	mult := rng.Float64()
	if mult < minMult {
		mult = minMult
	}
	if divisor <= 0 {
		divisor = 1
	}

	raw := mult * float64(offense) / divisor
	raw *= 1.0 + float64(voidIntensity)/100.0

	damage := int(math.Round(raw))
	if damage < 1 {
		damage = 1
	}
	return damage
}

// defenseReduction is the flat incoming-damage reduction granted by
// the DEFENSE style for the round.
func defenseReduction(defenseStat int) int {
	reduction := defenseStat / 4
	if reduction < 1 {
		reduction = 1
	}
	return reduction
}

// clampHP keeps hit points from going negative.
func clampHP(hp int) int {
	if hp < 0 {
		return 0
	}
	return hp
}
