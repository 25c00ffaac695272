// Package progression applies floor advancement, void-pressure
// scaling, and reward calculation. Everything here is a pure function
// over snapshots; the tunable percentages come from settings and are
// read once per operation.
package progression

import (
	"math"

	"github.com/HuntleyOG/eldvar/internal/player"
	"github.com/HuntleyOG/eldvar/internal/settings"
)

// Tuning holds the progression knobs for one operation.
type Tuning struct {
	WinsRequiredPerFloor  int
	VoidStepPerFloor      int
	VoidCapPercent        int
	RewardXPPerFloorPct   float64
	RewardGoldPerFloorPct float64
}

// TuningFrom reads the progression knobs out of settings.
func TuningFrom(s *settings.Settings) Tuning {
	return Tuning{
		WinsRequiredPerFloor:  s.Int(settings.KeyWinsRequiredPerFloor),
		VoidStepPerFloor:      s.Int(settings.KeyVoidStepPerFloor),
		VoidCapPercent:        s.Int(settings.KeyVoidCapPercent),
		RewardXPPerFloorPct:   s.Float(settings.KeyRewardXPPerFloorPct),
		RewardGoldPerFloorPct: s.Float(settings.KeyRewardGoldPerFloorPct),
	}
}

// ApplyWin records a battle win on the player's current floor. Once
// wins reach the configured threshold the player advances a floor, the
// win counter resets, and void intensity rises by the configured step,
// capped. Deepest floor only ever ratchets upward.
func ApplyWin(p player.Player, tun Tuning) player.Player {
	p.FloorWins++

	if tun.WinsRequiredPerFloor > 0 && p.FloorWins >= tun.WinsRequiredPerFloor {
		p.CurrentFloor++
		p.FloorWins = 0

		p.VoidIntensity += tun.VoidStepPerFloor
		if p.VoidIntensity > tun.VoidCapPercent {
			p.VoidIntensity = tun.VoidCapPercent
		}
	}

	if p.DeepestFloor < p.CurrentFloor {
		p.DeepestFloor = p.CurrentFloor
	}

	return p
}

// RewardXP scales a mob's base XP reward by the current floor.
// Formula: base * (1 + floor * pct/100), rounded to nearest, never
// negative.
func RewardXP(baseXP, floor int, tun Tuning) int {
	return scaleReward(baseXP, floor, tun.RewardXPPerFloorPct)
}

// RewardGold scales a mob's base gold reward by the current floor.
func RewardGold(baseGold, floor int, tun Tuning) int {
	return scaleReward(baseGold, floor, tun.RewardGoldPerFloorPct)
}

func scaleReward(base, floor int, pct float64) int {
	if base <= 0 {
		return 0
	}
	scaled := float64(base) * (1.0 + float64(floor)*pct/100.0)
	reward := int(math.Round(scaled))
	if reward < 0 {
		return 0
	}
	return reward
}

// TierName describes roughly how dangerous a floor is, for display.
func TierName(floor int) string {
	switch {
	case floor <= 5:
		return "Shallow"
	case floor <= 10:
		return "Sunken"
	case floor <= 20:
		return "Abyssal"
	default:
		return "Voidtouched"
	}
}

// RecommendedLevel returns the suggested player level for a floor.
func RecommendedLevel(floor int) int {
	if floor <= 0 {
		return 1
	}
	// Roughly 1 level per 2 floors
	return 1 + (floor / 2)
}
