// balance is a Monte Carlo simulator for tuning the combat formulas.
// It runs seeded battles across a floor range and reports win rates,
// average turn counts, and reward totals per floor.
//
// Usage:
//
//	balance [-mobs data/mobs.yaml] [-battles 1000] [-floors 20] [-seed 1] [-style attack]
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/HuntleyOG/eldvar/internal/engine"
	"github.com/HuntleyOG/eldvar/internal/mob"
	"github.com/HuntleyOG/eldvar/internal/player"
	"github.com/HuntleyOG/eldvar/internal/progression"
	"github.com/HuntleyOG/eldvar/internal/settings"
)

// floorReport aggregates simulation outcomes for one floor.
type floorReport struct {
	Battles    int
	Wins       int
	TotalTurns int
	TotalXP    int
	TotalGold  int
}

func main() {
	mobsFile := flag.String("mobs", "data/mobs.yaml", "Path to mobs YAML file")
	battles := flag.Int("battles", 1000, "Battles to simulate per floor")
	floors := flag.Int("floors", 20, "Deepest floor to simulate")
	seed := flag.Int64("seed", 1, "RNG seed")
	styleName := flag.String("style", "attack", "Combat style to fight with")
	flag.Parse()

	style, err := engine.ParseStyle(*styleName)
	if err != nil {
		fmt.Printf("Unknown style %q\n", *styleName)
		os.Exit(1)
	}

	catalog, err := mob.LoadCatalog(*mobsFile)
	if err != nil {
		fmt.Printf("Failed to load mobs: %v\n", err)
		os.Exit(1)
	}

	tun := engine.TuningFrom(settings.New())
	rng := rand.New(rand.NewSource(*seed))

	fmt.Printf("%-6s %-6s %-8s %-10s %-10s %-10s\n",
		"Floor", "Tier", "WinRate", "AvgTurns", "AvgXP", "AvgGold")

	for floor := 1; floor <= *floors; floor++ {
		report := simulateFloor(catalog, floor, *battles, style, tun, rng)
		if report.Battles == 0 {
			fmt.Printf("%-6d no eligible mobs\n", floor)
			continue
		}

		fmt.Printf("%-6d %-6s %-8.1f %-10.1f %-10.1f %-10.1f\n",
			floor,
			progression.TierName(floor),
			100.0*float64(report.Wins)/float64(report.Battles),
			float64(report.TotalTurns)/float64(report.Battles),
			float64(report.TotalXP)/float64(report.Battles),
			float64(report.TotalGold)/float64(report.Battles),
		)
	}
}

// simulateFloor fights one fresh level-appropriate character against
// random eligible mobs until each battle reaches a terminal state.
func simulateFloor(catalog *mob.Catalog, floor, battles int, style engine.CombatStyle, tun engine.Tuning, rng *rand.Rand) floorReport {
	var report floorReport

	// Void pressure tracks the floor as if the player climbed down
	// normally.
	voidIntensity := (floor - 1) * tun.Progression.VoidStepPerFloor
	if voidIntensity > tun.Progression.VoidCapPercent {
		voidIntensity = tun.Progression.VoidCapPercent
	}

	for i := 0; i < battles; i++ {
		m, ok := catalog.RandomForFloor(floor, rng)
		if !ok {
			return report
		}

		p := simPlayer(floor)
		b, err := engine.StartBattle(p, m, floor, voidIntensity)
		if err != nil {
			continue
		}

		for b.Status == engine.StatusOngoing {
			b, _, err = engine.TakeTurn(b, style, tun, rng)
			if err != nil {
				break
			}
		}

		report.Battles++
		report.TotalTurns += b.TurnCount
		if b.Status == engine.StatusWon {
			report.Wins++
			report.TotalXP += b.RewardXP
			report.TotalGold += b.RewardGold
		}
	}

	return report
}

// simPlayer builds a character at the recommended level for the floor,
// with stats grown the way normal play would grow them.
func simPlayer(floor int) player.Player {
	p := player.New("simulant")
	level := progression.RecommendedLevel(floor)

	p.Level = level
	p.Attack += (level - 1) * 2
	p.Strength += (level - 1) * 2
	p.Defense += (level - 1) * 2
	p.Range += (level - 1) * 2
	p.Magic += (level - 1) * 2
	p.MaxHP += (level - 1) * 10
	p.HP = p.MaxHP
	p.CurrentFloor = floor
	p.DeepestFloor = floor
	return p
}
