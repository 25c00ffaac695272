// Package xptable provides the level-to-required-experience curve shared
// by all skills. The table is generated once at startup and shared
// read-only afterwards.
package xptable

import "math"

// MaxSkillLevel is the highest attainable skill level.
const MaxSkillLevel = 99

// Threshold is one row of the curve: the total XP required to hold a level.
type Threshold struct {
	Level      int
	XPRequired int
}

// Table is the ordered level -> required-XP curve, covering levels 1..max.
type Table struct {
	thresholds []Threshold
}

// Build generates the curve for levels 1..maxLevel. Level 1 always
// requires 0 XP. Cumulative points follow the classic curve
// floor(i + 300 * 2^(i/7)), quartered.
func Build(maxLevel int) *Table {
	if maxLevel < 1 {
		maxLevel = 1
	}

	thresholds := make([]Threshold, 0, maxLevel)
	points := 0
	for level := 1; level <= maxLevel; level++ {
		points += level + int(300.0*math.Pow(2.0, float64(level)/7.0))
		required := 0
		if level > 1 {
			required = points / 4
		}
		thresholds = append(thresholds, Threshold{Level: level, XPRequired: required})
	}

	return &Table{thresholds: thresholds}
}

// XPForLevel returns the total XP required to hold the given level.
// Levels below 2 require 0 XP; levels above the table return the
// final threshold.
func (t *Table) XPForLevel(level int) int {
	if level <= 1 || len(t.thresholds) == 0 {
		return 0
	}
	if level > len(t.thresholds) {
		level = len(t.thresholds)
	}
	return t.thresholds[level-1].XPRequired
}

// LevelForXP returns the greatest level whose threshold is at or below
// the given XP. Total for any xp >= 0; negative XP is treated as 0.
func (t *Table) LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}

	// Binary search for the last threshold <= xp.
	lo, hi := 0, len(t.thresholds)-1
	best := 1
	for lo <= hi {
		mid := (lo + hi) / 2
		if t.thresholds[mid].XPRequired <= xp {
			best = t.thresholds[mid].Level
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best
}

// MaxLevel returns the highest level covered by the table.
func (t *Table) MaxLevel() int {
	return len(t.thresholds)
}

// Thresholds returns a copy of the full curve, in ascending level order.
func (t *Table) Thresholds() []Threshold {
	out := make([]Threshold, len(t.thresholds))
	copy(out, t.thresholds)
	return out
}
