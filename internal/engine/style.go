package engine

import "strings"

// CombatStyle selects which stat drives the player's action for a
// round and what trade-off they accept.
type CombatStyle string

const (
	StyleAttack   CombatStyle = "ATTACK"
	StyleStrength CombatStyle = "STRENGTH"
	StyleDefense  CombatStyle = "DEFENSE"
	StyleRange    CombatStyle = "RANGE"
	StyleMagic    CombatStyle = "MAGIC"
)

// ParseStyle converts user input to a CombatStyle.
func ParseStyle(s string) (CombatStyle, error) {
	switch CombatStyle(strings.ToUpper(strings.TrimSpace(s))) {
	case StyleAttack:
		return StyleAttack, nil
	case StyleStrength:
		return StyleStrength, nil
	case StyleDefense:
		return StyleDefense, nil
	case StyleRange:
		return StyleRange, nil
	case StyleMagic:
		return StyleMagic, nil
	}
	return "", ErrInvalidCombatStyle
}

// Valid reports whether the style is one of the five known styles.
func (s CombatStyle) Valid() bool {
	switch s {
	case StyleAttack, StyleStrength, StyleDefense, StyleRange, StyleMagic:
		return true
	}
	return false
}

// SkillKey returns the skill that trains when fighting with this style.
func (s CombatStyle) SkillKey() string {
	return strings.ToLower(string(s))
}
