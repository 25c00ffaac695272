// Package settings holds the named numeric knobs that tune the
// simulation. Values are cached after load and shared read-only across
// concurrent operations; Reload swaps the whole map under a write lock.
package settings

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

// Setting keys read by the engine.
const (
	KeyWinsRequiredPerFloor  = "wins_required_per_floor"
	KeyVoidStepPerFloor      = "void_step_per_floor"
	KeyVoidCapPercent        = "void_cap_percent"
	KeyPlayerAccPenDivisor   = "player_acc_pen_divisor"
	KeyPlayerDmgMinMult      = "player_dmg_min_multiplier"
	KeyPlayerDmgDivisor      = "player_dmg_divisor"
	KeyMobDmgDivisor         = "mob_dmg_divisor"
	KeyRewardXPPerFloorPct   = "reward_xp_per_floor_pct"
	KeyRewardGoldPerFloorPct = "reward_gold_per_floor_pct"
)

// defaults are used for any key missing from the loaded map.
var defaults = map[string]string{
	KeyWinsRequiredPerFloor:  "5",
	KeyVoidStepPerFloor:      "2",
	KeyVoidCapPercent:        "50",
	KeyPlayerAccPenDivisor:   "2",
	KeyPlayerDmgMinMult:      "0.25",
	KeyPlayerDmgDivisor:      "2",
	KeyMobDmgDivisor:         "3",
	KeyRewardXPPerFloorPct:   "15",
	KeyRewardGoldPerFloorPct: "12",
}

// Settings is a read-mostly key -> string value map with typed accessors.
type Settings struct {
	mu     sync.RWMutex
	values map[string]string
}

// New returns Settings holding only the built-in defaults.
func New() *Settings {
	return &Settings{values: map[string]string{}}
}

// FromMap returns Settings seeded from the given map. The map is copied.
func FromMap(values map[string]string) *Settings {
	s := New()
	s.Reload(values)
	return s
}

// LoadFile reads a yaml settings file of the form `settings: {key: value}`.
// Missing file is not an error; the defaults still apply.
func LoadFile(path string) (*Settings, error) {
	s := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("failed to read settings file: %w", err)
	}

	var doc struct {
		Settings map[string]string `yaml:"settings"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return s, fmt.Errorf("failed to parse settings yaml: %w", err)
	}

	s.Reload(doc.Settings)
	return s, nil
}

// Reload replaces every cached value. Intended for explicit admin
// actions only; readers between reloads always see a consistent map.
func (s *Settings) Reload(values map[string]string) {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}

	s.mu.Lock()
	s.values = copied
	s.mu.Unlock()
}

// Raw returns the string value for a key, falling back to the default.
func (s *Settings) Raw(key string) string {
	s.mu.RLock()
	v, ok := s.values[key]
	s.mu.RUnlock()
	if ok {
		return v
	}
	return defaults[key]
}

// Float returns the value parsed as float64, or the parsed default if
// the stored value is malformed.
func (s *Settings) Float(key string) float64 {
	if f, err := strconv.ParseFloat(s.Raw(key), 64); err == nil {
		return f
	}
	f, _ := strconv.ParseFloat(defaults[key], 64)
	return f
}

// Int returns the value parsed as int, or the parsed default if the
// stored value is malformed.
func (s *Settings) Int(key string) int {
	if n, err := strconv.Atoi(s.Raw(key)); err == nil {
		return n
	}
	n, _ := strconv.Atoi(defaults[key])
	return n
}

// Defaults returns a copy of the built-in default map, used to seed
// the settings store on first run.
func Defaults() map[string]string {
	out := make(map[string]string, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	return out
}
