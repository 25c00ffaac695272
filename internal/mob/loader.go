package mob

import (
	"fmt"
	"math/rand"
	"os"
	"sort"

	"github.com/HuntleyOG/eldvar/internal/logger"
	"gopkg.in/yaml.v3"
)

// MobDefinition represents a mob definition from the YAML file
type MobDefinition struct {
	Name       string `yaml:"name"`
	Level      int    `yaml:"level"`
	HP         int    `yaml:"hp"`
	Attack     int    `yaml:"attack"`
	Defense    int    `yaml:"defense"`
	Magic      int    `yaml:"magic"`
	Range      int    `yaml:"range"`
	RewardXP   int    `yaml:"reward_xp"`
	RewardGold int    `yaml:"reward_gold"`
	MinFloor   int    `yaml:"min_floor"`
	MaxFloor   int    `yaml:"max_floor"`
}

// Catalog holds every loaded mob, keyed by its yaml id.
type Catalog struct {
	mobs map[string]Mob
}

// mobsConfig represents the structure of the mobs.yaml file
type mobsConfig struct {
	Mobs map[string]MobDefinition `yaml:"mobs"`
}

// LoadCatalog loads mob definitions from a YAML file.
func LoadCatalog(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read mobs file: %w", err)
	}

	var config mobsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse mobs YAML: %w", err)
	}

	catalog := &Catalog{mobs: make(map[string]Mob, len(config.Mobs))}
	for key, def := range config.Mobs {
		if def.MaxFloor < def.MinFloor {
			logger.Warning("Mob auto-correction applied",
				"mob_key", key,
				"issue", "max_floor below min_floor",
				"action", "set max_floor=min_floor")
			def.MaxFloor = def.MinFloor
		}
		if def.HP <= 0 {
			return nil, fmt.Errorf("mob %q has non-positive hp", key)
		}
		catalog.mobs[key] = Mob{
			Key:        key,
			Name:       def.Name,
			Level:      def.Level,
			HP:         def.HP,
			Attack:     def.Attack,
			Defense:    def.Defense,
			Magic:      def.Magic,
			Range:      def.Range,
			RewardXP:   def.RewardXP,
			RewardGold: def.RewardGold,
			MinFloor:   def.MinFloor,
			MaxFloor:   def.MaxFloor,
		}
	}

	return catalog, nil
}

// NewCatalog builds a catalog directly from mobs, used by tests and
// the balance simulator.
func NewCatalog(mobs []Mob) *Catalog {
	c := &Catalog{mobs: make(map[string]Mob, len(mobs))}
	for _, m := range mobs {
		c.mobs[m.Key] = m
	}
	return c
}

// Get returns the mob with the given key.
func (c *Catalog) Get(key string) (Mob, bool) {
	m, ok := c.mobs[key]
	return m, ok
}

// Len returns the number of mobs in the catalog.
func (c *Catalog) Len() int {
	return len(c.mobs)
}

// EligibleForFloor returns every mob whose floor window contains the
// given floor, in stable key order.
func (c *Catalog) EligibleForFloor(floor int) []Mob {
	keys := make([]string, 0, len(c.mobs))
	for key, m := range c.mobs {
		if m.EligibleFor(floor) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	eligible := make([]Mob, 0, len(keys))
	for _, key := range keys {
		eligible = append(eligible, c.mobs[key])
	}
	return eligible
}

// RandomForFloor picks a uniformly random eligible mob for the floor.
// Returns false if no mob's window contains the floor.
func (c *Catalog) RandomForFloor(floor int, rng *rand.Rand) (Mob, bool) {
	eligible := c.EligibleForFloor(floor)
	if len(eligible) == 0 {
		return Mob{}, false
	}
	return eligible[rng.Intn(len(eligible))], true
}
