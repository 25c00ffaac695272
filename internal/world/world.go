// Package world defines travel destinations. Areas carry no combat
// semantics; they are identity only.
package world

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Area is a travel destination.
type Area struct {
	Slug string
	Name string
}

// Atlas holds every loaded area, keyed by slug.
type Atlas struct {
	areas map[string]Area
}

// areaDefinition represents one area in the YAML file
type areaDefinition struct {
	Name string `yaml:"name"`
}

// areasConfig represents the structure of the areas.yaml file
type areasConfig struct {
	Areas map[string]areaDefinition `yaml:"areas"`
}

// LoadAtlas loads area definitions from a YAML file.
func LoadAtlas(filename string) (*Atlas, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read areas file: %w", err)
	}

	var config areasConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse areas YAML: %w", err)
	}

	atlas := &Atlas{areas: make(map[string]Area, len(config.Areas))}
	for slug, def := range config.Areas {
		if def.Name == "" {
			return nil, fmt.Errorf("area %q has no name", slug)
		}
		atlas.areas[slug] = Area{Slug: slug, Name: def.Name}
	}

	return atlas, nil
}

// NewAtlas builds an atlas directly from areas, used by tests.
func NewAtlas(areas []Area) *Atlas {
	a := &Atlas{areas: make(map[string]Area, len(areas))}
	for _, area := range areas {
		a.areas[area.Slug] = area
	}
	return a
}

// Get returns the area with the given slug.
func (a *Atlas) Get(slug string) (Area, bool) {
	area, ok := a.areas[slug]
	return area, ok
}

// Slugs returns every known slug in sorted order.
func (a *Atlas) Slugs() []string {
	slugs := make([]string, 0, len(a.areas))
	for slug := range a.areas {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}
