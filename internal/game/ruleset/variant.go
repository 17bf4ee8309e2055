// Package ruleset loads character variant definitions from YAML content files.
package ruleset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/duel/internal/game/battle"
)

// Re-enqueue pattern names accepted in variant files.
const (
	PatternSelfTwice     = "self_twice"
	PatternEnemyThenSelf = "enemy_then_self"
)

var patterns = map[string]battle.Reenqueue{
	PatternSelfTwice:     battle.ReenqueueSelfTwice,
	PatternEnemyThenSelf: battle.ReenqueueEnemyThenSelf,
}

// VariantDef is the on-disk form of a character variant.
//
// Precondition: Code, Label and Reenqueue must be non-empty after loading.
type VariantDef struct {
	Code          string `yaml:"code"`
	Label         string `yaml:"label"`
	Sprite        string `yaml:"sprite"`
	Defense       int    `yaml:"defense"`
	AttackCost    int    `yaml:"attack_cost"`
	SpecialCost   int    `yaml:"special_cost"`
	AttackDamage  int    `yaml:"attack_damage"`
	SpecialDamage int    `yaml:"special_damage"`
	Reenqueue     string `yaml:"reenqueue"`
}

// Variant converts the definition into a validated battle.Variant.
// An empty Sprite defaults to the lowercased Label.
//
// Postcondition: Returns a valid Variant or an error naming the problem.
func (d VariantDef) Variant() (*battle.Variant, error) {
	fn, ok := patterns[d.Reenqueue]
	if !ok {
		return nil, fmt.Errorf("variant %q: unknown reenqueue pattern %q", d.Code, d.Reenqueue)
	}
	sprite := d.Sprite
	if sprite == "" {
		sprite = strings.ToLower(d.Label)
	}
	v := &battle.Variant{
		Code:          d.Code,
		Label:         d.Label,
		Sprite:        sprite,
		Defense:       d.Defense,
		AttackCost:    d.AttackCost,
		SpecialCost:   d.SpecialCost,
		AttackDamage:  d.AttackDamage,
		SpecialDamage: d.SpecialDamage,
		Reenqueue:     fn,
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// LoadVariants reads all .yaml/.yml files in dir, one variant per file.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed variants in file-name order or a non-nil error.
func LoadVariants(dir string) ([]*battle.Variant, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	variants := make([]*battle.Variant, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var d VariantDef
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("parsing variant file %s: %w", path, err)
		}
		v, err := d.Variant()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		variants = append(variants, v)
	}
	return variants, nil
}

// RegisterVariants loads the variants in dir into reg.
//
// Postcondition: Returns the number registered, or an error on load failure
// or code collision. Variants before a failing one remain registered.
func RegisterVariants(reg *battle.Registry, dir string) (int, error) {
	variants, err := LoadVariants(dir)
	if err != nil {
		return 0, err
	}
	for i, v := range variants {
		if err := reg.Register(v); err != nil {
			return i, err
		}
	}
	return len(variants), nil
}

// yamlFiles returns the YAML file paths directly inside dir, sorted by name.
func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}
