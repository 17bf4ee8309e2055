// Package config provides Viper-based configuration loading for the duel runner.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Playstyle kinds accepted in player configuration.
var validPlaystyles = map[string]bool{"manual": true, "random": true, "script": true}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is a zap output path such as "stderr" or a file path.
	Output string `mapstructure:"output"`
}

// MatchConfig holds settings for a single duel.
type MatchConfig struct {
	// MaxTurns bounds the number of selections before the match is aborted.
	MaxTurns int `mapstructure:"max_turns"`
	// Seed makes random playstyles deterministic; 0 uses crypto randomness.
	Seed int64 `mapstructure:"seed"`
	// VariantsDir optionally names a directory of extra variant YAML files.
	VariantsDir string `mapstructure:"variants_dir"`
	// ScriptInstructionLimit bounds each Lua playstyle call; 0 uses the default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// PlayerConfig describes one combatant.
type PlayerConfig struct {
	Name string `mapstructure:"name"`
	// Variant is a registry code, e.g. "r" or "m".
	Variant string `mapstructure:"variant"`
	// Playstyle is "manual", "random" or "script".
	Playstyle string `mapstructure:"playstyle"`
	// Script is the Lua file for the "script" playstyle.
	Script string `mapstructure:"script"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig  `mapstructure:"logging"`
	Match   MatchConfig    `mapstructure:"match"`
	Players []PlayerConfig `mapstructure:"players"`
}

// Validate checks all configuration invariants. Variant codes are checked
// against the registry at match setup, since variants may be loaded from disk.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateMatch(c.Match); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validatePlayers(c.Players); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.Output == "" {
		return errors.New("logging.output must not be empty")
	}
	return nil
}

func validateMatch(m MatchConfig) error {
	var errs []string
	if m.MaxTurns < 1 {
		errs = append(errs, fmt.Sprintf("match.max_turns must be >= 1, got %d", m.MaxTurns))
	}
	if m.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("match.script_instruction_limit must be >= 0, got %d", m.ScriptInstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validatePlayers(players []PlayerConfig) error {
	if len(players) != 2 {
		return fmt.Errorf("players must list exactly 2 entries, got %d", len(players))
	}
	var errs []string
	for i, p := range players {
		if p.Name == "" {
			errs = append(errs, fmt.Sprintf("players[%d].name must not be empty", i))
		}
		if p.Variant == "" {
			errs = append(errs, fmt.Sprintf("players[%d].variant must not be empty", i))
		}
		if !validPlaystyles[p.Playstyle] {
			errs = append(errs, fmt.Sprintf("players[%d].playstyle must be one of [manual, random, script], got %q", i, p.Playstyle))
		}
		if p.Playstyle == "script" && p.Script == "" {
			errs = append(errs, fmt.Sprintf("players[%d].script is required for the script playstyle", i))
		}
	}
	if players[0].Name != "" && players[0].Name == players[1].Name {
		errs = append(errs, fmt.Sprintf("players must have distinct names, both are %q", players[0].Name))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with DUEL_ prefix
	v.SetEnvPrefix("DUEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("match.max_turns", 1000)
	v.SetDefault("match.seed", 0)
	v.SetDefault("match.variants_dir", "")
	v.SetDefault("match.script_instruction_limit", 0)

	v.SetDefault("players", []map[string]any{
		{"name": "P1", "variant": "r", "playstyle": "manual"},
		{"name": "P2", "variant": "m", "playstyle": "random"},
	})
}
