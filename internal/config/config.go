// Package config loads and saves the pilotbudget TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all pilotbudget configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Plans      []PlanConfig     `toml:"plans,omitempty"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DefaultPlan   string `toml:"default_plan"`
	PlansDir      string `toml:"plans_dir,omitempty"`
	LogLevel      string `toml:"log_level"`
	RecordHistory bool   `toml:"record_history"`
	HistoryKeep   int    `toml:"history_keep,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration with the built-in plans.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultPlan:   "hubs",
			LogLevel:      "info",
			RecordHistory: true,
			HistoryKeep:   200,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Plans: BuiltinPlans(),
	}
}

var pathOverride string

// SetPath makes Path return p instead of the XDG location. An empty p restores the default.
func SetPath(p string) {
	pathOverride = p
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pilotbudget")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "pilotbudget")
}

// Path returns the full path to the config file.
func Path() string {
	if pathOverride != "" {
		return pathOverride
	}
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Plans in the file replace built-in plans with the same key.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	var file Config
	md, err := toml.Decode(string(data), &file)
	if err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	merged := mergeConfig(cfg, file, md)
	for _, p := range merged.Plans {
		if err := p.Validate(); err != nil {
			return cfg, fmt.Errorf("config %s: %w", Path(), err)
		}
	}
	return merged, nil
}

// mergeConfig overlays the values present in the file onto the defaults.
func mergeConfig(base, file Config, md toml.MetaData) Config {
	if file.General.DefaultPlan != "" {
		base.General.DefaultPlan = file.General.DefaultPlan
	}
	if file.General.PlansDir != "" {
		base.General.PlansDir = file.General.PlansDir
	}
	if file.General.LogLevel != "" {
		base.General.LogLevel = file.General.LogLevel
	}
	if md.IsDefined("general", "record_history") {
		base.General.RecordHistory = file.General.RecordHistory
	}
	if file.General.HistoryKeep > 0 {
		base.General.HistoryKeep = file.General.HistoryKeep
	}
	if file.Appearance.Theme != "" {
		base.Appearance.Theme = file.Appearance.Theme
	}
	base.Plans = MergePlans(base.Plans, file.Plans)
	return base
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := filepath.Dir(Path())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// FindPlan returns the plan with the given key.
func (c Config) FindPlan(key string) (PlanConfig, bool) {
	for _, p := range c.Plans {
		if p.Key == key {
			return p, true
		}
	}
	return PlanConfig{}, false
}
