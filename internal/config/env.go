package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvOverrides are settings taken from the environment. They win over the
// config file and lose to command line flags.
type EnvOverrides struct {
	ConfigPath    string `env:"PILOTBUDGET_CONFIG"`
	DefaultPlan   string `env:"PILOTBUDGET_DEFAULT_PLAN"`
	PlansDir      string `env:"PILOTBUDGET_PLANS_DIR"`
	LogLevel      string `env:"PILOTBUDGET_LOG_LEVEL"`
	Theme         string `env:"PILOTBUDGET_THEME"`
	RecordHistory *bool  `env:"PILOTBUDGET_RECORD_HISTORY"`
}

// ParseEnv reads the PILOTBUDGET_* variables.
func ParseEnv() (EnvOverrides, error) {
	var e EnvOverrides
	if err := env.Parse(&e); err != nil {
		return e, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// Apply copies the set overrides onto cfg.
func (e EnvOverrides) Apply(cfg *Config) {
	if e.DefaultPlan != "" {
		cfg.General.DefaultPlan = e.DefaultPlan
	}
	if e.PlansDir != "" {
		cfg.General.PlansDir = e.PlansDir
	}
	if e.LogLevel != "" {
		cfg.General.LogLevel = e.LogLevel
	}
	if e.Theme != "" {
		cfg.Appearance.Theme = e.Theme
	}
	if e.RecordHistory != nil {
		cfg.General.RecordHistory = *e.RecordHistory
	}
}
