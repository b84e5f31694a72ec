package config

import "testing"

func TestParseEnvApply(t *testing.T) {
	t.Setenv("PILOTBUDGET_CONFIG", "/tmp/pb.toml")
	t.Setenv("PILOTBUDGET_DEFAULT_PLAN", "byod")
	t.Setenv("PILOTBUDGET_PLANS_DIR", "/srv/plans")
	t.Setenv("PILOTBUDGET_RECORD_HISTORY", "false")

	e, err := ParseEnv()
	if err != nil {
		t.Fatalf("ParseEnv: %v", err)
	}
	if e.ConfigPath != "/tmp/pb.toml" {
		t.Errorf("ConfigPath = %q", e.ConfigPath)
	}

	cfg := DefaultConfig()
	e.Apply(&cfg)
	if cfg.General.DefaultPlan != "byod" {
		t.Errorf("DefaultPlan = %q", cfg.General.DefaultPlan)
	}
	if cfg.General.PlansDir != "/srv/plans" {
		t.Errorf("PlansDir = %q", cfg.General.PlansDir)
	}
	if cfg.General.RecordHistory {
		t.Error("RecordHistory should be disabled")
	}
	if cfg.General.LogLevel != "info" || cfg.Appearance.Theme != "flexoki-dark" {
		t.Errorf("unset overrides changed defaults: %+v", cfg)
	}
}

func TestParseEnvRejectsBadBool(t *testing.T) {
	t.Setenv("PILOTBUDGET_RECORD_HISTORY", "sometimes")
	if _, err := ParseEnv(); err == nil {
		t.Error("expected parse error")
	}
}
