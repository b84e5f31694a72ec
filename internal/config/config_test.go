package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func useTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	SetPath("")
	t.Cleanup(func() { SetPath("") })
	return filepath.Join(dir, "pilotbudget", "config.toml")
}

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	path := useTempConfig(t)
	if Path() != path {
		t.Fatalf("Path() = %q, want %q", Path(), path)
	}
	if Exists() {
		t.Fatal("Exists() = true before any config was written")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.General.DefaultPlan != "hubs" || !cfg.General.RecordHistory {
		t.Errorf("General = %+v, want defaults", cfg.General)
	}
	if len(cfg.Plans) != 2 {
		t.Errorf("len(Plans) = %d, want 2 built-ins", len(cfg.Plans))
	}
}

func TestLoad_OverridesAndAddsPlans(t *testing.T) {
	path := useTempConfig(t)
	writeConfig(t, path, `
[general]
default_plan = "library"
record_history = false

[[plans]]
key = "byod"
title = "BYOD, 6 months"
contingency_rate = 0.15
items = [
  { name = "Data packs", amount = 50000 },
  { name = "CPD", amount = 18000 },
]

[[plans]]
key = "library"
contingency_rate = 0.05
exchange_rate = 110.0
units = 3
ceiling = 100000
items = [{ name = "Books", amount = 20000 }]

[plans.expected]
total = 21000
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.General.DefaultPlan != "library" {
		t.Errorf("DefaultPlan = %q, want library", cfg.General.DefaultPlan)
	}
	if cfg.General.RecordHistory {
		t.Error("RecordHistory = true, want false from file")
	}
	if cfg.General.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default info", cfg.General.LogLevel)
	}
	if len(cfg.Plans) != 3 {
		t.Fatalf("len(Plans) = %d, want 3", len(cfg.Plans))
	}

	byod, ok := cfg.FindPlan("byod")
	if !ok || byod.ContingencyRate != 0.15 || len(byod.Items) != 2 {
		t.Errorf("byod = %+v", byod)
	}
	if byod.Items[0].Name != "Data packs" {
		t.Errorf("item order not kept: %+v", byod.Items)
	}

	lib, _ := cfg.FindPlan("library")
	m := lib.Model()
	if m.Units != 3 || *m.Ceiling != 100_000 || *m.ExchangeRate != 110 {
		t.Errorf("library model = %+v", m)
	}
	if m.Currency != DefaultCurrency || m.Title != "library" {
		t.Errorf("defaults not filled: currency=%q title=%q", m.Currency, m.Title)
	}
	if m.Expected.Total == nil || *m.Expected.Total != 21_000 {
		t.Errorf("Expected.Total = %v, want 21000", m.Expected.Total)
	}
}

func TestLoad_RejectsInvalidPlan(t *testing.T) {
	path := useTempConfig(t)
	writeConfig(t, path, `
[[plans]]
key = "x"
units = -2
items = [{ name = "a", amount = 1 }]
`)
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "units") {
		t.Fatalf("err = %v, want units error", err)
	}
}

func TestLoad_ParseError(t *testing.T) {
	path := useTempConfig(t)
	writeConfig(t, path, "[general\n")
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveThenLoad(t *testing.T) {
	useTempConfig(t)

	cfg := DefaultConfig()
	cfg.Appearance.Theme = "tokyo-night"
	cfg.Plans = MergePlans(cfg.Plans, []PlanConfig{{
		Key:             "extra",
		ContingencyRate: 0.2,
		Items:           []ItemConfig{{Name: "x", Amount: 10}},
	}})
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Appearance.Theme != "tokyo-night" {
		t.Errorf("Theme = %q", got.Appearance.Theme)
	}
	if _, ok := got.FindPlan("extra"); !ok {
		t.Error("saved plan missing after reload")
	}
	hubs, _ := got.FindPlan("hubs")
	if hubs.ExpectedScaled.Total == nil || *hubs.ExpectedScaled.Total != 15_719_000 {
		t.Errorf("hubs expected_scaled lost: %+v", hubs.ExpectedScaled)
	}
}

func TestSetPath(t *testing.T) {
	p := filepath.Join(t.TempDir(), "custom.toml")
	SetPath(p)
	t.Cleanup(func() { SetPath("") })
	if Path() != p {
		t.Errorf("Path() = %q, want %q", Path(), p)
	}
}

func TestMergePlans_KeepsBaseOrder(t *testing.T) {
	base := []PlanConfig{{Key: "a"}, {Key: "b"}}
	got := MergePlans(base, []PlanConfig{{Key: "c"}, {Key: "a", Title: "new"}})
	keys := make([]string, len(got))
	for i, p := range got {
		keys[i] = p.Key
	}
	if strings.Join(keys, ",") != "a,b,c" {
		t.Errorf("keys = %v, want a,b,c", keys)
	}
	if got[0].Title != "new" {
		t.Errorf("a not replaced: %+v", got[0])
	}
	if base[0].Title != "" {
		t.Error("base mutated")
	}
}
