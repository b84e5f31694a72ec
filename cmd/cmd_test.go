package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/pilotbudget/internal/config"
	"github.com/theirongolddev/pilotbudget/internal/model"
	"github.com/theirongolddev/pilotbudget/internal/pipeline"
	"github.com/theirongolddev/pilotbudget/internal/store"

	"github.com/spf13/cobra"
)

func useDefaults(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cfg = config.DefaultConfig()
	flagNoHistory = true
	resetComputeFlags()
	t.Cleanup(func() {
		flagNoHistory = false
		flagStrict = false
		flagConfig = ""
		resetComputeFlags()
		config.SetPath("")
	})
}

func TestSelectPlans(t *testing.T) {
	useDefaults(t)
	result, err := pipeline.LoadPlans(cfg)
	if err != nil {
		t.Fatalf("LoadPlans: %v", err)
	}

	all, err := selectPlans(result.Plans, nil)
	if err != nil || len(all) != 2 {
		t.Fatalf("all = %d plans, err %v", len(all), err)
	}

	one, err := selectPlans(result.Plans, []string{"byod"})
	if err != nil || len(one) != 1 || one[0].Key != "byod" {
		t.Fatalf("byod = %+v, err %v", one, err)
	}

	if _, err := selectPlans(result.Plans, []string{"nope"}); err == nil {
		t.Error("expected unknown plan error")
	}
}

func TestCheckPassesBuiltins(t *testing.T) {
	useDefaults(t)
	flagStrict = true
	if err := runCheck(nil, nil); err != nil {
		t.Fatalf("runCheck: %v", err)
	}
}

func TestCheckStrictFailsOnMismatch(t *testing.T) {
	useDefaults(t)
	for i := range cfg.Plans {
		if cfg.Plans[i].Key == "byod" {
			cfg.Plans[i].Units = 5
		}
	}

	if err := runCheck(nil, []string{"byod"}); err != nil {
		t.Fatalf("non-strict check returned %v", err)
	}

	flagStrict = true
	err := runCheck(nil, []string{"byod"})
	if !errors.Is(err, errChecksFailed) {
		t.Fatalf("strict check = %v, want errChecksFailed", err)
	}
}

func TestReadItemFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "kit.CSV")
	if err := os.WriteFile(csvPath, []byte("name,amount\nBooks,5000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	items, err := readItemFile(csvPath)
	if err != nil || len(items) != 1 || items[0].Amount != 5000 {
		t.Fatalf("csv items = %+v, err %v", items, err)
	}

	txtPath := filepath.Join(dir, "kit.txt")
	if err := os.WriteFile(txtPath, []byte("Books = 5,000\nShelves = 2,000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	items, err = readItemFile(txtPath)
	if err != nil || len(items) != 2 || items[1].Amount != 2000 {
		t.Fatalf("line items = %+v, err %v", items, err)
	}

	if _, err := readItemFile(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExchangeOrNil(t *testing.T) {
	if exchangeOrNil(0) != nil {
		t.Error("zero rate should disable conversion")
	}
	if r := exchangeOrNil(120); r == nil || *r != 120 {
		t.Errorf("exchangeOrNil(120) = %v", r)
	}
}

func TestRecordRunsStoresAndPrunes(t *testing.T) {
	useDefaults(t)
	flagNoHistory = false
	cfg.General.HistoryKeep = 3

	result, err := pipeline.LoadPlans(cfg)
	if err != nil {
		t.Fatalf("LoadPlans: %v", err)
	}
	results, err := pipeline.ComputePlans(result.Plans)
	if err != nil {
		t.Fatalf("ComputePlans: %v", err)
	}

	recordRuns(results)
	recordRuns(results)

	h, err := store.Open(store.Path())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer h.Close()

	n, err := h.RunCount()
	if err != nil {
		t.Fatalf("RunCount: %v", err)
	}
	if n != 3 {
		t.Errorf("RunCount = %d, want 3 after pruning", n)
	}
}

func TestRecordRunsRespectsConfig(t *testing.T) {
	useDefaults(t)
	flagNoHistory = false
	cfg.General.RecordHistory = false

	result, err := pipeline.LoadPlans(cfg)
	if err != nil {
		t.Fatalf("LoadPlans: %v", err)
	}
	results, err := pipeline.ComputePlans(result.Plans)
	if err != nil {
		t.Fatalf("ComputePlans: %v", err)
	}
	recordRuns(results)

	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Errorf("history db created with recording disabled: %v", err)
	}
}

func resetComputeFlags() {
	flagItems = ""
	flagRate = 0.10
	flagExchange = 0
	flagUnits = 1
	flagShares = false
}

// computeCommand returns a fresh command bound to the compute flags, with
// the given flags set as if typed on the command line.
func computeCommand(t *testing.T, set map[string]string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "compute"}
	addComputeFlags(c)
	for name, val := range set {
		if err := c.Flags().Set(name, val); err != nil {
			t.Fatalf("set --%s=%s: %v", name, val, err)
		}
	}
	return c
}

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }

func TestResolveComputePlanOverrides(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		flags map[string]string
		check func(t *testing.T, p model.Plan)
	}{
		{
			name: "default plan untouched",
			check: func(t *testing.T, p model.Plan) {
				if p.Key != "hubs" || p.Expected.IsZero() || p.ExpectedScaled.IsZero() {
					t.Errorf("plan = %+v", p)
				}
			},
		},
		{
			name:  "rate clears every check",
			args:  []string{"byod"},
			flags: map[string]string{"rate": "0.2"},
			check: func(t *testing.T, p model.Plan) {
				if p.ContingencyRate != 0.2 {
					t.Errorf("rate = %v", p.ContingencyRate)
				}
				if !p.Expected.IsZero() || !p.ExpectedScaled.IsZero() {
					t.Errorf("checks kept: %+v / %+v", p.Expected, p.ExpectedScaled)
				}
			},
		},
		{
			name:  "units clear scaled checks only",
			args:  []string{"byod"},
			flags: map[string]string{"units": "5"},
			check: func(t *testing.T, p model.Plan) {
				if p.Units != 5 {
					t.Errorf("units = %d", p.Units)
				}
				if p.Expected.IsZero() {
					t.Error("per-unit checks cleared")
				}
				if !p.ExpectedScaled.IsZero() {
					t.Errorf("scaled checks kept: %+v", p.ExpectedScaled)
				}
			},
		},
		{
			name:  "exchange clears converted ranges",
			args:  []string{"custom"},
			flags: map[string]string{"exchange": "110"},
			check: func(t *testing.T, p model.Plan) {
				if p.ExchangeRate == nil || *p.ExchangeRate != 110 || p.ForeignCurrency != "USD" {
					t.Errorf("exchange = %v %q", p.ExchangeRate, p.ForeignCurrency)
				}
				if p.Expected.ConvertedMin != nil || p.Expected.ConvertedMax != nil {
					t.Errorf("per-unit converted range kept: %+v", p.Expected)
				}
				if p.ExpectedScaled.ConvertedMin != nil || p.ExpectedScaled.ConvertedMax != nil {
					t.Errorf("scaled converted range kept: %+v", p.ExpectedScaled)
				}
				if p.Expected.Total == nil || *p.Expected.Total != 1100 {
					t.Errorf("total check lost: %+v", p.Expected)
				}
			},
		},
		{
			name:  "zero exchange disables conversion",
			args:  []string{"hubs"},
			flags: map[string]string{"exchange": "0"},
			check: func(t *testing.T, p model.Plan) {
				if p.ExchangeRate != nil {
					t.Errorf("exchange = %v, want nil", *p.ExchangeRate)
				}
				if p.ExpectedScaled.ConvertedMin != nil || p.ExpectedScaled.Total == nil {
					t.Errorf("scaled checks = %+v", p.ExpectedScaled)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useDefaults(t)
			cfg.Plans = append(cfg.Plans, config.PlanConfig{
				Key:             "custom",
				ContingencyRate: 0.10,
				Items:           []config.ItemConfig{{Name: "a", Amount: 1000}},
				Expected: model.Expected{
					Total:        i64(1100),
					ConvertedMin: f64(9),
					ConvertedMax: f64(10),
				},
			})

			p, err := resolveComputePlan(computeCommand(t, tt.flags), tt.args)
			if err != nil {
				t.Fatalf("resolveComputePlan: %v", err)
			}
			tt.check(t, p)

			if _, err := pipeline.ComputePlan(p); err != nil {
				t.Errorf("ComputePlan: %v", err)
			}
		})
	}
}

func TestResolveComputePlanExchangeNoFalseMismatch(t *testing.T) {
	useDefaults(t)
	cfg.Plans = append(cfg.Plans, config.PlanConfig{
		Key:             "custom",
		ContingencyRate: 0.10,
		ExchangeRate:    f64(100),
		Items:           []config.ItemConfig{{Name: "a", Amount: 1000}},
		Expected:        model.Expected{ConvertedMin: f64(10), ConvertedMax: f64(12)},
	})

	p, err := resolveComputePlan(computeCommand(t, map[string]string{"exchange": "50"}), []string{"custom"})
	if err != nil {
		t.Fatalf("resolveComputePlan: %v", err)
	}
	res, err := pipeline.ComputePlan(p)
	if err != nil {
		t.Fatalf("ComputePlan: %v", err)
	}
	if !res.OK() {
		t.Errorf("override reported mismatches: %+v", res.PerUnitReport.Mismatches)
	}
}

func TestResolveComputePlanErrors(t *testing.T) {
	useDefaults(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "kit.txt")
	if err := os.WriteFile(path, []byte("Books = 5000\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := resolveComputePlan(computeCommand(t, map[string]string{"items": path}), []string{"hubs"})
	if err == nil || !strings.Contains(err.Error(), "cannot be combined") {
		t.Errorf("items with plan: err = %v", err)
	}

	resetComputeFlags()
	if _, err := resolveComputePlan(computeCommand(t, nil), []string{"nope"}); err == nil {
		t.Error("unknown plan accepted")
	}
}

func TestAdHocPlan(t *testing.T) {
	useDefaults(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "library.txt")
	if err := os.WriteFile(path, []byte("Books = 5,000\nShelves = 2,000\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := computeCommand(t, map[string]string{"items": path, "rate": "0.1", "units": "2", "exchange": "100"})
	p, err := resolveComputePlan(c, nil)
	if err != nil {
		t.Fatalf("resolveComputePlan: %v", err)
	}
	if p.Key != "library" || p.Source != path || p.Units != 2 {
		t.Errorf("plan = %+v", p)
	}
	if p.ExchangeRate == nil || *p.ExchangeRate != 100 {
		t.Errorf("exchange = %v", p.ExchangeRate)
	}

	res, err := pipeline.ComputePlan(p)
	if err != nil {
		t.Fatalf("ComputePlan: %v", err)
	}
	// 14,000 scaled subtotal + 1,400 contingency
	if res.Scaled.Total != 15_400 {
		t.Errorf("scaled total = %d, want 15400", res.Scaled.Total)
	}

	resetComputeFlags()
	c = computeCommand(t, map[string]string{"items": path})
	p, err = resolveComputePlan(c, nil)
	if err != nil {
		t.Fatalf("resolveComputePlan: %v", err)
	}
	if p.ExchangeRate != nil || p.ContingencyRate != 0.10 || p.Units != 1 {
		t.Errorf("defaults = %v %v %d", p.ExchangeRate, p.ContingencyRate, p.Units)
	}
}

func TestSavePlanIgnoresEnvOverrides(t *testing.T) {
	useDefaults(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	flagConfig = path
	t.Setenv("PILOTBUDGET_PLANS_DIR", "/tmp/one-off-plans")
	t.Setenv("PILOTBUDGET_LOG_LEVEL", "debug")

	if err := initConfig(nil, nil); err != nil {
		t.Fatalf("initConfig: %v", err)
	}
	if cfg.General.PlansDir != "/tmp/one-off-plans" {
		t.Fatalf("env override not applied: %q", cfg.General.PlansDir)
	}

	plan := config.PlanConfig{
		Key:             "library",
		ContingencyRate: 0.10,
		Units:           1,
		Items:           []config.ItemConfig{{Name: "Books", Amount: 5000}},
	}
	if err := savePlan(plan, "tokyo-night"); err != nil {
		t.Fatalf("savePlan: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, leaked := range []string{"/tmp/one-off-plans", "debug"} {
		if strings.Contains(string(data), leaked) {
			t.Errorf("saved config contains env value %q:\n%s", leaked, data)
		}
	}

	t.Setenv("PILOTBUDGET_PLANS_DIR", "")
	t.Setenv("PILOTBUDGET_LOG_LEVEL", "")
	saved, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := saved.FindPlan("library"); !ok {
		t.Error("saved config lacks the new plan")
	}
	if saved.Appearance.Theme != "tokyo-night" || saved.General.LogLevel != "info" {
		t.Errorf("saved general/appearance = %+v %+v", saved.General, saved.Appearance)
	}
}
