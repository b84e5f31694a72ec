// Package cmd implements the pilotbudget CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/pilotbudget/internal/config"
	"github.com/theirongolddev/pilotbudget/internal/logger"
	"github.com/theirongolddev/pilotbudget/internal/model"
	"github.com/theirongolddev/pilotbudget/internal/pipeline"
	"github.com/theirongolddev/pilotbudget/internal/store"
	"github.com/theirongolddev/pilotbudget/internal/tui/theme"

	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagQuiet     bool
	flagLogLevel  string
	flagNoHistory bool
)

// cfg is loaded once per invocation by the root pre-run hook.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "pilotbudget",
	Short: "Pilot budget calculator",
	Long:  "Compute, scale and check line item budgets for small pilot programs.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCompute,

	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default $XDG_CONFIG_HOME/pilotbudget/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagNoHistory, "no-history", false, "Do not record runs in the history database")
	addComputeFlags(rootCmd)
}

// initConfig loads the config and configures logging and the theme.
func initConfig(_ *cobra.Command, _ []string) error {
	envCfg, err := config.ParseEnv()
	if err != nil {
		logger.Init(flagLogLevel, flagQuiet)
		return err
	}

	path := flagConfig
	if path == "" {
		path = envCfg.ConfigPath
	}
	config.SetPath(path)

	cfg, err = config.Load()
	if err != nil {
		logger.Init(flagLogLevel, flagQuiet)
		return err
	}
	envCfg.Apply(&cfg)

	level := cfg.General.LogLevel
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	logger.Init(level, flagQuiet)
	theme.SetActive(cfg.Appearance.Theme)

	logger.L.Debug("config loaded", "path", config.Path(), "exists", config.Exists(), "plans", len(cfg.Plans))
	return nil
}

// loadPlans is the shared plan loading path used by all commands.
func loadPlans() (*pipeline.LoadResult, error) {
	result, err := pipeline.LoadPlans(cfg)
	if err != nil {
		return nil, err
	}
	if result.Discovered > 0 {
		logger.L.Info("loaded item files",
			"dir", cfg.General.PlansDir,
			"files", result.Discovered,
			"replaced", result.Replaced,
		)
	}
	return result, nil
}

// selectPlans returns the plans named by keys, or all plans when keys is empty.
func selectPlans(plans []model.Plan, keys []string) ([]model.Plan, error) {
	if len(keys) == 0 {
		return plans, nil
	}
	out := make([]model.Plan, 0, len(keys))
	for _, k := range keys {
		p, ok := pipeline.FindPlan(plans, k)
		if !ok {
			return nil, unknownPlan(plans, k)
		}
		out = append(out, p)
	}
	return out, nil
}

func unknownPlan(plans []model.Plan, key string) error {
	names := make([]string, len(plans))
	for i, p := range plans {
		names[i] = p.Key
	}
	return fmt.Errorf("unknown plan %q (available: %v)", key, names)
}

// logMismatches emits one warning per failed check.
func logMismatches(res model.PlanResult) {
	for _, m := range res.PerUnitReport.Mismatches {
		logger.L.Warn("expected figure mismatch",
			"plan", res.Plan.Key, "scope", "per-unit",
			"field", m.Field, "expected", m.Expected, "actual", m.Actual)
	}
	for _, m := range res.ScaledReport.Mismatches {
		logger.L.Warn("expected figure mismatch",
			"plan", res.Plan.Key, "scope", "scaled",
			"field", m.Field, "expected", m.Expected, "actual", m.Actual)
	}
	if c := res.ScaledReport.Ceiling; c != nil && c.Exceeded {
		logger.L.Warn("ceiling exceeded",
			"plan", res.Plan.Key, "ceiling", c.Ceiling, "total", c.Total)
	}
}

// recordRuns stores results in the history database. Failures are logged,
// not returned; history is a convenience.
func recordRuns(results []model.PlanResult) {
	if flagNoHistory || !cfg.General.RecordHistory || len(results) == 0 {
		return
	}

	h, err := store.Open(store.Path())
	if err != nil {
		logger.L.Warn("history unavailable", "err", err)
		return
	}
	defer h.Close()

	for _, res := range results {
		id, err := h.SaveRun(store.RunFromResult(res))
		if err != nil {
			logger.L.Warn("recording run failed", "plan", res.Plan.Key, "err", err)
			return
		}
		logger.L.Debug("run recorded", "plan", res.Plan.Key, "id", id)
	}

	if keep := cfg.General.HistoryKeep; keep > 0 {
		if n, err := h.Prune(keep); err != nil {
			logger.L.Warn("pruning history failed", "err", err)
		} else if n > 0 {
			logger.L.Debug("history pruned", "removed", n)
		}
	}
}
