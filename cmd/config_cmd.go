package cmd

import (
	"fmt"

	"github.com/theirongolddev/pilotbudget/internal/cli"
	"github.com/theirongolddev/pilotbudget/internal/config"
	"github.com/theirongolddev/pilotbudget/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default plan:   %s\n", cfg.General.DefaultPlan)
	if cfg.General.PlansDir != "" {
		fmt.Printf("    Plans dir:      %s\n", cfg.General.PlansDir)
	} else {
		fmt.Println("    Plans dir:      not set")
	}
	fmt.Printf("    Log level:      %s\n", cfg.General.LogLevel)
	fmt.Printf("    Record history: %v (keep %d)\n", cfg.General.RecordHistory, cfg.General.HistoryKeep)
	fmt.Printf("    History db:     %s\n", store.Path())
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Plans]")
	for _, p := range cfg.Plans {
		units := p.Units
		if units == 0 {
			units = 1
		}
		fmt.Printf("    %-10s %d item(s), %s contingency, %d unit(s)\n",
			p.Key, len(p.Items), cli.FormatRate(p.ContingencyRate), units)
	}
	fmt.Println()

	fmt.Println("  Run `pilotbudget setup` to add or edit a plan.")
	return nil
}
