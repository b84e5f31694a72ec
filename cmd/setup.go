package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/pilotbudget/internal/config"
	"github.com/theirongolddev/pilotbudget/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup [plan]",
	Short: "Create or edit a plan interactively",
	Long: `Open a form to create a plan, or edit the named one, and save it to the
config file. Editing a plan clears its expected figures.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, args []string) error {
	existing := config.PlanConfig{ContingencyRate: 0.10, Units: 1}
	if len(args) == 1 {
		p, ok := cfg.FindPlan(args[0])
		if !ok {
			existing.Key = args[0]
		} else {
			existing = p
		}
	}

	vals := tui.FormValuesFrom(existing, cfg.Appearance.Theme)
	if err := tui.NewPlanForm(&vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}

	plan, err := vals.ToPlanConfig()
	if err != nil {
		return err
	}

	if err := savePlan(plan, vals.Theme); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  Saved plan %q to %s\n", plan.Key, config.Path())
	fmt.Printf("  Run `pilotbudget compute %s` to see it.\n", plan.Key)
	fmt.Println()
	return nil
}

// savePlan merges plan and theme into the config as stored on disk. The
// in-memory cfg is not saved because it carries PILOTBUDGET_* overrides.
func savePlan(plan config.PlanConfig, themeName string) error {
	fileCfg, err := config.Load()
	if err != nil {
		return err
	}
	fileCfg.Plans = config.MergePlans(fileCfg.Plans, []config.PlanConfig{plan})
	fileCfg.Appearance.Theme = themeName
	if err := config.Save(fileCfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}
