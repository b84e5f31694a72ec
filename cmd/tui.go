package cmd

import (
	"fmt"

	"github.com/theirongolddev/pilotbudget/internal/logger"
	"github.com/theirongolddev/pilotbudget/internal/model"
	"github.com/theirongolddev/pilotbudget/internal/pipeline"
	"github.com/theirongolddev/pilotbudget/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [plan]",
	Short: "Browse plans in an interactive viewer",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, args []string) error {
	result, err := loadPlans()
	if err != nil {
		return err
	}

	results := make([]model.PlanResult, 0, len(result.Plans))
	for _, p := range result.Plans {
		res, err := pipeline.ComputePlan(p)
		if err != nil {
			logger.L.Error("skipping plan", "plan", p.Key, "err", err)
			continue
		}
		results = append(results, res)
	}

	initial := cfg.General.DefaultPlan
	if len(args) == 1 {
		initial = args[0]
	}

	// Force TrueColor so the theme renders even when lipgloss detects no color.
	lipgloss.SetColorProfile(termenv.TrueColor)

	p := tea.NewProgram(tui.NewApp(results, initial), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
