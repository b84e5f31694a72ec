package cmd

import (
	"fmt"

	"github.com/theirongolddev/pilotbudget/internal/cli"
	"github.com/theirongolddev/pilotbudget/internal/pipeline"

	"github.com/spf13/cobra"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List configured plans with their totals",
	RunE:  runPlans,
}

func init() {
	rootCmd.AddCommand(plansCmd)
}

func runPlans(_ *cobra.Command, _ []string) error {
	result, err := loadPlans()
	if err != nil {
		return err
	}
	if len(result.Plans) == 0 {
		fmt.Println("\n  No plans configured. Run `pilotbudget setup` to add one.")
		return nil
	}

	rows := make([][]string, 0, len(result.Plans))
	for _, p := range result.Plans {
		key := p.Key
		if key == cfg.General.DefaultPlan {
			key += " *"
		}

		res, err := pipeline.ComputePlan(p)
		if err != nil {
			rows = append(rows, []string{key, p.Title, "-", cli.FormatRate(p.ContingencyRate), "invalid", "-", "-"})
			continue
		}

		converted := "-"
		if res.Scaled.HasEstimate() {
			converted = cli.FormatEstimate(*res.Scaled.ConvertedEstimate, foreignOrUSD(p))
		}
		status := "ok"
		if !res.OK() {
			status = fmt.Sprintf("%d failed", res.MismatchCount())
		}
		rows = append(rows, []string{
			key,
			p.Title,
			cli.FormatNumber(p.Units),
			cli.FormatRate(p.ContingencyRate),
			cli.FormatAmount(res.Scaled.Total, p.Currency),
			converted,
			status,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Plans",
		Headers: []string{"Key", "Title", "Units", "Contingency", "Total", "Converted", "Checks"},
		Rows:    rows,
	}))
	fmt.Println("  * default plan")
	return nil
}
