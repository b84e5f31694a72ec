package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/pilotbudget/internal/cli"
	"github.com/theirongolddev/pilotbudget/internal/config"
	"github.com/theirongolddev/pilotbudget/internal/model"
	"github.com/theirongolddev/pilotbudget/internal/pipeline"
	"github.com/theirongolddev/pilotbudget/internal/source"

	"github.com/spf13/cobra"
)

var (
	flagItems    string
	flagRate     float64
	flagExchange float64
	flagUnits    int64
	flagShares   bool
)

var computeCmd = &cobra.Command{
	Use:   "compute [plan]",
	Short: "Compute and show a plan budget",
	Long: `Compute a plan's subtotal, contingency, total and converted estimate.

Without arguments the default plan is shown. With --items an ad-hoc budget is
computed from a CSV or "name = amount" file instead of a configured plan.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompute,
}

func init() {
	addComputeFlags(computeCmd)
	rootCmd.AddCommand(computeCmd)
}

// addComputeFlags is shared with the root command, which computes by default.
func addComputeFlags(c *cobra.Command) {
	c.Flags().StringVarP(&flagItems, "items", "i", "", "Compute an ad-hoc budget from this item file")
	c.Flags().Float64VarP(&flagRate, "rate", "r", 0.10, "Contingency rate for --items, or override for the plan")
	c.Flags().Float64VarP(&flagExchange, "exchange", "x", 0, "Exchange rate (local per foreign unit); 0 skips conversion")
	c.Flags().Int64VarP(&flagUnits, "units", "u", 1, "Number of units for --items, or override for the plan")
	c.Flags().BoolVarP(&flagShares, "shares", "s", false, "Also show each item's share of the subtotal")
}

func runCompute(cmd *cobra.Command, args []string) error {
	plan, err := resolveComputePlan(cmd, args)
	if err != nil {
		return err
	}

	res, err := pipeline.ComputePlan(plan)
	if err != nil {
		return err
	}
	logMismatches(res)

	fmt.Println()
	fmt.Println(cli.RenderTitle(strings.ToUpper(res.Plan.Key) + "  " + res.Plan.Title))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.BudgetTable(res)))
	if flagShares {
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.ShareTable(res)))
	}
	if res.Scaled.HasEstimate() {
		fmt.Printf("  %s\n", cli.FormatExchange(*res.Scaled.ExchangeRate, res.Plan.Currency, foreignOrUSD(res.Plan)))
	}
	fmt.Println()
	fmt.Print(cli.RenderReport(res))
	fmt.Println()

	recordRuns([]model.PlanResult{res})
	return nil
}

// resolveComputePlan picks the plan to compute and applies flag overrides.
func resolveComputePlan(cmd *cobra.Command, args []string) (model.Plan, error) {
	flags := cmd.Flags()

	if flagItems != "" {
		if len(args) > 0 {
			return model.Plan{}, fmt.Errorf("--items cannot be combined with plan %q", args[0])
		}
		return adHocPlan(flags.Changed("exchange"))
	}

	result, err := loadPlans()
	if err != nil {
		return model.Plan{}, err
	}

	key := cfg.General.DefaultPlan
	if len(args) > 0 {
		key = args[0]
	}
	plan, ok := pipeline.FindPlan(result.Plans, key)
	if !ok {
		return model.Plan{}, unknownPlan(result.Plans, key)
	}

	// Overrides change the figures, so the stored checks no longer apply.
	if flags.Changed("rate") {
		plan.ContingencyRate = flagRate
		plan.Expected, plan.ExpectedScaled = model.Expected{}, model.Expected{}
	}
	if flags.Changed("units") {
		plan.Units = flagUnits
		plan.ExpectedScaled = model.Expected{}
	}
	if flags.Changed("exchange") {
		plan.ExchangeRate = exchangeOrNil(flagExchange)
		plan.Expected.ConvertedMin, plan.Expected.ConvertedMax = nil, nil
		plan.ExpectedScaled.ConvertedMin, plan.ExpectedScaled.ConvertedMax = nil, nil
		if plan.ExchangeRate != nil && plan.ForeignCurrency == "" {
			plan.ForeignCurrency = "USD"
		}
	}
	return plan, nil
}

func adHocPlan(withExchange bool) (model.Plan, error) {
	items, err := readItemFile(flagItems)
	if err != nil {
		return model.Plan{}, err
	}

	key := strings.TrimSuffix(filepath.Base(flagItems), filepath.Ext(flagItems))
	plan := model.Plan{
		Key:             key,
		Title:           "Ad-hoc budget (" + filepath.Base(flagItems) + ")",
		Currency:        config.DefaultCurrency,
		ContingencyRate: flagRate,
		Units:           flagUnits,
		Items:           items,
		Source:          flagItems,
	}
	if withExchange {
		plan.ExchangeRate = exchangeOrNil(flagExchange)
		plan.ForeignCurrency = "USD"
	}
	return plan, nil
}

// readItemFile parses a .csv file as CSV and anything else as "name = amount" lines.
func readItemFile(path string) (model.LineItemSet, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return source.ParseCSVFile(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	items, err := source.ParseLines(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

func exchangeOrNil(rate float64) *float64 {
	if rate == 0 {
		return nil
	}
	return &rate
}

func foreignOrUSD(p model.Plan) string {
	if p.ForeignCurrency == "" {
		return "USD"
	}
	return p.ForeignCurrency
}
