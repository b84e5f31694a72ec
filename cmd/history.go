package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/pilotbudget/internal/cli"
	"github.com/theirongolddev/pilotbudget/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagHistoryLimit int
	flagHistoryPlan  string
	flagPrune        int
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recorded runs, or show one run's items",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "l", 20, "Number of runs to list")
	historyCmd.Flags().StringVarP(&flagHistoryPlan, "plan", "p", "", "Only list runs of this plan")
	historyCmd.Flags().IntVar(&flagPrune, "prune", 0, "Delete all but the newest N runs")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(_ *cobra.Command, args []string) error {
	h, err := store.Open(store.Path())
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer h.Close()

	if flagPrune > 0 {
		n, err := h.Prune(flagPrune)
		if err != nil {
			return err
		}
		fmt.Printf("  Removed %d run(s), kept the newest %d\n", n, flagPrune)
		return nil
	}

	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("run id %q is not a number", args[0])
		}
		return showRun(h, id)
	}

	runs, err := h.ListRuns(flagHistoryPlan, flagHistoryLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("\n  No runs recorded yet.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		converted := "-"
		if r.ConvertedEstimate != nil {
			converted = cli.FormatEstimate(*r.ConvertedEstimate, "USD")
		}
		checks := "ok"
		if r.Mismatches > 0 {
			checks = fmt.Sprintf("%d failed", r.Mismatches)
		}
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.ComputedAt.Local().Format("2006-01-02 15:04"),
			r.PlanKey,
			cli.FormatNumber(r.Units),
			cli.FormatAmount(r.Total, r.Currency),
			converted,
			checks,
		})
	}

	total, err := h.RunCount()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("History (%d of %d)", len(runs), total),
		Headers: []string{"ID", "Computed", "Plan", "Units", "Total", "Converted", "Checks"},
		Rows:    rows,
	}))
	return nil
}

func showRun(h *store.History, id int64) error {
	r, err := h.LoadRun(id)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(r.Items)+4)
	for _, it := range r.Items {
		rows = append(rows, []string{it.Name, cli.FormatNumber(it.Amount)})
	}
	rows = append(rows,
		[]string{"---"},
		[]string{"Subtotal", cli.FormatNumber(r.Subtotal)},
		[]string{fmt.Sprintf("Contingency (%s)", cli.FormatRate(r.ContingencyRate)), cli.FormatNumber(r.ContingencyAmount)},
		[]string{fmt.Sprintf("Total (%s)", r.Currency), cli.FormatNumber(r.Total)},
	)
	if r.ConvertedEstimate != nil {
		rows = append(rows, []string{"Total (approx.)", cli.FormatEstimate(*r.ConvertedEstimate, "USD")})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Run %d: %s, %s", r.ID, r.PlanTitle, r.ComputedAt.Local().Format("2006-01-02 15:04")),
		Headers: []string{"Line item", fmt.Sprintf("Cost (%s)", r.Currency)},
		Rows:    rows,
	}))
	if r.Source != "" {
		fmt.Printf("  items from %s\n", r.Source)
	}
	return nil
}
