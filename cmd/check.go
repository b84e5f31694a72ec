package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/pilotbudget/internal/cli"
	"github.com/theirongolddev/pilotbudget/internal/logger"
	"github.com/theirongolddev/pilotbudget/internal/model"
	"github.com/theirongolddev/pilotbudget/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagStrict bool

// errChecksFailed is returned by check --strict; the report is already printed.
var errChecksFailed = errors.New("checks failed")

var checkCmd = &cobra.Command{
	Use:   "check [plan...]",
	Short: "Check plans against their expected figures",
	Long: `Recompute every plan (or the named ones) and compare the results with the
expected figures stored in the config. Mismatches are reported and logged as
warnings. With --strict any mismatch or exceeded ceiling exits non-zero.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&flagStrict, "strict", false, "Exit non-zero when any check fails")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, args []string) error {
	result, err := loadPlans()
	if err != nil {
		return err
	}
	plans, err := selectPlans(result.Plans, args)
	if err != nil {
		return err
	}

	results := make([]model.PlanResult, 0, len(plans))
	failed := 0
	fmt.Println()
	for _, p := range plans {
		res, err := pipeline.ComputePlan(p)
		if err != nil {
			// An invalid plan is a failed check, not a reason to skip the rest.
			logger.L.Error("plan cannot be computed", "plan", p.Key, "err", err)
			fmt.Printf("  %s  %s\n", "INVALID", err)
			failed++
			continue
		}
		logMismatches(res)
		fmt.Print(cli.RenderReport(res))
		if !res.OK() {
			failed++
		}
		results = append(results, res)
	}
	fmt.Println()
	fmt.Printf("  %d plan(s) checked, %d failed\n\n", len(plans), failed)

	recordRuns(results)

	if flagStrict && failed > 0 {
		return fmt.Errorf("%w: %d of %d plan(s)", errChecksFailed, failed, len(plans))
	}
	return nil
}
