package cli

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/pilotbudget/internal/model"
)

// BudgetTable lays out a plan result as line items, subtotal, contingency and
// totals. Plans spanning several units get a per-unit and a scaled column.
func BudgetTable(res model.PlanResult) Table {
	p := res.Plan
	multi := p.Units > 1

	headers := []string{"Line item", fmt.Sprintf("Cost (%s)", p.Currency)}
	if multi {
		headers = []string{
			"Line item",
			fmt.Sprintf("Per unit (%s)", p.Currency),
			fmt.Sprintf("%d units (%s)", p.Units, p.Currency),
		}
	}

	row := func(label string, perUnit, scaled string) []string {
		if multi {
			return []string{label, perUnit, scaled}
		}
		return []string{label, scaled}
	}

	rows := make([][]string, 0, len(res.PerUnit.Items)+6)
	for i, it := range res.PerUnit.Items {
		rows = append(rows, row(it.Name,
			FormatNumber(it.Amount),
			FormatNumber(res.Scaled.Items[i].Amount)))
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, row("Subtotal",
		FormatNumber(res.PerUnit.Subtotal),
		FormatNumber(res.Scaled.Subtotal)))
	rows = append(rows, row(fmt.Sprintf("Contingency (%s)", FormatRate(p.ContingencyRate)),
		FormatNumber(res.PerUnit.ContingencyAmount),
		FormatNumber(res.Scaled.ContingencyAmount)))
	rows = append(rows, row(fmt.Sprintf("Total (%s)", p.Currency),
		FormatNumber(res.PerUnit.Total),
		FormatNumber(res.Scaled.Total)))

	if res.Scaled.HasEstimate() {
		fc := p.ForeignCurrency
		if fc == "" {
			fc = "USD"
		}
		rows = append(rows, row(fmt.Sprintf("Total (approx. %s)", fc),
			FormatEstimate(*res.PerUnit.ConvertedEstimate, fc),
			FormatEstimate(*res.Scaled.ConvertedEstimate, fc)))
	}

	return Table{
		Title:   p.Title,
		Headers: headers,
		Rows:    rows,
	}
}

// ShareTable lists each line item's share of the scaled subtotal with a bar.
func ShareTable(res model.PlanResult) Table {
	var largest int64
	for _, it := range res.Scaled.Items {
		if it.Amount > largest {
			largest = it.Amount
		}
	}

	rows := make([][]string, 0, len(res.Scaled.Items))
	for _, it := range res.Scaled.Items {
		share := ""
		if res.Scaled.Subtotal > 0 {
			share = FormatPercent(float64(it.Amount) / float64(res.Scaled.Subtotal))
		}
		rows = append(rows, []string{
			it.Name,
			share,
			RenderBar(float64(it.Amount), float64(largest), 20),
		})
	}
	return Table{
		Title:   "Share of subtotal",
		Headers: []string{"Line item", "Share", ""},
		Rows:    rows,
	}
}

// RenderReport describes the validation outcome of a plan result.
func RenderReport(res model.PlanResult) string {
	var b strings.Builder

	if res.OK() {
		b.WriteString("  ")
		b.WriteString(okStyle.Render("OK"))
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s matches its expected figures", res.Plan.Key)))
		b.WriteString("\n")
	} else {
		b.WriteString("  ")
		b.WriteString(failStyle.Render("MISMATCH"))
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s: %d check(s) failed", res.Plan.Key, res.MismatchCount())))
		b.WriteString("\n")
	}

	writeMismatches := func(scope string, ms []model.Mismatch) {
		for _, m := range ms {
			b.WriteString(warnStyle.Render(fmt.Sprintf("    %s %s: expected %s, got %s",
				scope, m.Field, m.Expected, m.Actual)))
			b.WriteString("\n")
		}
	}
	writeMismatches("per-unit", res.PerUnitReport.Mismatches)
	writeMismatches("scaled", res.ScaledReport.Mismatches)

	if c := res.ScaledReport.Ceiling; c != nil {
		line := fmt.Sprintf("    ceiling %s: total %s", FormatAmount(c.Ceiling, res.Plan.Currency), FormatNumber(c.Total))
		if c.Exceeded {
			b.WriteString(failStyle.Render(fmt.Sprintf("%s, over by %s", line, FormatNumber(-c.Headroom))))
		} else {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("%s, headroom %s", line, FormatNumber(c.Headroom))))
		}
		b.WriteString("\n")
	}

	return b.String()
}
