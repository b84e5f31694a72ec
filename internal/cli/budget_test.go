package cli

import (
	"strings"
	"testing"

	"github.com/theirongolddev/pilotbudget/internal/model"
)

func samplePlanResult(units int64) model.PlanResult {
	est := 569.33
	scaledEst := est * float64(units)
	perUnit := model.BudgetResult{
		Items:             model.LineItemSet{{Name: "Data", Amount: 61_000}},
		Subtotal:          61_000,
		ContingencyRate:   0.12,
		ContingencyAmount: 7_320,
		Total:             68_320,
		ConvertedEstimate: &est,
	}
	scaled := perUnit
	scaled.Items = model.LineItemSet{{Name: "Data", Amount: 61_000 * units}}
	scaled.Subtotal *= units
	scaled.ContingencyAmount *= units
	scaled.Total *= units
	scaled.ConvertedEstimate = &scaledEst

	return model.PlanResult{
		Plan: model.Plan{
			Key: "byod", Title: "BYOD", Currency: "BDT", ForeignCurrency: "USD",
			ContingencyRate: 0.12, Units: units,
		},
		PerUnit: perUnit,
		Scaled:  scaled,
	}
}

func TestBudgetTable_SingleUnit(t *testing.T) {
	tbl := BudgetTable(samplePlanResult(1))
	if len(tbl.Headers) != 2 {
		t.Fatalf("headers = %v, want 2 columns", tbl.Headers)
	}
	last := tbl.Rows[len(tbl.Rows)-1]
	if last[0] != "Total (approx. USD)" || last[1] != "~$569" {
		t.Errorf("estimate row = %v", last)
	}
	total := tbl.Rows[len(tbl.Rows)-2]
	if total[1] != "68,320" {
		t.Errorf("total row = %v", total)
	}
	contingency := tbl.Rows[len(tbl.Rows)-3]
	if contingency[0] != "Contingency (12%)" {
		t.Errorf("contingency label = %q", contingency[0])
	}
}

func TestBudgetTable_MultiUnit(t *testing.T) {
	tbl := BudgetTable(samplePlanResult(10))
	if len(tbl.Headers) != 3 || tbl.Headers[2] != "10 units (BDT)" {
		t.Fatalf("headers = %v", tbl.Headers)
	}
	if tbl.Rows[0][1] != "61,000" || tbl.Rows[0][2] != "610,000" {
		t.Errorf("item row = %v", tbl.Rows[0])
	}

	out := RenderTable(tbl)
	if !strings.Contains(out, "683,200") {
		t.Errorf("rendered table missing scaled total:\n%s", out)
	}
}

func TestRenderReport(t *testing.T) {
	res := samplePlanResult(1)
	if out := RenderReport(res); !strings.Contains(out, "OK") {
		t.Errorf("consistent report = %q", out)
	}

	res.PerUnitReport.Mismatches = []model.Mismatch{{Field: "total", Expected: "68000", Actual: "68320"}}
	res.ScaledReport.Ceiling = &model.CeilingCheck{Ceiling: 60_000, Total: 68_320, Headroom: -8_320, Exceeded: true}
	out := RenderReport(res)
	for _, want := range []string{"MISMATCH", "2 check(s)", "per-unit total: expected 68000, got 68320", "over by 8,320"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestShareTable(t *testing.T) {
	res := samplePlanResult(1)
	tbl := ShareTable(res)
	if len(tbl.Rows) != 1 || tbl.Rows[0][1] != "100.0%" {
		t.Errorf("rows = %v", tbl.Rows)
	}
}
