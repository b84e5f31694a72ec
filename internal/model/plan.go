package model

// Plan is a named budget preset: a per-unit line item set replicated across Units sites.
type Plan struct {
	Key             string
	Title           string
	Currency        string
	ForeignCurrency string
	ContingencyRate float64
	ExchangeRate    *float64
	Units           int64
	Ceiling         *int64
	Items           LineItemSet

	// Expected figures for the per-unit and the scaled budget.
	Expected       Expected
	ExpectedScaled Expected

	// Path of the CSV file the items came from, if any.
	Source string
}

// PlanResult bundles the computed budgets of a plan with their validation.
type PlanResult struct {
	Plan    Plan
	PerUnit BudgetResult
	Scaled  BudgetResult

	PerUnitReport ValidationReport
	ScaledReport  ValidationReport
}

// OK reports whether both the per-unit and the scaled budgets passed validation.
func (r PlanResult) OK() bool {
	return r.PerUnitReport.OK() && r.ScaledReport.OK()
}

// MismatchCount returns the number of failed checks across both reports.
func (r PlanResult) MismatchCount() int {
	n := len(r.PerUnitReport.Mismatches) + len(r.ScaledReport.Mismatches)
	if r.ScaledReport.Ceiling != nil && r.ScaledReport.Ceiling.Exceeded {
		n++
	}
	return n
}
