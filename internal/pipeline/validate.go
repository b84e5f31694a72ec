package pipeline

import (
	"strconv"

	"github.com/theirongolddev/pilotbudget/internal/model"
)

// Validate compares a computed result against hand-maintained figures.
// Mismatches are reported, never returned as errors.
func Validate(result model.BudgetResult, expected model.Expected) model.ValidationReport {
	var report model.ValidationReport

	checkInt := func(field string, want *int64, got int64) {
		if want != nil && *want != got {
			report.Mismatches = append(report.Mismatches, model.Mismatch{
				Field:    field,
				Expected: strconv.FormatInt(*want, 10),
				Actual:   strconv.FormatInt(got, 10),
			})
		}
	}

	checkInt("subtotal", expected.Subtotal, result.Subtotal)
	checkInt("contingency", expected.ContingencyAmount, result.ContingencyAmount)
	checkInt("total", expected.Total, result.Total)

	if expected.ConvertedMin == nil && expected.ConvertedMax == nil {
		return report
	}

	want := rangeString(expected.ConvertedMin, expected.ConvertedMax)
	if !result.HasEstimate() {
		report.Mismatches = append(report.Mismatches, model.Mismatch{
			Field:    "converted",
			Expected: want,
			Actual:   "none",
		})
		return report
	}

	est := *result.ConvertedEstimate
	if (expected.ConvertedMin != nil && est <= *expected.ConvertedMin) ||
		(expected.ConvertedMax != nil && est >= *expected.ConvertedMax) {
		report.Mismatches = append(report.Mismatches, model.Mismatch{
			Field:    "converted",
			Expected: want,
			Actual:   strconv.FormatFloat(est, 'f', 2, 64),
		})
	}

	return report
}

// CheckCeiling compares a total against a maximum allowed amount.
func CheckCeiling(total, ceiling int64) model.CeilingCheck {
	return model.CeilingCheck{
		Ceiling:  ceiling,
		Total:    total,
		Headroom: ceiling - total,
		Exceeded: total > ceiling,
	}
}

func rangeString(lo, hi *float64) string {
	switch {
	case lo != nil && hi != nil:
		return "(" + fmtFloat(*lo) + ", " + fmtFloat(*hi) + ")"
	case lo != nil:
		return "> " + fmtFloat(*lo)
	default:
		return "< " + fmtFloat(*hi)
	}
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
