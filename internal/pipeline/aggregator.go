// Package pipeline computes, scales and validates line item budgets.
package pipeline

import (
	"math"
	"strings"

	"github.com/theirongolddev/pilotbudget/internal/model"

	"github.com/shopspring/decimal"
)

// ComputeBudget sums items, applies the contingency rate and derives the total.
// When exchangeRate is non-nil the total is also converted to the second currency.
//
// The contingency amount is rounded half-up to a whole unit. Rates are
// converted to decimals first so that 61,000 × 0.12 is exactly 7,320.
func ComputeBudget(items model.LineItemSet, contingencyRate float64, exchangeRate *float64) (model.BudgetResult, error) {
	if err := checkRate(contingencyRate); err != nil {
		return model.BudgetResult{}, err
	}
	if exchangeRate != nil {
		if err := checkExchangeRate(*exchangeRate); err != nil {
			return model.BudgetResult{}, err
		}
	}

	subtotal, err := sumItems(items)
	if err != nil {
		return model.BudgetResult{}, err
	}

	contingency := decimal.NewFromInt(subtotal).
		Mul(decimal.NewFromFloat(contingencyRate)).
		Round(0).
		IntPart()

	if subtotal > math.MaxInt64-contingency {
		return model.BudgetResult{}, invalid("items", "total overflows")
	}

	result := model.BudgetResult{
		Items:             items.Clone(),
		Subtotal:          subtotal,
		ContingencyRate:   contingencyRate,
		ContingencyAmount: contingency,
		Total:             subtotal + contingency,
	}

	if exchangeRate != nil {
		rate := *exchangeRate
		estimate := float64(result.Total) / rate
		result.ExchangeRate = &rate
		result.ConvertedEstimate = &estimate
	}

	return result, nil
}

// sumItems totals the set in insertion order, enforcing the set invariants.
func sumItems(items model.LineItemSet) (int64, error) {
	if len(items) == 0 {
		return 0, invalid("items", "at least one line item is required")
	}

	seen := make(map[string]struct{}, len(items))
	var subtotal int64
	for i, it := range items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			return 0, invalid("items", "line item %d has no name", i+1)
		}
		if _, dup := seen[name]; dup {
			return 0, invalid("items", "duplicate line item %q", name)
		}
		seen[name] = struct{}{}

		if it.Amount < 0 {
			return 0, invalid("items", "%q has negative amount %d", name, it.Amount)
		}
		if subtotal > math.MaxInt64-it.Amount {
			return 0, invalid("items", "subtotal overflows at %q", name)
		}
		subtotal += it.Amount
	}
	return subtotal, nil
}

func checkRate(rate float64) error {
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		return invalid("contingency rate", "%v is outside [0, 1]", rate)
	}
	return nil
}

func checkExchangeRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return invalid("exchange rate", "%v must be a positive number", rate)
	}
	return nil
}
