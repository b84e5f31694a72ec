package pipeline

import (
	"fmt"
	"math"

	"github.com/theirongolddev/pilotbudget/internal/model"
)

// ScaleItems multiplies every amount by units, returning a new set.
func ScaleItems(items model.LineItemSet, units int64) (model.LineItemSet, error) {
	if units < 1 {
		return nil, invalid("units", "%d must be at least 1", units)
	}
	out := make(model.LineItemSet, len(items))
	for i, it := range items {
		if it.Amount < 0 {
			return nil, invalid("items", "%q has negative amount %d", it.Name, it.Amount)
		}
		if it.Amount > math.MaxInt64/units {
			return nil, invalid("items", "%q overflows when scaled by %d", it.Name, units)
		}
		out[i] = model.LineItem{Name: it.Name, Amount: it.Amount * units}
	}
	return out, nil
}

// ComputePlan computes the per-unit and scaled budgets of a plan and validates
// both against the plan's expected figures. The ceiling applies to the scaled total.
//
// Contingency is rounded once on the scaled subtotal, not multiplied from the
// per-unit contingency.
func ComputePlan(plan model.Plan) (model.PlanResult, error) {
	units := plan.Units
	if units == 0 {
		units = 1
	}

	perUnit, err := ComputeBudget(plan.Items, plan.ContingencyRate, plan.ExchangeRate)
	if err != nil {
		return model.PlanResult{}, fmt.Errorf("plan %s: %w", plan.Key, err)
	}

	scaledItems, err := ScaleItems(plan.Items, units)
	if err != nil {
		return model.PlanResult{}, fmt.Errorf("plan %s: %w", plan.Key, err)
	}
	scaled, err := ComputeBudget(scaledItems, plan.ContingencyRate, plan.ExchangeRate)
	if err != nil {
		return model.PlanResult{}, fmt.Errorf("plan %s: %w", plan.Key, err)
	}

	res := model.PlanResult{
		Plan:          plan,
		PerUnit:       perUnit,
		Scaled:        scaled,
		PerUnitReport: Validate(perUnit, plan.Expected),
		ScaledReport:  Validate(scaled, plan.ExpectedScaled),
	}
	if plan.Ceiling != nil {
		c := CheckCeiling(scaled.Total, *plan.Ceiling)
		res.ScaledReport.Ceiling = &c
	}
	return res, nil
}

// ComputePlans runs ComputePlan over every plan, stopping at the first invalid one.
func ComputePlans(plans []model.Plan) ([]model.PlanResult, error) {
	results := make([]model.PlanResult, 0, len(plans))
	for _, p := range plans {
		r, err := ComputePlan(p)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}
