package pipeline

import (
	"fmt"

	"github.com/theirongolddev/pilotbudget/internal/config"
	"github.com/theirongolddev/pilotbudget/internal/model"
	"github.com/theirongolddev/pilotbudget/internal/source"
)

// LoadResult holds the plans available for computation.
type LoadResult struct {
	Plans      []model.Plan
	Discovered int // CSV files found in the plans dir
	Replaced   int // configured plans whose items came from a CSV
}

// LoadPlans converts the configured plans and overlays line item CSVs from
// the plans directory. A CSV replaces the items of the plan with the same
// key, or defines a new plan using the default plan's rates.
func LoadPlans(cfg config.Config) (*LoadResult, error) {
	plans := make([]model.Plan, 0, len(cfg.Plans))
	index := make(map[string]int, len(cfg.Plans))
	for _, pc := range cfg.Plans {
		index[pc.Key] = len(plans)
		plans = append(plans, pc.Model())
	}

	files, err := source.ScanDir(cfg.General.PlansDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", cfg.General.PlansDir, err)
	}

	result := &LoadResult{Discovered: len(files)}
	for _, f := range files {
		items, err := source.ParseCSVFile(f.Path)
		if err != nil {
			return nil, err
		}

		if i, ok := index[f.PlanKey]; ok {
			plans[i].Items = items
			plans[i].Source = f.Path
			// Hand-maintained figures no longer describe these items.
			plans[i].Expected = model.Expected{}
			plans[i].ExpectedScaled = model.Expected{}
			result.Replaced++
			continue
		}

		p := templatePlan(cfg, f.PlanKey)
		p.Items = items
		p.Source = f.Path
		index[f.PlanKey] = len(plans)
		plans = append(plans, p)
	}

	result.Plans = plans
	return result, nil
}

// templatePlan builds a single-unit plan carrying the default plan's rates.
func templatePlan(cfg config.Config, key string) model.Plan {
	p := model.Plan{
		Key:             key,
		Title:           key,
		Currency:        config.DefaultCurrency,
		ContingencyRate: 0.10,
		Units:           1,
	}
	if def, ok := cfg.FindPlan(cfg.General.DefaultPlan); ok {
		m := def.Model()
		p.Currency = m.Currency
		p.ForeignCurrency = m.ForeignCurrency
		p.ContingencyRate = m.ContingencyRate
		p.ExchangeRate = m.ExchangeRate
	}
	return p
}

// FindPlan returns the plan with the given key.
func FindPlan(plans []model.Plan, key string) (model.Plan, bool) {
	for _, p := range plans {
		if p.Key == key {
			return p, true
		}
	}
	return model.Plan{}, false
}
