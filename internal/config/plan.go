package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/pilotbudget/internal/model"
)

// PlanConfig is the TOML form of a budget plan.
type PlanConfig struct {
	Key             string         `toml:"key"`
	Title           string         `toml:"title"`
	Currency        string         `toml:"currency"`
	ForeignCurrency string         `toml:"foreign_currency,omitempty"`
	ContingencyRate float64        `toml:"contingency_rate"`
	ExchangeRate    *float64       `toml:"exchange_rate,omitempty"`
	Units           int64          `toml:"units,omitempty"`
	Ceiling         *int64         `toml:"ceiling,omitempty"`
	Items           []ItemConfig   `toml:"items"`
	Expected        model.Expected `toml:"expected,omitempty"`
	ExpectedScaled  model.Expected `toml:"expected_scaled,omitempty"`
}

// ItemConfig is one line item row in a plan.
type ItemConfig struct {
	Name   string `toml:"name"`
	Amount int64  `toml:"amount"`
}

// Validate checks the plan fields that the aggregator does not.
// Amount and rate rules are enforced when the plan is computed.
func (p PlanConfig) Validate() error {
	if strings.TrimSpace(p.Key) == "" {
		return errors.New("plan without key")
	}
	if p.Units < 0 {
		return fmt.Errorf("plan %s: units must be positive, got %d", p.Key, p.Units)
	}
	if p.Ceiling != nil && *p.Ceiling < 0 {
		return fmt.Errorf("plan %s: ceiling must not be negative", p.Key)
	}
	return nil
}

// Model converts the TOML plan to the domain type, filling defaults.
func (p PlanConfig) Model() model.Plan {
	units := p.Units
	if units == 0 {
		units = 1
	}
	currency := p.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	title := p.Title
	if title == "" {
		title = p.Key
	}

	items := make(model.LineItemSet, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, model.LineItem{Name: it.Name, Amount: it.Amount})
	}

	return model.Plan{
		Key:             p.Key,
		Title:           title,
		Currency:        currency,
		ForeignCurrency: p.ForeignCurrency,
		ContingencyRate: p.ContingencyRate,
		ExchangeRate:    p.ExchangeRate,
		Units:           units,
		Ceiling:         p.Ceiling,
		Items:           items,
		Expected:        p.Expected,
		ExpectedScaled:  p.ExpectedScaled,
	}
}

// ItemsFromModel converts a line item set back to its TOML rows.
func ItemsFromModel(items model.LineItemSet) []ItemConfig {
	out := make([]ItemConfig, 0, len(items))
	for _, it := range items {
		out = append(out, ItemConfig{Name: it.Name, Amount: it.Amount})
	}
	return out
}

// MergePlans returns base with every overlay plan replacing the base plan of
// the same key, or appended when the key is new. Base order is kept.
func MergePlans(base, overlay []PlanConfig) []PlanConfig {
	out := make([]PlanConfig, len(base), len(base)+len(overlay))
	copy(out, base)

	index := make(map[string]int, len(out))
	for i, p := range out {
		index[p.Key] = i
	}
	for _, p := range overlay {
		if i, ok := index[p.Key]; ok {
			out[i] = p
			continue
		}
		index[p.Key] = len(out)
		out = append(out, p)
	}
	return out
}

// DefaultCurrency is used when a plan does not name one.
const DefaultCurrency = "BDT"

// DefaultExchangeRate is BDT per USD used by the built-in plans.
const DefaultExchangeRate = 120.0

// BuiltinPlans returns the two reference pilots: a 10-hub rollout over 12
// months and a lean 3-month bring-your-own-device pilot.
func BuiltinPlans() []PlanConfig {
	return []PlanConfig{
		{
			Key:             "hubs",
			Title:           "Pilot budget (10 hubs, 12 months)",
			Currency:        DefaultCurrency,
			ForeignCurrency: "USD",
			ContingencyRate: 0.10,
			ExchangeRate:    ptr(DefaultExchangeRate),
			Units:           10,
			Items: []ItemConfig{
				{"Tablets (25 @ BDT 14k)", 350_000},
				{"Laptop + projector + charging cart", 220_000},
				{"Routers, UPS, cabling, furniture", 90_000},
				{"Solar + battery backup (~1 kW)", 300_000},
				{"Offline server & storage", 50_000},
				{"Content licensing/localization fund", 75_000},
				{"Connectivity (data/backhaul)", 60_000},
				{"Facilitator stipend (BDT 12k x 12 mo)", 144_000},
				{"Teacher training & CPD", 80_000},
				{"Maintenance/spares", 60_000},
			},
			Expected: model.Expected{
				Subtotal:          ptr[int64](1_429_000),
				ContingencyAmount: ptr[int64](142_900),
				Total:             ptr[int64](1_571_900),
			},
			ExpectedScaled: model.Expected{
				Subtotal:          ptr[int64](14_290_000),
				ContingencyAmount: ptr[int64](1_429_000),
				Total:             ptr[int64](15_719_000),
				ConvertedMin:      ptr(130_000.0),
				ConvertedMax:      ptr(132_000.0),
			},
		},
		{
			Key:             "byod",
			Title:           "Lean pilot budget (BYOD, 3 months)",
			Currency:        DefaultCurrency,
			ForeignCurrency: "USD",
			ContingencyRate: 0.12,
			ExchangeRate:    ptr(DefaultExchangeRate),
			Units:           1,
			Ceiling:         ptr[int64](300_000),
			Items: []ItemConfig{
				{"Starter data packs (need-based)", 25_000},
				{"Teacher CPD & templates", 18_000},
				{"Parent & student orientation", 6_000},
				{"Monitoring & evaluation", 6_000},
				{"Content curation & QR handouts", 7_000},
				{"SMS nudges (attendance/streaks)", 4_000},
			},
			Expected: model.Expected{
				Subtotal:          ptr[int64](61_000),
				ContingencyAmount: ptr[int64](7_320),
				Total:             ptr[int64](68_320),
			},
			ExpectedScaled: model.Expected{
				Total:        ptr[int64](68_320),
				ConvertedMin: ptr(450.0),
				ConvertedMax: ptr(700.0),
			},
		},
	}
}

func ptr[T any](v T) *T {
	return &v
}
