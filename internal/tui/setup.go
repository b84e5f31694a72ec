package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/pilotbudget/internal/config"
	"github.com/theirongolddev/pilotbudget/internal/source"
	"github.com/theirongolddev/pilotbudget/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
)

// PlanFormValues backs the setup form. Numeric fields are kept as text so the
// form can validate them as they are typed.
type PlanFormValues struct {
	Key      string
	Title    string
	Rate     string
	Exchange string
	Units    string
	Items    string
	Theme    string
}

// FormValuesFrom pre-fills the form from an existing plan.
func FormValuesFrom(p config.PlanConfig, themeName string) PlanFormValues {
	v := PlanFormValues{
		Key:   p.Key,
		Title: p.Title,
		Rate:  decimal.NewFromFloat(p.ContingencyRate).Shift(2).String(),
		Units: "1",
		Items: source.FormatLines(p.Model().Items),
		Theme: themeName,
	}
	if p.ExchangeRate != nil {
		v.Exchange = strconv.FormatFloat(*p.ExchangeRate, 'f', -1, 64)
	}
	if p.Units > 0 {
		v.Units = strconv.FormatInt(p.Units, 10)
	}
	return v
}

// NewPlanForm builds the interactive plan editor.
func NewPlanForm(vals *PlanFormValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Plan key").
				Description("Short name used on the command line").
				Value(&vals.Key).
				Validate(validateKey),
			huh.NewInput().
				Title("Title").
				Value(&vals.Title),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Contingency (%)").
				Value(&vals.Rate).
				Validate(func(s string) error {
					_, err := parseRate(s)
					return err
				}),
			huh.NewInput().
				Title("Exchange rate").
				Description("Local currency per foreign unit, blank to skip").
				Value(&vals.Exchange).
				Validate(func(s string) error {
					_, err := parseExchange(s)
					return err
				}),
			huh.NewInput().
				Title("Units").
				Description("Number of identical sites the plan is repeated over").
				Value(&vals.Units).
				Validate(func(s string) error {
					_, err := parseUnits(s)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Line items").
				Description("One per line: name = amount").
				Lines(12).
				Value(&vals.Items).
				Validate(func(s string) error {
					_, err := source.ParseLines(s)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	)
}

// ToPlanConfig converts the submitted values into a plan. Expected figures
// are left empty; a plan edited by hand no longer matches its old checks.
func (v PlanFormValues) ToPlanConfig() (config.PlanConfig, error) {
	if err := validateKey(v.Key); err != nil {
		return config.PlanConfig{}, err
	}
	rate, err := parseRate(v.Rate)
	if err != nil {
		return config.PlanConfig{}, err
	}
	exchange, err := parseExchange(v.Exchange)
	if err != nil {
		return config.PlanConfig{}, err
	}
	units, err := parseUnits(v.Units)
	if err != nil {
		return config.PlanConfig{}, err
	}
	items, err := source.ParseLines(v.Items)
	if err != nil {
		return config.PlanConfig{}, err
	}

	p := config.PlanConfig{
		Key:             strings.TrimSpace(v.Key),
		Title:           strings.TrimSpace(v.Title),
		Currency:        config.DefaultCurrency,
		ContingencyRate: rate,
		ExchangeRate:    exchange,
		Units:           units,
		Items:           config.ItemsFromModel(items),
	}
	if exchange != nil {
		p.ForeignCurrency = "USD"
	}
	return p, nil
}

func validateKey(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("key is required")
	}
	if strings.ContainsAny(s, " \t/") {
		return errors.New("key must not contain spaces or slashes")
	}
	return nil
}

// parseRate reads a percentage such as "10" or "12.5%".
func parseRate(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return 0, nil
	}
	pct, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("contingency %q is not a number", s)
	}
	if pct < 0 || pct > 100 {
		return 0, errors.New("contingency must be between 0 and 100")
	}
	return pct / 100, nil
}

func parseExchange(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	rate, err := strconv.ParseFloat(s, 64)
	if err != nil || rate <= 0 {
		return nil, fmt.Errorf("exchange rate %q must be a positive number", s)
	}
	return &rate, nil
}

func parseUnits(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("units %q must be a whole number of at least 1", s)
	}
	return n, nil
}
