// Package tui provides the interactive Bubble Tea budget viewer.
package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/pilotbudget/internal/cli"
	"github.com/theirongolddev/pilotbudget/internal/model"
	"github.com/theirongolddev/pilotbudget/internal/tui/components"
	"github.com/theirongolddev/pilotbudget/internal/tui/theme"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	minTerminalWidth = 60
	maxContentWidth  = 140
	ceilingLabelW    = 9
)

// App is the root Bubble Tea model. Results are computed before the program
// starts; the viewer never recomputes.
type App struct {
	results []model.PlanResult
	names   []string
	active  int

	showShares bool
	help       help.Model
	body       viewport.Model

	width  int
	height int
}

// NewApp creates a viewer over the given plan results, starting at the plan
// with key initial when present.
func NewApp(results []model.PlanResult, initial string) App {
	names := make([]string, len(results))
	active := 0
	for i, r := range results {
		names[i] = r.Plan.Key
		if r.Plan.Key == initial {
			active = i
		}
	}

	return App{
		results: results,
		names:   names,
		active:  active,
		help:    help.New(),
		body:    viewport.New(0, 0),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.EnableMouseCellMotion
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.layout()
		return a, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y == 1 {
			if tab := components.TabAtX(a.names, msg.X); tab >= 0 {
				a.selectPlan(tab)
			}
			return a, nil
		}
		var cmd tea.Cmd
		a.body, cmd = a.body.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.help.ShowAll = !a.help.ShowAll
			a.layout()
			return a, nil
		case key.Matches(msg, keys.Next):
			a.selectPlan((a.active + 1) % max(len(a.results), 1))
			return a, nil
		case key.Matches(msg, keys.Prev):
			n := max(len(a.results), 1)
			a.selectPlan((a.active - 1 + n) % n)
			return a, nil
		case key.Matches(msg, keys.Jump):
			idx := int(msg.Runes[0] - '1')
			if idx < len(a.results) {
				a.selectPlan(idx)
			}
			return a, nil
		case key.Matches(msg, keys.Shares):
			a.showShares = !a.showShares
			a.layout()
			return a, nil
		case key.Matches(msg, keys.Down):
			a.body.LineDown(1)
			return a, nil
		case key.Matches(msg, keys.Up):
			a.body.LineUp(1)
			return a, nil
		}
	}

	return a, nil
}

func (a *App) selectPlan(idx int) {
	if idx < 0 || idx >= len(a.results) {
		return
	}
	a.active = idx
	a.layout()
	a.body.GotoTop()
}

// layout sizes the scrollable body to the space left under the header.
func (a *App) layout() {
	if a.width == 0 {
		return
	}
	headerH := lipgloss.Height(a.viewHeader())
	footerH := lipgloss.Height(a.viewFooter())

	a.body.Width = a.contentWidth()
	a.body.Height = max(a.height-headerH-footerH, 3)
	a.body.SetContent(a.viewBody())
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// Current returns the plan result on screen.
func (a App) Current() (model.PlanResult, bool) {
	if a.active < 0 || a.active >= len(a.results) {
		return model.PlanResult{}, false
	}
	return a.results[a.active], true
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols, need %d)\n", a.width, minTerminalWidth)
	}
	if len(a.results) == 0 {
		return "\n  No plans configured. Run `pilotbudget setup`.\n"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.viewHeader(),
		a.body.View(),
		a.viewFooter(),
	)
}

func (a App) viewHeader() string {
	res, ok := a.Current()
	if !ok {
		return ""
	}
	t := theme.Active
	p := res.Plan
	w := a.contentWidth()

	titleStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(" " + p.Title))
	b.WriteString("\n")
	b.WriteString(components.RenderTabBar(a.names, a.active))
	b.WriteString("\n")

	unitsNote := ""
	if p.Units > 1 {
		unitsNote = fmt.Sprintf("per unit %s", cli.FormatNumber(res.PerUnit.Total))
	}
	metrics := []components.Metric{
		{Label: "Subtotal", Value: cli.FormatAmount(res.Scaled.Subtotal, p.Currency)},
		{Label: "Contingency", Value: cli.FormatNumber(res.Scaled.ContingencyAmount), Note: cli.FormatRate(p.ContingencyRate)},
		{Label: "Total", Value: cli.FormatAmount(res.Scaled.Total, p.Currency), Note: unitsNote, Alert: !res.OK()},
	}
	if res.Scaled.HasEstimate() {
		metrics = append(metrics, components.Metric{
			Label: "Converted",
			Value: cli.FormatEstimate(*res.Scaled.ConvertedEstimate, p.ForeignCurrency),
			Note:  cli.FormatExchange(*res.Scaled.ExchangeRate, p.Currency, p.ForeignCurrency),
		})
	}
	b.WriteString(components.MetricCardRow(metrics, w))
	b.WriteString("\n")

	if c := res.ScaledReport.Ceiling; c != nil {
		b.WriteString(" ")
		b.WriteString(components.CeilingBar("Ceiling", c.Total, c.Ceiling, ceilingLabelW, max(w/3, 10)))
		b.WriteString(mutedStyle.Render("  of " + cli.FormatAmount(c.Ceiling, p.Currency)))
		b.WriteString("\n")
	}

	b.WriteString(a.viewChecks(res))
	return b.String()
}

func (a App) viewChecks(res model.PlanResult) string {
	t := theme.Active
	if res.OK() {
		return lipgloss.NewStyle().Foreground(t.Green).Render(" ✓ matches expected figures")
	}

	warn := lipgloss.NewStyle().Foreground(t.Red)
	lines := []string{warn.Render(fmt.Sprintf(" ✗ %d check(s) failed", res.MismatchCount()))}
	add := func(scope string, ms []model.Mismatch) {
		for _, m := range ms {
			lines = append(lines, warn.Render(fmt.Sprintf("   %s %s: expected %s, got %s", scope, m.Field, m.Expected, m.Actual)))
		}
	}
	add("per-unit", res.PerUnitReport.Mismatches)
	add("scaled", res.ScaledReport.Mismatches)
	return strings.Join(lines, "\n")
}

func (a App) viewBody() string {
	res, ok := a.Current()
	if !ok {
		return ""
	}
	table := cli.BudgetTable(res)
	if a.showShares {
		table = cli.ShareTable(res)
	}
	return components.ContentCard("", cli.RenderTable(table), a.contentWidth())
}

func (a App) viewFooter() string {
	status := ""
	if res, ok := a.Current(); ok && res.Plan.Source != "" {
		status = "items: " + res.Plan.Source
	}
	if a.help.ShowAll {
		return a.help.View(keys) + "\n" + components.RenderStatusBar(a.contentWidth(), "", status)
	}
	return components.RenderStatusBar(a.contentWidth(), a.help.View(keys), status)
}
