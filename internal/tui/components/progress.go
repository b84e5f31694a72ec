package components

import (
	"fmt"

	"github.com/theirongolddev/pilotbudget/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForPct returns green/yellow/orange/red based on how much of a ceiling is used.
func ColorForPct(pct float64) string {
	t := theme.Active
	switch {
	case pct > 1:
		return string(t.Red)
	case pct >= 0.9:
		return string(t.Orange)
	case pct >= 0.7:
		return string(t.Yellow)
	default:
		return string(t.Green)
	}
}

// CeilingBar renders how much of a budget ceiling a total uses.
// The bar is clamped at full; the percentage is not.
func CeilingBar(label string, total, ceiling int64, labelW, barWidth int) string {
	t := theme.Active

	pct := 0.0
	if ceiling > 0 {
		pct = float64(total) / float64(ceiling)
	} else if total > 0 {
		pct = 2 // any spend over a zero ceiling
	}
	fill := pct
	if fill > 1 {
		fill = 1
	}

	bar := progress.New(
		progress.WithSolidFill(ColorForPct(pct)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForPct(pct))).Bold(true)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) + " " +
		bar.ViewAs(fill) + " " +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100))
}
