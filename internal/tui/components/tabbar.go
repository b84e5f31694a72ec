package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/pilotbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const tabSeparator = "  "

// TabLabel is the text shown for tab i; the first nine get a number shortcut.
func TabLabel(i int, name string) string {
	if i < 9 {
		return fmt.Sprintf("%d %s", i+1, name)
	}
	return name
}

// RenderTabBar renders one tab per plan with the active one highlighted.
func RenderTabBar(names []string, activeIdx int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true).
		Underline(true)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	parts := make([]string, 0, len(names))
	for i, name := range names {
		label := TabLabel(i, name)
		if i == activeIdx {
			parts = append(parts, activeStyle.Render(label))
		} else {
			parts = append(parts, inactiveStyle.Render(label))
		}
	}
	return " " + strings.Join(parts, tabSeparator)
}

// TabAtX returns the tab index under column x of a rendered tab bar, or -1.
func TabAtX(names []string, x int) int {
	pos := 1 // leading space
	for i, name := range names {
		w := lipgloss.Width(TabLabel(i, name))
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + len(tabSeparator)
	}
	return -1
}
