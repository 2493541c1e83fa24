package components

import (
	"strings"

	"github.com/theirongolddev/proplife/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints on the left,
// filter summary and load info on the right.
func RenderStatusBar(width int, filterDesc, info string) string {
	t := theme.Active

	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	filterStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	infoStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	left := hintStyle.Render(" [?]help  [/]search  [w]orkflow  [s]tatus  [q]uit")
	right := ""
	if filterDesc != "" {
		right += filterStyle.Render(filterDesc) + infoStyle.Render("  ")
	}
	if info != "" {
		right += infoStyle.Render(info + " ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}
	bar := left + lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", padding)) + right

	return lipgloss.NewStyle().Background(t.Surface).MaxWidth(width).Render(bar)
}
