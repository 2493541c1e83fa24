package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/proplife/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name (-1 if not in name)
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o', KeyPos: 0},
	{Name: "Properties", Key: 'p', KeyPos: 0},
	{Name: "Finance", Key: 'f', KeyPos: 0},
}

// TabLabel returns the plain text of a tab as rendered, without styling.
// Inactive tabs show their shortcut in brackets.
func TabLabel(tab Tab, active bool) string {
	if active {
		return tab.Name
	}
	if tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name) {
		return tab.Name[:tab.KeyPos] + "[" + string(tab.Name[tab.KeyPos]) + "]" + tab.Name[tab.KeyPos+1:]
	}
	return tab.Name + "[" + string(tab.Key) + "]"
}

// TabVisualWidth returns the rendered column width of a tab including
// its horizontal padding.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(TabLabel(tab, active)) + 2
}

// RenderTabBar renders the tab row with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 1)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Padding(0, 1)

	sepStyle := lipgloss.NewStyle().Background(t.Surface)

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts[i] = activeStyle.Render(TabLabel(tab, true))
		} else {
			parts[i] = inactiveStyle.Render(TabLabel(tab, false))
		}
	}

	row := strings.Join(parts, sepStyle.Render(" "))
	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(row)
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}

// WorkflowPill is one entry of the workflow filter row.
type WorkflowPill struct {
	Label  string
	Count  int
	Active bool
}

// RenderWorkflowPills renders the workflow filter row with per-workflow counts.
func RenderWorkflowPills(pills []WorkflowPill, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	inactiveStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	sepStyle := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface)

	parts := make([]string, len(pills))
	for i, p := range pills {
		text := fmt.Sprintf("%s %d", p.Label, p.Count)
		if p.Active {
			parts[i] = activeStyle.Render("● " + text)
		} else {
			parts[i] = inactiveStyle.Render("○ " + text)
		}
	}

	row := " " + strings.Join(parts, sepStyle.Render("  │  "))
	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(row)
}
