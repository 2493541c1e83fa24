package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/proplife/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// LoadBar renders the block progress bar shown while the portfolio loads.
// pct is a 0-1 fraction.
func LoadBar(pct float64, width int) string {
	t := theme.Active
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	filledStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))
	return b.String() + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}

// ColorForProgress picks a bar color for a 0-100 lifecycle percentage.
// Finished pipelines are green, the rest move from cyan to accent.
func ColorForProgress(pct int) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 100:
		return t.Green
	case pct >= 50:
		return t.Accent
	case pct > 0:
		return t.Cyan
	default:
		return t.TextDim
	}
}

// StageProgress renders a 0-100 percentage as a solid bar followed by
// "completed/total" when total is positive.
func StageProgress(pct, completed, total, width int) string {
	t := theme.Active
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	if width < 4 {
		width = 4
	}

	color := ColorForProgress(pct)
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	countStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	out := bar.ViewAs(float64(pct)/100) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3d%%", pct))
	if total > 0 {
		out += spaceStyle.Render(" ") + countStyle.Render(fmt.Sprintf("%d/%d", completed, total))
	}
	return out
}

// CompactProgress renders a narrow bar for list rows.
func CompactProgress(pct, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	bar := progress.New(
		progress.WithSolidFill(string(ColorForProgress(pct))),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(theme.Active.TextDim)
	return bar.ViewAs(float64(pct) / 100)
}
