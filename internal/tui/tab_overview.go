package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/proplife/internal/cli"
	"github.com/theirongolddev/proplife/internal/model"
	"github.com/theirongolddev/proplife/internal/tui/components"
	"github.com/theirongolddev/proplife/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var overviewStatuses = []model.FilterStatus{
	model.FilterActive,
	model.FilterPending,
	model.FilterCompleted,
	model.FilterInactive,
}

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active

	byStatus := make(map[model.FilterStatus]int, len(overviewStatuses))
	for _, s := range a.visible {
		byStatus[s.Status]++
	}

	metrics := []components.Metric{
		{Label: "Properties", Value: cli.FormatNumber(int64(len(a.visible))), Detail: fmt.Sprintf("%d with stage records", a.withStage)},
	}
	for _, st := range overviewStatuses {
		metrics = append(metrics, components.Metric{
			Label: cli.FormatLabel(strings.ToUpper(string(st))),
			Value: cli.FormatNumber(int64(byStatus[st])),
			Color: t.StatusColor(st),
		})
	}

	var b strings.Builder
	b.WriteString(components.MetricRow(metrics, cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("By Workflow", a.renderWorkflowBars(components.CardInnerWidth(halves[0])), halves[0]),
		components.ContentCard("Pipeline Progress", a.renderProgressBuckets(components.CardInnerWidth(halves[1])), halves[1]),
	}))
	return b.String()
}

func (a App) renderWorkflowBars(inner int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	maxCount := 0
	for _, wt := range model.WorkflowTypes {
		if a.counts[wt] > maxCount {
			maxCount = a.counts[wt]
		}
	}

	barW := inner - 26
	if barW < 5 {
		barW = 5
	}

	var b strings.Builder
	for _, wt := range model.WorkflowTypes {
		n := a.counts[wt]
		filled := 0
		if maxCount > 0 {
			filled = n * barW / maxCount
		}
		bar := lipgloss.NewStyle().Foreground(t.WorkflowColor(wt)).Background(t.Surface).Render(strings.Repeat("█", filled))
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", cli.FormatWorkflow(wt))))
		b.WriteString(countStyle.Render(fmt.Sprintf("%4d ", n)))
		b.WriteString(bar)
		b.WriteString("\n")
	}
	return b.String()
}

// renderProgressBuckets groups pipeline properties by completion quartile.
func (a App) renderProgressBuckets(inner int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	buckets := []struct {
		label    string
		min, max int
	}{
		{"Not started", 0, 0},
		{"1-49%", 1, 49},
		{"50-99%", 50, 99},
		{"Complete", 100, 100},
	}
	counts := make([]int, len(buckets))
	total := 0
	for _, s := range a.visible {
		if !s.HasPipeline() {
			continue
		}
		total++
		for i, bk := range buckets {
			if s.Progress.Percentage >= bk.min && s.Progress.Percentage <= bk.max {
				counts[i]++
				break
			}
		}
	}

	if total == 0 {
		return labelStyle.Render("No properties with a pipeline")
	}

	barW := inner - 20
	if barW < 5 {
		barW = 5
	}
	var b strings.Builder
	for i, bk := range buckets {
		pct := counts[i] * 100 / total
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-12s", bk.label)))
		b.WriteString(countStyle.Render(fmt.Sprintf("%4d ", counts[i])))
		b.WriteString(components.CompactProgress(pct, barW))
		b.WriteString("\n")
	}
	return b.String()
}
