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

// listWindow returns the [start, end) slice of n rows that keeps cursor
// visible in a pane of the given height.
func listWindow(cursor, n, height int) (int, int) {
	if height < 1 {
		height = 1
	}
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := start + height
	if end > n {
		end = n
	}
	return start, end
}

func (a App) renderPropertiesTab(cw, h int) string {
	t := theme.Active
	if len(a.visible) == 0 {
		return components.ContentCard("Properties",
			lipgloss.NewStyle().Foreground(t.TextMuted).Render("No properties match the current filters"), cw)
	}

	if a.isCompactLayout() {
		return a.renderPropertyList(cw, h)
	}

	leftW := cw * 2 / 5
	if leftW < 36 {
		leftW = 36
	}
	return components.CardRow([]string{
		a.renderPropertyList(leftW, h),
		a.renderPropertyDetail(cw-leftW, h),
	})
}

func (a App) renderPropertyList(w, h int) string {
	t := theme.Active
	inner := components.CardInnerWidth(w)

	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	barW := 10
	nameW := inner - barW - 12
	if nameW < 12 {
		nameW = 12
	}

	var body strings.Builder
	start, end := listWindow(a.cursor, len(a.visible), h-4) // card border + title + hint
	for i := start; i < end; i++ {
		s := a.visible[i]
		marker := lipgloss.NewStyle().Foreground(t.StatusColor(s.Status)).Background(t.Surface).Render("●")
		name := fmt.Sprintf("%-*s", nameW, cli.Truncate(s.Property.Name, nameW))

		var rest string
		if s.HasPipeline() {
			rest = components.CompactProgress(s.Progress.Percentage, barW) +
				mutedStyle.Render(fmt.Sprintf(" %3d%%", s.Progress.Percentage))
		} else {
			rest = mutedStyle.Render(fmt.Sprintf("%-*s", barW+5, "no pipeline"))
		}

		nameStyle := rowStyle
		if i == a.cursor {
			nameStyle = selectedStyle
		}
		body.WriteString(marker + nameStyle.Render(" "+name+" ") + rest)
		body.WriteString("\n")
	}
	body.WriteString(mutedStyle.Render(fmt.Sprintf("%d of %d", a.cursor+1, len(a.visible))))

	return components.ContentCard("Properties", body.String(), w)
}

func (a App) renderPropertyDetail(w, h int) string {
	t := theme.Active
	snap, ok := a.selected()
	if !ok {
		return ""
	}
	inner := components.CardInnerWidth(w)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	p := snap.Property
	var b strings.Builder
	field := func(label, value string) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-10s", label)))
		b.WriteString(valueStyle.Render(cli.Truncate(value, inner-10)))
		b.WriteString("\n")
	}
	field("Address", orDash(p.Address))
	field("Type", orDash(p.Type))
	field("Workflow", cli.FormatWorkflow(snap.Workflow))
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-10s", "Status")))
	b.WriteString(lipgloss.NewStyle().Foreground(t.StatusColor(snap.Status)).Background(t.Surface).Render(string(snap.Status)))
	b.WriteString("\n")

	if !snap.HasPipeline() {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("Added directly to the portfolio. No lifecycle pipeline."))
		return components.ContentCard(p.Name, b.String(), w)
	}

	field("Stage", fmt.Sprintf("%d · %s", snap.DisplayStage, snap.StageName))
	field("Label", cli.FormatLabel(snap.Label))
	b.WriteString("\n")
	b.WriteString(components.StageProgress(snap.Progress.Percentage, snap.Progress.Completed, snap.Progress.Total, inner-12))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("Stages"))
	b.WriteString("\n")
	b.WriteString(a.renderStageList(snap, inner))

	if summary, ok := a.primarySummary(snap); ok {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("Finance · " + string(summary.Domain)))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Costs  "))
		b.WriteString(valueStyle.Render(cli.FormatMoney(summary.TotalCost, a.currency)))
		if summary.Price > 0 {
			b.WriteString(labelStyle.Render("   Paid  "))
			b.WriteString(valueStyle.Render(cli.FormatPercent(summary.PaymentProgress)))
		}
	}

	return components.ContentCard(p.Name, b.String(), w)
}

// renderStageList lists every catalog stage of the snapshot's pipeline
// with its recorded status.
func (a App) renderStageList(snap model.Snapshot, width int) string {
	t := theme.Active
	sc, ok := a.engine.Pipeline(snap.Kind)
	if !ok {
		return ""
	}

	records := make(map[int]model.PipelineStageData, len(snap.Stages))
	for _, s := range snap.Stages {
		records[s.StageID] = s
	}

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	currentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	statusStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	nameW := width - 24
	if nameW < 10 {
		nameW = 10
	}

	var b strings.Builder
	for _, def := range sc.Stages {
		rec, has := records[def.ID]
		status := model.StatusNotStarted
		if has && rec.Status != "" {
			status = rec.Status
		}
		done := a.engine.IsTerminal(snap.Kind, status)
		current := def.ID == snap.CurrentStage && !snap.Progress.Done()

		num := a.engine.DisplayStageNumber(a.engine.ActualForLocal(def.ID, snap.Workflow), snap.Workflow)
		name := fmt.Sprintf("%2d %-*s", num, nameW, cli.Truncate(def.Name, nameW))

		b.WriteString(cli.RenderStageMarker(done, current))
		b.WriteString(" ")
		if current {
			b.WriteString(currentStyle.Render(name))
		} else {
			b.WriteString(nameStyle.Render(name))
		}
		b.WriteString(" ")
		b.WriteString(statusStyle.Render(status))
		b.WriteString("\n")
	}
	return b.String()
}

// primarySummary returns the finance summary that matches the snapshot's
// pipeline, if the ledger has been fetched.
func (a App) primarySummary(snap model.Snapshot) (model.FinanceSummary, bool) {
	summaries, ok := a.ledgers[snap.Property.ID]
	if !ok {
		return model.FinanceSummary{}, false
	}
	domain := model.DomainAcquisition
	switch snap.Kind {
	case model.KindHandover:
		domain = model.DomainHandover
	case model.KindSubdivision:
		domain = model.DomainSubdivision
	}
	for _, s := range summaries {
		if s.Domain == domain {
			return s, true
		}
	}
	return model.FinanceSummary{}, false
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
