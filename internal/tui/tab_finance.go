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

func (a App) renderFinanceTab(cw, h int) string {
	t := theme.Active
	snap, ok := a.selected()
	if !ok {
		return components.ContentCard("Finance",
			lipgloss.NewStyle().Foreground(t.TextMuted).Render("No properties match the current filters"), cw)
	}

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	title := fmt.Sprintf("Finance · %s  (%d/%d, j/k to change)", snap.Property.Name, a.cursor+1, len(a.visible))

	if err, bad := a.ledgerErr[snap.Property.ID]; bad {
		return components.ContentCard(title,
			lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render("Could not load ledger: "+err.Error()), cw)
	}
	summaries, ok := a.ledgers[snap.Property.ID]
	if !ok {
		return components.ContentCard(title, muted.Render(a.spinner.View()+" Loading ledger..."), cw)
	}

	widths := components.LayoutRow(cw, len(summaries))
	cards := make([]string, len(summaries))
	for i, s := range summaries {
		cards[i] = components.ContentCard(domainTitle(s.Domain), a.renderSummary(s, components.CardInnerWidth(widths[i])), widths[i])
	}

	header := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true).Render(" " + title)
	return header + "\n" + components.CardRow(cards)
}

func (a App) renderSummary(s model.FinanceSummary, inner int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	money := func(v float64) string { return cli.FormatMoney(v, a.currency) }

	var b strings.Builder
	row := func(label, value string) {
		pad := inner - lipgloss.Width(label) - lipgloss.Width(value)
		if pad < 1 {
			pad = 1
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString(labelStyle.Render(strings.Repeat(" ", pad)))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	if len(s.Categories) == 0 {
		b.WriteString(dimStyle.Render("No costs recorded"))
		b.WriteString("\n")
	}
	for _, c := range s.Categories {
		row(cli.Truncate(c.Label, inner-16), money(c.Total))
	}
	b.WriteString(dimStyle.Render(strings.Repeat("─", inner)))
	b.WriteString("\n")
	row("Total cost", money(s.TotalCost))
	if s.Price <= 0 {
		return b.String()
	}

	row(priceLabel(s.Domain), money(s.Price))
	row("Net", money(s.NetIncome))
	row("Margin", cli.FormatPercent(s.ProfitMargin))
	if s.Domain != model.DomainSubdivision {
		row("Paid", money(s.TotalPaid))
		row("Remaining", money(s.RemainingBalance))
		b.WriteString(components.StageProgress(int(s.PaymentProgress), 0, 0, inner-14))
		b.WriteString("\n")
	}
	return b.String()
}

func domainTitle(d model.CostDomain) string {
	return cli.FormatLabel(strings.ToUpper(string(d)))
}

func priceLabel(d model.CostDomain) string {
	switch d {
	case model.DomainAcquisition:
		return "Purchase price"
	case model.DomainHandover:
		return "Sale price"
	default:
		return "Budget"
	}
}
