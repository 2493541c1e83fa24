package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/theirongolddev/proplife/internal/cli"
	"github.com/theirongolddev/proplife/internal/finance"
	"github.com/theirongolddev/proplife/internal/lifecycle"
	"github.com/theirongolddev/proplife/internal/model"
	"github.com/theirongolddev/proplife/internal/store"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one property's pipeline and finances",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

// snapshotFor loads every stage record of a property and evaluates it.
func snapshotFor(ctx context.Context, st *store.Store, engine *lifecycle.Engine, id string) (model.Snapshot, error) {
	p, err := st.GetProperty(ctx, id)
	if err != nil {
		return model.Snapshot{}, notFound(err, id)
	}
	byKind := make(map[model.PipelineKind][]model.PipelineStageData)
	for _, kind := range model.PipelineKinds {
		stages, err := st.ListStages(ctx, id, kind)
		if err != nil {
			return model.Snapshot{}, err
		}
		if len(stages) > 0 {
			byKind[kind] = stages
		}
	}
	return engine.Evaluate(p, byKind), nil
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	engine := newEngine()
	snap, err := snapshotFor(ctx, st, engine, args[0])
	if err != nil {
		return err
	}
	ledger, err := st.Ledger(ctx, snap.Property.ID)
	if err != nil {
		return err
	}

	p := snap.Property
	fmt.Println()
	fmt.Println(cli.RenderTitle(p.Name))
	fmt.Println()
	fmt.Print(cli.RenderKeyValues([][2]string{
		{"ID", p.ID},
		{"Address", dash(p.Address)},
		{"Type", dash(p.Type)},
		{"Source", string(p.Source)},
		{"Subdivision", dash(string(p.SubdivisionStatus))},
		{"Handover", dash(string(p.HandoverStatus))},
		{"Workflow", cli.FormatWorkflow(snap.Workflow)},
		{"Status", string(snap.Status)},
		{"Added", cli.FormatDate(p.CreatedAt)},
	}))
	if p.Notes != "" {
		fmt.Printf("\n  %s\n", p.Notes)
	}
	fmt.Println()

	if snap.HasPipeline() {
		printPipeline(engine, snap)
	} else {
		fmt.Println("  No lifecycle pipeline: the property was added directly.")
		fmt.Println()
	}

	printFinances(finance.SummarizeLedger(engine.Catalog(), ledger), cfg.General.Currency)
	return nil
}

func printPipeline(engine *lifecycle.Engine, snap model.Snapshot) {
	sc, _ := engine.Pipeline(snap.Kind)
	records := make(map[int]model.PipelineStageData, len(snap.Stages))
	for _, s := range snap.Stages {
		records[s.StageID] = s
	}

	fmt.Printf("  Stage %d · %s · %s\n", snap.DisplayStage, snap.StageName, cli.FormatLabel(snap.Label))
	fmt.Printf("  %s  %d/%d stages\n\n", cli.RenderProgressBar(snap.Progress.Percentage, 30),
		snap.Progress.Completed, snap.Progress.Total)

	rows := make([][]string, 0, len(sc.Stages))
	for _, def := range sc.Stages {
		rec := records[def.ID]
		status := rec.Status
		if status == "" {
			status = model.StatusNotStarted
		}
		done := engine.IsTerminal(snap.Kind, status)
		current := def.ID == snap.CurrentStage && !snap.Progress.Done()
		num := engine.DisplayStageNumber(engine.ActualForLocal(def.ID, snap.Workflow), snap.Workflow)
		rows = append(rows, []string{
			cli.RenderStageMarker(done, current),
			fmt.Sprintf("%d", num),
			def.Name,
			status,
			cli.FormatDatePtr(rec.StartedDate),
			cli.FormatDatePtr(rec.CompletedDate),
			cli.Truncate(rec.Notes, 30),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:      fmt.Sprintf("%s pipeline", cli.FormatLabel(strings.ToUpper(string(snap.Kind)))),
		Headers:    []string{"", "#", "Stage", "Status", "Started", "Completed", "Notes"},
		Rows:       rows,
		RightAlign: []int{1},
	}))
	fmt.Println()
}

func printFinances(summaries []model.FinanceSummary, currency string) {
	for _, s := range summaries {
		if len(s.Categories) == 0 && s.Price == 0 && s.TotalPaid == 0 {
			continue
		}
		rows := make([][]string, 0, len(s.Categories)+8)
		for _, c := range s.Categories {
			rows = append(rows, []string{c.Label, fmt.Sprintf("%d", c.Count), cli.FormatMoney(c.Total, currency)})
		}
		rows = append(rows, []string{"---"}, []string{"Total cost", "", cli.FormatMoney(s.TotalCost, currency)})
		if s.Price > 0 {
			rows = append(rows,
				[]string{"Price", "", cli.FormatMoney(s.Price, currency)},
				[]string{"Net", "", cli.FormatMoney(s.NetIncome, currency)},
				[]string{"Margin", "", cli.FormatPercent(s.ProfitMargin)},
			)
			if s.Domain != model.DomainSubdivision {
				rows = append(rows,
					[]string{"Paid", "", cli.FormatMoney(s.TotalPaid, currency)},
					[]string{"Remaining", "", cli.FormatMoney(s.RemainingBalance, currency)},
					[]string{"Payment progress", "", cli.FormatPercent(s.PaymentProgress)},
				)
			}
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:      cli.FormatLabel(strings.ToUpper(string(s.Domain))) + " costs",
			Headers:    []string{"Category", "Entries", "Amount"},
			Rows:       rows,
			RightAlign: []int{1, 2},
		}))
		fmt.Println()
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
