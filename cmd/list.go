package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/proplife/internal/cli"
	"github.com/theirongolddev/proplife/internal/model"
	"github.com/theirongolddev/proplife/internal/portfolio"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List properties with their lifecycle stage and progress",
	RunE:    runList,
}

var countsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Count properties per workflow",
	RunE:  runCounts,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(countsCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	filter, err := buildFilter(cfg)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	result, err := loadPortfolio(cmd.Context(), st, newEngine())
	if err != nil {
		return err
	}
	snaps := portfolio.Apply(result.Snapshots, filter)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("Properties  %d of %d", len(snaps), result.Total)))
	fmt.Println()
	if len(snaps) == 0 {
		fmt.Println("  No properties match the current filters.")
		fmt.Println()
		return nil
	}

	rows := make([][]string, 0, len(snaps))
	for _, s := range snaps {
		stage, label, progress := "-", "-", "-"
		if s.HasPipeline() {
			stage = fmt.Sprintf("%d · %s", s.DisplayStage, cli.Truncate(s.StageName, 24))
			label = cli.FormatLabel(s.Label)
			progress = cli.RenderProgressBar(s.Progress.Percentage, 10)
		}
		rows = append(rows, []string{
			cli.Truncate(s.Property.ID, 12),
			cli.Truncate(s.Property.Name, 28),
			s.Property.Type,
			cli.FormatWorkflow(s.Workflow),
			string(s.Status),
			stage,
			label,
			progress,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Name", "Type", "Workflow", "Status", "Stage", "Label", "Progress"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

func runCounts(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	filter, err := buildFilter(cfg)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	props, err := st.ListProperties(cmd.Context())
	if err != nil {
		return err
	}
	// Counts ignore the workflow filter so every row reflects the other filters.
	counts := portfolio.Counts(portfolio.FilterProperties(props, filter.WithoutPipeline()))

	total := 0
	rows := make([][]string, 0, len(model.WorkflowTypes)+2)
	for _, wt := range model.WorkflowTypes {
		total += counts[wt]
		rows = append(rows, []string{cli.FormatWorkflow(wt), strconv.Itoa(counts[wt])})
	}
	rows = append(rows, []string{"---"}, []string{"All", strconv.Itoa(total)})

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:      "Properties by workflow",
		Headers:    []string{"Workflow", "Count"},
		Rows:       rows,
		RightAlign: []int{1},
	}))
	fmt.Println()
	return nil
}
