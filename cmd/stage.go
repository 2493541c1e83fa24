package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/proplife/internal/lifecycle"
	"github.com/theirongolddev/proplife/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagStageKind  string
	flagStageNotes string
	flagStageForce bool
)

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Start pipelines and update stage statuses",
}

var stageInitCmd = &cobra.Command{
	Use:   "init <id>",
	Short: "Create the initial stage records of a property's pipeline",
	Args:  cobra.ExactArgs(1),
	RunE:  runStageInit,
}

var stageSetCmd = &cobra.Command{
	Use:     "set <id> <stage> <status>",
	Short:   "Set the status of one stage",
	Example: "  proplife stage set p-101 2 \"Offer Submitted\"\n  proplife stage set p-101 3 Verified --notes \"title search clean\"",
	Args:    cobra.ExactArgs(3),
	RunE:    runStageSet,
}

var stageAdvanceCmd = &cobra.Command{
	Use:   "advance <id> <stage>",
	Short: "Move a stage to its next recommended status",
	Args:  cobra.ExactArgs(2),
	RunE:  runStageAdvance,
}

func init() {
	stageInitCmd.Flags().StringVar(&flagStageKind, "kind", "", "Pipeline kind: purchase, handover, subdivision (default: derived from the property's flags)")
	stageInitCmd.Flags().BoolVar(&flagStageForce, "force", false, "Reset stages that already exist")
	stageSetCmd.Flags().StringVar(&flagStageNotes, "notes", "", "Replace the stage notes")
	stageAdvanceCmd.Flags().StringVar(&flagStageNotes, "notes", "", "Replace the stage notes")

	stageCmd.AddCommand(stageInitCmd, stageSetCmd, stageAdvanceCmd)
	rootCmd.AddCommand(stageCmd)
}

func runStageInit(cmd *cobra.Command, args []string) error {
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

	kind := model.PipelineKind(strings.ToLower(flagStageKind))
	if kind == "" {
		k, ok := lifecycle.KindFor(snap.Workflow)
		if !ok {
			return fmt.Errorf("%s is a direct addition; pass --kind to start a pipeline", args[0])
		}
		kind = k
	}

	existing, err := st.ListStages(ctx, args[0], kind)
	if err != nil {
		return err
	}
	if len(existing) > 0 && !flagStageForce {
		return fmt.Errorf("%s already has %d %s stage records (use --force to reset)", args[0], len(existing), kind)
	}

	stages, err := engine.InitialStages(kind, args[0], time.Now())
	if err != nil {
		return err
	}
	if err := st.SaveStages(ctx, stages); err != nil {
		return err
	}
	fmt.Printf("  Started %s pipeline for %s with %d stages\n", kind, args[0], len(stages))
	return nil
}

func runStageSet(cmd *cobra.Command, args []string) error {
	return updateStage(cmd, args[0], args[1], func(_ *lifecycle.Engine, _ model.PipelineKind, _ model.PipelineStageData) (string, error) {
		return args[2], nil
	})
}

func runStageAdvance(cmd *cobra.Command, args []string) error {
	return updateStage(cmd, args[0], args[1], func(engine *lifecycle.Engine, kind model.PipelineKind, cur model.PipelineStageData) (string, error) {
		next, ok := engine.NextRecommendedStatus(kind, cur.Status, cur.StageID)
		if !ok {
			return "", fmt.Errorf("stage %d is already at %q", cur.StageID, cur.Status)
		}
		return next, nil
	})
}

// updateStage applies the status chosen by pick to one stage of the
// property's active pipeline and prints the re-evaluated position. Stage
// records the pipeline is missing are written with their initial status.
func updateStage(cmd *cobra.Command, id, stageArg string, pick func(*lifecycle.Engine, model.PipelineKind, model.PipelineStageData) (string, error)) error {
	stageID, err := strconv.Atoi(stageArg)
	if err != nil || stageID < 1 {
		return fmt.Errorf("invalid stage %q", stageArg)
	}

	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	engine := newEngine()
	snap, err := snapshotFor(ctx, st, engine, id)
	if err != nil {
		return err
	}
	if !snap.HasPipeline() {
		return fmt.Errorf("%s has no active pipeline", id)
	}

	now := time.Now()
	stages, err := engine.FillStages(snap.Kind, id, snap.Stages, now)
	if err != nil {
		return err
	}
	idx := -1
	for i, s := range stages {
		if s.StageID == stageID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s stage %d", lifecycle.ErrUnknownStage, snap.Kind, stageID)
	}
	current := stages[idx]

	next, err := pick(engine, snap.Kind, current)
	if err != nil {
		return err
	}
	updated, err := engine.ApplyStatus(current, next, now)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("notes") {
		updated.Notes = flagStageNotes
	}
	stages[idx] = updated
	if err := st.SaveStages(ctx, stages); err != nil {
		return err
	}

	after, err := snapshotFor(ctx, st, engine, id)
	if err != nil {
		return err
	}
	fmt.Printf("  Stage %d: %s -> %s\n", stageID, current.Status, updated.Status)
	fmt.Printf("  Now at stage %d (%s), %d%% complete\n", after.DisplayStage, after.StageName, after.Progress.Percentage)
	return nil
}
