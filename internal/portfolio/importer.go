package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/proplife/internal/lifecycle"
	"github.com/theirongolddev/proplife/internal/model"
	"github.com/theirongolddev/proplife/internal/source"
)

// Writer is the slice of the store the importer needs.
type Writer interface {
	SaveProperty(ctx context.Context, p model.Property) (model.Property, error)
	SaveStages(ctx context.Context, stages []model.PipelineStageData) error
	ListStages(ctx context.Context, propertyID string, kind model.PipelineKind) ([]model.PipelineStageData, error)
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Imported    int
	StagesSaved int
	Initialized int
	Rejected    []error
}

// Import checks every stage record against the catalog and persists the
// records that pass. Each pipeline a property has records for is written in
// full: stored records and catalog defaults fill the stage ids the batch
// leaves out. A property on a pipeline workflow without stage records for
// it, in the batch or already stored, gets the initial stage set. A rejected
// record does not stop the import; a write error does.
func Import(ctx context.Context, w Writer, engine *lifecycle.Engine, records []source.Record, now time.Time) (ImportResult, error) {
	var result ImportResult

	for _, rec := range records {
		if err := checkStages(engine, rec.Stages); err != nil {
			result.Rejected = append(result.Rejected, fmt.Errorf("property %s: %w", rec.Property.ID, err))
			continue
		}

		var stages []model.PipelineStageData
		for _, kind := range model.PipelineKinds {
			if !hasKind(rec.Stages, kind) {
				continue
			}
			existing, err := w.ListStages(ctx, rec.Property.ID, kind)
			if err != nil {
				return result, err
			}
			merged := append(append([]model.PipelineStageData(nil), existing...), rec.Stages...)
			full, err := engine.FillStages(kind, rec.Property.ID, merged, now)
			if err != nil {
				return result, err
			}
			stages = append(stages, full...)
		}

		if kind, ok := lifecycle.KindFor(lifecycle.Classify(rec.Property)); ok && !hasKind(stages, kind) {
			existing, err := w.ListStages(ctx, rec.Property.ID, kind)
			if err != nil {
				return result, err
			}
			if len(existing) == 0 {
				initial, err := engine.InitialStages(kind, rec.Property.ID, now)
				if err != nil {
					return result, err
				}
				stages = append(stages, initial...)
				result.Initialized++
			}
		}

		if _, err := w.SaveProperty(ctx, rec.Property); err != nil {
			return result, err
		}
		if len(stages) > 0 {
			if err := w.SaveStages(ctx, stages); err != nil {
				return result, err
			}
		}
		result.Imported++
		result.StagesSaved += len(stages)
	}
	return result, nil
}

func checkStages(engine *lifecycle.Engine, stages []model.PipelineStageData) error {
	for _, s := range stages {
		if _, ok := engine.StageByID(s.Kind, s.StageID); !ok {
			return fmt.Errorf("%w: %s stage %d", lifecycle.ErrUnknownStage, s.Kind, s.StageID)
		}
		if !engine.CanTransitionToStatus(s.Kind, "", s.Status, s.StageID) {
			return fmt.Errorf("%w: %q on %s stage %d", lifecycle.ErrInvalidStatus, s.Status, s.Kind, s.StageID)
		}
	}
	return nil
}

func hasKind(stages []model.PipelineStageData, kind model.PipelineKind) bool {
	for _, s := range stages {
		if s.Kind == kind {
			return true
		}
	}
	return false
}
