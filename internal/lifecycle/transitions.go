package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/proplife/internal/catalog"
	"github.com/theirongolddev/proplife/internal/model"
)

var (
	// ErrUnknownPipeline indicates the pipeline kind has no catalog.
	ErrUnknownPipeline = errors.New("lifecycle: pipeline kind not registered")
	// ErrUnknownStage indicates the stage id is outside the catalog.
	ErrUnknownStage = errors.New("lifecycle: stage not found")
	// ErrInvalidStatus indicates the status is not in the stage's vocabulary.
	ErrInvalidStatus = errors.New("lifecycle: status not allowed for stage")
)

// StageByID looks up a stage definition. The boolean is false when the id
// is outside the catalog.
func (e *Engine) StageByID(kind model.PipelineKind, id int) (catalog.StageDefinition, bool) {
	sc, ok := e.cat.Pipeline(kind)
	if !ok {
		return catalog.StageDefinition{}, false
	}
	return sc.Stage(id)
}

// CanTransitionToStatus reports whether next may be written to the stage.
// Any status in the stage's vocabulary is reachable from any other; the
// current status is not consulted.
func (e *Engine) CanTransitionToStatus(kind model.PipelineKind, _, next string, stageID int) bool {
	def, ok := e.StageByID(kind, stageID)
	if !ok {
		return false
	}
	return def.HasStatus(next)
}

// NextRecommendedStatus returns the status that follows current in the
// stage's vocabulary. The boolean is false when current is last or unknown.
func (e *Engine) NextRecommendedStatus(kind model.PipelineKind, current string, stageID int) (string, bool) {
	def, ok := e.StageByID(kind, stageID)
	if !ok {
		return "", false
	}
	for i, s := range def.StatusOptions {
		if s == current {
			if i+1 < len(def.StatusOptions) {
				return def.StatusOptions[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

// InitialStages builds the records a newly started pipeline is persisted
// with: stage 1 in progress, everything else not started.
func (e *Engine) InitialStages(kind model.PipelineKind, propertyID string, now time.Time) ([]model.PipelineStageData, error) {
	sc, ok := e.cat.Pipeline(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPipeline, kind)
	}

	stages := make([]model.PipelineStageData, 0, sc.Len())
	for _, def := range sc.Stages {
		s := model.PipelineStageData{
			PropertyID: propertyID,
			Kind:       kind,
			StageID:    def.ID,
			Status:     model.StatusNotStarted,
		}
		if def.ID == 1 {
			started := now
			s.Status = model.StatusInProgress
			s.StartedDate = &started
		}
		stages = append(stages, s)
	}
	return stages, nil
}

// FillStages returns one record per stage of the kind's catalog, in stage
// order. Records of that kind in stages are kept (a later duplicate wins);
// missing stage ids get their InitialStages defaults.
func (e *Engine) FillStages(kind model.PipelineKind, propertyID string, stages []model.PipelineStageData, now time.Time) ([]model.PipelineStageData, error) {
	full, err := e.InitialStages(kind, propertyID, now)
	if err != nil {
		return nil, err
	}
	have := make(map[int]model.PipelineStageData, len(stages))
	for _, s := range stages {
		if s.Kind == kind {
			have[s.StageID] = s
		}
	}
	for i, s := range full {
		if rec, ok := have[s.StageID]; ok {
			full[i] = rec
		}
	}
	return full, nil
}

// ApplyStatus validates next and returns a copy of stage carrying it.
// StartedDate is stamped the first time the stage leaves "Not Started";
// CompletedDate is stamped on entering a terminal status and cleared on
// leaving one.
func (e *Engine) ApplyStatus(stage model.PipelineStageData, next string, now time.Time) (model.PipelineStageData, error) {
	if _, ok := e.cat.Pipeline(stage.Kind); !ok {
		return stage, fmt.Errorf("%w: %s", ErrUnknownPipeline, stage.Kind)
	}
	if _, ok := e.StageByID(stage.Kind, stage.StageID); !ok {
		return stage, fmt.Errorf("%w: %s stage %d", ErrUnknownStage, stage.Kind, stage.StageID)
	}
	if !e.CanTransitionToStatus(stage.Kind, stage.Status, next, stage.StageID) {
		return stage, fmt.Errorf("%w: %q on %s stage %d", ErrInvalidStatus, next, stage.Kind, stage.StageID)
	}

	out := stage
	out.Status = next
	if out.StartedDate == nil && next != model.StatusNotStarted {
		started := now
		out.StartedDate = &started
	}
	if e.IsTerminal(stage.Kind, next) {
		if out.CompletedDate == nil {
			completed := now
			out.CompletedDate = &completed
		}
	} else {
		out.CompletedDate = nil
	}
	return out, nil
}
