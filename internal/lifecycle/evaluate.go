package lifecycle

import "github.com/theirongolddev/proplife/internal/model"

// FilterStatusOf buckets a property for the status filter. The active
// workflow's flag decides; properties with no flag set are pending when they
// came in through a pipeline and inactive otherwise.
func FilterStatusOf(p model.Property) model.FilterStatus {
	switch {
	case p.SubdivisionActive():
		if p.SubdivisionStatus == model.SubdivisionCompleted {
			return model.FilterCompleted
		}
		return model.FilterActive
	case p.HandoverActive():
		if p.HandoverStatus == model.HandoverCompleted {
			return model.FilterCompleted
		}
		return model.FilterActive
	case p.Source == model.SourcePurchasePipeline, p.Source == model.SourceSubdivisionProcess:
		return model.FilterPending
	default:
		return model.FilterInactive
	}
}

// Evaluate derives the full snapshot of one property. stagesByKind holds the
// persisted stage records; only the kind backing the property's workflow is
// read.
func (e *Engine) Evaluate(p model.Property, stagesByKind map[model.PipelineKind][]model.PipelineStageData) model.Snapshot {
	wt := Classify(p)
	snap := model.Snapshot{
		Property: p,
		Workflow: wt,
		Status:   FilterStatusOf(p),
	}

	kind, ok := KindFor(wt)
	if !ok {
		return snap
	}
	stages := sortedStages(stagesByKind[kind])
	res := e.Resolve(kind, stages)

	snap.Kind = kind
	snap.Stages = stages
	snap.CurrentStage = res.CurrentStage
	snap.Progress = res.Progress
	snap.Label = res.Label
	if res.CurrentStage > 0 {
		snap.DisplayStage = e.DisplayStageNumber(e.ActualForLocal(res.CurrentStage, wt), wt)
	}
	if def, ok := e.StageByID(kind, res.CurrentStage); ok {
		snap.StageName = def.Name
	}
	return snap
}
