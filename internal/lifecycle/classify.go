package lifecycle

import "github.com/theirongolddev/proplife/internal/model"

// Classify returns the single workflow a property is on. Subdivision beats
// handover, handover beats purchase pipeline, and everything else is a
// direct addition. Missing flags count as not started.
func Classify(p model.Property) model.WorkflowType {
	switch {
	case p.SubdivisionActive():
		return model.WorkflowSubdivision
	case p.HandoverActive():
		return model.WorkflowHandover
	case p.Source == model.SourcePurchasePipeline:
		return model.WorkflowPurchasePipeline
	default:
		return model.WorkflowDirectAddition
	}
}

// KindFor returns the stage catalog that backs a workflow. Direct additions
// have no pipeline.
func KindFor(wt model.WorkflowType) (model.PipelineKind, bool) {
	switch wt {
	case model.WorkflowPurchasePipeline:
		return model.KindPurchase, true
	case model.WorkflowHandover:
		return model.KindHandover, true
	case model.WorkflowSubdivision:
		return model.KindSubdivision, true
	default:
		return "", false
	}
}
