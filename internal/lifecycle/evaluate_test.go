package lifecycle

import (
	"testing"
	"time"

	"github.com/theirongolddev/proplife/internal/catalog"
	"github.com/theirongolddev/proplife/internal/model"
)

func TestEvaluate_NewPurchase(t *testing.T) {
	e := newEngine(t)
	p := model.Property{
		ID:                "p1",
		Name:              "Ruiru Plot 12",
		Source:            model.SourcePurchasePipeline,
		SubdivisionStatus: model.SubdivisionNotStarted,
		HandoverStatus:    model.HandoverNotStarted,
	}
	stages, err := e.InitialStages(model.KindPurchase, p.ID, time.Now())
	if err != nil {
		t.Fatalf("InitialStages: %v", err)
	}

	snap := e.Evaluate(p, map[model.PipelineKind][]model.PipelineStageData{model.KindPurchase: stages})

	if snap.Workflow != model.WorkflowPurchasePipeline {
		t.Errorf("Workflow = %q", snap.Workflow)
	}
	if r := e.StageRange(snap.Workflow); r != (model.Range{Min: 1, Max: 10}) {
		t.Errorf("StageRange = %+v", r)
	}
	subOnly := make(map[string]bool)
	for _, k := range catalog.Default().SubdivisionDocKeys {
		subOnly[k] = k != catalog.DocRegisteredTitle
	}
	for _, d := range e.FilteredDocTypes(snap.Workflow) {
		if subOnly[d.Key] {
			t.Errorf("subdivision document %s visible for purchase", d.Key)
		}
	}
	if snap.CurrentStage != 1 || snap.DisplayStage != 1 {
		t.Errorf("stage = %d/%d, want 1/1", snap.CurrentStage, snap.DisplayStage)
	}
	if snap.Progress.Percentage != 0 || snap.Progress.Total != 8 {
		t.Errorf("Progress = %+v", snap.Progress)
	}
	if snap.Label != catalog.LabelIdentified {
		t.Errorf("Label = %q, want %q", snap.Label, catalog.LabelIdentified)
	}
	if snap.StageName != "Property Identification" {
		t.Errorf("StageName = %q", snap.StageName)
	}
	if snap.Status != model.FilterPending {
		t.Errorf("Status = %q, want pending", snap.Status)
	}
}

func TestEvaluate_SubdivisionDisplayNumbers(t *testing.T) {
	e := newEngine(t)
	p := model.Property{ID: "p2", SubdivisionStatus: model.SubdivisionStarted}
	stages := stagesWith(model.KindSubdivision,
		"Completed", "Approved", "Applied", "Not Started", "Not Started", "Not Started", "Not Started")

	snap := e.Evaluate(p, map[model.PipelineKind][]model.PipelineStageData{
		model.KindSubdivision: stages,
		model.KindPurchase:    stagesWith(model.KindPurchase, "Registered"),
	})

	if snap.Kind != model.KindSubdivision {
		t.Fatalf("Kind = %q", snap.Kind)
	}
	if snap.CurrentStage != 3 || snap.DisplayStage != 3 {
		t.Errorf("stage = %d/%d, want 3/3", snap.CurrentStage, snap.DisplayStage)
	}
	if got := e.ActualForLocal(snap.CurrentStage, snap.Workflow); got != 12 {
		t.Errorf("actual stage = %d, want 12", got)
	}
	if snap.Label != catalog.LabelApprovals {
		t.Errorf("Label = %q", snap.Label)
	}
	if snap.Progress.Percentage != 29 {
		t.Errorf("Percentage = %d, want 29", snap.Progress.Percentage)
	}
	if snap.Status != model.FilterActive {
		t.Errorf("Status = %q, want active", snap.Status)
	}
}

func TestEvaluate_DirectAddition(t *testing.T) {
	e := newEngine(t)
	snap := e.Evaluate(model.Property{ID: "p3", Source: model.SourceDirectAddition}, nil)
	if snap.HasPipeline() {
		t.Fatalf("direct addition has pipeline %q", snap.Kind)
	}
	if snap.CurrentStage != 0 || snap.Label != "" {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Status != model.FilterInactive {
		t.Errorf("Status = %q, want inactive", snap.Status)
	}
}

func TestEvaluate_HandoverWithoutRecords(t *testing.T) {
	e := newEngine(t)
	snap := e.Evaluate(model.Property{ID: "p4", HandoverStatus: model.HandoverInProgress}, nil)
	if snap.CurrentStage != 1 || snap.Progress.Percentage != 0 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Label != catalog.LabelHandoverInitiated {
		t.Errorf("Label = %q", snap.Label)
	}
}

func TestFilterStatusOf(t *testing.T) {
	tests := []struct {
		p    model.Property
		want model.FilterStatus
	}{
		{model.Property{SubdivisionStatus: model.SubdivisionCompleted}, model.FilterCompleted},
		{model.Property{SubdivisionStatus: model.SubdivisionStarted, HandoverStatus: model.HandoverCompleted}, model.FilterActive},
		{model.Property{HandoverStatus: model.HandoverCompleted}, model.FilterCompleted},
		{model.Property{HandoverStatus: model.HandoverInProgress}, model.FilterActive},
		{model.Property{Source: model.SourcePurchasePipeline}, model.FilterPending},
		{model.Property{Source: model.SourceSubdivisionProcess}, model.FilterPending},
		{model.Property{Source: model.SourceDirectAddition}, model.FilterInactive},
		{model.Property{}, model.FilterInactive},
	}
	for _, tt := range tests {
		if got := FilterStatusOf(tt.p); got != tt.want {
			t.Errorf("FilterStatusOf(%+v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}
