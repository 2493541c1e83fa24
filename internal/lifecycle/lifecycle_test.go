package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/proplife/internal/catalog"
	"github.com/theirongolddev/proplife/internal/model"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(catalog.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func stagesWith(kind model.PipelineKind, statuses ...string) []model.PipelineStageData {
	out := make([]model.PipelineStageData, len(statuses))
	for i, s := range statuses {
		out[i] = model.PipelineStageData{Kind: kind, StageID: i + 1, Status: s}
	}
	return out
}

func TestClassify_Priority(t *testing.T) {
	tests := []struct {
		name string
		p    model.Property
		want model.WorkflowType
	}{
		{"empty flags", model.Property{}, model.WorkflowDirectAddition},
		{"direct addition", model.Property{Source: model.SourceDirectAddition}, model.WorkflowDirectAddition},
		{"subdivision source alone", model.Property{Source: model.SourceSubdivisionProcess}, model.WorkflowDirectAddition},
		{"purchase", model.Property{Source: model.SourcePurchasePipeline}, model.WorkflowPurchasePipeline},
		{
			"purchase with not started flags",
			model.Property{
				Source:            model.SourcePurchasePipeline,
				SubdivisionStatus: model.SubdivisionNotStarted,
				HandoverStatus:    model.HandoverNotStarted,
			},
			model.WorkflowPurchasePipeline,
		},
		{
			"handover beats purchase",
			model.Property{Source: model.SourcePurchasePipeline, HandoverStatus: model.HandoverInProgress},
			model.WorkflowHandover,
		},
		{
			"completed handover stays handover",
			model.Property{HandoverStatus: model.HandoverCompleted},
			model.WorkflowHandover,
		},
		{
			"subdivision beats handover",
			model.Property{SubdivisionStatus: model.SubdivisionStarted, HandoverStatus: model.HandoverInProgress},
			model.WorkflowSubdivision,
		},
		{
			"subdivided",
			model.Property{Source: model.SourcePurchasePipeline, SubdivisionStatus: model.SubdivisionCompleted},
			model.WorkflowSubdivision,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.p)
			if got != tt.want {
				t.Fatalf("Classify = %q, want %q", got, tt.want)
			}
			if !got.Valid() {
				t.Fatalf("Classify returned invalid workflow %q", got)
			}
		})
	}
}

func TestKindFor(t *testing.T) {
	if _, ok := KindFor(model.WorkflowDirectAddition); ok {
		t.Fatal("direct addition should have no pipeline")
	}
	want := map[model.WorkflowType]model.PipelineKind{
		model.WorkflowPurchasePipeline: model.KindPurchase,
		model.WorkflowHandover:         model.KindHandover,
		model.WorkflowSubdivision:      model.KindSubdivision,
	}
	for wt, kind := range want {
		got, ok := KindFor(wt)
		if !ok || got != kind {
			t.Errorf("KindFor(%s) = %q, %v; want %q", wt, got, ok, kind)
		}
	}
}

func TestStageRange(t *testing.T) {
	e := newEngine(t)
	for _, wt := range []model.WorkflowType{model.WorkflowDirectAddition, model.WorkflowPurchasePipeline, model.WorkflowHandover} {
		if r := e.StageRange(wt); r != (model.Range{Min: 1, Max: 10}) {
			t.Errorf("StageRange(%s) = %+v, want 1-10", wt, r)
		}
	}
	if r := e.StageRange(model.WorkflowSubdivision); r != (model.Range{Min: 10, Max: 16}) {
		t.Errorf("StageRange(subdivision) = %+v, want 10-16", r)
	}
}

func TestDisplayStageNumber_RoundTrip(t *testing.T) {
	e := newEngine(t)
	for d := 1; d <= 7; d++ {
		actual := e.ActualStageNumber(d, model.WorkflowSubdivision)
		if got := e.DisplayStageNumber(actual, model.WorkflowSubdivision); got != d {
			t.Errorf("round trip of %d = %d (actual %d)", d, got, actual)
		}
	}
	if got := e.DisplayStageNumber(10, model.WorkflowSubdivision); got != 1 {
		t.Errorf("DisplayStageNumber(10) = %d, want 1", got)
	}
	if got := e.DisplayStageNumber(16, model.WorkflowSubdivision); got != 7 {
		t.Errorf("DisplayStageNumber(16) = %d, want 7", got)
	}
	if got := e.DisplayStageNumber(4, model.WorkflowHandover); got != 4 {
		t.Errorf("regular mapping should be identity, got %d", got)
	}
}

func TestIsStageVisible(t *testing.T) {
	e := newEngine(t)
	tests := []struct {
		stage int
		wt    model.WorkflowType
		want  bool
	}{
		{1, model.WorkflowPurchasePipeline, true},
		{10, model.WorkflowPurchasePipeline, true},
		{11, model.WorkflowPurchasePipeline, false},
		{9, model.WorkflowSubdivision, false},
		{10, model.WorkflowSubdivision, true},
		{16, model.WorkflowSubdivision, true},
		{17, model.WorkflowSubdivision, false},
	}
	for _, tt := range tests {
		if got := e.IsStageVisible(tt.stage, tt.wt); got != tt.want {
			t.Errorf("IsStageVisible(%d, %s) = %v, want %v", tt.stage, tt.wt, got, tt.want)
		}
	}
}

func docKeys(docs []catalog.DocumentType) map[string]struct{} {
	set := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		set[d.Key] = struct{}{}
	}
	return set
}

func TestFilteredDocTypes_IntersectionIsRegisteredTitle(t *testing.T) {
	e := newEngine(t)
	for i := 0; i < 2; i++ {
		sub := docKeys(e.FilteredDocTypes(model.WorkflowSubdivision))
		direct := docKeys(e.FilteredDocTypes(model.WorkflowDirectAddition))

		var shared []string
		for k := range sub {
			if _, ok := direct[k]; ok {
				shared = append(shared, k)
			}
		}
		if len(shared) != 1 || shared[0] != catalog.DocRegisteredTitle {
			t.Fatalf("intersection = %v, want [%s]", shared, catalog.DocRegisteredTitle)
		}
	}
}

func TestFilteredDocTypes_Subdivision(t *testing.T) {
	e := newEngine(t)
	got := docKeys(e.FilteredDocTypes(model.WorkflowSubdivision))
	want := catalog.Default().SubdivisionDocKeys
	if len(got) != len(want) {
		t.Fatalf("subdivision docs = %d, want %d", len(got), len(want))
	}
	for _, k := range want {
		if _, ok := got[k]; !ok {
			t.Errorf("subdivision docs missing %s", k)
		}
	}
}

func TestRegisteredTitleVisibleEverywhere(t *testing.T) {
	e := newEngine(t)
	for _, wt := range model.WorkflowTypes {
		if !e.IsDocTypeAllowedForWorkflow(catalog.DocRegisteredTitle, wt) {
			t.Errorf("registered_title hidden for %s", wt)
		}
	}
	if e.IsDocTypeAllowedForWorkflow(catalog.DocMutationForm, model.WorkflowHandover) {
		t.Error("mutation_form should be hidden for handover")
	}
	if e.IsDocTypeAllowedForWorkflow(catalog.DocSaleAgreement, model.WorkflowSubdivision) {
		t.Error("sale_agreement should be hidden for subdivision")
	}
	if e.IsDocTypeAllowedForWorkflow("no_such_doc", model.WorkflowHandover) {
		t.Error("unknown document key should not be allowed")
	}
}

func TestStageConfigFor(t *testing.T) {
	e := newEngine(t)
	cfg := e.StageConfigFor(model.WorkflowSubdivision)
	if cfg.VisibleStageCount != 7 || len(cfg.StageNumbers) != 7 {
		t.Fatalf("subdivision visible stages = %d, want 7", cfg.VisibleStageCount)
	}
	if cfg.StageNumbers[0] != 10 || cfg.StageNumbers[6] != 16 {
		t.Errorf("StageNumbers = %v", cfg.StageNumbers)
	}
	if cfg.DisplayRange != (model.Range{Min: 1, Max: 7}) {
		t.Errorf("DisplayRange = %+v", cfg.DisplayRange)
	}

	regular := e.StageConfigFor(model.WorkflowHandover)
	if regular.VisibleStageCount != 10 || regular.DisplayRange != regular.StageRange {
		t.Errorf("regular config = %+v", regular)
	}
}

func TestCurrentStageAndProgress(t *testing.T) {
	e := newEngine(t)
	sc, _ := e.Pipeline(model.KindPurchase)
	terminal := sc.TerminalSet()

	tests := []struct {
		name     string
		statuses []string
		current  int
		pct      int
		label    string
	}{
		{
			"fresh pipeline",
			[]string{"In Progress", "Not Started", "Not Started", "Not Started", "Not Started", "Not Started", "Not Started", "Not Started"},
			1, 0, catalog.LabelIdentified,
		},
		{
			"two done",
			[]string{"Completed", "Finalized", "In Progress", "Not Started", "Not Started", "Not Started", "Not Started", "Not Started"},
			3, 25, catalog.LabelDueDiligence,
		},
		{
			"financing",
			[]string{"Completed", "Finalized", "Verified", "Fully Signed", "Partially Paid", "Not Started", "Not Started", "Not Started"},
			5, 50, catalog.LabelFinancing,
		},
		{
			"gap after terminal stage",
			[]string{"Completed", "Not Started", "Verified", "Not Started", "Not Started", "Not Started", "Not Started", "Not Started"},
			2, 25, catalog.LabelNegotiating,
		},
		{
			"all terminal",
			[]string{"Completed", "Finalized", "Verified", "Fully Signed", "Processed", "LCB Approved & Forms Signed", "Approved", "Registered"},
			8, 100, catalog.LabelCompleted,
		},
		{
			"unknown status counts as in progress",
			[]string{"Completed", "Signed Off", "Not Started", "Not Started", "Not Started", "Not Started", "Not Started", "Not Started"},
			2, 13, catalog.LabelNegotiating,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stages := stagesWith(model.KindPurchase, tt.statuses...)
			if got := CurrentStage(stages, terminal, sc.Len()); got != tt.current {
				t.Errorf("CurrentStage = %d, want %d", got, tt.current)
			}
			if got := ProgressPercentage(stages, terminal, sc.Len()); got != tt.pct {
				t.Errorf("ProgressPercentage = %d, want %d", got, tt.pct)
			}
			if got := CoarseStatusLabel(sc, stages); got != tt.label {
				t.Errorf("CoarseStatusLabel = %q, want %q", got, tt.label)
			}
		})
	}
}

func TestProgressPercentage_EdgeCases(t *testing.T) {
	terminal := map[string]struct{}{"Completed": {}}
	if got := ProgressPercentage(nil, terminal, 8); got != 0 {
		t.Errorf("empty stages = %d, want 0", got)
	}
	if got := ProgressPercentage(stagesWith(model.KindPurchase, "Completed"), terminal, 0); got != 0 {
		t.Errorf("n=0 = %d, want 0", got)
	}
	if got := CurrentStage(nil, terminal, 8); got != 1 {
		t.Errorf("CurrentStage(empty) = %d, want 1", got)
	}
	if got := CurrentStage(stagesWith(model.KindPurchase, "Completed", "Completed"), terminal, 8); got != 3 {
		t.Errorf("CurrentStage(partial, all terminal) = %d, want 3", got)
	}
}

func TestProgressPercentage_Monotonic(t *testing.T) {
	e := newEngine(t)
	sc, _ := e.Pipeline(model.KindHandover)
	terminal := sc.TerminalSet()

	stages := stagesWith(model.KindHandover,
		"Not Started", "Not Started", "Not Started", "Not Started",
		"Not Started", "Not Started", "Not Started", "Not Started")
	prev := ProgressPercentage(stages, terminal, sc.Len())
	for i, def := range sc.Stages {
		stages[i].Status = def.StatusOptions[len(def.StatusOptions)-1]
		got := ProgressPercentage(stages, terminal, sc.Len())
		if got < prev {
			t.Fatalf("progress decreased from %d to %d at stage %d", prev, got, def.ID)
		}
		prev = got
	}
	if prev != 100 {
		t.Fatalf("all terminal progress = %d, want 100", prev)
	}
}

func TestCurrentStage_SortsInput(t *testing.T) {
	terminal := map[string]struct{}{"Completed": {}}
	stages := []model.PipelineStageData{
		{StageID: 3, Status: "Not Started"},
		{StageID: 1, Status: "Completed"},
		{StageID: 2, Status: "In Progress"},
	}
	if got := CurrentStage(stages, terminal, 3); got != 2 {
		t.Fatalf("CurrentStage = %d, want 2", got)
	}
	if stages[0].StageID != 3 {
		t.Fatal("CurrentStage mutated its input")
	}
}

func TestResolve_UnknownKind(t *testing.T) {
	e := newEngine(t)
	if r := e.Resolve("mystery", nil); r != (Resolution{}) {
		t.Fatalf("Resolve(unknown) = %+v, want zero", r)
	}
}

func TestStageByID(t *testing.T) {
	e := newEngine(t)
	if def, ok := e.StageByID(model.KindSubdivision, 4); !ok || def.Name != "Mutation Forms" {
		t.Errorf("StageByID(subdivision, 4) = %+v, %v", def, ok)
	}
	if _, ok := e.StageByID(model.KindSubdivision, 8); ok {
		t.Error("StageByID(subdivision, 8) should be not found")
	}
	if _, ok := e.StageByID(model.KindPurchase, 0); ok {
		t.Error("StageByID(purchase, 0) should be not found")
	}
}

func TestCanTransitionToStatus_Permissive(t *testing.T) {
	e := newEngine(t)
	if !e.CanTransitionToStatus(model.KindPurchase, "Registered", model.StatusNotStarted, 8) {
		t.Error("backwards move inside vocabulary should be allowed")
	}
	if !e.CanTransitionToStatus(model.KindPurchase, "Not Started", "Registered", 8) {
		t.Error("skipping ahead inside vocabulary should be allowed")
	}
	if e.CanTransitionToStatus(model.KindPurchase, "Not Started", "Verified", 8) {
		t.Error("status from another stage's vocabulary should be rejected")
	}
	if e.CanTransitionToStatus(model.KindPurchase, "Not Started", "Completed", 99) {
		t.Error("unknown stage should be rejected")
	}
}

func TestNextRecommendedStatus(t *testing.T) {
	e := newEngine(t)
	got, ok := e.NextRecommendedStatus(model.KindPurchase, "Drafting", 4)
	if !ok || got != "Under Review" {
		t.Errorf("next of Drafting = %q, %v", got, ok)
	}
	if _, ok := e.NextRecommendedStatus(model.KindPurchase, "Fully Signed", 4); ok {
		t.Error("last status should have no next")
	}
	if _, ok := e.NextRecommendedStatus(model.KindPurchase, "Bogus", 4); ok {
		t.Error("unknown status should have no next")
	}
}

func TestInitialStages(t *testing.T) {
	e := newEngine(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	stages, err := e.InitialStages(model.KindSubdivision, "p1", now)
	if err != nil {
		t.Fatalf("InitialStages: %v", err)
	}
	if len(stages) != 7 {
		t.Fatalf("len = %d, want 7", len(stages))
	}
	if stages[0].Status != model.StatusInProgress || stages[0].StartedDate == nil || !stages[0].StartedDate.Equal(now) {
		t.Errorf("stage 1 = %+v", stages[0])
	}
	for _, s := range stages[1:] {
		if s.Status != model.StatusNotStarted || s.StartedDate != nil {
			t.Errorf("stage %d = %+v", s.StageID, s)
		}
	}

	if _, err := e.InitialStages("mystery", "p1", now); !errors.Is(err, ErrUnknownPipeline) {
		t.Errorf("unknown kind err = %v", err)
	}
}

func TestFillStages_ClosesGaps(t *testing.T) {
	e := newEngine(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	lone, err := e.ApplyStatus(model.PipelineStageData{
		PropertyID: "p1", Kind: model.KindPurchase, StageID: 3, Status: model.StatusNotStarted,
	}, "Verified", now)
	if err != nil {
		t.Fatalf("ApplyStatus: %v", err)
	}

	stages, err := e.FillStages(model.KindPurchase, "p1", []model.PipelineStageData{lone}, now)
	if err != nil {
		t.Fatalf("FillStages: %v", err)
	}
	if len(stages) != 8 {
		t.Fatalf("len = %d, want 8", len(stages))
	}
	for i, s := range stages {
		if s.StageID != i+1 {
			t.Fatalf("stages[%d].StageID = %d", i, s.StageID)
		}
	}
	if stages[0].Status != model.StatusInProgress || stages[2].Status != "Verified" {
		t.Errorf("stage 1 = %q, stage 3 = %q", stages[0].Status, stages[2].Status)
	}

	res := e.Resolve(model.KindPurchase, stages)
	if res.CurrentStage != 1 || res.Progress.Completed != 1 || res.Label != catalog.LabelIdentified {
		t.Errorf("resolution = %+v, want current 1, 1 completed, IDENTIFIED", res)
	}

	// Records of other kinds are ignored.
	other := model.PipelineStageData{PropertyID: "p1", Kind: model.KindHandover, StageID: 2, Status: "Verified"}
	stages, _ = e.FillStages(model.KindPurchase, "p1", []model.PipelineStageData{other}, now)
	if stages[1].Kind != model.KindPurchase || stages[1].Status != model.StatusNotStarted {
		t.Errorf("stage 2 = %+v", stages[1])
	}

	if _, err := e.FillStages("mystery", "p1", nil, now); !errors.Is(err, ErrUnknownPipeline) {
		t.Errorf("unknown kind err = %v", err)
	}
}

func TestApplyStatus(t *testing.T) {
	e := newEngine(t)
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	t1 := t0.Add(48 * time.Hour)

	stage := model.PipelineStageData{PropertyID: "p1", Kind: model.KindPurchase, StageID: 3, Status: model.StatusNotStarted}

	inProgress, err := e.ApplyStatus(stage, model.StatusInProgress, t0)
	if err != nil {
		t.Fatalf("ApplyStatus: %v", err)
	}
	if inProgress.StartedDate == nil || inProgress.CompletedDate != nil {
		t.Fatalf("in progress dates = %+v", inProgress)
	}
	if stage.StartedDate != nil {
		t.Fatal("ApplyStatus mutated its input")
	}

	verified, err := e.ApplyStatus(inProgress, "Verified", t1)
	if err != nil {
		t.Fatalf("ApplyStatus: %v", err)
	}
	if !verified.StartedDate.Equal(t0) {
		t.Errorf("StartedDate changed to %v", verified.StartedDate)
	}
	if verified.CompletedDate == nil || !verified.CompletedDate.Equal(t1) {
		t.Errorf("CompletedDate = %v, want %v", verified.CompletedDate, t1)
	}

	reopened, err := e.ApplyStatus(verified, "Issues Found", t1)
	if err != nil {
		t.Fatalf("ApplyStatus: %v", err)
	}
	if reopened.CompletedDate != nil {
		t.Error("leaving a terminal status should clear CompletedDate")
	}

	if _, err := e.ApplyStatus(stage, "Registered", t0); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("invalid status err = %v", err)
	}
	stage.StageID = 12
	if _, err := e.ApplyStatus(stage, model.StatusInProgress, t0); !errors.Is(err, ErrUnknownStage) {
		t.Errorf("unknown stage err = %v", err)
	}
}

func TestNew_RejectsInvalidCatalog(t *testing.T) {
	cat := catalog.Default()
	delete(cat.Pipelines, model.KindHandover)
	if _, err := New(cat); err == nil {
		t.Fatal("New accepted a catalog without a handover pipeline")
	}
}
