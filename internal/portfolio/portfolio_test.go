package portfolio

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/theirongolddev/proplife/internal/catalog"
	"github.com/theirongolddev/proplife/internal/lifecycle"
	"github.com/theirongolddev/proplife/internal/model"
	"github.com/theirongolddev/proplife/internal/source"
)

type memStore struct {
	props  []model.Property
	stages map[string]map[model.PipelineKind][]model.PipelineStageData
	err    error
}

func (m *memStore) ListProperties(context.Context) ([]model.Property, error) {
	return m.props, m.err
}

func (m *memStore) ListAllStages(context.Context) (map[string]map[model.PipelineKind][]model.PipelineStageData, error) {
	return m.stages, nil
}

func (m *memStore) SaveProperty(_ context.Context, p model.Property) (model.Property, error) {
	m.props = append(m.props, p)
	return p, nil
}

func (m *memStore) SaveStages(_ context.Context, stages []model.PipelineStageData) error {
	if m.stages == nil {
		m.stages = make(map[string]map[model.PipelineKind][]model.PipelineStageData)
	}
	for _, s := range stages {
		if m.stages[s.PropertyID] == nil {
			m.stages[s.PropertyID] = make(map[model.PipelineKind][]model.PipelineStageData)
		}
		m.stages[s.PropertyID][s.Kind] = upsertStage(m.stages[s.PropertyID][s.Kind], s)
	}
	return nil
}

func upsertStage(list []model.PipelineStageData, s model.PipelineStageData) []model.PipelineStageData {
	for i := range list {
		if list[i].StageID == s.StageID {
			list[i] = s
			return list
		}
	}
	return append(list, s)
}

func (m *memStore) ListStages(_ context.Context, id string, kind model.PipelineKind) ([]model.PipelineStageData, error) {
	return m.stages[id][kind], nil
}

func testEngine(t testing.TB) *lifecycle.Engine {
	t.Helper()
	e, err := lifecycle.New(catalog.Default())
	if err != nil {
		t.Fatalf("lifecycle.New: %v", err)
	}
	return e
}

func sampleProperties() []model.Property {
	return []model.Property{
		{ID: "a", Name: "Acacia Gardens", Type: "Apartment", Address: "Kilimani", Source: model.SourceDirectAddition},
		{ID: "b", Name: "Ruiru Plot 12", Type: "land", Source: model.SourcePurchasePipeline},
		{ID: "c", Name: "Juja Farm", Type: "Land", Notes: "river frontage", SubdivisionStatus: model.SubdivisionStarted},
		{ID: "d", Name: "Thika Road Shop", Type: "commercial", HandoverStatus: model.HandoverCompleted},
		{ID: "e", Name: "Syokimau Maisonette", Type: "house", HandoverStatus: model.HandoverInProgress, Source: model.SourcePurchasePipeline},
	}
}

func ids(props []model.Property) []string {
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = p.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterProperties(t *testing.T) {
	props := sampleProperties()
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filters", Filter{}, []string{"a", "b", "c", "d", "e"}},
		{"all is a no-op", Filter{Pipeline: "all", Status: "ALL"}, []string{"a", "b", "c", "d", "e"}},
		{"handover pipeline", Filter{Pipeline: "handover"}, []string{"d", "e"}},
		{"purchase pipeline", Filter{Pipeline: "purchase_pipeline"}, []string{"b"}},
		{"completed", Filter{Status: "completed"}, []string{"d"}},
		{"pending", Filter{Status: "pending"}, []string{"b"}},
		{"inactive", Filter{Status: "inactive"}, []string{"a"}},
		{"active", Filter{Status: "active"}, []string{"c", "e"}},
		{"type case-insensitive", Filter{Types: []string{"LAND"}}, []string{"b", "c"}},
		{"type set", Filter{Types: []string{"house", "commercial"}}, []string{"d", "e"}},
		{"search notes", Filter{Search: "RIVER"}, []string{"c"}},
		{"search address", Filter{Search: "kilimani"}, []string{"a"}},
		{"and combination", Filter{Types: []string{"land"}, Status: "active"}, []string{"c"}},
		{"no match", Filter{Pipeline: "subdivision", Search: "shop"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterProperties(props, tt.filter))
			if !equalIDs(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_OrderIndependent(t *testing.T) {
	props := sampleProperties()
	f := Filter{Types: []string{"land", "house"}, Search: "a"}
	forward := ids(FilterProperties(props, f))

	reversed := make([]model.Property, len(props))
	for i, p := range props {
		reversed[len(props)-1-i] = p
	}
	backward := ids(FilterProperties(reversed, f))
	if len(forward) != len(backward) {
		t.Fatalf("forward %v, backward %v", forward, backward)
	}
	seen := make(map[string]bool)
	for _, id := range forward {
		seen[id] = true
	}
	for _, id := range backward {
		if !seen[id] {
			t.Fatalf("forward %v, backward %v", forward, backward)
		}
	}
}

func TestFilter_Validate(t *testing.T) {
	valid := []Filter{{}, {Pipeline: "all"}, {Pipeline: "subdivision", Status: "pending"}}
	for _, f := range valid {
		if err := f.Validate(); err != nil {
			t.Errorf("Validate(%+v) = %v", f, err)
		}
	}
	invalid := []Filter{{Pipeline: "rental"}, {Status: "sold"}}
	for _, f := range invalid {
		if err := f.Validate(); !errors.Is(err, ErrInvalidFilter) {
			t.Errorf("Validate(%+v) = %v, want ErrInvalidFilter", f, err)
		}
	}
}

func TestCounts_AllKeys(t *testing.T) {
	counts := Counts(nil)
	if len(counts) != len(model.WorkflowTypes) {
		t.Fatalf("len = %d, want %d", len(counts), len(model.WorkflowTypes))
	}
	for _, wt := range model.WorkflowTypes {
		if v, ok := counts[wt]; !ok || v != 0 {
			t.Errorf("counts[%s] = %d, %v", wt, v, ok)
		}
	}

	counts = Counts(sampleProperties())
	want := map[model.WorkflowType]int{
		model.WorkflowDirectAddition:   1,
		model.WorkflowPurchasePipeline: 1,
		model.WorkflowHandover:         2,
		model.WorkflowSubdivision:      1,
	}
	for wt, n := range want {
		if counts[wt] != n {
			t.Errorf("counts[%s] = %d, want %d", wt, counts[wt], n)
		}
	}
}

func TestLoad_EvaluatesInOrder(t *testing.T) {
	e := testEngine(t)
	props := sampleProperties()
	initial, err := e.InitialStages(model.KindPurchase, "b", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	ms := &memStore{
		props: props,
		stages: map[string]map[model.PipelineKind][]model.PipelineStageData{
			"b": {model.KindPurchase: initial},
		},
	}

	var calls atomic.Int64
	result, err := Load(context.Background(), ms, e, func(current, total int) {
		calls.Add(1)
		if total != len(props) {
			t.Errorf("total = %d, want %d", total, len(props))
		}
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if result.Total != 5 || result.WithStages != 1 || len(result.Snapshots) != 5 {
		t.Fatalf("result = %+v", result)
	}
	if calls.Load() != 5 {
		t.Errorf("progress calls = %d, want 5", calls.Load())
	}
	for i, s := range result.Snapshots {
		if s.Property.ID != props[i].ID {
			t.Fatalf("snapshot %d is %s, want %s", i, s.Property.ID, props[i].ID)
		}
	}
	b := result.Snapshots[1]
	if b.Workflow != model.WorkflowPurchasePipeline || b.Label != catalog.LabelIdentified {
		t.Errorf("b = %+v", b)
	}

	handover := Apply(result.Snapshots, Filter{Pipeline: "handover"})
	if len(handover) != 2 {
		t.Errorf("Apply(handover) = %d, want 2", len(handover))
	}
	if c := CountSnapshots(result.Snapshots); c[model.WorkflowHandover] != 2 {
		t.Errorf("CountSnapshots = %v", c)
	}
}

func TestLoad_Empty(t *testing.T) {
	result, err := Load(context.Background(), &memStore{}, testEngine(t), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if result.Total != 0 || result.Snapshots != nil {
		t.Errorf("result = %+v", result)
	}
}

func TestLoad_ReaderError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Load(context.Background(), &memStore{err: boom}, testEngine(t), nil)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestEvaluate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Evaluate(ctx, testEngine(t), sampleProperties(), nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestImport(t *testing.T) {
	e := testEngine(t)
	ms := &memStore{}
	records := []source.Record{
		{Property: model.Property{ID: "p1", Name: "A", Source: model.SourcePurchasePipeline}},
		{
			Property: model.Property{ID: "p2", Name: "B", HandoverStatus: model.HandoverInProgress},
			Stages: []model.PipelineStageData{
				{PropertyID: "p2", Kind: model.KindHandover, StageID: 1, Status: "Completed"},
			},
		},
		{
			Property: model.Property{ID: "p3", Name: "C"},
			Stages: []model.PipelineStageData{
				{PropertyID: "p3", Kind: model.KindPurchase, StageID: 1, Status: "Registered"},
			},
		},
		{
			Property: model.Property{ID: "p4", Name: "D"},
			Stages: []model.PipelineStageData{
				{PropertyID: "p4", Kind: model.KindSubdivision, StageID: 9, Status: "Completed"},
			},
		},
		{Property: model.Property{ID: "p5", Name: "E"}},
	}

	result, err := Import(context.Background(), ms, e, records, time.Now())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Imported != 3 || len(result.Rejected) != 2 {
		t.Fatalf("result = %+v", result)
	}
	if !errors.Is(result.Rejected[0], lifecycle.ErrInvalidStatus) {
		t.Errorf("rejected[0] = %v", result.Rejected[0])
	}
	if !errors.Is(result.Rejected[1], lifecycle.ErrUnknownStage) {
		t.Errorf("rejected[1] = %v", result.Rejected[1])
	}
	if result.Initialized != 1 || len(ms.stages["p1"][model.KindPurchase]) != 8 {
		t.Errorf("p1 stages = %d, initialized = %d", len(ms.stages["p1"][model.KindPurchase]), result.Initialized)
	}
	p2 := ms.stages["p2"][model.KindHandover]
	if len(p2) != 8 {
		t.Fatalf("p2 stages = %+v", p2)
	}
	for i, st := range p2 {
		if st.StageID != i+1 {
			t.Errorf("p2 stage[%d].StageID = %d", i, st.StageID)
		}
	}
	if p2[0].Status != "Completed" || p2[1].Status != model.StatusNotStarted {
		t.Errorf("p2 statuses = %q, %q", p2[0].Status, p2[1].Status)
	}
	if _, ok := ms.stages["p5"]; ok {
		t.Error("direct addition should not get stages")
	}
	if result.StagesSaved != 16 {
		t.Errorf("StagesSaved = %d, want 16", result.StagesSaved)
	}
}

func TestImport_KeepsStoredPipeline(t *testing.T) {
	e := testEngine(t)
	ms := &memStore{}
	rec := source.Record{Property: model.Property{ID: "p1", Name: "A", Source: model.SourcePurchasePipeline}}

	first, err := Import(context.Background(), ms, e, []source.Record{rec}, time.Now())
	if err != nil || first.Initialized != 1 {
		t.Fatalf("first import = %+v, %v", first, err)
	}
	second, err := Import(context.Background(), ms, e, []source.Record{rec}, time.Now())
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if second.Initialized != 0 || second.StagesSaved != 0 {
		t.Errorf("re-import reinitialized the pipeline: %+v", second)
	}
	if got := len(ms.stages["p1"][model.KindPurchase]); got != 8 {
		t.Errorf("stored stages = %d, want 8", got)
	}
}

func TestImport_MergesPartialPipeline(t *testing.T) {
	e := testEngine(t)
	ms := &memStore{}
	now := time.Now()

	stored, err := e.InitialStages(model.KindPurchase, "p1", now)
	if err != nil {
		t.Fatal(err)
	}
	stored[0], err = e.ApplyStatus(stored[0], "Completed", now)
	if err != nil {
		t.Fatal(err)
	}
	if err := ms.SaveStages(context.Background(), stored); err != nil {
		t.Fatal(err)
	}

	rec := source.Record{
		Property: model.Property{ID: "p1", Name: "A", Source: model.SourcePurchasePipeline},
		Stages: []model.PipelineStageData{
			{PropertyID: "p1", Kind: model.KindPurchase, StageID: 3, Status: "Verified"},
		},
	}
	result, err := Import(context.Background(), ms, e, []source.Record{rec}, now)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.StagesSaved != 8 || result.Initialized != 0 {
		t.Errorf("result = %+v", result)
	}

	got := ms.stages["p1"][model.KindPurchase]
	if len(got) != 8 {
		t.Fatalf("stages = %d, want 8", len(got))
	}
	if got[0].Status != "Completed" || got[2].Status != "Verified" || got[7].Status != model.StatusNotStarted {
		t.Errorf("statuses = %q, %q, %q", got[0].Status, got[2].Status, got[7].Status)
	}
}
