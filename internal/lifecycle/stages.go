package lifecycle

import (
	"github.com/theirongolddev/proplife/internal/catalog"
	"github.com/theirongolddev/proplife/internal/model"
)

// StageConfig is everything a view needs to lay out a workflow's stages and documents.
type StageConfig struct {
	WorkflowType      model.WorkflowType     `json:"workflow_type"`
	StageRange        model.Range            `json:"stage_range"`
	DisplayRange      model.Range            `json:"display_range"`
	DocTypes          []catalog.DocumentType `json:"doc_types"`
	StageNumbers      []int                  `json:"stage_numbers"`
	VisibleStageCount int                    `json:"visible_stage_count"`
}

func (e *Engine) layout(wt model.WorkflowType) catalog.Layout {
	if l, ok := e.cat.Layouts[wt]; ok {
		return l
	}
	return e.cat.Layouts[model.WorkflowDirectAddition]
}

// StageRange returns the actual stage numbers visible for a workflow.
func (e *Engine) StageRange(wt model.WorkflowType) model.Range {
	return e.layout(wt).Range
}

// DisplayStageNumber maps an actual stage number to the number shown to users.
func (e *Engine) DisplayStageNumber(actual int, wt model.WorkflowType) int {
	return e.layout(wt).Display(actual)
}

// ActualStageNumber maps a display number back to the actual stage number.
func (e *Engine) ActualStageNumber(display int, wt model.WorkflowType) int {
	return e.layout(wt).Actual(display)
}

// IsStageVisible reports whether an actual stage number belongs to the workflow's range.
func (e *Engine) IsStageVisible(stage int, wt model.WorkflowType) bool {
	return e.StageRange(wt).Contains(stage)
}

// FilteredDocTypes returns the documents visible for a workflow, in catalog
// order. Subdivision sees only its own documents; regular workflows see
// everything except the subdivision-only ones. The shared key is in both.
func (e *Engine) FilteredDocTypes(wt model.WorkflowType) []catalog.DocumentType {
	docs := make([]catalog.DocumentType, 0, len(e.cat.DocTypes))
	for _, d := range e.cat.DocTypes {
		if e.docVisible(d.Key, wt) {
			docs = append(docs, d)
		}
	}
	return docs
}

// IsDocTypeAllowedForWorkflow reports whether a document key is visible for a workflow.
func (e *Engine) IsDocTypeAllowedForWorkflow(key string, wt model.WorkflowType) bool {
	for _, d := range e.cat.DocTypes {
		if d.Key == key {
			return e.docVisible(key, wt)
		}
	}
	return false
}

func (e *Engine) docVisible(key string, wt model.WorkflowType) bool {
	_, isSub := e.subdivisionDocs[key]
	if wt == model.WorkflowSubdivision {
		return isSub
	}
	return !isSub || key == e.cat.SharedDocKey
}

// StageConfigFor assembles the stage layout of a workflow.
func (e *Engine) StageConfigFor(wt model.WorkflowType) StageConfig {
	l := e.layout(wt)
	numbers := make([]int, 0, l.Range.Len())
	for n := l.Range.Min; n <= l.Range.Max; n++ {
		numbers = append(numbers, n)
	}

	return StageConfig{
		WorkflowType:      wt,
		StageRange:        l.Range,
		DisplayRange:      l.DisplayRange(),
		DocTypes:          e.FilteredDocTypes(wt),
		StageNumbers:      numbers,
		VisibleStageCount: len(numbers),
	}
}

// ActualForLocal places a catalog-local stage id on the workflow's actual
// stage-number line.
func (e *Engine) ActualForLocal(local int, wt model.WorkflowType) int {
	return e.StageRange(wt).Min + local - 1
}
