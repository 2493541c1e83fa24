package lifecycle

import (
	"math"
	"sort"

	"github.com/theirongolddev/proplife/internal/catalog"
	"github.com/theirongolddev/proplife/internal/model"
)

// Resolution is the progress view of one pipeline.
type Resolution struct {
	CurrentStage int            `json:"current_stage"`
	Progress     model.Progress `json:"progress"`
	Label        string         `json:"label"`
}

// CurrentStage returns the id of the first stage whose status is not
// terminal. When every stage is terminal the pipeline is complete and n is
// returned. A partially initialised pipeline whose records are all terminal
// points at the first missing stage.
func CurrentStage(stages []model.PipelineStageData, terminal map[string]struct{}, n int) int {
	ordered := sortedStages(stages)
	for _, s := range ordered {
		if _, done := terminal[s.Status]; !done {
			return s.StageID
		}
	}

	if len(ordered) == 0 {
		if n > 0 {
			return 1
		}
		return 0
	}
	if len(ordered) < n {
		next := ordered[len(ordered)-1].StageID + 1
		if next > n {
			next = n
		}
		return next
	}
	return n
}

// CompletedCount returns how many stages carry a terminal status, never more than n.
func CompletedCount(stages []model.PipelineStageData, terminal map[string]struct{}, n int) int {
	count := 0
	for _, s := range stages {
		if _, done := terminal[s.Status]; done {
			count++
		}
	}
	if count > n {
		count = n
	}
	return count
}

// ProgressPercentage returns round(100 * completed / n), or 0 for an empty catalog.
func ProgressPercentage(stages []model.PipelineStageData, terminal map[string]struct{}, n int) int {
	if n <= 0 {
		return 0
	}
	completed := CompletedCount(stages, terminal, n)
	return int(math.Round(100 * float64(completed) / float64(n)))
}

// ProgressOf returns the completed/total/percentage triple.
func ProgressOf(stages []model.PipelineStageData, terminal map[string]struct{}, n int) model.Progress {
	return model.Progress{
		Completed:  CompletedCount(stages, terminal, n),
		Total:      n,
		Percentage: ProgressPercentage(stages, terminal, n),
	}
}

// CoarseStatusLabel returns COMPLETED when every stage is terminal and the
// catalog's label for the current stage otherwise.
func CoarseStatusLabel(sc catalog.StageCatalog, stages []model.PipelineStageData) string {
	terminal := sc.TerminalSet()
	n := sc.Len()
	if n > 0 && CompletedCount(stages, terminal, n) == n {
		return catalog.LabelCompleted
	}
	return sc.LabelFor(CurrentStage(stages, terminal, n))
}

// Resolve computes current stage, progress and label for one pipeline kind.
// An unknown kind resolves to the zero Resolution.
func (e *Engine) Resolve(kind model.PipelineKind, stages []model.PipelineStageData) Resolution {
	sc, ok := e.cat.Pipeline(kind)
	if !ok {
		return Resolution{}
	}
	terminal := sc.TerminalSet()
	n := sc.Len()

	return Resolution{
		CurrentStage: CurrentStage(stages, terminal, n),
		Progress:     ProgressOf(stages, terminal, n),
		Label:        CoarseStatusLabel(sc, stages),
	}
}

// IsTerminal reports whether status marks a stage of kind as done.
func (e *Engine) IsTerminal(kind model.PipelineKind, status string) bool {
	sc, ok := e.cat.Pipeline(kind)
	if !ok {
		return false
	}
	for _, t := range sc.Terminal {
		if t == status {
			return true
		}
	}
	return false
}

func sortedStages(stages []model.PipelineStageData) []model.PipelineStageData {
	if sort.SliceIsSorted(stages, func(i, j int) bool { return stages[i].StageID < stages[j].StageID }) {
		return stages
	}
	ordered := make([]model.PipelineStageData, len(stages))
	copy(ordered, stages)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StageID < ordered[j].StageID
	})
	return ordered
}
