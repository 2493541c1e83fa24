package model

import "time"

// Stage status values shared by every catalog's vocabulary.
const (
	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
)

// PipelineStageData is the persisted state of one stage for one property.
type PipelineStageData struct {
	PropertyID    string       `json:"property_id"`
	Kind          PipelineKind `json:"kind"`
	StageID       int          `json:"stage_id"`
	Status        string       `json:"status"`
	StartedDate   *time.Time   `json:"started_date,omitempty"`
	CompletedDate *time.Time   `json:"completed_date,omitempty"`
	Notes         string       `json:"notes,omitempty"`
	Documents     []string     `json:"documents,omitempty"`
}

// Range is an inclusive stage-number interval.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether n lies inside the range.
func (r Range) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

// Len returns the number of stage numbers in the range.
func (r Range) Len() int {
	if r.Max < r.Min {
		return 0
	}
	return r.Max - r.Min + 1
}

// Progress is the completed/total/percentage triple shown for a pipeline.
type Progress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Done reports whether every stage of the pipeline is terminal.
func (p Progress) Done() bool {
	return p.Total > 0 && p.Completed == p.Total
}

// FilterStatus is the coarse status vocabulary used by the portfolio filter.
type FilterStatus string

const (
	FilterActive    FilterStatus = "active"
	FilterCompleted FilterStatus = "completed"
	FilterPending   FilterStatus = "pending"
	FilterInactive  FilterStatus = "inactive"
)

// Snapshot holds everything derived for one property in one evaluation.
type Snapshot struct {
	Property     Property            `json:"property"`
	Workflow     WorkflowType        `json:"workflow"`
	Kind         PipelineKind        `json:"kind,omitempty"`
	Stages       []PipelineStageData `json:"stages,omitempty"`
	CurrentStage int                 `json:"current_stage,omitempty"`
	DisplayStage int                 `json:"display_stage,omitempty"`
	StageName    string              `json:"stage_name,omitempty"`
	Progress     Progress            `json:"progress"`
	Label        string              `json:"label,omitempty"`
	Status       FilterStatus        `json:"status"`
}

// HasPipeline reports whether the snapshot's workflow is backed by a stage catalog.
func (s Snapshot) HasPipeline() bool {
	return s.Kind != ""
}
