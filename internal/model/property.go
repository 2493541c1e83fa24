// Package model defines domain types for properties, pipeline stages and ledgers.
package model

import "time"

// PropertySource records how a property entered the portfolio.
type PropertySource string

const (
	SourceDirectAddition     PropertySource = "DIRECT_ADDITION"
	SourcePurchasePipeline   PropertySource = "PURCHASE_PIPELINE"
	SourceSubdivisionProcess PropertySource = "SUBDIVISION_PROCESS"
)

// SubdivisionStatus is the persisted subdivision flag. The zero value means not started.
type SubdivisionStatus string

const (
	SubdivisionNotStarted SubdivisionStatus = "NOT_STARTED"
	SubdivisionStarted    SubdivisionStatus = "SUB_DIVISION_STARTED"
	SubdivisionCompleted  SubdivisionStatus = "SUBDIVIDED"
)

// HandoverStatus is the persisted handover flag. The zero value means not started.
type HandoverStatus string

const (
	HandoverNotStarted HandoverStatus = "NOT_STARTED"
	HandoverInProgress HandoverStatus = "IN_PROGRESS"
	HandoverCompleted  HandoverStatus = "COMPLETED"
)

// Property is the read-only input record for every derivation.
// Only the flags drive the engine; the descriptive fields feed search.
type Property struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Address           string            `json:"address"`
	Type              string            `json:"type"`
	Notes             string            `json:"notes,omitempty"`
	Source            PropertySource    `json:"property_source"`
	SubdivisionStatus SubdivisionStatus `json:"subdivision_status,omitempty"`
	HandoverStatus    HandoverStatus    `json:"handover_status,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// SubdivisionActive reports whether the subdivision flag is set past not started.
func (p Property) SubdivisionActive() bool {
	return p.SubdivisionStatus != "" && p.SubdivisionStatus != SubdivisionNotStarted
}

// HandoverActive reports whether the handover flag is set past not started.
func (p Property) HandoverActive() bool {
	return p.HandoverStatus != "" && p.HandoverStatus != HandoverNotStarted
}

// WorkflowType is the derived lifecycle track of a property. Never stored.
type WorkflowType string

const (
	WorkflowDirectAddition   WorkflowType = "direct_addition"
	WorkflowPurchasePipeline WorkflowType = "purchase_pipeline"
	WorkflowHandover         WorkflowType = "handover"
	WorkflowSubdivision      WorkflowType = "subdivision"
)

// WorkflowTypes lists every workflow in display order.
var WorkflowTypes = []WorkflowType{
	WorkflowDirectAddition,
	WorkflowPurchasePipeline,
	WorkflowHandover,
	WorkflowSubdivision,
}

// IsRegular reports whether the workflow uses the regular 1..10 stage numbering.
func (w WorkflowType) IsRegular() bool {
	return w != WorkflowSubdivision
}

// Valid reports whether w is one of the four workflow types.
func (w WorkflowType) Valid() bool {
	for _, v := range WorkflowTypes {
		if v == w {
			return true
		}
	}
	return false
}

// PipelineKind selects one of the stage catalogs.
type PipelineKind string

const (
	KindPurchase    PipelineKind = "purchase"
	KindHandover    PipelineKind = "handover"
	KindSubdivision PipelineKind = "subdivision"
)

// PipelineKinds lists every catalog kind.
var PipelineKinds = []PipelineKind{KindPurchase, KindHandover, KindSubdivision}
