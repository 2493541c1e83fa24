// Package catalog holds the immutable stage, document and cost tables the
// lifecycle engine is configured with.
package catalog

import (
	"fmt"

	"github.com/theirongolddev/proplife/internal/model"
)

// StageDefinition describes one step of a pipeline catalog.
type StageDefinition struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	StatusOptions []string `json:"status_options"`
	EstimatedDays int      `json:"estimated_days,omitempty"`
}

// HasStatus reports whether status belongs to the stage's vocabulary.
func (d StageDefinition) HasStatus(status string) bool {
	return indexOf(d.StatusOptions, status) >= 0
}

// LabelRule maps an inclusive range of stage ids to a coarse status label.
type LabelRule struct {
	From  int
	To    int
	Label string
}

// StageCatalog is the full definition of one pipeline.
type StageCatalog struct {
	Kind     model.PipelineKind
	Stages   []StageDefinition
	Terminal []string
	// Labels is ordered; the first rule's label is the fallback for
	// stage ids no rule covers.
	Labels []LabelRule
}

// Len returns the number of stages N.
func (c StageCatalog) Len() int {
	return len(c.Stages)
}

// Stage returns the definition with the given catalog-local id.
func (c StageCatalog) Stage(id int) (StageDefinition, bool) {
	for _, s := range c.Stages {
		if s.ID == id {
			return s, true
		}
	}
	return StageDefinition{}, false
}

// TerminalSet returns the terminal statuses as a lookup set.
func (c StageCatalog) TerminalSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Terminal))
	for _, s := range c.Terminal {
		set[s] = struct{}{}
	}
	return set
}

// Vocabulary returns every status used by any stage of the catalog.
func (c StageCatalog) Vocabulary() map[string]struct{} {
	set := make(map[string]struct{})
	for _, s := range c.Stages {
		for _, o := range s.StatusOptions {
			set[o] = struct{}{}
		}
	}
	return set
}

// LabelFor maps a current stage id to its coarse label.
func (c StageCatalog) LabelFor(stageID int) string {
	for _, r := range c.Labels {
		if stageID >= r.From && stageID <= r.To {
			return r.Label
		}
	}
	if len(c.Labels) == 0 {
		return ""
	}
	return c.Labels[0].Label
}

// Catalog is the complete configuration injected into the lifecycle engine.
type Catalog struct {
	Pipelines          map[model.PipelineKind]StageCatalog
	DocTypes           []DocumentType
	SubdivisionDocKeys []string
	SharedDocKey       string
	Layouts            map[model.WorkflowType]Layout
	CostDomains        map[model.CostDomain]CostDomain
}

// Default returns the catalog the application ships with.
func Default() Catalog {
	return Catalog{
		Pipelines: map[model.PipelineKind]StageCatalog{
			model.KindPurchase:    purchaseCatalog(),
			model.KindHandover:    handoverCatalog(),
			model.KindSubdivision: subdivisionCatalog(),
		},
		DocTypes:           docTypes(),
		SubdivisionDocKeys: subdivisionDocKeys(),
		SharedDocKey:       DocRegisteredTitle,
		Layouts:            layouts(),
		CostDomains: map[model.CostDomain]CostDomain{
			model.DomainAcquisition: acquisitionCosts(),
			model.DomainSubdivision: subdivisionCosts(),
			model.DomainHandover:    handoverCosts(),
		},
	}
}

// Pipeline returns the stage catalog of a kind.
func (c Catalog) Pipeline(kind model.PipelineKind) (StageCatalog, bool) {
	sc, ok := c.Pipelines[kind]
	return sc, ok
}

// CostDomain returns the category table of a cost domain.
func (c Catalog) CostDomain(domain model.CostDomain) (CostDomain, bool) {
	d, ok := c.CostDomains[domain]
	return d, ok
}

// Validate checks the structural invariants every consumer relies on.
func (c Catalog) Validate() error {
	for _, kind := range model.PipelineKinds {
		sc, ok := c.Pipelines[kind]
		if !ok {
			return fmt.Errorf("catalog: missing %s pipeline", kind)
		}
		if err := sc.validate(); err != nil {
			return err
		}
	}

	seen := make(map[string]struct{}, len(c.DocTypes))
	for _, d := range c.DocTypes {
		if _, dup := seen[d.Key]; dup {
			return fmt.Errorf("catalog: duplicate document key %q", d.Key)
		}
		seen[d.Key] = struct{}{}
	}
	for _, k := range c.SubdivisionDocKeys {
		if _, ok := seen[k]; !ok {
			return fmt.Errorf("catalog: subdivision document %q not in document catalog", k)
		}
	}
	if indexOf(c.SubdivisionDocKeys, c.SharedDocKey) < 0 {
		return fmt.Errorf("catalog: shared document %q must be a subdivision document", c.SharedDocKey)
	}

	for _, wt := range model.WorkflowTypes {
		l, ok := c.Layouts[wt]
		if !ok {
			return fmt.Errorf("catalog: missing layout for %s", wt)
		}
		if l.Range.Len() == 0 {
			return fmt.Errorf("catalog: empty stage range for %s", wt)
		}
	}

	for _, domain := range model.CostDomains {
		d, ok := c.CostDomains[domain]
		if !ok {
			return fmt.Errorf("catalog: missing cost domain %s", domain)
		}
		if len(d.Categories) == 0 {
			return fmt.Errorf("catalog: cost domain %s has no categories", domain)
		}
	}
	return nil
}

func (c StageCatalog) validate() error {
	for i, s := range c.Stages {
		if s.ID != i+1 {
			return fmt.Errorf("catalog: %s stage ids must be 1..N without gaps, got %d at position %d", c.Kind, s.ID, i+1)
		}
		if len(s.StatusOptions) == 0 {
			return fmt.Errorf("catalog: %s stage %d has no status options", c.Kind, s.ID)
		}
		if !s.HasStatus(model.StatusNotStarted) {
			return fmt.Errorf("catalog: %s stage %d lacks %q", c.Kind, s.ID, model.StatusNotStarted)
		}
	}
	if len(c.Stages) > 0 && !c.Stages[0].HasStatus(model.StatusInProgress) {
		return fmt.Errorf("catalog: %s stage 1 lacks %q", c.Kind, model.StatusInProgress)
	}

	vocab := c.Vocabulary()
	for _, t := range c.Terminal {
		if _, ok := vocab[t]; !ok {
			return fmt.Errorf("catalog: %s terminal status %q is not in its vocabulary", c.Kind, t)
		}
	}
	return nil
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}
