package portfolio

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/proplife/internal/lifecycle"
	"github.com/theirongolddev/proplife/internal/model"
)

// ErrInvalidFilter is returned by Filter.Validate for unknown pipeline or status values.
var ErrInvalidFilter = errors.New("portfolio: invalid filter")

// All disables the pipeline or status filter, as does the empty string.
const All = "all"

// Filter narrows a property collection. Every field combines with AND.
type Filter struct {
	Pipeline string   // workflow type
	Status   string   // active, completed, pending or inactive
	Types    []string // property types, matched case-insensitively
	Search   string   // substring of name, address, type or notes
}

// Validate rejects pipeline and status values outside their vocabularies.
func (f Filter) Validate() error {
	if !isAll(f.Pipeline) && !model.WorkflowType(f.Pipeline).Valid() {
		return fmt.Errorf("%w: unknown pipeline %q", ErrInvalidFilter, f.Pipeline)
	}
	if !isAll(f.Status) {
		switch model.FilterStatus(f.Status) {
		case model.FilterActive, model.FilterCompleted, model.FilterPending, model.FilterInactive:
		default:
			return fmt.Errorf("%w: unknown status %q", ErrInvalidFilter, f.Status)
		}
	}
	return nil
}

// Matches reports whether p passes every filter.
func (f Filter) Matches(p model.Property) bool {
	return f.matchRest(p) &&
		f.matchPipeline(lifecycle.Classify(p)) &&
		f.matchStatus(lifecycle.FilterStatusOf(p))
}

// WithoutPipeline returns a copy of f that keeps every workflow. Counts use
// it so each tab's number reflects the other filters.
func (f Filter) WithoutPipeline() Filter {
	f.Pipeline = ""
	return f
}

func (f Filter) matchPipeline(wt model.WorkflowType) bool {
	return isAll(f.Pipeline) || model.WorkflowType(f.Pipeline) == wt
}

func (f Filter) matchStatus(s model.FilterStatus) bool {
	return isAll(f.Status) || model.FilterStatus(f.Status) == s
}

func (f Filter) matchRest(p model.Property) bool {
	if len(f.Types) > 0 {
		found := false
		for _, t := range f.Types {
			if strings.EqualFold(strings.TrimSpace(t), p.Type) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Search != "" {
		q := strings.TrimSpace(f.Search)
		if !containsIgnoreCase(p.Name, q) &&
			!containsIgnoreCase(p.Address, q) &&
			!containsIgnoreCase(p.Type, q) &&
			!containsIgnoreCase(p.Notes, q) {
			return false
		}
	}
	return true
}

// FilterProperties returns the properties that pass f, preserving order.
func FilterProperties(props []model.Property, f Filter) []model.Property {
	var result []model.Property
	for _, p := range props {
		if f.Matches(p) {
			result = append(result, p)
		}
	}
	return result
}

// Apply filters evaluated snapshots, reusing their computed workflow and status.
func Apply(snaps []model.Snapshot, f Filter) []model.Snapshot {
	var result []model.Snapshot
	for _, s := range snaps {
		if f.matchPipeline(s.Workflow) && f.matchStatus(s.Status) && f.matchRest(s.Property) {
			result = append(result, s)
		}
	}
	return result
}

// Counts classifies every property and returns a count per workflow. Every
// workflow key is present, including zeros.
func Counts(props []model.Property) map[model.WorkflowType]int {
	counts := make(map[model.WorkflowType]int, len(model.WorkflowTypes))
	for _, wt := range model.WorkflowTypes {
		counts[wt] = 0
	}
	for _, p := range props {
		counts[lifecycle.Classify(p)]++
	}
	return counts
}

// CountSnapshots is Counts over already evaluated snapshots.
func CountSnapshots(snaps []model.Snapshot) map[model.WorkflowType]int {
	counts := make(map[model.WorkflowType]int, len(model.WorkflowTypes))
	for _, wt := range model.WorkflowTypes {
		counts[wt] = 0
	}
	for _, s := range snaps {
		counts[s.Workflow]++
	}
	return counts
}

func isAll(v string) bool {
	return v == "" || strings.EqualFold(v, All)
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
