package catalog

import "github.com/theirongolddev/proplife/internal/model"

// CostCategory is one closed category of a cost domain.
type CostCategory struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// CostDomain is the ordered category table of one ledger. The order of
// Categories is the display order of every summary.
type CostDomain struct {
	Domain     model.CostDomain `json:"domain"`
	Categories []CostCategory   `json:"categories"`
}

// Has reports whether key is a category of the domain.
func (d CostDomain) Has(key string) bool {
	for _, c := range d.Categories {
		if c.Key == key {
			return true
		}
	}
	return false
}

// Label returns the display label of a category, or the key itself.
func (d CostDomain) Label(key string) string {
	for _, c := range d.Categories {
		if c.Key == key {
			return c.Label
		}
	}
	return key
}

// Keys returns the category keys in display order.
func (d CostDomain) Keys() []string {
	keys := make([]string, len(d.Categories))
	for i, c := range d.Categories {
		keys[i] = c.Key
	}
	return keys
}

func acquisitionCosts() CostDomain {
	return CostDomain{
		Domain: model.DomainAcquisition,
		Categories: []CostCategory{
			{Key: "legal_fees", Label: "Legal Fees"},
			{Key: "stamp_duty", Label: "Stamp Duty"},
			{Key: "valuation_fees", Label: "Valuation Fees"},
			{Key: "search_fees", Label: "Search & Registry Fees"},
			{Key: "agent_commission", Label: "Agent Commission"},
			{Key: "other", Label: "Other"},
		},
	}
}

func subdivisionCosts() CostDomain {
	return CostDomain{
		Domain: model.DomainSubdivision,
		Categories: []CostCategory{
			{Key: "survey_fees", Label: "Survey Fees"},
			{Key: "planning_fees", Label: "Planning Approval Fees"},
			{Key: "lcb_fees", Label: "LCB Fees"},
			{Key: "mutation_fees", Label: "Mutation Fees"},
			{Key: "title_fees", Label: "Title Processing Fees"},
			{Key: "other", Label: "Other"},
		},
	}
}

func handoverCosts() CostDomain {
	return CostDomain{
		Domain: model.DomainHandover,
		Categories: []CostCategory{
			{Key: "legal_fees", Label: "Legal Fees"},
			{Key: "transfer_fees", Label: "Transfer Fees"},
			{Key: "clearance_fees", Label: "Clearance Fees"},
			{Key: "agent_commission", Label: "Agent Commission"},
			{Key: "other", Label: "Other"},
		},
	}
}
