package catalog

import "github.com/theirongolddev/proplife/internal/model"

// Layout places a workflow's stages on the shared stage-number line and
// maps them to the numbers users see.
type Layout struct {
	Range         model.Range `json:"range"`
	DisplayOffset int         `json:"display_offset"`
}

// Display converts an actual stage number to its display number.
func (l Layout) Display(actual int) int {
	return actual - l.DisplayOffset
}

// Actual converts a display number back to the actual stage number.
func (l Layout) Actual(display int) int {
	return display + l.DisplayOffset
}

// DisplayRange returns Range expressed in display numbers.
func (l Layout) DisplayRange() model.Range {
	return model.Range{Min: l.Display(l.Range.Min), Max: l.Display(l.Range.Max)}
}

var regularRange = model.Range{Min: 1, Max: 10}

func layouts() map[model.WorkflowType]Layout {
	return map[model.WorkflowType]Layout{
		model.WorkflowDirectAddition:   {Range: regularRange},
		model.WorkflowPurchasePipeline: {Range: regularRange},
		model.WorkflowHandover:         {Range: regularRange},
		model.WorkflowSubdivision:      {Range: model.Range{Min: 10, Max: 16}, DisplayOffset: 9},
	}
}

// Discrepancy records a constant that exists with two different values in
// the system this catalog was built from. The canonical value is the one
// in use; the alternate is kept only so it can be reported.
type Discrepancy struct {
	Subject   string
	Canonical string
	Alternate string
}

// Discrepancies lists the unresolved constant conflicts awaiting a product decision.
func Discrepancies() []Discrepancy {
	return []Discrepancy{
		{
			Subject:   "subdivision stage range",
			Canonical: "10-16",
			Alternate: "11-16",
		},
		{
			Subject:   "subdivision display offset",
			Canonical: "actual - 9",
			Alternate: "actual - 10",
		},
		{
			Subject:   "handover cost category labels",
			Canonical: "Legal Fees, Transfer Fees, Clearance Fees, Agent Commission, Other",
			Alternate: "Conveyancing Fees, Registration Fees, Rates & Rent Clearance, Brokerage, Miscellaneous",
		},
	}
}
