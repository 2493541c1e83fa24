package catalog

import "github.com/theirongolddev/proplife/internal/model"

const (
	ns = model.StatusNotStarted
	ip = model.StatusInProgress
)

// Coarse labels of the purchase pipeline. LabelCompleted applies to every
// catalog once all of its stages are terminal.
const (
	LabelIdentified    = "IDENTIFIED"
	LabelNegotiating   = "NEGOTIATING"
	LabelDueDiligence  = "DUE_DILIGENCE"
	LabelUnderContract = "UNDER_CONTRACT"
	LabelFinancing     = "FINANCING"
	LabelClosing       = "CLOSING"
	LabelCompleted     = "COMPLETED"
)

// Coarse labels of the handover pipeline.
const (
	LabelHandoverInitiated = "INITIATED"
	LabelBuyerVerification = "BUYER_VERIFICATION"
	LabelAgreement         = "AGREEMENT"
	LabelPayment           = "PAYMENT"
	LabelDocumentation     = "DOCUMENTATION"
	LabelTransfer          = "TRANSFER"
)

// Coarse labels of the subdivision pipeline.
const (
	LabelPlanning  = "PLANNING"
	LabelApprovals = "APPROVALS"
	LabelSurveying = "SURVEYING"
	LabelTitling   = "TITLING"
)

func purchaseCatalog() StageCatalog {
	return StageCatalog{
		Kind: model.KindPurchase,
		Stages: []StageDefinition{
			{
				ID: 1, Name: "Property Identification",
				Description:   "Shortlist the property and record the seller's details.",
				StatusOptions: []string{ns, ip, "On Hold", "Completed"},
				EstimatedDays: 7,
			},
			{
				ID: 2, Name: "Negotiation & Offer",
				Description:   "Agree price and terms with the seller.",
				StatusOptions: []string{ns, ip, "Offer Submitted", "Counter Offer", "Rejected", "Finalized"},
				EstimatedDays: 14,
			},
			{
				ID: 3, Name: "Due Diligence",
				Description:   "Official search, encumbrance and boundary checks.",
				StatusOptions: []string{ns, ip, "Issues Found", "Verified"},
				EstimatedDays: 21,
			},
			{
				ID: 4, Name: "Sale Agreement",
				Description:   "Draft and execute the sale agreement.",
				StatusOptions: []string{ns, "Drafting", "Under Review", "Partially Signed", "Fully Signed"},
				EstimatedDays: 14,
			},
			{
				ID: 5, Name: "Deposit & Financing",
				Description:   "Pay the deposit and arrange the balance.",
				StatusOptions: []string{ns, "Pending", "Partially Paid", "Processed"},
				EstimatedDays: 30,
			},
			{
				ID: 6, Name: "Land Control Board Consent",
				Description:   "Obtain LCB consent to transfer.",
				StatusOptions: []string{ns, "Application Submitted", "Meeting Scheduled", "Rejected", "LCB Approved & Forms Signed"},
				EstimatedDays: 30,
			},
			{
				ID: 7, Name: "Valuation & Stamp Duty",
				Description:   "Government valuation and stamp duty assessment.",
				StatusOptions: []string{ns, "Valuation Pending", "Duty Assessed", "Approved"},
				EstimatedDays: 21,
			},
			{
				ID: 8, Name: "Title Registration",
				Description:   "Lodge the transfer and register the title.",
				StatusOptions: []string{ns, "Lodged", "Under Registration", "Registered"},
				EstimatedDays: 30,
			},
		},
		Terminal: []string{
			"Completed", "Verified", "Finalized", "Processed", "Approved",
			"Fully Signed", "Registered", "LCB Approved & Forms Signed",
		},
		Labels: []LabelRule{
			{From: 1, To: 1, Label: LabelIdentified},
			{From: 2, To: 2, Label: LabelNegotiating},
			{From: 3, To: 3, Label: LabelDueDiligence},
			{From: 4, To: 4, Label: LabelUnderContract},
			{From: 5, To: 6, Label: LabelFinancing},
			{From: 7, To: 8, Label: LabelClosing},
		},
	}
}

func handoverCatalog() StageCatalog {
	return StageCatalog{
		Kind: model.KindHandover,
		Stages: []StageDefinition{
			{
				ID: 1, Name: "Handover Initiation",
				Description:   "Open the handover file for the buyer.",
				StatusOptions: []string{ns, ip, "Completed"},
				EstimatedDays: 3,
			},
			{
				ID: 2, Name: "Buyer Verification",
				Description:   "Collect and verify buyer identity documents.",
				StatusOptions: []string{ns, "Pending Documents", "Under Review", "Rejected", "Verified"},
				EstimatedDays: 7,
			},
			{
				ID: 3, Name: "Sale Agreement",
				Description:   "Execute the sale agreement with the buyer.",
				StatusOptions: []string{ns, "Drafting", "Under Review", "Signed"},
				EstimatedDays: 14,
			},
			{
				ID: 4, Name: "Payment Collection",
				Description:   "Receive the purchase price from the buyer.",
				StatusOptions: []string{ns, "Awaiting Payment", "Partially Paid", "Cleared"},
				EstimatedDays: 60,
			},
			{
				ID: 5, Name: "Consents & Clearances",
				Description:   "Rates, land rent and LCB clearances.",
				StatusOptions: []string{ns, "Applied", "Rejected", "Approved"},
				EstimatedDays: 30,
			},
			{
				ID: 6, Name: "Transfer Documentation",
				Description:   "Prepare and sign the transfer instruments.",
				StatusOptions: []string{ns, "Drafting", "Awaiting Signatures", "Signed"},
				EstimatedDays: 14,
			},
			{
				ID: 7, Name: "Title Transfer",
				Description:   "Register the title in the buyer's name.",
				StatusOptions: []string{ns, "Lodged", "Under Registration", "Registered"},
				EstimatedDays: 30,
			},
			{
				ID: 8, Name: "Physical Handover",
				Description:   "Hand over possession and keys.",
				StatusOptions: []string{ns, "Scheduled", "Handed Over"},
				EstimatedDays: 7,
			},
		},
		Terminal: []string{
			"Completed", "Verified", "Signed", "Cleared", "Approved", "Registered", "Handed Over",
		},
		Labels: []LabelRule{
			{From: 1, To: 1, Label: LabelHandoverInitiated},
			{From: 2, To: 2, Label: LabelBuyerVerification},
			{From: 3, To: 3, Label: LabelAgreement},
			{From: 4, To: 4, Label: LabelPayment},
			{From: 5, To: 6, Label: LabelDocumentation},
			{From: 7, To: 8, Label: LabelTransfer},
		},
	}
}

func subdivisionCatalog() StageCatalog {
	return StageCatalog{
		Kind: model.KindSubdivision,
		Stages: []StageDefinition{
			{
				ID: 1, Name: "Subdivision Planning",
				Description:   "Prepare the scheme plan with a licensed surveyor.",
				StatusOptions: []string{ns, ip, "Completed"},
				EstimatedDays: 14,
			},
			{
				ID: 2, Name: "County Planning Approval",
				Description:   "Submit the scheme to the county planning office.",
				StatusOptions: []string{ns, "Application Submitted", "Under Review", "Rejected", "Approved"},
				EstimatedDays: 45,
			},
			{
				ID: 3, Name: "LCB Subdivision Consent",
				Description:   "Land Control Board consent to subdivide.",
				StatusOptions: []string{ns, "Applied", "Rejected", "Approved"},
				EstimatedDays: 30,
			},
			{
				ID: 4, Name: "Mutation Forms",
				Description:   "Prepare and submit mutation forms.",
				StatusOptions: []string{ns, "Drafting", "Submitted"},
				EstimatedDays: 14,
			},
			{
				ID: 5, Name: "Survey & Beacons",
				Description:   "Fix beacons and have the survey checked.",
				StatusOptions: []string{ns, ip, "Completed"},
				EstimatedDays: 30,
			},
			{
				ID: 6, Name: "Title Processing",
				Description:   "New titles processed at the land registry.",
				StatusOptions: []string{ns, "Lodged", "Issued"},
				EstimatedDays: 60,
			},
			{
				ID: 7, Name: "Title Registration",
				Description:   "Register the resulting titles.",
				StatusOptions: []string{ns, "Lodged", "Registered"},
				EstimatedDays: 30,
			},
		},
		Terminal: []string{"Completed", "Approved", "Submitted", "Issued", "Registered"},
		Labels: []LabelRule{
			{From: 1, To: 1, Label: LabelPlanning},
			{From: 2, To: 3, Label: LabelApprovals},
			{From: 4, To: 5, Label: LabelSurveying},
			{From: 6, To: 7, Label: LabelTitling},
		},
	}
}
