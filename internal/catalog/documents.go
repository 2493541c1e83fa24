package catalog

// DocumentType describes one kind of document a property file can hold.
type DocumentType struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// Document keys.
const (
	DocTitleDeedCopy     = "title_deed_copy"
	DocSellerID          = "seller_id"
	DocSellerPIN         = "seller_pin"
	DocOfficialSearch    = "official_search"
	DocSaleAgreement     = "sale_agreement"
	DocValuationReport   = "valuation_report"
	DocLCBConsent        = "lcb_consent"
	DocTransferForm      = "transfer_form"
	DocStampDutyReceipt  = "stamp_duty_receipt"
	DocRatesClearance    = "rates_clearance"
	DocLandRentClearance = "land_rent_clearance"
	DocBuyerID           = "buyer_id"
	DocHandoverCert      = "handover_certificate"
	DocRegisteredTitle   = "registered_title"
	DocSchemePlan        = "subdivision_scheme_plan"
	DocPlanningApproval  = "planning_approval"
	DocLCBSubdivision    = "lcb_subdivision_consent"
	DocMutationForm      = "mutation_form"
	DocSurveyPlan        = "survey_plan"
	DocBeaconCertificate = "beacon_certificate"
)

func docTypes() []DocumentType {
	return []DocumentType{
		{Key: DocTitleDeedCopy, Label: "Title Deed Copy", Required: true},
		{Key: DocSellerID, Label: "Seller ID", Required: true},
		{Key: DocSellerPIN, Label: "Seller KRA PIN", Required: true},
		{Key: DocOfficialSearch, Label: "Official Search", Required: true},
		{Key: DocSaleAgreement, Label: "Sale Agreement", Required: true},
		{Key: DocValuationReport, Label: "Valuation Report"},
		{Key: DocLCBConsent, Label: "LCB Consent", Required: true},
		{Key: DocTransferForm, Label: "Transfer Form", Required: true},
		{Key: DocStampDutyReceipt, Label: "Stamp Duty Receipt", Required: true},
		{Key: DocRatesClearance, Label: "Rates Clearance"},
		{Key: DocLandRentClearance, Label: "Land Rent Clearance"},
		{Key: DocBuyerID, Label: "Buyer ID"},
		{Key: DocHandoverCert, Label: "Handover Certificate"},
		{Key: DocRegisteredTitle, Label: "Registered Title", Required: true},
		{Key: DocSchemePlan, Label: "Subdivision Scheme Plan", Required: true},
		{Key: DocPlanningApproval, Label: "County Planning Approval", Required: true},
		{Key: DocLCBSubdivision, Label: "LCB Subdivision Consent", Required: true},
		{Key: DocMutationForm, Label: "Mutation Form", Required: true},
		{Key: DocSurveyPlan, Label: "Survey Plan"},
		{Key: DocBeaconCertificate, Label: "Beacon Certificate"},
	}
}

// subdivisionDocKeys lists the subdivision-only documents plus the
// registered title, which regular workflows show as well.
func subdivisionDocKeys() []string {
	return []string{
		DocSchemePlan,
		DocPlanningApproval,
		DocLCBSubdivision,
		DocMutationForm,
		DocSurveyPlan,
		DocBeaconCertificate,
		DocRegisteredTitle,
	}
}
