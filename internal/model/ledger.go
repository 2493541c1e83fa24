package model

import "time"

// CostDomain names one of the three cost ledgers of a property.
type CostDomain string

const (
	DomainAcquisition CostDomain = "acquisition"
	DomainSubdivision CostDomain = "subdivision"
	DomainHandover    CostDomain = "handover"
)

// CostDomains lists every domain in display order.
var CostDomains = []CostDomain{DomainAcquisition, DomainSubdivision, DomainHandover}

// CostEntry is one recorded expense.
type CostEntry struct {
	ID         string     `json:"id"`
	PropertyID string     `json:"property_id"`
	Domain     CostDomain `json:"domain"`
	Category   string     `json:"category"`
	Label      string     `json:"label"`
	Amount     float64    `json:"amount"`
	Date       time.Time  `json:"date"`
}

// PaymentReceipt is money received from a buyer during handover.
type PaymentReceipt struct {
	PropertyID    string    `json:"property_id"`
	ReceiptNumber int       `json:"receipt_number"`
	Amount        float64   `json:"amount"`
	Date          time.Time `json:"date"`
	Method        string    `json:"method,omitempty"`
}

// PaymentInstallment is money paid to a seller during acquisition.
type PaymentInstallment struct {
	PropertyID        string    `json:"property_id"`
	InstallmentNumber int       `json:"installment_number"`
	Amount            float64   `json:"amount"`
	Date              time.Time `json:"date"`
	Method            string    `json:"method,omitempty"`
}

// DealPrice is the reference price of a domain: purchase price, subdivision
// budget or sale price.
type DealPrice struct {
	PropertyID string     `json:"property_id"`
	Domain     CostDomain `json:"domain"`
	Price      float64    `json:"price"`
}

// CategoryTotal is one row of a category-labelled cost summary.
type CategoryTotal struct {
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Count    int     `json:"count"`
	Total    float64 `json:"total"`
}

// FinanceSummary holds the aggregate view of one cost domain.
type FinanceSummary struct {
	Domain           CostDomain         `json:"domain"`
	Price            float64            `json:"price"`
	Totals           map[string]float64 `json:"totals"`
	Categories       []CategoryTotal    `json:"categories"`
	TotalCost        float64            `json:"total_cost"`
	TotalPaid        float64            `json:"total_paid"`
	NetIncome        float64            `json:"net_income"`
	RemainingBalance float64            `json:"remaining_balance"`
	PaymentProgress  float64            `json:"payment_progress"`
	ProfitMargin     float64            `json:"profit_margin"`
}
