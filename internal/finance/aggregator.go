// Package finance aggregates the cost, receipt and installment ledgers of a property.
package finance

import (
	"math"

	"github.com/theirongolddev/proplife/internal/catalog"
	"github.com/theirongolddev/proplife/internal/model"
)

// TotalsByCategory sums entries into the domain's category buckets. Every
// category key is present even when zero. Entries with an unknown category
// or belonging to another domain are skipped.
func TotalsByCategory(cd catalog.CostDomain, entries []model.CostEntry) map[string]float64 {
	totals := make(map[string]float64, len(cd.Categories))
	for _, c := range cd.Categories {
		totals[c.Key] = 0
	}
	for _, e := range entries {
		if !belongs(cd, e) {
			continue
		}
		totals[e.Category] += e.Amount
	}
	return totals
}

// TotalCost sums every entry regardless of category.
func TotalCost(entries []model.CostEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.Amount
	}
	return total
}

// TotalReceipts sums the amounts received from a buyer.
func TotalReceipts(receipts []model.PaymentReceipt) float64 {
	var total float64
	for _, r := range receipts {
		total += r.Amount
	}
	return total
}

// TotalInstallments sums the amounts paid to a seller.
func TotalInstallments(installments []model.PaymentInstallment) float64 {
	var total float64
	for _, in := range installments {
		total += in.Amount
	}
	return total
}

// NetIncome is price minus costs. Negative means a cost overrun.
func NetIncome(price, totalCost float64) float64 {
	return price - totalCost
}

// RemainingBalance is price minus what has been paid. Negative means overpayment.
func RemainingBalance(price, paid float64) float64 {
	return price - paid
}

// PaymentProgress returns the paid share of price as a percentage rounded to
// two decimals. It is not capped at 100.
func PaymentProgress(paid, price float64) float64 {
	if price <= 0 {
		return 0
	}
	return round2(100 * paid / price)
}

// ProfitMargin returns net income as a percentage of price, rounded to two decimals.
func ProfitMargin(netIncome, price float64) float64 {
	if price <= 0 {
		return 0
	}
	return round2(100 * netIncome / price)
}

// NextReceiptNumber returns one past the highest existing receipt number.
func NextReceiptNumber(receipts []model.PaymentReceipt) int {
	highest := 0
	for _, r := range receipts {
		if r.ReceiptNumber > highest {
			highest = r.ReceiptNumber
		}
	}
	return highest + 1
}

// NextInstallmentNumber returns one past the highest existing installment number.
func NextInstallmentNumber(installments []model.PaymentInstallment) int {
	highest := 0
	for _, in := range installments {
		if in.InstallmentNumber > highest {
			highest = in.InstallmentNumber
		}
	}
	return highest + 1
}

// CategorySummaries groups entries by category. Only categories with at
// least one entry are returned, in the domain's display order.
func CategorySummaries(cd catalog.CostDomain, entries []model.CostEntry) []model.CategoryTotal {
	byKey := make(map[string]*model.CategoryTotal)
	for _, e := range entries {
		if !belongs(cd, e) {
			continue
		}
		row, ok := byKey[e.Category]
		if !ok {
			row = &model.CategoryTotal{Category: e.Category, Label: cd.Label(e.Category)}
			byKey[e.Category] = row
		}
		row.Count++
		row.Total += e.Amount
	}

	rows := make([]model.CategoryTotal, 0, len(byKey))
	for _, c := range cd.Categories {
		if row, ok := byKey[c.Key]; ok {
			rows = append(rows, *row)
		}
	}
	return rows
}

// Summarize builds the full summary of one domain. paid is the money that
// has moved against price: receipts for handover, installments for
// acquisition, zero for subdivision.
func Summarize(cd catalog.CostDomain, price float64, entries []model.CostEntry, paid float64) model.FinanceSummary {
	scoped := make([]model.CostEntry, 0, len(entries))
	for _, e := range entries {
		if belongs(cd, e) {
			scoped = append(scoped, e)
		}
	}

	total := TotalCost(scoped)
	net := NetIncome(price, total)
	return model.FinanceSummary{
		Domain:           cd.Domain,
		Price:            price,
		Totals:           TotalsByCategory(cd, scoped),
		Categories:       CategorySummaries(cd, scoped),
		TotalCost:        total,
		TotalPaid:        paid,
		NetIncome:        net,
		RemainingBalance: RemainingBalance(price, paid),
		PaymentProgress:  PaymentProgress(paid, price),
		ProfitMargin:     ProfitMargin(net, price),
	}
}

// Ledger is everything recorded against one property.
type Ledger struct {
	Costs        []model.CostEntry          `json:"costs"`
	Receipts     []model.PaymentReceipt     `json:"receipts"`
	Installments []model.PaymentInstallment `json:"installments"`
	Prices       []model.DealPrice          `json:"prices"`
}

// SummarizeLedger returns one summary per cost domain in display order.
func SummarizeLedger(cat catalog.Catalog, l Ledger) []model.FinanceSummary {
	prices := make(map[model.CostDomain]float64, len(l.Prices))
	for _, p := range l.Prices {
		prices[p.Domain] = p.Price
	}

	summaries := make([]model.FinanceSummary, 0, len(model.CostDomains))
	for _, d := range model.CostDomains {
		cd, ok := cat.CostDomain(d)
		if !ok {
			continue
		}
		var paid float64
		switch d {
		case model.DomainHandover:
			paid = TotalReceipts(l.Receipts)
		case model.DomainAcquisition:
			paid = TotalInstallments(l.Installments)
		}
		summaries = append(summaries, Summarize(cd, prices[d], l.Costs, paid))
	}
	return summaries
}

func belongs(cd catalog.CostDomain, e model.CostEntry) bool {
	if e.Domain != "" && e.Domain != cd.Domain {
		return false
	}
	return cd.Has(e.Category)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
