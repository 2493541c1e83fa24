package finance

import (
	"math"
	"testing"

	"github.com/theirongolddev/proplife/internal/catalog"
	"github.com/theirongolddev/proplife/internal/model"
)

func domain(t *testing.T, d model.CostDomain) catalog.CostDomain {
	t.Helper()
	cd, ok := catalog.Default().CostDomain(d)
	if !ok {
		t.Fatalf("cost domain %s missing", d)
	}
	return cd
}

func cost(d model.CostDomain, category string, amount float64) model.CostEntry {
	return model.CostEntry{Domain: d, Category: category, Amount: amount}
}

func TestTotalsByCategory_AllKeysPresent(t *testing.T) {
	for _, d := range model.CostDomains {
		cd := domain(t, d)
		totals := TotalsByCategory(cd, nil)
		if len(totals) != len(cd.Categories) {
			t.Fatalf("%s: %d keys, want %d", d, len(totals), len(cd.Categories))
		}
		for _, k := range cd.Keys() {
			v, ok := totals[k]
			if !ok || v != 0 {
				t.Errorf("%s: totals[%s] = %v, %v", d, k, v, ok)
			}
		}
	}
}

func TestTotalsByCategory_SumsMatchTotalCost(t *testing.T) {
	cd := domain(t, model.DomainAcquisition)
	entries := []model.CostEntry{
		cost(model.DomainAcquisition, "legal_fees", 45000),
		cost(model.DomainAcquisition, "legal_fees", 5000),
		cost(model.DomainAcquisition, "stamp_duty", 120000),
		cost(model.DomainAcquisition, "other", 2500.5),
	}

	totals := TotalsByCategory(cd, entries)
	if totals["legal_fees"] != 50000 {
		t.Errorf("legal_fees = %v, want 50000", totals["legal_fees"])
	}
	var sum float64
	for _, v := range totals {
		sum += v
	}
	if sum != TotalCost(entries) {
		t.Errorf("sum of buckets = %v, want %v", sum, TotalCost(entries))
	}
}

func TestTotalsByCategory_IgnoresUnknownAndForeign(t *testing.T) {
	cd := domain(t, model.DomainHandover)
	entries := []model.CostEntry{
		cost(model.DomainHandover, "transfer_fees", 1000),
		cost(model.DomainHandover, "marketing", 999),
		cost(model.DomainAcquisition, "legal_fees", 777),
		{Category: "legal_fees", Amount: 10},
	}
	totals := TotalsByCategory(cd, entries)
	if _, ok := totals["marketing"]; ok {
		t.Error("unknown category leaked into totals")
	}
	if totals["legal_fees"] != 10 {
		t.Errorf("legal_fees = %v, want 10", totals["legal_fees"])
	}
	if totals["transfer_fees"] != 1000 {
		t.Errorf("transfer_fees = %v, want 1000", totals["transfer_fees"])
	}
}

func TestNetIncomeAndBalance_NotFloored(t *testing.T) {
	if got := NetIncome(100, 250); got != -150 {
		t.Errorf("NetIncome = %v, want -150", got)
	}
	if got := RemainingBalance(100, 130); got != -30 {
		t.Errorf("RemainingBalance = %v, want -30", got)
	}
}

func TestPaymentProgress(t *testing.T) {
	tests := []struct {
		paid, price, want float64
	}{
		{0, 0, 0},
		{500, 0, 0},
		{500, -10, 0},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{1500000, 1000000, 150},
		{1000000, 1000000, 100},
	}
	for _, tt := range tests {
		if got := PaymentProgress(tt.paid, tt.price); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("PaymentProgress(%v, %v) = %v, want %v", tt.paid, tt.price, got, tt.want)
		}
	}
}

func TestProfitMargin(t *testing.T) {
	if got := ProfitMargin(250000, 1000000); got != 25 {
		t.Errorf("ProfitMargin = %v, want 25", got)
	}
	if got := ProfitMargin(-100, 300); got != -33.33 {
		t.Errorf("ProfitMargin = %v, want -33.33", got)
	}
	if got := ProfitMargin(100, 0); got != 0 {
		t.Errorf("ProfitMargin with zero price = %v, want 0", got)
	}
}

func TestNextReceiptNumber(t *testing.T) {
	if got := NextReceiptNumber(nil); got != 1 {
		t.Errorf("NextReceiptNumber(empty) = %d, want 1", got)
	}
	got := NextReceiptNumber([]model.PaymentReceipt{{ReceiptNumber: 3}, {ReceiptNumber: 1}})
	if got != 4 {
		t.Errorf("NextReceiptNumber = %d, want 4", got)
	}
	if got := NextInstallmentNumber([]model.PaymentInstallment{{InstallmentNumber: 2}}); got != 3 {
		t.Errorf("NextInstallmentNumber = %d, want 3", got)
	}
}

func TestCategorySummaries_DisplayOrder(t *testing.T) {
	cd := domain(t, model.DomainSubdivision)
	entries := []model.CostEntry{
		cost(model.DomainSubdivision, "title_fees", 300),
		cost(model.DomainSubdivision, "survey_fees", 100),
		cost(model.DomainSubdivision, "title_fees", 200),
		cost(model.DomainSubdivision, "bogus", 1),
	}
	rows := CategorySummaries(cd, entries)
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
	if rows[0].Category != "survey_fees" || rows[1].Category != "title_fees" {
		t.Errorf("order = %s, %s", rows[0].Category, rows[1].Category)
	}
	if rows[1].Count != 2 || rows[1].Total != 500 {
		t.Errorf("title_fees row = %+v", rows[1])
	}
	if rows[0].Label == "" || rows[0].Label == rows[0].Category {
		t.Errorf("survey_fees label = %q", rows[0].Label)
	}
}

func TestSummarizeLedger(t *testing.T) {
	l := Ledger{
		Costs: []model.CostEntry{
			cost(model.DomainAcquisition, "stamp_duty", 40000),
			cost(model.DomainHandover, "legal_fees", 60000),
		},
		Receipts: []model.PaymentReceipt{
			{ReceiptNumber: 1, Amount: 1000000},
			{ReceiptNumber: 2, Amount: 500000},
		},
		Installments: []model.PaymentInstallment{{InstallmentNumber: 1, Amount: 400000}},
		Prices: []model.DealPrice{
			{Domain: model.DomainAcquisition, Price: 2000000},
			{Domain: model.DomainHandover, Price: 3000000},
		},
	}

	got := SummarizeLedger(catalog.Default(), l)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	acq, sub, hand := got[0], got[1], got[2]
	if acq.Domain != model.DomainAcquisition || sub.Domain != model.DomainSubdivision || hand.Domain != model.DomainHandover {
		t.Fatalf("domains = %s, %s, %s", acq.Domain, sub.Domain, hand.Domain)
	}
	if acq.TotalCost != 40000 || acq.TotalPaid != 400000 || acq.PaymentProgress != 20 {
		t.Errorf("acquisition = %+v", acq)
	}
	if hand.TotalCost != 60000 || hand.TotalPaid != 1500000 {
		t.Errorf("handover = %+v", hand)
	}
	if hand.RemainingBalance != 1500000 || hand.PaymentProgress != 50 {
		t.Errorf("handover balance = %v, progress = %v", hand.RemainingBalance, hand.PaymentProgress)
	}
	if hand.NetIncome != 2940000 || hand.ProfitMargin != 98 {
		t.Errorf("handover net = %v, margin = %v", hand.NetIncome, hand.ProfitMargin)
	}
	if sub.Price != 0 || sub.PaymentProgress != 0 || sub.ProfitMargin != 0 {
		t.Errorf("subdivision = %+v", sub)
	}
	if len(sub.Totals) != len(domain(t, model.DomainSubdivision).Categories) {
		t.Errorf("subdivision totals keys = %d", len(sub.Totals))
	}
}
