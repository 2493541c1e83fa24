package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/proplife/internal/model"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
		{-45000, "-45,000"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount   float64
		currency string
		want     string
	}{
		{1234567.5, "KES", "KES 1,234,568"},
		{12.5, "USD", "USD 12.50"},
		{0, "KES", "KES 0.00"},
		{-150000, "KES", "KES -150,000"},
		{999.99, "", "999.99"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.amount, tt.currency); got != tt.want {
			t.Errorf("FormatMoney(%v, %q) = %q, want %q", tt.amount, tt.currency, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(50); got != "50%" {
		t.Errorf("FormatPercent(50) = %q", got)
	}
	if got := FormatPercent(33.33); got != "33.33%" {
		t.Errorf("FormatPercent(33.33) = %q", got)
	}
	if got := FormatPercent(150); got != "150%" {
		t.Errorf("FormatPercent(150) = %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(time.Time{}); got != "-" {
		t.Errorf("FormatDate(zero) = %q", got)
	}
	if got := FormatDatePtr(nil); got != "-" {
		t.Errorf("FormatDatePtr(nil) = %q", got)
	}
	d := time.Date(2026, 5, 17, 12, 0, 0, 0, time.Local)
	if got := FormatDatePtr(&d); got != "2026-05-17" {
		t.Errorf("FormatDatePtr = %q", got)
	}
}

func TestFormatLabelAndWorkflow(t *testing.T) {
	if got := FormatLabel("DUE_DILIGENCE"); got != "Due Diligence" {
		t.Errorf("FormatLabel = %q", got)
	}
	if got := FormatLabel(""); got != "-" {
		t.Errorf("FormatLabel(empty) = %q", got)
	}
	if got := FormatWorkflow(model.WorkflowPurchasePipeline); got != "Purchase Pipeline" {
		t.Errorf("FormatWorkflow = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Kitengela", 20); got != "Kitengela" {
		t.Errorf("Truncate short = %q", got)
	}
	if got := Truncate("Kitengela", 5); got != "Kite…" {
		t.Errorf("Truncate = %q", got)
	}
}

func TestRenderTable_Alignment(t *testing.T) {
	out := RenderTable(Table{
		Headers:    []string{"Name", "Amount"},
		Rows:       [][]string{{"Stamp Duty", "40,000"}, {"---"}, {"Total", "40,000"}},
		RightAlign: []int{1},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("lines = %d, want 7:\n%s", len(lines), out)
	}
	if !strings.Contains(out, "Stamp Duty") || !strings.Contains(out, "Total") {
		t.Errorf("missing cells:\n%s", out)
	}
}

func TestRenderProgressBar(t *testing.T) {
	if got := RenderProgressBar(50, 0); got != "" {
		t.Errorf("zero width = %q", got)
	}
	if got := RenderProgressBar(150, 10); !strings.Contains(got, "100%") {
		t.Errorf("capped bar = %q", got)
	}
	if got := RenderProgressBar(25, 8); !strings.Contains(got, " 25%") {
		t.Errorf("bar = %q", got)
	}
}
