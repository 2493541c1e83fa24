// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/proplife/internal/model"
)

// FormatMoney formats an amount with its currency code and thousands separators.
// e.g., (1234567.5, "KES") -> "KES 1,234,568", (12.5, "USD") -> "USD 12.50"
func FormatMoney(amount float64, currency string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	var body string
	if amount >= 1000 {
		body = FormatNumber(int64(math.Round(amount)))
	} else {
		body = fmt.Sprintf("%.2f", amount)
	}
	if currency == "" {
		return sign + body
	}
	return currency + " " + sign + body
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatPercent formats a 0-100 value. Whole numbers drop the decimal.
func FormatPercent(pct float64) string {
	if pct == math.Trunc(pct) {
		return fmt.Sprintf("%.0f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// FormatDate formats a date as YYYY-MM-DD, or "-" when unset.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02")
}

// FormatDatePtr is FormatDate for optional dates.
func FormatDatePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return FormatDate(*t)
}

// FormatWorkflow returns the display name of a workflow type.
func FormatWorkflow(wt model.WorkflowType) string {
	switch wt {
	case model.WorkflowDirectAddition:
		return "Direct Addition"
	case model.WorkflowPurchasePipeline:
		return "Purchase Pipeline"
	case model.WorkflowHandover:
		return "Handover"
	case model.WorkflowSubdivision:
		return "Subdivision"
	default:
		return string(wt)
	}
}

// FormatLabel turns an upper snake-case label into title case.
// e.g., "DUE_DILIGENCE" -> "Due Diligence"
func FormatLabel(label string) string {
	if label == "" {
		return "-"
	}
	words := strings.Split(strings.ToLower(label), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Truncate shortens s to max runes, marking the cut with an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}
