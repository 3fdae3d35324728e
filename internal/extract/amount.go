package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// Currency markers and scale words a model may wrap around a figure.
	amountAffix = regexp.MustCompile(`(?i)^(?:rs\.?|inr|usd|eur|gbp|₹|\$|€|£)\s*|\s*(?:crores?|cr\.?|lakhs?|lacs?|mn|million|bn|billion|thousand)$`)
	// A plain or comma-grouped decimal; groups of 2 or 3 allow 1,23,456.00.
	groupedNumber = regexp.MustCompile(`^(?:\d{1,3}(?:,\d{2,3})+|\d+)(?:\.\d+)?$`)
)

// parseAmount parses a comma-grouped decimal such as "1,234.50".
func parseAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "." {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// amountFromString accepts a string only when it is a whole number with
// optional currency and scale words, e.g. "₹ 1,234.5 Cr". Accounting
// parentheses and a leading minus keep their sign. Anything else, such as
// "Q3 FY24" or "Loss of 300", is not an amount.
func amountFromString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	for i := 0; i < 2; i++ {
		if strings.HasPrefix(s, "-") {
			neg = !neg
			s = strings.TrimSpace(s[1:])
		}
		s = strings.TrimSpace(amountAffix.ReplaceAllString(s, ""))
	}
	if !groupedNumber.MatchString(s) {
		return 0, false
	}
	v, ok := parseAmount(s)
	if !ok {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}
