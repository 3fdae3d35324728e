package extract

import (
	"context"
	"regexp"
)

var (
	revenuePattern = regexp.MustCompile(`(?i)Revenue from Operations\s*[:=]?\s*([\d,]+\.?\d*)`)
	// The phrase is matched literally, including the leading "expenses".
	operatingProfitPattern = regexp.MustCompile(`(?i)expenses Profit Before Exceptional Items and Tax\s*[:=]?\s*([\d,]+\.?\d*)`)
	netProfitPattern       = regexp.MustCompile(`(?i)Profit for the (?:year|period)\s*[:=]?\s*([\d,]+\.?\d*)`)
)

// RegexExtractor reads the three figures with fixed patterns. Fields whose
// pattern does not match stay null. It never returns an error.
type RegexExtractor struct{}

func (RegexExtractor) Extract(_ context.Context, text string) (Record, error) {
	return ParseText(text), nil
}

// ParseText applies the fallback patterns to text.
func ParseText(text string) Record {
	return Record{
		Revenue:         firstAmount(revenuePattern, text),
		OperatingProfit: firstAmount(operatingProfitPattern, text),
		NetProfit:       firstAmount(netProfitPattern, text),
	}
}

func firstAmount(re *regexp.Regexp, text string) *float64 {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return nil
	}
	v, ok := parseAmount(m[1])
	if !ok {
		return nil
	}
	return &v
}
