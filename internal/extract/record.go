package extract

import "encoding/json"

// Normalized field names written to financial_data.json.
const (
	KeyRevenue         = "Revenue/Sales"
	KeyOperatingProfit = "Operating Profit"
	KeyNetProfit       = "Net Profit"
)

// Record is the structured result for one document. A nil field means the
// value is absent.
type Record struct {
	Revenue         *float64 `json:"Revenue/Sales"`
	OperatingProfit *float64 `json:"Operating Profit"`
	NetProfit       *float64 `json:"Net Profit"`
}

// Amount returns a pointer to v.
func Amount(v float64) *float64 { return &v }

// Present counts the non-null fields.
func (r Record) Present() int {
	n := 0
	for _, p := range []*float64{r.Revenue, r.OperatingProfit, r.NetProfit} {
		if p != nil {
			n++
		}
	}
	return n
}

// Empty reports whether every field is null.
func (r Record) Empty() bool { return r.Present() == 0 }

// Equal compares field values rather than pointers.
func (r Record) Equal(o Record) bool {
	return eqAmount(r.Revenue, o.Revenue) && eqAmount(r.OperatingProfit, o.OperatingProfit) && eqAmount(r.NetProfit, o.NetProfit)
}

func eqAmount(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Marshal renders the record in its persisted form: fixed key order,
// four-space indent.
func (r Record) Marshal() ([]byte, error) {
	return json.MarshalIndent(r, "", "    ")
}
