package extract

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/shopspring/decimal"
)

// recordSchema constrains a normalized record: every field present, each a
// non-negative number or null.
var recordSchema = jsonschema.MustCompileString("financial_record.json", `{
  "type": "object",
  "properties": {
    "Revenue/Sales":    {"type": ["number", "null"], "minimum": 0},
    "Operating Profit": {"type": ["number", "null"], "minimum": 0},
    "Net Profit":       {"type": ["number", "null"], "minimum": 0}
  },
  "required": ["Revenue/Sales", "Operating Profit", "Net Profit"],
  "additionalProperties": false
}`)

// keyAliases maps folded model output keys to normalized field names.
var keyAliases = map[string]string{
	"revenue/sales":             KeyRevenue,
	"revenue":                   KeyRevenue,
	"sales":                     KeyRevenue,
	"revenue from operations":   KeyRevenue,
	"total revenue":             KeyRevenue,
	"operating profit":          KeyOperatingProfit,
	"expenses/operating profit": KeyOperatingProfit,
	"operating profit/expenses": KeyOperatingProfit,
	"operating income":          KeyOperatingProfit,
	"ebit":                      KeyOperatingProfit,
	"net profit":                KeyNetProfit,
	"net income":                KeyNetProfit,
	"profit for the period":     KeyNetProfit,
	"profit for the year":       KeyNetProfit,
	"profit after tax":          KeyNetProfit,
}

func canonicalKey(k string) string {
	f := strings.ToLower(strings.TrimSpace(k))
	f = strings.NewReplacer("_", " ", "-", " ").Replace(f)
	f = strings.Join(strings.Fields(f), " ")
	f = strings.ReplaceAll(f, " / ", "/")
	return keyAliases[f]
}

// ParseRecord turns model output into a Record. It tolerates code fences and
// prose around a single JSON object, normalizes key names and coerces
// numeric strings. Output with no usable object or no known field, or with
// a negative amount, is a *ParseError.
func ParseRecord(raw string) (Record, error) {
	obj, err := jsonObject(raw)
	if err != nil {
		return Record{}, err
	}
	fields := collectFields(obj)
	if len(fields) == 0 && len(obj) == 1 {
		// Some models wrap the answer in a single named object.
		for _, v := range obj {
			if inner, ok := v.(map[string]any); ok {
				fields = collectFields(inner)
			}
		}
	}
	if len(fields) == 0 {
		return Record{}, &ParseError{Reason: "no recognized fields"}
	}

	var r Record
	for _, f := range fields {
		dst := r.field(f.name)
		if *dst == nil {
			*dst = f.value
		}
	}
	if err := validateRecord(r); err != nil {
		return Record{}, err
	}
	return r, nil
}

func (r *Record) field(name string) **float64 {
	switch name {
	case KeyRevenue:
		return &r.Revenue
	case KeyOperatingProfit:
		return &r.OperatingProfit
	default:
		return &r.NetProfit
	}
}

type candidate struct {
	name  string
	key   string
	exact bool
	value *float64
}

// collectFields returns recognized fields with exact key matches first and
// then in key order, so the result does not depend on map iteration.
func collectFields(obj map[string]any) []candidate {
	var out []candidate
	for k, v := range obj {
		name := canonicalKey(k)
		if name == "" {
			continue
		}
		out = append(out, candidate{name: name, key: k, exact: k == name, value: coerceAmount(v)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].exact != out[j].exact {
			return out[i].exact
		}
		if (out[i].value == nil) != (out[j].value == nil) {
			return out[i].value != nil
		}
		return out[i].key < out[j].key
	})
	return out
}

func coerceAmount(v any) *float64 {
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return nil
		}
		f := d.InexactFloat64()
		return &f
	case string:
		if f, ok := amountFromString(t); ok {
			return &f
		}
	}
	return nil
}

func jsonObject(raw string) (map[string]any, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, &ParseError{Reason: "empty output"}
	}
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil, &ParseError{Reason: "no json object"}
	}
	dec := json.NewDecoder(strings.NewReader(s[start : end+1]))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, &ParseError{Reason: "invalid json", Err: err}
	}
	return obj, nil
}

func validateRecord(r Record) error {
	b, err := json.Marshal(r)
	if err != nil {
		return &ParseError{Reason: "encode record", Err: err}
	}
	var v any
	if err := json.NewDecoder(bytes.NewReader(b)).Decode(&v); err != nil {
		return &ParseError{Reason: "decode record", Err: err}
	}
	if err := recordSchema.Validate(v); err != nil {
		return &ParseError{Reason: "schema", Err: err}
	}
	return nil
}
