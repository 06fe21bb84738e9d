package valueobject

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ScalarKind tells whether an extracted field was absent, raw, or wrapped in an envelope.
type ScalarKind int

const (
	ScalarAbsent ScalarKind = iota
	ScalarRaw
	ScalarEnveloped
)

// Scalar is one extracted field value. Extraction services return either a raw
// value or a {value, confidence} envelope; NormalizeScalar is the single place
// that tells them apart.
type Scalar struct {
	kind       ScalarKind
	value      any
	confidence float64
}

// RawScalar builds a raw scalar.
func RawScalar(v any) Scalar {
	if v == nil {
		return Scalar{}
	}
	return Scalar{kind: ScalarRaw, value: v}
}

// EnvelopedScalar builds an enveloped scalar.
func EnvelopedScalar(v any, confidence float64) Scalar {
	return Scalar{kind: ScalarEnveloped, value: v, confidence: confidence}
}

// NormalizeScalar unwraps a {value, confidence} envelope or keeps v as raw.
func NormalizeScalar(v any) Scalar {
	switch t := v.(type) {
	case nil:
		return Scalar{}
	case Scalar:
		return t
	case map[string]any:
		inner, ok := t["value"]
		if !ok {
			return RawScalar(t)
		}
		conf, _ := toFloat(t["confidence"])
		return EnvelopedScalar(inner, conf)
	default:
		return RawScalar(v)
	}
}

// Kind returns the scalar kind.
func (s Scalar) Kind() ScalarKind { return s.kind }

// Value returns the unwrapped value.
func (s Scalar) Value() any { return s.value }

// Confidence returns the envelope confidence. Raw values report false.
func (s Scalar) Confidence() (float64, bool) {
	return s.confidence, s.kind == ScalarEnveloped
}

// String renders the unwrapped value as a trimmed string. Empty means missing.
func (s Scalar) String() string {
	switch t := s.value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any:
		if name, ok := t["name"].(string); ok {
			return strings.TrimSpace(name)
		}
		return ""
	default:
		return ""
	}
}

// Decimal parses the unwrapped value as money. Currency symbols and thousands
// separators are stripped from strings.
func (s Scalar) Decimal() (decimal.Decimal, bool) {
	switch t := s.value.(type) {
	case float64:
		return decimal.NewFromFloat(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case string:
		cleaned := strings.NewReplacer("$", "", ",", "", "USD", "", " ", "").Replace(strings.TrimSpace(t))
		if cleaned == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(cleaned)
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ExtractedLineItem is one normalized invoice line.
type ExtractedLineItem struct {
	Description *string
	Quantity    *decimal.Decimal
	UnitPrice   *decimal.Decimal
	Total       *decimal.Decimal
}

// ExtractedInvoice is the normalized view of an extraction payload.
type ExtractedInvoice struct {
	VendorName    string
	InvoiceNumber string
	InvoiceDate   string
	PONumber      string
	PaymentTerms  string
	TotalAmount   *decimal.Decimal
	LineItems     []ExtractedLineItem
	// Confidence holds per-field envelope confidences.
	Confidence map[string]float64
}

var fieldAliases = map[string][]string{
	"vendor_name":    {"vendor_name", "vendor", "supplier_name"},
	"invoice_number": {"invoice_number", "invoice_id", "invoice_no"},
	"invoice_date":   {"invoice_date", "date"},
	"po_number":      {"po_number", "purchase_order", "po"},
	"payment_terms":  {"payment_terms", "terms"},
	"total_amount":   {"total_amount", "total", "amount_due"},
}

// keyFields are the fields whose confidence drives human review.
var keyFields = []string{"vendor_name", "invoice_number", "total_amount", "po_number"}

// NormalizeExtraction turns a raw extraction payload into an ExtractedInvoice.
func NormalizeExtraction(fields map[string]any) ExtractedInvoice {
	out := ExtractedInvoice{Confidence: make(map[string]float64)}

	lookup := func(name string) Scalar {
		for _, key := range fieldAliases[name] {
			if v, ok := fields[key]; ok && v != nil {
				s := NormalizeScalar(v)
				if c, ok := s.Confidence(); ok {
					out.Confidence[name] = c
				}
				return s
			}
		}
		return Scalar{}
	}

	out.VendorName = lookup("vendor_name").String()
	out.InvoiceNumber = lookup("invoice_number").String()
	out.InvoiceDate = lookup("invoice_date").String()
	out.PONumber = lookup("po_number").String()
	out.PaymentTerms = lookup("payment_terms").String()
	if total, ok := lookup("total_amount").Decimal(); ok {
		out.TotalAmount = &total
	}

	if items, ok := NormalizeScalar(fields["line_items"]).Value().([]any); ok {
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			out.LineItems = append(out.LineItems, normalizeLineItem(m))
		}
	}

	return out
}

func normalizeLineItem(m map[string]any) ExtractedLineItem {
	var line ExtractedLineItem
	if d := NormalizeScalar(m["description"]).String(); d != "" {
		line.Description = &d
	}
	line.Quantity = optionalDecimal(m["quantity"])
	line.UnitPrice = optionalDecimal(m["unit_price"])
	for _, key := range []string{"total", "line_total", "amount"} {
		if line.Total = optionalDecimal(m[key]); line.Total != nil {
			break
		}
	}
	return line
}

func optionalDecimal(v any) *decimal.Decimal {
	if d, ok := NormalizeScalar(v).Decimal(); ok {
		return &d
	}
	return nil
}

// MinKeyConfidence returns the lowest confidence among key fields that carried one.
func (e ExtractedInvoice) MinKeyConfidence() (float64, bool) {
	lowest, found := 1.0, false
	for _, field := range keyFields {
		if c, ok := e.Confidence[field]; ok {
			found = true
			if c < lowest {
				lowest = c
			}
		}
	}
	return lowest, found
}

// AsMap renders the normalized fields with plain values, the shape the agent tools consume.
func (e ExtractedInvoice) AsMap() map[string]any {
	out := map[string]any{
		"vendor_name":    e.VendorName,
		"invoice_number": e.InvoiceNumber,
		"invoice_date":   e.InvoiceDate,
		"po_number":      e.PONumber,
		"payment_terms":  e.PaymentTerms,
	}
	if e.TotalAmount != nil {
		out["total_amount"] = e.TotalAmount.String()
	}
	return out
}
