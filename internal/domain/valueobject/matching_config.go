// Package valueobject contains domain value objects for the AP reconciliation service.
package valueobject

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultReviewConfidence is the extraction confidence below which a matched invoice
// is still routed to human review.
const DefaultReviewConfidence = 0.80

// MatchingConfig contains the switches of the reconciliation engine.
type MatchingConfig struct {
	// StrictVendorMatch requires containment on whole words, so "AWS" no longer
	// matches inside "Lawson Supplies". Off by default.
	StrictVendorMatch bool

	// RejectClosedPOs turns a match against a closed PO into the po_closed state.
	// Off by default: a closed PO is reported but still matched.
	RejectClosedPOs bool

	// ReviewConfidence is the minimum extraction confidence for auto-processing.
	ReviewConfidence decimal.Decimal
}

// DefaultMatchingConfig returns the default matching configuration.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		ReviewConfidence: decimal.NewFromFloat(DefaultReviewConfidence),
	}
}

// NormalizeName trims and case-folds a vendor name. No other normalization is applied.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NamesEqual reports a case-insensitive exact match of trimmed names.
func NamesEqual(a, b string) bool {
	x, y := NormalizeName(a), NormalizeName(b)
	return x != "" && x == y
}

// NamesContain reports whether either name contains the other after case folding.
// Empty names never match.
func (c MatchingConfig) NamesContain(a, b string) bool {
	x, y := NormalizeName(a), NormalizeName(b)
	if x == "" || y == "" {
		return false
	}
	if !c.StrictVendorMatch {
		return strings.Contains(x, y) || strings.Contains(y, x)
	}
	xs, ys := strings.Fields(x), strings.Fields(y)
	return containsWords(xs, ys) || containsWords(ys, xs)
}

// containsWords reports whether needle appears as a contiguous run of words in haystack.
func containsWords(haystack, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
