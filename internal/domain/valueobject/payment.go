package valueobject

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
)

// DateLayout is the only accepted and emitted date format.
const DateLayout = "2006-01-02"

// DefaultNetDays applies when payment terms cannot be parsed.
const DefaultNetDays = 30

// MaxTermDays bounds discount and net day counts; larger values are treated as unparsed.
const MaxTermDays = 3650

// HurdleRate is the annual cost of capital an early-payment discount must beat.
var HurdleRate = decimal.NewFromFloat(0.10)

var (
	discountNetPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*%?\s*/\s*(\d+)\s*,?\s*net\s*(\d+)`)
	netPattern         = regexp.MustCompile(`(?i)net\s*(\d+)`)

	daysPerYear = decimal.NewFromInt(365)
	hundred     = decimal.NewFromInt(100)
)

// TermsKind identifies which payment terms pattern matched.
type TermsKind string

const (
	TermsDiscountNet TermsKind = "discount_net"
	TermsNet         TermsKind = "net"
	TermsUnparsed    TermsKind = "unparsed"
)

// PaymentTerms is a parsed payment terms string such as "2/10 Net 30".
type PaymentTerms struct {
	Kind            TermsKind
	DiscountPercent decimal.Decimal
	DiscountDays    int
	NetDays         int
}

// DiscountFraction returns the discount as a fraction, e.g. 0.02 for "2/10".
func (t PaymentTerms) DiscountFraction() decimal.Decimal {
	return t.DiscountPercent.Div(hundred)
}

// ParsePaymentTerms parses free-text terms. Discount-net wins over plain net;
// anything else is TermsUnparsed with the default net days.
func ParsePaymentTerms(terms string) PaymentTerms {
	if m := discountNetPattern.FindStringSubmatch(terms); m != nil {
		pct, errPct := decimal.NewFromString(m[1])
		discDays, errDisc := strconv.Atoi(m[2])
		netDays, errNet := strconv.Atoi(m[3])
		if errPct == nil && errDisc == nil && errNet == nil && validTermDays(discDays) && validTermDays(netDays) {
			return PaymentTerms{
				Kind:            TermsDiscountNet,
				DiscountPercent: pct,
				DiscountDays:    discDays,
				NetDays:         netDays,
			}
		}
	}
	if m := netPattern.FindStringSubmatch(terms); m != nil {
		if netDays, err := strconv.Atoi(m[1]); err == nil && validTermDays(netDays) {
			return PaymentTerms{Kind: TermsNet, NetDays: netDays}
		}
	}
	return PaymentTerms{Kind: TermsUnparsed, NetDays: DefaultNetDays}
}

func validTermDays(days int) bool {
	return days >= 0 && days <= MaxTermDays
}

// PaymentPlan is the recommended payment schedule for one invoice.
type PaymentPlan struct {
	PaymentTerms       string
	Terms              PaymentTerms
	InvoiceDate        string
	DueDate            string
	DiscountDate       *string
	OptimalPaymentDate string
	PotentialSavings   decimal.Decimal
	// DiscountCaptured is true when the optimal date is the discount date.
	DiscountCaptured bool
	APR              *decimal.Decimal
	Reasoning        string
}

// OptimizePayment computes due, discount and optimal payment dates for an invoice.
// It is a pure function of its inputs.
func OptimizePayment(terms, invoiceDate string, amount decimal.Decimal) (*PaymentPlan, error) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(invoiceDate))
	if err != nil {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeInvalidInvoiceDate,
			fmt.Sprintf("invalid invoice date %q, use YYYY-MM-DD", invoiceDate),
			domainerror.ErrInvalidInvoiceDate,
		)
	}

	parsed := ParsePaymentTerms(terms)
	plan := &PaymentPlan{
		PaymentTerms:     strings.TrimSpace(terms),
		Terms:            parsed,
		InvoiceDate:      date.Format(DateLayout),
		PotentialSavings: decimal.Zero,
	}

	due := addDays(date, parsed.NetDays)
	plan.DueDate = due
	plan.OptimalPaymentDate = due

	switch parsed.Kind {
	case TermsDiscountNet:
		discount := addDays(date, parsed.DiscountDays)
		plan.DiscountDate = &discount
		fraction := parsed.DiscountFraction()

		window := parsed.NetDays - parsed.DiscountDays
		if window <= 0 {
			plan.Reasoning = fmt.Sprintf("Discount window is %d days. Pay on due date.", window)
			return plan, nil
		}
		plan.PotentialSavings = amount.Mul(fraction)
		if fraction.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			plan.OptimalPaymentDate = discount
			plan.DiscountCaptured = true
			plan.Reasoning = fmt.Sprintf("Pay early to capture %s%% discount.", parsed.DiscountPercent.String())
			return plan, nil
		}

		apr := fraction.Div(decimal.NewFromInt(1).Sub(fraction)).
			Mul(daysPerYear.Div(decimal.NewFromInt(int64(window))))
		plan.APR = &apr
		aprPct := apr.Mul(hundred).InexactFloat64()
		if apr.GreaterThan(HurdleRate) {
			plan.OptimalPaymentDate = discount
			plan.DiscountCaptured = true
			plan.Reasoning = fmt.Sprintf("Pay early to capture %s%% discount. APR %.1f%% > 10%% hurdle.",
				parsed.DiscountPercent.String(), aprPct)
		} else {
			plan.Reasoning = fmt.Sprintf("Pay on due date. Discount APR %.1f%% is below the 10%% hurdle rate.", aprPct)
		}
	case TermsNet:
		plan.Reasoning = fmt.Sprintf("Standard Net %d terms. Pay on due date.", parsed.NetDays)
	default:
		plan.Reasoning = fmt.Sprintf("Could not parse terms %q, defaulting to Net %d.", plan.PaymentTerms, DefaultNetDays)
	}

	return plan, nil
}

func addDays(date time.Time, days int) string {
	return date.AddDate(0, 0, days).Format(DateLayout)
}

// IsValidDate reports whether s is a YYYY-MM-DD date.
func IsValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
