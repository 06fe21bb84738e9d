package invoice

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/application/usecase/reconciliation"
	"github.com/ap-reconciler/backend/internal/domain/entity"
	"github.com/ap-reconciler/backend/internal/domain/valueobject"
)

// Resolution statuses returned by the resolve_discrepancy tool.
const (
	ResolutionOutreachSent  = "outreach_sent"
	ResolutionAutoCorrected = "auto_corrected"
	ResolutionEscalated     = "flagged_for_human"
)

// AgentTools executes extraction agent tool calls against the reconciliation engine.
// One instance serves one document; it collects the anomalies the agent flags.
type AgentTools struct {
	engine *reconciliation.Engine

	mu          sync.Mutex
	anomalies   []entity.Anomaly
	resolutions []string
}

// NewAgentTools creates a new AgentTools instance.
func NewAgentTools(engine *reconciliation.Engine) *AgentTools {
	return &AgentTools{
		engine: engine,
	}
}

var _ adapter.ToolExecutor = (*AgentTools)(nil)

// ExecuteTool runs one tool call.
func (t *AgentTools) ExecuteTool(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	switch name {
	case adapter.ToolValidateVendor:
		match, err := t.engine.ResolveVendor(ctx, stringArg(args, "vendor_name"))
		if err != nil {
			return nil, err
		}
		return VendorMatchMap(match), nil

	case adapter.ToolThreeWayMatch, adapter.ToolCheckPO:
		result, err := t.engine.MatchPO(ctx,
			stringArg(args, "po_number"),
			stringArg(args, "vendor_name"),
			decimalArg(args, "invoice_amount"),
		)
		if err != nil {
			return nil, err
		}
		return POMatchMap(result), nil

	case adapter.ToolOptimizePayment:
		plan, err := valueobject.OptimizePayment(
			stringArg(args, "payment_terms"),
			stringArg(args, "invoice_date"),
			decimalArg(args, "amount"),
		)
		if err != nil {
			return map[string]any{"error": err.Error()}, nil
		}
		return PaymentPlanMap(plan), nil

	case adapter.ToolFlagAnomaly:
		anomalyType := stringArg(args, "anomaly_type")
		if anomalyType == "" {
			anomalyType = "unknown"
		}
		anomaly := entity.NewAnomaly(anomalyType, stringArg(args, "description"),
			entity.AnomalySeverity(strings.ToLower(stringArg(args, "severity"))))
		t.mu.Lock()
		t.anomalies = append(t.anomalies, anomaly)
		t.mu.Unlock()
		return map[string]any{
			"flagged":      true,
			"anomaly_type": anomaly.Type,
			"description":  anomaly.Description,
			"severity":     string(anomaly.Severity),
			"message":      fmt.Sprintf("Anomaly flagged: %s (%s)", anomaly.Type, anomaly.Severity),
		}, nil

	case adapter.ToolResolveDiscrepancy:
		result := ResolveDiscrepancy(
			stringArg(args, "discrepancy_type"),
			stringArg(args, "details"),
			stringArg(args, "recommended_action"),
		)
		t.mu.Lock()
		t.resolutions = append(t.resolutions, result["resolution_status"].(string))
		t.mu.Unlock()
		return result, nil

	default:
		return map[string]any{"error": fmt.Sprintf("Unknown tool: %s", name)}, nil
	}
}

// Anomalies returns the anomalies flagged so far.
func (t *AgentTools) Anomalies() []entity.Anomaly {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]entity.Anomaly, len(t.anomalies))
	copy(out, t.anomalies)
	return out
}

// Resolutions returns the resolution statuses of resolve_discrepancy calls.
func (t *AgentTools) Resolutions() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.resolutions))
	copy(out, t.resolutions)
	return out
}

// ResolveDiscrepancy classifies a recommended action into outreach, auto-correction
// or escalation. Nothing is sent; the outcome is only recorded.
func ResolveDiscrepancy(discrepancyType, details, recommendedAction string) map[string]any {
	action := strings.ToLower(recommendedAction)
	switch {
	case strings.Contains(action, "outreach") || strings.Contains(action, "email"):
		return map[string]any{
			"resolution_status": ResolutionOutreachSent,
			"action_taken":      "Queued outreach to vendor or internal team",
			"details":           fmt.Sprintf("Outreach triggered for %s. Content: %s", discrepancyType, details),
			"auto_resolved":     false,
		}
	case strings.Contains(action, "correct") || strings.Contains(action, "accept"):
		return map[string]any{
			"resolution_status": ResolutionAutoCorrected,
			"action_taken":      "Applied auto-correction within tolerance",
			"details":           details,
			"auto_resolved":     true,
		}
	default:
		return map[string]any{
			"resolution_status": ResolutionEscalated,
			"action_taken":      "Escalated to human review queue",
			"details":           details,
			"auto_resolved":     false,
		}
	}
}

// VendorMatchMap renders a vendor match the way tools and the match endpoint report it.
func VendorMatchMap(m *valueobject.VendorMatch) map[string]any {
	return map[string]any{
		"valid":     m.Valid,
		"vendor_id": optionalString(m.VendorID),
		"category":  optionalString(m.Category),
		"message":   m.Message,
	}
}

// POMatchMap renders a PO match result. Checks that never ran are omitted.
func POMatchMap(r *valueobject.POMatchResult) map[string]any {
	out := map[string]any{
		"valid":        r.Valid,
		"po_found":     r.POFound,
		"vendor_match": r.VendorMatch,
		"match_type":   string(r.MatchType),
		"message":      r.Message,
		"has_receipts": r.HasReceipts,
	}
	if r.AmountInTolerance != nil {
		out["amount_in_tolerance"] = *r.AmountInTolerance
	}
	if r.ExpectedAmount != nil {
		out["expected_amount"] = r.ExpectedAmount.InexactFloat64()
	}
	if r.TotalReceived != nil {
		out["total_received"] = r.TotalReceived.InexactFloat64()
	}
	if r.TolerancePercent != nil {
		out["tolerance_percent"] = r.TolerancePercent.InexactFloat64()
	}
	if r.POStatus != nil {
		out["po_status"] = *r.POStatus
	}
	return out
}

// PaymentPlanMap renders a payment plan.
func PaymentPlanMap(p *valueobject.PaymentPlan) map[string]any {
	return map[string]any{
		"payment_terms":        p.PaymentTerms,
		"invoice_date":         p.InvoiceDate,
		"due_date":             p.DueDate,
		"discount_date":        optionalString(p.DiscountDate),
		"optimal_payment_date": p.OptimalPaymentDate,
		"potential_savings":    p.PotentialSavings.Round(2).InexactFloat64(),
		"reasoning":            p.Reasoning,
	}
}

func optionalString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func stringArg(args map[string]any, key string) string {
	return valueobject.NormalizeScalar(args[key]).String()
}

func decimalArg(args map[string]any, key string) decimal.Decimal {
	d, _ := valueobject.NormalizeScalar(args[key]).Decimal()
	return d
}
