package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"

	"github.com/ap-reconciler/backend/internal/application/adapter"
)

const documentAIProvider = "documentai"

// documentAIFields maps invoice parser entity types to extraction field names.
var documentAIFields = map[string]string{
	"supplier_name":  "vendor_name",
	"vendor_name":    "vendor_name",
	"invoice_id":     "invoice_number",
	"invoice_number": "invoice_number",
	"invoice_date":   "invoice_date",
	"purchase_order": "po_number",
	"payment_terms":  "payment_terms",
	"total_amount":   "total_amount",
}

// DocumentAIExtractor implements adapter.DocumentExtractor with a Google Document AI
// invoice processor. It reads labeled entities and never calls agent tools.
type DocumentAIExtractor struct {
	projectID       string
	location        string
	processorID     string
	credentialsFile string
}

// NewDocumentAIExtractor creates a new Document AI extractor instance.
func NewDocumentAIExtractor(projectID, location, processorID, credentialsFile string) *DocumentAIExtractor {
	if location == "" {
		location = "us"
	}
	return &DocumentAIExtractor{
		projectID:       projectID,
		location:        location,
		processorID:     processorID,
		credentialsFile: credentialsFile,
	}
}

// Name returns the provider name.
func (e *DocumentAIExtractor) Name() string { return documentAIProvider }

// IsAvailable checks if a processor is configured.
func (e *DocumentAIExtractor) IsAvailable() bool {
	return e.projectID != "" && e.processorID != ""
}

// Extract sends the document to the processor and converts its entities to fields.
func (e *DocumentAIExtractor) Extract(ctx context.Context, doc adapter.Document, _ adapter.ToolExecutor) (*adapter.ExtractionOutput, error) {
	if !e.IsAvailable() {
		return nil, fmt.Errorf("document ai extractor is not configured")
	}

	var opts []option.ClientOption
	if e.location != "us" {
		opts = append(opts, option.WithEndpoint(fmt.Sprintf("%s-documentai.googleapis.com:443", e.location)))
	}
	if e.credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(e.credentialsFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create document ai client: %w", err)
	}
	defer client.Close()

	resp, err := client.ProcessDocument(ctx, &documentaipb.ProcessRequest{
		Name: e.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  doc.Content,
				MimeType: doc.MIMEType,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to process document: %w", err)
	}
	if resp.GetDocument() == nil {
		return nil, fmt.Errorf("no document in response")
	}

	fields := entitiesToFields(resp.GetDocument().GetEntities())
	slog.DebugContext(ctx, "document ai extraction completed", "fields", len(fields))

	return &adapter.ExtractionOutput{
		Provider:   documentAIProvider,
		Fields:     fields,
		Iterations: 1,
	}, nil
}

func (e *DocumentAIExtractor) processorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", e.projectID, e.location, e.processorID)
}

// entitiesToFields converts labeled entities into {value, confidence} envelopes.
// The highest-confidence entity wins when a type repeats.
func entitiesToFields(entities []*documentaipb.Document_Entity) map[string]any {
	fields := make(map[string]any)
	best := make(map[string]float64)
	var lines []any

	for _, ent := range entities {
		if ent.GetType() == "line_item" {
			lines = append(lines, lineItemFields(ent))
			continue
		}

		name, ok := documentAIFields[ent.GetType()]
		if !ok {
			continue
		}
		conf := float64(ent.GetConfidence())
		if prev, seen := best[name]; seen && prev >= conf {
			continue
		}
		best[name] = conf
		fields[name] = map[string]any{
			"value":      entityValue(ent),
			"confidence": conf,
		}
	}

	if len(lines) > 0 {
		fields["line_items"] = lines
	}
	return fields
}

func lineItemFields(ent *documentaipb.Document_Entity) map[string]any {
	line := make(map[string]any)
	for _, prop := range ent.GetProperties() {
		switch strings.TrimPrefix(prop.GetType(), "line_item/") {
		case "description":
			line["description"] = entityValue(prop)
		case "quantity":
			line["quantity"] = entityValue(prop)
		case "unit_price":
			line["unit_price"] = entityValue(prop)
		case "amount":
			line["total"] = entityValue(prop)
		}
	}
	return line
}

// entityValue prefers the normalized money or date value over the raw mention.
func entityValue(ent *documentaipb.Document_Entity) any {
	nv := ent.GetNormalizedValue()
	if m := nv.GetMoneyValue(); m != nil {
		return decimal.NewFromInt(m.GetUnits()).
			Add(decimal.New(int64(m.GetNanos()), -9)).
			String()
	}
	if d := nv.GetDateValue(); d != nil && d.GetYear() > 0 {
		return fmt.Sprintf("%04d-%02d-%02d", d.GetYear(), d.GetMonth(), d.GetDay())
	}
	if text := strings.TrimSpace(nv.GetText()); text != "" {
		return text
	}
	return strings.TrimSpace(ent.GetMentionText())
}
