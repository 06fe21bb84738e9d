package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/ap-reconciler/backend/internal/application/adapter"
)

const (
	geminiProvider       = "gemini"
	defaultGeminiModel   = "gemini-2.0-flash"
	defaultMaxIterations = 10
	geminiTemperature    = 0.1
	geminiSystemPrompt   = `You are an autonomous accounts payable agent. For every invoice:

1. Extract vendor name, invoice number, invoice date (YYYY-MM-DD), PO number, payment terms
   (for example "Net 30" or "2/10 Net 30"), total amount and line items.
2. Validate the vendor with validate_vendor.
3. When a PO number is present, run perform_3_way_match.
4. When payment terms are present, run optimize_payment to find the optimal payment date.
5. Flag anything suspicious with flag_anomaly and try resolve_discrepancy for match failures.
6. Finish with a single JSON object and no other text.`
	geminiUserPrompt     = `Process this invoice and reply with JSON shaped like:
{
  "vendor_name": {"value": "string", "confidence": 0.0-1.0},
  "invoice_number": {"value": "string", "confidence": 0.0-1.0},
  "invoice_date": {"value": "YYYY-MM-DD", "confidence": 0.0-1.0},
  "po_number": {"value": "string or null", "confidence": 0.0-1.0},
  "payment_terms": {"value": "string or null", "confidence": 0.0-1.0},
  "total_amount": {"value": number, "confidence": 0.0-1.0},
  "line_items": [{"description": "string", "quantity": number, "unit_price": number, "total": number}],
  "summary": "one sentence on what you validated"
}`
)

// GeminiExtractor implements adapter.DocumentExtractor using Google Gemini with function calling.
type GeminiExtractor struct {
	apiKey        string
	modelName     string
	maxIterations int
}

// NewGeminiExtractor creates a new Gemini extractor instance.
func NewGeminiExtractor(apiKey, modelName string, maxIterations int) *GeminiExtractor {
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	if maxIterations <= 0 {
		maxIterations = defaultMaxIterations
	}
	return &GeminiExtractor{
		apiKey:        apiKey,
		modelName:     modelName,
		maxIterations: maxIterations,
	}
}

// Name returns the provider name.
func (e *GeminiExtractor) Name() string { return geminiProvider }

// IsAvailable checks if the Gemini extractor is properly configured.
func (e *GeminiExtractor) IsAvailable() bool {
	return e.apiKey != ""
}

// Extract runs the agent loop: the model reads the document, calls tools, and
// finishes with a JSON object of extracted fields.
func (e *GeminiExtractor) Extract(ctx context.Context, doc adapter.Document, tools adapter.ToolExecutor) (*adapter.ExtractionOutput, error) {
	if !e.IsAvailable() {
		return nil, fmt.Errorf("gemini extractor is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(e.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(e.modelName)
	model.SetTemperature(geminiTemperature)
	model.SystemInstruction = genai.NewUserContent(genai.Text(geminiSystemPrompt))
	if tools != nil {
		model.Tools = []*genai.Tool{{FunctionDeclarations: toolDeclarations()}}
	}

	chat := model.StartChat()
	parts := documentParts(doc)

	out := &adapter.ExtractionOutput{Provider: geminiProvider}
	for out.Iterations < e.maxIterations {
		out.Iterations++

		resp, err := chat.SendMessage(ctx, parts...)
		if err != nil {
			return nil, fmt.Errorf("failed to generate content: %w", err)
		}
		if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return nil, fmt.Errorf("empty response from gemini")
		}

		calls, text := splitParts(resp.Candidates[0].Content.Parts)
		if len(calls) == 0 {
			fields, err := parseExtraction(text)
			if err != nil {
				return nil, fmt.Errorf("failed to parse response: %w", err)
			}
			if summary, ok := fields["summary"].(string); ok {
				out.Summary = summary
				delete(fields, "summary")
			}
			out.Fields = fields
			return out, nil
		}

		parts = parts[:0]
		for _, call := range calls {
			result, err := tools.ExecuteTool(ctx, call.Name, call.Args)
			if err != nil {
				return nil, fmt.Errorf("failed to execute tool %s: %w", call.Name, err)
			}
			slog.DebugContext(ctx, "agent tool call", "tool", call.Name, "iteration", out.Iterations)
			out.ToolCalls = append(out.ToolCalls, adapter.ToolCall{Name: call.Name, Args: call.Args, Result: result})
			parts = append(parts, genai.FunctionResponse{Name: call.Name, Response: result})
		}
	}

	return nil, fmt.Errorf("agent did not finish within %d iterations", e.maxIterations)
}

// documentParts builds the first message: the document itself plus the instructions.
func documentParts(doc adapter.Document) []genai.Part {
	if doc.IsText() {
		return []genai.Part{
			genai.Text("Invoice text:\n\n" + string(doc.Content)),
			genai.Text(geminiUserPrompt),
		}
	}
	return []genai.Part{
		genai.Blob{MIMEType: doc.MIMEType, Data: doc.Content},
		genai.Text(geminiUserPrompt),
	}
}

func splitParts(parts []genai.Part) ([]genai.FunctionCall, string) {
	var calls []genai.FunctionCall
	var sb strings.Builder
	for _, part := range parts {
		switch p := part.(type) {
		case genai.FunctionCall:
			calls = append(calls, p)
		case genai.Text:
			sb.WriteString(string(p))
		}
	}
	return calls, sb.String()
}

// parseExtraction pulls the outermost JSON object out of the model's final text.
func parseExtraction(text string) (map[string]any, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	decoder := json.NewDecoder(strings.NewReader(text[start : end+1]))
	decoder.UseNumber()
	var fields map[string]any
	if err := decoder.Decode(&fields); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return fields, nil
}

func stringProp(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description}
}

func toolDeclarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        adapter.ToolValidateVendor,
			Description: "Check if a vendor exists in the company database",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"vendor_name": stringProp("The name of the vendor from the invoice"),
				},
				Required: []string{"vendor_name"},
			},
		},
		{
			Name:        adapter.ToolThreeWayMatch,
			Description: "Validate the PO number, compare the invoice amount with the PO (2-way) and with goods receipts (3-way)",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"po_number":      stringProp("The PO number from the invoice"),
					"vendor_name":    stringProp("The vendor name"),
					"invoice_amount": {Type: genai.TypeNumber, Description: "The total invoice amount"},
				},
				Required: []string{"po_number", "vendor_name", "invoice_amount"},
			},
		},
		{
			Name:        adapter.ToolOptimizePayment,
			Description: "Calculate the optimal payment date from payment terms such as 2/10 Net 30",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"payment_terms": stringProp("Payment terms, for example 'Net 30' or '2/10 Net 30'"),
					"invoice_date":  stringProp("Invoice date in YYYY-MM-DD format"),
					"amount":        {Type: genai.TypeNumber, Description: "Total invoice amount"},
				},
				Required: []string{"payment_terms", "invoice_date", "amount"},
			},
		},
		{
			Name:        adapter.ToolFlagAnomaly,
			Description: "Flag an issue with the invoice for human review",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"anomaly_type": stringProp("Type of anomaly, for example missing_vendor or amount_mismatch"),
					"description":  stringProp("Detailed description of the anomaly"),
					"severity": {
						Type:        genai.TypeString,
						Description: "Severity level of the anomaly",
						Enum:        []string{"low", "medium", "high", "critical"},
					},
				},
				Required: []string{"anomaly_type", "description"},
			},
		},
		{
			Name:        adapter.ToolResolveDiscrepancy,
			Description: "Attempt to resolve a discrepancy through vendor outreach or auto-correction",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"discrepancy_type":   stringProp("The type of issue, for example 3_way_failure or vendor_not_found"),
					"details":            stringProp("Context about the discrepancy"),
					"recommended_action": stringProp("One of outreach_vendor, email_purchasing, auto_correct, escalate"),
				},
				Required: []string{"discrepancy_type", "details", "recommended_action"},
			},
		},
	}
}
