package adapters

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"google.golang.org/genproto/googleapis/type/money"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
)

func TestTokenService(t *testing.T) {
	ctx := context.Background()
	svc := NewTokenService("test-secret", time.Hour)
	reviewerID := uuid.New()

	token, err := svc.GenerateAccessToken(ctx, reviewerID, "ap@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("round trip", func(t *testing.T) {
		claims, err := svc.ValidateAccessToken(ctx, token.Token)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if claims.ReviewerID != reviewerID {
			t.Errorf("expected reviewer %s, got %s", reviewerID, claims.ReviewerID)
		}
		if claims.Email != "ap@example.com" {
			t.Errorf("expected email ap@example.com, got %s", claims.Email)
		}
	})

	t.Run("other secret is rejected", func(t *testing.T) {
		other := NewTokenService("another-secret", time.Hour)
		if _, err := other.ValidateAccessToken(ctx, token.Token); !errors.Is(err, domainerror.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		expired := &tokenService{secret: []byte("test-secret"), duration: -time.Minute}
		old, err := expired.GenerateAccessToken(ctx, reviewerID, "ap@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := svc.ValidateAccessToken(ctx, old.Token); !errors.Is(err, domainerror.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		if _, err := svc.ValidateAccessToken(ctx, "not-a-token"); !errors.Is(err, domainerror.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestPasswordService(t *testing.T) {
	svc := NewPasswordService()

	t.Run("strength", func(t *testing.T) {
		tests := []struct {
			name     string
			password string
			wantErr  bool
		}{
			{"too short", "short", true},
			{"minimum length", "12345678", false},
			{"over bcrypt limit", strings.Repeat("a", 73), true},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := svc.ValidatePasswordStrength(tt.password)
				if tt.wantErr && !errors.Is(err, domainerror.ErrWeakPassword) {
					t.Errorf("expected ErrWeakPassword, got %v", err)
				}
				if !tt.wantErr && err != nil {
					t.Errorf("expected no error, got %v", err)
				}
			})
		}
	})

	t.Run("hash and verify", func(t *testing.T) {
		hash, err := svc.HashPassword("correct horse")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := svc.VerifyPassword(hash, "correct horse"); err != nil {
			t.Errorf("expected match, got %v", err)
		}
		if err := svc.VerifyPassword(hash, "wrong horse"); err == nil {
			t.Error("expected mismatch error")
		}
	})
}

func TestRedisDeduplicator(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	dedup := NewRedisDeduplicator(client, time.Hour)

	claimed, existing, err := dedup.Claim(ctx, "abc")
	if err != nil || !claimed || existing != "" {
		t.Fatalf("expected first claim to succeed, got %v %q %v", claimed, existing, err)
	}

	t.Run("in flight claim has no invoice yet", func(t *testing.T) {
		claimed, existing, err := dedup.Claim(ctx, "abc")
		if err != nil || claimed || existing != "" {
			t.Errorf("expected pending claim, got %v %q %v", claimed, existing, err)
		}
	})

	t.Run("bound claim returns the invoice id", func(t *testing.T) {
		if err := dedup.Bind(ctx, "abc", "inv-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		claimed, existing, err := dedup.Claim(ctx, "abc")
		if err != nil || claimed || existing != "inv-1" {
			t.Errorf("expected duplicate of inv-1, got %v %q %v", claimed, existing, err)
		}
		if ttl := mr.TTL(dedupKey("abc")); ttl != time.Hour {
			t.Errorf("expected ttl 1h, got %s", ttl)
		}
	})

	t.Run("release allows a new claim", func(t *testing.T) {
		if err := dedup.Release(ctx, "abc"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		claimed, _, err := dedup.Claim(ctx, "abc")
		if err != nil || !claimed {
			t.Errorf("expected claim after release, got %v %v", claimed, err)
		}
	})

	t.Run("redis down", func(t *testing.T) {
		mr.Close()
		if _, _, err := dedup.Claim(ctx, "def"); err == nil {
			t.Error("expected error when redis is unavailable")
		}
	})
}

func TestImagePreprocessor(t *testing.T) {
	prep := NewImagePreprocessor(100)

	t.Run("non images pass through", func(t *testing.T) {
		doc := adapter.Document{Filename: "inv.pdf", MIMEType: "application/pdf", Content: []byte("%PDF-1.4")}
		got, err := prep.Prepare(doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(got.Content, doc.Content) || got.MIMEType != doc.MIMEType {
			t.Error("expected document unchanged")
		}
	})

	t.Run("large image is downscaled to jpeg", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 400, 200))
		for x := 0; x < 400; x++ {
			src.Set(x, 100, color.Black)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, src); err != nil {
			t.Fatalf("failed to encode png: %v", err)
		}

		got, err := prep.Prepare(adapter.Document{Filename: "scan.png", MIMEType: "image/png", Content: buf.Bytes()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.MIMEType != "image/jpeg" || got.Filename != "scan.jpg" {
			t.Errorf("expected scan.jpg as image/jpeg, got %s as %s", got.Filename, got.MIMEType)
		}
		cfg, _, err := image.DecodeConfig(bytes.NewReader(got.Content))
		if err != nil {
			t.Fatalf("failed to decode output: %v", err)
		}
		if cfg.Width != 100 || cfg.Height != 50 {
			t.Errorf("expected 100x50, got %dx%d", cfg.Width, cfg.Height)
		}
	})

	t.Run("corrupt image", func(t *testing.T) {
		if _, err := prep.Prepare(adapter.Document{MIMEType: "image/png", Content: []byte("nope")}); err == nil {
			t.Error("expected decode error")
		}
	})
}

func TestParseExtraction(t *testing.T) {
	text := "Here is the result:\n```json\n{\"vendor_name\": {\"value\": \"Acme Corp\", \"confidence\": 0.95}, \"total_amount\": 5000.00}\n```"
	fields, err := parseExtraction(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vendor, ok := fields["vendor_name"].(map[string]any)
	if !ok || vendor["value"] != "Acme Corp" {
		t.Errorf("expected vendor envelope, got %v", fields["vendor_name"])
	}
	if fields["total_amount"] == nil {
		t.Error("expected total amount")
	}

	if _, err := parseExtraction("no json here"); err == nil {
		t.Error("expected error for text without JSON")
	}
}

func TestToolDeclarations(t *testing.T) {
	decls := toolDeclarations()
	want := []string{
		adapter.ToolValidateVendor,
		adapter.ToolThreeWayMatch,
		adapter.ToolOptimizePayment,
		adapter.ToolFlagAnomaly,
		adapter.ToolResolveDiscrepancy,
	}
	if len(decls) != len(want) {
		t.Fatalf("expected %d tools, got %d", len(want), len(decls))
	}
	for i, name := range want {
		if decls[i].Name != name {
			t.Errorf("expected tool %s at %d, got %s", name, i, decls[i].Name)
		}
	}
}

func TestEntitiesToFields(t *testing.T) {
	entities := []*documentaipb.Document_Entity{
		{Type: "supplier_name", MentionText: " Acme Corp ", Confidence: 0.7},
		{Type: "supplier_name", MentionText: "ACME", Confidence: 0.4},
		{Type: "purchase_order", MentionText: "PO-001", Confidence: 0.9},
		{
			Type:        "total_amount",
			MentionText: "$5,000.00",
			Confidence:  0.99,
			NormalizedValue: &documentaipb.Document_Entity_NormalizedValue{
				StructuredValue: &documentaipb.Document_Entity_NormalizedValue_MoneyValue{
					MoneyValue: &money.Money{CurrencyCode: "USD", Units: 5000, Nanos: 500000000},
				},
			},
		},
		{
			Type: "line_item",
			Properties: []*documentaipb.Document_Entity{
				{Type: "line_item/description", MentionText: "Widgets"},
				{Type: "line_item/amount", MentionText: "5000.50"},
			},
		},
		{Type: "receiver_name", MentionText: "Ignored"},
	}

	fields := entitiesToFields(entities)

	vendor := fields["vendor_name"].(map[string]any)
	if vendor["value"] != "Acme Corp" {
		t.Errorf("expected highest confidence vendor Acme Corp, got %v", vendor["value"])
	}
	if _, ok := fields["receiver_name"]; ok {
		t.Error("expected unmapped entity to be dropped")
	}
	total := fields["total_amount"].(map[string]any)
	if total["value"] != "5000.5" {
		t.Errorf("expected normalized money 5000.5, got %v", total["value"])
	}
	po := fields["po_number"].(map[string]any)
	if po["value"] != "PO-001" {
		t.Errorf("expected PO-001, got %v", po["value"])
	}
	lines, ok := fields["line_items"].([]any)
	if !ok || len(lines) != 1 {
		t.Fatalf("expected one line item, got %v", fields["line_items"])
	}
	if line := lines[0].(map[string]any); line["total"] != "5000.50" || line["description"] != "Widgets" {
		t.Errorf("unexpected line item %v", line)
	}
}
