package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Database.Driver != "postgres" {
		t.Errorf("Database.Driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.Extraction.MaxIterations != 10 {
		t.Errorf("Extraction.MaxIterations = %d, want 10", cfg.Extraction.MaxIterations)
	}
	if cfg.Matching.StrictVendorMatch {
		t.Error("Matching.StrictVendorMatch should default to false")
	}
	if cfg.Matching.RejectClosedPOs {
		t.Error("Matching.RejectClosedPOs should default to false")
	}
	if cfg.Accounting.Mode != "simulated" {
		t.Errorf("Accounting.Mode = %q, want simulated", cfg.Accounting.Mode)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("MATCH_STRICT_VENDOR", "true")
	t.Setenv("MATCH_REVIEW_CONFIDENCE_MIN", "0.9")
	t.Setenv("INGEST_DEDUP_TTL", "1h")
	t.Setenv("REVIEWER_EMAILS", "ap@example.com, , controller@example.com")
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg := Load()

	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want sqlite", cfg.Database.Driver)
	}
	if !cfg.Matching.StrictVendorMatch {
		t.Error("Matching.StrictVendorMatch should be true")
	}
	if cfg.Matching.ReviewConfidenceMin != 0.9 {
		t.Errorf("ReviewConfidenceMin = %v, want 0.9", cfg.Matching.ReviewConfidenceMin)
	}
	if cfg.Redis.DedupTTL != time.Hour {
		t.Errorf("DedupTTL = %v, want 1h", cfg.Redis.DedupTTL)
	}
	if len(cfg.Email.ReviewerEmails) != 2 || cfg.Email.ReviewerEmails[1] != "controller@example.com" {
		t.Errorf("ReviewerEmails = %v", cfg.Email.ReviewerEmails)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("invalid SERVER_PORT should fall back to default, got %d", cfg.Server.Port)
	}
}
