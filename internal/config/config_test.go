package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RECEIPT_OCR_PROVIDER", "")
	t.Setenv("RECEIPT_SINGLE_SHOT_MAX_HEIGHT", "")
	t.Setenv("RECEIPT_BAND_HEIGHT", "")
	t.Setenv("RECEIPT_BAND_OVERLAP", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OCRProvider != "vision" {
		t.Fatalf("default provider: got %q", cfg.OCRProvider)
	}
	if cfg.SingleShotMaxHeight != DefaultSingleShotMaxHeight ||
		cfg.BandHeight != DefaultBandHeight ||
		cfg.BandOverlap != DefaultBandOverlap {
		t.Fatalf("default thresholds: got %d/%d/%d", cfg.SingleShotMaxHeight, cfg.BandHeight, cfg.BandOverlap)
	}
}

func TestLoadRejectsMalformedInt(t *testing.T) {
	t.Setenv("RECEIPT_BAND_HEIGHT", "abc")

	_, err := Load()
	if err == nil {
		t.Fatal("a malformed threshold must not silently fall back to the default")
	}
	if !strings.Contains(err.Error(), "RECEIPT_BAND_HEIGHT") {
		t.Fatalf("error must name the offending variable: %v", err)
	}
}

func TestLoadRejectsBandHeightNotAboveOverlap(t *testing.T) {
	t.Setenv("RECEIPT_BAND_HEIGHT", "300")
	t.Setenv("RECEIPT_BAND_OVERLAP", "300")

	if _, err := Load(); err == nil {
		t.Fatal("band height equal to overlap must fail validation")
	}
}

func TestLoadDocumentAIRequiresProcessor(t *testing.T) {
	t.Setenv("RECEIPT_OCR_PROVIDER", "documentai")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "demo-project")
	t.Setenv("DOCUMENT_AI_PROCESSOR_ID", "")

	if _, err := Load(); err == nil {
		t.Fatal("documentai provider without a processor ID must fail validation")
	}
}
