package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the business-rule knobs that must not be hard-coded in
// services: the VAT multiplier applied to order totals and the age after
// which an untouched draft order is swept.
type Config struct {
	VATRate       float64
	DraftMaxAge   time.Duration
	VerdictTTL    time.Duration
	SessionTTL    time.Duration
	DocumentStore string
}

const (
	defaultVATRate     = 1.20
	defaultDraftMaxAge = 30 * 24 * time.Hour
	defaultVerdictTTL  = 5 * time.Minute
	defaultSessionTTL  = 24 * time.Hour
	defaultBucket      = "tradedesk-documents"
)

// Load reads configuration from the environment, falling back to defaults.
func Load() *Config {
	cfg := &Config{
		VATRate:       defaultVATRate,
		DraftMaxAge:   defaultDraftMaxAge,
		VerdictTTL:    defaultVerdictTTL,
		SessionTTL:    defaultSessionTTL,
		DocumentStore: defaultBucket,
	}

	if v := os.Getenv("VAT_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil && rate >= 1.0 {
			cfg.VATRate = rate
		}
	}

	if v := os.Getenv("DRAFT_MAX_AGE_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			cfg.DraftMaxAge = time.Duration(hours) * time.Hour
		}
	}

	if v := os.Getenv("DOCUMENT_BUCKET"); v != "" {
		cfg.DocumentStore = v
	}

	return cfg
}
