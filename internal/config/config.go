package config

import (
	"fmt"
	"os"
	"strconv"

	"receiptscan/internal/logger"
)

// Default chunking thresholds. The Vision backend handles receipts up to
// roughly 3000px in one request with stable results; taller scans are split
// into overlapping bands.
const (
	DefaultSingleShotMaxHeight = 3000
	DefaultBandHeight          = 3000
	DefaultBandOverlap         = 300
)

type Config struct {
	// OCR provider selection: "vision" (default) or "documentai"
	OCRProvider  string
	LanguageHint string

	// Chunking thresholds
	SingleShotMaxHeight int
	BandHeight          int
	BandOverlap         int

	// Google Cloud Configuration (Document AI only; Vision needs credentials alone)
	GoogleCloudProject    string
	GoogleCloudLocation   string
	DocumentAIProcessorID string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		OCRProvider:           getEnv("RECEIPT_OCR_PROVIDER", "vision"),
		LanguageHint:          getEnv("RECEIPT_LANGUAGE_HINT", "en"),
		GoogleCloudProject:    getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:   getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		DocumentAIProcessorID: getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:         getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:             getEnv("LOG_OUTPUT", "stdout"),
	}

	var err error
	if config.SingleShotMaxHeight, err = getEnvInt("RECEIPT_SINGLE_SHOT_MAX_HEIGHT", DefaultSingleShotMaxHeight); err != nil {
		return nil, err
	}
	if config.BandHeight, err = getEnvInt("RECEIPT_BAND_HEIGHT", DefaultBandHeight); err != nil {
		return nil, err
	}
	if config.BandOverlap, err = getEnvInt("RECEIPT_BAND_OVERLAP", DefaultBandOverlap); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.OCRProvider != "vision" && c.OCRProvider != "documentai" {
		return fmt.Errorf("RECEIPT_OCR_PROVIDER must be \"vision\" or \"documentai\", got %q", c.OCRProvider)
	}
	if c.BandHeight <= 0 {
		return fmt.Errorf("RECEIPT_BAND_HEIGHT must be positive, got %d", c.BandHeight)
	}
	if c.BandOverlap < 0 {
		return fmt.Errorf("RECEIPT_BAND_OVERLAP must not be negative, got %d", c.BandOverlap)
	}
	if c.BandHeight <= c.BandOverlap {
		return fmt.Errorf("RECEIPT_BAND_HEIGHT (%d) must exceed RECEIPT_BAND_OVERLAP (%d)", c.BandHeight, c.BandOverlap)
	}
	if c.SingleShotMaxHeight <= 0 {
		return fmt.Errorf("RECEIPT_SINGLE_SHOT_MAX_HEIGHT must be positive, got %d", c.SingleShotMaxHeight)
	}
	if c.OCRProvider == "documentai" {
		if c.GoogleCloudProject == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT is required when RECEIPT_OCR_PROVIDER=documentai")
		}
		if c.DocumentAIProcessorID == "" {
			return fmt.Errorf("DOCUMENT_AI_PROCESSOR_ID is required when RECEIPT_OCR_PROVIDER=documentai")
		}
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return n, nil
}
