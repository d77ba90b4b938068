package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"receiptscan/internal/config"
	"receiptscan/internal/logger"
	"receiptscan/internal/ocr"
	"receiptscan/internal/receipt"
)

var scanCmd = &cobra.Command{
	Use:   "scan [image-file]",
	Short: "Extract a plain-text transcript from a receipt image",
	Long: `Process a receipt image using Google Cloud document text detection and
print the resulting transcript.

Images taller than the single-shot height limit are split into overlapping
horizontal bands. Each band is sent to the provider separately and the
per-band results are stitched into one transcript with boundary duplicates
removed. A band whose detection call fails contributes no text; the rest of
the receipt is still transcribed.

Required environment variables:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string`,
	Example: `  # Transcribe receipt.jpg to stdout
  receiptscan scan receipt.jpg

  # Save the transcript to a file
  receiptscan scan receipt.jpg -o transcript.txt

  # Include dimensions and chunking metadata as JSON
  receiptscan scan receipt.jpg --json -o result.json

  # Override the chunking thresholds
  receiptscan scan long-receipt.png --band-height 2000 --band-overlap 200`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

// ScanOutput represents the JSON output structure when --json flag is used
type ScanOutput struct {
	Text       string             `json:"text"`
	Dimensions receipt.Dimensions `json:"dimensions"`
	Chunked    bool               `json:"chunked"`
	FileName   string             `json:"file_name"`
	FileSize   int64              `json:"file_size"`
	Duration   string             `json:"duration,omitempty"`
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	scanCmd.Flags().BoolP("metadata", "m", false, "Include metadata header in text output")
	scanCmd.Flags().Bool("json", false, "Output as JSON")
	scanCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
	scanCmd.Flags().String("provider", "", "Text detection provider: vision or documentai (default: RECEIPT_OCR_PROVIDER)")
	scanCmd.Flags().Int("max-height", 0, "Single-shot height limit in pixels (default: RECEIPT_SINGLE_SHOT_MAX_HEIGHT)")
	scanCmd.Flags().Int("band-height", 0, "Band height in pixels for the chunked path (default: RECEIPT_BAND_HEIGHT)")
	scanCmd.Flags().Int("band-overlap", 0, "Overlap between consecutive bands in pixels (default: RECEIPT_BAND_OVERLAP)")
}

func runScan(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("scan")

	outputPath, _ := cmd.Flags().GetString("output")
	includeMetadata, _ := cmd.Flags().GetBool("metadata")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	imagePath := args[0]

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Configuration is invalid")
		return err
	}
	applyFlagOverrides(cmd, cfg)

	log.Info().
		Str("file", imagePath).
		Str("output", outputPath).
		Str("provider", cfg.OCRProvider).
		Bool("json", jsonOutput).
		Int("timeout", timeoutSecs).
		Msg("Starting receipt scan")

	fileInfo, err := validateImageFile(imagePath, log)
	if err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	detector, err := createDetector(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := detector.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close detector client")
		}
	}()

	payload, err := os.ReadFile(imagePath)
	if err != nil {
		log.Error().
			Err(err).
			Str("file", imagePath).
			Msg("Failed to read image file")
		return fmt.Errorf("failed to read image file: %w", err)
	}

	scanner := receipt.NewScanner(detector, receipt.Options{
		SingleShotMaxHeight: cfg.SingleShotMaxHeight,
		BandHeight:          cfg.BandHeight,
		BandOverlap:         cfg.BandOverlap,
	})

	startTime := time.Now()
	transcript, err := scanner.Scan(ctx, payload)
	if err != nil {
		return handleScanError(err, log)
	}

	duration := time.Since(startTime)
	log.Info().
		Int("width", transcript.Dimensions.Width).
		Int("height", transcript.Dimensions.Height).
		Bool("chunked", transcript.Chunked).
		Dur("duration", duration).
		Int("text_length", len(transcript.Text)).
		Msg("Scan completed successfully")

	return outputTranscript(transcript, fileInfo, outputPath, jsonOutput, includeMetadata, duration, log)
}

// applyFlagOverrides lets explicit flags take precedence over environment
// configuration.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("provider") {
		cfg.OCRProvider, _ = cmd.Flags().GetString("provider")
	}
	if cmd.Flags().Changed("max-height") {
		cfg.SingleShotMaxHeight, _ = cmd.Flags().GetInt("max-height")
	}
	if cmd.Flags().Changed("band-height") {
		cfg.BandHeight, _ = cmd.Flags().GetInt("band-height")
	}
	if cmd.Flags().Changed("band-overlap") {
		cfg.BandOverlap, _ = cmd.Flags().GetInt("band-overlap")
	}
}

// validateImageFile checks that the path points at a readable, non-empty regular file
func validateImageFile(imagePath string, log zerolog.Logger) (os.FileInfo, error) {
	fileInfo, err := os.Stat(imagePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().
				Str("file", imagePath).
				Msg("Image file not found")
			return nil, fmt.Errorf("image file not found: %s", imagePath)
		}
		if os.IsPermission(err) {
			log.Error().
				Str("file", imagePath).
				Msg("Permission denied accessing image file")
			return nil, fmt.Errorf("permission denied accessing image file: %s", imagePath)
		}
		return nil, fmt.Errorf("error accessing image file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		log.Error().
			Str("file", imagePath).
			Msg("Path is not a regular file")
		return nil, fmt.Errorf("path is not a regular file: %s", imagePath)
	}

	if fileInfo.Size() == 0 {
		log.Error().
			Str("file", imagePath).
			Msg("Image file is empty")
		return nil, fmt.Errorf("image file is empty: %s", imagePath)
	}

	return fileInfo, nil
}

// createContextWithTimeout creates a context with timeout and signal handling
func createContextWithTimeout(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling scan")
			cancel()
		case <-ctx.Done():
			// Context completed normally
		}
	}()

	return ctx, cancel
}

// createDetector builds the configured text detection backend
func createDetector(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ocr.TextDetector, error) {
	hasCredentials := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" || os.Getenv("GOOGLE_CREDENTIALS") != ""

	if !hasCredentials {
		log.Error().Msg("Google Cloud credentials not configured")
		return nil, fmt.Errorf("Google Cloud credentials not configured. Please set one of:\n\n" +
			"1. Export GOOGLE_APPLICATION_CREDENTIALS with path to service account JSON:\n" +
			"   export GOOGLE_APPLICATION_CREDENTIALS=/path/to/service-account-key.json\n\n" +
			"2. Export GOOGLE_CREDENTIALS with inline JSON:\n" +
			"   export GOOGLE_CREDENTIALS='{\"type\":\"service_account\",\"project_id\":\"your-project\",...}'\n\n" +
			"3. Use Application Default Credentials (if gcloud is configured):\n" +
			"   gcloud auth application-default login\n\n" +
			"4. Check that your .env file contains the credentials variables")
	}

	var detector ocr.TextDetector
	var err error

	switch cfg.OCRProvider {
	case "documentai":
		detector, err = ocr.NewDocumentAIDetector(ctx, ocr.DocumentAIConfig{
			ProjectID:   cfg.GoogleCloudProject,
			Location:    cfg.GoogleCloudLocation,
			ProcessorID: cfg.DocumentAIProcessorID,
		})
	default:
		detector, err = ocr.NewGoogleVisionDetector(ctx, cfg.LanguageHint)
	}

	if err != nil {
		if errors.Is(err, ocr.ErrMissingCredentials) {
			log.Error().
				Err(err).
				Msg("Google Cloud credentials validation failed")
			return nil, fmt.Errorf("Google Cloud credentials validation failed. Please verify:\n\n"+
				"1. Credentials file exists and is readable\n"+
				"2. JSON format is valid\n"+
				"3. Service account has proper permissions\n\n"+
				"Original error: %w", err)
		}
		log.Error().
			Err(err).
			Str("provider", cfg.OCRProvider).
			Msg("Failed to create text detector")
		return nil, fmt.Errorf("failed to create text detector: %w", err)
	}

	log.Debug().Str("provider", cfg.OCRProvider).Msg("Text detector created successfully")
	return detector, nil
}

// handleScanError provides user-friendly error messages for scan failures
func handleScanError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Receipt scan failed")

	errStr := err.Error()

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("scan timed out. Try increasing --timeout or processing a smaller image")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("scan was canceled")
	case errors.Is(err, receipt.ErrUndecodableImage):
		return fmt.Errorf("the file is not a recognizable raster image. Supported formats: PNG, JPEG, GIF")
	case errors.Is(err, receipt.ErrInvalidChunkConfig):
		return fmt.Errorf("invalid chunking configuration: the band height must exceed the band overlap")
	case errors.Is(err, receipt.ErrBandOutOfBounds):
		return fmt.Errorf("internal band planning error: %w", err)
	case strings.Contains(errStr, "Unauthenticated") ||
		strings.Contains(errStr, "invalid_grant") ||
		strings.Contains(errStr, "invalid_rapt") ||
		strings.Contains(errStr, "auth:") ||
		strings.Contains(errStr, "transport: per-RPC creds failed"):
		return fmt.Errorf("Google Cloud authentication failed. Please check your credentials:\n\n" +
			"1. Set GOOGLE_APPLICATION_CREDENTIALS to your service account JSON file path\n" +
			"2. Or set GOOGLE_CREDENTIALS with inline JSON\n" +
			"3. Ensure the service account has 'Cloud Vision API User' role\n\n" +
			"Original error: %v", err)
	case strings.Contains(errStr, "PERMISSION_DENIED") ||
		strings.Contains(errStr, "permission") ||
		strings.Contains(errStr, "forbidden"):
		return fmt.Errorf("permission denied. Please ensure your Google Cloud service account has the 'Cloud Vision API User' role")
	case strings.Contains(errStr, "QUOTA_EXCEEDED") ||
		strings.Contains(errStr, "quota"):
		return fmt.Errorf("Google Cloud API quota exceeded. Check your project quotas in the Google Cloud Console")
	case errors.Is(err, ocr.ErrDetectionFailed):
		return fmt.Errorf("text detection failed. This may be due to network issues, API quota limits, or service unavailability: %w", err)
	default:
		return fmt.Errorf("receipt scan failed: %w", err)
	}
}

// outputTranscript formats and outputs the scan result
func outputTranscript(transcript *receipt.Transcript, fileInfo os.FileInfo, outputPath string, jsonOutput, includeMetadata bool, duration time.Duration, log zerolog.Logger) error {
	var output strings.Builder
	var outputData []byte
	var err error

	if jsonOutput {
		scanOutput := ScanOutput{
			Text:       transcript.Text,
			Dimensions: transcript.Dimensions,
			Chunked:    transcript.Chunked,
			FileName:   filepath.Base(fileInfo.Name()),
			FileSize:   fileInfo.Size(),
			Duration:   duration.String(),
		}

		outputData, err = json.MarshalIndent(scanOutput, "", "  ")
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal JSON output")
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
	} else {
		if includeMetadata {
			output.WriteString(fmt.Sprintf("=== Scan Results for %s ===\n", filepath.Base(fileInfo.Name())))
			output.WriteString(fmt.Sprintf("File size: %d bytes\n", fileInfo.Size()))
			output.WriteString(fmt.Sprintf("Dimensions: %dx%d (%s)\n",
				transcript.Dimensions.Width, transcript.Dimensions.Height, transcript.Dimensions.Format))
			output.WriteString(fmt.Sprintf("Chunked: %t\n", transcript.Chunked))
			output.WriteString(fmt.Sprintf("Processing time: %v\n", duration))
			output.WriteString("\n=== Transcript ===\n\n")
		}

		output.WriteString(transcript.Text)
		outputData = []byte(output.String())
	}

	if outputPath != "" {
		err = os.WriteFile(outputPath, outputData, 0644)
		if err != nil {
			log.Error().
				Err(err).
				Str("output_file", outputPath).
				Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}

		log.Info().
			Str("output_file", outputPath).
			Int("bytes", len(outputData)).
			Msg("Transcript written to file")
	} else {
		_, err = os.Stdout.Write(outputData)
		if err != nil {
			log.Error().Err(err).Msg("Failed to write to stdout")
			return fmt.Errorf("failed to write output: %w", err)
		}

		if !jsonOutput {
			fmt.Println()
		}
	}

	return nil
}
