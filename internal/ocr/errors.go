package ocr

import (
	"errors"
	"fmt"
)

// Common detection errors
var (
	// ErrDetectionFailed is returned when the text detection provider
	// rejects or fails to process a request.
	ErrDetectionFailed = errors.New("text detection failed")

	// ErrMissingCredentials is returned when neither GOOGLE_APPLICATION_CREDENTIALS
	// nor GOOGLE_CREDENTIALS environment variables are configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")

	// ErrInvalidConfiguration is returned when a detector is constructed
	// without the settings its backend requires.
	ErrInvalidConfiguration = errors.New("invalid detector configuration")

	// ErrEmptyImage is returned when the payload contains no bytes to send.
	ErrEmptyImage = errors.New("empty image payload")
)

// OCRError wraps errors with additional context about the detection failure.
type OCRError struct {
	// Op is the operation that failed (e.g., "Detect", "NewGoogleVisionDetector").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure, typically
	// the provider's own message.
	Details string
}

// Error implements the error interface.
func (e *OCRError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ocr: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ocr: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *OCRError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *OCRError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewOCRError creates a new OCRError with the specified operation and underlying error.
func NewOCRError(op string, err error, details string) *OCRError {
	return &OCRError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapOCRError wraps an error as an OCRError if it isn't already one.
func WrapOCRError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var ocrErr *OCRError
	if errors.As(err, &ocrErr) {
		return err // Already wrapped
	}

	return NewOCRError(op, err, details)
}
