package receipt

import (
	"errors"
	"fmt"
)

// Scan job errors. All of these abort the job; provider failures on the
// chunked path are degraded per band instead (see Scanner.Scan).
var (
	// ErrUndecodableImage is returned when the payload is not a
	// recognizable raster image.
	ErrUndecodableImage = errors.New("image bytes are not a recognizable raster format")

	// ErrInvalidChunkConfig is returned when the band height does not
	// exceed the overlap; such a plan would never terminate.
	ErrInvalidChunkConfig = errors.New("band height must exceed band overlap")

	// ErrBandOutOfBounds is returned when a band does not fit inside the
	// source image. This indicates a planner defect, not bad input.
	ErrBandOutOfBounds = errors.New("band exceeds source image bounds")

	// ErrInvalidDataURI is returned when a data-URI payload cannot be parsed.
	ErrInvalidDataURI = errors.New("malformed data URI payload")
)

// ScanError wraps errors with additional context about the failed job step.
type ScanError struct {
	// Op is the operation that failed (e.g., "Inspect", "PlanBands").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("receipt: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("receipt: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ScanError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *ScanError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewScanError creates a new ScanError with the specified operation and underlying error.
func NewScanError(op string, err error, details string) *ScanError {
	return &ScanError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapScanError wraps an error as a ScanError if it isn't already one.
func WrapScanError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var scanErr *ScanError
	if errors.As(err, &scanErr) {
		return err // Already wrapped
	}

	return NewScanError(op, err, details)
}
