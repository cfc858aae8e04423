package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFileType is returned for the unsupported family before
	// any parsing is attempted.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	ErrFileTooLarge = errors.New("file too large")
)

// ExtractionError reports that an artifact could not be read as its family.
type ExtractionError struct {
	Family Family
	Cause  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract %s content: %v", e.Family, e.Cause)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

// ReconstructionError reports that edited text could not be written back
// into its family's format.
type ReconstructionError struct {
	Family Family
	Cause  error
}

func (e *ReconstructionError) Error() string {
	return fmt.Sprintf("failed to reconstruct %s file: %v", e.Family, e.Cause)
}

func (e *ReconstructionError) Unwrap() error { return e.Cause }
