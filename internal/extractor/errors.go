package extractor

import (
	"fmt"

	"github.com/rohmanhakim/parks-explorer/internal/metadata"
	"github.com/rohmanhakim/parks-explorer/pkg/failure"
)

type ExtractionErrorCause string

const (
	ErrCauseNotHTML     ExtractionErrorCause = "not an HTML document"
	ErrCauseNoStateMenu ExtractionErrorCause = "state menu not found"
	ErrCauseNoParkList  ExtractionErrorCause = "park listing not found"
)

type ExtractionError struct {
	Message   string
	Retryable bool
	Cause     ExtractionErrorCause
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extractor error: %s", e.Cause)
}

func (e *ExtractionError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapExtractionErrorToMetadataCause maps extractor-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapExtractionErrorToMetadataCause(err *ExtractionError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseNotHTML, ErrCauseNoStateMenu, ErrCauseNoParkList:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
