package parser

import (
	"errors"
	"fmt"
)

// Kind classifies a terminal parse failure. Kinds are stable strings stored
// on the job record and surfaced verbatim by the status API.
type Kind string

const (
	// KindInvalidDocument means the payload is not a well-formed PDF.
	KindInvalidDocument Kind = "InvalidDocument"

	// KindNoTextLayer means the document has no machine-readable text layer
	// and no OCR fallback produced one.
	KindNoTextLayer Kind = "NoTextLayer"

	// KindOCRUnavailable means OCR was attempted but the engine is missing.
	KindOCRUnavailable Kind = "OcrUnavailable"

	// KindOCRFailed means the OCR engine ran and failed.
	KindOCRFailed Kind = "OcrFailed"

	// KindUnsupportedProvider means no registered strategy signature matched.
	KindUnsupportedProvider Kind = "UnsupportedProvider"

	// KindExtractionFailure means the selected strategy could not locate one
	// or more of the required fields.
	KindExtractionFailure Kind = "ExtractionFailure"

	// KindValidationFailure means the strategy produced a record that failed
	// schema sanity checks.
	KindValidationFailure Kind = "ValidationFailure"

	// KindTimeout means execution exceeded the configured deadline.
	KindTimeout Kind = "Timeout"
)

// ParseError is a classified, terminal pipeline failure. It is never retried;
// the same input deterministically produces the same ParseError.
type ParseError struct {
	Kind    Kind
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewParseError builds a ParseError with a formatted message.
func NewParseError(kind Kind, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AsParseError unwraps err into a *ParseError if it is one.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// ErrDuplicateProvider is returned by Registry.Register when a provider id is
// registered twice. This is a startup configuration error, not a per-job one.
var ErrDuplicateProvider = errors.New("duplicate provider registration")
