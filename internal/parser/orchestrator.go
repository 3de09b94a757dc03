package parser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// TextExtractor turns raw statement bytes into plain text. Implementations
// fail with a *ParseError carrying the appropriate extraction kind.
type TextExtractor interface {
	ExtractText(ctx context.Context, doc []byte) (string, error)
}

// Orchestrator runs the parse pipeline for one document: text extraction
// (with optional OCR fallback), provider identification, strategy dispatch
// and result validation. It is stateless across jobs and safe for concurrent
// use by the worker pool.
type Orchestrator struct {
	extractor  TextExtractor
	ocr        TextExtractor
	identifier *Identifier
	validator  *Validator
	logger     *slog.Logger
}

// OrchestratorConfig wires an Orchestrator. OCR is optional; leaving it nil
// means a document without a text layer becomes a clean NoTextLayer failure.
type OrchestratorConfig struct {
	Extractor TextExtractor
	OCR       TextExtractor
	Registry  *Registry
	Logger    *slog.Logger
}

func NewOrchestrator(cfg OrchestratorConfig) (*Orchestrator, error) {
	if cfg.Extractor == nil {
		return nil, fmt.Errorf("orchestrator requires a text extractor")
	}
	if cfg.Registry == nil || cfg.Registry.Len() == 0 {
		return nil, fmt.Errorf("orchestrator requires a non-empty strategy registry")
	}
	validator, err := NewValidator()
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		extractor:  cfg.Extractor,
		ocr:        cfg.OCR,
		identifier: NewIdentifier(cfg.Registry),
		validator:  validator,
		logger:     logger,
	}, nil
}

// Parse executes the pipeline once. Every failure comes back as a
// *ParseError with a taxonomy kind; no fault escapes this boundary. The
// document bytes are read only, never logged, and not retained.
func (o *Orchestrator) Parse(ctx context.Context, jobID string, doc []byte) (*Result, *ParseError) {
	log := o.logger.With(slog.String("job_id", jobID))

	text, perr := o.extractText(ctx, log, doc)
	if perr != nil {
		return nil, perr
	}

	strategy, ok := o.identifier.Identify(text)
	if !ok {
		log.Warn("No registered provider signature matched")
		return nil, NewParseError(KindUnsupportedProvider,
			"could not identify statement provider; supported: %s", strings.Join(o.providerIDs(), ", "))
	}
	log.Info("Provider identified",
		slog.String("provider", strategy.ProviderID()),
	)

	fields, err := safeExtract(strategy, text)
	if err != nil {
		log.Warn("Field extraction failed",
			slog.String("provider", strategy.ProviderID()),
			slog.String("error", err.Error()),
		)
		return nil, NewParseError(KindExtractionFailure, "%s", err.Error())
	}

	if err := o.validator.Validate(fields); err != nil {
		log.Warn("Extracted fields failed validation",
			slog.String("provider", strategy.ProviderID()),
			slog.String("error", err.Error()),
		)
		return nil, NewParseError(KindValidationFailure, "%s", err.Error())
	}

	log.Info("Statement parsed",
		slog.String("provider", strategy.ProviderID()),
	)
	return &Result{Provider: strategy.ProviderID(), Fields: fields}, nil
}

// extractText runs the primary extractor and, when the document has no text
// layer, the OCR fallback if one is configured.
func (o *Orchestrator) extractText(ctx context.Context, log *slog.Logger, doc []byte) (string, *ParseError) {
	text, err := o.extractor.ExtractText(ctx, doc)
	if err == nil && strings.TrimSpace(text) != "" {
		log.Info("Text layer extracted",
			slog.Int("chars", len(text)),
		)
		return text, nil
	}

	perr := asExtractionError(err)
	if perr.Kind != KindNoTextLayer {
		return "", perr
	}

	if o.ocr == nil {
		log.Warn("Document has no text layer and OCR is not configured")
		return "", perr
	}

	log.Info("No text layer, attempting OCR fallback")
	text, err = o.ocr.ExtractText(ctx, doc)
	if err != nil {
		ocrErr := asExtractionError(err)
		if ocrErr.Kind != KindOCRUnavailable {
			ocrErr = NewParseError(KindOCRFailed, "%s", ocrErr.Message)
		}
		return "", ocrErr
	}
	if strings.TrimSpace(text) == "" {
		return "", NewParseError(KindOCRFailed, "ocr produced no text")
	}
	log.Info("OCR fallback extracted text",
		slog.Int("chars", len(text)),
	)
	return text, nil
}

// asExtractionError normalizes extractor failures. A nil error with empty
// text and any untyped failure both count as a missing text layer.
func asExtractionError(err error) *ParseError {
	if err == nil {
		return NewParseError(KindNoTextLayer, "document contains no extractable text")
	}
	if pe, ok := AsParseError(err); ok {
		return pe
	}
	return NewParseError(KindNoTextLayer, "text extraction failed: %s", err.Error())
}

// safeExtract shields the pipeline from a panicking strategy; a strategy
// failure of any shape must become a FAILED job, never a crashed worker.
func safeExtract(s Strategy, text string) (fields *ExtractedFields, err error) {
	defer func() {
		if r := recover(); r != nil {
			fields = nil
			err = fmt.Errorf("%s: strategy panic: %v", s.ProviderID(), r)
		}
	}()
	return s.Extract(text)
}

func (o *Orchestrator) providerIDs() []string {
	all := o.identifier.registry.All()
	ids := make([]string, 0, len(all))
	for _, s := range all {
		ids = append(ids, s.ProviderID())
	}
	return ids
}
