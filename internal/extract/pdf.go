package extract

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/finparse/statement-parser/internal/parser"
)

var pdfMagic = []byte("%PDF-")

// PDFConfig configures the text-layer extractor.
type PDFConfig struct {
	// Pdftotext is the binary name or absolute path; empty means "pdftotext".
	Pdftotext string
}

// PDFExtractor pulls the embedded text layer out of a PDF. Structural
// validation happens in-process; the text itself comes from pdftotext reading
// the document over stdin, so the bytes never touch disk.
type PDFExtractor struct {
	cfg    PDFConfig
	runner Runner
	logger *slog.Logger
}

func NewPDFExtractor(cfg PDFConfig, logger *slog.Logger) *PDFExtractor {
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// ExtractText validates the document and returns its text layer. Failures are
// *parser.ParseError values: InvalidDocument when the bytes are not a
// well-formed PDF, NoTextLayer when a valid PDF yields no text or pdftotext
// cannot run.
func (e *PDFExtractor) ExtractText(ctx context.Context, doc []byte) (string, error) {
	if !bytes.HasPrefix(doc, pdfMagic) {
		return "", parser.NewParseError(parser.KindInvalidDocument, "document is not a PDF")
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.Validate(bytes.NewReader(doc), conf); err != nil {
		return "", parser.NewParseError(parser.KindInvalidDocument, "malformed PDF: %s", err.Error())
	}

	return e.runText(ctx, doc)
}

// runText shells out to pdftotext with the document on stdin. The document
// already passed structural validation here, so a failing or missing binary
// says nothing about the bytes; such failures surface as NoTextLayer, which
// keeps the OCR fallback reachable.
func (e *PDFExtractor) runText(ctx context.Context, doc []byte) (string, error) {
	out, errb, err := e.runner.Run(ctx, doc, e.cfg.Pdftotext,
		"-layout", "-enc", "UTF-8", "-eol", "unix", "-", "-")
	if err != nil {
		e.logger.Warn("pdftotext failed",
			slog.String("error", firstLine(errb, err)),
		)
		return "", parser.NewParseError(parser.KindNoTextLayer,
			"pdftotext failed: %s", firstLine(errb, err))
	}

	text := string(out)
	if strings.TrimSpace(text) == "" {
		return "", parser.NewParseError(parser.KindNoTextLayer, "document contains no text layer")
	}
	return text, nil
}

// firstLine reduces command stderr to a single diagnostic line, falling back
// to the exec error.
func firstLine(stderr []byte, err error) string {
	s := strings.TrimSpace(string(stderr))
	if s == "" {
		return err.Error()
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
