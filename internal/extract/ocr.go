package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/finparse/statement-parser/internal/parser"
)

// OCRConfig configures the raster-and-recognize fallback.
type OCRConfig struct {
	Pdftoppm  string // binary name or absolute path; empty means "pdftoppm"
	Tesseract string // binary name or absolute path; empty means "tesseract"
	Language  string // default "eng"
	DPI       int    // rasterization DPI, default 300
	MaxPages  int    // 0 = no limit
}

// OCRExtractor recovers text from scanned statements: pdftoppm rasterizes the
// document from stdin into a scratch directory, tesseract reads each page.
// The scratch directory is removed on every exit path.
type OCRExtractor struct {
	cfg    OCRConfig
	runner Runner
	logger *slog.Logger
}

func NewOCRExtractor(cfg OCRConfig, logger *slog.Logger) *OCRExtractor {
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRExtractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// ExtractText runs the OCR pipeline. A missing binary is OcrUnavailable so
// the job records that this deployment cannot OCR; everything else that goes
// wrong is OcrFailed.
func (e *OCRExtractor) ExtractText(ctx context.Context, doc []byte) (string, error) {
	tmpDir, err := os.MkdirTemp("", "stmt-ocr-*")
	if err != nil {
		return "", parser.NewParseError(parser.KindOCRFailed, "create scratch dir: %s", err.Error())
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("Failed to remove OCR scratch dir",
				slog.String("dir", tmpDir),
				slog.String("error", rmErr.Error()),
			)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	_, errb, err := e.runner.Run(ctx, doc, e.cfg.Pdftoppm,
		"-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", "-", prefix)
	if err != nil {
		return "", e.classify("pdftoppm", errb, err)
	}

	pages, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(pages)
	if e.cfg.MaxPages > 0 && len(pages) > e.cfg.MaxPages {
		pages = pages[:e.cfg.MaxPages]
	}
	if len(pages) == 0 {
		return "", parser.NewParseError(parser.KindOCRFailed, "pdftoppm rendered no pages")
	}

	var b strings.Builder
	for _, img := range pages {
		out, errb, err := e.runner.Run(ctx, nil, e.cfg.Tesseract,
			img, "stdout", "-l", e.cfg.Language)
		if err != nil {
			return "", e.classify("tesseract", errb, err)
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n")
		}
		b.Write(out)
	}
	return b.String(), nil
}

func (e *OCRExtractor) classify(tool string, stderr []byte, err error) *parser.ParseError {
	if errors.Is(err, exec.ErrNotFound) {
		return parser.NewParseError(parser.KindOCRUnavailable, "%s is not installed", tool)
	}
	return parser.NewParseError(parser.KindOCRFailed, "%s failed: %s", tool, firstLine(stderr, err))
}
