package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finparse/statement-parser/internal/parser"
)

// renderingRunner fakes pdftoppm by dropping page files into the scratch
// directory, then fakes tesseract output per page.
func renderingRunner(t *testing.T, pages int) *fakeRunner {
	t.Helper()
	return &fakeRunner{fn: func(stdin []byte, name string, args ...string) ([]byte, []byte, error) {
		switch name {
		case "pdftoppm":
			require.Equal(t, []string{"-r", "300", "-png", "-", args[len(args)-1]}, args)
			prefix := args[len(args)-1]
			for i := 1; i <= pages; i++ {
				path := fmt.Sprintf("%s-%d.png", prefix, i)
				require.NoError(t, os.WriteFile(path, []byte("png"), 0o600))
			}
			return nil, nil, nil
		case "tesseract":
			img := args[0]
			page := filepath.Base(img)
			return []byte("text from " + page), nil, nil
		default:
			t.Fatalf("unexpected command %q", name)
			return nil, nil, nil
		}
	}}
}

func TestOCRExtractText(t *testing.T) {
	e := NewOCRExtractor(OCRConfig{}, testLogger())
	e.runner = renderingRunner(t, 2)

	text, err := e.ExtractText(context.Background(), []byte("%PDF- scanned"))
	require.NoError(t, err)
	assert.Contains(t, text, "text from page-1.png")
	assert.Contains(t, text, "text from page-2.png")
	assert.Contains(t, text, "\f", "pages are separated by a form feed")
}

func TestOCRExtractTextCapsPages(t *testing.T) {
	e := NewOCRExtractor(OCRConfig{MaxPages: 1}, testLogger())
	e.runner = renderingRunner(t, 3)

	text, err := e.ExtractText(context.Background(), []byte("doc"))
	require.NoError(t, err)
	assert.Contains(t, text, "text from page-1.png")
	assert.NotContains(t, text, "page-2.png")
	assert.NotContains(t, text, "page-3.png")
}

func TestOCRExtractTextNoPagesRendered(t *testing.T) {
	e := NewOCRExtractor(OCRConfig{}, testLogger())
	e.runner = &fakeRunner{fn: func([]byte, string, ...string) ([]byte, []byte, error) {
		return nil, nil, nil
	}}

	_, err := e.ExtractText(context.Background(), []byte("doc"))
	require.Error(t, err)
	pe, ok := parser.AsParseError(err)
	require.True(t, ok)
	assert.Equal(t, parser.KindOCRFailed, pe.Kind)
}

func TestOCRExtractTextMissingBinaryIsUnavailable(t *testing.T) {
	e := NewOCRExtractor(OCRConfig{}, testLogger())
	e.runner = &fakeRunner{fn: func([]byte, string, ...string) ([]byte, []byte, error) {
		return nil, nil, fmt.Errorf("exec: %w", exec.ErrNotFound)
	}}

	_, err := e.ExtractText(context.Background(), []byte("doc"))
	require.Error(t, err)
	pe, ok := parser.AsParseError(err)
	require.True(t, ok)
	assert.Equal(t, parser.KindOCRUnavailable, pe.Kind)
}

func TestOCRExtractTextTesseractFailure(t *testing.T) {
	e := NewOCRExtractor(OCRConfig{}, testLogger())
	e.runner = &fakeRunner{fn: func(stdin []byte, name string, args ...string) ([]byte, []byte, error) {
		if name == "pdftoppm" {
			prefix := args[len(args)-1]
			require.NoError(t, os.WriteFile(prefix+"-1.png", []byte("png"), 0o600))
			return nil, nil, nil
		}
		return nil, []byte("Error opening data file"), errors.New("exit status 1")
	}}

	_, err := e.ExtractText(context.Background(), []byte("doc"))
	require.Error(t, err)
	pe, ok := parser.AsParseError(err)
	require.True(t, ok)
	assert.Equal(t, parser.KindOCRFailed, pe.Kind)
	assert.Contains(t, pe.Message, "tesseract")
}
