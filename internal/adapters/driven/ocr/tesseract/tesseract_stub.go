//go:build !ocr

package tesseract

import (
	"context"

	"github.com/campus-labs/examchat/internal/core/domain"
	"github.com/campus-labs/examchat/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.OCREngine = (*Engine)(nil)

// DefaultLanguage is the Tesseract language pack used when none is configured.
const DefaultLanguage = "eng"

// Engine is a stub for builds without the ocr tag. Scanned pages with
// no text layer yield no content on these builds.
type Engine struct{}

// New creates a stub OCR engine.
func New(_ string) (*Engine, error) {
	return &Engine{}, nil
}

// Recognize reports the engine as unavailable.
func (e *Engine) Recognize(_ context.Context, _ []byte) (string, error) {
	return "", domain.ErrOCRUnavailable
}

// Close releases resources.
func (e *Engine) Close() error {
	return nil
}
