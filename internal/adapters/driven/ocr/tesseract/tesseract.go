//go:build ocr

// Package tesseract provides OCR via the Tesseract engine (gosseract
// bindings). Builds without the ocr tag get a stub that reports the
// engine as unavailable.
package tesseract

import (
	"context"
	"fmt"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/campus-labs/examchat/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.OCREngine = (*Engine)(nil)

// DefaultLanguage is the Tesseract language pack used when none is configured.
const DefaultLanguage = "eng"

// Engine recognises text in images using Tesseract.
// The underlying client is not safe for concurrent use, so calls are
// serialised with a mutex.
type Engine struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// New creates a Tesseract engine for the given language pack.
func New(language string) (*Engine, error) {
	if language == "" {
		language = DefaultLanguage
	}

	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting OCR language %s: %w", language, err)
	}

	return &Engine{client: client}, nil
}

// Recognize extracts text from an encoded image.
func (e *Engine) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("loading image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("recognising text: %w", err)
	}
	return text, nil
}

// Close releases the Tesseract client.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.client.Close()
}
