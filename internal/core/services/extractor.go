package services

import (
	"context"
	"strings"

	"github.com/campus-labs/examchat/internal/core/ports/driven"
	"github.com/campus-labs/examchat/internal/logger"
)

// Extractor turns the paginated manual into a single plain-text
// stream. Pages with an embedded text layer are taken as-is; pages
// without one fall back to OCR over their embedded images when an OCR
// engine is available.
type Extractor struct {
	renderer driven.DocumentRenderer // nil when the source document is absent
	ocr      driven.OCREngine        // optional, may be nil
}

// NewExtractor creates a text extractor. The OCR engine is optional.
func NewExtractor(renderer driven.DocumentRenderer, ocr driven.OCREngine) *Extractor {
	return &Extractor{renderer: renderer, ocr: ocr}
}

// Extract returns the newline-joined text of all pages, in page order.
// Per-page failures are logged and skipped; the method never returns
// an error. An empty result means extraction failed, not that the
// document is empty - callers must treat it as such.
func (e *Extractor) Extract(ctx context.Context) string {
	logger.Section("Text Extraction")

	if e.renderer == nil {
		logger.Error("No document available for extraction")
		return ""
	}

	total := e.renderer.PageCount()
	logger.Debug("Document has %d pages", total)

	var out strings.Builder
	imagePages := 0

	for page := 0; page < total; page++ {
		text, err := e.renderer.PageText(page)
		if err != nil {
			logger.Error("Page %d: text extraction failed: %v", page+1, err)
			continue
		}

		text = strings.TrimSpace(text)
		if text != "" {
			out.WriteString(text)
			out.WriteString("\n")
			logger.Debug("Page %d: extracted %d characters (text layer)", page+1, len(text))
			continue
		}

		if e.ocr == nil {
			logger.Warn("Page %d: no text found and OCR not available", page+1)
			continue
		}

		images, err := e.renderer.PageImages(page)
		if err != nil {
			logger.Error("Page %d: listing images failed: %v", page+1, err)
			continue
		}
		if len(images) == 0 {
			logger.Warn("Page %d: no text or images found", page+1)
			continue
		}

		logger.Info("Page %d: no text found, attempting OCR on %d images", page+1, len(images))
		recognised := false
		for i, img := range images {
			ocrText, err := e.ocr.Recognize(ctx, img)
			if err != nil {
				logger.Error("Page %d, image %d: OCR failed: %v", page+1, i+1, err)
				continue
			}
			ocrText = strings.TrimSpace(ocrText)
			if ocrText == "" {
				logger.Warn("Page %d, image %d: OCR found no text", page+1, i+1)
				continue
			}
			out.WriteString(ocrText)
			out.WriteString("\n")
			recognised = true
			logger.Debug("Page %d, image %d: OCR extracted %d characters", page+1, i+1, len(ocrText))
		}
		if recognised {
			imagePages++
		}
	}

	text := out.String()
	if strings.TrimSpace(text) == "" {
		logger.Error("No text extracted from document")
		return ""
	}

	logger.Info("Extracted %d characters, image-based pages: %d/%d", len(text), imagePages, total)
	return text
}
