package driven

import "context"

// OCREngine recognises text in page images. This is an optional
// service - when nil, image-only pages contribute nothing to the
// extracted text.
type OCREngine interface {
	// Recognize returns the text found in an encoded image, or an
	// error if recognition failed for that image.
	Recognize(ctx context.Context, image []byte) (string, error)

	// Close releases resources.
	Close() error
}
