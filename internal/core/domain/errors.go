package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the LLM service is not configured
	// or unreachable. Summarisation and response generation degrade
	// to sentinel text without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. The index cannot be built or searched without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrStoreUnavailable indicates the index store has not been built.
	ErrStoreUnavailable = errors.New("index store unavailable")

	// ErrOCRUnavailable indicates no OCR engine was compiled in or
	// configured. Image-only pages contribute nothing without it.
	ErrOCRUnavailable = errors.New("OCR engine unavailable")

	// ErrEmptyHistory indicates an export was requested for a session
	// with no recorded turns.
	ErrEmptyHistory = errors.New("no chat history to export")

	// ErrUnsupportedFormat indicates an unknown export format.
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// ErrUnsupportedType indicates an unknown AI provider type.
	ErrUnsupportedType = errors.New("unsupported type")
)
