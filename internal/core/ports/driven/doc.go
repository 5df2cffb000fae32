// Package driven defines the outbound ports of the examchat core:
// the language model, embedding model, vector index store, document
// renderer, and OCR engine. Adapters in internal/adapters/driven
// implement these interfaces; the core never imports an adapter.
package driven
