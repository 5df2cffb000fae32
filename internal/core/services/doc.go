// Package services contains the use-case layer of examchat: text
// extraction, ingestion (chunking, summarisation, embedding), the
// hierarchical retriever, the conversational responder, the
// once-guarded index manager, the session registry, and chat export.
// Services depend only on domain entities and ports.
package services
