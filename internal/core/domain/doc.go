// Package domain contains the core entities of the examchat service:
// chunks and summaries of the examination manual, retrieved documents,
// conversation history, and the settings that select AI providers.
// Entities here have no dependencies on adapters or external services.
package domain
