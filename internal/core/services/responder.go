package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/campus-labs/examchat/internal/core/domain"
	"github.com/campus-labs/examchat/internal/core/ports/driven"
	"github.com/campus-labs/examchat/internal/logger"
)

// noContextFallback is rendered when retrieval found nothing, so the
// model is never handed an ambiguous empty context.
const noContextFallback = "No relevant information found in the examination manual."

// generationFallback replaces the response when generation fails.
// A session is never left without a response.
const generationFallback = "Sorry, I couldn't generate a response due to a technical issue. " +
	"Please try again or rephrase your question."

// continuityNote is appended when the current query relates to a prior
// turn but the model's answer does not acknowledge it. This is a
// deterministic string-level augmentation, not model output.
const continuityNote = "\n\n(Note: This answer takes into account our previous conversation context.)"

const responsePromptTemplate = "You are a chatbot assisting with Bennett University's Examination Manual. " +
	"Your goal is to provide accurate, helpful information while maintaining proper context throughout the conversation.\n\n" +
	"INSTRUCTIONS:\n" +
	"1. Use the conversation history to understand the context of the current question\n" +
	"2. Reference the provided context from the manual to answer accurately\n" +
	"3. Maintain continuity with previous exchanges\n" +
	"4. If the question relates to previous questions, acknowledge that relationship\n" +
	"5. If information is missing from the context, clearly state that you don't have that specific information\n" +
	"6. Always cite the relevant section from the manual when possible\n" +
	"7. Be concise but complete in your response\n\n" +
	"%s\n\n" +
	"CONTEXT FROM EXAMINATION MANUAL:\n%s\n\n" +
	"CURRENT QUESTION: %s\n\n" +
	"RESPONSE:"

// referenceTerms are anaphoric pronouns whose presence marks a query
// as referring back to earlier conversation.
var referenceTerms = map[string]bool{
	"it": true, "this": true, "that": true, "these": true,
	"those": true, "they": true, "them": true, "their": true,
	"he": true, "she": true, "his": true, "her": true,
}

// stopWords are excluded when comparing significant-word overlap
// between queries.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "with": true,
	"by": true, "about": true, "like": true, "through": true, "over": true,
	"before": true, "after": true, "since": true, "during": true, "above": true,
	"below": true, "from": true, "up": true, "down": true, "is": true,
	"are": true, "was": true, "were": true, "be": true, "been": true,
	"being": true, "have": true, "has": true, "had": true, "do": true,
	"does": true, "did": true, "can": true, "could": true, "will": true,
	"would": true, "shall": true, "should": true, "may": true, "might": true,
	"must": true,
}

// Responder assembles the retrieved context and bounded conversation
// history into a structured prompt and produces a grounded answer.
type Responder struct {
	llm         driven.LLMService
	temperature float64
}

// NewResponder creates a response generator.
func NewResponder(llm driven.LLMService, temperature float64) *Responder {
	if temperature <= 0 {
		temperature = 0.2
	}
	return &Responder{llm: llm, temperature: temperature}
}

// Respond generates an answer to query from the retrieved documents
// and conversation history. Generation errors are replaced by a fixed
// apology; the method never fails.
func (r *Responder) Respond(ctx context.Context, query string, docs []domain.RetrievedDoc, history domain.History) string {
	logger.Section("Response Generation")
	logger.Debug("Query: %q, docs=%d, history=%d", query, len(docs), len(history))

	prompt := fmt.Sprintf(responsePromptTemplate,
		renderHistory(history), renderContext(docs), query)

	if r.llm == nil {
		logger.Warn("LLM not configured, returning fallback response")
		return generationFallback
	}

	response, err := r.llm.Generate(ctx, prompt, driven.GenerateOptions{
		Temperature: r.temperature,
	})
	if err != nil {
		logger.Error("Response generation failed: %v", err)
		return generationFallback
	}
	response = strings.TrimSpace(response)
	if response == "" {
		return generationFallback
	}

	// Annotate continuity when the answer does not acknowledge an
	// evidently related prior turn.
	if len(history) > 0 {
		lower := strings.ToLower(response)
		if !strings.Contains(lower, "previous") && !strings.Contains(lower, "earlier") {
			for _, turn := range history {
				if IsRelated(query, turn.Query) {
					response += continuityNote
					break
				}
			}
		}
	}

	logger.Info("Response generated (%d characters)", len(response))
	return response
}

// renderContext labels every retrieved document as a numbered SOURCE
// block. An empty retrieval set yields the fixed no-context string.
func renderContext(docs []domain.RetrievedDoc) string {
	if len(docs) == 0 {
		return noContextFallback
	}

	parts := make([]string, len(docs))
	for i, doc := range docs {
		parts[i] = fmt.Sprintf("SOURCE %d:\n%s", i+1, doc.Text)
	}
	return strings.Join(parts, "\n\n")
}

// renderHistory renders prior turns as alternating User:/Assistant:
// lines, oldest first. Empty history renders as an empty string.
func renderHistory(history domain.History) string {
	if len(history) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Previous conversation:\n")
	for _, turn := range history {
		fmt.Fprintf(&b, "User: %s\nAssistant: %s\n\n", turn.Query, turn.Response)
	}
	return b.String()
}

// IsRelated reports whether the current query refers back to a
// previous one. True when the current query contains an anaphoric
// pronoun as a whole word, or when the queries share at least two
// significant words after stop-word removal. Either condition alone
// is sufficient.
func IsRelated(current, previous string) bool {
	currentWords := tokenize(current)
	for _, w := range currentWords {
		if referenceTerms[w] {
			return true
		}
	}

	currentSet := significantWords(currentWords)
	previousSet := significantWords(tokenize(previous))

	shared := 0
	for w := range currentSet {
		if previousSet[w] {
			shared++
			if shared >= 2 {
				return true
			}
		}
	}
	return false
}

// tokenize lower-cases and splits on non-letter, non-digit runes so
// trailing punctuation never hides a whole-word match.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func significantWords(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		if !stopWords[w] {
			set[w] = true
		}
	}
	return set
}
