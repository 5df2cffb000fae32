package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-labs/examchat/internal/core/domain"
)

func TestRenderContext_LabelsSources(t *testing.T) {
	docs := []domain.RetrievedDoc{
		{Text: "first chunk"},
		{Text: "second chunk"},
	}

	got := renderContext(docs)

	assert.Contains(t, got, "SOURCE 1:\nfirst chunk")
	assert.Contains(t, got, "SOURCE 2:\nsecond chunk")
	assert.Contains(t, got, "\n\n")
}

func TestRenderContext_EmptyRetrievalSet(t *testing.T) {
	assert.Equal(t, noContextFallback, renderContext(nil))
}

func TestRenderHistory(t *testing.T) {
	t.Run("empty history renders empty string", func(t *testing.T) {
		assert.Empty(t, renderHistory(nil))
	})

	t.Run("turns render oldest first", func(t *testing.T) {
		history := domain.History{
			{Query: "q1", Response: "r1"},
			{Query: "q2", Response: "r2"},
		}

		got := renderHistory(history)

		assert.True(t, strings.HasPrefix(got, "Previous conversation:\n"))
		assert.Less(t, strings.Index(got, "q1"), strings.Index(got, "q2"))
		assert.Contains(t, got, "User: q1\nAssistant: r1")
	})
}

func TestRespond_PromptStructure(t *testing.T) {
	llm := &fakeLLM{response: "The fee is 500 rupees."}
	r := NewResponder(llm, 0.2)
	history := domain.History{{Query: "old question", Response: "old answer"}}
	docs := []domain.RetrievedDoc{{Text: "fee table"}}

	r.Respond(context.Background(), "what is the re-evaluation fee?", docs, history)

	require.Len(t, llm.prompts, 1)
	prompt := llm.prompts[0]
	assert.Contains(t, prompt, "Bennett University's Examination Manual")
	// History, then context, then question, in that fixed order.
	historyIdx := strings.Index(prompt, "Previous conversation:")
	contextIdx := strings.Index(prompt, "CONTEXT FROM EXAMINATION MANUAL:")
	questionIdx := strings.Index(prompt, "CURRENT QUESTION:")
	require.GreaterOrEqual(t, historyIdx, 0)
	assert.Less(t, historyIdx, contextIdx)
	assert.Less(t, contextIdx, questionIdx)
}

func TestRespond_GenerationFailure(t *testing.T) {
	r := NewResponder(&fakeLLM{err: errBoom}, 0.2)

	got := r.Respond(context.Background(), "q", nil, nil)

	assert.Equal(t, generationFallback, got)
}

func TestRespond_NilLLM(t *testing.T) {
	r := NewResponder(nil, 0.2)

	assert.Equal(t, generationFallback, r.Respond(context.Background(), "q", nil, nil))
}

func TestRespond_ContinuityNote(t *testing.T) {
	t.Run("appended for related follow-up", func(t *testing.T) {
		llm := &fakeLLM{response: "It takes two weeks."}
		r := NewResponder(llm, 0.2)
		history := domain.History{{Query: "What is the grievance process?", Response: "File a form."}}

		got := r.Respond(context.Background(), "How long does it take?", nil, history)

		assert.Contains(t, got, "previous conversation context")
	})

	t.Run("not appended when response already acknowledges", func(t *testing.T) {
		llm := &fakeLLM{response: "As mentioned earlier, two weeks."}
		r := NewResponder(llm, 0.2)
		history := domain.History{{Query: "What is the grievance process?", Response: "File a form."}}

		got := r.Respond(context.Background(), "How long does it take?", nil, history)

		assert.NotContains(t, got, "(Note:")
	})

	t.Run("not appended without history", func(t *testing.T) {
		llm := &fakeLLM{response: "Two weeks."}
		r := NewResponder(llm, 0.2)

		got := r.Respond(context.Background(), "How long does it take?", nil, nil)

		assert.NotContains(t, got, "(Note:")
	})

	t.Run("not appended for unrelated query", func(t *testing.T) {
		llm := &fakeLLM{response: "Exams start in May."}
		r := NewResponder(llm, 0.2)
		history := domain.History{{Query: "grievance process", Response: "File a form."}}

		got := r.Respond(context.Background(), "exam schedule", nil, history)

		assert.NotContains(t, got, "(Note:")
	})
}

func TestIsRelated(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		previous string
		want     bool
	}{
		{
			name:     "pronoun with punctuation",
			current:  "what about it?",
			previous: "what is the re-evaluation fee?",
			want:     true,
		},
		{
			name:     "insufficient word overlap",
			current:  "grievance process",
			previous: "exam schedule",
			want:     false,
		},
		{
			name:     "two significant shared words",
			current:  "when is the grievance process reviewed",
			previous: "describe the grievance process",
			want:     true,
		},
		{
			name:     "only stop words shared",
			current:  "what is the fee",
			previous: "where is the hall",
			want:     false,
		},
		{
			name:     "pronoun alone is sufficient",
			current:  "who approves this",
			previous: "completely unrelated topic",
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRelated(tt.current, tt.previous))
		})
	}
}
