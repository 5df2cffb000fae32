package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-labs/examchat/internal/core/domain"
)

func TestCreateLLMServiceUnconfigured(t *testing.T) {
	svc, err := CreateLLMService(&domain.LLMSettings{})
	require.NoError(t, err)
	assert.Nil(t, svc)

	svc, err = CreateLLMService(nil)
	require.NoError(t, err)
	assert.Nil(t, svc)
}

func TestCreateLLMServiceUnsupportedProvider(t *testing.T) {
	_, err := CreateLLMService(&domain.LLMSettings{Provider: "cohere"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported LLM provider")
}

func TestCreateLLMServiceOllama(t *testing.T) {
	svc, err := CreateLLMService(&domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		Model:    "llama3.2",
	})
	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, "llama3.2", svc.ModelName())
}

func TestCreateLLMServiceOpenAIRequiresKey(t *testing.T) {
	_, err := CreateLLMService(&domain.LLMSettings{
		Provider: domain.AIProviderOpenAI,
	})
	require.Error(t, err)
}

func TestCreateEmbeddingServiceAnthropicRejected(t *testing.T) {
	_, err := CreateEmbeddingService(&domain.EmbeddingSettings{
		Provider: domain.AIProviderAnthropic,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support embeddings")
}

func TestCreateEmbeddingServiceOllama(t *testing.T) {
	svc, err := CreateEmbeddingService(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
	})
	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, "nomic-embed-text", svc.ModelName())
}
