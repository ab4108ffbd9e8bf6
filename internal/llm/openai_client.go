// ABOUTME: OpenAI client for embeddings and grounded answer synthesis
// ABOUTME: Uses text-embedding-3-small for embeddings, gpt-4o-mini for chat (configurable)
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/jobfinder/jobfinder/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = string(openai.SmallEmbedding3)
)

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey         string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:         apiKey,
		ChatModel:      DefaultChatModel,
		EmbeddingModel: DefaultEmbeddingModel,
		Timeout:        30 * time.Second,
		MaxRetries:     3,
		RetryDelay:     2 * time.Second,
	}
}

// OpenAIClient wraps the OpenAI API client with timeout and retry logic.
// It is the sole outbound provider adapter: embeddings for indexing and
// retrieval, chat completions for answer synthesis.
type OpenAIClient struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	timeout        time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

// NewOpenAIClient creates a client with default configuration.
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a client with custom configuration.
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIClient{
		client:         openai.NewClient(config.APIKey),
		chatModel:      config.ChatModel,
		embeddingModel: openai.EmbeddingModel(config.EmbeddingModel),
		timeout:        timeout,
		maxRetries:     config.MaxRetries,
		retryDelay:     config.RetryDelay,
	}, nil
}

// Embed generates an embedding vector for the given text. The provider is
// deterministic for identical input, which ingest idempotency relies on.
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float64, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(util.CalculateBackoff(c.retryDelay, attempt)):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.client.CreateEmbeddings(callCtx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: c.embeddingModel,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Data) == 0 {
			lastErr = fmt.Errorf("attempt %d: no embeddings returned", attempt+1)
			continue
		}

		embedding32 := resp.Data[0].Embedding
		embedding64 := make([]float64, len(embedding32))
		for i, v := range embedding32 {
			embedding64[i] = float64(v)
		}
		return embedding64, nil
	}

	return nil, fmt.Errorf("failed to generate embedding after %d attempts: %w", c.maxRetries+1, lastErr)
}

// Complete issues one chat completion with the given system and user
// prompts and returns the raw answer text.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(util.CalculateBackoff(c.retryDelay, attempt)):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
			Temperature: 0.2,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("attempt %d: no completion choices returned", attempt+1)
			continue
		}
		return resp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("failed to get completion after %d attempts: %w", c.maxRetries+1, lastErr)
}
