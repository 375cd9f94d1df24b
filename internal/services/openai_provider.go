package services

import (
	"context"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"scribe/internal/models"
	"scribe/internal/store"
)

// OpenAIProvider implements CompletionService using the OpenAI API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI completion provider.
func NewOpenAIProvider(apiKey, model string) (*OpenAIProvider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY") // Fallback to env var
	}
	if apiKey == "" {
		log.Warn("OpenAI API key not provided. OpenAI provider will be disabled.")
		return &OpenAIProvider{client: nil, model: model}, nil
	}

	client := openai.NewClient(apiKey)
	log.Infof("OpenAI provider initialized with model %s", model)
	return &OpenAIProvider{client: client, model: model}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string { return "openai" }

// ModelName returns the specific model identifier.
func (p *OpenAIProvider) ModelName() string { return p.model }

// Client exposes the underlying API client for components that drive the
// OpenAI chat API directly.
func (p *OpenAIProvider) Client() *openai.Client { return p.client }

// Status reports whether the provider is usable.
func (p *OpenAIProvider) Status() store.ProviderStatus {
	if p.client == nil {
		return store.ProviderStatusDisabled
	}
	return store.ProviderStatusActive
}

func (p *OpenAIProvider) GenerateChatCompletion(ctx context.Context, messages []ChatMessage) (string, error) {
	if p.client == nil {
		return "", fmt.Errorf("openai provider is not initialized (missing API key): %w", models.ErrDependency)
	}

	reqMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		reqMessages = append(reqMessages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: reqMessages,
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %v: %w", err, models.ErrDependency)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no completion choices: %w", models.ErrDependency)
	}
	return resp.Choices[0].Message.Content, nil
}

var _ CompletionService = (*OpenAIProvider)(nil)
