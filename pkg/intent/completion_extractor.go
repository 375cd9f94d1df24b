package intent

import (
	"context"
	"fmt"

	"scribe/internal/models"
)

// CompleteFunc turns a rendered classification prompt into a raw model
// reply.
type CompleteFunc func(ctx context.Context, prompt string) (string, error)

// CompletionExtractor implements Extractor over any completion backend
// exposed as a CompleteFunc. It shares the prompt and payload contract
// with LLMExtractor.
type CompletionExtractor struct {
	complete       CompleteFunc
	promptTemplate string
}

// NewCompletionExtractor creates an extractor from a completion function.
// An empty prompt selects DefaultPrompt.
func NewCompletionExtractor(complete CompleteFunc, prompt string) *CompletionExtractor {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	return &CompletionExtractor{complete: complete, promptTemplate: prompt}
}

func (e *CompletionExtractor) Extract(ctx context.Context, message string) (Extraction, error) {
	if e.complete == nil {
		return Extraction{}, fmt.Errorf("intent extractor is not initialized with a completion backend: %w", models.ErrDependency)
	}
	raw, err := e.complete(ctx, RenderPrompt(e.promptTemplate, message))
	if err != nil {
		return Extraction{}, fmt.Errorf("intent classification completion failed: %v: %w", err, models.ErrDependency)
	}
	return ParsePayload(raw)
}

var _ Extractor = (*CompletionExtractor)(nil)
