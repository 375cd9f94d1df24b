package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"scribe/internal/models"
)

// DefaultPrompt instructs the model to classify a message into the intent
// set and emit one JSON object. {{MESSAGE}} is replaced with the user text.
const DefaultPrompt = `You are the intent classifier for a content-management admin assistant.
Classify the user message into exactly one intent and extract its parameters.

Intents and parameters:
- "create_category": user wants a new category. Fields: "name" (required), "description" (optional).
- "rename_category": user wants to rename a category. Fields: "old_name", "new_name" (both required).
- "list_categories": user asks to enumerate categories. No fields.
- "create_article": user wants an article written. Fields: "title", "content" (both required), "category" (optional).
- "list_articles": user asks to show or list articles. No fields.
- "general_chat": anything else. No fields.

Respond with a single JSON object, for example:
{"intent": "create_category", "name": "Sports", "description": ""}

User message: "{{MESSAGE}}"

Only return the JSON object, nothing else.`

// chatCompleter is the minimal OpenAI-compatible surface the extractor needs.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// LLMExtractor implements Extractor with a single chat-completion round trip.
type LLMExtractor struct {
	client         chatCompleter
	model          string
	promptTemplate string
}

// NewLLMExtractor creates an extractor using an OpenAI-compatible client.
// An empty prompt selects DefaultPrompt.
func NewLLMExtractor(client chatCompleter, model, prompt string) *LLMExtractor {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	return &LLMExtractor{
		client:         client,
		model:          model,
		promptTemplate: prompt,
	}
}

func (e *LLMExtractor) Extract(ctx context.Context, message string) (Extraction, error) {
	if e.client == nil {
		return Extraction{}, fmt.Errorf("intent extractor is not initialized with a completion client: %w", models.ErrDependency)
	}

	prompt := RenderPrompt(e.promptTemplate, message)

	resp, err := e.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: e.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return Extraction{}, fmt.Errorf("intent classification completion failed: %v: %w", err, models.ErrDependency)
	}
	if len(resp.Choices) == 0 {
		return Extraction{}, fmt.Errorf("no choices returned from completion: %w", models.ErrDependency)
	}

	return ParsePayload(resp.Choices[0].Message.Content)
}

// ParsePayload interprets a raw model reply as an Extraction: wrapping is
// stripped, the JSON object decoded, and the per-intent shape checked.
// Failures wrap models.ErrExtraction.
func ParsePayload(raw string) (Extraction, error) {
	payload := StripWrapping(raw)

	var parsed Extraction
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		log.Debugf("intent payload did not parse as JSON: %v", err)
		return Extraction{}, fmt.Errorf("parse intent payload: %w", models.ErrExtraction)
	}

	if err := validate(parsed); err != nil {
		log.Debugf("intent payload failed shape validation: %v", err)
		return Extraction{}, fmt.Errorf("%v: %w", err, models.ErrExtraction)
	}

	return parsed, nil
}

// RenderPrompt substitutes the user message into a prompt template,
// flattening double quotes so the message cannot break the template's own
// quoting.
func RenderPrompt(template, message string) string {
	return strings.ReplaceAll(template, "{{MESSAGE}}", strings.ReplaceAll(message, `"`, `'`))
}

// StripWrapping removes code fences and surrounding prose the model may wrap
// around its JSON object, returning the span from the first "{" to the
// last "}".
func StripWrapping(content string) string {
	content = strings.TrimSpace(content)

	// Drop a fenced block wrapper, with or without a language tag.
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.Index(content, "\n"); idx >= 0 && !strings.HasPrefix(content, "{") {
			content = content[idx+1:]
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
		content = strings.TrimSpace(content)
	}

	// Tolerate leading/trailing prose around the object.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		return content[start : end+1]
	}
	return content
}

// validate checks the payload shape for the classified intent. Unknown intent
// labels and missing required parameters are extraction failures; callers
// downgrade those to general chat.
func validate(x Extraction) error {
	switch x.Intent {
	case IntentCreateCategory:
		if strings.TrimSpace(x.Name) == "" {
			return fmt.Errorf("create_category payload missing name")
		}
	case IntentRenameCategory:
		if strings.TrimSpace(x.OldName) == "" || strings.TrimSpace(x.NewName) == "" {
			return fmt.Errorf("rename_category payload missing old_name or new_name")
		}
	case IntentCreateArticle:
		if strings.TrimSpace(x.Title) == "" || strings.TrimSpace(x.Content) == "" {
			return fmt.Errorf("create_article payload missing title or content")
		}
	case IntentListCategories, IntentListArticles, IntentGeneralChat:
		// No required parameters.
	default:
		return fmt.Errorf("unknown intent label %q", x.Intent)
	}
	return nil
}
