package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	log "github.com/sirupsen/logrus"

	"scribe/internal/htmlutil"
	"scribe/internal/models"
)

// Summarizer produces a short reader-facing summary of article content.
type Summarizer interface {
	Summarize(ctx context.Context, title, content string) (string, error)
}

// SummaryService implements Summarizer on top of a CompletionService. The
// article body is reduced to plain text and truncated at a sentence
// boundary before it goes to the model.
type SummaryService struct {
	completion CompletionService
	prompt     string
	maxInput   int
	timeout    time.Duration
	tokenizer  *sentences.DefaultSentenceTokenizer
}

func NewSummaryService(completion CompletionService, prompt string, maxInput int, timeout time.Duration) *SummaryService {
	tokenizer, _ := english.NewSentenceTokenizer(nil) // default locale
	if maxInput <= 0 {
		maxInput = 2000
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SummaryService{
		completion: completion,
		prompt:     prompt,
		maxInput:   maxInput,
		timeout:    timeout,
		tokenizer:  tokenizer,
	}
}

func (s *SummaryService) Summarize(ctx context.Context, title, content string) (string, error) {
	text := htmlutil.ExtractText(content)
	text = s.truncate(text)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("article has no summarizable text: %w", models.ErrValidation)
	}

	messages := []ChatMessage{
		{Role: ChatMessageRoleSystem, Content: s.prompt},
		{Role: ChatMessageRoleUser, Content: fmt.Sprintf("Title: %s\n\n%s", title, text)},
	}

	// One retry on transient failure before giving up.
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			log.WithError(lastErr).Warn("Summary generation failed, retrying once")
		}
		summary, err := s.generate(ctx, messages)
		if err == nil {
			return strings.TrimSpace(summary), nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}

func (s *SummaryService) generate(ctx context.Context, messages []ChatMessage) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.completion.GenerateChatCompletion(callCtx, messages)
}

// truncate cuts text down to maxInput characters, preferring to cut at the
// last full sentence that fits.
func (s *SummaryService) truncate(text string) string {
	if len(text) <= s.maxInput {
		return text
	}
	var sb strings.Builder
	for _, sentence := range s.tokenizer.Tokenize(text) {
		if sb.Len()+len(sentence.Text) > s.maxInput {
			break
		}
		sb.WriteString(sentence.Text)
	}
	if sb.Len() == 0 {
		// No sentence fits; cut raw bytes, backing up to a rune boundary.
		cut := s.maxInput
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		return text[:cut]
	}
	return sb.String()
}

// NoopSummarizer is used when summarization is disabled. It always returns
// an empty summary without calling any provider.
type NoopSummarizer struct{}

func (NoopSummarizer) Summarize(ctx context.Context, title, content string) (string, error) {
	return "", nil
}

var (
	_ Summarizer = (*SummaryService)(nil)
	_ Summarizer = NoopSummarizer{}
)
