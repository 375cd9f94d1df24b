package app

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"scribe/internal/assistant"
	"scribe/internal/auth"
	"scribe/internal/config"
	"scribe/internal/services"
	"scribe/internal/store"
	"scribe/internal/store/primary"
	"scribe/pkg/intent"
)

// App holds the wired object graph shared by the server, worker and CLI
// commands.
type App struct {
	Config *config.Config

	PrimaryStore store.PrimaryStore
	JobClient    store.JobClient

	Completion services.CompletionService
	Summarizer services.Summarizer

	ArticleService  *services.ArticleService
	CategoryService *services.CategoryService

	IntentExtractor intent.Extractor
	Assistant       *assistant.Router

	Verifier auth.CredentialVerifier
	Tokens   *auth.TokenService
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()
	app := &App{Config: cfg}

	if err := app.initPrimaryStore(ctx); err != nil {
		return nil, err
	}
	if err := app.initJobClient(); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	if err := app.initCompletionService(ctx); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	if err := app.initSummarizer(); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	if err := app.initCoreServices(); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	if err := app.initAssistant(); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	if err := app.initAuth(); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}

	log.Info("Application initialization complete.")
	return app, nil
}

func (a *App) initPrimaryStore(ctx context.Context) error {
	if err := primary.Migrate(a.Config.Database.Primary.DSN); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	ps, err := primary.NewPrimaryStore(ctx, a.Config.Database.Primary.DSN)
	if err != nil {
		return fmt.Errorf("init primary store: %w", err)
	}
	a.PrimaryStore = ps
	return nil
}

func (a *App) initJobClient() error {
	a.JobClient = store.NewAsynqJobClient(a.Config.Redis.Address, a.Config.Redis.Password, a.Config.Redis.DB)
	return nil
}

func (a *App) initCompletionService(ctx context.Context) error {
	cfg := a.Config.AI
	switch cfg.Provider {
	case "openai":
		provider, err := services.NewOpenAIProvider(cfg.OpenaiApiKey, cfg.Model)
		if err != nil {
			return fmt.Errorf("init openai provider: %w", err)
		}
		a.Completion = provider
	case "gemini":
		provider, err := services.NewGeminiProvider(ctx, cfg.GoogleApiKey, cfg.Model)
		if err != nil {
			return fmt.Errorf("init gemini provider: %w", err)
		}
		a.Completion = provider
	default:
		return fmt.Errorf("unsupported ai provider %q", cfg.Provider)
	}
	return nil
}

func (a *App) initSummarizer() error {
	if !a.Config.Summarization.Enabled {
		log.Info("Summarization is disabled; articles will be stored without summaries.")
		a.Summarizer = services.NoopSummarizer{}
		return nil
	}
	prompt, err := config.LoadPromptContent(
		a.Config.Summarization.Prompt,
		"summarize.txt",
		config.DefaultSummaryPrompt,
	)
	if err != nil {
		return fmt.Errorf("load summarization prompt: %w", err)
	}
	a.Summarizer = services.NewSummaryService(
		a.Completion,
		prompt,
		a.Config.Summarization.MaxInputChars,
		time.Duration(a.Config.AI.TimeoutSeconds)*time.Second,
	)
	return nil
}

func (a *App) initCoreServices() error {
	a.CategoryService = services.NewCategoryService(a.PrimaryStore)
	a.ArticleService = services.NewArticleService(a.PrimaryStore, a.Summarizer, a.JobClient, "")
	return nil
}

func (a *App) initAssistant() error {
	prompt, err := config.LoadPromptContent(
		a.Config.Assistant.Prompt,
		"intent.txt",
		intent.DefaultPrompt,
	)
	if err != nil {
		return fmt.Errorf("load assistant prompt: %w", err)
	}

	// The OpenAI provider is driven through its chat API directly; any other
	// provider goes through the generic completion surface.
	if openaiProvider, ok := a.Completion.(*services.OpenAIProvider); ok && openaiProvider.Client() != nil {
		a.IntentExtractor = intent.NewLLMExtractor(openaiProvider.Client(), a.Config.AI.Model, prompt)
	} else {
		completion := a.Completion
		a.IntentExtractor = intent.NewCompletionExtractor(func(ctx context.Context, rendered string) (string, error) {
			return completion.GenerateChatCompletion(ctx, []services.ChatMessage{
				{Role: services.ChatMessageRoleUser, Content: rendered},
			})
		}, prompt)
	}

	a.Assistant = assistant.NewRouter(
		a.IntentExtractor,
		a.Completion,
		a.ArticleService,
		a.CategoryService,
		a.Config.Assistant.ArticleLimit,
		a.Config.Assistant.Author,
	)
	return nil
}

func (a *App) initAuth() error {
	a.Verifier = auth.NewStaticVerifier(a.Config.Auth.AdminUsername, a.Config.Auth.AdminPassword)
	tokens, err := auth.NewTokenService(
		a.Config.Auth.JWTSecret,
		time.Duration(a.Config.Auth.TokenTTLMinutes)*time.Minute,
	)
	if err != nil {
		return fmt.Errorf("init token service: %w", err)
	}
	a.Tokens = tokens
	return nil
}

func (a *App) cleanupPartialInit() {
	if a.JobClient != nil {
		if err := a.JobClient.Close(); err != nil {
			log.WithError(err).Warn("Failed to close job client during cleanup")
		}
	}
	if a.PrimaryStore != nil {
		a.PrimaryStore.Close()
	}
}

// Close releases the app's long-lived resources.
func (a *App) Close() {
	a.cleanupPartialInit()
}
