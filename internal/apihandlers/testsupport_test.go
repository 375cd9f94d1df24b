package apihandlers_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"scribe/internal/apihandlers"
	"scribe/internal/app"
	"scribe/internal/assistant"
	"scribe/internal/auth"
	"scribe/internal/config"
	"scribe/internal/models"
	"scribe/internal/services"
	"scribe/internal/store"
	"scribe/pkg/intent"
)

// memStore is an in-memory store.PrimaryStore for handler tests.
type memStore struct {
	mu         sync.Mutex
	articles   map[string]*models.Article
	categories map[string]*models.Category
	statuses   []*models.StatusCheck
	seq        int
}

func newMemStore() *memStore {
	return &memStore{
		articles:   map[string]*models.Article{},
		categories: map[string]*models.Category{},
	}
}

func (m *memStore) Ping(ctx context.Context) error { return nil }
func (m *memStore) Close()                         {}

func (m *memStore) CreateArticle(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if article.Category != "" {
		found := false
		for _, c := range m.categories {
			if strings.EqualFold(c.Name, article.Category) {
				article.Category = c.Name
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("category %q: %w", article.Category, models.ErrNotFound)
		}
	}
	m.seq++
	article.CreatedAt = time.Now().UTC().Add(time.Duration(m.seq) * time.Millisecond)
	article.UpdatedAt = article.CreatedAt
	copied := *article
	m.articles[article.ID] = &copied
	return nil
}

func (m *memStore) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.articles[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (m *memStore) ReadArticle(ctx context.Context, id string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.articles[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	a.Views++
	copied := *a
	return &copied, nil
}

func (m *memStore) UpdateArticle(ctx context.Context, id string, upd *models.ArticleUpdate) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.articles[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if upd.Title != nil {
		a.Title = *upd.Title
	}
	if upd.Content != nil {
		a.Content = *upd.Content
	}
	if upd.Category != nil {
		a.Category = *upd.Category
	}
	if upd.Author != nil {
		a.Author = *upd.Author
	}
	if upd.ImageURL != nil {
		a.ImageURL = *upd.ImageURL
	}
	if upd.ImageData != nil {
		a.ImageData = *upd.ImageData
	}
	if upd.Published != nil {
		a.Published = *upd.Published
	}
	a.UpdatedAt = time.Now().UTC()
	copied := *a
	return &copied, nil
}

func (m *memStore) SetArticleSummary(ctx context.Context, id, summary string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.articles[id]
	if !ok {
		return models.ErrNotFound
	}
	a.Summary = summary
	return nil
}

func (m *memStore) DeleteArticle(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.articles[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.articles, id)
	return nil
}

func (m *memStore) IncrementShares(ctx context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.articles[id]
	if !ok {
		return 0, models.ErrNotFound
	}
	a.Shares++
	return a.Shares, nil
}

func (m *memStore) ListArticles(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Article{}
	for _, a := range m.articles {
		if filter.Category != "" && !strings.EqualFold(a.Category, filter.Category) {
			continue
		}
		if filter.Published != nil && a.Published != *filter.Published {
			continue
		}
		copied := *a
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) CreateCategory(ctx context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.Name == category.Name {
			return fmt.Errorf("category %q already exists: %w", category.Name, models.ErrConflict)
		}
	}
	category.CreatedAt = time.Now().UTC()
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *memStore) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *memStore) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.Name == name {
			copied := *c
			return &copied, nil
		}
	}
	for _, c := range m.categories {
		if strings.EqualFold(c.Name, name) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memStore) ListCategories(ctx context.Context) ([]*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Category{}
	for _, c := range m.categories {
		copied := *c
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) RenameCategory(ctx context.Context, oldName, newName, newSlug string) (*models.Category, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var target *models.Category
	for _, c := range m.categories {
		if strings.EqualFold(c.Name, oldName) {
			target = c
			break
		}
	}
	if target == nil {
		return nil, 0, fmt.Errorf("category %q: %w", oldName, models.ErrNotFound)
	}
	for _, c := range m.categories {
		if c != target && c.Name == newName {
			return nil, 0, fmt.Errorf("category %q already exists: %w", newName, models.ErrConflict)
		}
	}
	target.Name = newName
	target.Slug = newSlug
	var updated int64
	for _, a := range m.articles {
		if strings.EqualFold(a.Category, oldName) {
			a.Category = newName
			updated++
		}
	}
	copied := *target
	return &copied, updated, nil
}

func (m *memStore) DeleteCategory(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *memStore) CreateStatusCheck(ctx context.Context, check *models.StatusCheck) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	check.Timestamp = time.Now().UTC()
	copied := *check
	m.statuses = append(m.statuses, &copied)
	return nil
}

func (m *memStore) ListStatusChecks(ctx context.Context, limit int) ([]*models.StatusCheck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.StatusCheck, len(m.statuses))
	copy(out, m.statuses)
	return out, nil
}

// scriptedCompletion returns a fixed reply for chat endpoints.
type scriptedCompletion struct {
	reply string
	err   error
}

func (s *scriptedCompletion) GenerateChatCompletion(ctx context.Context, messages []services.ChatMessage) (string, error) {
	return s.reply, s.err
}
func (s *scriptedCompletion) Name() string      { return "scripted" }
func (s *scriptedCompletion) ModelName() string { return "scripted-model" }

func (s *scriptedCompletion) Status() store.ProviderStatus { return store.ProviderStatusActive }

// scriptedExtractor drives the assistant endpoint without a model.
type scriptedExtractor struct {
	extraction intent.Extraction
	err        error
}

func (s *scriptedExtractor) Extract(ctx context.Context, message string) (intent.Extraction, error) {
	return s.extraction, s.err
}

type testEnv struct {
	router *gin.Engine
	store  *memStore
	app    *app.App
}

func newTestEnv(extractor intent.Extractor, completion services.CompletionService) *testEnv {
	gin.SetMode(gin.TestMode)

	st := newMemStore()
	cfg := &config.Config{}
	cfg.Upload.MaxBytes = 5 * 1024 * 1024
	cfg.Assistant.ArticleLimit = 5

	tokens, err := auth.NewTokenService("test-secret", time.Hour)
	if err != nil {
		panic(err)
	}

	articleSvc := services.NewArticleService(st, services.NoopSummarizer{}, nil, "Admin")
	categorySvc := services.NewCategoryService(st)

	a := &app.App{
		Config:          cfg,
		PrimaryStore:    st,
		Completion:      completion,
		Summarizer:      services.NoopSummarizer{},
		ArticleService:  articleSvc,
		CategoryService: categorySvc,
		IntentExtractor: extractor,
		Assistant:       assistant.NewRouter(extractor, completion, articleSvc, categorySvc, cfg.Assistant.ArticleLimit, "AI Assistant"),
		Verifier:        auth.NewStaticVerifier("admin", "hunter2"),
		Tokens:          tokens,
	}

	router := gin.New()
	apihandlers.RegisterRoutes(router, apihandlers.NewAPIHandler(a))
	return &testEnv{router: router, store: st, app: a}
}

func (e *testEnv) adminToken() string {
	token, _, err := e.app.Tokens.Issue("admin")
	if err != nil {
		panic(err)
	}
	return token
}
