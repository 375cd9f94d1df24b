package services_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"scribe/internal/models"
	"scribe/internal/services"
	"scribe/internal/store"
)

// memStore is an in-memory stand-in for the persistence layer.
type memStore struct {
	mu         sync.Mutex
	articles   map[string]*models.Article
	categories map[string]*models.Category // keyed by ID
}

func newMemStore() *memStore {
	return &memStore{
		articles:   make(map[string]*models.Article),
		categories: make(map[string]*models.Category),
	}
}

func (m *memStore) CreateArticle(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.articles[article.ID]; ok {
		return models.ErrConflict
	}
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
	now := time.Now().UTC()
	article.CreatedAt = now
	article.UpdatedAt = now
	copied := *article
	m.articles[article.ID] = &copied
	return nil
}

func (m *memStore) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	article, ok := m.articles[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *article
	return &copied, nil
}

func (m *memStore) ReadArticle(ctx context.Context, id string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	article, ok := m.articles[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	article.Views++
	copied := *article
	return &copied, nil
}

func (m *memStore) UpdateArticle(ctx context.Context, id string, upd *models.ArticleUpdate) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	article, ok := m.articles[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if upd.Title != nil {
		article.Title = *upd.Title
	}
	if upd.Content != nil {
		article.Content = *upd.Content
	}
	if upd.Category != nil {
		article.Category = *upd.Category
	}
	if upd.Author != nil {
		article.Author = *upd.Author
	}
	if upd.ImageURL != nil {
		article.ImageURL = *upd.ImageURL
	}
	if upd.ImageData != nil {
		article.ImageData = *upd.ImageData
	}
	if upd.Published != nil {
		article.Published = *upd.Published
	}
	article.UpdatedAt = time.Now().UTC()
	copied := *article
	return &copied, nil
}

func (m *memStore) SetArticleSummary(ctx context.Context, id, summary string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	article, ok := m.articles[id]
	if !ok {
		return models.ErrNotFound
	}
	article.Summary = summary
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
	article, ok := m.articles[id]
	if !ok {
		return 0, models.ErrNotFound
	}
	article.Shares++
	return article.Shares, nil
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
	category, ok := m.categories[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *category
	return &copied, nil
}

func (m *memStore) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var fold *models.Category
	for _, c := range m.categories {
		if c.Name == name {
			copied := *c
			return &copied, nil
		}
		if strings.EqualFold(c.Name, name) && fold == nil {
			fold = c
		}
	}
	if fold != nil {
		copied := *fold
		return &copied, nil
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

func (m *memStore) seedCategory(name string) *models.Category {
	category := &models.Category{ID: "cat-" + strings.ToLower(name), Name: name, Slug: services.Slugify(name)}
	_ = m.CreateCategory(context.Background(), category)
	return category
}

// fakeSummarizer returns canned summaries or errors and counts calls.
type fakeSummarizer struct {
	summary string
	err     error
	calls   int
}

func (f *fakeSummarizer) Summarize(ctx context.Context, title, content string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}

// fakeJobClient records enqueued backfills.
type fakeJobClient struct {
	enqueued []string
	err      error
}

func (f *fakeJobClient) EnqueueSummaryBackfill(ctx context.Context, articleID string) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, articleID)
	return nil
}

func (f *fakeJobClient) Close() error { return nil }

// fakeCompletion plays back scripted replies, one per call.
type fakeCompletion struct {
	replies []string
	errs    []error
	calls   int
	last    []services.ChatMessage
}

func (f *fakeCompletion) GenerateChatCompletion(ctx context.Context, messages []services.ChatMessage) (string, error) {
	idx := f.calls
	f.calls++
	f.last = messages
	if idx < len(f.errs) && f.errs[idx] != nil {
		return "", f.errs[idx]
	}
	if idx < len(f.replies) {
		return f.replies[idx], nil
	}
	if len(f.replies) > 0 {
		return f.replies[len(f.replies)-1], nil
	}
	return "", nil
}

func (f *fakeCompletion) Name() string      { return "fake" }
func (f *fakeCompletion) ModelName() string { return "fake-model" }

func (f *fakeCompletion) Status() store.ProviderStatus { return store.ProviderStatusActive }
