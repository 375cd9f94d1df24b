package store

import (
	"context"

	"scribe/internal/models"
)

// ProviderStatus reports whether an external provider is usable.
type ProviderStatus int

const (
	ProviderStatusUnknown  ProviderStatus = iota
	ProviderStatusActive                  // provider is operational
	ProviderStatusInactive                // temporarily unavailable
	ProviderStatusDisabled                // not configured
)

func (s ProviderStatus) String() string {
	switch s {
	case ProviderStatusActive:
		return "active"
	case ProviderStatusInactive:
		return "inactive"
	case ProviderStatusDisabled:
		return "disabled"
	}
	return "unknown"
}

// ArticleStore defines persistence operations for articles.
type ArticleStore interface {
	// CreateArticle inserts a new article. The referenced category (when
	// non-empty) must exist for the duration of the insert.
	CreateArticle(ctx context.Context, article *models.Article) error
	// GetArticle fetches an article by ID without touching its counters.
	GetArticle(ctx context.Context, id string) (*models.Article, error)
	// ReadArticle fetches an article and atomically increments its view
	// counter, returning the post-increment state.
	ReadArticle(ctx context.Context, id string) (*models.Article, error)
	// UpdateArticle applies the non-nil fields of upd to the article and
	// returns the updated row.
	UpdateArticle(ctx context.Context, id string, upd *models.ArticleUpdate) (*models.Article, error)
	// SetArticleSummary overwrites the stored summary without bumping
	// updated_at for content purposes.
	SetArticleSummary(ctx context.Context, id, summary string) error
	DeleteArticle(ctx context.Context, id string) error
	// IncrementShares atomically bumps the share counter and returns the
	// new value.
	IncrementShares(ctx context.Context, id string) (int64, error)
	ListArticles(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error)
}

// CategoryStore defines persistence operations for categories.
type CategoryStore interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	// GetCategoryByName performs a case-insensitive lookup.
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	// RenameCategory renames a category and rewrites the category field of
	// every article that references the old name, all in one transaction.
	// It returns the updated category and the number of articles rewritten.
	RenameCategory(ctx context.Context, oldName, newName, newSlug string) (*models.Category, int64, error)
	DeleteCategory(ctx context.Context, id string) error
}

// StatusStore records and lists liveness check pings.
type StatusStore interface {
	CreateStatusCheck(ctx context.Context, check *models.StatusCheck) error
	ListStatusChecks(ctx context.Context, limit int) ([]*models.StatusCheck, error)
}

// PrimaryStore is the combined persistence interface the application wires.
type PrimaryStore interface {
	ArticleStore
	CategoryStore
	StatusStore

	Ping(ctx context.Context) error
	Close()
}

// JobClient enqueues background jobs for the worker process.
type JobClient interface {
	EnqueueSummaryBackfill(ctx context.Context, articleID string) error
	Close() error
}
