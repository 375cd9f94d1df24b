package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"scribe/internal/htmlutil"
	"scribe/internal/models"
	"scribe/internal/store"
)

// CreateArticleParams carries the author-supplied fields of a new article.
type CreateArticleParams struct {
	Title     string
	Content   string
	Category  string
	Author    string
	ImageURL  string
	ImageData string
	Published *bool
}

// ArticleService coordinates article persistence with summarization and
// background jobs.
type ArticleService struct {
	store         store.ArticleStore
	summarizer    Summarizer
	jobs          store.JobClient
	defaultAuthor string
}

func NewArticleService(st store.ArticleStore, summarizer Summarizer, jobs store.JobClient, defaultAuthor string) *ArticleService {
	if defaultAuthor == "" {
		defaultAuthor = "Admin"
	}
	return &ArticleService{
		store:         st,
		summarizer:    summarizer,
		jobs:          jobs,
		defaultAuthor: defaultAuthor,
	}
}

// Create validates and persists a new article. Summarization is
// best-effort: when it fails the article is stored with an empty summary
// and a backfill job is queued.
func (s *ArticleService) Create(ctx context.Context, params CreateArticleParams) (*models.Article, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, fmt.Errorf("article title is required: %w", models.ErrValidation)
	}
	if strings.TrimSpace(params.Content) == "" {
		return nil, fmt.Errorf("article content is required: %w", models.ErrValidation)
	}
	if strings.TrimSpace(params.Category) == "" {
		return nil, fmt.Errorf("article category is required: %w", models.ErrValidation)
	}

	article := &models.Article{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(params.Title),
		Content:   htmlutil.Sanitize(params.Content),
		Category:  strings.TrimSpace(params.Category),
		Author:    params.Author,
		ImageURL:  params.ImageURL,
		ImageData: params.ImageData,
		Published: true,
	}
	if article.Author == "" {
		article.Author = s.defaultAuthor
	}
	if params.Published != nil {
		article.Published = *params.Published
	}

	summary, err := s.summarizer.Summarize(ctx, article.Title, article.Content)
	needsBackfill := false
	switch {
	case err == nil:
		article.Summary = summary
	case errors.Is(err, models.ErrValidation):
		// Nothing to summarize, leave the summary empty.
	default:
		log.WithError(err).WithField("title", article.Title).Warn("Inline summarization failed, will backfill")
		needsBackfill = true
	}

	if err := s.store.CreateArticle(ctx, article); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("category %q does not exist: %w", article.Category, models.ErrValidation)
		}
		return nil, err
	}

	if needsBackfill && s.jobs != nil {
		if err := s.jobs.EnqueueSummaryBackfill(ctx, article.ID); err != nil {
			log.WithError(err).WithField("article_id", article.ID).Error("Failed to enqueue summary backfill")
		}
	}
	return article, nil
}

// Get fetches an article for editing or internal use without counting a view.
func (s *ArticleService) Get(ctx context.Context, id string) (*models.Article, error) {
	return s.store.GetArticle(ctx, id)
}

// Read fetches an article for public display and counts the view.
func (s *ArticleService) Read(ctx context.Context, id string) (*models.Article, error) {
	return s.store.ReadArticle(ctx, id)
}

// Update applies a partial update. A content change triggers summary
// regeneration under the same best-effort policy as Create.
func (s *ArticleService) Update(ctx context.Context, id string, upd *models.ArticleUpdate) (*models.Article, error) {
	if upd.Content != nil {
		sanitized := htmlutil.Sanitize(*upd.Content)
		upd.Content = &sanitized
	}

	article, err := s.store.UpdateArticle(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	if upd.Content != nil {
		summary, err := s.summarizer.Summarize(ctx, article.Title, article.Content)
		if err != nil {
			// The stored summary describes the old content. Clear it so it
			// cannot be served stale; the backfill handler only repairs
			// articles with an empty summary.
			if clearErr := s.store.SetArticleSummary(ctx, id, ""); clearErr != nil {
				return nil, clearErr
			}
			article.Summary = ""
			if !errors.Is(err, models.ErrValidation) {
				log.WithError(err).WithField("article_id", id).Warn("Summary regeneration failed, will backfill")
				if s.jobs != nil {
					if jobErr := s.jobs.EnqueueSummaryBackfill(ctx, id); jobErr != nil {
						log.WithError(jobErr).WithField("article_id", id).Error("Failed to enqueue summary backfill")
					}
				}
			}
			return article, nil
		}
		if err := s.store.SetArticleSummary(ctx, id, summary); err != nil {
			return nil, err
		}
		article.Summary = summary
	}
	return article, nil
}

func (s *ArticleService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteArticle(ctx, id)
}

// RecordShare counts one share and returns the new total.
func (s *ArticleService) RecordShare(ctx context.Context, id string) (int64, error) {
	return s.store.IncrementShares(ctx, id)
}

func (s *ArticleService) List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	return s.store.ListArticles(ctx, filter)
}

// ShareLinks builds per-network share URLs for an article. baseURL is the
// public site origin, e.g. "https://example.com".
func (s *ArticleService) ShareLinks(ctx context.Context, id, baseURL string) (map[string]string, error) {
	article, err := s.store.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	return BuildShareLinks(baseURL, article), nil
}

// BuildShareLinks constructs the share URL map for the given article.
func BuildShareLinks(baseURL string, article *models.Article) map[string]string {
	articleURL := strings.TrimRight(baseURL, "/") + "/articles/" + article.ID
	encodedURL := url.QueryEscape(articleURL)
	encodedTitle := url.QueryEscape(article.Title)

	return map[string]string{
		"twitter":  fmt.Sprintf("https://twitter.com/intent/tweet?url=%s&text=%s", encodedURL, encodedTitle),
		"facebook": fmt.Sprintf("https://www.facebook.com/sharer/sharer.php?u=%s", encodedURL),
		"linkedin": fmt.Sprintf("https://www.linkedin.com/sharing/share-offsite/?url=%s", encodedURL),
		"whatsapp": fmt.Sprintf("https://wa.me/?text=%s%%20%s", encodedTitle, encodedURL),
		"email":    fmt.Sprintf("mailto:?subject=%s&body=%s", encodedTitle, encodedURL),
	}
}
