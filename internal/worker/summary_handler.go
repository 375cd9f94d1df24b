package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"scribe/internal/models"
	"scribe/internal/services"
	"scribe/internal/store"
	"scribe/internal/tasks"
)

// SummaryDeps carries the dependencies of the summary backfill handler.
type SummaryDeps struct {
	Articles   store.ArticleStore
	Summarizer services.Summarizer
}

// RegisterHandlers attaches all worker task handlers to the mux.
func RegisterHandlers(mux *asynq.ServeMux, deps SummaryDeps) {
	mux.HandleFunc(tasks.TypeSummaryBackfill, HandleSummaryBackfillJob(deps))
}

// HandleSummaryBackfillJob regenerates the summary of an article whose
// inline summarization failed. A deleted article is not an error; the job
// just has nothing left to do.
func HandleSummaryBackfillJob(deps SummaryDeps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload tasks.SummaryBackfillPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal summary backfill payload: %v: %w", err, asynq.SkipRetry)
		}
		if payload.ArticleID == "" {
			return fmt.Errorf("summary backfill payload has no article id: %w", asynq.SkipRetry)
		}

		logger := log.WithField("article_id", payload.ArticleID)

		article, err := deps.Articles.GetArticle(ctx, payload.ArticleID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				logger.Info("Article deleted before summary backfill ran, skipping")
				return nil
			}
			return fmt.Errorf("fetch article for summary backfill: %w", err)
		}
		if article.Summary != "" {
			logger.Debug("Article already has a summary, skipping backfill")
			return nil
		}

		summary, err := deps.Summarizer.Summarize(ctx, article.Title, article.Content)
		if err != nil {
			if errors.Is(err, models.ErrValidation) {
				logger.Info("Article has no summarizable text, skipping backfill")
				return nil
			}
			// Dependency failures are retried by asynq.
			return fmt.Errorf("regenerate summary: %w", err)
		}

		if err := deps.Articles.SetArticleSummary(ctx, payload.ArticleID, summary); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				logger.Info("Article deleted during summary backfill, skipping")
				return nil
			}
			return fmt.Errorf("persist backfilled summary: %w", err)
		}

		logger.Info("Backfilled article summary")
		return nil
	}
}
