package store

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"scribe/internal/tasks"
)

// AsynqJobClient enqueues background tasks onto Redis via asynq.
var _ JobClient = (*AsynqJobClient)(nil)

type AsynqJobClient struct {
	client *asynq.Client
}

func NewAsynqJobClient(redisAddr, redisPassword string, redisDB int) *AsynqJobClient {
	cli := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})
	return &AsynqJobClient{client: cli}
}

func (jc *AsynqJobClient) Close() error {
	return jc.client.Close()
}

// EnqueueSummaryBackfill queues a task to regenerate the summary of the
// given article.
func (jc *AsynqJobClient) EnqueueSummaryBackfill(ctx context.Context, articleID string) error {
	if jc.client == nil {
		return fmt.Errorf("asynq client is not initialized")
	}
	payload, err := tasks.EncodeSummaryBackfill(articleID)
	if err != nil {
		return fmt.Errorf("encode summary backfill payload: %w", err)
	}
	task := asynq.NewTask(tasks.TypeSummaryBackfill, payload)
	info, err := jc.client.EnqueueContext(ctx, task, asynq.Queue("summaries"), asynq.MaxRetry(5))
	if err != nil {
		return fmt.Errorf("enqueue summary backfill for article %s: %w", articleID, err)
	}
	log.WithFields(log.Fields{"task_id": info.ID, "article_id": articleID}).Debug("Enqueued summary backfill task")
	return nil
}
