package tasks

import "encoding/json"

// Task types handled by the worker process.
const (
	// TypeSummaryBackfill regenerates the summary of an article whose
	// synchronous summarization failed or was skipped.
	TypeSummaryBackfill = "summary:backfill"
)

// SummaryBackfillPayload is the JSON payload carried by a summary:backfill task.
type SummaryBackfillPayload struct {
	ArticleID string `json:"article_id"`
}

// EncodeSummaryBackfill marshals the payload for a summary:backfill task.
func EncodeSummaryBackfill(articleID string) ([]byte, error) {
	return json.Marshal(SummaryBackfillPayload{ArticleID: articleID})
}
