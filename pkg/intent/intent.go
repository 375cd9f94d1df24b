package intent

import "context"

// Intent is one of the fixed set of admin actions a free-text message can
// request. The set is closed: unknown labels collapse to IntentGeneralChat.
type Intent string

const (
	IntentCreateCategory Intent = "create_category"
	IntentRenameCategory Intent = "rename_category"
	IntentListCategories Intent = "list_categories"
	IntentCreateArticle  Intent = "create_article"
	IntentListArticles   Intent = "list_articles"
	IntentGeneralChat    Intent = "general_chat"
)

// Extraction is the structured payload derived from one user message.
// Which parameter fields are meaningful depends on Intent.
type Extraction struct {
	Intent Intent `json:"intent"`

	// create_category
	Name        string `json:"name"`
	Description string `json:"description"`

	// rename_category
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`

	// create_article
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// Extractor classifies a message and extracts intent parameters.
type Extractor interface {
	Extract(ctx context.Context, message string) (Extraction, error)
}
