package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"scribe/internal/models"
	"scribe/internal/services"
	"scribe/pkg/intent"
)

// Action tags which mutation, if any, a routed message performed.
type Action string

const (
	ActionNone           Action = "none"
	ActionCreateCategory Action = "create_category"
	ActionRenameCategory Action = "rename_category"
	ActionCreateArticle  Action = "create_article"
)

// Result is what the router hands back for one routed message.
type Result struct {
	Reply        string
	ActionTaken  Action
	ActionResult map[string]any
}

// ArticleDirectory is the slice of the article service the router needs.
type ArticleDirectory interface {
	Create(ctx context.Context, params services.CreateArticleParams) (*models.Article, error)
	List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error)
}

// CategoryDirectory is the slice of the category service the router needs.
type CategoryDirectory interface {
	Create(ctx context.Context, name, description string) (*models.Category, error)
	Rename(ctx context.Context, oldName, newName string) (*models.Category, int64, error)
	List(ctx context.Context) ([]*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
}

// capabilityPreamble frames general chat replies so the model answers as
// the site's admin assistant.
const capabilityPreamble = `You are the admin assistant for a content publishing site.
You can create and rename categories, create articles, and list categories or recent articles when asked.
For anything else, answer conversationally and keep replies short.`

// Router classifies one free-text admin message into an intent, executes
// it, and produces a plain-text reply. All conversation state lives in the
// caller-owned Conversation.
type Router struct {
	extractor  intent.Extractor
	completion services.CompletionService
	articles   ArticleDirectory
	categories CategoryDirectory

	articleLimit int
	author       string
}

func NewRouter(extractor intent.Extractor, completion services.CompletionService, articles ArticleDirectory, categories CategoryDirectory, articleLimit int, author string) *Router {
	if articleLimit <= 0 {
		articleLimit = 5
	}
	if author == "" {
		author = "AI Assistant"
	}
	return &Router{
		extractor:    extractor,
		completion:   completion,
		articles:     articles,
		categories:   categories,
		articleLimit: articleLimit,
		author:       author,
	}
}

// Handle routes a single message. Service-level validation, not-found and
// conflict failures become user-facing failure replies with ActionNone and
// a nil error. A classification call that fails outright is returned as an
// error for the transport layer to turn into a generic failure reply.
func (r *Router) Handle(ctx context.Context, conv *Conversation, message string) (Result, error) {
	conv.AddUser(message)

	extraction, err := r.extractor.Extract(ctx, message)
	if err != nil {
		if errors.Is(err, models.ErrExtraction) {
			// Unparseable model output downgrades to plain chat.
			log.WithError(err).Debug("Intent extraction failed, falling back to general chat")
			extraction = intent.Extraction{Intent: intent.IntentGeneralChat}
		} else {
			return Result{}, err
		}
	}

	var result Result
	switch extraction.Intent {
	case intent.IntentCreateCategory:
		result, err = r.createCategory(ctx, extraction)
	case intent.IntentRenameCategory:
		result, err = r.renameCategory(ctx, extraction)
	case intent.IntentListCategories:
		result, err = r.listCategories(ctx)
	case intent.IntentCreateArticle:
		result, err = r.createArticle(ctx, extraction)
	case intent.IntentListArticles:
		result, err = r.listArticles(ctx)
	default:
		result, err = r.generalChat(ctx, conv)
	}
	if err != nil {
		return Result{}, err
	}

	conv.AddAssistant(result.Reply)
	return result, nil
}

// failure wraps a user-facing failure message as a routed result.
func failure(reply string) Result {
	return Result{Reply: reply, ActionTaken: ActionNone}
}

func (r *Router) createCategory(ctx context.Context, ext intent.Extraction) (Result, error) {
	category, err := r.categories.Create(ctx, ext.Name, ext.Description)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrConflict):
			return failure(fmt.Sprintf("A category named %q already exists, so I didn't create another one.", ext.Name)), nil
		case errors.Is(err, models.ErrValidation):
			return failure("I need a name for the new category. Try something like: create a category called Sports."), nil
		}
		return Result{}, err
	}
	return Result{
		Reply:       fmt.Sprintf("Done. I created the category %q (slug %q).", category.Name, category.Slug),
		ActionTaken: ActionCreateCategory,
		ActionResult: map[string]any{
			"category_id": category.ID,
			"name":        category.Name,
			"slug":        category.Slug,
		},
	}, nil
}

func (r *Router) renameCategory(ctx context.Context, ext intent.Extraction) (Result, error) {
	category, updated, err := r.categories.Rename(ctx, ext.OldName, ext.NewName)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			names, listErr := r.categoryNames(ctx)
			if listErr != nil {
				return Result{}, listErr
			}
			if len(names) == 0 {
				return failure(fmt.Sprintf("I couldn't find a category called %q. There are no categories yet.", ext.OldName)), nil
			}
			return failure(fmt.Sprintf("I couldn't find a category called %q. Available categories: %s.", ext.OldName, strings.Join(names, ", "))), nil
		case errors.Is(err, models.ErrConflict):
			return failure(fmt.Sprintf("A category named %q already exists, so I can't rename %q to it.", ext.NewName, ext.OldName)), nil
		case errors.Is(err, models.ErrValidation):
			return failure("To rename a category I need both the current name and the new name."), nil
		}
		return Result{}, err
	}
	return Result{
		Reply:       fmt.Sprintf("Renamed category %q to %q and updated %d article(s).", ext.OldName, category.Name, updated),
		ActionTaken: ActionRenameCategory,
		ActionResult: map[string]any{
			"category_id":      category.ID,
			"name":             category.Name,
			"slug":             category.Slug,
			"articles_updated": updated,
		},
	}, nil
}

func (r *Router) listCategories(ctx context.Context) (Result, error) {
	categories, err := r.categories.List(ctx)
	if err != nil {
		return Result{}, err
	}
	if len(categories) == 0 {
		return Result{Reply: "There are no categories yet. Ask me to create one.", ActionTaken: ActionNone}, nil
	}
	var sb strings.Builder
	sb.WriteString("Here are the current categories:\n")
	for _, c := range categories {
		if c.Description != "" {
			fmt.Fprintf(&sb, "- %s: %s\n", c.Name, c.Description)
		} else {
			fmt.Fprintf(&sb, "- %s\n", c.Name)
		}
	}
	return Result{Reply: strings.TrimRight(sb.String(), "\n"), ActionTaken: ActionNone}, nil
}

func (r *Router) createArticle(ctx context.Context, ext intent.Extraction) (Result, error) {
	categoryName, err := r.resolveCategory(ctx, ext.Category)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return failure("There are no categories yet, so I can't file the article. Create a category first."), nil
		}
		return Result{}, err
	}

	article, err := r.articles.Create(ctx, services.CreateArticleParams{
		Title:    ext.Title,
		Content:  ext.Content,
		Category: categoryName,
		Author:   r.author,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrNotFound):
			return failure("I couldn't create that article; it needs at least a title and some content."), nil
		case errors.Is(err, models.ErrConflict):
			return failure("I couldn't create that article because of a conflict. Please try again."), nil
		}
		return Result{}, err
	}
	return Result{
		Reply:       fmt.Sprintf("I published %q in the %q category.", article.Title, article.Category),
		ActionTaken: ActionCreateArticle,
		ActionResult: map[string]any{
			"article_id": article.ID,
			"title":      article.Title,
			"category":   article.Category,
		},
	}, nil
}

// resolveCategory matches the requested name case-insensitively, falling
// back to the first available category. models.ErrNotFound means no
// categories exist at all.
func (r *Router) resolveCategory(ctx context.Context, requested string) (string, error) {
	if requested != "" {
		category, err := r.categories.GetByName(ctx, requested)
		if err == nil {
			return category.Name, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			return "", err
		}
	}
	categories, err := r.categories.List(ctx)
	if err != nil {
		return "", err
	}
	if len(categories) == 0 {
		return "", models.ErrNotFound
	}
	return categories[0].Name, nil
}

func (r *Router) listArticles(ctx context.Context) (Result, error) {
	articles, err := r.articles.List(ctx, models.ArticleFilter{Limit: r.articleLimit})
	if err != nil {
		return Result{}, err
	}
	if len(articles) == 0 {
		return Result{Reply: "There are no articles yet.", ActionTaken: ActionNone}, nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Here are the %d most recent articles:\n", len(articles))
	for _, a := range articles {
		if a.Category != "" {
			fmt.Fprintf(&sb, "- %s (%s)\n", a.Title, a.Category)
		} else {
			fmt.Fprintf(&sb, "- %s\n", a.Title)
		}
	}
	return Result{Reply: strings.TrimRight(sb.String(), "\n"), ActionTaken: ActionNone}, nil
}

func (r *Router) generalChat(ctx context.Context, conv *Conversation) (Result, error) {
	messages := append(
		[]services.ChatMessage{{Role: services.ChatMessageRoleSystem, Content: capabilityPreamble}},
		conv.Messages()...,
	)
	reply, err := r.completion.GenerateChatCompletion(ctx, messages)
	if err != nil {
		return Result{}, err
	}
	return Result{Reply: strings.TrimSpace(reply), ActionTaken: ActionNone}, nil
}

func (r *Router) categoryNames(ctx context.Context) ([]string, error) {
	categories, err := r.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names, nil
}
