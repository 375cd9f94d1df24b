package clix

import (
	"github.com/spf13/pflag"

	"scribe/internal/models"
)

// ParseArticleFilter builds an article listing filter from the shared
// list flags (category, limit, include-drafts).
func ParseArticleFilter(flags *pflag.FlagSet) (models.ArticleFilter, error) {
	category, _ := flags.GetString("category")
	limit, _ := flags.GetInt("limit")
	includeDrafts, _ := flags.GetBool("include-drafts")

	if limit <= 0 {
		limit = 20
	}

	filter := models.ArticleFilter{Category: category, Limit: limit}
	if !includeDrafts {
		published := true
		filter.Published = &published
	}
	return filter, nil
}
