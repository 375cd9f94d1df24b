package primary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"scribe/internal/models"
)

const articleColumns = `id, title, content, summary, category, author, image_url, image_data,
	   published, views, shares, created_at, updated_at`

func scanArticle(row pgx.Row, dest *models.Article) error {
	return row.Scan(
		&dest.ID,
		&dest.Title,
		&dest.Content,
		&dest.Summary,
		&dest.Category,
		&dest.Author,
		&dest.ImageURL,
		&dest.ImageData,
		&dest.Published,
		&dest.Views,
		&dest.Shares,
		&dest.CreatedAt,
		&dest.UpdatedAt,
	)
}

// CreateArticle inserts a new article. When the article names a category,
// the matching category row is locked FOR SHARE for the duration of the
// transaction so a concurrent rename cannot leave the article pointing at
// a name that no longer exists.
func (s *StoreImpl) CreateArticle(ctx context.Context, article *models.Article) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin article insert: %w", err)
	}
	defer tx.Rollback(ctx)

	if article.Category != "" {
		var canonical string
		err := tx.QueryRow(ctx, `
			SELECT name FROM categories
			WHERE lower(name) = lower($1)
			ORDER BY (name = $1) DESC, created_at ASC
			LIMIT 1
			FOR SHARE`,
			article.Category,
		).Scan(&canonical)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("category %q: %w", article.Category, models.ErrNotFound)
			}
			return fmt.Errorf("lock category for article insert: %w", err)
		}
		article.Category = canonical
	}

	now := time.Now().UTC()
	article.CreatedAt = now
	article.UpdatedAt = now

	_, err = tx.Exec(ctx, `
		INSERT INTO articles (id, title, content, summary, category, author, image_url, image_data,
							  published, views, shares, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, 0, $10, $11)`,
		article.ID, article.Title, article.Content, article.Summary, article.Category,
		article.Author, article.ImageURL, article.ImageData, article.Published,
		article.CreatedAt, article.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("article %s already exists: %w", article.ID, models.ErrConflict)
		}
		return fmt.Errorf("failed to insert article: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit article insert: %w", err)
	}
	return nil
}

func (s *StoreImpl) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`
	article := &models.Article{}
	if err := scanArticle(s.db.QueryRow(ctx, query, id), article); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get article %s: %w", id, err)
	}
	return article, nil
}

// ReadArticle fetches an article for public display, bumping its view
// counter in the same statement so concurrent reads never lose an
// increment.
func (s *StoreImpl) ReadArticle(ctx context.Context, id string) (*models.Article, error) {
	query := `
		UPDATE articles SET views = views + 1
		WHERE id = $1
		RETURNING ` + articleColumns
	article := &models.Article{}
	if err := scanArticle(s.db.QueryRow(ctx, query, id), article); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read article %s: %w", id, err)
	}
	return article, nil
}

func (s *StoreImpl) UpdateArticle(ctx context.Context, id string, upd *models.ArticleUpdate) (*models.Article, error) {
	sets := []string{}
	args := []any{}
	idx := 1

	appendSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if upd.Title != nil {
		appendSet("title", *upd.Title)
	}
	if upd.Content != nil {
		appendSet("content", *upd.Content)
	}
	if upd.Category != nil {
		appendSet("category", *upd.Category)
	}
	if upd.Author != nil {
		appendSet("author", *upd.Author)
	}
	if upd.ImageURL != nil {
		appendSet("image_url", *upd.ImageURL)
	}
	if upd.ImageData != nil {
		appendSet("image_data", *upd.ImageData)
	}
	if upd.Published != nil {
		appendSet("published", *upd.Published)
	}
	if len(sets) == 0 {
		return s.GetArticle(ctx, id)
	}
	appendSet("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE articles SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), idx, articleColumns)

	article := &models.Article{}
	if err := scanArticle(s.db.QueryRow(ctx, query, args...), article); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update article %s: %w", id, err)
	}
	return article, nil
}

// SetArticleSummary replaces the stored summary. updated_at is left alone
// because summary regeneration is not an authored edit.
func (s *StoreImpl) SetArticleSummary(ctx context.Context, id, summary string) error {
	tag, err := s.db.Exec(ctx, `UPDATE articles SET summary = $1 WHERE id = $2`, summary, id)
	if err != nil {
		return fmt.Errorf("failed to set summary for article %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *StoreImpl) DeleteArticle(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *StoreImpl) IncrementShares(ctx context.Context, id string) (int64, error) {
	var shares int64
	err := s.db.QueryRow(ctx,
		`UPDATE articles SET shares = shares + 1 WHERE id = $1 RETURNING shares`, id,
	).Scan(&shares)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, models.ErrNotFound
		}
		return 0, fmt.Errorf("failed to increment shares for article %s: %w", id, err)
	}
	return shares, nil
}

func (s *StoreImpl) ListArticles(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	conds := []string{}
	args := []any{}
	idx := 1

	if filter.Category != "" {
		conds = append(conds, fmt.Sprintf("lower(category) = lower($%d)", idx))
		args = append(args, filter.Category)
		idx++
	}
	if filter.Published != nil {
		conds = append(conds, fmt.Sprintf("published = $%d", idx))
		args = append(args, *filter.Published)
		idx++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + articleColumns + ` FROM articles`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", idx)
	args = append(args, limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	articles := []*models.Article{}
	for rows.Next() {
		article := &models.Article{}
		if err := scanArticle(rows, article); err != nil {
			return nil, fmt.Errorf("failed scanning article row: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}
	return articles, nil
}
