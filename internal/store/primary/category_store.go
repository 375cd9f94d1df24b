package primary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"scribe/internal/models"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" // unique_violation
}

const categoryColumns = `id, name, slug, description, created_at`

func scanCategory(row pgx.Row, dest *models.Category) error {
	return row.Scan(&dest.ID, &dest.Name, &dest.Slug, &dest.Description, &dest.CreatedAt)
}

func (s *StoreImpl) CreateCategory(ctx context.Context, category *models.Category) error {
	category.CreatedAt = time.Now().UTC()
	_, err := s.db.Exec(ctx, `
		INSERT INTO categories (id, name, slug, description, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		category.ID, category.Name, category.Slug, category.Description, category.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category %q already exists: %w", category.Name, models.ErrConflict)
		}
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

func (s *StoreImpl) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	category := &models.Category{}
	if err := scanCategory(s.db.QueryRow(ctx, query, id), category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category %s: %w", id, err)
	}
	return category, nil
}

// GetCategoryByName looks a category up by name, ignoring case. Exact
// matches win when names differing only in case coexist.
func (s *StoreImpl) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories
		WHERE lower(name) = lower($1)
		ORDER BY (name = $1) DESC, created_at ASC
		LIMIT 1`
	category := &models.Category{}
	if err := scanCategory(s.db.QueryRow(ctx, query, name), category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category %q: %w", name, err)
	}
	return category, nil
}

func (s *StoreImpl) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := s.db.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []*models.Category{}
	for rows.Next() {
		category := &models.Category{}
		if err := scanCategory(rows, category); err != nil {
			return nil, fmt.Errorf("failed scanning category row: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}

// RenameCategory renames a category and rewrites every article referencing
// the old name, in a single transaction. The source row is locked FOR
// UPDATE so two concurrent renames of the same category serialize instead
// of both succeeding.
func (s *StoreImpl) RenameCategory(ctx context.Context, oldName, newName, newSlug string) (*models.Category, int64, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("begin category rename: %w", err)
	}
	defer tx.Rollback(ctx)

	category := &models.Category{}
	err = scanCategory(tx.QueryRow(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE lower(name) = lower($1)
		ORDER BY (name = $1) DESC, created_at ASC
		LIMIT 1
		FOR UPDATE`,
		oldName,
	), category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, fmt.Errorf("category %q: %w", oldName, models.ErrNotFound)
		}
		return nil, 0, fmt.Errorf("failed to lock category %q for rename: %w", oldName, err)
	}

	err = scanCategory(tx.QueryRow(ctx, `
		UPDATE categories SET name = $1, slug = $2
		WHERE id = $3
		RETURNING `+categoryColumns,
		newName, newSlug, category.ID,
	), category)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, 0, fmt.Errorf("category %q already exists: %w", newName, models.ErrConflict)
		}
		return nil, 0, fmt.Errorf("failed to rename category %q: %w", oldName, err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE articles SET category = $1 WHERE lower(category) = lower($2)`,
		newName, oldName,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to rewrite article categories: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("commit category rename: %w", err)
	}
	return category, tag.RowsAffected(), nil
}

func (s *StoreImpl) DeleteCategory(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
