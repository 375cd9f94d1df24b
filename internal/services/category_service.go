package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"scribe/internal/models"
	"scribe/internal/store"
)

// CategoryService manages categories and the article rewrites a rename
// entails.
type CategoryService struct {
	store store.CategoryStore
}

func NewCategoryService(st store.CategoryStore) *CategoryService {
	return &CategoryService{store: st}
}

// Slugify derives a URL slug from a category name: lowercased, runs of
// non-alphanumeric characters collapsed to single hyphens.
func Slugify(name string) string {
	var sb strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			sb.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(sb.String(), "-")
}

// Create adds a new category. Names are unique with case-sensitive
// comparison, so "Tech" and "tech" are distinct.
func (s *CategoryService) Create(ctx context.Context, name, description string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("category name is required: %w", models.ErrValidation)
	}

	category := &models.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        Slugify(name),
		Description: strings.TrimSpace(description),
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Rename changes a category's name and rewrites every article that
// references it. The old name is matched case-insensitively; the new name
// is stored exactly as given. Returns the updated category and the number
// of rewritten articles.
func (s *CategoryService) Rename(ctx context.Context, oldName, newName string) (*models.Category, int64, error) {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if oldName == "" || newName == "" {
		return nil, 0, fmt.Errorf("both old and new category names are required: %w", models.ErrValidation)
	}
	return s.store.RenameCategory(ctx, oldName, newName, Slugify(newName))
}

func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	return s.store.GetCategory(ctx, id)
}

// GetByName resolves a category name case-insensitively.
func (s *CategoryService) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return s.store.GetCategoryByName(ctx, name)
}

func (s *CategoryService) List(ctx context.Context) ([]*models.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteCategory(ctx, id)
}

// Exists reports whether a category with the given name exists, ignoring
// case.
func (s *CategoryService) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.store.GetCategoryByName(ctx, name)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
