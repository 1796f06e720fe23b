// Package categories provides database operations for the category
// taxonomy. All mutations are admin-only and enforce that check before
// touching the database.
package categories

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/bookshelfapp/bookshelf/internal/apperr"
	"github.com/bookshelfapp/bookshelf/internal/auth"
	"github.com/bookshelfapp/bookshelf/internal/entities"
)

const duplicateMessage = "A category with that name or slug already exists."

// Repository handles all category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new categories repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns all categories ordered by name.
func (r *Repository) List() ([]entities.Category, error) {
	var cats []entities.Category
	err := r.db.Order("name").Find(&cats).Error
	return cats, err
}

// GetByID retrieves a category by ID, or nil if it does not exist.
func (r *Repository) GetByID(id uint) (*entities.Category, error) {
	var cat entities.Category
	err := r.db.First(&cat, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// Create adds a category. The slug is derived from the name when blank.
func (r *Repository) Create(actor *entities.Actor, name, slug string) (*entities.Category, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	slug = strings.TrimSpace(slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if err := validate(name, slug); err != nil {
		return nil, err
	}

	if err := r.checkCollision(name, slug, 0); err != nil {
		return nil, err
	}

	cat := &entities.Category{Name: name, Slug: slug}
	if err := r.db.Create(cat).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Duplicate(duplicateMessage)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return cat, nil
}

// Update renames a category and/or changes its slug. Both fields are
// required and re-validated.
func (r *Repository) Update(actor *entities.Actor, id uint, name, slug string) (*entities.Category, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	slug = strings.TrimSpace(slug)
	if name == "" || slug == "" {
		return nil, apperr.Validation("Name and slug are required.")
	}
	if err := validate(name, slug); err != nil {
		return nil, err
	}

	var cat entities.Category
	if err := r.db.First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category")
		}
		return nil, err
	}

	if err := r.checkCollision(name, slug, id); err != nil {
		return nil, err
	}

	cat.Name = name
	cat.Slug = slug
	if err := r.db.Model(&cat).Select("name", "slug").Updates(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Duplicate(duplicateMessage)
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return &cat, nil
}

// Delete removes a category, refusing while any book still references it.
// The conflict error carries the blocking book count.
func (r *Repository) Delete(actor *entities.Actor, id uint) error {
	if err := auth.RequireAdmin(actor); err != nil {
		return err
	}

	var cat entities.Category
	if err := r.db.First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("category")
		}
		return err
	}

	var count int64
	if err := r.db.Table("book_categories").Where("category_id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count category usage: %w", err)
	}
	if count > 0 {
		plural := "s"
		if count == 1 {
			plural = ""
		}
		return apperr.Conflict(int(count),
			"Cannot delete: %d book%s use this category. Re-tag those books first.", count, plural)
	}

	if err := r.db.Delete(&cat).Error; err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

func validate(name, slug string) error {
	if name == "" {
		return apperr.Validation("Category name is required.")
	}
	if len(name) > 100 {
		return apperr.Validation("Category name must be 100 characters or less.")
	}
	if !ValidSlug(slug) {
		return apperr.Validation("Slug must use lowercase letters, numbers, and hyphens only.")
	}
	return nil
}

// checkCollision reports a duplicate error when another row already uses
// the name or slug. excludeID skips the row being updated.
func (r *Repository) checkCollision(name, slug string, excludeID uint) error {
	var existing entities.Category
	q := r.db.Where("name = ? OR slug = ?", name, slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.First(&existing).Error
	if err == nil {
		return apperr.Duplicate(duplicateMessage)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check category collision: %w", err)
	}
	return nil
}
