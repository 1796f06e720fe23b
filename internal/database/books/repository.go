// Package books provides database operations for book recommendations
// and their category associations. Mutations enforce the owner-or-admin
// rule after loading the target, complementing the claims-only check the
// routing middleware already made.
package books

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"gorm.io/gorm"

	"github.com/bookshelfapp/bookshelf/internal/apperr"
	"github.com/bookshelfapp/bookshelf/internal/auth"
	"github.com/bookshelfapp/bookshelf/internal/entities"
)

// Input carries the submitted fields for a book create or update.
type Input struct {
	Title         string `json:"title" form:"title"`
	Author        string `json:"author" form:"author"`
	PurchaseURL   string `json:"purchase_url" form:"purchaseUrl"`
	WhyHelpful    string `json:"why_helpful" form:"whyHelpful"`
	CoverImageURL string `json:"cover_image_url" form:"coverImageUrl"`
	CategoryIDs   []uint `json:"category_ids" form:"categoryIds"`
}

// CategoryGroup is one entry of the grouped listing: a category and the
// books shelved under it.
type CategoryGroup struct {
	Category entities.Category `json:"category"`
	Books    []entities.Book   `json:"books"`
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// groupedRow is the flat shape of the books↔categories join.
type groupedRow struct {
	ID            uint
	Title         string
	Author        string
	PurchaseURL   string
	WhyHelpful    string
	CoverImageURL string
	AddedByID     uint
	AddedByName   string
	CreatedAt     string

	CategoryID   uint
	CategoryName string
	CategorySlug string
}

// ListGrouped returns one entry per category that has at least one book,
// ordered by category name then book title. A book shelved under N
// categories appears once under each, carrying its full category list.
//
// The grouping is an explicit two-level insertion-ordered accumulation
// over the sorted join rows, so the result depends only on the query's
// ORDER BY, not on storage row order.
func (r *Repository) ListGrouped() ([]CategoryGroup, error) {
	var rows []groupedRow
	err := r.db.Raw(`
		SELECT
			b.id,
			b.title,
			b.author,
			b.purchase_url,
			b.why_helpful,
			b.cover_image_url,
			b.added_by_id,
			b.added_by_name,
			b.created_at,
			c.id   AS category_id,
			c.name AS category_name,
			c.slug AS category_slug
		FROM books b
		JOIN book_categories bc ON bc.book_id = b.id
		JOIN categories c ON c.id = bc.category_id
		ORDER BY c.name, b.title
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	groups := make([]CategoryGroup, 0)
	groupIndex := make(map[uint]int)          // category id -> index in groups
	bookIndex := make(map[uint]map[uint]int)  // category id -> book id -> index in group
	bookCategories := make(map[uint][]entities.Category)

	for _, row := range rows {
		gi, seen := groupIndex[row.CategoryID]
		if !seen {
			gi = len(groups)
			groupIndex[row.CategoryID] = gi
			bookIndex[row.CategoryID] = make(map[uint]int)
			groups = append(groups, CategoryGroup{
				Category: entities.Category{
					ID:   row.CategoryID,
					Name: row.CategoryName,
					Slug: row.CategorySlug,
				},
				Books: []entities.Book{},
			})
		}

		if _, seen := bookIndex[row.CategoryID][row.ID]; !seen {
			bookIndex[row.CategoryID][row.ID] = len(groups[gi].Books)
			groups[gi].Books = append(groups[gi].Books, entities.Book{
				ID:            row.ID,
				Title:         row.Title,
				Author:        row.Author,
				PurchaseURL:   row.PurchaseURL,
				WhyHelpful:    row.WhyHelpful,
				CoverImageURL: row.CoverImageURL,
				AddedByID:     row.AddedByID,
				AddedByName:   row.AddedByName,
			})
		}

		bookCategories[row.ID] = append(bookCategories[row.ID], entities.Category{
			ID:   row.CategoryID,
			Name: row.CategoryName,
			Slug: row.CategorySlug,
		})
	}

	// Second pass: give every book copy its full category list, which is
	// only complete once all rows have been seen.
	for gi := range groups {
		for bi := range groups[gi].Books {
			groups[gi].Books[bi].Categories = bookCategories[groups[gi].Books[bi].ID]
		}
	}

	return groups, nil
}

// GetByID retrieves a book with its categories, or nil if absent.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Categories", func(db *gorm.DB) *gorm.DB {
		return db.Order("categories.name")
	}).First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Create persists a new book for the actor, with one association row per
// distinct submitted category id. Duplicate ids in the input are
// ignored; unknown ids fail validation.
func (r *Repository) Create(actor *entities.Actor, in Input) (*entities.Book, error) {
	if err := auth.RequireSignIn(actor); err != nil {
		return nil, err
	}
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	book := &entities.Book{
		Title:         in.Title,
		Author:        in.Author,
		PurchaseURL:   in.PurchaseURL,
		WhyHelpful:    in.WhyHelpful,
		CoverImageURL: in.CoverImageURL,
		AddedByID:     actor.ID,
		AddedByName:   addedByName(actor),
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		cats, err := loadCategories(tx, in.CategoryIDs)
		if err != nil {
			return err
		}
		if err := tx.Create(book).Error; err != nil {
			return fmt.Errorf("failed to create book: %w", err)
		}
		if err := tx.Model(book).Association("Categories").Append(&cats); err != nil {
			return fmt.Errorf("failed to attach categories: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(book.ID)
}

// Update rewrites a book's fields and replaces its full category set.
// Only the creator or an admin may update. The replace runs inside one
// transaction so no observer sees the book without categories.
func (r *Repository) Update(id uint, actor *entities.Actor, in Input) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("book")
		}
		return nil, err
	}

	if err := auth.RequireBookOwnership(actor, &book); err != nil {
		return nil, err
	}
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		cats, err := loadCategories(tx, in.CategoryIDs)
		if err != nil {
			return err
		}
		updates := map[string]any{
			"title":           in.Title,
			"author":          in.Author,
			"purchase_url":    in.PurchaseURL,
			"why_helpful":     in.WhyHelpful,
			"cover_image_url": in.CoverImageURL,
		}
		if err := tx.Model(&book).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update book: %w", err)
		}
		// Full replace, not a diff: old rows out, new rows in
		if err := tx.Model(&book).Association("Categories").Replace(&cats); err != nil {
			return fmt.Errorf("failed to replace categories: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// Delete removes a book and, with it, its association rows. Categories
// themselves are untouched. Only the creator or an admin may delete.
func (r *Repository) Delete(id uint, actor *entities.Actor) error {
	var book entities.Book
	if err := r.db.First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("book")
		}
		return err
	}

	if err := auth.RequireBookOwnership(actor, &book); err != nil {
		return err
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&book).Association("Categories").Clear(); err != nil {
			return fmt.Errorf("failed to clear categories: %w", err)
		}
		if err := tx.Delete(&book).Error; err != nil {
			return fmt.Errorf("failed to delete book: %w", err)
		}
		return nil
	})
}

// SetCoverImageIfEmpty fills the cover URL only when the book still has
// none, so a background suggestion never overwrites user-entered data.
// Returns true when the cover was applied.
func (r *Repository) SetCoverImageIfEmpty(id uint, coverURL string) (bool, error) {
	result := r.db.Model(&entities.Book{}).
		Where("id = ? AND (cover_image_url = '' OR cover_image_url IS NULL)", id).
		Update("cover_image_url", coverURL)
	if result.Error != nil {
		return false, fmt.Errorf("failed to set cover image: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// CoverImageURLs returns every non-empty cover URL currently referenced
// by a book. Used by the orphaned upload sweep.
func (r *Repository) CoverImageURLs() ([]string, error) {
	var urls []string
	err := r.db.Model(&entities.Book{}).
		Where("cover_image_url <> ''").
		Pluck("cover_image_url", &urls).Error
	return urls, err
}

func validateInput(in *Input) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.PurchaseURL = strings.TrimSpace(in.PurchaseURL)

	if in.Title == "" {
		return apperr.Validation("Book title is required.")
	}
	if len(in.Title) > 200 {
		return apperr.Validation("Book title must be 200 characters or less.")
	}
	if in.Author == "" {
		return apperr.Validation("Author name is required.")
	}
	if len(in.Author) > 200 {
		return apperr.Validation("Author name must be 200 characters or less.")
	}
	if in.PurchaseURL != "" {
		u, err := url.Parse(in.PurchaseURL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return apperr.Validation("Please enter a valid URL (e.g. https://...).")
		}
	}
	if len(in.WhyHelpful) > 100 {
		return apperr.Validation("Please keep this to 100 characters or less.")
	}
	if len(in.CategoryIDs) == 0 {
		return apperr.Validation("Please select at least one category.")
	}

	in.CategoryIDs = dedupe(in.CategoryIDs)
	return nil
}

// dedupe drops repeated category ids, keeping first-seen order.
func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// loadCategories resolves the submitted ids, failing with a validation
// error naming the first id that does not exist.
func loadCategories(tx *gorm.DB, ids []uint) ([]entities.Category, error) {
	var cats []entities.Category
	if err := tx.Where("id IN ?", ids).Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	if len(cats) != len(ids) {
		found := make(map[uint]bool, len(cats))
		for _, c := range cats {
			found[c.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				return nil, apperr.Validation("Category %d does not exist.", id)
			}
		}
	}
	return cats, nil
}

func addedByName(actor *entities.Actor) string {
	if actor.Name == "" {
		return "A group member"
	}
	return actor.Name
}
