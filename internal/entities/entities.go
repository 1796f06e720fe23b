package entities

import (
	"time"
)

// User is a registered member. Users are never deleted; losing access is
// handled by the admin flag, not by removing rows that books reference.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string    `gorm:"size:100" json:"-"`
	IsAdmin      bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Category is a topical shelf in the taxonomy. Name and slug are both
// unique; the slug is URL-safe and derived from the name when not given.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100" json:"name"`
	Slug      string    `gorm:"uniqueIndex;size:100" json:"slug"`
	Books     []Book    `gorm:"many2many:book_categories;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Book is a member's recommendation. AddedByName is a snapshot of the
// creator's display name at creation time and is not updated if the
// creator later renames.
type Book struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"index;size:200" json:"title"`
	Author        string     `gorm:"size:200" json:"author"`
	PurchaseURL   string     `gorm:"size:2048" json:"purchase_url,omitempty"`
	WhyHelpful    string     `gorm:"size:100" json:"why_helpful,omitempty"`
	CoverImageURL string     `gorm:"size:2048" json:"cover_image_url,omitempty"`
	AddedByID     uint       `gorm:"index" json:"added_by_id"`
	AddedByName   string     `gorm:"size:100" json:"added_by_name"`
	AddedBy       User       `gorm:"foreignKey:AddedByID" json:"-"`
	Categories    []Category `gorm:"many2many:book_categories;" json:"categories,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (Category) TableName() string {
	return "categories"
}

func (Book) TableName() string {
	return "books"
}

// CategoryIDs returns the ids of the book's loaded categories.
func (b *Book) CategoryIDs() []uint {
	ids := make([]uint, 0, len(b.Categories))
	for _, c := range b.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// Actor identifies the signed-in user an operation runs on behalf of.
// It is passed explicitly into every repository call (nil = anonymous)
// so authorization stays testable without a full request simulation.
type Actor struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}
