package http

import (
	"context"
	"io"

	"github.com/bookshelfapp/bookshelf/internal/database/books"
	"github.com/bookshelfapp/bookshelf/internal/entities"
	"github.com/bookshelfapp/bookshelf/internal/metadata"
)

// BookStore is what the book endpoints need from the books repository.
type BookStore interface {
	ListGrouped() ([]books.CategoryGroup, error)
	GetByID(id uint) (*entities.Book, error)
	Create(actor *entities.Actor, in books.Input) (*entities.Book, error)
	Update(id uint, actor *entities.Actor, in books.Input) (*entities.Book, error)
	Delete(id uint, actor *entities.Actor) error
}

// CategoryStore is what the category endpoints need from the
// categories repository.
type CategoryStore interface {
	List() ([]entities.Category, error)
	Create(actor *entities.Actor, name, slug string) (*entities.Category, error)
	Update(actor *entities.Actor, id uint, name, slug string) (*entities.Category, error)
	Delete(actor *entities.Actor, id uint) error
}

// UserStore is what the admin member endpoints need from the users
// repository.
type UserStore interface {
	List(actor *entities.Actor) ([]entities.User, error)
	SetAdmin(actor *entities.Actor, userID uint, isAdmin bool) (*entities.User, error)
}

// UploadStore persists uploaded cover images.
type UploadStore interface {
	Save(r io.Reader) (string, error)
}

// MetadataSuggester resolves a purchase URL into book metadata.
type MetadataSuggester interface {
	Suggest(ctx context.Context, purchaseURL string) (*metadata.Suggestion, error)
}
