package http

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/bookshelfapp/bookshelf/internal/database/books"
	"github.com/bookshelfapp/bookshelf/internal/tasks"
)

// BooksController serves the shared bookshelf: the grouped listing and
// the member-owned create, update, and delete operations.
type BooksController struct {
	store      BookStore
	taskClient *tasks.Client
}

func NewBooksController(store BookStore, taskClient *tasks.Client) *BooksController {
	return &BooksController{
		store:      store,
		taskClient: taskClient,
	}
}

// ListBooks returns books grouped by category, categories ordered by
// name and books by title.
func (controller *BooksController) ListBooks(c *gin.Context) {
	groups, err := controller.store.ListGrouped()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	respondSuccess(c, gin.H{"groups": groups})
}

// GetBook returns a single book with its full category list.
func (controller *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.store.GetByID(id)
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	if book == nil {
		respondNotFound(c, "book")
		return
	}
	respondSuccess(c, book)
}

// CreateBook adds a book for the signed-in member.
func (controller *BooksController) CreateBook(c *gin.Context) {
	var in books.Input
	if err := c.ShouldBind(&in); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := controller.store.Create(currentActor(c), in)
	if err != nil {
		respondAppError(c, err, "create book")
		return
	}

	controller.maybeSuggestCover(book.ID, book.PurchaseURL, book.CoverImageURL)
	respondCreated(c, book)
}

// UpdateBook rewrites a book's fields and category set.
func (controller *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var in books.Input
	if err := c.ShouldBind(&in); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := controller.store.Update(id, currentActor(c), in)
	if err != nil {
		respondAppError(c, err, "update book")
		return
	}

	controller.maybeSuggestCover(book.ID, book.PurchaseURL, book.CoverImageURL)
	respondSuccess(c, book)
}

// DeleteBook removes a book.
func (controller *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := controller.store.Delete(id, currentActor(c)); err != nil {
		respondAppError(c, err, "delete book")
		return
	}
	respondSuccess(c, nil)
}

// maybeSuggestCover enqueues a background cover lookup when the saved
// book has a purchase link but no cover yet. Fire and forget: a queue
// failure never fails the save.
func (controller *BooksController) maybeSuggestCover(bookID uint, purchaseURL, coverURL string) {
	if controller.taskClient == nil || purchaseURL == "" || coverURL != "" {
		return
	}
	task := tasks.SuggestCoverTask{BookID: bookID, PurchaseURL: purchaseURL}
	if _, err := controller.taskClient.Add(task).Save(); err != nil {
		log.Printf("Failed to enqueue cover suggestion for book %d: %v", bookID, err)
	}
}
