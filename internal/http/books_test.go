package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookshelfapp/bookshelf/internal/auth"
	"github.com/bookshelfapp/bookshelf/internal/database"
	"github.com/bookshelfapp/bookshelf/internal/database/books"
	"github.com/bookshelfapp/bookshelf/internal/database/categories"
	"github.com/bookshelfapp/bookshelf/internal/entities"
)

func setupBooksTestDB(t *testing.T) (*database.Database, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_books_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

// asActor injects a session actor the way the auth middleware would.
func asActor(actor *entities.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor != nil {
			c.Set(auth.ContextKeyActor, actor)
		}
		c.Next()
	}
}

func seedTestUser(t *testing.T, db *database.Database, name string, isAdmin bool) *entities.Actor {
	t.Helper()
	user := entities.User{Name: name, Email: strings.ToLower(name) + "@example.com", PasswordHash: "x", IsAdmin: isAdmin}
	require.NoError(t, db.DB.Create(&user).Error)
	return &entities.Actor{ID: user.ID, Name: user.Name, IsAdmin: user.IsAdmin}
}

func TestBooksController_CreateBook(t *testing.T) {
	db, cleanup := setupBooksTestDB(t)
	defer cleanup()

	actor := seedTestUser(t, db, "Alice", false)
	cat, err := categories.NewRepository(db.DB).Create(&entities.Actor{ID: 99, IsAdmin: true}, "Fiction", "")
	require.NoError(t, err)

	controller := NewBooksController(books.NewRepository(db.DB), nil)
	router := gin.New()
	router.Use(asActor(actor))
	router.POST("/api/books", controller.CreateBook)

	body := bytes.NewBufferString(`{
		"title": "Moby Dick",
		"author": "Herman Melville",
		"category_ids": [` + jsonID(cat.ID) + `]
	}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/books", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool          `json:"success"`
		Data    entities.Book `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Moby Dick", resp.Data.Title)
	assert.Equal(t, "Alice", resp.Data.AddedByName)
}

func TestBooksController_CreateBook_AnonymousRejected(t *testing.T) {
	db, cleanup := setupBooksTestDB(t)
	defer cleanup()

	controller := NewBooksController(books.NewRepository(db.DB), nil)
	router := gin.New()
	router.Use(asActor(nil))
	router.POST("/api/books", controller.CreateBook)

	body := bytes.NewBufferString(`{"title": "X", "author": "Y", "category_ids": [1]}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/books", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "You must be signed in.", resp.Error)
}

func TestBooksController_CreateBook_ValidationError(t *testing.T) {
	db, cleanup := setupBooksTestDB(t)
	defer cleanup()

	actor := seedTestUser(t, db, "Alice", false)

	controller := NewBooksController(books.NewRepository(db.DB), nil)
	router := gin.New()
	router.Use(asActor(actor))
	router.POST("/api/books", controller.CreateBook)

	body := bytes.NewBufferString(`{"title": "", "author": "Y", "category_ids": [1]}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/books", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Book title is required.", resp.Error)
}

func TestBooksController_ListBooks(t *testing.T) {
	db, cleanup := setupBooksTestDB(t)
	defer cleanup()

	actor := seedTestUser(t, db, "Alice", false)
	cat, err := categories.NewRepository(db.DB).Create(&entities.Actor{ID: 99, IsAdmin: true}, "Fiction", "")
	require.NoError(t, err)

	repo := books.NewRepository(db.DB)
	_, err = repo.Create(actor, books.Input{Title: "Moby Dick", Author: "Melville", CategoryIDs: []uint{cat.ID}})
	require.NoError(t, err)

	controller := NewBooksController(repo, nil)
	router := gin.New()
	router.GET("/api/books", controller.ListBooks)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/books", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Groups []books.CategoryGroup `json:"groups"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Groups, 1)
	assert.Equal(t, "Fiction", resp.Data.Groups[0].Category.Name)
	require.Len(t, resp.Data.Groups[0].Books, 1)
}

func TestBooksController_GetBook_NotFound(t *testing.T) {
	db, cleanup := setupBooksTestDB(t)
	defer cleanup()

	controller := NewBooksController(books.NewRepository(db.DB), nil)
	router := gin.New()
	router.GET("/api/books/:id", controller.GetBook)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/books/42", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBooksController_DeleteBook_NonOwnerForbidden(t *testing.T) {
	db, cleanup := setupBooksTestDB(t)
	defer cleanup()

	owner := seedTestUser(t, db, "Alice", false)
	other := seedTestUser(t, db, "Bob", false)
	cat, err := categories.NewRepository(db.DB).Create(&entities.Actor{ID: 99, IsAdmin: true}, "Fiction", "")
	require.NoError(t, err)

	repo := books.NewRepository(db.DB)
	book, err := repo.Create(owner, books.Input{Title: "Moby Dick", Author: "Melville", CategoryIDs: []uint{cat.ID}})
	require.NoError(t, err)

	controller := NewBooksController(repo, nil)
	router := gin.New()
	router.Use(asActor(other))
	router.DELETE("/api/books/:id", controller.DeleteBook)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/api/books/"+jsonID(book.ID), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "You can only edit books you added.", resp.Error)
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
