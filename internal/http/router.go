// Package http assembles the gin router: middleware chain, JSON API
// endpoints, and static serving of uploaded covers.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/bookshelfapp/bookshelf/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by
	// CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	// Route protection runs on session claims only, before any handler
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	// Serve uploaded cover images
	if cfg.UploadsDir != "" {
		router.Static("/uploads", cfg.UploadsDir)
	}

	// Account routes
	if cfg.AuthService != nil {
		authController := auth.NewController(cfg.AuthService, cfg.SessionManager)
		authController.RegisterRoutes(router)
	}

	health := NewHealthController(cfg.Pinger, cfg.Version)
	booksController := NewBooksController(cfg.BookStore, cfg.TaskClient)
	categoriesController := NewCategoriesController(cfg.CategoryStore)
	usersController := NewUsersController(cfg.UserStore)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Bookshelf endpoints
	router.GET("/api/books", booksController.ListBooks)
	router.GET("/api/books/:id", booksController.GetBook)
	router.POST("/api/books", booksController.CreateBook)
	router.PUT("/api/books/:id", booksController.UpdateBook)
	router.DELETE("/api/books/:id", booksController.DeleteBook)

	// Category taxonomy: listing is public, mutations are admin-only
	router.GET("/api/categories", categoriesController.ListCategories)
	router.POST("/api/admin/categories", categoriesController.CreateCategory)
	router.PUT("/api/admin/categories/:id", categoriesController.UpdateCategory)
	router.DELETE("/api/admin/categories/:id", categoriesController.DeleteCategory)

	// Member roster (admin-only)
	router.GET("/api/admin/users", usersController.ListUsers)
	router.PUT("/api/admin/users/:id/admin", usersController.SetAdmin)

	// Cover image uploads
	if cfg.UploadStore != nil {
		uploadsController := NewUploadsController(cfg.UploadStore)
		router.POST("/api/uploads", uploadsController.Upload)
	}

	// Metadata suggestion for the book form
	if cfg.Suggester != nil {
		metadataController := NewMetadataController(cfg.Suggester)
		router.GET("/api/metadata/suggest", metadataController.Suggest)
	}

	return router
}
