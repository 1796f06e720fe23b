package http

import (
	"github.com/bookshelfapp/bookshelf/internal/auth"
	"github.com/bookshelfapp/bookshelf/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Stores
	BookStore     BookStore
	CategoryStore CategoryStore
	UserStore     UserStore
	UploadStore   UploadStore

	// Authentication
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	CSRFSecret     []byte
	SecureCookies  bool

	// Metadata suggestion (optional)
	Suggester MetadataSuggester

	// Task queue client (optional)
	TaskClient *tasks.Client

	// Serving uploaded files
	UploadsDir string

	// Application info
	Version string

	// Health checking
	Pinger Pinger
}
