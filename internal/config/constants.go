package config

const (
	// DefaultDatabasePath is where the SQLite database lives unless
	// DATABASE_PATH overrides it.
	DefaultDatabasePath = "./bookshelf.db"

	// DefaultUploadMaxBytes caps uploaded cover images at 5 MB.
	DefaultUploadMaxBytes = int64(5 * 1024 * 1024)
)
