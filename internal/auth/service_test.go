package auth

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bookshelfapp/bookshelf/internal/apperr"
	"github.com/bookshelfapp/bookshelf/internal/config"
	"github.com/bookshelfapp/bookshelf/internal/entities"
)

func setupTestService(t *testing.T) (*Service, func()) {
	dbPath := "./test_auth_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{})
	require.NoError(t, err)

	service := NewService(db, config.Auth{BcryptCost: bcrypt.MinCost})

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return service, cleanup
}

func TestService_Register(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	user, err := service.Register("Alice", "Alice@Example.COM", "password123", "password123")

	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email, "email should be normalized")
	assert.False(t, user.IsAdmin, "new accounts are never admins")
	assert.NotEqual(t, "password123", user.PasswordHash)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Register("Alice", "alice@example.com", "password123", "password123")
	require.NoError(t, err)

	// Same address in different case
	_, err = service.Register("Other Alice", "ALICE@example.com", "password456", "password456")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindDuplicate))
	assert.Equal(t, "An account with that email already exists.", apperr.As(err).Message)
}

func TestService_Register_Validation(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	tests := []struct {
		name              string
		userName, email   string
		password, confirm string
	}{
		{"empty name", "", "a@example.com", "password123", "password123"},
		{"bad email", "Alice", "not-an-email", "password123", "password123"},
		{"short password", "Alice", "a@example.com", "short", "short"},
		{"mismatched confirmation", "Alice", "a@example.com", "password123", "password124"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(tt.userName, tt.email, tt.password, tt.confirm)
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Register("Alice", "alice@example.com", "password123", "password123")
	require.NoError(t, err)

	user, err := service.Authenticate("alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)

	// Case-insensitive email on sign-in too
	_, err = service.Authenticate("ALICE@example.com", "password123")
	assert.NoError(t, err)
}

func TestService_Authenticate_Failures(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Register("Alice", "alice@example.com", "password123", "password123")
	require.NoError(t, err)

	// Wrong password and unknown email produce the same error
	_, err = service.Authenticate("alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Authenticate("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
