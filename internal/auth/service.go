package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/bookshelfapp/bookshelf/internal/apperr"
	"github.com/bookshelfapp/bookshelf/internal/config"
	"github.com/bookshelfapp/bookshelf/internal/entities"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ErrInvalidCredentials is the single sign-in failure. It deliberately
// does not say whether the email or the password was wrong.
var ErrInvalidCredentials = apperr.AuthRequired("Incorrect email or password.")

// Service handles registration and credential verification.
type Service struct {
	db     *gorm.DB
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(db *gorm.DB, cfg config.Auth) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// NormalizeEmail lower-cases and trims an email the way every write path
// must before touching the users table.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new member account. The admin flag is never set
// here; the first administrator is granted from the CLI.
func (s *Service) Register(name, email, password, confirmPassword string) (*entities.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Name is required.")
	}
	if len(name) > 100 {
		return nil, apperr.Validation("Name must be 100 characters or less.")
	}

	email = NormalizeEmail(email)
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, apperr.Validation("Please enter a valid email address.")
	}

	if len(password) < MinPasswordLength {
		return nil, apperr.Validation("Password must be at least %d characters.", MinPasswordLength)
	}
	if len(password) > 72 {
		return nil, apperr.Validation("Password is too long.")
	}
	if password != confirmPassword {
		return nil, apperr.Validation("Passwords do not match.")
	}

	// Check for an existing account
	var existing entities.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, apperr.Duplicate("An account with that email already exists.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}

	if err := s.db.Create(user).Error; err != nil {
		// Lost a race against a concurrent registration for the same email
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Duplicate("An account with that email already exists.")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate validates credentials and returns the user. Any failure
// surfaces as ErrInvalidCredentials.
func (s *Service) Authenticate(email, password string) (*entities.User, error) {
	var user entities.User
	err := s.db.Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	err := s.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, err
	}
	return &user, nil
}
