// Package users provides the member roster operations exposed to
// administrators: listing accounts and toggling admin privileges.
package users

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bookshelfapp/bookshelf/internal/apperr"
	"github.com/bookshelfapp/bookshelf/internal/auth"
	"github.com/bookshelfapp/bookshelf/internal/entities"
)

// Repository handles user roster database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every account ordered by signup date, oldest first.
// Admin only.
func (r *Repository) List(actor *entities.Actor) ([]entities.User, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	var users []entities.User
	if err := r.db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetByID retrieves a user, or nil if absent.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetAdmin grants or revokes a user's admin flag. An admin cannot
// revoke their own flag: that path must go through another admin, so
// the group can never lock itself out by accident.
func (r *Repository) SetAdmin(actor *entities.Actor, userID uint, isAdmin bool) (*entities.User, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if !isAdmin && actor.ID == userID {
		return nil, apperr.Forbidden("You cannot remove your own admin status.")
	}

	var user entities.User
	if err := r.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, err
	}

	if err := r.db.Model(&user).Update("is_admin", isAdmin).Error; err != nil {
		return nil, fmt.Errorf("failed to update admin flag: %w", err)
	}
	user.IsAdmin = isAdmin
	return &user, nil
}
