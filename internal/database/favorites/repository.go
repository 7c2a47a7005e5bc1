// Package favorites provides database operations for favorite books.
//
// This package implements the FavoritesStore interface defined in
// internal/http/favorites.go.
//
// # Interface Implementation
//
//	var _ http.FavoritesStore = (*Repository)(nil)
package favorites

import (
	"errors"

	"gorm.io/gorm"

	"github.com/libraryhub/libraryhub/internal/entities"
)

// ErrNotFound is returned when the work is not among the user's favorites.
var ErrNotFound = errors.New("favorite not found")

// Repository handles all favorites database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new favorites repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new favorite.
func (r *Repository) Create(favorite *entities.Favorite) error {
	return r.db.Create(favorite).Error
}

// Exists reports whether the user already favorited the work.
func (r *Repository) Exists(userID uint, workOLID string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Favorite{}).
		Where("user_id = ? AND work_olid = ?", userID, workOLID).
		Count(&count).Error
	return count > 0, err
}

// List returns a page of the user's favorites, newest first, with the total count.
func (r *Repository) List(userID uint, limit, offset int) ([]entities.Favorite, int64, error) {
	var total int64
	err := r.db.Model(&entities.Favorite{}).Where("user_id = ?", userID).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var favorites []entities.Favorite
	query := r.db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err = query.Find(&favorites).Error
	return favorites, total, err
}

// Delete removes the user's favorite for the work.
// Returns ErrNotFound when the work was not favorited.
func (r *Repository) Delete(userID uint, workOLID string) error {
	result := r.db.Where("user_id = ? AND work_olid = ?", userID, workOLID).
		Delete(&entities.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
