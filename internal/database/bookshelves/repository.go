// Package bookshelves provides database operations for user bookshelves
// and the books placed on them.
package bookshelves

import (
	"errors"

	"gorm.io/gorm"

	"github.com/libraryhub/libraryhub/internal/entities"
)

var (
	// ErrNotFound is returned when the shelf does not exist or belongs to another user.
	ErrNotFound = errors.New("bookshelf not found")

	// ErrBookNotFound is returned when the book is not on the shelf.
	ErrBookNotFound = errors.New("book not found on bookshelf")
)

// Repository handles all bookshelf database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new bookshelves repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new bookshelf.
func (r *Repository) Create(shelf *entities.Bookshelf) error {
	return r.db.Create(shelf).Error
}

// GetForUser retrieves a shelf by ID scoped to its owner, including its books.
func (r *Repository) GetForUser(id, userID uint) (*entities.Bookshelf, error) {
	var shelf entities.Bookshelf
	err := r.db.Preload("Books", func(db *gorm.DB) *gorm.DB {
		return db.Order("added_at ASC")
	}).Where("id = ? AND user_id = ?", id, userID).First(&shelf).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &shelf, nil
}

// ListForUser returns all shelves owned by the user.
func (r *Repository) ListForUser(userID uint) ([]entities.Bookshelf, error) {
	var shelves []entities.Bookshelf
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&shelves).Error
	return shelves, err
}

// NameTaken reports whether the user already has a shelf with the name.
func (r *Repository) NameTaken(userID uint, name string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Bookshelf{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error
	return count > 0, err
}

// Save updates an existing shelf.
func (r *Repository) Save(shelf *entities.Bookshelf) error {
	return r.db.Save(shelf).Error
}

// Delete removes a shelf owned by the user; its books cascade.
func (r *Repository) Delete(id, userID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&entities.Bookshelf{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddBook places a work on a shelf.
func (r *Repository) AddBook(shelfBook *entities.ShelfBook) error {
	return r.db.Create(shelfBook).Error
}

// HasBook reports whether the work is already on the shelf.
func (r *Repository) HasBook(shelfID uint, workOLID string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.ShelfBook{}).
		Where("bookshelf_id = ? AND work_olid = ?", shelfID, workOLID).
		Count(&count).Error
	return count > 0, err
}

// RemoveBook deletes a shelf-book row by its ID scoped to the shelf.
func (r *Repository) RemoveBook(shelfID, shelfBookID uint) error {
	result := r.db.Where("id = ? AND bookshelf_id = ?", shelfBookID, shelfID).
		Delete(&entities.ShelfBook{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}
