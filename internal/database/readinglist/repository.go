// Package readinglist provides database operations for users' personal
// reading lists.
package readinglist

import (
	"errors"

	"gorm.io/gorm"

	"github.com/libraryhub/libraryhub/internal/entities"
)

// ErrNotFound is returned when no reading-list entry matches the lookup.
var ErrNotFound = errors.New("reading list entry not found")

// Repository handles all reading-list database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reading-list repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new reading-list entry.
func (r *Repository) Create(entry *entities.ReadingListEntry) error {
	return r.db.Create(entry).Error
}

// GetForUser retrieves an entry by ID scoped to its owner.
func (r *Repository) GetForUser(id, userID uint) (*entities.ReadingListEntry, error) {
	var entry entities.ReadingListEntry
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Exists reports whether the user already tracks the work.
func (r *Repository) Exists(userID uint, workOLID string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.ReadingListEntry{}).
		Where("user_id = ? AND work_olid = ?", userID, workOLID).
		Count(&count).Error
	return count > 0, err
}

// List returns a page of the user's entries with an optional status filter,
// newest first, along with the total count for the filter.
func (r *Repository) List(userID uint, status entities.ReadingStatus, limit, offset int) ([]entities.ReadingListEntry, int64, error) {
	base := r.db.Model(&entities.ReadingListEntry{}).Where("user_id = ?", userID)
	if status != "" {
		base = base.Where("status = ?", status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []entities.ReadingListEntry
	query := r.db.Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&entries).Error
	return entries, total, err
}

// Save updates an existing entry.
func (r *Repository) Save(entry *entities.ReadingListEntry) error {
	return r.db.Save(entry).Error
}

// Delete removes an entry owned by the user.
func (r *Repository) Delete(id, userID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&entities.ReadingListEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
