// Package books provides database operations for the locally cached
// OpenLibrary book metadata.
package books

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/libraryhub/libraryhub/internal/entities"
)

// ErrNotFound is returned when no cached book matches the lookup.
var ErrNotFound = errors.New("book not found")

// Repository handles all cached-book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByWorkOLID retrieves a cached book by its OpenLibrary work ID.
func (r *Repository) GetByWorkOLID(olid string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("work_olid = ?", olid).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetByID retrieves a cached book by primary key.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Create persists a new cached book.
func (r *Repository) Create(book *entities.Book) error {
	return r.db.Create(book).Error
}

// Save updates an existing cached book.
func (r *Repository) Save(book *entities.Book) error {
	return r.db.Save(book).Error
}

// GetByWorkOLIDs returns the cached books for the given work IDs keyed by OLID.
// Missing works are simply absent from the map.
func (r *Repository) GetByWorkOLIDs(olids []string) (map[string]entities.Book, error) {
	result := make(map[string]entities.Book, len(olids))
	if len(olids) == 0 {
		return result, nil
	}

	var books []entities.Book
	if err := r.db.Where("work_olid IN ?", olids).Find(&books).Error; err != nil {
		return nil, err
	}
	for _, b := range books {
		result[b.WorkOLID] = b
	}
	return result, nil
}

// ListStale returns books whose metadata has not been refreshed within ttl.
func (r *Repository) ListStale(ttl time.Duration, limit int) ([]entities.Book, error) {
	var books []entities.Book
	cutoff := time.Now().Add(-ttl)
	query := r.db.Where("refreshed_at < ?", cutoff).Order("refreshed_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&books).Error
	return books, err
}
