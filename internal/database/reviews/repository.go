// Package reviews provides database operations for book reviews.
package reviews

import (
	"errors"

	"gorm.io/gorm"

	"github.com/libraryhub/libraryhub/internal/entities"
)

// ErrNotFound is returned when no review matches the lookup.
var ErrNotFound = errors.New("review not found")

// Repository handles all review database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reviews repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new review.
func (r *Repository) Create(review *entities.Review) error {
	return r.db.Create(review).Error
}

// GetByID retrieves a review by ID.
func (r *Repository) GetByID(id uint) (*entities.Review, error) {
	var review entities.Review
	err := r.db.First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// GetByUserAndWork retrieves a user's review of a work, if any.
func (r *Repository) GetByUserAndWork(userID uint, workOLID string) (*entities.Review, error) {
	var review entities.Review
	err := r.db.Where("user_id = ? AND work_olid = ?", userID, workOLID).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListByWork returns all reviews for a work, newest first, plus the average rating.
// The average is 0 when there are no reviews.
func (r *Repository) ListByWork(workOLID string) ([]entities.Review, float64, error) {
	var reviews []entities.Review
	err := r.db.Where("work_olid = ?", workOLID).Order("created_at DESC").Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	if len(reviews) == 0 {
		return reviews, 0, nil
	}

	var avg float64
	err = r.db.Model(&entities.Review{}).
		Where("work_olid = ?", workOLID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, avg, nil
}

// Save updates an existing review.
func (r *Repository) Save(review *entities.Review) error {
	return r.db.Save(review).Error
}

// Delete removes a review by ID.
func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.Review{}, id).Error
}
