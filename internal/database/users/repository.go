// Package users provides database operations for user management.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetByEmail("reader@example.com")
package users

import (
	"errors"

	"gorm.io/gorm"

	"github.com/libraryhub/libraryhub/internal/entities"
)

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new user.
func (r *Repository) Create(user *entities.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email.
func (r *Repository) GetByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetActiveByEmail retrieves an active user by email. Deactivated accounts
// are treated as missing.
func (r *Repository) GetActiveByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("email = ? AND is_active = ?", email, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users ordered by ID.
func (r *Repository) List() ([]entities.User, error) {
	var users []entities.User
	err := r.db.Order("id ASC").Find(&users).Error
	return users, err
}

// Updates applies the given column updates to a user.
func (r *Repository) Updates(user *entities.User, updates map[string]any) error {
	return r.db.Model(user).Updates(updates).Error
}

// Delete removes a user. Associated reviews, favorites, bookshelves,
// reading-list entries and refresh tokens cascade at the database level.
func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.User{}, id).Error
}

// ExistsByEmail reports whether a user with the email is already registered.
func (r *Repository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}
