// Package tokens provides database operations for issued refresh tokens.
// Only token hashes are persisted.
package tokens

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/libraryhub/libraryhub/internal/entities"
)

// ErrNotFound is returned when no refresh token matches the hash.
var ErrNotFound = errors.New("refresh token not found")

// Repository handles all refresh-token database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new refresh-token repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a newly issued refresh token.
func (r *Repository) Create(token *entities.RefreshToken) error {
	return r.db.Create(token).Error
}

// GetByHash retrieves a refresh token by its SHA-256 hash.
func (r *Repository) GetByHash(hash string) (*entities.RefreshToken, error) {
	var token entities.RefreshToken
	err := r.db.Where("token_hash = ?", hash).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Revoke marks a token as revoked. Revoking an already revoked token is a no-op.
func (r *Repository) Revoke(id uint) error {
	now := time.Now()
	return r.db.Model(&entities.RefreshToken{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", now).Error
}

// RevokeAllForUser revokes every live token of a user, e.g. on account deactivation.
func (r *Repository) RevokeAllForUser(userID uint) error {
	now := time.Now()
	return r.db.Model(&entities.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now).Error
}

// DeleteExpired removes tokens past their expiry and returns how many rows
// were purged. Revoked tokens stay until expiry so presenting one still hits
// the revocation check instead of looking like a random invalid token.
func (r *Repository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at < ?", now).
		Delete(&entities.RefreshToken{})
	return result.RowsAffected, result.Error
}
