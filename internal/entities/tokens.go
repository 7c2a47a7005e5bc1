package entities

import "time"

// RefreshToken records an issued refresh token so it can be rotated or
// revoked. Only the SHA-256 hash of the token is stored.
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index" json:"user_id"`
	TokenHash string     `gorm:"uniqueIndex;size:64" json:"-"`
	ExpiresAt time.Time  `gorm:"index" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the token is past its expiry at the given time.
func (t *RefreshToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// Revoked reports whether the token has been explicitly revoked.
func (t *RefreshToken) Revoked() bool {
	return t.RevokedAt != nil
}
