package entities

import (
	"encoding/json"
	"strings"
	"time"
)

// Book is a locally cached copy of an OpenLibrary work. Rows are created
// lazily the first time a work is favorited or shelved and refreshed in the
// background once they grow stale.
type Book struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	WorkOLID      string    `gorm:"column:work_olid;uniqueIndex;size:50" json:"work_olid"`
	Title         string    `gorm:"size:512" json:"title"`
	Authors       string    `gorm:"size:512" json:"-"` // comma-joined
	CoverURL      string    `gorm:"size:2048" json:"cover_url,omitempty"`
	PublishedYear int       `json:"published_year,omitempty"`
	RefreshedAt   time.Time `json:"-"` // last successful metadata fetch
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AuthorList splits the stored comma-joined author string.
func (b *Book) AuthorList() []string {
	if b == nil || b.Authors == "" {
		return nil
	}
	parts := strings.Split(b.Authors, ",")
	authors := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}

// MarshalJSON serializes the comma-joined authors column as a list.
func (b Book) MarshalJSON() ([]byte, error) {
	type book Book
	return json.Marshal(struct {
		book
		Authors []string `json:"authors,omitempty"`
	}{
		book:    book(b),
		Authors: b.AuthorList(),
	})
}

// Review is a user's rating and optional comment on a work.
// One review per user and work.
type Review struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	UserID   uint    `gorm:"index;uniqueIndex:uq_review_user_work" json:"user_id"`
	WorkOLID string  `gorm:"column:work_olid;size:50;index;uniqueIndex:uq_review_user_work" json:"work_olid"`
	Rating   float64 `json:"rating"`
	Comment  string  `gorm:"type:text" json:"comment,omitempty"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Favorite marks a work as a favorite of a user. Unique per user and work.
type Favorite struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"index;uniqueIndex:uq_favorite_user_work" json:"user_id"`
	WorkOLID string `gorm:"column:work_olid;size:50;index;uniqueIndex:uq_favorite_user_work" json:"work_olid"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
