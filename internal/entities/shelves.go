package entities

import "time"

// Bookshelf is a user-owned named grouping of works. Names are unique per user.
type Bookshelf struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"index;uniqueIndex:uq_shelf_user_name" json:"user_id"`
	Name        string `gorm:"size:255;uniqueIndex:uq_shelf_user_name" json:"name"`
	Description string `gorm:"size:255" json:"description,omitempty"`

	User  User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Books []ShelfBook `gorm:"foreignKey:BookshelfID;constraint:OnDelete:CASCADE" json:"books,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// ShelfBook is a work placed on a bookshelf. A work appears on a shelf at most once.
type ShelfBook struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	BookshelfID uint   `gorm:"index;uniqueIndex:uq_shelf_work" json:"bookshelf_id"`
	WorkOLID    string `gorm:"column:work_olid;size:50;uniqueIndex:uq_shelf_work" json:"work_olid"`

	AddedAt time.Time `gorm:"autoCreateTime" json:"added_at"`
}
