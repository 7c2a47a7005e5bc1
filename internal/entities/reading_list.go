package entities

import "time"

type ReadingStatus string

const (
	ReadingStatusPlanned   ReadingStatus = "planned"
	ReadingStatusReading   ReadingStatus = "reading"
	ReadingStatusCompleted ReadingStatus = "completed"
	ReadingStatusDropped   ReadingStatus = "dropped"
)

// ValidReadingStatus reports whether s is one of the known reading statuses.
func ValidReadingStatus(s ReadingStatus) bool {
	switch s {
	case ReadingStatusPlanned, ReadingStatusReading, ReadingStatusCompleted, ReadingStatusDropped:
		return true
	}
	return false
}

// ReadingListEntry tracks a work on a user's personal reading list.
// One entry per user and work.
type ReadingListEntry struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	UserID          uint          `gorm:"index;uniqueIndex:uq_reading_user_work" json:"user_id"`
	WorkOLID        string        `gorm:"column:work_olid;size:50;index;uniqueIndex:uq_reading_user_work" json:"work_olid"`
	Status          ReadingStatus `gorm:"size:20;default:'planned'" json:"status"`
	ProgressPercent int           `gorm:"default:0" json:"progress_percent"`
	Rating          *int          `json:"rating,omitempty"`
	StartedAt       *time.Time    `json:"started_at,omitempty"`
	FinishedAt      *time.Time    `json:"finished_at,omitempty"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
