package model

import "time"

// Report statuses. Any of the three may be set by an admin from any prior
// state; closed reports stay patchable.
const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
	StatusClosed   = "closed"
)

// ValidStatus reports whether status is one of the known report statuses.
func ValidStatus(status string) bool {
	return status == StatusPending || status == StatusReviewed || status == StatusClosed
}

// Report represents a submitted crime incident report.
type Report struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Category    string    `json:"category" gorm:"size:100;not null;index"`
	Location    string    `json:"location" gorm:"size:255;not null"`
	Status      string    `json:"status" gorm:"size:50;default:'pending';index"`
	ReporterID  uint      `json:"reporter_id" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
