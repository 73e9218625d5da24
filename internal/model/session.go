package model

import "time"

// Session is a durable session record, used when the database-backed session
// store is selected. The token is the opaque value held by the client.
type Session struct {
	Token     string    `json:"-" gorm:"primaryKey;size:64"`
	UserID    uint      `json:"-" gorm:"not null;index"`
	CreatedAt time.Time `json:"-"`
	ExpiresAt time.Time `json:"-" gorm:"not null;index"`
}
