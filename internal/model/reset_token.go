package model

import "time"

// PasswordResetToken records an issued reset grant. Only the token ID (JWT
// jti) is stored, never the signed token itself. UsedAt marks consumption;
// a consumed token must never validate again.
type PasswordResetToken struct {
	ID        uint       `gorm:"primaryKey"`
	TokenID   string     `gorm:"uniqueIndex;size:64;not null"`
	UserID    uint       `gorm:"not null;index"`
	ExpiresAt time.Time  `gorm:"not null"`
	UsedAt    *time.Time `gorm:"index"`
	CreatedAt time.Time
}
