package models

import "time"

// RefreshToken is a persisted staff session token, keyed by the token
// string itself. Deleted on logout, on rotation, on password change (v2)
// and by the hourly sweep once expired.
type RefreshToken struct {
	Token     string    `gorm:"type:varchar(500);primaryKey" json:"token"`
	AccountID uint      `gorm:"not null;index" json:"accountId"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}
