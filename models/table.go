package models

import "time"

// Table is a physical table. Number is chosen by staff, not
// auto-incremented. Token is the secret guests present at login; rotating
// it kicks out everyone currently seated.
type Table struct {
	Number    int       `gorm:"primaryKey;autoIncrement:false" json:"number"`
	Capacity  int       `gorm:"not null" json:"capacity"`
	Status    string    `gorm:"type:varchar(50);not null;default:'Available'" json:"status"`
	Token     string    `gorm:"type:varchar(255);not null" json:"token"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}
