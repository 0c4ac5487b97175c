package models

import "time"

// Account is a staff identity (Owner or Employee). An Employee keeps a
// reference to the Owner that created it.
type Account struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Avatar    *string   `gorm:"type:varchar(500)" json:"avatar"`
	Role      string    `gorm:"type:varchar(50);not null;default:'Employee'" json:"role"`
	OwnerID   *uint     `gorm:"index" json:"ownerId,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`

	RefreshTokens []RefreshToken `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"-"`
	Sockets       []Socket       `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"-"`
}
