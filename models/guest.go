package models

import "time"

// Guest is a table-scoped diner session, not a persistent user. The table
// reference goes NULL when the table is deleted; the guest row itself is
// never removed. A guest holds at most one refresh token, overwritten on
// every login/refresh.
type Guest struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	Name                  string     `gorm:"type:varchar(255);not null" json:"name"`
	TableNumber           *int       `gorm:"index" json:"tableNumber"`
	Table                 *Table     `gorm:"foreignKey:TableNumber;references:Number;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	RefreshToken          *string    `gorm:"type:varchar(500)" json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`
	CreatedAt             time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt             time.Time  `gorm:"not null" json:"updatedAt"`

	Sockets []Socket `gorm:"foreignKey:GuestID;constraint:OnDelete:CASCADE" json:"-"`
}
