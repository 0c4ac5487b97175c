package models

import "time"

// Dish is a menu item, the mutable current truth. Price is in the
// smallest currency unit. Image is a bare filename; URL formatting
// happens at the response boundary.
type Dish struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Price       int       `gorm:"not null" json:"price"`
	Description string    `gorm:"type:varchar(1000);not null" json:"description"`
	Image       string    `gorm:"type:varchar(500);not null" json:"image"`
	Status      string    `gorm:"type:varchar(50);not null;default:'Available'" json:"status"`
	Category    *string   `gorm:"type:varchar(100)" json:"category,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`
}

// DishSnapshot is an immutable copy of a Dish taken when an order is
// placed, so the order's price and description survive later menu edits.
// DishID goes NULL if the dish is deleted. Business fields are never
// updated after creation.
type DishSnapshot struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Price       int       `gorm:"not null" json:"price"`
	Description string    `gorm:"type:varchar(1000);not null" json:"description"`
	Image       string    `gorm:"type:varchar(500);not null" json:"image"`
	Status      string    `gorm:"type:varchar(50);not null;default:'Available'" json:"status"`
	DishID      *uint     `gorm:"index" json:"dishId"`
	Dish        *Dish     `gorm:"foreignKey:DishID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`
}

// SnapshotOf copies the dish's business fields into a new snapshot.
func SnapshotOf(dish *Dish) DishSnapshot {
	id := dish.ID
	return DishSnapshot{
		Name:        dish.Name,
		Price:       dish.Price,
		Description: dish.Description,
		Image:       dish.Image,
		Status:      dish.Status,
		DishID:      &id,
	}
}
