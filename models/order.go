package models

import "time"

// Order is one line item of a guest's order. GuestID is NULL for
// staff-entered orders, TableNumber for orders whose table was deleted.
// DishSnapshotID is unique: snapshots and orders are created pairwise.
type Order struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	GuestID        *uint         `gorm:"index" json:"guestId"`
	Guest          *Guest        `gorm:"foreignKey:GuestID;constraint:OnDelete:SET NULL" json:"guest,omitempty"`
	TableNumber    *int          `gorm:"index" json:"tableNumber"`
	DishSnapshotID uint          `gorm:"uniqueIndex;not null" json:"dishSnapshotId"`
	DishSnapshot   *DishSnapshot `gorm:"foreignKey:DishSnapshotID" json:"dishSnapshot,omitempty"`
	Quantity       int           `gorm:"not null" json:"quantity"`
	Note           *string       `gorm:"type:varchar(500)" json:"note"`
	OrderHandlerID *uint         `gorm:"index" json:"orderHandlerId"`
	OrderHandler   *Account      `gorm:"foreignKey:OrderHandlerID;constraint:OnDelete:SET NULL" json:"orderHandler,omitempty"`
	Status         string        `gorm:"type:varchar(50);not null;default:'Pending'" json:"status"`
	CreatedAt      time.Time     `gorm:"not null" json:"createdAt"`
	UpdatedAt      time.Time     `gorm:"not null" json:"updatedAt"`
}

// orderTransitions is the allowed status graph. The direct edges to Paid
// exist because settlement bulk-pays Pending/Processing/Delivered orders.
// Paid and Rejected are terminal.
var orderTransitions = map[string][]string{
	OrderPending:    {OrderProcessing, OrderRejected, OrderPaid},
	OrderProcessing: {OrderDelivered, OrderRejected, OrderPaid},
	OrderDelivered:  {OrderPaid},
	OrderRejected:   {},
	OrderPaid:       {},
}

// IsOrderStatus reports whether s is a known order status.
func IsOrderStatus(s string) bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionOrder reports whether an order may move from one status to
// another. Writing the same status back is a no-op and always allowed.
func CanTransitionOrder(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
