package models

// Socket maps a live push-channel connection to exactly one account OR
// one guest. The unique indexes keep it to one row per identity; the row
// is overwritten on the identity's next connect rather than cleaned up on
// disconnect.
type Socket struct {
	SocketID  string `gorm:"type:varchar(255);primaryKey" json:"socketId"`
	AccountID *uint  `gorm:"uniqueIndex" json:"accountId"`
	GuestID   *uint  `gorm:"uniqueIndex" json:"guestId"`
}
