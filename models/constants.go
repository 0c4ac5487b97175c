package models

// Account roles. Guest is a token role only, guests have no Account row.
const (
	RoleOwner    = "Owner"
	RoleEmployee = "Employee"
	RoleGuest    = "Guest"
)

const (
	DishAvailable   = "Available"
	DishUnavailable = "Unavailable"
	DishHidden      = "Hidden"
)

const (
	TableAvailable = "Available"
	TableHidden    = "Hidden"
	TableReserved  = "Reserved"
)

const (
	OrderPending    = "Pending"
	OrderProcessing = "Processing"
	OrderRejected   = "Rejected"
	OrderDelivered  = "Delivered"
	OrderPaid       = "Paid"
)
