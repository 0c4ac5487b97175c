package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/dineorder/models"
	"github.com/yeremiapane/dineorder/realtime"
	"github.com/yeremiapane/dineorder/utils"
)

// OrderLine is one requested line of an order batch.
type OrderLine struct {
	DishID   uint    `json:"dishId" binding:"required"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
	Note     *string `json:"note"`
}

// UpdateOrderInput carries the fields staff may change on an order.
type UpdateOrderInput struct {
	Status   *string `json:"status"`
	DishID   *uint   `json:"dishId"`
	Quantity *int    `json:"quantity"`
	Note     *string `json:"note"`
}

// OrderService is the order lifecycle engine. Every mutation runs in a
// single transaction; push events fire only after commit.
type OrderService struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewOrderService(db *gorm.DB, hub *realtime.Hub) *OrderService {
	return &OrderService{db: db, hub: hub}
}

// CreateOrders places a batch of orders for a guest. handlerID is the
// acting staff account, nil when the guest orders for themselves
// (guestFacing). One DishSnapshot and one Order row per line, all or
// nothing: any bad line aborts the whole batch.
func (s *OrderService) CreateOrders(handlerID *uint, guestID uint, lines []OrderLine, guestFacing bool) ([]models.Order, error) {
	var created []models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var guest models.Guest
		if err := tx.First(&guest, guestID).Error; err != nil {
			return utils.NewNotFoundError("guest not found")
		}
		if guest.TableNumber == nil {
			return utils.NewDomainError("this guest's table has been deleted, please pick another table")
		}

		var table models.Table
		if err := tx.First(&table, *guest.TableNumber).Error; err != nil {
			return utils.NewNotFoundError("table not found")
		}
		if table.Status == models.TableHidden {
			return utils.NewDomainError(fmt.Sprintf("table %d is hidden, please pick another table", table.Number))
		}
		if guestFacing && table.Status == models.TableReserved {
			return utils.NewDomainError(fmt.Sprintf("table %d is reserved, please pick another table", table.Number))
		}

		for _, line := range lines {
			var dish models.Dish
			if err := tx.First(&dish, line.DishID).Error; err != nil {
				return utils.NewNotFoundError(fmt.Sprintf("dish %d not found", line.DishID))
			}
			if dish.Status == models.DishUnavailable {
				return utils.NewDomainError(fmt.Sprintf("dish %s is sold out", dish.Name))
			}
			if dish.Status == models.DishHidden {
				return utils.NewDomainError(fmt.Sprintf("dish %s cannot be ordered", dish.Name))
			}

			snapshot := models.SnapshotOf(&dish)
			if err := tx.Create(&snapshot).Error; err != nil {
				return err
			}

			order := models.Order{
				GuestID:        &guest.ID,
				TableNumber:    guest.TableNumber,
				DishSnapshotID: snapshot.ID,
				Quantity:       line.Quantity,
				Note:           line.Note,
				OrderHandlerID: handlerID,
				Status:         models.OrderPending,
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
			order.DishSnapshot = &snapshot
			created = append(created, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.NotifyGuestAndStaff(guestID, realtime.EventNewOrder, created)
	return created, nil
}

// UpdateOrder changes status, dish and/or quantity of one order. A new
// snapshot is minted only when the order is re-pointed at a different
// dish than the one its current snapshot came from; otherwise the
// snapshot is reused. Status changes are validated against the
// transition graph.
func (s *OrderService) UpdateOrder(handlerID uint, orderID uint, input UpdateOrderInput) (*models.Order, error) {
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("DishSnapshot").First(&order, orderID).Error; err != nil {
			return utils.NewNotFoundError("order not found")
		}

		if input.Status != nil {
			if !models.IsOrderStatus(*input.Status) {
				return utils.NewDomainError(fmt.Sprintf("unknown order status %q", *input.Status))
			}
			if !models.CanTransitionOrder(order.Status, *input.Status) {
				return utils.NewDomainError(fmt.Sprintf("order cannot go from %s to %s", order.Status, *input.Status))
			}
			order.Status = *input.Status
		}

		if input.DishID != nil {
			current := order.DishSnapshot
			if current == nil || current.DishID == nil || *current.DishID != *input.DishID {
				var dish models.Dish
				if err := tx.First(&dish, *input.DishID).Error; err != nil {
					return utils.NewNotFoundError(fmt.Sprintf("dish %d not found", *input.DishID))
				}
				snapshot := models.SnapshotOf(&dish)
				if err := tx.Create(&snapshot).Error; err != nil {
					return err
				}
				order.DishSnapshotID = snapshot.ID
				order.DishSnapshot = &snapshot
			}
		}

		if input.Quantity != nil {
			order.Quantity = *input.Quantity
		}
		if input.Note != nil {
			order.Note = input.Note
		}
		order.OrderHandlerID = &handlerID

		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}

	if order.GuestID != nil {
		s.hub.NotifyGuestAndStaff(*order.GuestID, realtime.EventUpdateOrder, order)
	} else {
		s.hub.NotifyStaff(realtime.EventUpdateOrder, order)
	}
	return &order, nil
}

// PayGuestOrders settles a guest's bill: every order of theirs still in
// Pending, Processing or Delivered flips to Paid in one bulk update.
// Paying a guest with nothing outstanding is an error, not a no-op.
func (s *OrderService) PayGuestOrders(handlerID uint, guestID uint) ([]models.Order, error) {
	var paid []models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var orders []models.Order
		if err := tx.Where("guest_id = ? AND status IN ?", guestID,
			[]string{models.OrderPending, models.OrderProcessing, models.OrderDelivered}).
			Find(&orders).Error; err != nil {
			return err
		}
		if len(orders) == 0 {
			return utils.NewDomainError("no orders to pay for this guest")
		}

		ids := make([]uint, len(orders))
		for i, o := range orders {
			ids[i] = o.ID
		}

		if err := tx.Model(&models.Order{}).Where("id IN ?", ids).Updates(map[string]interface{}{
			"status":           models.OrderPaid,
			"order_handler_id": handlerID,
		}).Error; err != nil {
			return err
		}

		return tx.Preload("DishSnapshot").Where("id IN ?", ids).Find(&paid).Error
	})
	if err != nil {
		return nil, err
	}

	s.hub.NotifyGuestAndStaff(guestID, realtime.EventPayment, paid)
	return paid, nil
}

// GetOrders lists orders, optionally bounded by an inclusive created_at
// range, newest first.
func (s *OrderService) GetOrders(fromDate, toDate *time.Time) ([]models.Order, error) {
	query := s.db.Preload("DishSnapshot").Preload("Guest")
	if fromDate != nil {
		query = query.Where("created_at >= ?", *fromDate)
	}
	if toDate != nil {
		query = query.Where("created_at <= ?", *toDate)
	}

	var orders []models.Order
	if err := query.Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("DishSnapshot").Preload("Guest").First(&order, orderID).Error; err != nil {
		return nil, utils.NewNotFoundError("order not found")
	}
	return &order, nil
}
