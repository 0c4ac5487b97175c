package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/dineorder/services"
	"github.com/yeremiapane/dineorder/utils"
)

type OrderController struct {
	Svc *services.OrderService
}

func NewOrderController(svc *services.OrderService) *OrderController {
	return &OrderController{Svc: svc}
}

// CreateOrders places a batch of orders on a guest's behalf, e.g. when
// the waiter takes the order at the table.
func (oc *OrderController) CreateOrders(c *gin.Context) {
	var req struct {
		GuestID uint                 `json:"guestId" binding:"required"`
		Orders  []services.OrderLine `json:"orders" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	handlerID := currentUserID(c)
	orders, err := oc.Svc.CreateOrders(&handlerID, req.GuestID, req.Orders, false)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Orders placed", orders)
}

// GetOrders lists orders, optionally bounded by fromDate/toDate query
// params (RFC 3339 or plain date).
func (oc *OrderController) GetOrders(c *gin.Context) {
	fromDate, err := parseDateQuery(c.Query("fromDate"), false)
	if err != nil {
		utils.RespondWithError(c, utils.NewDomainError("invalid fromDate"))
		return
	}
	toDate, err := parseDateQuery(c.Query("toDate"), true)
	if err != nil {
		utils.RespondWithError(c, utils.NewDomainError("invalid toDate"))
		return
	}

	orders, err := oc.Svc.GetOrders(fromDate, toDate)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders fetched", orders)
}

// GetOrder returns one order by id.
func (oc *OrderController) GetOrder(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	order, err := oc.Svc.GetOrder(id)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order fetched", order)
}

// UpdateOrder changes status, dish or quantity of one order.
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	var input services.UpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Svc.UpdateOrder(currentUserID(c), id, input)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// PayOrders settles everything a guest still owes in one go.
func (oc *OrderController) PayOrders(c *gin.Context) {
	var req struct {
		GuestID uint `json:"guestId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	orders, err := oc.Svc.PayGuestOrders(currentUserID(c), req.GuestID)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders paid", orders)
}

// parseDateQuery accepts RFC 3339 or a bare 2006-01-02 date. A bare
// toDate is pushed to the end of that day so the range stays inclusive.
func parseDateQuery(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
