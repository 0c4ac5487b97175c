package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/dineorder/config"
	"github.com/yeremiapane/dineorder/models"
	"github.com/yeremiapane/dineorder/services"
	"github.com/yeremiapane/dineorder/utils"
)

type GuestController struct {
	DB       *gorm.DB
	TM       *utils.TokenMaker
	Cfg      *config.Config
	OrderSvc *services.OrderService
}

func NewGuestController(db *gorm.DB, tm *utils.TokenMaker, cfg *config.Config, orderSvc *services.OrderService) *GuestController {
	return &GuestController{DB: db, TM: tm, Cfg: cfg, OrderSvc: orderSvc}
}

// Login opens a guest session on a table. The table token is the shared
// secret printed on the table's QR code. A new Guest row is created per
// login; the refresh token is stored on the row itself.
func (gc *GuestController) Login(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		TableNumber int    `json:"tableNumber" binding:"required"`
		Token       string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := gc.DB.First(&table, req.TableNumber).Error; err != nil {
		utils.RespondWithError(c, utils.NewDomainError("table does not exist or token is incorrect"))
		return
	}
	if table.Token != req.Token {
		utils.RespondWithError(c, utils.NewDomainError("table does not exist or token is incorrect"))
		return
	}
	if table.Status == models.TableHidden {
		utils.RespondWithError(c, utils.NewDomainError(fmt.Sprintf("table %d is hidden, please pick another table", table.Number)))
		return
	}
	if table.Status == models.TableReserved {
		utils.RespondWithError(c, utils.NewDomainError(fmt.Sprintf("table %d is reserved, please pick another table", table.Number)))
		return
	}

	var guest models.Guest
	var accessToken, refreshToken string
	err := gc.DB.Transaction(func(tx *gorm.DB) error {
		guest = models.Guest{
			Name:        req.Name,
			TableNumber: &table.Number,
		}
		if err := tx.Create(&guest).Error; err != nil {
			return err
		}

		var txErr error
		accessToken, txErr = gc.TM.SignAccessToken(guest.ID, models.RoleGuest, gc.Cfg.GuestAccessTokenTTL)
		if txErr != nil {
			return txErr
		}
		refreshToken, txErr = gc.TM.SignRefreshToken(guest.ID, models.RoleGuest, gc.Cfg.GuestRefreshTokenTTL)
		if txErr != nil {
			return txErr
		}
		claims, txErr := gc.TM.VerifyRefreshToken(refreshToken)
		if txErr != nil {
			return txErr
		}

		guest.RefreshToken = &refreshToken
		guest.RefreshTokenExpiresAt = &claims.ExpiresAt.Time
		return tx.Save(&guest).Error
	})
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	utils.InfoLogger.Printf("guest login: %s at table %d", guest.Name, table.Number)
	utils.RespondJSON(c, http.StatusOK, "Guest login successful", gin.H{
		"guest":        guest,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// RefreshToken rotates the guest's stored refresh token, keeping the
// original expiry. Only the token currently on the guest row is
// accepted; anything else is a replay.
func (gc *GuestController) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	claims, err := gc.TM.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		utils.RespondWithError(c, utils.NewAuthError("refresh token is invalid"))
		return
	}
	if claims.Role != models.RoleGuest {
		utils.RespondWithError(c, utils.NewAuthError("refresh token is invalid"))
		return
	}

	var newAccessToken, newRefreshToken string
	err = gc.DB.Transaction(func(tx *gorm.DB) error {
		var guest models.Guest
		if err := tx.First(&guest, claims.UserID).Error; err != nil {
			return utils.NewAuthError("guest does not exist")
		}
		if guest.RefreshToken == nil || *guest.RefreshToken != req.RefreshToken {
			return utils.NewAuthError("refresh token does not exist")
		}

		var txErr error
		newAccessToken, txErr = gc.TM.SignAccessToken(guest.ID, models.RoleGuest, gc.Cfg.GuestAccessTokenTTL)
		if txErr != nil {
			return txErr
		}
		newRefreshToken, txErr = gc.TM.SignRefreshTokenWithExpiry(guest.ID, models.RoleGuest, claims.ExpiresAt.Time)
		if txErr != nil {
			return txErr
		}

		guest.RefreshToken = &newRefreshToken
		return tx.Save(&guest).Error
	})
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Token refreshed", gin.H{
		"accessToken":  newAccessToken,
		"refreshToken": newRefreshToken,
	})
}

// Logout clears the guest's stored refresh token. Idempotent.
func (gc *GuestController) Logout(c *gin.Context) {
	guestID := currentUserID(c)

	err := gc.DB.Model(&models.Guest{}).Where("id = ?", guestID).Updates(map[string]interface{}{
		"refresh_token":            nil,
		"refresh_token_expires_at": nil,
	}).Error
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Logout successful", nil)
}

// CreateOrders lets the seated guest order for themselves. Reserved
// tables are blocked here but not for staff-placed orders.
func (gc *GuestController) CreateOrders(c *gin.Context) {
	var lines []services.OrderLine
	if err := c.ShouldBindJSON(&lines); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if len(lines) == 0 {
		utils.RespondWithError(c, utils.NewDomainError("order must contain at least one dish"))
		return
	}

	orders, err := gc.OrderSvc.CreateOrders(nil, currentUserID(c), lines, true)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Orders placed", orders)
}

// GetOrders lists the calling guest's own orders, newest first.
func (gc *GuestController) GetOrders(c *gin.Context) {
	var orders []models.Order
	err := gc.DB.Preload("DishSnapshot").
		Where("guest_id = ?", currentUserID(c)).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders fetched", orders)
}
