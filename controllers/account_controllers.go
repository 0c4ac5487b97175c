package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yeremiapane/dineorder/config"
	"github.com/yeremiapane/dineorder/middlewares"
	"github.com/yeremiapane/dineorder/models"
	"github.com/yeremiapane/dineorder/realtime"
	"github.com/yeremiapane/dineorder/utils"
)

type AccountController struct {
	DB  *gorm.DB
	TM  *utils.TokenMaker
	Cfg *config.Config
	Hub *realtime.Hub
}

func NewAccountController(db *gorm.DB, tm *utils.TokenMaker, cfg *config.Config, hub *realtime.Hub) *AccountController {
	return &AccountController{DB: db, TM: tm, Cfg: cfg, Hub: hub}
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint(middlewares.CtxUserID)
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, utils.NewDomainError("invalid " + name)
	}
	return uint(id), nil
}

// GetAccounts lists every staff account. Owner only.
func (ac *AccountController) GetAccounts(c *gin.Context) {
	var accounts []models.Account
	if err := ac.DB.Order("id asc").Find(&accounts).Error; err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Accounts fetched", accounts)
}

// GetAccount returns one staff account by id. Owner only.
func (ac *AccountController) GetAccount(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	var account models.Account
	if err := ac.DB.First(&account, id).Error; err != nil {
		utils.RespondWithError(c, utils.NewNotFoundError("account not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Account fetched", account)
}

// CreateEmployee creates an Employee account owned by the acting Owner.
func (ac *AccountController) CreateEmployee(c *gin.Context) {
	var req struct {
		Name            string  `json:"name" binding:"required"`
		Email           string  `json:"email" binding:"required,email"`
		Avatar          *string `json:"avatar"`
		Password        string  `json:"password" binding:"required,min=6"`
		ConfirmPassword string  `json:"confirmPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Password != req.ConfirmPassword {
		utils.RespondWithError(c, utils.NewEntityError("confirmPassword", "passwords do not match"))
		return
	}

	var count int64
	if err := ac.DB.Model(&models.Account{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		utils.RespondWithError(c, err)
		return
	}
	if count > 0 {
		utils.RespondWithError(c, utils.NewConflictError("email already in use"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	ownerID := currentUserID(c)
	account := models.Account{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Avatar:   req.Avatar,
		Role:     models.RoleEmployee,
		OwnerID:  &ownerID,
	}
	if err := ac.DB.Create(&account).Error; err != nil {
		utils.RespondWithError(c, err)
		return
	}

	utils.InfoLogger.Printf("employee created: %s by owner %d", account.Email, ownerID)
	utils.RespondJSON(c, http.StatusCreated, "Employee created", account)
}

// UpdateAccount edits a staff account. A role change pushes a
// refresh-token event so the affected session fetches new claims.
func (ac *AccountController) UpdateAccount(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Avatar   *string `json:"avatar"`
		Role     *string `json:"role"`
		Password *string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var account models.Account
	if err := ac.DB.First(&account, id).Error; err != nil {
		utils.RespondWithError(c, utils.NewNotFoundError("account not found"))
		return
	}

	roleChanged := false
	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Avatar != nil {
		account.Avatar = req.Avatar
	}
	if req.Role != nil {
		if *req.Role != models.RoleOwner && *req.Role != models.RoleEmployee {
			utils.RespondWithError(c, utils.NewEntityError("role", "unknown role"))
			return
		}
		if account.Role != *req.Role {
			account.Role = *req.Role
			roleChanged = true
		}
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondWithError(c, err)
			return
		}
		account.Password = string(hashed)
	}

	if err := ac.DB.Save(&account).Error; err != nil {
		utils.RespondWithError(c, err)
		return
	}

	if roleChanged {
		ac.Hub.NotifyAccount(account.ID, realtime.EventRefreshToken, account)
	}

	utils.RespondJSON(c, http.StatusOK, "Account updated", account)
}

// DeleteAccount removes a staff account and everything hanging off it.
// Its live socket (if any) gets a logout push; the socket row is read
// before the delete because the cascade takes it along.
func (ac *AccountController) DeleteAccount(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	if id == currentUserID(c) {
		utils.RespondWithError(c, utils.NewDomainError("you cannot delete your own account"))
		return
	}

	var account models.Account
	if err := ac.DB.First(&account, id).Error; err != nil {
		utils.RespondWithError(c, utils.NewNotFoundError("account not found"))
		return
	}

	var socket models.Socket
	socketFound := ac.DB.Where("account_id = ?", account.ID).First(&socket).Error == nil

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.Socket{}).Error; err != nil {
			return err
		}
		return tx.Delete(&account).Error
	})
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	if socketFound {
		ac.Hub.NotifySocket(socket.SocketID, realtime.EventLogout, account)
	}

	utils.InfoLogger.Printf("account deleted: %s (id=%d)", account.Email, account.ID)
	utils.RespondJSON(c, http.StatusOK, "Account deleted", account)
}

// Me returns the calling account's own profile.
func (ac *AccountController) Me(c *gin.Context) {
	var account models.Account
	if err := ac.DB.First(&account, currentUserID(c)).Error; err != nil {
		utils.RespondWithError(c, utils.NewNotFoundError("account not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile fetched", account)
}

// UpdateMe edits the calling account's name and avatar. Role and email
// stay out of reach here on purpose.
func (ac *AccountController) UpdateMe(c *gin.Context) {
	var req struct {
		Name   *string `json:"name"`
		Avatar *string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var account models.Account
	if err := ac.DB.First(&account, currentUserID(c)).Error; err != nil {
		utils.RespondWithError(c, utils.NewNotFoundError("account not found"))
		return
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Avatar != nil {
		account.Avatar = req.Avatar
	}

	if err := ac.DB.Save(&account).Error; err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile updated", account)
}

// ChangePassword verifies the old password and stores a new hash. The
// caller's sessions stay valid.
func (ac *AccountController) ChangePassword(c *gin.Context) {
	account, ok := ac.applyPasswordChange(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Password changed", account)
}

// ChangePasswordV2 does the same but also revokes every refresh token
// the account holds and hands back a fresh pair, so stolen sessions die
// with the old password.
func (ac *AccountController) ChangePasswordV2(c *gin.Context) {
	account, ok := ac.applyPasswordChange(c)
	if !ok {
		return
	}

	var accessToken, refreshToken string
	err := ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}

		var txErr error
		accessToken, txErr = ac.TM.SignAccessToken(account.ID, account.Role, ac.Cfg.AccessTokenTTL)
		if txErr != nil {
			return txErr
		}
		refreshToken, txErr = ac.TM.SignRefreshToken(account.ID, account.Role, ac.Cfg.RefreshTokenTTL)
		if txErr != nil {
			return txErr
		}
		claims, txErr := ac.TM.VerifyRefreshToken(refreshToken)
		if txErr != nil {
			return txErr
		}
		return tx.Create(&models.RefreshToken{
			Token:     refreshToken,
			AccountID: account.ID,
			ExpiresAt: claims.ExpiresAt.Time,
		}).Error
	})
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Password changed", gin.H{
		"account":      account,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

func (ac *AccountController) applyPasswordChange(c *gin.Context) (*models.Account, bool) {
	var req struct {
		OldPassword     string `json:"oldPassword" binding:"required"`
		Password        string `json:"password" binding:"required,min=6"`
		ConfirmPassword string `json:"confirmPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return nil, false
	}
	if req.Password != req.ConfirmPassword {
		utils.RespondWithError(c, utils.NewEntityError("confirmPassword", "passwords do not match"))
		return nil, false
	}

	var account models.Account
	if err := ac.DB.First(&account, currentUserID(c)).Error; err != nil {
		utils.RespondWithError(c, utils.NewNotFoundError("account not found"))
		return nil, false
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.OldPassword)); err != nil {
		utils.RespondWithError(c, utils.NewEntityError("oldPassword", "old password is incorrect"))
		return nil, false
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(c, err)
		return nil, false
	}
	account.Password = string(hashed)

	if err := ac.DB.Save(&account).Error; err != nil {
		utils.RespondWithError(c, err)
		return nil, false
	}
	return &account, true
}
