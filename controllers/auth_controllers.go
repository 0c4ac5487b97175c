package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yeremiapane/dineorder/config"
	"github.com/yeremiapane/dineorder/models"
	"github.com/yeremiapane/dineorder/utils"
)

type AuthController struct {
	DB  *gorm.DB
	TM  *utils.TokenMaker
	Cfg *config.Config
}

func NewAuthController(db *gorm.DB, tm *utils.TokenMaker, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, TM: tm, Cfg: cfg}
}

// issueStaffTokens signs an access/refresh pair and persists the refresh
// token inside tx. If persistence fails no pair is returned, so the DB
// and the issued tokens never diverge.
func (ac *AuthController) issueStaffTokens(tx *gorm.DB, account *models.Account) (accessToken, refreshToken string, err error) {
	accessToken, err = ac.TM.SignAccessToken(account.ID, account.Role, ac.Cfg.AccessTokenTTL)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = ac.TM.SignRefreshToken(account.ID, account.Role, ac.Cfg.RefreshTokenTTL)
	if err != nil {
		return "", "", err
	}

	claims, err := ac.TM.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", "", err
	}

	record := models.RefreshToken{
		Token:     refreshToken,
		AccountID: account.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := tx.Create(&record).Error; err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// Login authenticates staff credentials and returns a token pair.
func (ac *AuthController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var account models.Account
	if err := ac.DB.Where("email = ?", req.Email).First(&account).Error; err != nil {
		utils.RespondWithError(c, utils.NewEntityError("email", "email does not exist"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)); err != nil {
		utils.RespondWithError(c, utils.NewEntityError("password", "email or password is incorrect"))
		return
	}

	var accessToken, refreshToken string
	err := ac.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		accessToken, refreshToken, txErr = ac.issueStaffTokens(tx, &account)
		return txErr
	})
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	utils.InfoLogger.Printf("staff login: %s (role=%s)", account.Email, account.Role)

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"account":      account,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// RefreshToken rotates a staff refresh token: the presented token's row
// is deleted and a new one persisted in the same transaction as
// issuance. The new refresh token keeps the old expiry. A token whose
// row is already gone (logout, earlier rotation) is rejected.
func (ac *AuthController) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	claims, err := ac.TM.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		utils.RespondWithError(c, utils.NewAuthError("refresh token is invalid"))
		return
	}

	var newAccessToken, newRefreshToken string
	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		var record models.RefreshToken
		if err := tx.Where("token = ?", req.RefreshToken).First(&record).Error; err != nil {
			return utils.NewAuthError("refresh token does not exist")
		}

		var account models.Account
		if err := tx.First(&account, record.AccountID).Error; err != nil {
			return utils.NewAuthError("account does not exist")
		}

		newAccessToken, err = ac.TM.SignAccessToken(account.ID, account.Role, ac.Cfg.AccessTokenTTL)
		if err != nil {
			return err
		}
		newRefreshToken, err = ac.TM.SignRefreshTokenWithExpiry(account.ID, account.Role, claims.ExpiresAt.Time)
		if err != nil {
			return err
		}

		if err := tx.Delete(&record).Error; err != nil {
			return err
		}
		return tx.Create(&models.RefreshToken{
			Token:     newRefreshToken,
			AccountID: account.ID,
			ExpiresAt: claims.ExpiresAt.Time,
		}).Error
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

// Logout deletes the presented refresh token. Logging out twice is fine.
func (ac *AuthController) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := ac.DB.Where("token = ?", req.RefreshToken).Delete(&models.RefreshToken{}).Error; err != nil {
		utils.RespondWithError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Logout successful", nil)
}
