package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeremiapane/dineorder/models"
	"github.com/yeremiapane/dineorder/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

func newTableToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// GetTables lists every table, Hidden ones included; filtering is the
// client's call.
func (tc *TableController) GetTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Order("number asc").Find(&tables).Error; err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tables fetched", tables)
}

// GetTable returns one table by number.
func (tc *TableController) GetTable(c *gin.Context) {
	number, err := parseIDParam(c, "number")
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, number).Error; err != nil {
		utils.RespondWithError(c, utils.NewNotFoundError("table not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table fetched", table)
}

// CreateTable registers a table under a staff-chosen number and mints
// its first login token.
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		Number   int     `json:"number" binding:"required,min=1"`
		Capacity int     `json:"capacity" binding:"required,min=1"`
		Status   *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var count int64
	if err := tc.DB.Model(&models.Table{}).Where("number = ?", req.Number).Count(&count).Error; err != nil {
		utils.RespondWithError(c, err)
		return
	}
	if count > 0 {
		utils.RespondWithError(c, utils.NewConflictError("table number already exists"))
		return
	}

	status := models.TableAvailable
	if req.Status != nil {
		if !isTableStatus(*req.Status) {
			utils.RespondWithError(c, utils.NewEntityError("status", "unknown table status"))
			return
		}
		status = *req.Status
	}

	table := models.Table{
		Number:   req.Number,
		Capacity: req.Capacity,
		Status:   status,
		Token:    newTableToken(),
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondWithError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Table created", table)
}

// UpdateTable edits capacity and status. With changeToken set, a fresh
// token is minted and every guest seated here loses their refresh
// token, so old QR codes stop working immediately.
func (tc *TableController) UpdateTable(c *gin.Context) {
	number, err := parseIDParam(c, "number")
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	var req struct {
		Capacity    *int    `json:"capacity"`
		Status      *string `json:"status"`
		ChangeToken bool    `json:"changeToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, number).Error; err != nil {
		utils.RespondWithError(c, utils.NewNotFoundError("table not found"))
		return
	}

	if req.Capacity != nil {
		table.Capacity = *req.Capacity
	}
	if req.Status != nil {
		if !isTableStatus(*req.Status) {
			utils.RespondWithError(c, utils.NewEntityError("status", "unknown table status"))
			return
		}
		table.Status = *req.Status
	}

	err = tc.DB.Transaction(func(tx *gorm.DB) error {
		if req.ChangeToken {
			table.Token = newTableToken()
			if err := tx.Model(&models.Guest{}).Where("table_number = ?", table.Number).
				Updates(map[string]interface{}{
					"refresh_token":            nil,
					"refresh_token_expires_at": nil,
				}).Error; err != nil {
				return err
			}
		}
		return tx.Save(&table).Error
	})
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable removes a table. Seated guests stay but lose the table
// reference and their refresh tokens; their order history is preserved.
func (tc *TableController) DeleteTable(c *gin.Context) {
	number, err := parseIDParam(c, "number")
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, number).Error; err != nil {
		utils.RespondWithError(c, utils.NewNotFoundError("table not found"))
		return
	}

	err = tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Guest{}).Where("table_number = ?", table.Number).
			Updates(map[string]interface{}{
				"table_number":             nil,
				"refresh_token":            nil,
				"refresh_token_expires_at": nil,
			}).Error; err != nil {
			return err
		}
		return tx.Delete(&table).Error
	})
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table deleted", table)
}

func isTableStatus(s string) bool {
	switch s {
	case models.TableAvailable, models.TableHidden, models.TableReserved:
		return true
	}
	return false
}
