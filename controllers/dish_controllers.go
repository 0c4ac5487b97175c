package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/dineorder/config"
	"github.com/yeremiapane/dineorder/models"
	"github.com/yeremiapane/dineorder/utils"
)

type DishController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewDishController(db *gorm.DB, cfg *config.Config) *DishController {
	return &DishController{DB: db, Cfg: cfg}
}

func (dc *DishController) formatDish(dish *models.Dish) {
	dish.Image = utils.FormatImageURL(dc.Cfg.BaseURL, dish.Image)
}

// GetDishes lists the public menu, newest first. Available dishes when
// there are any; otherwise the whole menu, so guests see a sold-out
// menu rather than an empty one. No auth required.
func (dc *DishController) GetDishes(c *gin.Context) {
	var dishes []models.Dish
	err := dc.DB.Where("status = ?", models.DishAvailable).
		Order("created_at desc").
		Find(&dishes).Error
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	if len(dishes) == 0 {
		if err := dc.DB.Order("created_at desc").Find(&dishes).Error; err != nil {
			utils.RespondWithError(c, err)
			return
		}
	}
	for i := range dishes {
		dc.formatDish(&dishes[i])
	}
	utils.RespondJSON(c, http.StatusOK, "Dishes fetched", dishes)
}

// GetDishesPaginated pages through Available dishes only, for menu
// browsing UIs. page starts at 1.
func (dc *DishController) GetDishesPaginated(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	var total int64
	if err := dc.DB.Model(&models.Dish{}).Where("status = ?", models.DishAvailable).Count(&total).Error; err != nil {
		utils.RespondWithError(c, err)
		return
	}

	var dishes []models.Dish
	err = dc.DB.Where("status = ?", models.DishAvailable).
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&dishes).Error
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	for i := range dishes {
		dc.formatDish(&dishes[i])
	}

	totalPage := int(total) / limit
	if int(total)%limit != 0 {
		totalPage++
	}

	utils.RespondJSON(c, http.StatusOK, "Dishes fetched", gin.H{
		"items":     dishes,
		"page":      page,
		"limit":     limit,
		"totalItem": total,
		"totalPage": totalPage,
	})
}

// GetDish returns one dish by id, Hidden included (staff edit screens
// link straight here).
func (dc *DishController) GetDish(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	var dish models.Dish
	if err := dc.DB.First(&dish, id).Error; err != nil {
		utils.RespondWithError(c, utils.NewNotFoundError("dish not found"))
		return
	}
	dc.formatDish(&dish)
	utils.RespondJSON(c, http.StatusOK, "Dish fetched", dish)
}

// CreateDish adds a menu item. The image is stored as a bare filename
// whatever form the client sent it in.
func (dc *DishController) CreateDish(c *gin.Context) {
	var req struct {
		Name        string  `json:"name" binding:"required"`
		Price       int     `json:"price" binding:"required,min=0"`
		Description string  `json:"description" binding:"required"`
		Image       string  `json:"image" binding:"required"`
		Status      *string `json:"status"`
		Category    *string `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	status := models.DishAvailable
	if req.Status != nil {
		if !isDishStatus(*req.Status) {
			utils.RespondWithError(c, utils.NewEntityError("status", "unknown dish status"))
			return
		}
		status = *req.Status
	}

	dish := models.Dish{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Image:       utils.NormalizeImagePath(req.Image),
		Status:      status,
		Category:    req.Category,
	}
	if err := dc.DB.Create(&dish).Error; err != nil {
		utils.RespondWithError(c, err)
		return
	}

	dc.formatDish(&dish)
	utils.RespondJSON(c, http.StatusCreated, "Dish created", dish)
}

// UpdateDish edits a menu item. Snapshots taken from it earlier are
// untouched.
func (dc *DishController) UpdateDish(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Price       *int    `json:"price"`
		Description *string `json:"description"`
		Image       *string `json:"image"`
		Status      *string `json:"status"`
		Category    *string `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var dish models.Dish
	if err := dc.DB.First(&dish, id).Error; err != nil {
		utils.RespondWithError(c, utils.NewNotFoundError("dish not found"))
		return
	}

	if req.Name != nil {
		dish.Name = *req.Name
	}
	if req.Price != nil {
		dish.Price = *req.Price
	}
	if req.Description != nil {
		dish.Description = *req.Description
	}
	if req.Image != nil {
		dish.Image = utils.NormalizeImagePath(*req.Image)
	}
	if req.Status != nil {
		if !isDishStatus(*req.Status) {
			utils.RespondWithError(c, utils.NewEntityError("status", "unknown dish status"))
			return
		}
		dish.Status = *req.Status
	}
	if req.Category != nil {
		dish.Category = req.Category
	}

	if err := dc.DB.Save(&dish).Error; err != nil {
		utils.RespondWithError(c, err)
		return
	}

	dc.formatDish(&dish)
	utils.RespondJSON(c, http.StatusOK, "Dish updated", dish)
}

// DeleteDish removes a menu item. Snapshot rows keep their copy of the
// dish; only their dish reference goes NULL.
func (dc *DishController) DeleteDish(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	var dish models.Dish
	if err := dc.DB.First(&dish, id).Error; err != nil {
		utils.RespondWithError(c, utils.NewNotFoundError("dish not found"))
		return
	}

	err = dc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.DishSnapshot{}).Where("dish_id = ?", dish.ID).
			Update("dish_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&dish).Error
	})
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	dc.formatDish(&dish)
	utils.RespondJSON(c, http.StatusOK, "Dish deleted", dish)
}

func isDishStatus(s string) bool {
	switch s {
	case models.DishAvailable, models.DishUnavailable, models.DishHidden:
		return true
	}
	return false
}
