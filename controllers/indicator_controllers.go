package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/dineorder/config"
	"github.com/yeremiapane/dineorder/models"
	"github.com/yeremiapane/dineorder/utils"
)

type IndicatorController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewIndicatorController(db *gorm.DB, cfg *config.Config) *IndicatorController {
	return &IndicatorController{DB: db, Cfg: cfg}
}

const revenueDayFormat = "02/01/2006"

type dishIndicator struct {
	models.Dish
	SuccessOrders int `json:"successOrders"`
}

type revenueByDate struct {
	Date    string `json:"date"`
	Revenue int    `json:"revenue"`
}

// Dashboard aggregates the business numbers for one date range: revenue
// from Paid orders, the count of every order created in range, tables
// currently serving, and a per-day revenue series with every day of the
// range present even when it earned nothing. Day bucketing follows the
// configured timezone.
func (ic *IndicatorController) Dashboard(c *gin.Context) {
	now := time.Now().In(ic.Cfg.Timezone)

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
	if fromDate == nil {
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, ic.Cfg.Timezone)
		fromDate = &start
	}
	if toDate == nil {
		toDate = &now
	}
	if toDate.Before(*fromDate) {
		utils.RespondWithError(c, utils.NewDomainError("toDate must not be before fromDate"))
		return
	}

	var orders []models.Order
	err = ic.DB.Preload("DishSnapshot").
		Where("created_at >= ? AND created_at <= ?", *fromDate, *toDate).
		Find(&orders).Error
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	// Zero-fill one bucket per day of the range before tallying.
	revenueByDay := make(map[string]int)
	var dayKeys []string
	for day := fromDate.In(ic.Cfg.Timezone); !day.After(*toDate); day = day.AddDate(0, 0, 1) {
		key := day.Format(revenueDayFormat)
		revenueByDay[key] = 0
		dayKeys = append(dayKeys, key)
	}

	revenue := 0
	orderCount := 0
	payingGuests := make(map[uint]struct{})
	servingTables := make(map[int]struct{})
	successByDish := make(map[uint]int)

	for _, order := range orders {
		orderCount++
		switch order.Status {
		case models.OrderPaid:
			if order.DishSnapshot != nil {
				lineTotal := order.DishSnapshot.Price * order.Quantity
				revenue += lineTotal

				key := order.CreatedAt.In(ic.Cfg.Timezone).Format(revenueDayFormat)
				if _, ok := revenueByDay[key]; ok {
					revenueByDay[key] += lineTotal
				}

				if order.DishSnapshot.DishID != nil {
					successByDish[*order.DishSnapshot.DishID]++
				}
			}
			if order.GuestID != nil {
				payingGuests[*order.GuestID] = struct{}{}
			}
		case models.OrderPending, models.OrderProcessing, models.OrderDelivered:
			if order.TableNumber != nil {
				servingTables[*order.TableNumber] = struct{}{}
			}
		}
	}

	var dishes []models.Dish
	if err := ic.DB.Order("created_at desc").Find(&dishes).Error; err != nil {
		utils.RespondWithError(c, err)
		return
	}
	dishIndicators := make([]dishIndicator, len(dishes))
	for i, dish := range dishes {
		dish.Image = utils.FormatImageURL(ic.Cfg.BaseURL, dish.Image)
		dishIndicators[i] = dishIndicator{
			Dish:          dish,
			SuccessOrders: successByDish[dish.ID],
		}
	}

	series := make([]revenueByDate, len(dayKeys))
	for i, key := range dayKeys {
		series[i] = revenueByDate{Date: key, Revenue: revenueByDay[key]}
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard fetched", gin.H{
		"revenue":           revenue,
		"guestCount":        len(payingGuests),
		"orderCount":        orderCount,
		"servingTableCount": len(servingTables),
		"dishIndicator":     dishIndicators,
		"revenueByDate":     series,
	})
}
