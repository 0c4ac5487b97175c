package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/dineorder/config"
	"github.com/yeremiapane/dineorder/controllers"
	"github.com/yeremiapane/dineorder/middlewares"
	"github.com/yeremiapane/dineorder/realtime"
	"github.com/yeremiapane/dineorder/services"
	"github.com/yeremiapane/dineorder/utils"
)

// SetupRouter wires middleware, controllers and routes. Everything the
// handlers need comes in through here; no package-level state.
func SetupRouter(db *gorm.DB, cfg *config.Config, tm *utils.TokenMaker, hub *realtime.Hub) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	orderSvc := services.NewOrderService(db, hub)

	authCtrl := controllers.NewAuthController(db, tm, cfg)
	accountCtrl := controllers.NewAccountController(db, tm, cfg, hub)
	guestCtrl := controllers.NewGuestController(db, tm, cfg, orderSvc)
	dishCtrl := controllers.NewDishController(db, cfg)
	tableCtrl := controllers.NewTableController(db)
	orderCtrl := controllers.NewOrderController(orderSvc)
	indicatorCtrl := controllers.NewIndicatorController(db, cfg)
	mediaCtrl := controllers.NewMediaController(cfg)
	wsCtrl := controllers.NewWSController(hub, tm)

	loginLimiter := middlewares.NewLoginRateLimiter(time.Second, 10)

	r.Static("/static", cfg.UploadDir)
	r.GET("/ws", wsCtrl.Connect)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", loginLimiter.Middleware(), authCtrl.Login)
		auth.POST("/refresh-token", authCtrl.RefreshToken)
		auth.POST("/logout", middlewares.RequireLogined(tm), authCtrl.Logout)
	}

	accounts := api.Group("/accounts", middlewares.RequireLogined(tm))
	{
		accounts.GET("/me", accountCtrl.Me)
		accounts.PUT("/me", accountCtrl.UpdateMe)
		accounts.PUT("/change-password", accountCtrl.ChangePassword)
		accounts.PUT("/change-password-v2", accountCtrl.ChangePasswordV2)

		owner := accounts.Group("", middlewares.RequireOwner())
		{
			owner.GET("", accountCtrl.GetAccounts)
			owner.GET("/:id", accountCtrl.GetAccount)
			owner.POST("", accountCtrl.CreateEmployee)
			owner.PUT("/:id", accountCtrl.UpdateAccount)
			owner.DELETE("/:id", accountCtrl.DeleteAccount)
		}
	}

	dishes := api.Group("/dishes")
	{
		dishes.GET("", dishCtrl.GetDishes)
		dishes.GET("/pagination", dishCtrl.GetDishesPaginated)
		dishes.GET("/:id", dishCtrl.GetDish)

		staff := dishes.Group("", middlewares.RequireLogined(tm), middlewares.RequireOwnerOrEmployee())
		{
			staff.POST("", dishCtrl.CreateDish)
			staff.PUT("/:id", dishCtrl.UpdateDish)
			staff.DELETE("/:id", dishCtrl.DeleteDish)
		}
	}

	tables := api.Group("/tables")
	{
		tables.GET("", tableCtrl.GetTables)
		tables.GET("/:number", tableCtrl.GetTable)

		staff := tables.Group("", middlewares.RequireLogined(tm), middlewares.RequireOwnerOrEmployee())
		{
			staff.POST("", tableCtrl.CreateTable)
			staff.PUT("/:number", tableCtrl.UpdateTable)
			staff.DELETE("/:number", tableCtrl.DeleteTable)
		}
	}

	orders := api.Group("/orders", middlewares.RequireLogined(tm), middlewares.RequireOwnerOrEmployee())
	{
		orders.POST("", orderCtrl.CreateOrders)
		orders.GET("", orderCtrl.GetOrders)
		orders.GET("/:id", orderCtrl.GetOrder)
		orders.PUT("/:id", orderCtrl.UpdateOrder)
		orders.POST("/pay", orderCtrl.PayOrders)
	}

	guest := api.Group("/guest")
	{
		guest.POST("/auth/login", loginLimiter.Middleware(), guestCtrl.Login)
		guest.POST("/auth/refresh-token", guestCtrl.RefreshToken)
		guest.POST("/auth/logout", middlewares.RequireLogined(tm), middlewares.RequireGuest(), guestCtrl.Logout)

		guestOrders := guest.Group("/orders",
			middlewares.RequireLogined(tm),
			middlewares.RequireGuest(),
			middlewares.PauseCheck(cfg.PauseSomeEndpoints),
		)
		{
			guestOrders.POST("", guestCtrl.CreateOrders)
			guestOrders.GET("", guestCtrl.GetOrders)
		}
	}

	indicators := api.Group("/indicators", middlewares.RequireLogined(tm), middlewares.RequireOwnerOrEmployee())
	{
		indicators.GET("/dashboard", indicatorCtrl.Dashboard)
	}

	media := api.Group("/media", middlewares.RequireLogined(tm), middlewares.RequireOwnerOrEmployee())
	{
		media.POST("/upload", mediaCtrl.Upload)
	}

	return r
}
