package main

import (
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yeremiapane/dineorder/config"
	"github.com/yeremiapane/dineorder/models"
	"github.com/yeremiapane/dineorder/realtime"
	"github.com/yeremiapane/dineorder/router"
	"github.com/yeremiapane/dineorder/services"
	"github.com/yeremiapane/dineorder/utils"
)

func main() {
	utils.InitLogger()

	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("no .env file found, using environment")
	}

	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("database connection failed: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Account{},
		&models.Table{},
		&models.Guest{},
		&models.Dish{},
		&models.DishSnapshot{},
		&models.Order{},
		&models.RefreshToken{},
		&models.Socket{},
	); err != nil {
		utils.ErrorLogger.Fatalf("migration failed: %v", err)
	}

	if err := seedInitialOwner(db, cfg); err != nil {
		utils.ErrorLogger.Fatalf("owner seeding failed: %v", err)
	}

	tm := utils.NewTokenMaker(cfg.AccessTokenSecret, cfg.RefreshTokenSecret)
	hub := realtime.NewHub(db)

	sweeper := services.NewTokenSweeper(db)
	if err := sweeper.Start(); err != nil {
		utils.ErrorLogger.Fatalf("token sweeper failed to start: %v", err)
	}
	defer sweeper.Stop()

	r := router.SetupRouter(db, cfg, tm, hub)

	utils.InfoLogger.Printf("listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatalf("server stopped: %v", err)
	}
}

// seedInitialOwner creates the first Owner account on an empty accounts
// table so a fresh deployment can be logged into.
func seedInitialOwner(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.Account{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.InitialOwnerPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	owner := models.Account{
		Name:     "Owner",
		Email:    cfg.InitialOwnerEmail,
		Password: string(hashed),
		Role:     models.RoleOwner,
	}
	if err := db.Create(&owner).Error; err != nil {
		return err
	}

	utils.InfoLogger.Printf("initial owner seeded: %s", owner.Email)
	return nil
}
