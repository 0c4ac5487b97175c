package services

import (
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/yeremiapane/dineorder/models"
	"github.com/yeremiapane/dineorder/utils"
)

// TokenSweeper deletes expired staff refresh tokens on an hourly
// schedule. Each run is a single short DELETE so it never holds locks
// that would block a concurrent login or refresh.
type TokenSweeper struct {
	db   *gorm.DB
	cron *cron.Cron
}

func NewTokenSweeper(db *gorm.DB) *TokenSweeper {
	return &TokenSweeper{
		db:   db,
		cron: cron.New(),
	}
}

func (s *TokenSweeper) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *TokenSweeper) Stop() {
	s.cron.Stop()
}

func (s *TokenSweeper) sweep() {
	result := s.db.Where("expires_at < ?", time.Now()).Delete(&models.RefreshToken{})
	if result.Error != nil {
		utils.ErrorLogger.Printf("refresh token sweep failed: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		utils.InfoLogger.Printf("refresh token sweep removed %d expired tokens", result.RowsAffected)
	}
}
