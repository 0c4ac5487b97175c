package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything read from the environment. Loaded once in main
// after godotenv and passed down explicitly.
type Config struct {
	Port    string
	GinMode string

	DBDriver string // mysql, postgres, sqlite
	DBDSN    string

	AccessTokenSecret  string
	RefreshTokenSecret string

	AccessTokenTTL       time.Duration
	RefreshTokenTTL      time.Duration
	GuestAccessTokenTTL  time.Duration
	GuestRefreshTokenTTL time.Duration

	InitialOwnerEmail    string
	InitialOwnerPassword string

	UploadDir string
	BaseURL   string

	Timezone *time.Location

	// PauseSomeEndpoints disables guest-facing write endpoints, e.g. during
	// a menu overhaul. Guarded endpoints answer 403.
	PauseSomeEndpoints bool
}

func Load() *Config {
	tzName := getEnv("SERVER_TIMEZONE", "Asia/Ho_Chi_Minh")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		loc = time.UTC
	}

	return &Config{
		Port:    getEnv("PORT", "4000"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DBDriver: getEnv("DB_DRIVER", "sqlite"),
		DBDSN:    getEnv("DB_DSN", "dev.db"),

		AccessTokenSecret:  getEnv("ACCESS_TOKEN_SECRET", "access-token-secret"),
		RefreshTokenSecret: getEnv("REFRESH_TOKEN_SECRET", "refresh-token-secret"),

		AccessTokenTTL:       parseTTL(getEnv("ACCESS_TOKEN_EXPIRES_IN", "15m"), 15*time.Minute),
		RefreshTokenTTL:      parseTTL(getEnv("REFRESH_TOKEN_EXPIRES_IN", "7d"), 7*24*time.Hour),
		GuestAccessTokenTTL:  parseTTL(getEnv("GUEST_ACCESS_TOKEN_EXPIRES_IN", "1h"), time.Hour),
		GuestRefreshTokenTTL: parseTTL(getEnv("GUEST_REFRESH_TOKEN_EXPIRES_IN", "1d"), 24*time.Hour),

		InitialOwnerEmail:    getEnv("INITIAL_EMAIL_OWNER", "admin@order.com"),
		InitialOwnerPassword: getEnv("INITIAL_PASSWORD_OWNER", "123456"),

		UploadDir: getEnv("UPLOAD_FOLDER", "uploads"),
		BaseURL:   getEnv("BASE_URL", "http://localhost:"+getEnv("PORT", "4000")),

		Timezone: loc,

		PauseSomeEndpoints: getEnv("PAUSE_SOME_ENDPOINTS", "false") == "true",
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseTTL accepts time.ParseDuration syntax plus a "d" suffix for days,
// so values like "15m", "1h" and "7d" all work.
func parseTTL(s string, fallback time.Duration) time.Duration {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return fallback
	}
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return fallback
		}
		return time.Duration(days) * 24 * time.Hour
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
