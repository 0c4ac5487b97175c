package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/dineorder/config"
	"github.com/yeremiapane/dineorder/models"
	"github.com/yeremiapane/dineorder/realtime"
	"github.com/yeremiapane/dineorder/router"
	"github.com/yeremiapane/dineorder/utils"
)

type testEnv struct {
	DB     *gorm.DB
	Cfg    *config.Config
	TM     *utils.TokenMaker
	Engine *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	utils.InitLogger()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.Table{},
		&models.Guest{},
		&models.Dish{},
		&models.DishSnapshot{},
		&models.Order{},
		&models.RefreshToken{},
		&models.Socket{},
	))

	cfg := config.Load()
	cfg.GinMode = gin.TestMode
	cfg.UploadDir = t.TempDir()

	tm := utils.NewTokenMaker(cfg.AccessTokenSecret, cfg.RefreshTokenSecret)
	hub := realtime.NewHub(db)

	return &testEnv{
		DB:     db,
		Cfg:    cfg,
		TM:     tm,
		Engine: router.SetupRouter(db, cfg, tm, hub),
	}
}

func (e *testEnv) createAccount(t *testing.T, email, password, role string) *models.Account {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	account := models.Account{Name: "Test Staff", Email: email, Password: string(hashed), Role: role}
	require.NoError(t, e.DB.Create(&account).Error)
	return &account
}

func (e *testEnv) accessTokenFor(t *testing.T, userID uint, role string) string {
	t.Helper()
	token, err := e.TM.SignAccessToken(userID, role, time.Minute)
	require.NoError(t, err)
	return token
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.Engine.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return body
}

func dataField(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	body := decodeBody(t, rec)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "data is not an object: %s", rec.Body.String())
	return data
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "body: %s", rec.Body.String())
}
