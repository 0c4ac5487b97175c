package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/dineorder/models"
)

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.createAccount(t, "owner@order.com", "secret123", models.RoleOwner)

	rec := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "owner@order.com",
		"password": "secret123",
	})
	requireStatus(t, rec, http.StatusOK)

	data := dataField(t, rec)
	assert.NotEmpty(t, data["accessToken"])
	assert.NotEmpty(t, data["refreshToken"])

	var count int64
	require.NoError(t, env.DB.Model(&models.RefreshToken{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.createAccount(t, "owner@order.com", "secret123", models.RoleOwner)

	rec := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "owner@order.com",
		"password": "wrong",
	})
	requireStatus(t, rec, http.StatusUnprocessableEntity)
}

func TestLoginUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nobody@order.com",
		"password": "secret123",
	})
	requireStatus(t, rec, http.StatusUnprocessableEntity)
}

func TestRefreshTokenRotation(t *testing.T) {
	env := newTestEnv(t)
	env.createAccount(t, "owner@order.com", "secret123", models.RoleOwner)

	login := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "owner@order.com",
		"password": "secret123",
	})
	requireStatus(t, login, http.StatusOK)
	oldRefresh := dataField(t, login)["refreshToken"].(string)

	refresh := env.request(t, http.MethodPost, "/api/auth/refresh-token", "", map[string]string{
		"refreshToken": oldRefresh,
	})
	requireStatus(t, refresh, http.StatusOK)
	newRefresh := dataField(t, refresh)["refreshToken"].(string)
	assert.NotEqual(t, oldRefresh, newRefresh)

	// Rotation keeps exactly one stored token per session.
	var count int64
	require.NoError(t, env.DB.Model(&models.RefreshToken{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Replaying the rotated-out token must fail.
	replay := env.request(t, http.MethodPost, "/api/auth/refresh-token", "", map[string]string{
		"refreshToken": oldRefresh,
	})
	requireStatus(t, replay, http.StatusUnauthorized)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	env.createAccount(t, "owner@order.com", "secret123", models.RoleOwner)

	login := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "owner@order.com",
		"password": "secret123",
	})
	requireStatus(t, login, http.StatusOK)
	data := dataField(t, login)
	access := data["accessToken"].(string)
	refresh := data["refreshToken"].(string)

	logout := env.request(t, http.MethodPost, "/api/auth/logout", access, map[string]string{
		"refreshToken": refresh,
	})
	requireStatus(t, logout, http.StatusOK)

	rec := env.request(t, http.MethodPost, "/api/auth/refresh-token", "", map[string]string{
		"refreshToken": refresh,
	})
	requireStatus(t, rec, http.StatusUnauthorized)
}
