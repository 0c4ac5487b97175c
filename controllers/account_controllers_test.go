package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/dineorder/models"
)

func TestCreateEmployee(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@order.com", "secret123", models.RoleOwner)
	token := env.accessTokenFor(t, owner.ID, owner.Role)

	rec := env.request(t, http.MethodPost, "/api/accounts", token, map[string]string{
		"name":            "Bob",
		"email":           "bob@order.com",
		"password":        "secret123",
		"confirmPassword": "secret123",
	})
	requireStatus(t, rec, http.StatusCreated)

	var employee models.Account
	require.NoError(t, env.DB.Where("email = ?", "bob@order.com").First(&employee).Error)
	assert.Equal(t, models.RoleEmployee, employee.Role)
	require.NotNil(t, employee.OwnerID)
	assert.Equal(t, owner.ID, *employee.OwnerID)
	// Hashes, never plaintext.
	assert.NotEqual(t, "secret123", employee.Password)
}

func TestCreateEmployeePasswordMismatch(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@order.com", "secret123", models.RoleOwner)
	token := env.accessTokenFor(t, owner.ID, owner.Role)

	rec := env.request(t, http.MethodPost, "/api/accounts", token, map[string]string{
		"name":            "Bob",
		"email":           "bob@order.com",
		"password":        "secret123",
		"confirmPassword": "different",
	})
	requireStatus(t, rec, http.StatusUnprocessableEntity)
}

func TestCreateEmployeeDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@order.com", "secret123", models.RoleOwner)
	token := env.accessTokenFor(t, owner.ID, owner.Role)
	env.createAccount(t, "bob@order.com", "secret123", models.RoleEmployee)

	rec := env.request(t, http.MethodPost, "/api/accounts", token, map[string]string{
		"name":            "Bob",
		"email":           "bob@order.com",
		"password":        "secret123",
		"confirmPassword": "secret123",
	})
	requireStatus(t, rec, http.StatusConflict)
}

func TestAccountManagementIsOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	employee := env.createAccount(t, "bob@order.com", "secret123", models.RoleEmployee)
	token := env.accessTokenFor(t, employee.ID, employee.Role)

	rec := env.request(t, http.MethodGet, "/api/accounts", token, nil)
	requireStatus(t, rec, http.StatusUnauthorized)
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	employee := env.createAccount(t, "bob@order.com", "secret123", models.RoleEmployee)
	token := env.accessTokenFor(t, employee.ID, employee.Role)

	rec := env.request(t, http.MethodGet, "/api/accounts/me", token, nil)
	requireStatus(t, rec, http.StatusOK)

	data := dataField(t, rec)
	assert.Equal(t, "bob@order.com", data["email"])
	// The password hash never leaves the server.
	_, leaked := data["password"]
	assert.False(t, leaked)
}

func TestDeleteAccountCannotDeleteSelf(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@order.com", "secret123", models.RoleOwner)
	token := env.accessTokenFor(t, owner.ID, owner.Role)

	rec := env.request(t, http.MethodDelete, "/api/accounts/1", token, nil)
	requireStatus(t, rec, http.StatusBadRequest)
}

func TestDeleteAccountCleansUp(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@order.com", "secret123", models.RoleOwner)
	token := env.accessTokenFor(t, owner.ID, owner.Role)
	employee := env.createAccount(t, "bob@order.com", "secret123", models.RoleEmployee)

	require.NoError(t, env.DB.Create(&models.RefreshToken{
		Token: "some-refresh-token", AccountID: employee.ID,
	}).Error)

	rec := env.request(t, http.MethodDelete, "/api/accounts/2", token, nil)
	requireStatus(t, rec, http.StatusOK)

	var tokenCount int64
	require.NoError(t, env.DB.Model(&models.RefreshToken{}).
		Where("account_id = ?", employee.ID).Count(&tokenCount).Error)
	assert.Zero(t, tokenCount)
}

func TestChangePasswordV2RevokesSessions(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@order.com", "secret123", models.RoleOwner)
	token := env.accessTokenFor(t, owner.ID, owner.Role)

	login := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "owner@order.com",
		"password": "secret123",
	})
	requireStatus(t, login, http.StatusOK)
	oldRefresh := dataField(t, login)["refreshToken"].(string)

	rec := env.request(t, http.MethodPut, "/api/accounts/change-password-v2", token, map[string]string{
		"oldPassword":     "secret123",
		"password":        "newsecret",
		"confirmPassword": "newsecret",
	})
	requireStatus(t, rec, http.StatusOK)
	data := dataField(t, rec)
	assert.NotEmpty(t, data["accessToken"])
	assert.NotEmpty(t, data["refreshToken"])

	// The pre-change session is dead.
	replay := env.request(t, http.MethodPost, "/api/auth/refresh-token", "", map[string]string{
		"refreshToken": oldRefresh,
	})
	requireStatus(t, replay, http.StatusUnauthorized)

	// The new password works, the old one does not.
	relogin := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "owner@order.com",
		"password": "newsecret",
	})
	requireStatus(t, relogin, http.StatusOK)
	oldLogin := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "owner@order.com",
		"password": "secret123",
	})
	requireStatus(t, oldLogin, http.StatusUnprocessableEntity)
}
