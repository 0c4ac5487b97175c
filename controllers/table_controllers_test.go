package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/dineorder/models"
)

func TestCreateTable(t *testing.T) {
	env := newTestEnv(t)
	token := staffToken(t, env)

	rec := env.request(t, http.MethodPost, "/api/tables", token, map[string]interface{}{
		"number":   7,
		"capacity": 4,
	})
	requireStatus(t, rec, http.StatusCreated)

	var table models.Table
	require.NoError(t, env.DB.First(&table, 7).Error)
	assert.Equal(t, 4, table.Capacity)
	assert.Equal(t, models.TableAvailable, table.Status)
	assert.NotEmpty(t, table.Token)
}

func TestCreateTableDuplicateNumber(t *testing.T) {
	env := newTestEnv(t)
	token := staffToken(t, env)
	seedTable(t, env, 7, models.TableAvailable)

	rec := env.request(t, http.MethodPost, "/api/tables", token, map[string]interface{}{
		"number":   7,
		"capacity": 2,
	})
	requireStatus(t, rec, http.StatusConflict)
}

func TestDeleteTableOrphansGuests(t *testing.T) {
	env := newTestEnv(t)
	token := staffToken(t, env)
	table := seedTable(t, env, 1, models.TableAvailable)
	guestLogin(t, env, table)

	rec := env.request(t, http.MethodDelete, "/api/tables/1", token, nil)
	requireStatus(t, rec, http.StatusOK)

	// The guest survives the table, detached and logged out.
	var guest models.Guest
	require.NoError(t, env.DB.First(&guest).Error)
	assert.Nil(t, guest.TableNumber)
	assert.Nil(t, guest.RefreshToken)
}

func TestTablesArePubliclyListable(t *testing.T) {
	env := newTestEnv(t)
	seedTable(t, env, 1, models.TableAvailable)
	seedTable(t, env, 2, models.TableHidden)

	rec := env.request(t, http.MethodGet, "/api/tables", "", nil)
	requireStatus(t, rec, http.StatusOK)

	body := decodeBody(t, rec)
	tables := body["data"].([]interface{})
	assert.Len(t, tables, 2)
}

func TestUpdateTableStatus(t *testing.T) {
	env := newTestEnv(t)
	token := staffToken(t, env)
	table := seedTable(t, env, 1, models.TableAvailable)

	rec := env.request(t, http.MethodPut, "/api/tables/1", token, map[string]interface{}{
		"status": models.TableReserved,
	})
	requireStatus(t, rec, http.StatusOK)

	var updated models.Table
	require.NoError(t, env.DB.First(&updated, table.Number).Error)
	assert.Equal(t, models.TableReserved, updated.Status)
	// Token untouched without changeToken.
	assert.Equal(t, table.Token, updated.Token)
}
