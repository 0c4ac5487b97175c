package realtime_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/dineorder/models"
	"github.com/yeremiapane/dineorder/realtime"
	"github.com/yeremiapane/dineorder/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func newHub(t *testing.T) (*gorm.DB, *realtime.Hub) {
	t.Helper()
	utils.InitLogger()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Socket{}))
	return db, realtime.NewHub(db)
}

// connect dials the test server and registers the connection under the
// given identity.
func connect(t *testing.T, hub *realtime.Hub, server *httptest.Server, userID uint, role string) *websocket.Conn {
	t.Helper()

	url := "ws://" + strings.TrimPrefix(server.URL, "http://") +
		"/?userId=" + strconv.FormatUint(uint64(userID), 10) + "&role=" + role
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func newWSServer(t *testing.T, hub *realtime.Hub) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)

		id, err := strconv.ParseUint(r.URL.Query().Get("userId"), 10, 64)
		require.NoError(t, err)
		claims := &utils.TokenClaims{UserID: uint(id), Role: r.URL.Query().Get("role")}
		_, err = hub.Register(conn, claims)
		require.NoError(t, err)
	}))
	t.Cleanup(server.Close)
	return server
}

// waitRegistered blocks until n registry rows exist, so tests do not
// notify before the server side finished registering a fresh dial.
func waitRegistered(t *testing.T, db *gorm.DB, n int64) {
	t.Helper()
	require.Eventually(t, func() bool {
		var count int64
		if err := db.Model(&models.Socket{}).Count(&count).Error; err != nil {
			return false
		}
		return count == n
	}, 2*time.Second, 10*time.Millisecond)
}

func readEvent(t *testing.T, conn *websocket.Conn) realtime.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg realtime.Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestNotifyStaffBroadcast(t *testing.T) {
	db, hub := newHub(t)
	server := newWSServer(t, hub)

	staff := connect(t, hub, server, 1, models.RoleOwner)
	guest := connect(t, hub, server, 5, models.RoleGuest)
	waitRegistered(t, db, 2)

	hub.NotifyStaff(realtime.EventNewOrder, map[string]int{"orderId": 10})

	msg := readEvent(t, staff)
	assert.Equal(t, realtime.EventNewOrder, msg.Event)

	// The guest connection must stay silent.
	require.NoError(t, guest.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := guest.ReadMessage()
	assert.Error(t, err)

	// Both identities got a registry row.
	var count int64
	require.NoError(t, db.Model(&models.Socket{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestNotifyGuestAndStaff(t *testing.T) {
	db, hub := newHub(t)
	server := newWSServer(t, hub)

	staff := connect(t, hub, server, 1, models.RoleEmployee)
	guest := connect(t, hub, server, 5, models.RoleGuest)
	waitRegistered(t, db, 2)

	hub.NotifyGuestAndStaff(5, realtime.EventPayment, map[string]int{"guestId": 5})

	staffMsg := readEvent(t, staff)
	assert.Equal(t, realtime.EventPayment, staffMsg.Event)

	guestMsg := readEvent(t, guest)
	assert.Equal(t, realtime.EventPayment, guestMsg.Event)
}

func TestReconnectReplacesSocketRow(t *testing.T) {
	db, hub := newHub(t)
	server := newWSServer(t, hub)

	connect(t, hub, server, 5, models.RoleGuest)
	connect(t, hub, server, 5, models.RoleGuest)

	// Give the second registration a moment to land.
	require.Eventually(t, func() bool {
		var count int64
		if err := db.Model(&models.Socket{}).Where("guest_id = ?", 5).Count(&count).Error; err != nil {
			return false
		}
		return count == 1
	}, 2*time.Second, 50*time.Millisecond)
}

func TestNotifyAccountTargetsOneConnection(t *testing.T) {
	db, hub := newHub(t)
	server := newWSServer(t, hub)

	target := connect(t, hub, server, 1, models.RoleEmployee)
	other := connect(t, hub, server, 2, models.RoleEmployee)
	waitRegistered(t, db, 2)

	hub.NotifyAccount(1, realtime.EventRefreshToken, nil)

	msg := readEvent(t, target)
	assert.Equal(t, realtime.EventRefreshToken, msg.Event)

	require.NoError(t, other.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := other.ReadMessage()
	assert.Error(t, err)
}
