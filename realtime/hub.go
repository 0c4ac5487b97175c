package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/yeremiapane/dineorder/models"
	"github.com/yeremiapane/dineorder/utils"
)

// Message is the wire envelope for every push event.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Push event names.
const (
	EventNewOrder     = "new-order"
	EventUpdateOrder  = "update-order"
	EventPayment      = "payment"
	EventRefreshToken = "refresh-token"
	EventLogout       = "logout"
)

type client struct {
	conn  *websocket.Conn
	staff bool
	mu    sync.Mutex // gorilla conns allow one concurrent writer
}

func (c *client) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub owns the live connections and the persisted socket registry. All
// connected staff form the broadcast group; guests are addressed
// individually through their Socket row. Delivery is best-effort: a
// missing or stale connection is logged and skipped, never an error.
type Hub struct {
	db      *gorm.DB
	mu      sync.RWMutex
	clients map[string]*client // socketID -> client
}

func NewHub(db *gorm.DB) *Hub {
	return &Hub{
		db:      db,
		clients: make(map[string]*client),
	}
}

// Register records an authenticated connection. The identity's previous
// Socket row is replaced, so each account/guest has at most one live
// connection on record.
func (h *Hub) Register(conn *websocket.Conn, claims *utils.TokenClaims) (string, error) {
	socketID := uuid.NewString()

	userID := claims.UserID
	socket := models.Socket{SocketID: socketID}
	identityColumn := "account_id"
	if claims.Role == models.RoleGuest {
		socket.GuestID = &userID
		identityColumn = "guest_id"
	} else {
		socket.AccountID = &userID
	}

	// Delete-then-insert rather than updating the row in place: SocketID
	// is the primary key, so an overwrite is a replacement.
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(identityColumn+" = ?", userID).Delete(&models.Socket{}).Error; err != nil {
			return err
		}
		return tx.Create(&socket).Error
	})
	if err != nil {
		return "", err
	}

	h.mu.Lock()
	h.clients[socketID] = &client{
		conn:  conn,
		staff: claims.Role != models.RoleGuest,
	}
	h.mu.Unlock()

	utils.InfoLogger.Printf("socket connected: %s (user=%d role=%s)", socketID, claims.UserID, claims.Role)
	return socketID, nil
}

// Unregister drops the in-memory connection. The Socket row is left
// behind on purpose; it gets overwritten on the identity's next connect.
func (h *Hub) Unregister(socketID string) {
	h.mu.Lock()
	c, ok := h.clients[socketID]
	delete(h.clients, socketID)
	h.mu.Unlock()

	if ok {
		c.conn.Close()
		utils.InfoLogger.Printf("socket disconnected: %s", socketID)
	}
}

// NotifyStaff pushes an event to every connected staff client.
func (h *Hub) NotifyStaff(event string, payload interface{}) {
	data, err := json.Marshal(Message{Event: event, Data: payload})
	if err != nil {
		utils.ErrorLogger.Printf("marshal %s event: %v", event, err)
		return
	}
	h.broadcastStaff(data)
}

// NotifyGuestAndStaff pushes an event to the guest's live connection (if
// any) and always to staff, so staff dashboards stay in sync with
// guest-originated actions.
func (h *Hub) NotifyGuestAndStaff(guestID uint, event string, payload interface{}) {
	data, err := json.Marshal(Message{Event: event, Data: payload})
	if err != nil {
		utils.ErrorLogger.Printf("marshal %s event: %v", event, err)
		return
	}

	h.broadcastStaff(data)

	var socket models.Socket
	if err := h.db.Where("guest_id = ?", guestID).First(&socket).Error; err != nil {
		return // guest never connected, nothing to deliver
	}
	h.sendTo(socket.SocketID, data)
}

// NotifyAccount pushes an event to one staff account's connection, used
// for role-change and forced-logout signals.
func (h *Hub) NotifyAccount(accountID uint, event string, payload interface{}) {
	data, err := json.Marshal(Message{Event: event, Data: payload})
	if err != nil {
		utils.ErrorLogger.Printf("marshal %s event: %v", event, err)
		return
	}

	var socket models.Socket
	if err := h.db.Where("account_id = ?", accountID).First(&socket).Error; err != nil {
		return
	}
	h.sendTo(socket.SocketID, data)
}

// NotifySocket pushes an event to one known socket id, for callers that
// captured the registry row before deleting the identity it belonged to.
func (h *Hub) NotifySocket(socketID, event string, payload interface{}) {
	data, err := json.Marshal(Message{Event: event, Data: payload})
	if err != nil {
		utils.ErrorLogger.Printf("marshal %s event: %v", event, err)
		return
	}
	h.sendTo(socketID, data)
}

func (h *Hub) broadcastStaff(data []byte) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		if c.staff {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.send(data); err != nil {
			utils.ErrorLogger.Printf("push to staff client failed: %v", err)
		}
	}
}

func (h *Hub) sendTo(socketID string, data []byte) {
	h.mu.RLock()
	c, ok := h.clients[socketID]
	h.mu.RUnlock()
	if !ok {
		return // stale registry row, accepted
	}
	if err := c.send(data); err != nil {
		utils.ErrorLogger.Printf("push to socket %s failed: %v", socketID, err)
	}
}
