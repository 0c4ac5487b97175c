package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/dineorder/middlewares"
	"github.com/yeremiapane/dineorder/realtime"
	"github.com/yeremiapane/dineorder/utils"
)

type WSController struct {
	Hub *realtime.Hub
	TM  *utils.TokenMaker
}

func NewWSController(hub *realtime.Hub, tm *utils.TokenMaker) *WSController {
	return &WSController{Hub: hub, TM: tm}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers cannot set headers on websocket dials, so origin policy is
	// enforced by the CORS layer for the rest of the API and left open here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Connect authenticates and upgrades the connection, then parks in a
// read loop until the peer goes away. Clients never send application
// data; the read loop only watches for close.
func (wc *WSController) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = middlewares.BearerToken(c)
	}
	if token == "" {
		utils.RespondWithError(c, utils.NewAuthError("access token missing"))
		return
	}

	claims, err := wc.TM.VerifyAccessToken(token)
	if err != nil {
		utils.RespondWithError(c, utils.NewAuthError("invalid access token"))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("websocket upgrade failed: %v", err)
		return
	}

	socketID, err := wc.Hub.Register(conn, claims)
	if err != nil {
		utils.ErrorLogger.Printf("socket registration failed: %v", err)
		conn.Close()
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	wc.Hub.Unregister(socketID)
}
