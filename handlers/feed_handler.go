package handlers

import (
	"log/slog"

	"answerly/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type FeedHandler struct {
	hub      *services.Hub
	upgrader websocket.Upgrader
}

func NewFeedHandler(hub *services.Hub) *FeedHandler {
	return &FeedHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Subscribe upgrades the request and streams question events for the
// guild in the route.
func (h *FeedHandler) Subscribe(c *gin.Context) {
	guildID := c.Param("guild_id")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("feed upgrade failed", slog.String("guild_id", guildID), slog.Any("err", err))
		return
	}

	h.hub.RegisterClient(conn, guildID)
}
