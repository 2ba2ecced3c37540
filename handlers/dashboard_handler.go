package handlers

import (
	"context"
	"errors"
	"net/http"

	"answerly/middleware"
	"answerly/models"
	"answerly/services"

	"github.com/gin-gonic/gin"
)

type ServerLister interface {
	Servers(ctx context.Context, accessToken string) ([]models.Guild, error)
}

type DashboardHandler struct {
	servers  ServerLister
	sessions *middleware.SessionManager
	botID    string
}

func NewDashboardHandler(servers ServerLister, sessions *middleware.SessionManager, botID string) *DashboardHandler {
	return &DashboardHandler{
		servers:  servers,
		sessions: sessions,
		botID:    botID,
	}
}

func (h *DashboardHandler) Dashboard(c *gin.Context) {
	servers, err := h.servers.Servers(c.Request.Context(), h.sessions.AccessToken(c))
	if errors.Is(err, services.ErrTokenRejected) {
		middleware.ReauthRedirect(c, h.sessions)
		return
	}
	if err != nil {
		servers = []models.Guild{}
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"servers": servers,
		"bot_id":  h.botID,
		"flashes": h.sessions.PopFlashes(c),
	})
}
