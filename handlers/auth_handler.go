package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"answerly/middleware"
	"answerly/services"

	"github.com/gin-gonic/gin"
)

// OAuthFlow is the part of the OAuth client the auth handler drives.
type OAuthFlow interface {
	AuthorizationURL() (string, error)
	ConsumeState(state string) bool
	Exchange(ctx context.Context, code string) (*services.TokenResponse, error)
}

type AuthHandler struct {
	oauth    OAuthFlow
	sessions *middleware.SessionManager
}

func NewAuthHandler(oauth OAuthFlow, sessions *middleware.SessionManager) *AuthHandler {
	return &AuthHandler{
		oauth:    oauth,
		sessions: sessions,
	}
}

// Index sends logged-in users on to their dashboard.
func (h *AuthHandler) Index(c *gin.Context) {
	if h.sessions.Current(c).Authenticated() {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"flashes": h.sessions.PopFlashes(c),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	url, err := h.oauth.AuthorizationURL()
	if err != nil {
		slog.Error("failed to build authorization url", slog.Any("err", err))
		c.String(http.StatusInternalServerError, "Failed to start login")
		return
	}
	c.Redirect(http.StatusFound, url)
}

func (h *AuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.String(http.StatusBadRequest, "No code provided")
		return
	}
	if !h.oauth.ConsumeState(c.Query("state")) {
		slog.Warn("oauth callback with unknown state", slog.Any("err", services.ErrUnknownOAuthState))
		c.String(http.StatusBadRequest, "Invalid or expired login attempt")
		return
	}

	token, err := h.oauth.Exchange(c.Request.Context(), code)
	if err != nil {
		var exchangeErr *services.TokenExchangeError
		if errors.As(err, &exchangeErr) {
			c.String(http.StatusBadRequest, "Error connecting to Discord: "+exchangeErr.Body)
			return
		}
		c.String(http.StatusBadRequest, "Error connecting to Discord: "+err.Error())
		return
	}

	if err := h.sessions.Login(c, token.AccessToken); err != nil {
		slog.Error("failed to store session", slog.Any("err", err))
		c.String(http.StatusInternalServerError, "Failed to store session")
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Logout(c)
	c.Redirect(http.StatusFound, "/")
}
