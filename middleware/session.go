package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"answerly/models"
	"answerly/services"

	"github.com/gin-gonic/gin"
)

const (
	DefaultSessionCookie = "answerly_session"
	sessionContextKey    = "session"
)

// SessionManager binds a Redis-backed session to each request and offers
// the operations handlers need (flash, login, logout).
type SessionManager struct {
	store      *services.SessionStore
	cookieName string
	secure     bool
}

func NewSessionManager(store *services.SessionStore, cookieName string, secure bool) (*SessionManager, error) {
	if store == nil {
		return nil, errors.New("session store cannot be nil")
	}
	if cookieName == "" {
		cookieName = DefaultSessionCookie
	}
	return &SessionManager{
		store:      store,
		cookieName: cookieName,
		secure:     secure,
	}, nil
}

// Middleware loads the session before the handler runs. A new session id
// is issued whenever the browser presents no valid cookie.
func (m *SessionManager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, _ := c.Cookie(m.cookieName)
		session, fresh := m.store.Load(c.Request.Context(), raw)
		if fresh {
			m.setCookie(c, session)
		}
		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// RequireAuth redirects anonymous sessions to the landing page.
func (m *SessionManager) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.Current(c).Authenticated() {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *SessionManager) Current(c *gin.Context) *models.Session {
	if value, ok := c.Get(sessionContextKey); ok {
		if session, ok := value.(*models.Session); ok {
			return session
		}
	}
	session := m.store.New()
	c.Set(sessionContextKey, session)
	return session
}

func (m *SessionManager) AccessToken(c *gin.Context) string {
	return m.Current(c).AccessToken
}

// AddFlash queues a notice for the next rendered page.
func (m *SessionManager) AddFlash(c *gin.Context, category, message string) {
	session := m.Current(c)
	session.Flashes = append(session.Flashes, models.Flash{Category: category, Message: message})
	m.save(c.Request.Context(), session)
}

// PopFlashes returns and clears the pending notices.
func (m *SessionManager) PopFlashes(c *gin.Context) []models.Flash {
	session := m.Current(c)
	if len(session.Flashes) == 0 {
		return nil
	}
	flashes := session.Flashes
	session.Flashes = nil
	m.save(c.Request.Context(), session)
	return flashes
}

// Login stores the access token under a new session id, dropping the
// pre-login record.
func (m *SessionManager) Login(c *gin.Context, accessToken string) error {
	ctx := c.Request.Context()
	previous := m.Current(c)

	session := m.store.New()
	session.Authenticate(accessToken, time.Now())
	session.Flashes = previous.Flashes

	if err := m.store.Save(ctx, session); err != nil {
		return err
	}
	if err := m.store.Destroy(ctx, previous.ID); err != nil {
		slog.Warn("failed to drop pre-login session", slog.Any("err", err))
	}

	c.Set(sessionContextKey, session)
	m.setCookie(c, session)
	return nil
}

// Expire demotes the session to anonymous after Discord rejected its token.
func (m *SessionManager) Expire(c *gin.Context) {
	session := m.Current(c)
	session.Demote()
	m.save(c.Request.Context(), session)
}

// Logout destroys all session state unconditionally.
func (m *SessionManager) Logout(c *gin.Context) {
	session := m.Current(c)
	if err := m.store.Destroy(c.Request.Context(), session.ID); err != nil {
		slog.Error("failed to destroy session", slog.Any("err", err))
	}
	c.Set(sessionContextKey, m.store.New())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, "", -1, "/", "", m.secure, true)
}

func (m *SessionManager) save(ctx context.Context, session *models.Session) {
	if err := m.store.Save(ctx, session); err != nil {
		slog.Error("failed to save session", slog.String("session_id", session.ID), slog.Any("err", err))
	}
}

func (m *SessionManager) setCookie(c *gin.Context, session *models.Session) {
	value, err := m.store.Sign(session)
	if err != nil {
		slog.Error("failed to sign session", slog.Any("err", err))
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, value, int(m.store.TTL()/time.Second), "/", "", m.secure, true)
}
