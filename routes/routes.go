package routes

import (
	"net/http"

	"answerly/handlers"
	"answerly/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Dashboard *handlers.DashboardHandler
	Server    *handlers.ServerHandler
	Feed      *handlers.FeedHandler
}

func SetupRoutes(
	router *gin.Engine,
	h Handlers,
	sessions *middleware.SessionManager,
	guilds middleware.GuildChecker,
	enforceGuildAccess bool,
) {
	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Everything below carries a session
	router.Use(sessions.Middleware())

	// Public routes
	router.GET("/", h.Auth.Index)
	router.GET("/login", h.Auth.Login)
	router.GET("/callback", h.Auth.Callback)
	router.GET("/logout", h.Auth.Logout)

	// Protected routes
	protected := router.Group("/")
	protected.Use(sessions.RequireAuth())
	{
		protected.GET("/dashboard", h.Dashboard.Dashboard)

		server := protected.Group("/server/:guild_id")
		server.Use(middleware.GuildAccess(guilds, sessions, enforceGuildAccess))
		{
			server.GET("", h.Server.Show)
			server.POST("", h.Server.Save)
			server.POST("/delete", h.Server.Delete)
			server.GET("/feed", h.Feed.Subscribe)
		}
	}
}
