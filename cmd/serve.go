package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"answerly/config"
	"answerly/handlers"
	"answerly/middleware"
	"answerly/routes"
	"answerly/services"
	"answerly/web"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)
	defer redisClient.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	store, err := newQuestionStore(cfg, httpClient)
	if err != nil {
		return err
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()
	defer hub.Stop()

	// Initialize services
	questionService, err := services.NewQuestionService(services.QuestionServiceConfig{
		Store:       store,
		IDs:         services.NewDigitIDGenerator(),
		Publisher:   hub,
		MaxPerGuild: cfg.MaxQuestionsPerGuild,
	})
	if err != nil {
		return err
	}

	dashboardService, err := services.NewDashboardService(services.NewDiscordDirectory(cfg.BotToken, cfg.DiscordAPI, httpClient))
	if err != nil {
		return err
	}

	oauthService := services.NewOAuthService(services.OAuthConfig{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURI:  cfg.RedirectURI,
		APIURL:       cfg.DiscordAPI,
	}, httpClient)
	go oauthService.Start()
	defer oauthService.Stop()

	sessionStore, err := services.NewSessionStore(&services.SessionStoreConfig{
		RedisClient: redisClient,
		SecretKey:   cfg.SecretKey,
		TTL:         cfg.SessionTTL,
	})
	if err != nil {
		return err
	}
	sessions, err := middleware.NewSessionManager(sessionStore, middleware.DefaultSessionCookie, cfg.SecureCookie)
	if err != nil {
		return err
	}

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())
	if err := web.Install(router); err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	routes.SetupRoutes(router, routes.Handlers{
		Auth:      handlers.NewAuthHandler(oauthService, sessions),
		Dashboard: handlers.NewDashboardHandler(dashboardService, sessions, cfg.BotID),
		Server:    handlers.NewServerHandler(questionService, sessions),
		Feed:      handlers.NewFeedHandler(hub),
	}, sessions, dashboardService, cfg.EnforceGuildAccess)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", slog.String("addr", srv.Addr), slog.String("question_store", cfg.QuestionStore))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}

func newQuestionStore(cfg *config.Config, httpClient *http.Client) (services.QuestionStore, error) {
	switch cfg.QuestionStore {
	case config.StorePostgres:
		db, err := config.InitDB(cfg)
		if err != nil {
			return nil, err
		}
		return services.NewSQLQuestionStore(db)
	default:
		return services.NewRESTQuestionStore(cfg.SupabaseURL, cfg.SupabaseKey, httpClient), nil
	}
}
