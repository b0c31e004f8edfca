package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mentorchat/internal/broadcast"
	"mentorchat/internal/config"
	"mentorchat/internal/domain"
	"mentorchat/internal/handler"
	"mentorchat/internal/middleware"
	"mentorchat/internal/repository"
	"mentorchat/internal/service"
	"mentorchat/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Log.Level)

	dbPool, err := pgxpool.New(context.Background(), cfg.Database.DSN)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", "error", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		appLogger.Fatal("Failed to ping database", "error", err)
	}
	appLogger.Info("Database connection established")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		appLogger.Fatal("Failed to connect to Redis", "error", err)
	}
	appLogger.Info("Redis connection established")

	broadcaster, err := newBroadcaster(cfg, rdb, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize broadcaster", "backend", cfg.Broadcast.Backend, "error", err)
	}
	defer broadcaster.Close()
	appLogger.Info("Broadcast gateway initialized", "backend", cfg.Broadcast.Backend)

	repos := repository.NewRepositories(dbPool, rdb, appLogger)
	services := service.NewServices(repos, broadcaster, cfg, appLogger)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT, appLogger)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(services.RateLimit, appLogger)

	handlers := handler.NewHandlers(services, appLogger)

	router := setupRouter(handlers, authMiddleware, rateLimitMiddleware, cfg, appLogger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server exited")
}

func newBroadcaster(cfg *config.Config, rdb *redis.Client, log logger.Logger) (broadcast.Broadcaster, error) {
	switch cfg.Broadcast.Backend {
	case config.BroadcastBackendNATS:
		return broadcast.NewNATSBroadcaster(cfg.NATS.URL, log)
	default:
		return broadcast.NewRedisBroadcaster(rdb, log), nil
	}
}

func setupRouter(
	handlers *handler.Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	cfg *config.Config,
	log logger.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Check)

	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	{
		registerScopeRoutes(v1.Group("/rooms/:id"), domain.ScopeRoom, handlers, rateLimitMiddleware)
		registerScopeRoutes(v1.Group("/groups/:id"), domain.ScopeGroup, handlers, rateLimitMiddleware)

		messages := v1.Group("/messages")
		{
			messages.PUT("/:messageId", handlers.Chat.EditMessage)
			messages.DELETE("/:messageId", handlers.Chat.DeleteMessage)
		}

		presence := v1.Group("/presence")
		{
			presence.POST("/connect", handlers.Presence.Connect)
			presence.POST("/disconnect", handlers.Presence.Disconnect)
			presence.GET("/:userId", handlers.Presence.IsOnline)
		}
	}

	return router
}

func registerScopeRoutes(
	g *gin.RouterGroup,
	kind domain.ScopeKind,
	handlers *handler.Handlers,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
) {
	g.GET("/messages", handlers.Chat.GetMessages(kind))
	g.POST("/messages", rateLimitMiddleware.Limit(30, 60), handlers.Chat.SendMessage(kind))
	g.POST("/typing", rateLimitMiddleware.Limit(120, 60), handlers.Chat.Typing(kind))
	g.POST("/join", handlers.Room.Join(kind))
	g.POST("/leave", handlers.Room.Leave(kind))
	g.POST("/heartbeat", handlers.Room.Heartbeat(kind))
	g.GET("/online", handlers.Room.Online(kind))
}
