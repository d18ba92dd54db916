package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"vidtube/internal/config"
	"vidtube/internal/container"
	"vidtube/internal/handler"
	"vidtube/internal/middleware"
	"vidtube/internal/storage"
	"vidtube/pkg/database"
	"vidtube/pkg/logger"
	"vidtube/pkg/redis"
)

// Resources holds all resources that need cleanup
type Resources struct {
	db          *database.PostgresDB
	redisClient *redis.Client
	server      *http.Server
	log         *logger.Logger
	mu          sync.Mutex
	closed      bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errors []error

	r.log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first to stop accepting new requests
	if r.server != nil {
		r.log.Info("Shutting down HTTP server...")
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			errors = append(errors, fmt.Errorf("HTTP server shutdown: %w", err))
		} else {
			r.log.Info("HTTP server shutdown complete")
		}
	}

	// Close Redis connection with health check
	if r.redisClient != nil {
		r.log.Info("Closing Redis connection...")

		healthCtx, healthCancel := context.WithTimeout(ctx, 2*time.Second)
		if err := r.redisClient.Health(healthCtx); err != nil {
			r.log.WithError(err).Warn("Redis health check failed before closing")
		}
		healthCancel()

		if err := r.redisClient.Close(); err != nil {
			r.log.WithError(err).Error("Failed to close Redis connection")
			errors = append(errors, fmt.Errorf("Redis close: %w", err))
		} else {
			r.log.Info("Redis connection closed successfully")
		}
	}

	// Close database connection pool with health check
	if r.db != nil {
		r.log.Info("Closing database connection pool...")

		healthCtx, healthCancel := context.WithTimeout(ctx, 2*time.Second)
		if err := r.db.Health(healthCtx); err != nil {
			r.log.WithError(err).Warn("Database health check failed before closing")
		}
		healthCancel()

		r.db.Close()
		r.log.Info("Database connection pool closed successfully")
	}

	if len(errors) > 0 {
		r.log.WithField("error_count", len(errors)).Error("Cleanup completed with errors")
		return fmt.Errorf("cleanup completed with %d errors: %v", len(errors), errors)
	}

	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Starting vidtube server")

	// Create dependency injection container
	container, err := container.New(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}

	// Initialize database connection
	ctx := context.Background()
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	// Initialize media storage
	mediaStorage, err := storage.NewS3Storage(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize media storage")
	}

	// Wire repositories and services
	container.WireServices(db, mediaStorage)

	// Setup router
	router := setupRouter(container, db)

	// Create HTTP server
	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB max header size
	}

	// Create resources manager for cleanup
	resources := &Resources{
		db:          db,
		redisClient: container.GetRedisClient(),
		server:      server,
		log:         log,
	}

	// Setup graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error occurred")
			serverErrChan <- err
		}
	}()

	// Wait for interrupt signal or server error
	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	log.Info("Initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(container *container.Container, db *database.PostgresDB) *chi.Mux {
	cfg := container.GetConfig()
	log := container.GetLogger()
	authService := container.GetAuthService()

	r := chi.NewRouter()

	corsConfig := &middleware.CORSConfig{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}

	r.Use(middleware.CORS(corsConfig, log))
	r.Use(middleware.RequestID(log))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Create handlers
	healthHandler := handler.NewHealthHandler(container, db)
	userHandler := handler.NewUserHandler(container)
	videoHandler := handler.NewVideoHandler(container)
	playlistHandler := handler.NewPlaylistHandler(container)
	commentHandler := handler.NewCommentHandler(container)
	likeHandler := handler.NewLikeHandler(container)
	subscriptionHandler := handler.NewSubscriptionHandler(container)
	tweetHandler := handler.NewTweetHandler(container)

	// Health check (no auth required)
	r.Get("/health", healthHandler.Check)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)
			r.Post("/refresh-token", userHandler.RefreshToken)

			r.Group(func(r chi.Router) {
				r.Use(middleware.OptionalAuth(authService, log))
				r.Get("/c/{username}", userHandler.ChannelProfile)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(authService, log))
				r.Post("/logout", userHandler.Logout)
				r.Post("/change-password", userHandler.ChangePassword)
				r.Get("/current-user", userHandler.CurrentUser)
				r.Patch("/update-account", userHandler.UpdateAccount)
				r.Patch("/avatar", userHandler.UpdateAvatar)
				r.Patch("/cover-image", userHandler.UpdateCoverImage)
				r.Get("/history", userHandler.WatchHistory)
			})
		})

		r.Route("/videos", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.OptionalAuth(authService, log))
				r.Get("/", videoHandler.List)
				r.Get("/{videoId}", videoHandler.Get)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(authService, log))
				r.Post("/", videoHandler.Publish)
				r.Patch("/{videoId}", videoHandler.Update)
				r.Delete("/{videoId}", videoHandler.Delete)
				r.Patch("/toggle/publish/{videoId}", videoHandler.TogglePublish)
			})
		})

		r.Route("/playlist", func(r chi.Router) {
			r.Get("/{playlistId}", playlistHandler.Get)
			r.Get("/user/{userId}", playlistHandler.ListForUser)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(authService, log))
				r.Post("/", playlistHandler.Create)
				r.Patch("/{playlistId}", playlistHandler.Update)
				r.Delete("/{playlistId}", playlistHandler.Delete)
				r.Patch("/add/{videoId}/{playlistId}", playlistHandler.AddVideo)
				r.Patch("/remove/{videoId}/{playlistId}", playlistHandler.RemoveVideo)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/{videoId}", commentHandler.ListForVideo)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(authService, log))
				r.Post("/{videoId}", commentHandler.Add)
			})
		})

		r.Route("/likes", func(r chi.Router) {
			r.Use(middleware.Auth(authService, log))
			r.Post("/toggle/v/{videoId}", likeHandler.ToggleVideoLike)
			r.Post("/toggle/c/{commentId}", likeHandler.ToggleCommentLike)
			r.Post("/toggle/t/{tweetId}", likeHandler.ToggleTweetLike)
			r.Get("/videos", likeHandler.LikedVideos)
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/stats/{channelId}", subscriptionHandler.ChannelStats)
			r.Get("/u/{subscriberId}", subscriptionHandler.SubscribedChannels)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(authService, log))
				r.Post("/c/{channelId}", subscriptionHandler.Toggle)
			})
		})

		r.Route("/tweets", func(r chi.Router) {
			r.Get("/user/{userId}", tweetHandler.ListForUser)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(authService, log))
				r.Post("/", tweetHandler.Create)
				r.Patch("/{tweetId}", tweetHandler.Update)
				r.Delete("/{tweetId}", tweetHandler.Delete)
			})
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"statusCode":404,"message":"Endpoint not found","success":false,"errors":[]}`))
	})

	log.Info("Router configured successfully")
	return r
}
